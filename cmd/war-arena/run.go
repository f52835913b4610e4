package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/war-arena/combatant"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/logging"
	"github.com/lixenwraith/war-arena/sandbox"
	"github.com/lixenwraith/war-arena/status"
	"github.com/lixenwraith/war-arena/system"
	"github.com/lixenwraith/war-arena/telemetry"
)

// ErrTooManyBots rejects a match with more bot files than game.num_combatants
var ErrTooManyBots = errors.New("too many bots")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <bot>...",
		Short: "Run a match between bot programs",
		Long: `Loads every bot file (WebAssembly modules by magic number, Lua otherwise),
runs the match to completion and prints a per-bot report.

The bot name is the file name without extension and must be unique.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			eventsPath, _ := cmd.Flags().GetString("events")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			return runMatch(ctx, cfg, args, eventsPath, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().Uint64("cycles", 0, "Maximum simulation cycles (overrides game.max_cycles)")
	cmd.Flags().Int64("seed", 0, "Spawn seed; 0 picks a time-based seed")
	cmd.Flags().Duration("join-timeout", 0, "Wait for bot goroutines after the match ends")
	cmd.Flags().Bool("exclude-failed", false, "Drop bots that fail to load instead of aborting")
	cmd.Flags().String("events", "", "Write every game event as JSON lines to this file")
	return cmd
}

func runMatch(ctx context.Context, cfg *config.Config, paths []string, eventsPath string, out io.Writer, logger *slog.Logger) error {
	if len(paths) > cfg.Game.NumCombatants {
		return fmt.Errorf("%w: %d bot files, game.num_combatants is %d", ErrTooManyBots, len(paths), cfg.Game.NumCombatants)
	}

	logger = logger.With("run", uuid.NewString())

	shutdown, err := telemetry.Setup(ctx, "war-arena", cfg.Telemetry)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			logger.Warn("tracing shutdown", "error", serr)
		}
	}()

	reg := status.NewRegistry()
	gs := engine.NewGameState(cfg)

	host := sandbox.NewHost(ctx, cfg.Sandbox, logger)
	defer host.Close(context.Background())

	sup := combatant.NewSupervisor(gs, host, reg, logger)
	for _, path := range paths {
		code, rerr := os.ReadFile(path)
		if rerr != nil {
			return fmt.Errorf("reading bot: %w", rerr)
		}
		if lerr := sup.Load(ctx, botName(path), code); lerr != nil {
			sup.Close(context.Background())
			return lerr
		}
	}
	if len(sup.Bots()) == 0 {
		return errors.New("no bots loaded")
	}

	queue := event.NewEventQueue()
	router := event.NewRouter[context.Context](queue)
	router.Register(logging.NewEventLogger(logger))
	router.Register(engine.NewMetricsHandler(reg))
	if eventsPath != "" {
		f, ferr := os.Create(eventsPath)
		if ferr != nil {
			return fmt.Errorf("creating event log: %w", ferr)
		}
		defer f.Close()
		router.Register(logging.NewEventLogger(logging.NewJSONLogger(f)))
	}

	set := system.NewSet(cfg, event.NewEmitter(queue, gs.Cycle))
	loop := engine.NewGameloop(gs, set.Ordered(), router, reg, logger)

	if err := sup.Start(ctx); err != nil {
		return err
	}
	reason, runErr := loop.Run(ctx)
	stopErr := sup.Stop(cfg.Game.JoinTimeout)
	defer sup.Close(context.Background())

	if ferr := sup.Err(); ferr != nil {
		logger.Warn("first bot failure", "error", ferr)
	}
	if dropped := queue.Dropped(); dropped > 0 {
		logger.Warn("events dropped", "count", dropped, "by_type", queue.DroppedByType())
	}

	if err := writeReport(out, gs, sup, reg, reason); err != nil {
		return err
	}
	return errors.Join(runErr, stopErr)
}

func writeReport(out io.Writer, gs *engine.GameState, sup *combatant.Supervisor, reg *status.Registry, reason engine.TerminationReason) error {
	fmt.Fprintf(out, "match ended: %s after %d cycles\n\n", reason, gs.Cycle())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOT\tKIND\tSTATUS\tDAMAGE\tX\tY\tEXIT")
	for _, r := range sup.Results() {
		snap, err := gs.Snapshot(r.ID)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", r.ID, err)
		}
		exit := "running"
		switch {
		case r.Finished && r.Err == nil:
			exit = "returned"
		case r.Finished:
			exit = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\t%.1f\t%s\n",
			r.ID, r.Kind, snap.Damage.Status, snap.Damage.Damage,
			snap.Motion.Position.X, snap.Motion.Position.Y, exit)
	}
	for _, name := range sup.Excluded() {
		fmt.Fprintf(tw, "%s\t-\texcluded\t-\t-\t-\t-\n", name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	metrics := reg.Snapshot()
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Fprintln(out)
	for _, k := range keys {
		fmt.Fprintf(out, "%s = %v\n", k, metrics[k])
	}
	return nil
}
