package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/status"
)

// System is one per-cycle pass over the game state
type System interface {
	Name() string
	Apply(ctx context.Context, gs *GameState) error
}

// TerminationReason is why a gameloop stopped
type TerminationReason uint8

const (
	ReasonNone TerminationReason = iota
	ReasonCycleCountExceeded
	ReasonCancelled
	ReasonLastCombatantStanding
)

// String returns the reason in snake case
func (r TerminationReason) String() string {
	switch r {
	case ReasonCycleCountExceeded:
		return "cycle_count_exceeded"
	case ReasonCancelled:
		return "cancelled"
	case ReasonLastCombatantStanding:
		return "last_combatant_standing"
	default:
		return "none"
	}
}

// Gameloop drives systems in fixed order once per cycle
// Running(cycle) -> ... -> Terminated(reason)
type Gameloop struct {
	gs      *GameState
	systems []System
	router  *event.Router[context.Context]
	logger  *slog.Logger

	maxCycles  uint64
	tick       time.Duration
	stopOnLast bool

	// Cached metric pointers
	statCycles      *atomic.Int64
	statRate        *status.Rate
	statTermination *status.AtomicString
	statRunning     *atomic.Bool
}

// NewGameloop binds systems, in the order given, to a game state
// router may be nil when no event observers are attached
func NewGameloop(gs *GameState, systems []System, router *event.Router[context.Context], reg *status.Registry, logger *slog.Logger) *Gameloop {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := gs.Config().Game
	return &Gameloop{
		gs:              gs,
		systems:         systems,
		router:          router,
		logger:          logger,
		maxCycles:       g.MaxCycles,
		tick:            g.TickInterval,
		stopOnLast:      g.StopOnLastStanding,
		statCycles:      reg.Ints.Get(status.EngineCycles),
		statRate:        reg.Rates.Get(status.EngineCycleRate),
		statTermination: reg.Strings.Get(status.EngineTermination),
		statRunning:     reg.Bools.Get(status.EngineRunning),
	}
}

// Step runs one cycle: every system in order, event dispatch, then cycle increment
func (l *Gameloop) Step(ctx context.Context) error {
	for _, sys := range l.systems {
		if err := sys.Apply(ctx, l.gs); err != nil {
			return fmt.Errorf("cycle %d %s: %w", l.gs.Cycle(), sys.Name(), err)
		}
	}
	if l.router != nil {
		l.router.DispatchAll(ctx)
	}
	l.gs.advance()
	l.statCycles.Add(1)
	return nil
}

// Run loops until a termination condition or an error
// A poisoned store ends the loop with an error wrapping ErrPoisoned
func (l *Gameloop) Run(ctx context.Context) (reason TerminationReason, err error) {
	ctx, span := otel.Tracer("github.com/lixenwraith/war-arena/engine").Start(ctx, "gameloop.run",
		trace.WithAttributes(attribute.Int64("gameloop.max_cycles", int64(l.maxCycles))))
	defer span.End()

	start := time.Now()
	l.statRunning.Store(true)
	l.logger.Info("gameloop started", "max_cycles", l.maxCycles, "systems", len(l.systems), "tick", l.tick)

	defer func() {
		l.statRunning.Store(false)
		cycles := l.gs.Cycle()
		l.statRate.Observe(cycles, time.Since(start))
		l.statTermination.Store(reason.String())
		span.SetAttributes(
			attribute.Int64("gameloop.cycles", int64(cycles)),
			attribute.String("gameloop.reason", reason.String()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			l.logger.Error("gameloop failed", "cycle", cycles, "error", err)
			return
		}
		l.logger.Info("gameloop terminated", "cycle", cycles, "reason", reason.String(), "elapsed", time.Since(start))
	}()

	var ticker *time.Ticker
	if l.tick > 0 {
		ticker = time.NewTicker(l.tick)
		defer ticker.Stop()
	}

	for {
		if l.gs.Cycle() >= l.maxCycles {
			return ReasonCycleCountExceeded, nil
		}
		if ctx.Err() != nil {
			return ReasonCancelled, nil
		}

		if err := l.Step(ctx); err != nil {
			return ReasonNone, err
		}

		if l.stopOnLast {
			alive, total, err := l.gs.LivingCount()
			if err != nil {
				return ReasonNone, err
			}
			if total > 1 && alive <= 1 {
				span.AddEvent("last_combatant_standing", trace.WithAttributes(attribute.Int("players.alive", alive)))
				return ReasonLastCombatantStanding, nil
			}
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ReasonCancelled, nil
			case <-ticker.C:
			}
		}
	}
}
