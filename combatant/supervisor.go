// Package combatant owns the lifecycle of bot programs: loading under the
// configured failure policy, one goroutine per bot, and a bounded join.
package combatant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/sandbox"
	"github.com/lixenwraith/war-arena/status"
)

var (
	// ErrJoinTimeout reports bots still running after Stop's deadline
	ErrJoinTimeout = errors.New("bots did not exit in time")

	// ErrDuplicateBot rejects a second bot with an already registered name
	ErrDuplicateBot = errors.New("duplicate bot")

	// ErrStarted rejects Load or Start after Start
	ErrStarted = errors.New("supervisor already started")
)

// Result is the outcome of one bot after the match
type Result struct {
	ID       core.PlayerID
	Kind     sandbox.Kind
	Finished bool
	Err      error
}

type bot struct {
	id     core.PlayerID
	module sandbox.Module

	finished atomic.Bool
	err      error // written by the bot goroutine before finished is set
}

// Supervisor loads bots into a game state and runs them
type Supervisor struct {
	gs      *engine.GameState
	runtime sandbox.Runtime
	reg     *status.Registry
	logger  *slog.Logger
	policy  config.LoadPolicy

	mu       sync.Mutex
	bots     []*bot
	excluded []string
	started  bool
	cancel   context.CancelFunc
	done     chan struct{}
	failure  error // first bot failure, written before done is closed

	running *atomic.Int64
}

// NewSupervisor creates a supervisor using the game config's load policy
func NewSupervisor(gs *engine.GameState, rt sandbox.Runtime, reg *status.Registry, logger *slog.Logger) *Supervisor {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		gs:      gs,
		runtime: rt,
		reg:     reg,
		logger:  logger,
		policy:  gs.Config().Game.LoadFailure,
		done:    make(chan struct{}),
		running: reg.Ints.Get(status.CombatantsRunning),
	}
}

// Load compiles a bot and registers it as a player
// Under the exclude policy a compile failure is logged and Load returns nil
func (s *Supervisor) Load(ctx context.Context, name string, code []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrStarted
	}

	m, err := s.runtime.Compile(ctx, name, code)
	if err != nil {
		if s.policy == config.LoadExclude {
			s.logger.Warn("bot excluded", "bot", name, "error", err)
			s.excluded = append(s.excluded, name)
			return nil
		}
		return fmt.Errorf("load %s: %w", name, err)
	}

	id := core.PlayerID(name)
	added, err := s.gs.Register(id)
	if err != nil {
		m.Close(ctx)
		return fmt.Errorf("register %s: %w", name, err)
	}
	if !added {
		m.Close(ctx)
		return fmt.Errorf("%w: %s", ErrDuplicateBot, name)
	}

	s.bots = append(s.bots, &bot{id: id, module: m})
	s.logger.Info("bot loaded", "bot", name, "kind", m.Kind())
	return nil
}

// Bots returns loaded bot ids in load order
func (s *Supervisor) Bots() []core.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.PlayerID, len(s.bots))
	for i, b := range s.bots {
		out[i] = b.id
	}
	return out
}

// Excluded returns names of bots dropped by the exclude policy
func (s *Supervisor) Excluded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.excluded...)
}

// Start runs every bot's entry point on its own goroutine
// A bot returning, failing or panicking is logged and never affects the gameloop
// or the other bots; the first failure is kept for Err
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	var g errgroup.Group
	for _, b := range s.bots {
		bridge := sandbox.NewBridge(s.gs, b.id, s.reg)
		s.running.Add(1)
		g.Go(func() error {
			defer s.running.Add(-1)
			b.err = core.Recover(func() error {
				return b.module.Run(ctx, bridge)
			})
			b.finished.Store(true)
			s.report(b)
			if b.err == nil || errors.Is(b.err, sandbox.ErrCancelled) {
				return nil
			}
			return fmt.Errorf("bot %s: %w", b.id, b.err)
		})
	}

	done := s.done
	core.Go(func() {
		s.failure = g.Wait()
		close(done)
	})
	return nil
}

// Err returns the first bot failure once every bot has exited
// Returns nil while bots are running or when all returned or were cancelled
func (s *Supervisor) Err() error {
	select {
	case <-s.done:
		return s.failure
	default:
		return nil
	}
}

func (s *Supervisor) report(b *bot) {
	switch {
	case b.err == nil:
		s.logger.Info("bot returned", "bot", b.id)
	case errors.Is(b.err, sandbox.ErrCancelled):
		s.logger.Debug("bot cancelled", "bot", b.id)
	default:
		s.logger.Warn("bot failed", "bot", b.id, "error", b.err)
	}
}

// Stop cancels every bot and waits up to timeout for all of them to exit
// Returns an ErrJoinTimeout naming the bots still running
func (s *Supervisor) Stop(timeout time.Duration) error {
	s.mu.Lock()
	started, cancel, done := s.started, s.cancel, s.done
	s.mu.Unlock()
	if !started {
		return nil
	}
	cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
	}

	var stuck []string
	for _, b := range s.bots {
		if !b.finished.Load() {
			stuck = append(stuck, string(b.id))
		}
	}
	s.logger.Error("bot join timed out", "bots", stuck, "timeout", timeout)
	return fmt.Errorf("%w: %s", ErrJoinTimeout, strings.Join(stuck, ", "))
}

// Results reports each bot's outcome; Err is only meaningful when Finished
func (s *Supervisor) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.bots))
	for i, b := range s.bots {
		r := Result{ID: b.id, Kind: b.module.Kind(), Finished: b.finished.Load()}
		if r.Finished {
			r.Err = b.err
		}
		out[i] = r
	}
	return out
}

// Close releases modules of bots that have exited
func (s *Supervisor) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, b := range s.bots {
		if s.started && !b.finished.Load() {
			continue
		}
		errs = append(errs, b.module.Close(ctx))
	}
	return errors.Join(errs...)
}
