package system

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/status"
)

func TestGameloopRunsToCycleLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("long run")
	}
	cfg := config.Default()
	cfg.Game.MaxCycles = 100_000
	m := newTestMatchWith(t, cfg, "alpha", "bravo", "charlie")

	router := event.NewRouter[context.Context](m.queue)
	reg := status.NewRegistry()
	router.Register(engine.NewMetricsHandler(reg))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	loop := engine.NewGameloop(m.gs, m.set.Ordered(), router, reg, logger)
	reason, err := loop.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if reason != engine.ReasonCycleCountExceeded {
		t.Errorf("reason = %v, want cycle_count_exceeded", reason)
	}
	if got := m.gs.Cycle(); got != 100_000 {
		t.Errorf("cycle = %d, want 100000", got)
	}
	if got := reg.Ints.Get(status.EngineCycles).Load(); got != 100_000 {
		t.Errorf("engine.cycles = %d", got)
	}
}

func TestGameloopDuelToLastStanding(t *testing.T) {
	cfg := config.Default()
	cfg.Game.StopOnLastStanding = true
	cfg.Game.MaxCycles = 10_000
	m := newTestMatchWith(t, cfg, "a", "b")
	m.place(t, "a", 500, 500)
	m.place(t, "b", 600, 500)

	router := event.NewRouter[context.Context](m.queue)
	reg := status.NewRegistry()
	router.Register(engine.NewMetricsHandler(reg))

	// a fires at b whenever a slot is free
	shooter := fireEverySystem{}
	systems := append([]engine.System{shooter}, m.set.Ordered()...)

	reason, err := engine.NewGameloop(m.gs, systems, router, reg, nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if reason != engine.ReasonLastCombatantStanding {
		t.Fatalf("reason = %v, want last_combatant_standing", reason)
	}
	da, db := m.damage(t, "a"), m.damage(t, "b")
	if !db.Dead() || da.Dead() {
		t.Errorf("wrong survivor: a=%+v b=%+v", da, db)
	}
	if got := reg.Ints.Get(status.CombatDeaths).Load(); got != 1 {
		t.Errorf("combat.deaths = %d, want 1", got)
	}
	if got := reg.Ints.Get(status.DamageTotal).Load(); got < 100 {
		t.Errorf("damage.total = %d, want >= 100", got)
	}
}

type fireEverySystem struct{}

func (fireEverySystem) Name() string { return "test-shooter" }

func (fireEverySystem) Apply(_ context.Context, gs *engine.GameState) error {
	_, err := Fire(gs, "a", 0, 100)
	return err
}
