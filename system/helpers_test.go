package system

import (
	"context"
	"testing"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/vmath"
)

type testMatch struct {
	gs    *engine.GameState
	set   *Set
	queue *event.EventQueue
}

func newTestMatch(t *testing.T, ids ...core.PlayerID) *testMatch {
	t.Helper()
	return newTestMatchWith(t, config.Default(), ids...)
}

func newTestMatchWith(t *testing.T, cfg *config.Config, ids ...core.PlayerID) *testMatch {
	t.Helper()
	cfg.Arena.Seed = 1
	gs := engine.NewGameState(cfg)
	q := event.NewEventQueue()
	for _, id := range ids {
		if _, err := gs.Register(id); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return &testMatch{gs: gs, set: NewSet(cfg, event.NewEmitter(q, gs.Cycle)), queue: q}
}

// place teleports a bot and restarts its travel from there
func (m *testMatch) place(t *testing.T, id core.PlayerID, x, y float64) {
	t.Helper()
	err := m.gs.WriteMotion(id, func(mc *component.MotionComponent) {
		mc.Position = vmath.Pt(x, y)
		mc.Origin = mc.Position
		mc.DistanceAlongHeading = 0
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (m *testMatch) motion(t *testing.T, id core.PlayerID) component.MotionComponent {
	t.Helper()
	mc, err := m.gs.ReadMotion(id)
	if err != nil {
		t.Fatal(err)
	}
	return mc
}

func (m *testMatch) damage(t *testing.T, id core.PlayerID) component.DamageComponent {
	t.Helper()
	dc, err := m.gs.ReadDamage(id)
	if err != nil {
		t.Fatal(err)
	}
	return dc
}

func (m *testMatch) slot(t *testing.T, id core.PlayerID, i int) component.Projectile {
	t.Helper()
	snap, err := m.gs.Snapshot(id)
	if err != nil {
		t.Fatal(err)
	}
	return snap.Projectiles.Projectiles[i]
}

func (m *testMatch) setDamage(t *testing.T, id core.PlayerID, amount int) {
	t.Helper()
	err := m.gs.With(engine.Access{Damage: engine.ModeWrite}, func(tx *engine.Tx) error {
		dc, err := tx.Damage(id)
		if err != nil {
			return err
		}
		dc.Damage = amount
		if amount >= 100 {
			dc.Status = component.DamageDead
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (m *testMatch) apply(t *testing.T, sys engine.System) {
	t.Helper()
	if err := sys.Apply(context.Background(), m.gs); err != nil {
		t.Fatalf("%s: %v", sys.Name(), err)
	}
}

// cycle runs every system in order without advancing the cycle counter
func (m *testMatch) cycle(t *testing.T) {
	t.Helper()
	for _, sys := range m.set.Ordered() {
		m.apply(t, sys)
	}
}

func (m *testMatch) drain(typ event.EventType) []event.GameEvent {
	var out []event.GameEvent
	for _, ev := range m.queue.Consume() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
