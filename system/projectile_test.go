package system

import (
	"testing"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/vmath"
)

func TestFireThenLaunchNextTick(t *testing.T) {
	m := newTestMatch(t, "a")
	m.place(t, "a", 500, 500)

	got, err := Fire(m.gs, "a", 0, 100)
	if err != nil || got != 1 {
		t.Fatalf("Fire = %d err=%v, want 1", got, err)
	}
	if s := m.slot(t, "a", 0); s.Status != component.ProjectileReadyToLaunch {
		t.Fatalf("status = %v, want ready until next tick", s.Status)
	}

	m.apply(t, m.set.Projectile)
	s := m.slot(t, "a", 0)
	if s.Status != component.ProjectileFlying {
		t.Fatalf("status = %v, want flying", s.Status)
	}
	if s.Distance != 50 || !near(s.Position.X, 550) || s.StartPos != vmath.Pt(500, 500) {
		t.Errorf("flying slot = %+v", s)
	}

	launches := m.drain(event.EventLaunch)
	if len(launches) != 1 {
		t.Fatalf("launch events = %d, want 1", len(launches))
	}
	p := launches[0].Payload.(event.LaunchPayload)
	if p.Player != "a" || p.Range != 100 || p.Heading != 0 || p.Origin != vmath.Pt(500, 500) {
		t.Errorf("launch payload = %+v", p)
	}
}

func TestFireWhileReloadingIsNoop(t *testing.T) {
	m := newTestMatch(t, "a")
	err := m.gs.With(engine.Access{Projectiles: engine.ModeWrite}, func(tx *engine.Tx) error {
		pc, err := tx.Projectiles("a")
		if err != nil {
			return err
		}
		pc.Projectiles[0].CycleCount = 4
		pc.Projectiles[1].Status = component.ProjectileFlying
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Fire(m.gs, "a", 90, 100)
	if err != nil || got != 0 {
		t.Fatalf("Fire = %d err=%v, want 0", got, err)
	}
	s0, s1 := m.slot(t, "a", 0), m.slot(t, "a", 1)
	if s0.Status != component.ProjectileAvailable || s0.CycleCount != 4 {
		t.Errorf("slot 0 changed: %+v", s0)
	}
	if s1.Status != component.ProjectileFlying {
		t.Errorf("slot 1 changed: %+v", s1)
	}
}

func TestFireUsesSecondSlot(t *testing.T) {
	m := newTestMatch(t, "a")
	Fire(m.gs, "a", 0, 100)
	if got, _ := Fire(m.gs, "a", 90, 100); got != 1 {
		t.Fatalf("second Fire = %d, want 1", got)
	}
	if got, _ := Fire(m.gs, "a", 180, 100); got != 0 {
		t.Errorf("third Fire = %d, want 0", got)
	}
	if s := m.slot(t, "a", 1); s.Status != component.ProjectileReadyToLaunch || s.Order.Angle != 90 {
		t.Errorf("slot 1 = %+v", s)
	}
}

func TestDeadBotCannotFire(t *testing.T) {
	m := newTestMatch(t, "a")
	m.setDamage(t, "a", 100)
	if got, _ := Fire(m.gs, "a", 0, 100); got != 0 {
		t.Errorf("dead Fire = %d, want 0", got)
	}
}

func TestExplosionLifecycle(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	m.place(t, "a", 500, 500)
	m.place(t, "b", 600, 500)
	Fire(m.gs, "a", 0, 100)

	m.apply(t, m.set.Projectile) // flying at 50
	m.apply(t, m.set.Projectile) // reaches range

	s := m.slot(t, "a", 0)
	if s.Status != component.ProjectileExploding || s.CycleCount != config.Default().Projectile.ExplodeCycles {
		t.Fatalf("slot = %+v, want exploding with full count", s)
	}
	if len(m.drain(event.EventExplode)) != 1 {
		t.Error("missing explode event")
	}

	splashTicks := 0
	if s.Hits["b"] == 10 {
		splashTicks++
	}
	for i := 0; i < 10; i++ {
		m.apply(t, m.set.Projectile)
		s = m.slot(t, "a", 0)
		if s.Hits["b"] == 10 {
			splashTicks++
		}
		if s.Status == component.ProjectileAvailable {
			break
		}
	}
	if splashTicks != 5 {
		t.Errorf("splash ticks = %d, want 5", splashTicks)
	}
	if s.Status != component.ProjectileAvailable || s.CycleCount != 15 {
		t.Errorf("after explosion slot = %+v, want available with reload 15", s)
	}
	if _, ok := s.Hits["a"]; ok {
		t.Error("shooter 100 units away was staged a hit")
	}
	if len(m.drain(event.EventExplode)) != 0 {
		t.Error("explode emitted more than once")
	}

	m.apply(t, m.set.Projectile)
	if got := m.slot(t, "a", 0).CycleCount; got != 14 {
		t.Errorf("reload counter = %d, want 14", got)
	}
	if got, _ := Fire(m.gs, "a", 0, 100); got != 1 {
		t.Errorf("second slot should still fire, got %d", got)
	}
}

func TestProjectileExplodesAtWall(t *testing.T) {
	m := newTestMatch(t, "a")
	m.place(t, "a", 980, 500)
	Fire(m.gs, "a", 0, 200)

	m.apply(t, m.set.Projectile)
	s := m.slot(t, "a", 0)
	if s.Status != component.ProjectileExploding {
		t.Fatalf("status = %v, want exploding at wall", s.Status)
	}
	if s.Position.X != 999 {
		t.Errorf("x = %v, want clamped 999", s.Position.X)
	}
}

func TestSplashDirectRadiusInclusive(t *testing.T) {
	m := newTestMatch(t, "a", "edge", "near", "far", "out")
	m.place(t, "edge", 605, 500)
	m.place(t, "near", 600, 520)
	m.place(t, "far", 600, 460)
	m.place(t, "out", 641, 500)
	m.place(t, "a", 500, 500)
	Fire(m.gs, "a", 0, 100)

	m.apply(t, m.set.Projectile)
	m.apply(t, m.set.Projectile)

	hits := m.slot(t, "a", 0).Hits
	want := map[string]int{"edge": 10, "near": 5, "far": 3}
	for id, amount := range want {
		if got := hits[core.PlayerID(id)]; got != amount {
			t.Errorf("%s hit = %d, want %d", id, got, amount)
		}
	}
	if _, ok := hits["out"]; ok {
		t.Error("target beyond far tier was hit")
	}
}

func TestTierDamage(t *testing.T) {
	tiers := config.Default().Projectile.Tiers
	tests := []struct {
		d      float64
		amount int
		ok     bool
	}{
		{0, 10, true},
		{5, 10, true},
		{5.0001, 5, true},
		{20, 5, true},
		{40, 3, true},
		{40.01, 0, false},
	}
	for _, tt := range tests {
		amount, ok := TierDamage(tiers, tt.d)
		if amount != tt.amount || ok != tt.ok {
			t.Errorf("TierDamage(%v) = %d,%v want %d,%v", tt.d, amount, ok, tt.amount, tt.ok)
		}
	}
}

func TestUnsortedTiersAreSorted(t *testing.T) {
	cfg := config.Default()
	cfg.Projectile.Tiers = []config.DamageTier{{Radius: 40, Amount: 3}, {Radius: 5, Amount: 10}, {Radius: 20, Amount: 5}}
	sys := NewProjectileSystem(cfg, nil)
	if amount, _ := TierDamage(sys.tiers, 1); amount != 10 {
		t.Errorf("innermost tier not first: %d", amount)
	}
}
