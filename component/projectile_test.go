package component

import (
	"testing"

	"github.com/lixenwraith/war-arena/vmath"
)

func TestLaunchUsesFirstFreeSlot(t *testing.T) {
	var pc ProjectileComponent

	if got := pc.Launch(vmath.Pt(10, 10), 90, 150, 200); got != 1 {
		t.Fatalf("first launch = %d, want 1", got)
	}
	if pc.Projectiles[0].Status != ProjectileReadyToLaunch {
		t.Errorf("slot 0 status = %v, want ready", pc.Projectiles[0].Status)
	}

	if got := pc.Launch(vmath.Pt(10, 10), 90, 150, 200); got != 1 {
		t.Fatalf("second launch = %d, want 1", got)
	}
	if pc.Projectiles[1].Status != ProjectileReadyToLaunch {
		t.Errorf("slot 1 status = %v, want ready", pc.Projectiles[1].Status)
	}

	if got := pc.Launch(vmath.Pt(10, 10), 90, 150, 200); got != 0 {
		t.Errorf("third launch = %d, want 0 with both slots busy", got)
	}
}

func TestLaunchRespectsReload(t *testing.T) {
	var pc ProjectileComponent
	pc.Projectiles[0].CycleCount = 3
	pc.Projectiles[1].Status = ProjectileFlying

	before := pc
	if got := pc.Launch(vmath.Pt(0, 0), 0, 100, 200); got != 0 {
		t.Fatalf("launch while reloading = %d, want 0", got)
	}
	if pc.Projectiles[0].Status != before.Projectiles[0].Status || pc.Projectiles[0].CycleCount != 3 {
		t.Errorf("reloading slot changed: %+v", pc.Projectiles[0])
	}
}

func TestLaunchCapsRange(t *testing.T) {
	var pc ProjectileComponent
	pc.Launch(vmath.Pt(0, 0), 370, 5000, 200)

	order := pc.Projectiles[0].Order
	if order.Range != 200 {
		t.Errorf("range = %d, want capped 200", order.Range)
	}
	if order.Angle != 10 {
		t.Errorf("angle = %d, want normalized 10", order.Angle)
	}
}

func TestDamageResolveIsOneWay(t *testing.T) {
	var dc DamageComponent

	dc.Add(60)
	if dc.Resolve(100) {
		t.Fatal("died below max")
	}
	dc.Add(60)
	if !dc.Resolve(100) {
		t.Fatal("did not die at max")
	}
	if dc.Damage != 100 {
		t.Errorf("damage = %d, want clamped 100", dc.Damage)
	}

	dc.Add(10)
	if dc.Resolve(100) {
		t.Error("second death reported")
	}
	if !dc.Dead() || dc.Damage != 100 {
		t.Errorf("dead state changed: %+v", dc)
	}
}

func TestProjectileResetKeepsMap(t *testing.T) {
	p := Projectile{Status: ProjectileExploding, CycleCount: 2, Range: 100}
	p.AddHit("a", 10)
	p.AddHit("a", 3)
	if p.Hits["a"] != 10 {
		t.Errorf("AddHit overwrote first amount: %d", p.Hits["a"])
	}

	p.Reset()
	if p.Status != ProjectileAvailable || p.Range != 0 || p.CycleCount != 0 {
		t.Errorf("Reset left state: %+v", p)
	}
	if len(p.Hits) != 0 {
		t.Errorf("Reset left hits: %v", p.Hits)
	}
}
