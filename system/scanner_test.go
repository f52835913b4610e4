package system

import (
	"testing"
)

func TestScanReturnsNearest(t *testing.T) {
	m := newTestMatch(t, "a", "far", "close")
	m.place(t, "a", 100, 100)
	m.place(t, "far", 200, 100)
	m.place(t, "close", 150, 100)

	got, err := Scan(m.gs, "a", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 50 {
		t.Errorf("Scan = %d, want nearest 50", got)
	}

	m.setDamage(t, "close", 100)
	if got, _ := Scan(m.gs, "a", 0, 2); got != 100 {
		t.Errorf("Scan after death = %d, want 100", got)
	}
}

func TestScanIgnoresSelfAndRange(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	m.place(t, "a", 100, 100)
	m.place(t, "b", 950, 100)

	if got, _ := Scan(m.gs, "a", 0, 10); got != 0 {
		t.Errorf("Scan beyond max range = %d, want 0", got)
	}

	m.place(t, "b", 800, 100)
	if got, _ := Scan(m.gs, "a", 0, 10); got != 700 {
		t.Errorf("Scan at max range = %d, want 700", got)
	}

	solo := newTestMatch(t, "only")
	if got, _ := Scan(solo.gs, "only", 0, 10); got != 0 {
		t.Errorf("Scan alone = %d, want 0", got)
	}
}

func TestScanWrapsAngle(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	m.place(t, "a", 500, 500)
	m.place(t, "b", 600, 491.3) // bearing about -5 degrees

	if got, _ := Scan(m.gs, "a", 5, 10); got != 100 {
		t.Errorf("Scan across 0/360 = %d, want 100", got)
	}
	if got, _ := Scan(m.gs, "a", 355, 1); got != 100 {
		t.Errorf("Scan at 355 = %d, want 100", got)
	}
	if got, _ := Scan(m.gs, "a", 20, 10); got != 0 {
		t.Errorf("Scan outside cone = %d, want 0", got)
	}
}

func TestScanBehindAtHalfTurn(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	m.place(t, "a", 500, 500)
	m.place(t, "b", 400, 500)

	for _, angle := range []int{180, -180, 540} {
		if got, _ := Scan(m.gs, "a", angle, 0); got != 100 {
			t.Errorf("Scan(%d) = %d, want 100", angle, got)
		}
	}
}

func TestScanClampsResolution(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	m.place(t, "a", 500, 500)
	m.place(t, "b", 600, 600) // bearing 45

	if got, _ := Scan(m.gs, "a", 0, 90); got != 0 {
		t.Errorf("Scan with oversized resolution = %d, want 0 after clamp", got)
	}

	snap, _ := m.gs.Snapshot("a")
	if snap.Scanner.Resolution != 10 || snap.Scanner.Angle != 0 {
		t.Errorf("scanner component = %+v, want angle 0 resolution 10", snap.Scanner)
	}

	if got, _ := Scan(m.gs, "a", 40, -3); got != 0 {
		t.Errorf("Scan with negative resolution = %d, want 0", got)
	}
	if got, _ := Scan(m.gs, "a", 40, 6); got != 141 {
		t.Errorf("Scan = %d, want 141", got)
	}
}

func TestScannerApplyIsNoop(t *testing.T) {
	m := newTestMatch(t, "a")
	m.place(t, "a", 10, 20)
	before, _ := m.gs.Snapshot("a")
	m.apply(t, m.set.Scanner)
	after, _ := m.gs.Snapshot("a")
	if before.Motion.Position != after.Motion.Position || before.Scanner != after.Scanner {
		t.Error("scanner Apply mutated state")
	}
}
