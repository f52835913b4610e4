package event

import (
	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/vmath"
)

// LaunchPayload describes a fired projectile
type LaunchPayload struct {
	Player  core.PlayerID
	Slot    int
	Origin  vmath.Point
	Heading int
	Range   int
}

// ExplodePayload describes a detonation
type ExplodePayload struct {
	Player   core.PlayerID
	Slot     int
	Position vmath.Point
}

// DamagePayload describes one damage application
type DamagePayload struct {
	Victim core.PlayerID
	Amount int
	Kind   component.DamageKind

	// Source is the projectile owner, empty for collisions
	Source core.PlayerID
}

// DeathPayload describes a bot death
type DeathPayload struct {
	Victim core.PlayerID
}
