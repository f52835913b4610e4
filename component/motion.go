package component

import (
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/vmath"
)

// CollisionKind distinguishes what a bot ran into
type CollisionKind uint8

const (
	CollisionWall   CollisionKind = iota + 1 // Arena boundary
	CollisionPlayer                          // Another living bot
)

// Collision records a single collision during the last cycle
type Collision struct {
	Kind CollisionKind

	// Position is the out-of-bounds position before the clamp (Wall only)
	Position vmath.Point

	// Player is the other bot (Player only)
	Player core.PlayerID
}

// MotionComponent holds a bot's kinematic state (pure data)
// Position is recomputed each cycle as Origin + DistanceAlongHeading along Heading
type MotionComponent struct {
	Position vmath.Point
	Origin   vmath.Point

	// Heading in user degrees [0, 360)
	Heading int

	Speed        int
	DesiredSpeed int

	DistanceAlongHeading int

	// Collision is nil unless one occurred during the last cycle
	Collision *Collision

	// Destination is set by move-to requests, cleared on arrival
	Destination *vmath.Point
}

// NewMotionComponent creates a stationary component at p
func NewMotionComponent(p vmath.Point) MotionComponent {
	return MotionComponent{Position: p, Origin: p}
}

// Steer restarts straight-line travel from the current position on a new heading
func (mc *MotionComponent) Steer(heading int) {
	mc.Origin = mc.Position
	mc.DistanceAlongHeading = 0
	mc.Heading = vmath.NormalizeHeading(heading)
}

// Stop zeroes current and desired speed
func (mc *MotionComponent) Stop() {
	mc.Speed = 0
	mc.DesiredSpeed = 0
}
