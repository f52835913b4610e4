package system

import (
	"context"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/vmath"
)

// MotionSystem eases speed, advances bots along their heading and resolves collisions
type MotionSystem struct {
	motion config.MotionConfig
	arena  config.ArenaConfig
}

// NewMotionSystem creates a motion system from config
func NewMotionSystem(cfg *config.Config) *MotionSystem {
	return &MotionSystem{motion: cfg.Motion, arena: cfg.Arena}
}

func (s *MotionSystem) Name() string { return "motion" }

// Apply advances every living bot, one player per lock acquisition, then runs the collision pass
func (s *MotionSystem) Apply(_ context.Context, gs *engine.GameState) error {
	ids, err := gs.Players()
	if err != nil {
		return err
	}

	for _, id := range ids {
		err := gs.With(engine.Access{Motion: engine.ModeWrite, Damage: engine.ModeRead}, func(tx *engine.Tx) error {
			mc, err := tx.Motion(id)
			if err != nil {
				return err
			}
			dc, err := tx.Damage(id)
			if err != nil {
				return err
			}
			mc.Collision = nil
			if dc.Dead() {
				return nil
			}
			s.advance(mc)
			return nil
		})
		if err != nil {
			return err
		}
	}

	return s.collide(gs)
}

// advance applies easing, travel, wall clamp and arrival to one bot
// A bot with a destination re-steers toward it every cycle and stops on it
// rather than travelling past it
func (s *MotionSystem) advance(mc *component.MotionComponent) {
	mc.Speed = Ease(mc.Speed, mc.DesiredSpeed, s.motion.Acceleration)

	if mc.Destination != nil {
		if h := vmath.ToUserHeading(vmath.HeadingToTarget(mc.Position, *mc.Destination)); h != mc.Heading {
			mc.Steer(h)
		}
	}

	if mc.Speed > 0 {
		step := mc.Speed * s.motion.SpeedFactor
		if mc.Destination != nil && float64(step) >= vmath.Distance(mc.Position, *mc.Destination) {
			mc.Position = *mc.Destination
			s.arrive(mc)
			return
		}
		mc.DistanceAlongHeading += step
		mc.Position = vmath.PointAlongHeading(mc.Origin, float64(mc.Heading), float64(mc.DistanceAlongHeading))
	}

	if clamped, hit := ClampToArena(mc.Position, s.arena); hit {
		mc.Collision = &component.Collision{Kind: component.CollisionWall, Position: mc.Position}
		mc.Position = clamped
		mc.Stop()
		mc.Steer(mc.Heading)
		mc.Destination = nil
	}

	if mc.Destination != nil && vmath.Distance(mc.Position, *mc.Destination) <= s.motion.ArrivalRadius {
		s.arrive(mc)
	}
}

// arrive stops the bot where it stands and clears its destination
func (s *MotionSystem) arrive(mc *component.MotionComponent) {
	mc.Destination = nil
	mc.Stop()
	mc.Steer(mc.Heading)
}

// collide records player collisions between living bots within collision radius
func (s *MotionSystem) collide(gs *engine.GameState) error {
	return gs.With(engine.Access{Players: engine.ModeRead, Motion: engine.ModeWrite, Damage: engine.ModeRead}, func(tx *engine.Tx) error {
		ids, err := tx.Players()
		if err != nil {
			return err
		}

		type live struct {
			id core.PlayerID
			mc *component.MotionComponent
		}
		alive := make([]live, 0, len(ids))
		for _, id := range ids {
			dc, err := tx.Damage(id)
			if err != nil {
				return err
			}
			if dc.Dead() {
				continue
			}
			mc, err := tx.Motion(id)
			if err != nil {
				return err
			}
			alive = append(alive, live{id, mc})
		}

		for i := range alive {
			for j := i + 1; j < len(alive); j++ {
				a, b := alive[i], alive[j]
				if vmath.Distance(a.mc.Position, b.mc.Position) > s.motion.CollisionRadius {
					continue
				}
				recordPlayerCollision(a.mc, b.id)
				recordPlayerCollision(b.mc, a.id)
			}
		}
		return nil
	})
}

func recordPlayerCollision(mc *component.MotionComponent, other core.PlayerID) {
	if mc.Collision == nil {
		mc.Collision = &component.Collision{Kind: component.CollisionPlayer, Player: other, Position: mc.Position}
	}
	mc.Stop()
	mc.Destination = nil
}

// Ease moves speed one step toward desired without overshoot, never below zero
func Ease(speed, desired, step int) int {
	switch {
	case speed < desired:
		speed = min(speed+step, desired)
	case speed > desired:
		speed = max(speed-step, desired)
	}
	return max(speed, 0)
}

// ClampToArena places an out-of-bounds point one margin inside each crossed boundary
// Returns the original point and false when already inside
func ClampToArena(p vmath.Point, arena config.ArenaConfig) (vmath.Point, bool) {
	hit := false
	if p.X < 0 {
		p.X, hit = arena.WallMargin, true
	} else if p.X > arena.MaxX {
		p.X, hit = arena.MaxX-arena.WallMargin, true
	}
	if p.Y < 0 {
		p.Y, hit = arena.WallMargin, true
	} else if p.Y > arena.MaxY {
		p.Y, hit = arena.MaxY-arena.WallMargin, true
	}
	return p, hit
}

// Drive sets heading and desired speed, restarting travel from the current position
// Heading is normalized to [0,360) and speed clamped to [0, maxEngine]
func Drive(gs *engine.GameState, id core.PlayerID, heading, speed int) error {
	maxEngine := gs.Config().Motion.MaxEngine
	return gs.WriteMotion(id, func(mc *component.MotionComponent) {
		mc.Steer(heading)
		mc.DesiredSpeed = vmath.Clamp(speed, 0, maxEngine)
		mc.Destination = nil
	})
}

// MoveTo steers toward a point clamped into the arena at full engine
// The motion system stops the bot once it is within arrival radius
func MoveTo(gs *engine.GameState, id core.PlayerID, x, y int) error {
	cfg := gs.Config()
	target := vmath.Pt(
		vmath.Clamp(float64(x), 0, cfg.Arena.MaxX),
		vmath.Clamp(float64(y), 0, cfg.Arena.MaxY),
	)
	return gs.WriteMotion(id, func(mc *component.MotionComponent) {
		heading := vmath.ToUserHeading(vmath.HeadingToTarget(mc.Position, target))
		mc.Steer(heading)
		mc.Destination = &target
		mc.DesiredSpeed = cfg.Motion.MaxEngine
		if vmath.Distance(mc.Position, target) <= cfg.Motion.ArrivalRadius {
			mc.Destination = nil
			mc.Stop()
		}
	})
}
