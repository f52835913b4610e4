package system

import (
	"context"
	"slices"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
	"github.com/lixenwraith/war-arena/vmath"
)

// ProjectileSystem advances every projectile slot and stages splash damage
//
// Per slot per cycle:
//  1. clear staged hits
//  2. decay explosion or reload counters
//  3. ReadyToLaunch -> Flying
//  4. advance Flying, exploding at range or wall
//  5. stage splash hits while Exploding
type ProjectileSystem struct {
	cfg     config.ProjectileConfig
	arena   config.ArenaConfig
	tiers   []config.DamageTier // innermost first
	emitter *event.Emitter
}

// NewProjectileSystem creates a projectile system; em may be nil
func NewProjectileSystem(cfg *config.Config, em *event.Emitter) *ProjectileSystem {
	tiers := slices.Clone(cfg.Projectile.Tiers)
	slices.SortStableFunc(tiers, func(a, b config.DamageTier) int {
		switch {
		case a.Radius < b.Radius:
			return -1
		case a.Radius > b.Radius:
			return 1
		}
		return 0
	})
	return &ProjectileSystem{
		cfg:     cfg.Projectile,
		arena:   cfg.Arena,
		tiers:   tiers,
		emitter: em,
	}
}

func (s *ProjectileSystem) Name() string { return "projectile" }

// Apply processes one owner's magazine per lock acquisition
func (s *ProjectileSystem) Apply(_ context.Context, gs *engine.GameState) error {
	ids, err := gs.Players()
	if err != nil {
		return err
	}

	access := engine.Access{
		Players:     engine.ModeRead,
		Motion:      engine.ModeRead,
		Damage:      engine.ModeRead,
		Projectiles: engine.ModeWrite,
	}
	for _, owner := range ids {
		err := gs.With(access, func(tx *engine.Tx) error {
			pc, err := tx.Projectiles(owner)
			if err != nil {
				return err
			}
			for i := range pc.Projectiles {
				if err := s.step(tx, ids, owner, i, &pc.Projectiles[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectileSystem) step(tx *engine.Tx, ids []core.PlayerID, owner core.PlayerID, slot int, p *component.Projectile) error {
	p.ClearHits()

	switch p.Status {
	case component.ProjectileExploding:
		p.CycleCount--
		if p.CycleCount <= 0 {
			p.Reset()
			p.CycleCount = s.cfg.ReloadCycles
			return nil
		}
	case component.ProjectileAvailable:
		if p.CycleCount > 0 {
			p.CycleCount--
		}
		return nil
	}

	if p.Status == component.ProjectileReadyToLaunch {
		order := p.Order
		p.Status = component.ProjectileFlying
		p.Order = component.LaunchOrder{}
		p.StartPos = order.Origin
		p.Position = order.Origin
		p.Heading = order.Angle
		p.Range = order.Range
		p.Distance = 0
		s.emitter.Emit(event.EventLaunch, event.LaunchPayload{
			Player:  owner,
			Slot:    slot,
			Origin:  order.Origin,
			Heading: order.Angle,
			Range:   order.Range,
		})
	}

	if p.Status == component.ProjectileFlying {
		p.Distance = min(p.Distance+s.cfg.Speed, p.Range)
		p.Position = vmath.PointAlongHeading(p.StartPos, float64(p.Heading), float64(p.Distance))

		clamped, hitWall := ClampToArena(p.Position, s.arena)
		if hitWall {
			p.Position = clamped
		}
		if hitWall || p.Distance >= p.Range {
			s.explode(owner, slot, p)
		}
	}

	if p.Status == component.ProjectileExploding {
		return s.splash(tx, ids, p)
	}
	return nil
}

// explode enters Exploding once; repeat calls are no-ops
func (s *ProjectileSystem) explode(owner core.PlayerID, slot int, p *component.Projectile) {
	if p.Status == component.ProjectileExploding {
		return
	}
	p.Status = component.ProjectileExploding
	p.CycleCount = s.cfg.ExplodeCycles
	s.emitter.Emit(event.EventExplode, event.ExplodePayload{
		Player:   owner,
		Slot:     slot,
		Position: p.Position,
	})
}

// splash stages the innermost matching tier amount for every living bot in reach
func (s *ProjectileSystem) splash(tx *engine.Tx, ids []core.PlayerID, p *component.Projectile) error {
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
		if amount, ok := TierDamage(s.tiers, vmath.Distance(p.Position, mc.Position)); ok {
			p.AddHit(id, amount)
		}
	}
	return nil
}

// TierDamage returns the amount of the first tier whose radius contains d
// Tiers must be sorted innermost first; radii are inclusive
func TierDamage(tiers []config.DamageTier, d float64) (int, bool) {
	for _, t := range tiers {
		if d <= t.Radius {
			return t.Amount, true
		}
	}
	return 0, false
}

// Fire queues a shell from the shooter's current position
// Returns 1 when a slot accepted the launch, 0 when none is free or the shooter is dead
func Fire(gs *engine.GameState, id core.PlayerID, angle, rng int) (int32, error) {
	maxRange := gs.Config().Projectile.MaxRange
	var result int32
	access := engine.Access{
		Motion:      engine.ModeRead,
		Damage:      engine.ModeRead,
		Projectiles: engine.ModeWrite,
	}
	err := gs.With(access, func(tx *engine.Tx) error {
		dc, err := tx.Damage(id)
		if err != nil {
			return err
		}
		if dc.Dead() {
			return nil
		}
		mc, err := tx.Motion(id)
		if err != nil {
			return err
		}
		pc, err := tx.Projectiles(id)
		if err != nil {
			return err
		}
		result = pc.Launch(mc.Position, angle, rng, maxRange)
		return nil
	})
	return result, err
}
