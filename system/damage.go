package system

import (
	"context"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
)

// DamageSystem applies collision penalties and staged projectile hits, then resolves deaths
type DamageSystem struct {
	cfg     config.DamageConfig
	emitter *event.Emitter
}

// NewDamageSystem creates a damage system; em may be nil
func NewDamageSystem(cfg *config.Config, em *event.Emitter) *DamageSystem {
	return &DamageSystem{cfg: cfg.Damage, emitter: em}
}

func (s *DamageSystem) Name() string { return "damage" }

// Apply reads hits staged in every owner's slots, so a bot is damaged by any shooter
func (s *DamageSystem) Apply(_ context.Context, gs *engine.GameState) error {
	ids, err := gs.Players()
	if err != nil {
		return err
	}

	access := engine.Access{
		Players:     engine.ModeRead,
		Motion:      engine.ModeRead,
		Damage:      engine.ModeWrite,
		Projectiles: engine.ModeRead,
	}
	for _, victim := range ids {
		err := gs.With(access, func(tx *engine.Tx) error {
			dc, err := tx.Damage(victim)
			if err != nil {
				return err
			}
			if dc.Dead() {
				return nil
			}

			mc, err := tx.Motion(victim)
			if err != nil {
				return err
			}
			if mc.Collision != nil {
				dc.Add(s.cfg.Collision)
				s.emitter.Emit(event.EventDamage, event.DamagePayload{
					Victim: victim,
					Amount: s.cfg.Collision,
					Kind:   component.DamageKindCollision,
				})
			}

			for _, owner := range ids {
				pc, err := tx.Projectiles(owner)
				if err != nil {
					return err
				}
				for i := range pc.Projectiles {
					amount, ok := pc.Projectiles[i].Hits[victim]
					if !ok {
						continue
					}
					dc.Add(amount)
					s.emitter.Emit(event.EventDamage, event.DamagePayload{
						Victim: victim,
						Amount: amount,
						Kind:   component.DamageKindProjectile,
						Source: owner,
					})
				}
			}

			if dc.Resolve(s.cfg.Max) {
				s.emitter.Emit(event.EventDeath, event.DeathPayload{Victim: victim})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
