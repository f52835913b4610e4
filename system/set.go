// Package system implements the four per-cycle passes over the game state
// and the synchronous commands bots issue against it.
//
// Locking: each pass acquires stores once per player and releases them
// between players. A bot command may therefore land before or after the
// pass that processes the same bot in a cycle; the last writer wins.
package system

import (
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/event"
)

// Set holds one instance of every system
type Set struct {
	Scanner    *ScannerSystem
	Motion     *MotionSystem
	Projectile *ProjectileSystem
	Damage     *DamageSystem
}

// NewSet constructs all systems sharing one emitter
func NewSet(cfg *config.Config, em *event.Emitter) *Set {
	return &Set{
		Scanner:    NewScannerSystem(cfg),
		Motion:     NewMotionSystem(cfg),
		Projectile: NewProjectileSystem(cfg, em),
		Damage:     NewDamageSystem(cfg, em),
	}
}

// Ordered returns the systems in cycle order: Scanner, Motion, Projectile, Damage
func (s *Set) Ordered() []engine.System {
	return []engine.System{s.Scanner, s.Motion, s.Projectile, s.Damage}
}
