package component

import (
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/parameter"
	"github.com/lixenwraith/war-arena/vmath"
)

// ProjectileStatus represents slot lifecycle state
type ProjectileStatus uint8

const (
	ProjectileAvailable     ProjectileStatus = iota // Idle, may fire once cooldown is zero
	ProjectileReadyToLaunch                         // Fire accepted, becomes Flying next cycle
	ProjectileFlying                                // Travelling toward range
	ProjectileExploding                             // Staging splash damage
)

// String returns the status name
func (s ProjectileStatus) String() string {
	switch s {
	case ProjectileReadyToLaunch:
		return "ready"
	case ProjectileFlying:
		return "flying"
	case ProjectileExploding:
		return "exploding"
	default:
		return "available"
	}
}

// LaunchOrder is the payload of a ReadyToLaunch slot
type LaunchOrder struct {
	Origin vmath.Point
	Angle  int
	Range  int
}

// Projectile is one cannon shell slot
type Projectile struct {
	Status ProjectileStatus
	Order  LaunchOrder // Valid while Status == ProjectileReadyToLaunch

	StartPos vmath.Point
	Position vmath.Point
	Heading  int

	// CycleCount is the explosion countdown while exploding, reload cooldown while available
	CycleCount int

	Distance int
	Range    int

	// Hits stages splash damage for the damage system, rebuilt each cycle
	Hits map[core.PlayerID]int
}

// Reset returns the slot to Available with cleared state
func (p *Projectile) Reset() {
	*p = Projectile{Hits: p.Hits}
	p.ClearHits()
}

// ClearHits drops staged damage
func (p *Projectile) ClearHits() {
	for k := range p.Hits {
		delete(p.Hits, k)
	}
}

// AddHit stages damage for a player, keeping the first amount recorded this cycle
func (p *Projectile) AddHit(player core.PlayerID, amount int) {
	if p.Hits == nil {
		p.Hits = make(map[core.PlayerID]int)
	}
	if _, ok := p.Hits[player]; !ok {
		p.Hits[player] = amount
	}
}

// Launchable reports whether the slot is idle with no cooldown
func (p *Projectile) Launchable() bool {
	return p.Status == ProjectileAvailable && p.CycleCount == 0
}

// ProjectileComponent is a bot's fixed magazine
type ProjectileComponent struct {
	Projectiles [parameter.ProjectileSlots]Projectile
}

// Launch queues a shell in the first launchable slot
// Range is capped at maxRange and floored at zero. Returns 1 on success, 0 if no slot is free
func (pc *ProjectileComponent) Launch(origin vmath.Point, angle, rng, maxRange int) int32 {
	rng = vmath.Clamp(rng, 0, maxRange)
	for i := range pc.Projectiles {
		p := &pc.Projectiles[i]
		if p.Launchable() {
			p.Status = ProjectileReadyToLaunch
			p.Order = LaunchOrder{
				Origin: origin,
				Angle:  vmath.NormalizeHeading(angle),
				Range:  rng,
			}
			return 1
		}
	}
	return 0
}
