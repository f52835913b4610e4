package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/core"
)

var (
	// ErrPoisoned is returned by every acquisition of a store whose writer panicked
	ErrPoisoned = errors.New("store poisoned")

	// ErrUnknownPlayer is returned when a player has no registered components
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrNotHeld is returned when a transaction touches a store it did not request
	ErrNotHeld = errors.New("store not held")
)

// Store indices in global acquisition order
const (
	storePlayers = iota
	storeMotion
	storeDamage
	storeScanner
	storeProjectiles
	storeCount
)

var storeNames = [storeCount]string{"players", "motion", "damage", "scanner", "projectiles"}

// Access declares the lock mode per store for one transaction
// Locks are always taken in field order and released in reverse
type Access struct {
	Players     Mode
	Motion      Mode
	Damage      Mode
	Scanner     Mode
	Projectiles Mode
}

// Common access sets
var (
	ReadAll  = Access{ModeRead, ModeRead, ModeRead, ModeRead, ModeRead}
	WriteAll = Access{ModeWrite, ModeWrite, ModeWrite, ModeWrite, ModeWrite}
)

func (a Access) modes() [storeCount]Mode {
	return [storeCount]Mode{a.Players, a.Motion, a.Damage, a.Scanner, a.Projectiles}
}

// Tx is a view over the stores held by one With call
// Pointers returned by Tx must not be retained after fn returns
type Tx struct {
	gs   *GameState
	held [storeCount]Mode
}

func (tx *Tx) require(store int) error {
	if tx.held[store] == ModeNone {
		return fmt.Errorf("%w: %s", ErrNotHeld, storeNames[store])
	}
	return nil
}

// Players returns a copy of the registration-ordered player list
func (tx *Tx) Players() ([]core.PlayerID, error) {
	if err := tx.require(storePlayers); err != nil {
		return nil, err
	}
	out := make([]core.PlayerID, len(tx.gs.players.order))
	copy(out, tx.gs.players.order)
	return out, nil
}

// Motion returns the player's motion component
func (tx *Tx) Motion(id core.PlayerID) (*component.MotionComponent, error) {
	return lookup(tx, storeMotion, tx.gs.motion, id)
}

// Damage returns the player's damage component
func (tx *Tx) Damage(id core.PlayerID) (*component.DamageComponent, error) {
	return lookup(tx, storeDamage, tx.gs.damage, id)
}

// Scanner returns the player's scanner component
func (tx *Tx) Scanner(id core.PlayerID) (*component.ScannerComponent, error) {
	return lookup(tx, storeScanner, tx.gs.scanner, id)
}

// Projectiles returns the player's projectile component
func (tx *Tx) Projectiles(id core.PlayerID) (*component.ProjectileComponent, error) {
	return lookup(tx, storeProjectiles, tx.gs.projectiles, id)
}

func lookup[T any](tx *Tx, store int, s *Store[T], id core.PlayerID) (*T, error) {
	if err := tx.require(store); err != nil {
		return nil, err
	}
	c, ok := s.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return c, nil
}
