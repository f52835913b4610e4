package engine

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/war-arena/component"
	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/vmath"
)

// GameState owns every component store of a match
// All access goes through With, which acquires stores in the single global order
// players -> motion -> damage -> scanner -> projectiles
type GameState struct {
	cfg *config.Config

	players     *playerList
	motion      *Store[component.MotionComponent]
	damage      *Store[component.DamageComponent]
	scanner     *Store[component.ScannerComponent]
	projectiles *Store[component.ProjectileComponent]

	// stores indexed by acquisition order
	stores [storeCount]lockable

	// rng is only used under the players write lock
	rng *rand.Rand

	cycle atomic.Uint64
}

// NewGameState creates an empty state; a zero arena seed picks a time-based seed
func NewGameState(cfg *config.Config) *GameState {
	seed := uint64(cfg.Arena.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	gs := &GameState{
		cfg:         cfg,
		players:     newPlayerList(),
		motion:      NewStore[component.MotionComponent](),
		damage:      NewStore[component.DamageComponent](),
		scanner:     NewStore[component.ScannerComponent](),
		projectiles: NewStore[component.ProjectileComponent](),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	gs.stores = [storeCount]lockable{gs.players, gs.motion, gs.damage, gs.scanner, gs.projectiles}
	return gs
}

// Config returns the match configuration
func (gs *GameState) Config() *config.Config {
	return gs.cfg
}

// Cycle returns the current cycle number
func (gs *GameState) Cycle() uint64 {
	return gs.cycle.Load()
}

func (gs *GameState) advance() uint64 {
	return gs.cycle.Add(1)
}

// With runs fn holding the requested stores
// A panic in fn poisons every store held for writing and is returned as ErrPoisoned
// A panic under read-only access is returned as an error without poisoning
func (gs *GameState) With(access Access, fn func(tx *Tx) error) (err error) {
	modes := access.modes()

	for i := 0; i < storeCount; i++ {
		gs.stores[i].lock(modes[i])
	}
	defer func() {
		for i := storeCount - 1; i >= 0; i-- {
			gs.stores[i].unlock(modes[i])
		}
	}()

	for i, m := range modes {
		if m != ModeNone && gs.stores[i].isPoisoned() {
			return fmt.Errorf("%w: %s", ErrPoisoned, storeNames[i])
		}
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		wrote := false
		for i, m := range modes {
			if m == ModeWrite {
				gs.stores[i].poison()
				wrote = true
			}
		}
		if wrote {
			err = fmt.Errorf("%w: writer panicked: %v", ErrPoisoned, r)
			return
		}
		err = fmt.Errorf("reader panicked: %v", r)
	}()

	return fn(&Tx{gs: gs, held: modes})
}

// Register inserts default components for a new player at a random collision-free position
// Idempotent; returns true only when the player was new
func (gs *GameState) Register(id core.PlayerID) (bool, error) {
	added := false
	err := gs.With(WriteAll, func(tx *Tx) error {
		if gs.players.has(id) {
			return nil
		}
		pos := gs.spawnPosition()
		gs.players.add(id)
		gs.motion.insert(id, component.NewMotionComponent(pos))
		gs.damage.insert(id, component.DamageComponent{})
		gs.scanner.insert(id, component.ScannerComponent{})
		gs.projectiles.insert(id, component.ProjectileComponent{})
		added = true
		return nil
	})
	return added, err
}

// spawnPosition draws positions until one is clear of every existing player
// Falls back to the last draw once attempts are exhausted; caller holds the write locks
func (gs *GameState) spawnPosition() vmath.Point {
	a := gs.cfg.Arena
	radius := gs.cfg.Motion.CollisionRadius
	attempts := max(a.SpawnAttempts, 1)

	var p vmath.Point
	for range attempts {
		p = vmath.Pt(
			a.WallMargin+gs.rng.Float64()*(a.MaxX-2*a.WallMargin),
			a.WallMargin+gs.rng.Float64()*(a.MaxY-2*a.WallMargin),
		)
		free := true
		for _, other := range gs.players.order {
			m, _ := gs.motion.get(other)
			if vmath.Distance(p, m.Position) <= radius {
				free = false
				break
			}
		}
		if free {
			return p
		}
	}
	return p
}

// Players returns the registration-ordered player list
func (gs *GameState) Players() ([]core.PlayerID, error) {
	var out []core.PlayerID
	err := gs.With(Access{Players: ModeRead}, func(tx *Tx) error {
		var err error
		out, err = tx.Players()
		return err
	})
	return out, err
}

// ReadMotion returns a copy of the player's motion component
func (gs *GameState) ReadMotion(id core.PlayerID) (component.MotionComponent, error) {
	var out component.MotionComponent
	err := gs.With(Access{Motion: ModeRead}, func(tx *Tx) error {
		mc, err := tx.Motion(id)
		if err != nil {
			return err
		}
		out = copyMotion(mc)
		return nil
	})
	return out, err
}

// WriteMotion mutates the player's motion component under its write lock
func (gs *GameState) WriteMotion(id core.PlayerID, fn func(mc *component.MotionComponent)) error {
	return gs.With(Access{Motion: ModeWrite}, func(tx *Tx) error {
		mc, err := tx.Motion(id)
		if err != nil {
			return err
		}
		fn(mc)
		return nil
	})
}

// ReadDamage returns a copy of the player's damage component
func (gs *GameState) ReadDamage(id core.PlayerID) (component.DamageComponent, error) {
	var out component.DamageComponent
	err := gs.With(Access{Damage: ModeRead}, func(tx *Tx) error {
		dc, err := tx.Damage(id)
		if err != nil {
			return err
		}
		out = *dc
		return nil
	})
	return out, err
}

// LivingCount returns the number of living and registered players
func (gs *GameState) LivingCount() (alive, total int, err error) {
	err = gs.With(Access{Players: ModeRead, Damage: ModeRead}, func(tx *Tx) error {
		ids, err := tx.Players()
		if err != nil {
			return err
		}
		total = len(ids)
		for _, id := range ids {
			dc, err := tx.Damage(id)
			if err != nil {
				return err
			}
			if !dc.Dead() {
				alive++
			}
		}
		return nil
	})
	return alive, total, err
}

// PlayerSnapshot is a detached copy of one player's components
type PlayerSnapshot struct {
	ID          core.PlayerID
	Motion      component.MotionComponent
	Damage      component.DamageComponent
	Scanner     component.ScannerComponent
	Projectiles component.ProjectileComponent
}

// Snapshot copies every component of a player under read locks
func (gs *GameState) Snapshot(id core.PlayerID) (PlayerSnapshot, error) {
	snap := PlayerSnapshot{ID: id}
	err := gs.With(ReadAll, func(tx *Tx) error {
		mc, err := tx.Motion(id)
		if err != nil {
			return err
		}
		dc, err := tx.Damage(id)
		if err != nil {
			return err
		}
		sc, err := tx.Scanner(id)
		if err != nil {
			return err
		}
		pc, err := tx.Projectiles(id)
		if err != nil {
			return err
		}
		snap.Motion = copyMotion(mc)
		snap.Damage = *dc
		snap.Scanner = *sc
		snap.Projectiles = *pc
		for i := range snap.Projectiles.Projectiles {
			snap.Projectiles.Projectiles[i].Hits = maps.Clone(pc.Projectiles[i].Hits)
		}
		return nil
	})
	return snap, err
}

func copyMotion(mc *component.MotionComponent) component.MotionComponent {
	out := *mc
	if mc.Collision != nil {
		c := *mc.Collision
		out.Collision = &c
	}
	if mc.Destination != nil {
		d := *mc.Destination
		out.Destination = &d
	}
	return out
}
