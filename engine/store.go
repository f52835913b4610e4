package engine

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/war-arena/core"
)

// Mode is the lock mode requested for a single store
type Mode uint8

const (
	ModeNone Mode = iota
	ModeRead
	ModeWrite
)

// guard is the lock shared by every lockable store
// A store is poisoned when a writer panics while holding it; poison is permanent
type guard struct {
	mu       sync.RWMutex
	poisoned atomic.Bool
}

func (g *guard) lock(m Mode) {
	switch m {
	case ModeRead:
		g.mu.RLock()
	case ModeWrite:
		g.mu.Lock()
	}
}

func (g *guard) unlock(m Mode) {
	switch m {
	case ModeRead:
		g.mu.RUnlock()
	case ModeWrite:
		g.mu.Unlock()
	}
}

func (g *guard) poison()          { g.poisoned.Store(true) }
func (g *guard) isPoisoned() bool { return g.poisoned.Load() }

type lockable interface {
	lock(Mode)
	unlock(Mode)
	poison()
	isPoisoned() bool
}

// Store is a generic container for one component kind keyed by player
// Values are stored by pointer so transactions mutate in place while the lock is held
type Store[T any] struct {
	guard
	components map[core.PlayerID]*T
}

// NewStore creates an empty component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.PlayerID]*T),
	}
}

// get returns the component pointer; caller holds the lock
func (s *Store[T]) get(id core.PlayerID) (*T, bool) {
	c, ok := s.components[id]
	return c, ok
}

// insert adds a component if absent; caller holds the write lock
func (s *Store[T]) insert(id core.PlayerID, val T) {
	if _, exists := s.components[id]; exists {
		return
	}
	s.components[id] = &val
}

// count returns the number of components; caller holds the lock
func (s *Store[T]) count() int {
	return len(s.components)
}

// playerList preserves registration order, which is iteration order for every pass
type playerList struct {
	guard
	order []core.PlayerID
	index map[core.PlayerID]struct{}
}

func newPlayerList() *playerList {
	return &playerList{
		order: make([]core.PlayerID, 0, 8),
		index: make(map[core.PlayerID]struct{}),
	}
}

func (p *playerList) has(id core.PlayerID) bool {
	_, ok := p.index[id]
	return ok
}

func (p *playerList) add(id core.PlayerID) bool {
	if p.has(id) {
		return false
	}
	p.index[id] = struct{}{}
	p.order = append(p.order, id)
	return true
}
