package status

import (
	"slices"
	"sync"
)

// Key names a metric in the registry
type Key string

// Metrics recorded during a match
const (
	EngineCycles      Key = "engine.cycles"
	EngineCycleRate   Key = "engine.cycles_per_sec"
	EngineTermination Key = "engine.termination"
	EngineRunning     Key = "engine.running"

	ProjectileLaunches   Key = "projectile.launches"
	ProjectileExplosions Key = "projectile.explosions"
	DamageTotal          Key = "damage.total"
	CombatDeaths         Key = "combat.deaths"

	CombatantsRunning Key = "combatant.running"
)

// CallKey names the counter of calls to one sandbox intrinsic
func CallKey(intrinsic string) Key {
	return Key("sandbox.calls." + intrinsic)
}

// MetricMap holds one metric type; pointers are stable once created so
// owners resolve them at construction and write without locking
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[Key]*T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[Key]*T)}
}

// Get returns the metric for key, creating it on first use
func (m *MetricMap[T]) Get(key Key) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Range visits metrics in key order
func (m *MetricMap[T]) Range(fn func(key Key, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]Key, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

// Count returns the number of metrics created
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
