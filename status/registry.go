package status

import "sync/atomic"

// Registry is the central metrics facade
// Systems cache pointers during init; per-cycle passes write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Rates   *MetricMap[Rate]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Rates:   NewMetricMap[Rate](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Rates.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a flat map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k Key, v *atomic.Bool) { out[string(k)] = v.Load() })
	r.Ints.Range(func(k Key, v *atomic.Int64) { out[string(k)] = v.Load() })
	r.Rates.Range(func(k Key, v *Rate) { out[string(k)] = v.Get() })
	r.Strings.Range(func(k Key, v *AtomicString) { out[string(k)] = v.Load() })
	return out
}
