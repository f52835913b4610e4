package status

import (
	"math"
	"sync/atomic"
	"time"
)

// Rate is a per-second gauge written once by its owner and read by reporters
// Zero value reads as 0
type Rate struct {
	bits atomic.Uint64
}

// Observe stores count/elapsed; a non-positive elapsed leaves the value unchanged
func (r *Rate) Observe(count uint64, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	r.bits.Store(math.Float64bits(float64(count) / elapsed.Seconds()))
}

// Get returns the last observed rate per second
func (r *Rate) Get() float64 {
	return math.Float64frombits(r.bits.Load())
}
