package cache

import "sync/atomic"

// onceFlag is process-scoped state for diagnostics that must be emitted a
// single time no matter how many stores are constructed.
type onceFlag struct {
	done atomic.Bool
}

// first reports true exactly once over the flag's lifetime.
func (f *onceFlag) first() bool {
	return f.done.CompareAndSwap(false, true)
}

// unavailableReported guards the "Redis unavailable" warning.
var unavailableReported onceFlag
