package app

import "sync/atomic"

// EnabledFlag is the process-wide on/off switch for the warden module.
// It is toggled from outside the match loop; routers only read it.
type EnabledFlag struct {
	v atomic.Bool
}

// NewEnabledFlag creates a flag with the given initial value.
func NewEnabledFlag(enabled bool) *EnabledFlag {
	f := &EnabledFlag{}
	f.v.Store(enabled)
	return f
}

// Enabled reports the current value. A nil flag reads as disabled.
func (f *EnabledFlag) Enabled() bool {
	if f == nil {
		return false
	}
	return f.v.Load()
}

// Set stores a new value and returns the previous one.
func (f *EnabledFlag) Set(enabled bool) bool {
	return f.v.Swap(enabled)
}
