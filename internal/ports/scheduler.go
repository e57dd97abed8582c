package ports

import "time"

// Timer is a handle to a pending scheduled callback.
type Timer interface {
	// Cancel prevents the callback from running if it has not started yet.
	// Calling it more than once, or after the callback ran, is a no-op.
	Cancel()
}

// SchedulerPort runs callbacks after a delay without blocking the caller.
type SchedulerPort interface {
	After(delay time.Duration, fn func()) Timer
}
