package app

import (
	"time"

	"warden/internal/ports"
)

// ClockScheduler runs callbacks on wall-clock timers in their own goroutine.
// Callbacks must take whatever lock guards the state they touch.
type ClockScheduler struct{}

type clockTimer struct {
	t *time.Timer
}

func (c clockTimer) Cancel() {
	c.t.Stop()
}

// After schedules fn to run once after delay.
func (ClockScheduler) After(delay time.Duration, fn func()) ports.Timer {
	return clockTimer{t: time.AfterFunc(delay, fn)}
}

var _ ports.SchedulerPort = ClockScheduler{}
