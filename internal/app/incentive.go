package app

import (
	"time"

	"warden/internal/ports"
)

// TimerState is the lifecycle stage of the incentive timer.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerArmed
)

// incentiveToken identifies one arming of the timer so a late callback from a
// previous round can be told apart from the current one.
type incentiveToken struct {
	timer    ports.Timer
	canceled bool
}

// IncentiveTimer is the single delayed "nobody is warden yet" reminder for a round.
// It is not safe for concurrent use; the router serializes access.
type IncentiveTimer struct {
	scheduler ports.SchedulerPort
	delay     time.Duration
	pending   *incentiveToken
}

// NewIncentiveTimer creates an idle timer. A non-positive delay uses DefaultIncentiveDelay.
func NewIncentiveTimer(scheduler ports.SchedulerPort, delay time.Duration) *IncentiveTimer {
	if delay <= 0 {
		delay = DefaultIncentiveDelay
	}
	return &IncentiveTimer{scheduler: scheduler, delay: delay}
}

// State reports whether a reminder is pending.
func (t *IncentiveTimer) State() TimerState {
	if t.pending == nil {
		return TimerIdle
	}
	return TimerArmed
}

// Delay returns the configured reminder delay.
func (t *IncentiveTimer) Delay() time.Duration {
	return t.delay
}

// Arm cancels any pending reminder and schedules a new one. onFire receives the
// token and must hand it back to take before acting.
func (t *IncentiveTimer) Arm(onFire func(*incentiveToken)) {
	t.Cancel()
	tok := &incentiveToken{}
	t.pending = tok
	tok.timer = t.scheduler.After(t.delay, func() { onFire(tok) })
}

// Cancel drops the pending reminder. Safe to call when idle.
func (t *IncentiveTimer) Cancel() {
	if t.pending == nil {
		return
	}
	tok := t.pending
	t.pending = nil
	tok.canceled = true
	if tok.timer != nil {
		tok.timer.Cancel()
	}
}

// take consumes tok if it is still the pending reminder. A canceled or
// superseded token returns false and the callback must do nothing.
func (t *IncentiveTimer) take(tok *incentiveToken) bool {
	if tok == nil || tok.canceled || t.pending != tok {
		return false
	}
	t.pending = nil
	return true
}
