package nakama

import (
	"math"
	"time"

	"warden/internal/ports"
)

type tickTimer struct {
	deadline int64
	fn       func()
	canceled bool
}

// Cancel implements ports.Timer.
func (t *tickTimer) Cancel() {
	t.canceled = true
}

// tickScheduler runs callbacks from the match loop once the tick reaches their deadline,
// so scheduled work shares the goroutine of every other match event.
type tickScheduler struct {
	tickRate int
	now      int64
	pending  []*tickTimer
}

func newTickScheduler(tickRate int) *tickScheduler {
	if tickRate < 1 {
		tickRate = 1
	}
	return &tickScheduler{tickRate: tickRate}
}

// After implements ports.SchedulerPort. The delay is rounded up to whole ticks, at least one.
func (s *tickScheduler) After(delay time.Duration, fn func()) ports.Timer {
	ticks := int64(math.Ceil(delay.Seconds() * float64(s.tickRate)))
	if ticks < 1 {
		ticks = 1
	}
	t := &tickTimer{deadline: s.now + ticks, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// advance moves the clock to tick and runs every due, uncanceled callback in scheduling order.
func (s *tickScheduler) advance(tick int64) {
	s.now = tick

	var due []*tickTimer
	kept := s.pending[:0]
	for _, t := range s.pending {
		switch {
		case t.canceled:
		case t.deadline <= tick:
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	s.pending = kept

	for _, t := range due {
		if !t.canceled {
			t.fn()
		}
	}
}

func (s *tickScheduler) pendingCount() int {
	n := 0
	for _, t := range s.pending {
		if !t.canceled {
			n++
		}
	}
	return n
}
