// Package refresh implements the auto-refresh state machine.
//
// The scheduler never owns a goroutine or a real timer. Arming a timer hands back a
// Timer value whose generation the caller attaches to a one-shot tick; cancelling bumps
// the generation so any tick already in flight is recognised as stale when it arrives.
package refresh

import (
	"time"

	"github.com/charliek/syslogdash/internal/constants"
)

// Timer identifies one armed one-shot tick
type Timer struct {
	Gen      uint64
	Interval time.Duration
}

// Outcome is the result of a tick arriving
type Outcome int

const (
	// Stale means the tick belongs to a cancelled generation and must be ignored
	Stale Outcome = iota
	// Skipped means the tick was current but the view is paused; the timer is re-armed
	Skipped
	// Refresh means a snapshot fetch should run; the timer is re-armed
	Refresh
)

// Scheduler tracks whether auto-refresh is enabled, its interval, visibility and
// the generation of the single armed timer.
type Scheduler struct {
	enabled  bool
	interval time.Duration
	hidden   bool
	gen      uint64
	armed    bool
}

// New returns a disabled scheduler with the given interval
func New(interval time.Duration) *Scheduler {
	if interval < 0 {
		interval = constants.DefaultAutoRefresh
	}
	return &Scheduler{interval: interval}
}

// Enabled reports whether auto-refresh is on
func (s *Scheduler) Enabled() bool {
	return s.enabled
}

// Interval returns the configured interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Hidden reports whether the view is hidden
func (s *Scheduler) Hidden() bool {
	return s.hidden
}

// Active returns the armed timer, if any
func (s *Scheduler) Active() (Timer, bool) {
	if !s.armed {
		return Timer{}, false
	}
	return Timer{Gen: s.gen, Interval: s.interval}, true
}

// Toggle flips auto-refresh on or off. Enabling with a zero interval stays disabled.
// The returned timer, when ok, must be scheduled by the caller.
func (s *Scheduler) Toggle() (Timer, bool) {
	if s.enabled {
		s.enabled = false
		s.cancel()
		return Timer{}, false
	}
	if s.interval <= 0 {
		return Timer{}, false
	}
	s.enabled = true
	return s.arm()
}

// SetInterval changes the interval. Zero forces the disabled state; while enabled the
// current timer is cancelled and a new one armed.
func (s *Scheduler) SetInterval(d time.Duration) (Timer, bool) {
	if d < 0 {
		d = 0
	}
	s.interval = d
	if d == 0 {
		s.enabled = false
		s.cancel()
		return Timer{}, false
	}
	if !s.enabled {
		return Timer{}, false
	}
	s.cancel()
	return s.arm()
}

// Hide cancels the armed timer while keeping the enabled state
func (s *Scheduler) Hide() {
	s.hidden = true
	s.cancel()
}

// Show re-arms the timer if enabled. The caller also runs an out-of-band stats fetch.
func (s *Scheduler) Show() (Timer, bool) {
	if !s.hidden {
		return s.Active()
	}
	s.hidden = false
	if !s.enabled {
		return Timer{}, false
	}
	return s.arm()
}

// Fire handles a tick for generation gen. Current ticks re-arm the next timer;
// paused ticks are dropped without a fetch.
func (s *Scheduler) Fire(gen uint64, paused bool) (Outcome, Timer) {
	if !s.armed || gen != s.gen || !s.enabled || s.hidden {
		return Stale, Timer{}
	}
	next, _ := s.arm()
	if paused {
		return Skipped, next
	}
	return Refresh, next
}

// Stop disables the scheduler and invalidates every outstanding tick
func (s *Scheduler) Stop() {
	s.enabled = false
	s.cancel()
}

func (s *Scheduler) arm() (Timer, bool) {
	if s.hidden {
		return Timer{}, false
	}
	s.gen++
	s.armed = true
	return Timer{Gen: s.gen, Interval: s.interval}, true
}

func (s *Scheduler) cancel() {
	if s.armed {
		s.gen++
		s.armed = false
	}
}
