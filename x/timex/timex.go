package timex

import "time"

// Ms converts a millisecond count from config into a Duration.
func Ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Deadline is a polled periodic timer for loops that must not block.
// The zero value is disarmed.
type Deadline struct {
	every time.Duration
	next  time.Time
}

// Arm starts the period from now. A non-positive period disarms.
func (d *Deadline) Arm(now time.Time, every time.Duration) {
	d.every = every
	d.next = now.Add(every)
}

// Due reports whether the period elapsed and schedules the next one.
// Missed periods are collapsed into one.
func (d *Deadline) Due(now time.Time) bool {
	if d.every <= 0 || now.Before(d.next) {
		return false
	}
	d.next = d.next.Add(d.every)
	if !now.Before(d.next) {
		d.next = now.Add(d.every)
	}
	return true
}

// Disarm stops the deadline. Use after the first Due for a one-shot.
func (d *Deadline) Disarm() { d.every = 0 }
