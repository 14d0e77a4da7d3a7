// Package simclock is a deterministic virtual master clock: a sorted
// queue of timer handlers (step pin toggles, Flush calls, ...) dispatched
// without touching real wall-clock time, so a run can be replayed
// deterministically. Adapted from core/{timer,scheduler}.go's
// ticks-based interrupt-driven scheduler, generalized from uint32 MCU
// ticks to float64 seconds (the unit itersolve already works in) and from
// a single global interrupt-disabled list to a package with no hidden
// global state.
package simclock

import "sort"

// Handler is invoked when its timer becomes due. Returning true
// reschedules it at newTime; returning false retires it, mirroring the
// teacher's SF_DONE/SF_RESCHEDULE timer handler contract.
type Handler func(now float64) (reschedule bool, newTime float64)

type timer struct {
	wakeTime float64
	handler  Handler
}

// Clock is a sorted queue of timers advanced manually by Advance; it is
// not safe for concurrent use, matching itersolve's own single-threaded
// contract.
type Clock struct {
	now    float64
	timers []*timer
}

// New returns a Clock starting at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the clock's current time.
func (c *Clock) Now() float64 { return c.now }

// ScheduleAt inserts a timer due at wakeTime, keeping the queue sorted by
// wake time the way insertTimer kept the teacher's linked list sorted.
func (c *Clock) ScheduleAt(wakeTime float64, h Handler) {
	t := &timer{wakeTime: wakeTime, handler: h}
	i := sort.Search(len(c.timers), func(i int) bool {
		return c.timers[i].wakeTime > wakeTime
	})
	c.timers = append(c.timers, nil)
	copy(c.timers[i+1:], c.timers[i:])
	c.timers[i] = t
}

// Advance dispatches every timer due at or before to, in wake-time order,
// then sets the clock's current time to to. A handler requesting
// rescheduling at a time still <= to is dispatched again within the same
// Advance call, matching TimerDispatch's re-check of currentTime after
// every handler.
func (c *Clock) Advance(to float64) {
	for len(c.timers) > 0 && c.timers[0].wakeTime <= to {
		t := c.timers[0]
		c.timers = c.timers[1:]
		c.now = t.wakeTime

		reschedule, newTime := t.handler(c.now)
		if reschedule {
			c.ScheduleAt(newTime, t.handler)
		}
	}
	if to > c.now {
		c.now = to
	}
}

// Pending reports how many timers are still queued.
func (c *Clock) Pending() int {
	return len(c.timers)
}
