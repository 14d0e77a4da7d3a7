package simclock

import "testing"

func TestAdvanceDispatchesDueTimersInOrder(t *testing.T) {
	c := New()
	var order []int
	c.ScheduleAt(2, func(now float64) (bool, float64) {
		order = append(order, 2)
		return false, 0
	})
	c.ScheduleAt(1, func(now float64) (bool, float64) {
		order = append(order, 1)
		return false, 0
	})

	c.Advance(3)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got dispatch order %v, want [1 2]", order)
	}
	if c.Now() != 3 {
		t.Fatalf("Now() = %v, want 3", c.Now())
	}
}

func TestAdvanceLeavesFutureTimersPending(t *testing.T) {
	c := New()
	fired := false
	c.ScheduleAt(10, func(now float64) (bool, float64) {
		fired = true
		return false, 0
	})

	c.Advance(5)
	if fired {
		t.Fatal("timer scheduled for t=10 fired before t=5")
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
}

func TestRescheduleWithinSameAdvance(t *testing.T) {
	c := New()
	count := 0
	var h Handler
	h = func(now float64) (bool, float64) {
		count++
		if count < 3 {
			return true, now + 1
		}
		return false, 0
	}
	c.ScheduleAt(1, h)

	c.Advance(5)
	if count != 3 {
		t.Fatalf("expected 3 dispatches within one Advance, got %d", count)
	}
}
