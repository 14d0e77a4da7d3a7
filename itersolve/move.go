// Package itersolve is the iterative step-time solver at the heart of the
// motion controller: given a queue of planned kinematic moves and a
// per-stepper Cartesian-to-scalar projection, it produces the step times
// and directions a physical stepper motor must execute to track the
// trajectory to within half a step.
package itersolve

import (
	"errors"
	"math"
)

// Move is a single planned kinematic trajectory segment, owned by the
// external move queue and read-only to this package. It is live on
// [PrintTime, PrintTime+MoveT].
type Move struct {
	next, prev *Move

	// PrintTime is the move's absolute start time on the master clock.
	PrintTime float64
	// MoveT is the move's duration.
	MoveT float64
	// AxesR is the unit Cartesian direction of the move; a component is
	// zero iff that axis does not change during the move.
	AxesR [3]float64

	// StartPos is the Cartesian position at move-relative t=0.
	StartPos [3]float64
	// StartV and HalfAccel describe the scalar distance travelled along
	// AxesR since StartPos: Dist(t) = StartV*t + HalfAccel*t*t. These are
	// the trajectory coefficients consumed only by a Projection.
	StartV    float64
	HalfAccel float64
}

// Dist returns the scalar distance travelled along AxesR at move-relative
// time t.
func (m *Move) Dist(t float64) float64 {
	return (m.StartV + m.HalfAccel*t) * t
}

// Pos returns the Cartesian position at move-relative time t.
func (m *Move) Pos(t float64) [3]float64 {
	d := m.Dist(t)
	return [3]float64{
		m.StartPos[0] + m.AxesR[0]*d,
		m.StartPos[1] + m.AxesR[1]*d,
		m.StartPos[2] + m.AxesR[2]*d,
	}
}

// Next returns the next move in print-time order, or the tail sentinel.
func (m *Move) Next() *Move { return m.next }

// Prev returns the previous move in print-time order, or the head
// sentinel.
func (m *Move) Prev() *Move { return m.prev }

// Queue is a time-ordered, doubly-linked sequence of moves terminated by
// sentinels at both ends so the solver can step one past either end
// without branching. It is read-only to the solver; the planner that fills
// it owns all mutation.
type Queue struct {
	head, tail Move
}

// NewQueue returns an empty queue with its sentinels linked to each other.
func NewQueue() *Queue {
	q := &Queue{}
	q.head.PrintTime = math.Inf(-1)
	q.tail.PrintTime = math.Inf(1)
	q.head.next = &q.tail
	q.tail.prev = &q.head
	return q
}

// Head returns the head sentinel; Head().Next() is the first real move, or
// the tail sentinel if the queue is empty.
func (q *Queue) Head() *Move { return &q.head }

// Tail returns the tail sentinel, one past the last real move.
func (q *Queue) Tail() *Move { return &q.tail }

// PushBack appends a move to the end of the queue. The caller is
// responsible for contiguity: m.PrintTime must equal the prior last move's
// PrintTime+MoveT.
func (q *Queue) PushBack(m *Move) {
	last := q.tail.prev
	m.prev = last
	m.next = &q.tail
	last.next = m
	q.tail.prev = m
}

var (
	errMissingSentinels  = errors.New("itersolve: move queue is missing sentinel links")
	errMalformedSentinel = errors.New("itersolve: move queue sentinels are malformed")
)

// CheckSentinels verifies the queue's sentinel invariants, the external
// precondition check the flush driver performs before walking the queue.
func (q *Queue) CheckSentinels() error {
	if q.head.next == nil || q.tail.prev == nil {
		return errMissingSentinels
	}
	if !math.IsInf(q.head.PrintTime, -1) || !math.IsInf(q.tail.PrintTime, 1) {
		return errMalformedSentinel
	}
	return nil
}
