package itersolve

import (
	"errors"
	"math"
	"testing"
)

var errSinkBoom = errors.New("itersolve_test: sink refused step")

// cartesianX is a Projection for a stepper rigidly coupled 1:1 to the X axis,
// the simplest concrete projection used to exercise the range solver and
// flush driver without pulling in the kinematics package.
var cartesianX = ProjectionFunc(func(sk *StepperKinematics, m *Move, t float64) float64 {
	return m.Pos(t)[0]
})

func linearMove(printTime, moveT, startX, v float64) *Move {
	return &Move{
		PrintTime: printTime,
		MoveT:     moveT,
		AxesR:     [3]float64{1, 0, 0},
		StartPos:  [3]float64{startX, 0, 0},
		StartV:    v,
	}
}

func newTestStepper(stepDist float64) (*StepperKinematics, *Queue, *[]TraceEvent, StepSink) {
	q := NewQueue()
	sk := NewStepperKinematics("x", cartesianX, AxisX)
	sk.SetQueue(q)
	sk.GenStepsPreActive = reversalCheck
	sk.GenStepsPostActive = reversalCheck

	var steps []TraceEvent
	sink := StepSinkFunc(func(dir uint8, movePrintTime, stepTime float64) error {
		steps = append(steps, TraceEvent{Dir: dir, MovePrintTime: movePrintTime, StepTime: stepTime})
		return nil
	})
	sk.SetSink(sink, stepDist)
	return sk, q, &steps, sink
}

// Scenario: uniform linear motion over several steps produces evenly spaced
// steps all in the same direction.
func TestFlushLinearMotionProducesEvenSteps(t *testing.T) {
	sk, q, steps, _ := newTestStepper(1e-3)
	m := linearMove(0, 1, 0, 1) // 1 unit/s for 1s => 1000 steps of 1e-3
	q.PushBack(m)

	if err := sk.Flush(1); err != nil {
		t.Fatal(err)
	}
	if err := sk.Flush(1 + reversalCheck); err != nil {
		t.Fatal(err)
	}

	if len(*steps) == 0 {
		t.Fatal("expected steps for linear motion, got none")
	}
	for i, ev := range *steps {
		if ev.Dir != 1 {
			t.Fatalf("step %d: got dir %v, want forward", i, ev.Dir)
		}
	}
	for i := 1; i < len(*steps); i++ {
		dt := (*steps)[i].StepTime - (*steps)[i-1].StepTime
		if dt <= 0 {
			t.Fatalf("step %d: non-increasing step time", i)
		}
		if math.Abs(dt-1e-3) > 1e-6 {
			t.Fatalf("step %d: step spacing %v, want 1e-3", i, dt)
		}
	}
}

// Scenario: a stationary move (zero velocity, zero acceleration) on an
// active axis yields no steps.
func TestFlushStationaryMoveProducesNoSteps(t *testing.T) {
	sk, q, steps, _ := newTestStepper(1e-3)
	m := &Move{PrintTime: 0, MoveT: 1, AxesR: [3]float64{1, 0, 0}, StartPos: [3]float64{5, 0, 0}}
	q.PushBack(m)
	sk.SetPosition(5, 0, 0)

	if err := sk.Flush(1 + reversalCheck); err != nil {
		t.Fatal(err)
	}
	if len(*steps) != 0 {
		t.Fatalf("expected no steps for a stationary move, got %d", len(*steps))
	}
}

// Scenario: a sink error during a range solve aborts without updating
// CommandedPos, per the "no rollback past already-committed steps, but no
// progress credited for the failed append" contract.
func TestFlushSinkErrorDoesNotAdvanceCommandedPos(t *testing.T) {
	sk, q, _, _ := newTestStepper(1e-3)
	sk.Sink = StepSinkFunc(func(dir uint8, movePrintTime, stepTime float64) error {
		return errSinkBoom
	})
	m := linearMove(0, 1, 0, 1)
	q.PushBack(m)

	before := sk.CommandedPos
	err := sk.Flush(1 + reversalCheck)
	if err == nil {
		t.Fatal("expected sink error to propagate from Flush")
	}
	if sk.CommandedPos != before {
		t.Fatalf("CommandedPos advanced despite sink error: got %v, want %v", sk.CommandedPos, before)
	}
}

// Scenario: CheckActive reports the print time of the first upcoming move
// this stepper is active on, and 0 when none is queued.
func TestCheckActive(t *testing.T) {
	sk, q, _, _ := newTestStepper(1e-3)
	if got := sk.CheckActive(10); got != 0 {
		t.Fatalf("empty queue: got %v, want 0", got)
	}

	m := linearMove(2, 1, 0, 1)
	q.PushBack(m)
	if got := sk.CheckActive(10); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestQueueCheckSentinels(t *testing.T) {
	q := NewQueue()
	if err := q.CheckSentinels(); err != nil {
		t.Fatalf("fresh queue should pass sentinel check: %v", err)
	}

	broken := &Queue{}
	if err := broken.CheckSentinels(); err == nil {
		t.Fatal("zero-value queue should fail sentinel check")
	}
}

func TestMoveDistAndPos(t *testing.T) {
	m := &Move{AxesR: [3]float64{1, 0, 0}, StartPos: [3]float64{0, 0, 0}, StartV: 2, HalfAccel: 1}
	got := m.Dist(1)
	want := 3.0 // (2 + 1*1)*1
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("Dist(1) = %v, want %v", got, want)
	}
	pos := m.Pos(1)
	if math.Abs(pos[0]-3) > 1e-12 {
		t.Fatalf("Pos(1)[0] = %v, want 3", pos[0])
	}
}
