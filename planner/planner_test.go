package planner

import (
	"math"
	"testing"

	"github.com/amken3d/stepsolve/itersolve"
	"github.com/amken3d/stepsolve/kinematics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapezoidReachesCruise(t *testing.T) {
	cruiseVel, accelDist, cruiseDist, decelDist := trapezoid(100, 10, 50)
	assert.Equal(t, 10.0, cruiseVel)
	assert.InDelta(t, 1.0, accelDist, 1e-9) // 10^2/(2*50)
	assert.InDelta(t, 1.0, decelDist, 1e-9)
	assert.InDelta(t, 98.0, cruiseDist, 1e-9)
}

func TestTrapezoidTooShortForCruiseIsTriangular(t *testing.T) {
	cruiseVel, accelDist, cruiseDist, decelDist := trapezoid(1, 10, 50)
	assert.Equal(t, 0.0, cruiseDist)
	assert.InDelta(t, 0.5, accelDist, 1e-9)
	assert.InDelta(t, 0.5, decelDist, 1e-9)
	assert.True(t, cruiseVel < 10)
}

func TestQueueMoveEmitsSegmentsReachingEnd(t *testing.T) {
	q := itersolve.NewQueue()
	p := NewPlanner(q, kinematics.Position{})

	require.NoError(t, p.QueueMove(kinematics.Position{X: 100}, 10, 50))

	var total float64
	for m := q.Head().Next(); m != q.Tail(); m = m.Next() {
		total += m.Dist(m.MoveT)
	}
	assert.InDelta(t, 100.0, total, 1e-6)

	got := p.Position()
	assert.Equal(t, 100.0, got.X)
}

func TestQueueMoveZeroDistanceErrors(t *testing.T) {
	q := itersolve.NewQueue()
	p := NewPlanner(q, kinematics.Position{X: 5})
	err := p.QueueMove(kinematics.Position{X: 5}, 10, 50)
	assert.Error(t, err)
}

func TestQueueMoveSegmentsAreContiguous(t *testing.T) {
	q := itersolve.NewQueue()
	p := NewPlanner(q, kinematics.Position{})
	require.NoError(t, p.QueueMove(kinematics.Position{X: 10, Y: 10}, 5, 20))

	var prevEnd float64
	first := true
	for m := q.Head().Next(); m != q.Tail(); m = m.Next() {
		if !first {
			assert.True(t, math.Abs(m.PrintTime-prevEnd) < 1e-9)
		}
		prevEnd = m.PrintTime + m.MoveT
		first = false
	}
}
