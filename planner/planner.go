// Package planner turns requested Cartesian moves into trapezoidal
// velocity profiles and appends them, as one to three constant-
// acceleration itersolve.Move segments, to the shared move queue that
// every stepper's itersolve.StepperKinematics reads from. Adapted from
// standalone/planner/planner.go's calculateTrapezoid/QueueMove, replacing
// its per-stepper MoveTo calls (which assumed a single discrete velocity
// command per axis) with explicit accel/cruise/decel Move segments the
// iterative solver can integrate exactly.
package planner

import (
	"errors"
	"math"

	"github.com/amken3d/stepsolve/itersolve"
	"github.com/amken3d/stepsolve/kinematics"
)

// errZeroDistance is returned by QueueMove for a move with no displacement;
// callers should simply skip it rather than queue a degenerate segment.
var errZeroDistance = errors.New("planner: move has zero distance")

// Planner holds the in-progress commanded position and the shared move
// queue it appends trapezoidal segments to.
type Planner struct {
	queue   *itersolve.Queue
	pos     kinematics.Position
	printAt float64
}

// NewPlanner returns a planner appending to q, starting from the given
// Cartesian position at simulated time zero.
func NewPlanner(q *itersolve.Queue, start kinematics.Position) *Planner {
	return &Planner{queue: q, pos: start}
}

// Position returns the planner's current commanded Cartesian position.
func (p *Planner) Position() kinematics.Position {
	return p.pos
}

// SetPosition resets the commanded position without queuing a move, for
// G92-style position resets.
func (p *Planner) SetPosition(pos kinematics.Position) {
	p.pos = pos
}

// QueueMove appends a linear move from the planner's current position to
// end, at the given feedrate (units/s) and acceleration (units/s^2), as up
// to three constant-acceleration itersolve.Move segments (accelerate,
// cruise, decelerate), and advances the planner's current position and
// print-time cursor to the move's end.
func (p *Planner) QueueMove(end kinematics.Position, feedrate, accel float64) error {
	dx := end.X - p.pos.X
	dy := end.Y - p.pos.Y
	dz := end.Z - p.pos.Z
	distance := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if distance == 0 {
		return errZeroDistance
	}

	axesR := [3]float64{dx / distance, dy / distance, dz / distance}
	startPos := [3]float64{p.pos.X, p.pos.Y, p.pos.Z}

	cruiseVel, accelDist, cruiseDist, decelDist := trapezoid(distance, feedrate, accel)

	t := p.printAt
	if accelDist > 0 {
		moveT := cruiseVel / accel
		p.queue.PushBack(&itersolve.Move{
			PrintTime: t,
			MoveT:     moveT,
			AxesR:     axesR,
			StartPos:  startPos,
			StartV:    0,
			HalfAccel: accel / 2,
		})
		t += moveT
		startPos = advance(startPos, axesR, accelDist)
	}
	if cruiseDist > 0 {
		moveT := cruiseDist / cruiseVel
		p.queue.PushBack(&itersolve.Move{
			PrintTime: t,
			MoveT:     moveT,
			AxesR:     axesR,
			StartPos:  startPos,
			StartV:    cruiseVel,
			HalfAccel: 0,
		})
		t += moveT
		startPos = advance(startPos, axesR, cruiseDist)
	}
	if decelDist > 0 {
		moveT := cruiseVel / accel
		p.queue.PushBack(&itersolve.Move{
			PrintTime: t,
			MoveT:     moveT,
			AxesR:     axesR,
			StartPos:  startPos,
			StartV:    cruiseVel,
			HalfAccel: -accel / 2,
		})
		t += moveT
	}

	p.printAt = t
	p.pos = end
	return nil
}

func advance(start [3]float64, axesR [3]float64, dist float64) [3]float64 {
	return [3]float64{
		start[0] + axesR[0]*dist,
		start[1] + axesR[1]*dist,
		start[2] + axesR[2]*dist,
	}
}

// trapezoid computes the cruise velocity and the accel/cruise/decel
// distances of a symmetric trapezoidal (or, if the move is too short to
// reach feedrate, triangular) velocity profile covering distance at the
// given acceleration, starting and ending at rest.
func trapezoid(distance, feedrate, accel float64) (cruiseVel, accelDist, cruiseDist, decelDist float64) {
	accelDist = (feedrate * feedrate) / (2.0 * accel)
	if accelDist*2.0 >= distance {
		accelDist = distance / 2.0
		cruiseVel = math.Sqrt(2.0 * accel * accelDist)
		return cruiseVel, accelDist, 0, accelDist
	}
	cruiseDist = distance - 2.0*accelDist
	return feedrate, accelDist, cruiseDist, accelDist
}
