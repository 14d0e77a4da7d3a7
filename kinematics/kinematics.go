// Package kinematics supplies the itersolve.Projection implementations
// mapping a printer's Cartesian move geometry onto the scalar travel of
// each stepper motor, plus the axis-limit checks the planner consults
// before queuing a move. Adapted from standalone/kinematics/{kinematics,
// cartesian}.go in the teacher repo, generalized from a fixed XYZE
// position struct into per-axis itersolve.Projection values so arbitrary
// machine topologies (Cartesian, CoreXY, ...) can share the same move
// queue and solver.
package kinematics

import (
	"errors"

	"github.com/amken3d/stepsolve/itersolve"
)

// AxisLimits is the configured travel range for one linear axis.
type AxisLimits struct {
	Min, Max float64
}

// Position is a commanded Cartesian point, with E the extruder's linear
// filament position.
type Position struct {
	X, Y, Z, E float64
}

// CheckLimits reports an error if pos falls outside any configured axis
// limit. A zero-value AxisLimits (Min==Max==0) is treated as unconfigured
// and is not checked, matching the teacher's "only check axes present in
// config" behavior.
func CheckLimits(pos Position, x, y, z AxisLimits) error {
	if x != (AxisLimits{}) && (pos.X < x.Min || pos.X > x.Max) {
		return errors.New("kinematics: X position out of limits")
	}
	if y != (AxisLimits{}) && (pos.Y < y.Min || pos.Y > y.Max) {
		return errors.New("kinematics: Y position out of limits")
	}
	if z != (AxisLimits{}) && (pos.Z < z.Min || pos.Z > z.Max) {
		return errors.New("kinematics: Z position out of limits")
	}
	return nil
}

// CartesianX, CartesianY and CartesianZ are the 1:1 projections used by a
// machine where each stepper drives exactly one Cartesian axis.
var (
	CartesianX = itersolve.ProjectionFunc(func(sk *itersolve.StepperKinematics, m *itersolve.Move, t float64) float64 {
		return m.Pos(t)[0]
	})
	CartesianY = itersolve.ProjectionFunc(func(sk *itersolve.StepperKinematics, m *itersolve.Move, t float64) float64 {
		return m.Pos(t)[1]
	})
	CartesianZ = itersolve.ProjectionFunc(func(sk *itersolve.StepperKinematics, m *itersolve.Move, t float64) float64 {
		return m.Pos(t)[2]
	})
)

// CoreXYA and CoreXYB are the belt-motor projections for a CoreXY gantry:
// motor A drives X+Y, motor B drives X-Y. Z is independent and uses
// CartesianZ.
var (
	CoreXYA = itersolve.ProjectionFunc(func(sk *itersolve.StepperKinematics, m *itersolve.Move, t float64) float64 {
		p := m.Pos(t)
		return p[0] + p[1]
	})
	CoreXYB = itersolve.ProjectionFunc(func(sk *itersolve.StepperKinematics, m *itersolve.Move, t float64) float64 {
		p := m.Pos(t)
		return p[0] - p[1]
	})
)
