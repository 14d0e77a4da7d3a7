package itersolve

// AxisSet is a bitmask of Cartesian axes a stepper is registered for.
type AxisSet uint8

// Axis flags.
const (
	AxisX AxisSet = 1 << iota
	AxisY
	AxisZ
)

// initialSeekDelta is the range solver's starting probe size when widening
// a bracket, and the ceiling it is clamped to around direction changes.
const initialSeekDelta = 100e-6

// StepperKinematics holds the per-stepper state mutated only by this
// package: the move queue and step sink it is attached to, its current
// commanded position, its padding windows, and the range-solver state
// (direction bit, seek delta) that persists across flush calls.
type StepperKinematics struct {
	Name string

	Projection Projection
	PostStep   PostStepHook
	ActiveAxes AxisSet

	StepDist     float64
	CommandedPos float64

	LastFlushTime float64
	LastMoveTime  float64

	GenStepsPreActive  float64
	GenStepsPostActive float64

	Queue *Queue
	Sink  StepSink
	Trace *Trace

	// forceStepsTime is not read or written by Flush, which recomputes the
	// post-activity tail deadline from LastMoveTime on every call.
	forceStepsTime float64

	// sdir and seekDelta persist across range solves, per spec's
	// "direction bit... persisted across moves" / adaptive seek delta.
	sdir      uint8
	seekDelta float64

	filter reversalFilterState
}

// NewStepperKinematics constructs a stepper bound to proj for the given
// set of active Cartesian axes. StepDist, Queue and Sink are set
// separately via SetSink/SetQueue before the first Flush.
func NewStepperKinematics(name string, proj Projection, activeAxes AxisSet) *StepperKinematics {
	return &StepperKinematics{
		Name:       name,
		Projection: proj,
		ActiveAxes: activeAxes,
		seekDelta:  initialSeekDelta,
	}
}

// SetQueue attaches the move queue this stepper reads from.
func (sk *StepperKinematics) SetQueue(q *Queue) {
	sk.Queue = q
}

// SetSink attaches the step sink this stepper writes to and the scalar
// distance of one full step (its sign is the positive-direction
// convention).
func (sk *StepperKinematics) SetSink(sink StepSink, stepDist float64) {
	sk.Sink = sink
	sk.StepDist = stepDist
}

// GetCommandedPos returns the stepper's scalar position as last ordered.
func (sk *StepperKinematics) GetCommandedPos() float64 {
	return sk.CommandedPos
}

// IsActiveAxis reports whether this stepper is registered for the given
// Cartesian axis letter ('x', 'y' or 'z', either case).
func (sk *StepperKinematics) IsActiveAxis(axis byte) bool {
	switch axis {
	case 'x', 'X':
		return sk.ActiveAxes&AxisX != 0
	case 'y', 'Y':
		return sk.ActiveAxes&AxisY != 0
	case 'z', 'Z':
		return sk.ActiveAxes&AxisZ != 0
	default:
		return false
	}
}

// active reports whether any axis this stepper is registered for has a
// nonzero direction component in m, i.e. whether m may move this stepper.
func (sk *StepperKinematics) active(m *Move) bool {
	return (sk.ActiveAxes&AxisX != 0 && m.AxesR[0] != 0) ||
		(sk.ActiveAxes&AxisY != 0 && m.AxesR[1] != 0) ||
		(sk.ActiveAxes&AxisZ != 0 && m.AxesR[2] != 0)
}

// CalcPositionFromCoord evaluates this stepper's projection at a given
// Cartesian point, by constructing an ephemeral, stationary move whose
// start position is that point and evaluating the projection at its
// midpoint.
func (sk *StepperKinematics) CalcPositionFromCoord(x, y, z float64) float64 {
	m := &Move{
		MoveT:    1,
		StartPos: [3]float64{x, y, z},
	}
	return sk.Projection.Eval(sk, m, m.MoveT/2)
}

// SetPosition sets the stepper's commanded position to the projection of
// the given Cartesian point.
func (sk *StepperKinematics) SetPosition(x, y, z float64) {
	sk.CommandedPos = sk.CalcPositionFromCoord(x, y, z)
}
