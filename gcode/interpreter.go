package gcode

import "github.com/amken3d/stepsolve/kinematics"

// Mover is the subset of planner behavior the interpreter drives: queuing
// linear moves and reporting/resetting the commanded position.
type Mover interface {
	QueueMove(end kinematics.Position, feedrate, accel float64) error
	Position() kinematics.Position
	SetPosition(pos kinematics.Position)
}

// State is the mutable machine state a stream of G-code commands updates:
// positioning mode, feedrate and target temperatures. Adapted from
// standalone's MachineState, trimmed to the fields this interpreter
// actually consults (homed-axis tracking belongs to a homing component
// outside this spec's scope).
type State struct {
	AbsoluteMode bool
	ExtrudeMode  bool
	FeedRate     float64
	TargetTemp   map[string]float64
}

// Interpreter executes parsed Commands against a Mover, maintaining the
// positioning-mode and feedrate state the G-code dialect expects to carry
// across lines.
type Interpreter struct {
	state *State
	mover Mover
	accel float64
}

// NewInterpreter returns an interpreter in absolute-positioning mode at
// the given default feedrate (units/s) and acceleration (units/s^2).
func NewInterpreter(mover Mover, defaultFeedRate, accel float64) *Interpreter {
	return &Interpreter{
		state: &State{
			AbsoluteMode: true,
			FeedRate:     defaultFeedRate,
			TargetTemp:   make(map[string]float64),
		},
		mover: mover,
		accel: accel,
	}
}

// State returns the interpreter's live machine state.
func (in *Interpreter) State() *State { return in.state }

// Execute runs one parsed command. A nil command or a comment-only line is
// a no-op.
func (in *Interpreter) Execute(cmd *Command) error {
	if cmd == nil {
		return nil
	}
	switch cmd.Type {
	case 'G':
		return in.executeG(cmd)
	case 'M':
		in.executeM(cmd)
	}
	return nil
}

func (in *Interpreter) executeG(cmd *Command) error {
	switch cmd.Number {
	case 0, 1:
		return in.doMove(cmd)
	case 90:
		in.state.AbsoluteMode = true
	case 91:
		in.state.AbsoluteMode = false
	case 92:
		in.doSetPosition(cmd)
	}
	return nil
}

func (in *Interpreter) executeM(cmd *Command) {
	switch cmd.Number {
	case 82:
		in.state.ExtrudeMode = false
	case 83:
		in.state.ExtrudeMode = true
	case 104, 109:
		if cmd.HasParameter('S') {
			in.state.TargetTemp["extruder"] = cmd.GetParameter('S', 0)
		}
	case 140, 190:
		if cmd.HasParameter('S') {
			in.state.TargetTemp["bed"] = cmd.GetParameter('S', 0)
		}
	}
}

func (in *Interpreter) doMove(cmd *Command) error {
	current := in.mover.Position()
	target := current

	if cmd.HasParameter('F') {
		in.state.FeedRate = cmd.GetParameter('F', 0) / 60.0 // mm/min -> mm/s
	}

	if in.state.AbsoluteMode {
		if cmd.HasParameter('X') {
			target.X = cmd.GetParameter('X', current.X)
		}
		if cmd.HasParameter('Y') {
			target.Y = cmd.GetParameter('Y', current.Y)
		}
		if cmd.HasParameter('Z') {
			target.Z = cmd.GetParameter('Z', current.Z)
		}
		if cmd.HasParameter('E') {
			target.E = cmd.GetParameter('E', current.E)
		}
	} else {
		target.X += cmd.GetParameter('X', 0)
		target.Y += cmd.GetParameter('Y', 0)
		target.Z += cmd.GetParameter('Z', 0)
		target.E += cmd.GetParameter('E', 0)
	}

	if target == current {
		return nil
	}
	return in.mover.QueueMove(target, in.state.FeedRate, in.accel)
}

func (in *Interpreter) doSetPosition(cmd *Command) {
	current := in.mover.Position()
	target := current
	if cmd.HasParameter('X') {
		target.X = cmd.GetParameter('X', current.X)
	}
	if cmd.HasParameter('Y') {
		target.Y = cmd.GetParameter('Y', current.Y)
	}
	if cmd.HasParameter('Z') {
		target.Z = cmd.GetParameter('Z', current.Z)
	}
	if cmd.HasParameter('E') {
		target.E = cmd.GetParameter('E', current.E)
	}
	in.mover.SetPosition(target)
}
