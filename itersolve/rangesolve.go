package itersolve

// solveRange solves stepper sk's motion on move m between absolute times
// moveStart and moveEnd, emitting candidate steps through the reversal
// filter to sk.Sink. CommandedPos is only updated if the whole range solves
// without a sink error; the persisted direction bit and seek delta are
// written back in either case. Any steps already committed before an error
// remain committed.
func (sk *StepperKinematics) solveRange(m *Move, moveStart, moveEnd float64) error {
	start := moveStart - m.PrintTime
	end := moveEnd - m.PrintTime
	half := 0.5 * sk.StepDist

	last := point{start, sk.CommandedPos}
	low := last
	high := last

	sdir := sk.sdir
	seekDelta := sk.seekDelta
	isDirChange := false

	abort := func(err error) error {
		sk.sdir = sdir
		sk.seekDelta = seekDelta
		return err
	}

rangeLoop:
	for {
		diff := high.p - last.p
		var dist float64
		if sdir == 1 {
			dist = diff
		} else {
			dist = -diff
		}

		switch {
		case dist >= half:
			var target float64
			if sdir == 1 {
				target = last.p + half
			} else {
				target = last.p - half
			}

			next := rootfind(sk, sk.Projection, m, low, high, target)
			if err := sk.filter.append(sk.Sink, sk.Trace, sdir, m.PrintTime, next.t); err != nil {
				return abort(err)
			}

			seekDelta = next.t - last.t
			if seekDelta < rootfindEps {
				seekDelta = rootfindEps
			}
			if isDirChange && seekDelta > initialSeekDelta {
				seekDelta = initialSeekDelta
			}
			isDirChange = false

			if sdir == 1 {
				last = point{next.t, target + half}
			} else {
				last = point{next.t, target - half}
			}
			low = next
			if low.t < high.t {
				continue rangeLoop
			}

		case dist > 0:
			// Partial progress toward the next step. If a step is
			// pending in the reversal filter and the motor has caught
			// up to where the bracket currently sits, try to settle it
			// now rather than carrying it forward unresolved.
			if sk.filter.pending {
				if err := sk.filter.flush(sk.Sink, sk.Trace, m.PrintTime, high.t); err != nil {
					return abort(err)
				}
			}

		case dist < -(half + rootfindEps):
			isDirChange = true
			if seekDelta > initialSeekDelta {
				seekDelta = initialSeekDelta
			}
			if low.t > last.t {
				sdir = 1 - sdir
				continue rangeLoop
			}
			high.t = last.t + (high.t-last.t)/2
			high.p = sk.Projection.Eval(sk, m, high.t)
			continue rangeLoop
		}

		// Widen the bracket; never past the end of the range.
		if high.t >= end {
			break rangeLoop
		}
		low = high
		for {
			high.t = last.t + seekDelta
			seekDelta *= 2
			if high.t > low.t {
				break
			}
		}
		if high.t > end {
			high.t = end
		}
		high.p = sk.Projection.Eval(sk, m, high.t)
	}

	if err := sk.filter.flush(sk.Sink, sk.Trace, m.PrintTime, end); err != nil {
		return abort(err)
	}

	sk.sdir = sdir
	sk.seekDelta = seekDelta
	sk.CommandedPos = last.p
	if sk.PostStep != nil {
		sk.PostStep(sk)
	}
	return nil
}
