package itersolve

import "math"

// rootfindEps is the convergence tolerance for the false-position root
// finder and the seek-delta floor; bound to one named constant per the
// numerical-tolerance design note.
const rootfindEps = 1e-9

// point is a (time, projected position) sample used while bracketing a
// half-step crossing.
type point struct {
	t, p float64
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// rootfind locates the crossing of projection(t) == target between a low
// and high time bracket using false position (regula falsi).
//
// If the high endpoint is already exactly on target, it is returned as is.
// If low and high do not bracket target (same sign), the crossing is not
// bracketed and the degenerate (low.t, target) is returned — callers
// interpret this as "step at low time", used during direction-change
// retries rather than as an error.
func rootfind(sk *StepperKinematics, proj Projection, m *Move, low, high point, target float64) point {
	fLow := low.p - target
	fHigh := high.p - target

	if fHigh == 0 {
		return point{high.t, target}
	}
	if signOf(fLow) == signOf(fHigh) {
		return point{low.t, target}
	}

	var tg, pg float64
	havePrev := false
	var prevT float64

	for {
		tg = (low.t*fHigh - high.t*fLow) / (fHigh - fLow)
		pg = proj.Eval(sk, m, tg)
		fg := pg - target

		if signOf(fg) == signOf(fHigh) {
			high.t, high.p, fHigh = tg, pg, fg
		} else {
			low.t, low.p, fLow = tg, pg, fg
		}

		if havePrev && math.Abs(tg-prevT) < rootfindEps {
			break
		}
		prevT, havePrev = tg, true
	}

	return point{tg, pg}
}
