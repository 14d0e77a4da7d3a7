package itersolve

// Flush drives solving up to flushTime: it advances LastFlushTime to
// flushTime for this stepper, emitting every step required in between. It
// never emits a step for a time before LastFlushTime at entry.
func (sk *StepperKinematics) Flush(flushTime float64) error {
	if sk.Queue == nil {
		return nil
	}
	if err := sk.Queue.CheckSentinels(); err != nil {
		return err
	}

	q := sk.Queue

	// Walk from the first move forward past all moves that end at or
	// before the incoming last_flush_time.
	m := q.Head().Next()
	for m != q.Tail() && m.PrintTime+m.MoveT <= sk.LastFlushTime {
		m = m.Next()
	}

	post := sk.GenStepsPostActive
	if post < reversalCheck {
		post = reversalCheck
	}
	forceStepsTime := sk.LastMoveTime + post

	for {
		if sk.LastFlushTime >= flushTime {
			return nil
		}
		if m == q.Tail() || m.PrintTime >= flushTime {
			sk.LastFlushTime = flushTime
			return nil
		}

		start := m.PrintTime
		end := m.PrintTime + m.MoveT
		if start < sk.LastFlushTime {
			start = sk.LastFlushTime
		}
		if end > flushTime {
			end = flushTime
		}
		if end <= start {
			if end > sk.LastFlushTime {
				sk.LastFlushTime = end
			}
			m = m.Next()
			continue
		}

		switch {
		case sk.active(m):
			if sk.GenStepsPreActive > 0 && start > sk.LastFlushTime+rootfindEps {
				forceStepsTime = start
				newFlushTime := start - sk.GenStepsPreActive
				if newFlushTime > sk.LastFlushTime {
					sk.LastFlushTime = newFlushTime
				}
				for m.PrintTime > sk.LastFlushTime && m.Prev() != q.Head() {
					m = m.Prev()
				}
				continue
			}

			if err := sk.solveRange(m, start, end); err != nil {
				return err
			}
			sk.LastMoveTime = end
			sk.LastFlushTime = end
			forceStepsTime = end + post

		case start < forceStepsTime:
			rangeEnd := end
			if forceStepsTime < rangeEnd {
				rangeEnd = forceStepsTime
			}
			if err := sk.solveRange(m, start, rangeEnd); err != nil {
				return err
			}
			sk.LastFlushTime = rangeEnd

		default:
			sk.LastFlushTime = end
		}

		if flushTime+sk.GenStepsPreActive <= m.PrintTime+m.MoveT {
			return nil
		}
		m = m.Next()
	}
}

// CheckActive walks forward from this stepper's queue looking for the
// first move where it is active within [LastFlushTime, flushTime). It
// returns that move's PrintTime, or 0 if none.
func (sk *StepperKinematics) CheckActive(flushTime float64) float64 {
	if sk.Queue == nil {
		return 0
	}
	q := sk.Queue

	m := q.Head().Next()
	for m != q.Tail() && m.PrintTime+m.MoveT <= sk.LastFlushTime {
		m = m.Next()
	}
	for m != q.Tail() && m.PrintTime < flushTime {
		if sk.active(m) {
			return m.PrintTime
		}
		m = m.Next()
	}
	return 0
}
