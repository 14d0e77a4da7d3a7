package itersolve

const (
	// reversalCheck (CHECK) is how far past the last activity the flush
	// driver keeps evaluating so a pending filtered step is either
	// finalised or naturally discarded.
	reversalCheck = 1.0e-3
	// reversalFilter (FILTER) is the window, strictly less than
	// reversalCheck, within which a direction-reversing step pair is
	// treated as bracket-oscillation noise and discarded.
	reversalFilter = 0.75e-3
)

// reversalFilterState suppresses step/reverse/step artifacts near a
// velocity zero-crossing: a candidate step immediately followed, within
// FILTER of combined move+step-time distance, by a reversal is dropped
// along with its partner, since both are artifacts of bracket oscillation
// at a velocity zero-crossing rather than real motion.
type reversalFilterState struct {
	pending                 bool
	dir                     uint8
	movePrintTime, stepTime float64
}

func (f *reversalFilterState) append(sink StepSink, tr *Trace, dir uint8, movePrintTime, stepTime float64) error {
	if f.pending && dir != f.dir {
		delta := (movePrintTime - f.movePrintTime) + (stepTime - f.stepTime)
		if delta < reversalFilter {
			tr.record(TraceFilterDiscard, f.dir, f.movePrintTime, f.stepTime)
			tr.record(TraceFilterDiscard, dir, movePrintTime, stepTime)
			f.pending = false
			return nil
		}
	}
	if f.pending {
		if err := f.commit(sink, tr); err != nil {
			return err
		}
	}
	f.pending = true
	f.dir = dir
	f.movePrintTime = movePrintTime
	f.stepTime = stepTime
	return nil
}

func (f *reversalFilterState) commit(sink StepSink, tr *Trace) error {
	tr.record(TraceStep, f.dir, f.movePrintTime, f.stepTime)
	err := sink.Append(f.dir, f.movePrintTime, f.stepTime)
	f.pending = false
	return err
}

// flush finalises a pending step once enough time/distance has passed that
// it can no longer be a reversal artifact; otherwise it is left pending
// across range-solve calls.
func (f *reversalFilterState) flush(sink StepSink, tr *Trace, movePrintTime, stepTime float64) error {
	if !f.pending {
		return nil
	}
	delta := (movePrintTime - f.movePrintTime) + (stepTime - f.stepTime)
	if delta >= reversalFilter {
		return f.commit(sink, tr)
	}
	return nil
}
