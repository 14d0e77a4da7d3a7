package itersolve

// Trace event kinds.
const (
	TraceStep = iota + 1
	TraceFilterCommit
	TraceFilterDiscard
)

const traceRingSize = 32

// TraceEvent records one step or filter decision for post-mortem
// inspection.
type TraceEvent struct {
	Kind          int
	Dir           uint8
	MovePrintTime float64
	StepTime      float64
}

// Trace is an optional, preallocated ring buffer recording the last steps
// and reversal-filter decisions for a stepper. Recording never allocates
// and costs nothing when nil or Enabled is false; Events allocates the
// slice it returns. Adapted from the firmware's
// timing ring (RecordTiming/DumpTimingRing), trimmed to what this package
// needs for post-mortem debugging of filtered/committed steps.
type Trace struct {
	Enabled bool

	ring [traceRingSize]TraceEvent
	head uint8
	n    uint8
}

func (tr *Trace) record(kind int, dir uint8, movePrintTime, stepTime float64) {
	if tr == nil || !tr.Enabled {
		return
	}
	tr.ring[tr.head] = TraceEvent{kind, dir, movePrintTime, stepTime}
	tr.head = (tr.head + 1) % traceRingSize
	if tr.n < traceRingSize {
		tr.n++
	}
}

// Events returns the recorded events, oldest first.
func (tr *Trace) Events() []TraceEvent {
	if tr == nil || tr.n == 0 {
		return nil
	}
	out := make([]TraceEvent, tr.n)
	start := (int(tr.head) - int(tr.n) + traceRingSize) % traceRingSize
	for i := range out {
		out[i] = tr.ring[(start+i)%traceRingSize]
	}
	return out
}
