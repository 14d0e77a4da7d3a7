// Package stepcompress turns the (direction, time) step stream a
// itersolve.StepperKinematics emits into the run-length/delta-encoded wire
// messages a Klipper-style MCU expects: sequences of equal-interval steps
// in one direction collapse into a single (dir, interval, count) triple,
// VLQ-encoded and framed with a CRC16 trailer. Grounded on
// protocol/{vlq,crc16}.go, which this package is the first real consumer of — the
// teacher's protocol package defined the wire primitives but never used
// them against generated step data.
package stepcompress

import (
	"errors"
	"math"

	"github.com/amken3d/stepsolve/protocol"
)

// DirForward and DirReverse are the two step directions a MCU stepper pin
// pair understands; they mirror the uint8 dir convention itersolve.StepSink
// already uses (0/1).
const (
	DirForward = 1
	DirReverse = 0
)

var errNonMonotonicStep = errors.New("stepcompress: step time went backwards")

// step is one solved step, converted from the solver's float seconds to an
// integer MCU clock tick.
type step struct {
	clock int64
	dir   uint8
}

// Encoder implements itersolve.StepSink, buffering every step for a single
// stepper and compressing them into wire messages on Flush. ClockFreq is
// the MCU's step-clock frequency in Hz (Klipper MCUs commonly run in the
// tens of MHz; any positive value works here).
type Encoder struct {
	ClockFreq float64

	steps    []step
	lastTime float64
	haveLast bool
}

// NewEncoder returns an Encoder ticking at clockFreq Hz.
func NewEncoder(clockFreq float64) *Encoder {
	return &Encoder{ClockFreq: clockFreq}
}

// Append implements itersolve.StepSink.
func (e *Encoder) Append(dir uint8, movePrintTime, stepTime float64) error {
	t := movePrintTime + stepTime
	if e.haveLast && t < e.lastTime {
		return errNonMonotonicStep
	}
	e.lastTime = t
	e.haveLast = true
	e.steps = append(e.steps, step{clock: int64(math.Round(t * e.ClockFreq)), dir: dir})
	return nil
}

// Reset discards all buffered steps without emitting them.
func (e *Encoder) Reset() {
	e.steps = e.steps[:0]
	e.haveLast = false
}

// run is one compressed (direction, interval, count) group: count steps at
// the given clock interval, all in the same direction.
type run struct {
	dir      uint8
	interval int64
	count    uint32
}

// compress collapses e.steps into runs of constant inter-step interval
// within a single direction, the same run-length strategy Klipper's
// firmware-side stepcompress.c uses to keep step queues small.
func (e *Encoder) compress() []run {
	var runs []run
	var prevClock int64
	havePrev := false

	for _, s := range e.steps {
		if !havePrev {
			// The very first run's "interval" is the absolute clock of the
			// first step, since there is no prior step to delta against;
			// Decode treats the running clock as starting at zero.
			runs = append(runs, run{dir: s.dir, interval: s.clock, count: 1})
			prevClock = s.clock
			havePrev = true
			continue
		}
		interval := s.clock - prevClock
		last := &runs[len(runs)-1]
		if last.dir == s.dir && (last.count == 1 || last.interval == interval) {
			last.interval = interval
			last.count++
		} else {
			runs = append(runs, run{dir: s.dir, interval: interval, count: 1})
		}
		prevClock = s.clock
	}
	return runs
}

// Flush encodes every buffered step as a sequence of framed wire messages
// written to out, then clears the buffer. Each message holds one run: a
// direction byte, VLQ interval, VLQ count, and a trailing CRC16 over the
// header+payload.
func (e *Encoder) Flush(out protocol.OutputBuffer) error {
	for _, r := range e.compress() {
		start := out.CurPosition()
		out.Output([]byte{r.dir})
		protocol.EncodeVLQInt(out, int32(r.interval))
		protocol.EncodeVLQUint(out, r.count)
		payload := out.DataSince(start)
		crc := protocol.CRC16(payload)
		out.Output([]byte{byte(crc >> 8), byte(crc)})
	}
	e.Reset()
	return nil
}
