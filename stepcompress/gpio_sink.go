package stepcompress

import (
	"github.com/amken3d/stepsolve/core"
	"github.com/amken3d/stepsolve/simclock"
)

// GPIOSink implements itersolve.StepSink by scheduling a step/dir pin
// toggle on a simclock.Clock for each solved step, the host-simulation
// equivalent of the teacher's Stepper.stepHandler firing a real GPIO
// pulse from an interrupt-driven timer. Adapted from
// standalone/stepgen/stepper.go's pin-toggle idiom, retargeted from the
// teacher's own bespoke timer/pin types onto this repo's simclock.Clock
// and core.GPIODriver.
type GPIOSink struct {
	gpio    core.GPIODriver
	clock   *simclock.Clock
	stepPin core.GPIOPin
	dirPin  core.GPIOPin

	pinState bool
}

// NewGPIOSink returns a sink that toggles stepPin and sets dirPin on gpio,
// scheduled against clock. Both pins must already be configured as
// outputs.
func NewGPIOSink(gpio core.GPIODriver, clock *simclock.Clock, stepPin, dirPin core.GPIOPin) *GPIOSink {
	return &GPIOSink{gpio: gpio, clock: clock, stepPin: stepPin, dirPin: dirPin}
}

// Append implements itersolve.StepSink. The actual pin write is deferred
// until the scheduled clock tick fires, and GPIO errors are not reported
// at all: a failed dir-pin write skips that step's toggle, a failed
// step-pin write is ignored, and neither Append nor Advance returns the
// error.
func (s *GPIOSink) Append(dir uint8, movePrintTime, stepTime float64) error {
	at := movePrintTime + stepTime
	s.clock.ScheduleAt(at, func(now float64) (bool, float64) {
		if err := s.gpio.SetPin(s.dirPin, dir != 0); err != nil {
			return false, 0
		}
		s.pinState = !s.pinState
		_ = s.gpio.SetPin(s.stepPin, s.pinState)
		return false, 0
	})
	return nil
}
