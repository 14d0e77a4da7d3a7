package stepcompress

import (
	"testing"

	"github.com/amken3d/stepsolve/core"
	"github.com/amken3d/stepsolve/simclock"
)

func TestGPIOSinkTogglesStepPinAtScheduledTime(t *testing.T) {
	gpio := core.NewSimGPIO()
	gpio.ConfigureOutput(1)
	gpio.ConfigureOutput(2)
	clock := simclock.New()
	sink := NewGPIOSink(gpio, clock, 1, 2)

	if err := sink.Append(DirForward, 0, 0.5); err != nil {
		t.Fatal(err)
	}

	if gpio.ReadPin(1) {
		t.Fatal("step pin toggled before the clock reached the scheduled time")
	}
	clock.Advance(1)
	if !gpio.ReadPin(1) {
		t.Fatal("expected step pin to toggle once the clock reached the scheduled time")
	}
	if !gpio.ReadPin(2) {
		t.Fatal("expected dir pin to reflect DirForward")
	}
}
