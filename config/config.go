// Package config loads the JSON machine description the planner and
// itersolve steppers are built from: axis travel limits and motion
// defaults, plus the per-stepper solver tuning the teacher's config never
// had a use for (step distance and activity padding windows). Adapted
// from standalone/config/config.go's LoadConfig/applyDefaults, trimmed of
// the teacher's pin/heater/endstop fields (this package configures a
// host-side solver, not GPIO hardware) and extended with the solver
// fields itersolve.StepperKinematics needs.
package config

import "encoding/json"

// AxisConfig is one linear axis's travel limits and motion defaults.
type AxisConfig struct {
	MaxVelocity float64 `json:"max_velocity"`
	MaxAccel    float64 `json:"max_accel"`
	MinPosition float64 `json:"min_position"`
	MaxPosition float64 `json:"max_position"`
}

// StepperConfig is one stepper motor's distance-per-step and the
// itersolve activity padding windows around its moves.
type StepperConfig struct {
	Axes               string  `json:"axes"` // "x", "y", "z", or "a"/"b" for CoreXY belts
	StepDistance       float64 `json:"step_distance"`
	GenStepsPreActive  float64 `json:"gen_steps_pre_active"`
	GenStepsPostActive float64 `json:"gen_steps_post_active"`
}

// MachineConfig is the full parsed machine description.
type MachineConfig struct {
	Kinematics string                   `json:"kinematics"` // "cartesian" or "corexy"
	Axes       map[string]AxisConfig    `json:"axes"`
	Steppers   map[string]StepperConfig `json:"steppers"`

	DefaultVelocity float64 `json:"default_velocity"`
	DefaultAccel    float64 `json:"default_accel"`

	ClockFreq float64 `json:"clock_freq"`
}

// Load parses a JSON machine configuration and fills in defaults for any
// field the document left zero-valued.
func Load(data []byte) (*MachineConfig, error) {
	var cfg MachineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *MachineConfig) {
	if cfg.Kinematics == "" {
		cfg.Kinematics = "cartesian"
	}
	if cfg.DefaultVelocity == 0 {
		cfg.DefaultVelocity = 50.0
	}
	if cfg.DefaultAccel == 0 {
		cfg.DefaultAccel = 500.0
	}
	if cfg.ClockFreq == 0 {
		cfg.ClockFreq = 16_000_000
	}

	for name, axis := range cfg.Axes {
		if axis.MaxVelocity == 0 {
			axis.MaxVelocity = 300.0
		}
		if axis.MaxAccel == 0 {
			axis.MaxAccel = 3000.0
		}
		cfg.Axes[name] = axis
	}

	for name, st := range cfg.Steppers {
		if st.StepDistance == 0 {
			st.StepDistance = 1.0 / 80.0 // 80 steps/mm
		}
		if st.GenStepsPreActive == 0 {
			st.GenStepsPreActive = 1e-3
		}
		if st.GenStepsPostActive == 0 {
			st.GenStepsPostActive = 1e-3
		}
		cfg.Steppers[name] = st
	}
}

// Default returns a Cartesian XYZ configuration with conservative, widely
// applicable defaults, for use when no configuration file is given.
func Default() *MachineConfig {
	cfg := &MachineConfig{
		Kinematics: "cartesian",
		Axes: map[string]AxisConfig{
			"x": {MaxVelocity: 300, MaxAccel: 3000, MinPosition: 0, MaxPosition: 220},
			"y": {MaxVelocity: 300, MaxAccel: 3000, MinPosition: 0, MaxPosition: 220},
			"z": {MaxVelocity: 10, MaxAccel: 100, MinPosition: 0, MaxPosition: 250},
		},
		Steppers: map[string]StepperConfig{
			"x": {Axes: "x", StepDistance: 1.0 / 80.0},
			"y": {Axes: "y", StepDistance: 1.0 / 80.0},
			"z": {Axes: "z", StepDistance: 1.0 / 400.0},
		},
		DefaultVelocity: 50.0,
		DefaultAccel:    500.0,
		ClockFreq:       16_000_000,
	}
	applyDefaults(cfg)
	return cfg
}
