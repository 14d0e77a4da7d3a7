// Command gopperd is the batch counterpart to stepsolve-host: it reads an
// entire G-code file, plans and solves it end to end without any operator
// interaction, and either streams the encoded step frames to a serial
// port or, in -dry-run mode, only reports how many encoded bytes each
// stepper produced. Grounded in the same planner/itersolve/stepcompress
// pipeline as cmd/stepsolve-host, restructured around a single pass over
// a file instead of a REPL, the way a print-from-SD-card job runs on a
// real printer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/amken3d/stepsolve/config"
	"github.com/amken3d/stepsolve/gcode"
	"github.com/amken3d/stepsolve/host/serial"
	"github.com/amken3d/stepsolve/itersolve"
	"github.com/amken3d/stepsolve/kinematics"
	"github.com/amken3d/stepsolve/planner"
	"github.com/amken3d/stepsolve/protocol"
	"github.com/amken3d/stepsolve/stepcompress"
)

var (
	gcodeFile = flag.String("file", "", "Path to a G-code file to print")
	device    = flag.String("device", "/dev/ttyACM0", "Serial device path")
	dryRun    = flag.Bool("dry-run", true, "Solve and report without opening a serial port")
	verbose   = flag.Bool("verbose", false, "Enable verbose (debug level) logging")
)

func main() {
	flag.Parse()
	if *gcodeFile == "" {
		fmt.Fprintln(os.Stderr, "usage: gopperd -file <path.gcode> [-device /dev/ttyACM0] [-dry-run=false]")
		os.Exit(2)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*gcodeFile, logger); err != nil {
		logger.Fatal("print job failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(path string, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cfg := config.Default()
	queue := itersolve.NewQueue()
	plan := planner.NewPlanner(queue, kinematics.Position{})
	interp := gcode.NewInterpreter(plan, cfg.DefaultVelocity, cfg.DefaultAccel)

	steppers := make(map[string]*itersolve.StepperKinematics)
	encoders := make(map[string]*stepcompress.Encoder)
	for name, st := range cfg.Steppers {
		proj, axes := projectionFor(st.Axes)
		sk := itersolve.NewStepperKinematics(name, proj, axes)
		sk.SetQueue(queue)
		sk.GenStepsPreActive = st.GenStepsPreActive
		sk.GenStepsPostActive = st.GenStepsPostActive

		enc := stepcompress.NewEncoder(cfg.ClockFreq)
		sk.SetSink(enc, st.StepDistance)

		steppers[name] = sk
		encoders[name] = enc
	}

	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		cmd, err := gcode.ParseLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := interp.Execute(cmd); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Info("parsed job", zap.Int("lines", lineNo))

	var port serial.Port
	if !*dryRun {
		p, err := serial.Open(serial.DefaultConfig(*device))
		if err != nil {
			return fmt.Errorf("opening serial port: %w", err)
		}
		defer p.Close()
		port = p
	}

	flushTime := 1e9 // solve the entire (finite) job queue in one pass
	for name, sk := range steppers {
		if err := sk.Flush(flushTime); err != nil {
			return fmt.Errorf("flushing %s: %w", name, err)
		}
	}

	for name, enc := range encoders {
		out := protocol.NewSliceOutput()
		if err := enc.Flush(out); err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		frame := out.Result()
		logger.Info("stepper solved", zap.String("stepper", name), zap.Int("bytes", len(frame)))
		if port != nil && len(frame) > 0 {
			if _, err := port.Write(frame); err != nil {
				return fmt.Errorf("writing %s frame: %w", name, err)
			}
		}
	}
	return nil
}

func projectionFor(axes string) (itersolve.Projection, itersolve.AxisSet) {
	switch axes {
	case "x":
		return kinematics.CartesianX, itersolve.AxisX
	case "y":
		return kinematics.CartesianY, itersolve.AxisY
	case "z":
		return kinematics.CartesianZ, itersolve.AxisZ
	case "a":
		return kinematics.CoreXYA, itersolve.AxisX | itersolve.AxisY
	case "b":
		return kinematics.CoreXYB, itersolve.AxisX | itersolve.AxisY
	default:
		return kinematics.CartesianX, itersolve.AxisX
	}
}
