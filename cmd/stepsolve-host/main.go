// Command stepsolve-host is an interactive REPL over the solver pipeline:
// it reads G-code lines (or REPL commands) from stdin, drives them
// through a planner and the itersolve queue, flushes the solved steps
// through a stepcompress.Encoder, and streams the resulting wire frames
// to a real MCU over a serial port. Adapted from
// host/cmd/gopper-host/main.go's flag parsing, connect-then-loop
// structure and command dispatch table, retargeted from the teacher's
// Klipper dictionary-handshake protocol onto this repo's G-code ->
// planner -> itersolve -> stepcompress pipeline.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/amken3d/stepsolve/config"
	"github.com/amken3d/stepsolve/gcode"
	"github.com/amken3d/stepsolve/host/serial"
	"github.com/amken3d/stepsolve/itersolve"
	"github.com/amken3d/stepsolve/kinematics"
	"github.com/amken3d/stepsolve/planner"
	"github.com/amken3d/stepsolve/protocol"
	"github.com/amken3d/stepsolve/simclock"
	"github.com/amken3d/stepsolve/stepcompress"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	dryRun  = flag.Bool("dry-run", false, "Solve and report without opening a serial port")
	verbose = flag.Bool("verbose", false, "Enable verbose (debug level) logging")
)

func main() {
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var port serial.Port
	if !*dryRun {
		serialCfg := serial.DefaultConfig(*device)
		serialCfg.Baud = *baud
		p, err := serial.Open(serialCfg)
		if err != nil {
			logger.Fatal("failed to open serial port", zap.String("device", *device), zap.Error(err))
		}
		defer p.Close()
		port = p
		logger.Info("connected", zap.String("device", *device), zap.Int("baud", *baud))
	}

	cfg := config.Default()
	sess := newSession(cfg, logger, port)

	fmt.Println("stepsolve host REPL. Type 'help' for commands, 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := sess.handleLine(line); err != nil {
			logger.Error("command failed", zap.String("line", line), zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading stdin", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// session holds the live planner/solver/encoder pipeline the REPL drives.
type session struct {
	cfg      *config.MachineConfig
	log      *zap.Logger
	port     serial.Port
	queue    *itersolve.Queue
	plan     *planner.Planner
	interp   *gcode.Interpreter
	steppers map[string]*itersolve.StepperKinematics
	encoders map[string]*stepcompress.Encoder
	clock    *simclock.Clock
}

func newSession(cfg *config.MachineConfig, log *zap.Logger, port serial.Port) *session {
	queue := itersolve.NewQueue()
	plan := planner.NewPlanner(queue, kinematics.Position{})

	s := &session{
		cfg:      cfg,
		log:      log,
		port:     port,
		queue:    queue,
		plan:     plan,
		steppers: make(map[string]*itersolve.StepperKinematics),
		encoders: make(map[string]*stepcompress.Encoder),
		clock:    simclock.New(),
	}
	s.interp = gcode.NewInterpreter(plan, cfg.DefaultVelocity, cfg.DefaultAccel)

	for name, st := range cfg.Steppers {
		proj, axes := projectionFor(st.Axes)
		sk := itersolve.NewStepperKinematics(name, proj, axes)
		sk.SetQueue(queue)
		sk.GenStepsPreActive = st.GenStepsPreActive
		sk.GenStepsPostActive = st.GenStepsPostActive

		enc := stepcompress.NewEncoder(cfg.ClockFreq)
		sk.SetSink(enc, st.StepDistance)

		s.steppers[name] = sk
		s.encoders[name] = enc
	}
	return s
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

func (s *session) handleLine(line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("tokenizing: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	switch strings.ToLower(tokens[0]) {
	case "quit", "exit", "q":
		os.Exit(0)
	case "help", "?":
		printHelp()
	case "flush":
		return s.flush()
	case "pos":
		p := s.plan.Position()
		fmt.Printf("X=%.3f Y=%.3f Z=%.3f E=%.3f\n", p.X, p.Y, p.Z, p.E)
	default:
		return s.execGCode(line)
	}
	return nil
}

func (s *session) execGCode(line string) error {
	cmd, err := gcode.ParseLine(line)
	if err != nil {
		return err
	}
	return s.interp.Execute(cmd)
}

// flush drives every stepper's queue forward to 10 seconds past the session
// clock's current time, encodes the resulting steps, and streams them to
// the connected serial port (if any). The session clock is never advanced,
// so the flush time is always t=10s: moves queued past it are not solved.
func (s *session) flush() error {
	flushTime := s.clock.Now() + 10 // fixed 10s horizon from the session clock
	for name, sk := range s.steppers {
		if err := sk.Flush(flushTime); err != nil {
			return fmt.Errorf("flushing %s: %w", name, err)
		}
	}
	for name, enc := range s.encoders {
		out := protocol.NewSliceOutput()
		if err := enc.Flush(out); err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		frame := out.Result()
		s.log.Debug("encoded frame", zap.String("stepper", name), zap.Int("bytes", len(frame)))
		if s.port != nil && len(frame) > 0 {
			if _, err := s.port.Write(frame); err != nil {
				return fmt.Errorf("writing %s frame: %w", name, err)
			}
		}
	}
	return nil
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  <gcode line>   - parse and queue a G/M-code line (e.g. G1 X10 Y10 F1200)")
	fmt.Println("  flush          - solve and stream queued moves up to t=10s")
	fmt.Println("  pos            - print the current commanded position")
	fmt.Println("  help           - show this help message")
	fmt.Println("  quit/exit/q    - exit the program")
	fmt.Println()
}
