// Package script replays planning gestures from a text file against a session.
//
// One command per line, '#' starts a comment:
//
//	camera 0 2 0  0 0 0     # eye, look-at centre
//	mode two                # single | two
//	tap 0 2 0  0 -1 0       # ray origin, direction
//	aim 0.1 0 0.3           # tap from the camera eye towards a point
//	spawn
//	ruler                   # toggle ruler mode
//	ruler-last | ruler-clear | ruler-visible
//	remove-last | markers-visible | cancel | fragments
//	active maxilla
//	part maxilla hide|show|translucent|opaque
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Op is a script command
type Op string

const (
	OpCamera         Op = "camera"
	OpMode           Op = "mode"
	OpTap            Op = "tap"
	OpAim            Op = "aim"
	OpSpawn          Op = "spawn"
	OpRuler          Op = "ruler"
	OpRulerLast      Op = "ruler-last"
	OpRulerClear     Op = "ruler-clear"
	OpRulerVisible   Op = "ruler-visible"
	OpRemoveLast     Op = "remove-last"
	OpMarkersVisible Op = "markers-visible"
	OpCancel         Op = "cancel"
	OpFragments      Op = "fragments"
	OpActive         Op = "active"
	OpPart           Op = "part"
)

// arity is the number of numeric arguments an op takes; -1 marks word arguments
var arity = map[Op]int{
	OpCamera:         6,
	OpMode:           -1,
	OpTap:            6,
	OpAim:            3,
	OpSpawn:          0,
	OpRuler:          0,
	OpRulerLast:      0,
	OpRulerClear:     0,
	OpRulerVisible:   0,
	OpRemoveLast:     0,
	OpMarkersVisible: 0,
	OpCancel:         0,
	OpFragments:      0,
	OpActive:         -1,
	OpPart:           -1,
}

// Step is one parsed command
type Step struct {
	Line   int
	Op     Op
	Values []float64
	Mode   tapphase.Mode
	Part   part.Part
	Action string
}

// ParseError points at the offending line
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrUnknownCommand is wrapped by ParseError for unrecognised commands
var ErrUnknownCommand = errors.New("unknown command")

// Parse reads a script
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		step, err := parseStep(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		step.Line = line
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script: %w", err)
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	op := Op(strings.ToLower(fields[0]))
	n, ok := arity[op]
	if !ok {
		return Step{}, fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]
	step := Step{Op: op}

	if n >= 0 {
		if len(args) != n {
			return Step{}, fmt.Errorf("%s expects %d numbers, got %d", op, n, len(args))
		}
		for _, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return Step{}, fmt.Errorf("%s: %w", op, err)
			}
			step.Values = append(step.Values, v)
		}
		return step, nil
	}

	var err error
	switch op {
	case OpMode:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("mode expects single or two")
		}
		step.Mode, err = tapphase.ParseMode(args[0])
	case OpActive:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("active expects a part")
		}
		step.Part, err = part.Parse(args[0])
	case OpPart:
		if len(args) != 2 {
			return Step{}, fmt.Errorf("part expects a part and hide|show|translucent|opaque")
		}
		if step.Part, err = part.Parse(args[0]); err != nil {
			return Step{}, err
		}
		step.Action = strings.ToLower(args[1])
		switch step.Action {
		case "hide", "show", "translucent", "opaque":
		default:
			err = fmt.Errorf("unknown part action %q", args[1])
		}
	}
	return step, err
}

func vec(v []float64) geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}
