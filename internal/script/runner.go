package script

import (
	"fmt"
	"io"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/pkg/analysis"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Camera is the viewer pose the script can move
type Camera interface {
	SetCamera(geometry.Transform)
	CameraTransform() geometry.Transform
}

// Runner executes steps against a session
type Runner struct {
	Session *session.Session
	Camera  Camera
	Plan    fragment.Plan
	// Out receives one line per step; nil discards
	Out io.Writer
}

// Run executes every step. Gesture misses are reported, not returned;
// the error is for commands the session rejects outright.
func (r *Runner) Run(steps []Step) error {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	for _, step := range steps {
		msg, err := r.exec(step)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", step.Line, step.Op, err)
		}
		fmt.Fprintf(out, "%3d %-15s %s\n", step.Line, step.Op, msg)
	}
	return nil
}

func (r *Runner) exec(step Step) (string, error) {
	s := r.Session
	switch step.Op {
	case OpCamera:
		if r.Camera == nil {
			return "", fmt.Errorf("no camera")
		}
		r.Camera.SetCamera(geometry.LookAt(vec(step.Values[:3]), vec(step.Values[3:]), geometry.Up))
		return "ok", nil
	case OpMode:
		s.SetTapMode(step.Mode)
		return step.Mode.String(), nil
	case OpTap:
		return describe(s.Tap(vec(step.Values[:3]), vec(step.Values[3:]))), nil
	case OpAim:
		if r.Camera == nil {
			return "", fmt.Errorf("no camera")
		}
		eye := r.Camera.CameraTransform().Position()
		return describe(s.Tap(eye, vec(step.Values).Sub(eye))), nil
	case OpSpawn:
		return describe(s.SpawnMarkerAtCurrentTarget()), nil
	case OpRuler:
		return onOff(s.ToggleRulerMode()), nil
	case OpRulerLast:
		rl, err := s.CreateRulerBetweenLastTwo()
		if err != nil {
			return "skipped: " + err.Error(), nil
		}
		return rl.Label(), nil
	case OpRulerClear:
		s.ClearAllRulers()
		return "ok", nil
	case OpRulerVisible:
		return onOff(s.ToggleRulerVisibility()), nil
	case OpRemoveLast:
		m, ok := s.RemoveLastMarker()
		if !ok {
			return "no markers", nil
		}
		return "removed " + m.ID, nil
	case OpMarkersVisible:
		return onOff(s.ToggleAllMarkersVisible()), nil
	case OpCancel:
		s.CancelPendingTap()
		return "ok", nil
	case OpFragments:
		markers, err := s.ApplyFragmentPlan(r.Plan)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d markers", len(markers)), nil
	case OpActive:
		return step.Part.String(), s.SetActivePart(step.Part)
	case OpPart:
		var err error
		switch step.Action {
		case "hide", "show":
			err = s.SetPartVisible(step.Part, step.Action == "show")
		default:
			err = s.SetPartOpacity(step.Part, step.Action == "translucent")
		}
		return step.Part.String() + " " + step.Action, err
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, step.Op)
}

func describe(o session.Outcome) string {
	switch o.Kind {
	case session.OutcomeMarkerPlaced:
		return fmt.Sprintf("marker %s at %s", o.Marker.ID, analysis.FormatVector(o.Marker.Position))
	case session.OutcomeRulerCreated:
		return "ruler " + o.Ruler.Label()
	case session.OutcomeIgnored:
		return fmt.Sprintf("ignored: %v", o.Err)
	default:
		return o.Kind.String()
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Summary writes the resulting markers and rulers
func Summary(w io.Writer, s *session.Session) {
	markers := s.Markers()
	fmt.Fprintf(w, "Markers: %d\n", len(markers))
	for i, m := range markers {
		visible := ""
		if !m.Visible {
			visible = " (hidden)"
		}
		fmt.Fprintf(w, "  %d. %s %s on %s normal %s%s\n", i+1, m.Source, analysis.FormatVector(m.Position),
			m.Surface, analysis.FormatVector(m.Normal()), visible)
	}
	rulers := s.Rulers()
	fmt.Fprintf(w, "Rulers: %d\n", len(rulers))
	for i, r := range rulers {
		fmt.Fprintf(w, "  %d. %s\n", i+1, r.Label())
	}
}
