package session

import (
	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// PartState is the display state of one anatomical part
type PartState struct {
	Part    part.Part
	Visible bool
	Opacity float64
}

// Translucent reports whether the part is drawn see-through
func (p PartState) Translucent() bool {
	return p.Opacity < 1
}

// Dot is the feedback point of a pending first tap, in its surface's frame
type Dot struct {
	Surface  raycast.EntityID
	Position geometry.Vector3
}

// Frame is a snapshot of everything a host needs to draw
type Frame struct {
	Markers       []marker.Marker
	Rulers        []ruler.Ruler
	RulersVisible bool
	RulerMode     bool
	// RulerStart is the selected ruler start in world space, when HasRulerStart is set
	RulerStart    geometry.Vector3
	HasRulerStart bool
	Dots          []Dot
	Parts         []PartState
	ActivePart    part.Part
	TapMode       tapphase.Mode
	TapState      tapphase.State
}

// Part returns the display state of p
func (f Frame) Part(p part.Part) (PartState, bool) {
	for _, state := range f.Parts {
		if state.Part == p {
			return state, true
		}
	}
	return PartState{}, false
}

// Frame returns the current snapshot
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Session) frameLocked() Frame {
	f := Frame{
		Markers:       s.markers.All(),
		Rulers:        s.rulers.All(),
		RulersVisible: s.rulers.Visible(),
		RulerMode:     s.rulers.IsRulerMode(),
		ActivePart:    s.active,
		TapMode:       s.taps.Mode(),
		TapState:      s.taps.State(),
	}
	f.RulerStart, _, f.HasRulerStart = s.rulers.Selection()
	if pending, ok := s.taps.Pending(); ok {
		f.Dots = []Dot{{Surface: pending.Surface, Position: pending.Position}}
	}
	for _, p := range s.order {
		f.Parts = append(f.Parts, *s.parts[p])
	}
	return f
}

// Subscribe registers fn to receive every published frame, in order.
// fn runs on the goroutine that made the change and must not call session
// commands synchronously. The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Frame)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) observerList() []func(Frame) {
	out := make([]func(Frame), 0, len(s.observers))
	for id := 0; id < s.nextObserver; id++ {
		if fn, ok := s.observers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
