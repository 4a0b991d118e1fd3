package session

import (
	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/space"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// OutcomeKind describes what a gesture did
type OutcomeKind int

const (
	// OutcomeIgnored means nothing changed; Err says why
	OutcomeIgnored OutcomeKind = iota
	// OutcomePending means the first of two taps was stored
	OutcomePending
	// OutcomeMarkerPlaced means a marker was created
	OutcomeMarkerPlaced
	// OutcomeRulerStart means a marker was selected as ruler start
	OutcomeRulerStart
	// OutcomeRulerCreated means a ruler was created
	OutcomeRulerCreated
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePending:
		return "pending"
	case OutcomeMarkerPlaced:
		return "marker placed"
	case OutcomeRulerStart:
		return "ruler start selected"
	case OutcomeRulerCreated:
		return "ruler created"
	default:
		return "ignored"
	}
}

// Outcome is the result of a tap or spawn
type Outcome struct {
	Kind   OutcomeKind
	Marker marker.Marker
	Ruler  ruler.Ruler
	// FallbackNormal is set when the hit normal was replaced with up
	FallbackNormal bool
	Err            error
}

func ignored(err error) Outcome {
	return Outcome{Kind: OutcomeIgnored, Err: err}
}

// Tap casts a world-space ray at the active surface and routes the hit
// to the ruler manager in ruler mode, otherwise to the tap-phase machine.
func (s *Session) Tap(origin, direction geometry.Vector3) Outcome {
	var out Outcome
	s.update(func() bool {
		out = s.tapLocked(origin, direction)
		return out.Kind != OutcomeIgnored
	})
	return out
}

func (s *Session) castLocked(origin, direction geometry.Vector3) (Surface, raycast.Hit, bool, error) {
	surface, ok := s.activeSurface()
	if !ok {
		return Surface{}, raycast.Hit{}, false, ErrNoSurface
	}

	hit, ok := s.adapter.CastRay(origin, direction, surface.ID)
	if !ok {
		s.logger.Debug("tap missed", "part", surface.Part)
		return surface, raycast.Hit{}, false, ErrNoHit
	}

	normal, ok := geometry.SanitizeNormal(hit.Normal)
	hit.Normal = normal
	if !ok {
		s.logger.Warn("substituting up for hit normal", "error", ErrDegenerateNormal, "position", hit.Position)
	}
	return surface, hit, !ok, nil
}

func (s *Session) tapLocked(origin, direction geometry.Vector3) Outcome {
	surface, hit, fallback, err := s.castLocked(origin, direction)
	if err != nil {
		return ignored(err)
	}

	if s.rulers.IsRulerMode() {
		return s.rulerTapLocked(hit.Position, fallback)
	}

	local, localNormal, err := space.ToLocal(hit.Position, hit.Normal, surface.anchor())
	if err != nil {
		s.logger.Warn("skipping tap", "error", err, "part", surface.Part)
		return ignored(ErrDegenerateTransform)
	}

	result := s.taps.Tap(raycast.Hit{Position: local, Normal: localNormal, Surface: surface.ID})
	if result.Kind == tapphase.Pending {
		return Outcome{Kind: OutcomePending, FallbackNormal: fallback}
	}

	var m marker.Marker
	if len(result.Hits) == 1 {
		m = s.markers.CreateFromSingleHit(result.Hits[0])
	} else {
		m = s.markers.CreateFromTwoHits(result.Hits[0], result.Hits[1])
	}
	s.logger.Info("marker placed", "id", m.ID, "part", surface.Part, "position", m.Position)
	return Outcome{Kind: OutcomeMarkerPlaced, Marker: m, FallbackNormal: fallback}
}

func (s *Session) rulerTapLocked(position geometry.Vector3, fallback bool) Outcome {
	result := s.rulers.HandleTap(position, s.markerWorldPositionsLocked())
	switch result.Kind {
	case ruler.TapStartSelected:
		s.logger.Info("ruler start selected", "marker", result.StartIndex)
		return Outcome{Kind: OutcomeRulerStart, FallbackNormal: fallback}
	case ruler.TapRulerCreated:
		s.logger.Info("ruler created", "id", result.Ruler.ID, "distance", result.Ruler.Label())
		return Outcome{Kind: OutcomeRulerCreated, Ruler: result.Ruler, FallbackNormal: fallback}
	default:
		s.logger.Info("no markers to measure from")
		return ignored(ErrNoMarkers)
	}
}
