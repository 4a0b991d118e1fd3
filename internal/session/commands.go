package session

import (
	"fmt"
	"math"

	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/space"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// ToggleRulerMode switches between placing markers and measuring.
// Any pending ruler start or pending marker tap is discarded.
func (s *Session) ToggleRulerMode() bool {
	var on bool
	s.update(func() bool {
		on = s.rulers.ToggleMode()
		s.taps.Cancel()
		s.logger.Info("ruler mode", "enabled", on)
		return true
	})
	return on
}

// ToggleRulerVisibility shows or hides every ruler
func (s *Session) ToggleRulerVisibility() bool {
	var visible bool
	s.update(func() bool {
		visible = s.rulers.ToggleVisibility()
		return true
	})
	return visible
}

// ClearAllRulers removes every ruler; ruler mode stays as it was
func (s *Session) ClearAllRulers() {
	s.update(func() bool {
		s.rulers.ClearAll()
		return true
	})
}

// CreateRulerBetweenLastTwo measures between the two newest markers
func (s *Session) CreateRulerBetweenLastTwo() (ruler.Ruler, error) {
	var (
		r   ruler.Ruler
		err error
	)
	s.update(func() bool {
		var ok bool
		r, ok = s.rulers.CreateBetweenLastTwo(s.markerWorldPositionsLocked())
		if !ok {
			err = ErrNoMarkers
		}
		return ok
	})
	return r, err
}

// SpawnMarkerAtCurrentTarget places a marker where the camera looks at the active surface.
// When the view ray misses, markers are laid out on a ring around the surface centre.
func (s *Session) SpawnMarkerAtCurrentTarget() Outcome {
	var out Outcome
	s.update(func() bool {
		out = s.spawnLocked()
		return out.Kind != OutcomeIgnored
	})
	return out
}

func (s *Session) spawnLocked() Outcome {
	surface, ok := s.activeSurface()
	if !ok {
		return ignored(ErrNoSurface)
	}
	anchor := surface.anchor()
	if !anchor.Invertible() {
		s.logger.Warn("skipping spawn", "error", ErrDegenerateTransform, "part", surface.Part)
		return ignored(ErrDegenerateTransform)
	}

	if s.host != nil {
		camera := s.host.CameraTransform()
		if _, hit, fallback, err := s.castLocked(camera.Position(), camera.Forward()); err == nil {
			if local, normal, err := space.ToLocal(hit.Position, hit.Normal, anchor); err == nil {
				m := s.markers.CreateAt(surface.ID, local, marker.SingleHitOrientation(normal), marker.SourceSpawn)
				s.spawned++
				return Outcome{Kind: OutcomeMarkerPlaced, Marker: m, FallbackNormal: fallback}
			}
		}
	}

	angle := float64(s.spawned) * math.Pi / 3
	offset := geometry.NewVector3(math.Cos(angle)*s.cfg.SpawnRadius, 0, math.Sin(angle)*s.cfg.SpawnRadius)
	center := surface.Bounds.Center()

	worldCenter := anchor.Point(center)
	position, _, err := space.ToLocal(worldCenter.Add(offset), geometry.Up, anchor)
	if err != nil {
		return ignored(ErrDegenerateTransform)
	}

	m := s.markers.CreateAt(surface.ID, position, geometry.QuaternionIdentity(), marker.SourceSpawn)
	s.spawned++
	s.logger.Info("marker spawned", "id", m.ID, "part", surface.Part)
	return Outcome{Kind: OutcomeMarkerPlaced, Marker: m}
}

// RemoveLastMarker deletes the newest marker
func (s *Session) RemoveLastMarker() (marker.Marker, bool) {
	var (
		m  marker.Marker
		ok bool
	)
	s.update(func() bool {
		m, ok = s.markers.RemoveLast()
		return ok
	})
	return m, ok
}

// RemoveMarker deletes one marker; an unknown id changes nothing
func (s *Session) RemoveMarker(id string) error {
	var err error
	s.update(func() bool {
		if !s.markers.Remove(id) {
			err = fmt.Errorf("remove %q: %w", id, ErrUnknownID)
			s.logger.Debug("remove ignored", "error", err)
			return false
		}
		return true
	})
	return err
}

// SetMarkerVisible shows or hides one marker; an unknown id changes nothing
func (s *Session) SetMarkerVisible(id string, visible bool) error {
	var err error
	s.update(func() bool {
		if !s.markers.SetVisible(id, visible) {
			err = fmt.Errorf("set visible %q: %w", id, ErrUnknownID)
			s.logger.Debug("visibility ignored", "error", err)
			return false
		}
		return true
	})
	return err
}

// ToggleAllMarkersVisible hides every marker when all are shown, otherwise shows them all
func (s *Session) ToggleAllMarkersVisible() bool {
	var visible bool
	s.update(func() bool {
		visible = s.markers.ToggleAllVisible()
		return s.markers.Len() > 0
	})
	return visible
}

// ClearMarkers removes every marker and any pending tap
func (s *Session) ClearMarkers() {
	s.update(func() bool {
		s.markers.Clear()
		s.taps.Cancel()
		return true
	})
}

// SetTapMode switches between single and two-tap placement, discarding a pending tap
func (s *Session) SetTapMode(mode tapphase.Mode) {
	s.update(func() bool {
		s.taps.SetMode(mode)
		return true
	})
}

// CancelPendingTap drops the stored first tap; calling it again is harmless
func (s *Session) CancelPendingTap() {
	s.update(func() bool {
		_, pending := s.taps.Pending()
		s.taps.Cancel()
		return pending
	})
}

// SetPartVisible shows or hides every surface of part
func (s *Session) SetPartVisible(p part.Part, visible bool) error {
	var err error
	s.update(func() bool {
		state, ok := s.parts[p]
		if !ok {
			err = fmt.Errorf("set visible %s: %w", p, ErrNoSurface)
			return false
		}
		if state.Visible == visible {
			return false
		}
		state.Visible = visible
		return true
	})
	return err
}

// SetPartOpacity makes part translucent when translucent is true, opaque otherwise
func (s *Session) SetPartOpacity(p part.Part, translucent bool) error {
	var err error
	s.update(func() bool {
		state, ok := s.parts[p]
		if !ok {
			err = fmt.Errorf("set opacity %s: %w", p, ErrNoSurface)
			return false
		}
		opacity := 1.0
		if translucent {
			opacity = s.cfg.TranslucentOpacity
		}
		if state.Opacity == opacity {
			return false
		}
		state.Opacity = opacity
		return true
	})
	return err
}
