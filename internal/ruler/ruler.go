// Package ruler measures distances between markers and surface points.
package ruler

import (
	"github.com/google/uuid"

	"github.com/yosuahres/developmentVRSkripsi/pkg/analysis"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// DefaultRealWorldScale converts scene units to millimetres
const DefaultRealWorldScale = 100.0

// DistanceMM converts the scene-space length between start and end to millimetres
func DistanceMM(start, end geometry.Vector3, scale float64) float64 {
	return end.Sub(start).Length() * scale
}

// Ruler is a fixed measurement between two world-space points
type Ruler struct {
	ID         string
	Start      geometry.Vector3
	End        geometry.Vector3
	DistanceMM float64
}

// Label is the text shown next to the ruler
func (r Ruler) Label() string {
	return analysis.FormatMillimetres(r.DistanceMM)
}

// Midpoint is where the label is anchored
func (r Ruler) Midpoint() geometry.Vector3 {
	return r.Start.Midpoint(r.End)
}

// TapKind tells the caller what a ruler-mode tap did
type TapKind int

const (
	// TapNoMarkers means there was nothing to measure from
	TapNoMarkers TapKind = iota
	// TapStartSelected means the nearest marker became the pending start
	TapStartSelected
	// TapRulerCreated means the pending start was joined to the tap
	TapRulerCreated
)

// TapResult reports the effect of HandleTap
type TapResult struct {
	Kind       TapKind
	StartIndex int
	Ruler      Ruler
}

// Option configures a Manager
type Option func(*Manager)

// WithScale overrides DefaultRealWorldScale
func WithScale(scale float64) Option {
	return func(m *Manager) {
		if scale > 0 {
			m.scale = scale
		}
	}
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// Manager owns the rulers of one session and the ruler-mode selection
type Manager struct {
	rulers    []Ruler
	rulerMode bool
	visible   bool

	hasStart   bool
	start      geometry.Vector3
	startIndex int

	scale float64
	newID func() string
}

// NewManager creates a manager with ruler mode off and the overlay visible
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		visible: true,
		scale:   DefaultRealWorldScale,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scale returns the scene-to-millimetre factor
func (m *Manager) Scale() float64 {
	return m.scale
}

// IsRulerMode reports whether taps measure instead of placing markers
func (m *Manager) IsRulerMode() bool {
	return m.rulerMode
}

// ToggleMode flips ruler mode and forgets any pending start
func (m *Manager) ToggleMode() bool {
	m.rulerMode = !m.rulerMode
	m.clearSelection()
	return m.rulerMode
}

// Selection returns the pending start point and the marker index it came from
func (m *Manager) Selection() (geometry.Vector3, int, bool) {
	return m.start, m.startIndex, m.hasStart
}

func (m *Manager) clearSelection() {
	m.hasStart = false
	m.start = geometry.Vector3{}
	m.startIndex = -1
}

// HandleTap selects the marker nearest to hitPosition as a start point,
// or, when a start is already selected, creates a ruler from it to hitPosition.
func (m *Manager) HandleTap(hitPosition geometry.Vector3, markerPositions []geometry.Vector3) TapResult {
	if m.hasStart {
		r := m.create(m.start, hitPosition)
		index := m.startIndex
		m.clearSelection()
		return TapResult{Kind: TapRulerCreated, StartIndex: index, Ruler: r}
	}

	index, _ := analysis.NearestPoint(markerPositions, hitPosition)
	if index < 0 {
		return TapResult{Kind: TapNoMarkers, StartIndex: -1}
	}

	m.hasStart = true
	m.start = markerPositions[index]
	m.startIndex = index
	return TapResult{Kind: TapStartSelected, StartIndex: index}
}

// CreateBetweenLastTwo measures between the two most recent marker positions
func (m *Manager) CreateBetweenLastTwo(markerPositions []geometry.Vector3) (Ruler, bool) {
	n := len(markerPositions)
	if n < 2 {
		return Ruler{}, false
	}
	return m.create(markerPositions[n-2], markerPositions[n-1]), true
}

func (m *Manager) create(start, end geometry.Vector3) Ruler {
	r := Ruler{
		ID:         m.newID(),
		Start:      start,
		End:        end,
		DistanceMM: DistanceMM(start, end, m.scale),
	}
	m.rulers = append(m.rulers, r)
	return r
}

// ClearAll removes every ruler and the pending start; ruler mode is kept
func (m *Manager) ClearAll() {
	m.rulers = nil
	m.clearSelection()
}

// Visible reports whether the ruler overlay is shown
func (m *Manager) Visible() bool {
	return m.visible
}

// ToggleVisibility shows or hides the ruler overlay
func (m *Manager) ToggleVisibility() bool {
	m.visible = !m.visible
	return m.visible
}

// All returns a copy of the rulers in creation order
func (m *Manager) All() []Ruler {
	out := make([]Ruler, len(m.rulers))
	copy(out, m.rulers)
	return out
}

// Len returns the number of rulers
func (m *Manager) Len() int {
	return len(m.rulers)
}
