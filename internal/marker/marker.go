// Package marker keeps the osteotomy planes placed on a surface.
package marker

import (
	"github.com/google/uuid"

	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Source records how a marker came to exist
type Source int

const (
	SourceTap Source = iota
	SourceSpawn
	SourceFragment
)

func (s Source) String() string {
	switch s {
	case SourceSpawn:
		return "spawn"
	case SourceFragment:
		return "fragment"
	default:
		return "tap"
	}
}

// Marker is a planning plane attached to a surface.
// Position and Orientation are in the surface's local frame and never change after creation.
type Marker struct {
	ID          string
	Surface     raycast.EntityID
	Position    geometry.Vector3
	Orientation geometry.Quaternion
	Visible     bool
	Source      Source
}

// Normal returns the plane normal in the surface's local frame
func (m Marker) Normal() geometry.Vector3 {
	return m.Orientation.Rotate(geometry.ReferenceAxis)
}

// Option configures a Manager
type Option func(*Manager)

// WithSurfaceOffset lifts single-hit markers along the normal by eps to avoid z-fighting
func WithSurfaceOffset(eps float64) Option {
	return func(m *Manager) {
		m.surfaceOffset = eps
	}
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// Manager owns the ordered marker collection of one session
type Manager struct {
	markers       []Marker
	surfaceOffset float64
	newID         func() string
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{newID: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SingleHitOrientation aligns the plane normal with the hit normal
func SingleHitOrientation(normal geometry.Vector3) geometry.Quaternion {
	n, _ := geometry.SanitizeNormal(normal)
	return geometry.QuaternionFromNormal(n)
}

// TwoHitOrientation orients a plane whose normal is the mean of both hit normals
// and whose tangent is perpendicular to the line joining the hits.
func TwoHitOrientation(a, b raycast.Hit) geometry.Quaternion {
	na, _ := geometry.SanitizeNormal(a.Normal)
	nb, _ := geometry.SanitizeNormal(b.Normal)

	normal, ok := geometry.SanitizeNormal(na.Add(nb))
	if !ok {
		normal = na
	}

	direction := b.Position.Sub(a.Position).Normalize()
	tangent, ok := geometry.SanitizeNormal(normal.Cross(direction))
	if !ok {
		return geometry.QuaternionFromNormal(normal)
	}
	bitangent := normal.Cross(tangent)

	return geometry.QuaternionFromBasis(tangent, bitangent, normal)
}

// CreateFromSingleHit places a marker at the hit, facing along its normal
func (m *Manager) CreateFromSingleHit(hit raycast.Hit) Marker {
	orientation := SingleHitOrientation(hit.Normal)
	position := hit.Position
	if m.surfaceOffset != 0 {
		n, _ := geometry.SanitizeNormal(hit.Normal)
		position = position.Add(n.Mul(m.surfaceOffset))
	}
	return m.add(hit.Surface, position, orientation, SourceTap)
}

// CreateFromTwoHits places a marker halfway between a and b
func (m *Manager) CreateFromTwoHits(a, b raycast.Hit) Marker {
	return m.add(a.Surface, a.Position.Midpoint(b.Position), TwoHitOrientation(a, b), SourceTap)
}

// CreateAt places a marker with an explicit pose
func (m *Manager) CreateAt(surface raycast.EntityID, position geometry.Vector3, orientation geometry.Quaternion, source Source) Marker {
	if orientation.IsZero() {
		orientation = geometry.QuaternionIdentity()
	}
	return m.add(surface, position, orientation, source)
}

func (m *Manager) add(surface raycast.EntityID, position geometry.Vector3, orientation geometry.Quaternion, source Source) Marker {
	marker := Marker{
		ID:          m.newID(),
		Surface:     surface,
		Position:    position,
		Orientation: orientation,
		Visible:     true,
		Source:      source,
	}
	m.markers = append(m.markers, marker)
	return marker
}

func (m *Manager) index(id string) int {
	for i := range m.markers {
		if m.markers[i].ID == id {
			return i
		}
	}
	return -1
}

// Get looks a marker up by id
func (m *Manager) Get(id string) (Marker, bool) {
	if i := m.index(id); i >= 0 {
		return m.markers[i], true
	}
	return Marker{}, false
}

// Remove deletes a marker; unknown ids are ignored and reported as false
func (m *Manager) Remove(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.markers = append(m.markers[:i], m.markers[i+1:]...)
	return true
}

// RemoveLast deletes the most recently created marker
func (m *Manager) RemoveLast() (Marker, bool) {
	if len(m.markers) == 0 {
		return Marker{}, false
	}
	last := m.markers[len(m.markers)-1]
	m.markers = m.markers[:len(m.markers)-1]
	return last, true
}

// SetVisible changes one marker's visibility; unknown ids are ignored and reported as false
func (m *Manager) SetVisible(id string, visible bool) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.markers[i].Visible = visible
	return true
}

// AllVisible reports whether every marker is shown; true for an empty set
func (m *Manager) AllVisible() bool {
	for _, marker := range m.markers {
		if !marker.Visible {
			return false
		}
	}
	return true
}

// ToggleAllVisible hides everything when all markers are shown, otherwise shows everything.
// It returns the visibility now applied.
func (m *Manager) ToggleAllVisible() bool {
	visible := !m.AllVisible()
	for i := range m.markers {
		m.markers[i].Visible = visible
	}
	return visible
}

// All returns a copy of the markers in creation order
func (m *Manager) All() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Positions returns the marker positions in creation order
func (m *Manager) Positions() []geometry.Vector3 {
	out := make([]geometry.Vector3, len(m.markers))
	for i, marker := range m.markers {
		out[i] = marker.Position
	}
	return out
}

// Len returns the number of markers
func (m *Manager) Len() int {
	return len(m.markers)
}

// Clear removes every marker
func (m *Manager) Clear() {
	m.markers = nil
}
