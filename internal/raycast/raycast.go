// Package raycast turns a pointing ray into a hit on one target surface.
package raycast

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// EntityID identifies a node in the host scene
type EntityID string

// Hit is the intersection of a ray with the target surface
type Hit struct {
	Position geometry.Vector3
	Normal   geometry.Vector3
	Surface  EntityID
}

// Candidate is one intersection reported by the host, with the entity that was hit
type Candidate struct {
	Position geometry.Vector3
	Normal   geometry.Vector3
	Entity   EntityID
	Distance float64
}

// Scene is the query surface a host exposes for picking
type Scene interface {
	// Raycast returns every intersection along the ray, nearest first
	Raycast(origin, direction geometry.Vector3) []Candidate
	// Parent returns the parent of id; false at the root or for unknown ids
	Parent(id EntityID) (EntityID, bool)
}

// maxDepth caps ancestor walks in case a host reports a cycle
const maxDepth = 256

// Adapter filters host intersections down to a single target surface
type Adapter struct {
	scene  Scene
	logger *slog.Logger
}

// NewAdapter wraps scene; a nil scene makes every cast miss
func NewAdapter(scene Scene, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{scene: scene, logger: logger}
}

// CastRay returns the nearest hit whose entity is target or one of target's descendants
func (a *Adapter) CastRay(origin, direction geometry.Vector3, target EntityID) (Hit, bool) {
	if a == nil || a.scene == nil {
		return Hit{}, false
	}
	if !origin.IsFinite() || !direction.IsFinite() || direction.Length() == 0 {
		a.logger.Debug("raycast rejected", "origin", origin, "direction", direction)
		return Hit{}, false
	}

	for _, c := range a.scene.Raycast(origin, direction.Normalize()) {
		if a.belongsTo(c.Entity, target) {
			return Hit{Position: c.Position, Normal: c.Normal, Surface: target}, true
		}
	}

	a.logger.Debug("raycast missed target", "target", target)
	return Hit{}, false
}

func (a *Adapter) belongsTo(id, target EntityID) bool {
	for depth := 0; depth < maxDepth; depth++ {
		if id == target {
			return true
		}
		parent, ok := a.scene.Parent(id)
		if !ok {
			return false
		}
		id = parent
	}
	return false
}

// SortCandidates orders candidates nearest first, keeping input order for equal distances
func SortCandidates(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
}
