package scene

import (
	"fmt"

	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

// PartModel is one mesh of a case
type PartModel struct {
	ID    raycast.EntityID
	Part  part.Part
	Model *stl.Model
}

// AddCase adds an anchor that centres all parts on the origin and scales them by scale,
// then one surface node per part below it. The returned surfaces are ready for a session.
func (g *Graph) AddCase(id raycast.EntityID, scale float64, parts []PartModel) ([]session.Surface, error) {
	bounds := geometry.NewBoundingBox()
	for _, p := range parts {
		b := p.Model.BoundingBox()
		if !b.Empty() {
			bounds.Extend(b.Min)
			bounds.Extend(b.Max)
		}
	}

	anchor := geometry.UniformScale(scale).Mul(geometry.Translation(bounds.Center().Neg()))
	if _, err := g.AddGroup(id, RootID, anchor); err != nil {
		return nil, fmt.Errorf("add case: %w", err)
	}

	surfaces := make([]session.Surface, 0, len(parts))
	for _, p := range parts {
		if _, err := g.AddSurface(p.ID, id, p.Part, NewMesh(p.Model), geometry.IdentityTransform()); err != nil {
			g.Remove(id)
			return nil, fmt.Errorf("add case: %w", err)
		}
		surface, err := g.Surface(p.ID)
		if err != nil {
			g.Remove(id)
			return nil, fmt.Errorf("add case: %w", err)
		}
		surfaces = append(surfaces, surface)
	}
	return surfaces, nil
}
