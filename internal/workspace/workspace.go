// Package workspace assembles the scene graph and planning session of a loaded case.
package workspace

import (
	"fmt"
	"log/slog"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
)

// Workspace is a case ready for planning
type Workspace struct {
	Name    string
	Graph   *scene.Graph
	Session *session.Session

	logger *slog.Logger
}

// SurfaceID is the node id of the surface showing p
func SurfaceID(p part.Part) raycast.EntityID {
	return raycast.EntityID(p.String())
}

func models(c *loader.Case) []scene.PartModel {
	out := make([]scene.PartModel, 0, len(c.Parts))
	for _, p := range c.Parts {
		out = append(out, scene.PartModel{ID: SurfaceID(p.Part), Part: p.Part, Model: p.Model})
	}
	return out
}

// Open places the parts of c in a new graph and registers them with a new session
func Open(c *loader.Case, planner config.PlannerConfig, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scale := planner.ModelScale
	if scale <= 0 {
		scale = 1 / planner.Session().RealWorldScale
	}

	g := scene.NewGraph()
	surfaces, err := g.AddCase(raycast.EntityID("case/"+c.Name), scale, models(c))
	if err != nil {
		return nil, fmt.Errorf("failed to open case %s: %w", c.Name, err)
	}

	s := session.New(g, planner.Session(), logger.With("case", c.Name))
	for _, surface := range surfaces {
		if err := s.AddSurface(surface); err != nil {
			return nil, fmt.Errorf("failed to open case %s: %w", c.Name, err)
		}
	}
	return &Workspace{Name: c.Name, Graph: g, Session: s, logger: logger}, nil
}

// Reload swaps in re-read meshes. Markers stay attached to their surfaces;
// parts that were not part of the case are skipped.
func (w *Workspace) Reload(c *loader.Case) int {
	swapped := 0
	for _, pm := range models(c) {
		if w.Graph.SetMesh(pm.ID, scene.NewMesh(pm.Model)) {
			swapped++
			continue
		}
		w.logger.Warn("reloaded part not in workspace", "case", w.Name, "part", pm.Part)
	}
	w.Session.Refresh()
	return swapped
}
