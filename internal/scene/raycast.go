package scene

import (
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Raycast implements raycast.Scene: every visible surface is intersected
// in its own frame and the hits are returned in world space, nearest first.
// Equal distances keep tree order.
func (g *Graph) Raycast(origin, direction geometry.Vector3) []raycast.Candidate {
	g.mu.RLock()
	defer g.mu.RUnlock()

	scale := direction.Length()
	if scale == 0 {
		return nil
	}

	var out []raycast.Candidate
	for _, n := range g.surfacesLocked() {
		world := worldLocked(n)
		inverse, err := world.Inverse()
		if err != nil {
			continue
		}

		// an affine map keeps the ray parameter, so t stays comparable across surfaces
		for _, h := range n.Mesh.Intersect(inverse.Point(origin), inverse.Direction(direction)) {
			normal, err := world.Normal(fromVec(h.normal))
			if err != nil {
				continue
			}
			out = append(out, raycast.Candidate{
				Position: world.Point(fromVec(h.point)),
				Normal:   normal,
				Entity:   n.ID,
				Distance: h.t * scale,
			})
		}
	}

	raycast.SortCandidates(out)
	return out
}

// surfacesLocked lists the visible surfaces with meshes, depth first in insertion order
func (g *Graph) surfacesLocked() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Kind == KindSurface && n.Mesh != nil {
			out = append(out, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(g.root)
	return out
}
