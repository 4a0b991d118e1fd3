package scene

import (
	"fmt"

	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// node id prefixes of reconciled entities
const (
	markerPrefix = "marker/"
	rulerPrefix  = "ruler/"
	dotPrefix    = "dot/"
)

// RulerStartID is the node highlighting the selected ruler start
const RulerStartID raycast.EntityID = "ruler-start"

// MarkerNodeID is the node id used for a marker
func MarkerNodeID(markerID string) raycast.EntityID {
	return raycast.EntityID(markerPrefix + markerID)
}

// RulerNodeID is the node id used for a ruler
func RulerNodeID(rulerID string) raycast.EntityID {
	return raycast.EntityID(rulerPrefix + rulerID)
}

// Reconcile implements session.Host
func (g *Graph) Reconcile(frame session.Frame) {
	g.Apply(frame)
}

// LastStats returns the result of the most recent reconciliation
func (g *Graph) LastStats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// Apply brings marker, ruler and dot nodes in line with frame by id:
// missing nodes are created, changed ones updated in place and stale ones removed.
func (g *Graph) Apply(frame session.Frame) Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	var stats Stats
	g.applyPartsLocked(frame, &stats)

	want := make(map[raycast.EntityID]bool)

	for _, m := range frame.Markers {
		id := MarkerNodeID(m.ID)
		want[id] = true
		local := geometry.NewTransform(m.Position, m.Orientation, geometry.NewVector3(1, 1, 1))
		g.upsertLocked(&stats, id, raycast.EntityID(m.Surface), KindMarker, local, m.Visible, func(n *Node) bool {
			changed := n.Marker != m
			n.Marker = m
			return changed
		})
	}

	for _, r := range frame.Rulers {
		id := RulerNodeID(r.ID)
		want[id] = true
		g.upsertLocked(&stats, id, RootID, KindRuler, geometry.IdentityTransform(), frame.RulersVisible, func(n *Node) bool {
			changed := n.Ruler != r
			n.Ruler = r
			return changed
		})
	}

	for i, d := range frame.Dots {
		id := raycast.EntityID(fmt.Sprintf("%s%d", dotPrefix, i))
		want[id] = true
		g.upsertLocked(&stats, id, d.Surface, KindDot, geometry.Translation(d.Position), true, nil)
	}

	if frame.HasRulerStart {
		want[RulerStartID] = true
		g.upsertLocked(&stats, RulerStartID, RootID, KindRulerStart, geometry.Translation(frame.RulerStart), true, nil)
	}

	var stale []raycast.EntityID
	for id, n := range g.nodes {
		switch n.Kind {
		case KindMarker, KindRuler, KindDot, KindRulerStart:
			if !want[id] {
				stale = append(stale, id)
			}
		}
	}
	for _, id := range stale {
		if g.removeLocked(id) {
			stats.Removed++
		}
	}

	g.last = stats
	return stats
}

// upsertLocked creates id under parent or updates the existing node in place.
// A node whose parent changed is moved.
func (g *Graph) upsertLocked(stats *Stats, id, parent raycast.EntityID, kind Kind, local geometry.Transform, visible bool, payload func(*Node) bool) {
	n, exists := g.nodes[id]
	if !exists {
		n = &Node{ID: id, Kind: kind, Local: local, Visible: visible, Opacity: 1}
		if payload != nil {
			payload(n)
		}
		if err := g.attachLocked(n, parent); err != nil {
			// unknown surface: hang it off the root so it is still drawn
			if err := g.attachLocked(n, RootID); err != nil {
				return
			}
		}
		stats.Added++
		return
	}

	changed := false
	if payload != nil && payload(n) {
		changed = true
	}
	if n.Local.Matrix() != local.Matrix() {
		n.Local = local
		changed = true
	}
	if n.Visible != visible {
		n.Visible = visible
		changed = true
	}
	if p, ok := g.nodes[parent]; ok && n.parent != p {
		n.parent.removeChild(n)
		n.parent = p
		p.children = append(p.children, n)
		changed = true
	}
	if changed {
		stats.Updated++
	}
}

func (g *Graph) applyPartsLocked(frame session.Frame, stats *Stats) {
	for _, state := range frame.Parts {
		for _, n := range g.nodes {
			if n.Kind != KindSurface || n.Part != state.Part {
				continue
			}
			if n.Visible != state.Visible || n.Opacity != state.Opacity {
				n.Visible = state.Visible
				n.Opacity = state.Opacity
				stats.Updated++
			}
		}
	}
}
