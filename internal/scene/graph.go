// Package scene is the retained node tree the viewers draw and pick from.
//
// Surfaces hang off a case anchor; markers and pending-tap dots are children of
// the surface they were placed on, rulers are children of the root. The graph
// implements session.Host.
package scene

import (
	"fmt"
	"sync"

	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// RootID is the id of the graph root
const RootID raycast.EntityID = "root"

// Kind says what a node draws
type Kind int

const (
	KindGroup Kind = iota
	KindSurface
	KindMarker
	KindRuler
	KindDot
	KindRulerStart
)

// Node is one entity of the scene
type Node struct {
	ID      raycast.EntityID
	Kind    Kind
	Part    part.Part
	Local   geometry.Transform
	Visible bool
	Opacity float64

	Mesh   *Mesh
	Marker marker.Marker
	Ruler  ruler.Ruler

	// Tag is free for the viewer to keep per-node state; reconciliation never touches it
	Tag any

	parent   *Node
	children []*Node
}

// Parent returns the parent node, nil for the root
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Stats counts the node changes made by one reconciliation
type Stats struct {
	Added   int
	Updated int
	Removed int
}

// Changed reports whether anything was touched
func (s Stats) Changed() bool {
	return s.Added+s.Updated+s.Removed > 0
}

// Graph is the scene tree
type Graph struct {
	mu     sync.RWMutex
	root   *Node
	nodes  map[raycast.EntityID]*Node
	camera geometry.Transform
	last   Stats
}

// NewGraph returns a graph holding only the root
func NewGraph() *Graph {
	root := &Node{ID: RootID, Kind: KindGroup, Local: geometry.IdentityTransform(), Visible: true, Opacity: 1}
	return &Graph{
		root:   root,
		nodes:  map[raycast.EntityID]*Node{RootID: root},
		camera: geometry.LookAt(geometry.NewVector3(0, 0, 1), geometry.Vector3{}, geometry.Up),
	}
}

func (g *Graph) attachLocked(n *Node, parent raycast.EntityID) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("parent %q not found", parent)
	}
	n.parent = p
	p.children = append(p.children, n)
	g.nodes[n.ID] = n
	return nil
}

// AddGroup adds a transform-only node
func (g *Graph) AddGroup(id, parent raycast.EntityID, local geometry.Transform) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := &Node{ID: id, Kind: KindGroup, Local: local, Visible: true, Opacity: 1}
	if err := g.attachLocked(n, parent); err != nil {
		return nil, err
	}
	return n, nil
}

// AddSurface adds a pickable mesh node tagged with its anatomical part
func (g *Graph) AddSurface(id, parent raycast.EntityID, p part.Part, mesh *Mesh, local geometry.Transform) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := &Node{ID: id, Kind: KindSurface, Part: p, Mesh: mesh, Local: local, Visible: true, Opacity: 1}
	if err := g.attachLocked(n, parent); err != nil {
		return nil, err
	}
	return n, nil
}

// Remove deletes a node and its subtree; the root cannot be removed
func (g *Graph) Remove(id raycast.EntityID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeLocked(id)
}

func (g *Graph) removeLocked(id raycast.EntityID) bool {
	n, ok := g.nodes[id]
	if !ok || n == g.root {
		return false
	}
	var drop func(*Node)
	drop = func(n *Node) {
		for _, c := range n.children {
			drop(c)
		}
		delete(g.nodes, n.ID)
	}
	drop(n)
	n.parent.removeChild(n)
	return true
}

// Node looks up a node by id
func (g *Graph) Node(id raycast.EntityID) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes including the root
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Parent implements raycast.Scene
func (g *Graph) Parent(id raycast.EntityID) (raycast.EntityID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok || n.parent == nil {
		return "", false
	}
	return n.parent.ID, true
}

func worldLocked(n *Node) geometry.Transform {
	world := n.Local
	for p := n.parent; p != nil; p = p.parent {
		world = p.Local.Mul(world)
	}
	return world
}

// WorldTransform composes the local transforms from the root down to id
func (g *Graph) WorldTransform(id raycast.EntityID) geometry.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return geometry.IdentityTransform()
	}
	return worldLocked(n)
}

// SetLocal replaces a node's local transform
func (g *Graph) SetLocal(id raycast.EntityID, local geometry.Transform) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if ok {
		n.Local = local
	}
	return ok
}

// SetCamera records the viewer pose used for spawning markers
func (g *Graph) SetCamera(t geometry.Transform) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.camera = t
}

// CameraTransform implements session.Host
func (g *Graph) CameraTransform() geometry.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.camera
}

// Surface describes a surface node for session.AddSurface
func (g *Graph) Surface(id raycast.EntityID) (session.Surface, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok || n.Kind != KindSurface {
		return session.Surface{}, fmt.Errorf("surface %q not found", id)
	}
	bounds := geometry.NewBoundingBox()
	if n.Mesh != nil {
		bounds = n.Mesh.Bounds()
	}
	return session.Surface{
		ID:     id,
		Part:   n.Part,
		Bounds: bounds,
		Anchor: func() geometry.Transform { return g.WorldTransform(id) },
	}, nil
}

// Visit is called for each visible node with its world transform
type Visit func(n *Node, world geometry.Transform)

// Walk visits visible nodes depth first, parents before children
func (g *Graph) Walk(fn Visit) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var walk func(n *Node, parent geometry.Transform)
	walk = func(n *Node, parent geometry.Transform) {
		if !n.Visible {
			return
		}
		world := parent.Mul(n.Local)
		fn(n, world)
		for _, c := range n.children {
			walk(c, world)
		}
	}
	walk(g.root, geometry.IdentityTransform())
}

// Bounds encloses every visible surface in world space
func (g *Graph) Bounds() geometry.BoundingBox {
	out := geometry.NewBoundingBox()
	g.Walk(func(n *Node, world geometry.Transform) {
		if n.Kind == KindSurface && n.Mesh != nil {
			b := n.Mesh.Bounds().Transformed(world)
			if !b.Empty() {
				out.Extend(b.Min)
				out.Extend(b.Max)
			}
		}
	})
	return out
}

// SetMesh swaps the mesh of a surface, keeping its children
func (g *Graph) SetMesh(id raycast.EntityID, mesh *Mesh) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok || n.Kind != KindSurface {
		return false
	}
	n.Mesh = mesh
	return true
}
