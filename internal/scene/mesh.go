package scene

import (
	"math"
	"sort"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

// intersectEpsilon rejects grazing hits and self-intersections at the ray origin
const intersectEpsilon = 1e-9

// leafSize is the most triangles a BVH leaf holds
const leafSize = 4

// Mesh is a pickable triangle mesh with a bounding volume hierarchy
type Mesh struct {
	points  []vec3.T
	normals []vec3.T
	root    *bvhNode
	bounds  geometry.BoundingBox
}

type bvhNode struct {
	min, max    vec3.T
	left, right *bvhNode
	faces       []int
}

type meshHit struct {
	t      float64
	point  vec3.T
	normal vec3.T
	face   int
}

func toVec(v geometry.Vector3) vec3.T {
	return vec3.T{v.X, v.Y, v.Z}
}

func fromVec(v vec3.T) geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// NewMesh indexes the triangles of model for raycasting
func NewMesh(model *stl.Model) *Mesh {
	m := &Mesh{
		points:  make([]vec3.T, 0, 3*model.TriangleCount()),
		normals: make([]vec3.T, 0, model.TriangleCount()),
		bounds:  model.BoundingBox(),
	}

	faces := make([]int, 0, model.TriangleCount())
	for i, tri := range model.Triangles {
		v0, v1, v2 := toVec(tri.V1), toVec(tri.V2), toVec(tri.V3)
		m.points = append(m.points, v0, v1, v2)

		e1 := vec3.Sub(&v1, &v0)
		e2 := vec3.Sub(&v2, &v0)
		n := vec3.Cross(&e1, &e2)
		m.normals = append(m.normals, *n.Normalize())

		faces = append(faces, i)
	}

	if len(faces) > 0 {
		m.root = m.build(faces)
	}
	return m
}

// TriangleCount returns the number of faces
func (m *Mesh) TriangleCount() int {
	return len(m.normals)
}

// Bounds returns the mesh bounds in its own frame
func (m *Mesh) Bounds() geometry.BoundingBox {
	return m.bounds
}

// Triangle returns face i
func (m *Mesh) Triangle(i int) geometry.Triangle {
	return geometry.NewTriangle(
		fromVec(m.normals[i]),
		fromVec(m.points[3*i]),
		fromVec(m.points[3*i+1]),
		fromVec(m.points[3*i+2]),
	)
}

func (m *Mesh) faceBounds(faces []int) (vec3.T, vec3.T) {
	lo := vec3.T{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := vec3.T{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, f := range faces {
		for _, p := range m.points[3*f : 3*f+3] {
			for axis := 0; axis < 3; axis++ {
				lo[axis] = math.Min(lo[axis], p[axis])
				hi[axis] = math.Max(hi[axis], p[axis])
			}
		}
	}
	return lo, hi
}

func (m *Mesh) minOnAxis(face, axis int) float64 {
	lo := math.Inf(1)
	for _, p := range m.points[3*face : 3*face+3] {
		lo = math.Min(lo, p[axis])
	}
	return lo
}

// build splits faces at the median of the longest axis
func (m *Mesh) build(faces []int) *bvhNode {
	lo, hi := m.faceBounds(faces)
	node := &bvhNode{min: lo, max: hi}

	if len(faces) <= leafSize {
		node.faces = faces
		return node
	}

	size := vec3.Sub(&hi, &lo)
	axis := 0
	if size[1] > size[axis] {
		axis = 1
	}
	if size[2] > size[axis] {
		axis = 2
	}

	sort.SliceStable(faces, func(i, j int) bool {
		return m.minOnAxis(faces[i], axis) < m.minOnAxis(faces[j], axis)
	})

	half := len(faces) / 2
	node.left = m.build(faces[:half])
	node.right = m.build(faces[half:])
	return node
}

// hitsBox is the slab test; direction components may be zero
func (n *bvhNode) hitsBox(origin, direction vec3.T) bool {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if direction[axis] == 0 {
			if origin[axis] < n.min[axis] || origin[axis] > n.max[axis] {
				return false
			}
			continue
		}
		inv := 1 / direction[axis]
		t0 := (n.min[axis] - origin[axis]) * inv
		t1 := (n.max[axis] - origin[axis]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
		if tmin > tmax {
			return false
		}
	}
	return tmax >= 0
}

// intersectFace is the Möller-Trumbore test; it returns the ray parameter of the hit
func (m *Mesh) intersectFace(face int, origin, direction vec3.T) (float64, bool) {
	v0 := m.points[3*face]
	v1 := m.points[3*face+1]
	v2 := m.points[3*face+2]

	e1 := vec3.Sub(&v1, &v0)
	e2 := vec3.Sub(&v2, &v0)
	p := vec3.Cross(&direction, &e2)
	det := vec3.Dot(&e1, &p)
	if math.Abs(det) < intersectEpsilon {
		return 0, false
	}
	invDet := 1 / det

	s := vec3.Sub(&origin, &v0)
	u := vec3.Dot(&s, &p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := vec3.Cross(&s, &e1)
	v := vec3.Dot(&direction, &q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := vec3.Dot(&e2, &q) * invDet
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

// Intersect returns every hit along the ray, nearest first
func (m *Mesh) Intersect(origin, direction geometry.Vector3) []meshHit {
	if m.root == nil {
		return nil
	}
	o, d := toVec(origin), toVec(direction)

	var hits []meshHit
	stack := []*bvhNode{m.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.hitsBox(o, d) {
			continue
		}
		if node.faces != nil {
			for _, f := range node.faces {
				if t, ok := m.intersectFace(f, o, d); ok {
					step := d.Scaled(t)
					hits = append(hits, meshHit{
						t:      t,
						point:  vec3.Add(&o, &step),
						normal: m.normals[f],
						face:   f,
					})
				}
			}
			continue
		}
		stack = append(stack, node.left, node.right)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].t == hits[j].t {
			return hits[i].face < hits[j].face
		}
		return hits[i].t < hits[j].t
	})
	return hits
}
