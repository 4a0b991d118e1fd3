package stl

import (
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Model is a triangle soup read from an STL file
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// Centroid returns the area-weighted centre of the surface
func (m *Model) Centroid() geometry.Vector3 {
	var sum geometry.Vector3
	total := 0.0
	for _, triangle := range m.Triangles {
		area := triangle.Area()
		sum = sum.Add(triangle.Center().Mul(area))
		total += area
	}
	if total == 0 {
		return m.BoundingBox().Center()
	}
	return sum.Mul(1 / total)
}
