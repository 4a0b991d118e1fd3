package viewer

import (
	"image/color"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Face is a filled triangle in world space; alpha below 255 blends without writing depth
type Face struct {
	A, B, C geometry.Vector3
	Color   color.RGBA
}

// Line is a world space segment
type Line struct {
	A, B  geometry.Vector3
	Color color.RGBA
}

// Label is text anchored at a world point
type Label struct {
	At    geometry.Vector3
	Text  string
	Color color.RGBA
}

// Scene is everything a SceneView draws
type Scene struct {
	Faces  []Face
	Lines  []Line
	Labels []Label
}

// Bounds encloses faces and lines
func (s Scene) Bounds() geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	for _, f := range s.Faces {
		b.Extend(f.A)
		b.Extend(f.B)
		b.Extend(f.C)
	}
	for _, l := range s.Lines {
		b.Extend(l.A)
		b.Extend(l.B)
	}
	return b
}
