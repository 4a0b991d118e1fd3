// Package planview turns the scene graph into drawables for the fyne scene view.
package planview

import (
	"image/color"
	"math"

	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/viewer"
)

// discSegments is the number of edges of a marker outline
const discSegments = 24

// Style sets colours and sizes
type Style struct {
	// MarkerRadius in world units; zero means a fraction of the scene diagonal
	MarkerRadius float64
	// Overlay leaves out surface faces for hosts that draw meshes themselves
	Overlay    bool
	Parts      map[part.Part]color.RGBA
	Markers    map[marker.Source]color.RGBA
	Ruler      color.RGBA
	Dot        color.RGBA
	RulerStart color.RGBA
}

// DefaultStyle returns the planner colours
func DefaultStyle() Style {
	return Style{
		Parts: map[part.Part]color.RGBA{
			part.Mandible: {230, 220, 200, 255},
			part.Maxilla:  {200, 210, 230, 255},
			part.Other:    {180, 180, 180, 255},
		},
		Markers: map[marker.Source]color.RGBA{
			marker.SourceTap:      {255, 220, 0, 255},
			marker.SourceSpawn:    {0, 220, 255, 255},
			marker.SourceFragment: {255, 0, 200, 255},
		},
		Ruler:      color.RGBA{255, 255, 255, 255},
		Dot:        color.RGBA{0, 255, 0, 255},
		RulerStart: color.RGBA{255, 80, 80, 255},
	}
}

// Build collects the visible nodes of g
func Build(g *scene.Graph, style Style) viewer.Scene {
	radius := style.MarkerRadius
	if radius <= 0 {
		radius = math.Max(g.Bounds().Diagonal()*0.05, 1e-3)
	}

	var out viewer.Scene
	g.Walk(func(n *scene.Node, world geometry.Transform) {
		switch n.Kind {
		case scene.KindSurface:
			if style.Overlay {
				return
			}
			out.Faces = append(out.Faces, surfaceFaces(n, world, style)...)
		case scene.KindMarker:
			col := style.Markers[n.Marker.Source]
			out.Lines = append(out.Lines, disc(world, radius, col)...)
		case scene.KindRuler:
			out.Lines = append(out.Lines, viewer.Line{A: n.Ruler.Start, B: n.Ruler.End, Color: style.Ruler})
			out.Labels = append(out.Labels, viewer.Label{At: n.Ruler.Midpoint(), Text: n.Ruler.Label(), Color: style.Ruler})
		case scene.KindDot:
			out.Lines = append(out.Lines, cross(world.Position(), radius*0.3, style.Dot)...)
		case scene.KindRulerStart:
			out.Lines = append(out.Lines, cross(world.Position(), radius*0.5, style.RulerStart)...)
		}
	})
	return out
}

func surfaceFaces(n *scene.Node, world geometry.Transform, style Style) []viewer.Face {
	if n.Mesh == nil {
		return nil
	}
	col, ok := style.Parts[n.Part]
	if !ok {
		col = color.RGBA{180, 180, 180, 255}
	}
	col.A = uint8(math.Round(math.Max(0, math.Min(1, n.Opacity)) * 255))

	faces := make([]viewer.Face, 0, n.Mesh.TriangleCount())
	for i := 0; i < n.Mesh.TriangleCount(); i++ {
		tri := n.Mesh.Triangle(i)
		faces = append(faces, viewer.Face{
			A:     world.Point(tri.V1),
			B:     world.Point(tri.V2),
			C:     world.Point(tri.V3),
			Color: col,
		})
	}
	return faces
}

// disc outlines the marker plane with a short stroke along its normal
func disc(world geometry.Transform, radius float64, col color.RGBA) []viewer.Line {
	center := world.Position()
	u := world.Direction(geometry.NewVector3(1, 0, 0)).Normalize()
	v := world.Direction(geometry.NewVector3(0, 1, 0)).Normalize()
	normal := world.Direction(geometry.ReferenceAxis).Normalize()

	lines := make([]viewer.Line, 0, discSegments+1)
	at := func(i int) geometry.Vector3 {
		angle := 2 * math.Pi * float64(i) / discSegments
		return center.Add(u.Mul(math.Cos(angle) * radius)).Add(v.Mul(math.Sin(angle) * radius))
	}
	for i := 0; i < discSegments; i++ {
		lines = append(lines, viewer.Line{A: at(i), B: at(i + 1), Color: col})
	}
	lines = append(lines, viewer.Line{A: center, B: center.Add(normal.Mul(radius * 0.5)), Color: col})
	return lines
}

func cross(p geometry.Vector3, size float64, col color.RGBA) []viewer.Line {
	lines := make([]viewer.Line, 0, 3)
	for axis := 0; axis < 3; axis++ {
		d := geometry.Vector3{}.WithAxis(axis, size)
		lines = append(lines, viewer.Line{A: p.Sub(d), B: p.Add(d), Color: col})
	}
	return lines
}
