package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// drawWireframe outlines the visible surfaces, drawing shared edges once
func (app *App) drawWireframe() {
	wireframeColor := rl.NewColor(100, 100, 100, 200)

	app.ws.Graph.Walk(func(n *scene.Node, world geometry.Transform) {
		if n.Kind != scene.KindSurface || n.Mesh == nil {
			return
		}
		drawnEdges := make(map[[2]geometry.Vector3]bool)
		for i := 0; i < n.Mesh.TriangleCount(); i++ {
			v := n.Mesh.Triangle(i).Vertices()
			for j := 0; j < 3; j++ {
				a, b := v[j], v[(j+1)%3]
				if drawnEdges[[2]geometry.Vector3{a, b}] || drawnEdges[[2]geometry.Vector3{b, a}] {
					continue
				}
				drawnEdges[[2]geometry.Vector3{a, b}] = true
				rl.DrawLine3D(toRL(world.Point(a)), toRL(world.Point(b)), wireframeColor)
			}
		}
	})
}
