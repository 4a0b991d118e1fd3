package app

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// lightDir is the direction of the baked light
var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// sceneToRaylibMesh converts a surface mesh to a Raylib mesh with baked lighting
func sceneToRaylibMesh(m *scene.Mesh, base color.RGBA) rl.Mesh {
	triangleCount := m.TriangleCount()
	vertexCount := triangleCount * 3

	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)

	idx := 0
	for i := 0; i < triangleCount; i++ {
		triangle := m.Triangle(i)
		normal := triangle.Normal

		// Min 30% ambient, max 100% diffuse
		light := math.Max(0.3, -normal.Dot(lightDir))
		r := uint8(float64(base.R) * light)
		g := uint8(float64(base.G) * light)
		b := uint8(float64(base.B) * light)

		for _, v := range triangle.Vertices() {
			vertices[idx*3+0] = float32(v.X)
			vertices[idx*3+1] = float32(v.Y)
			vertices[idx*3+2] = float32(v.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			colors[idx*4+0] = r
			colors[idx*4+1] = g
			colors[idx*4+2] = b
			colors[idx*4+3] = 255
			idx++
		}
	}

	if len(vertices) > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Texcoords = &texcoords[0]
		mesh.Colors = &colors[0]
	}

	// Upload mesh data to GPU
	rl.UploadMesh(&mesh, false)

	return mesh
}

// toMatrix converts a transform; both sides store columns first
func toMatrix(t geometry.Transform) rl.Matrix {
	m := t.Matrix()
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}

// syncMeshes uploads meshes for new or reloaded surfaces and drops stale ones.
// Must run on the main thread.
func (app *App) syncMeshes() {
	seen := make(map[raycast.EntityID]bool)
	app.ws.Graph.Walk(func(n *scene.Node, _ geometry.Transform) {
		if n.Kind != scene.KindSurface || n.Mesh == nil {
			return
		}
		id := n.ID
		seen[id] = true
		if cached, ok := app.Model.meshes[id]; ok {
			if cached.source == n.Mesh {
				return
			}
			rl.UnloadMesh(&cached.mesh)
		}
		app.Model.meshes[id] = &gpuMesh{source: n.Mesh, mesh: sceneToRaylibMesh(n.Mesh, app.style.Parts[n.Part])}
	})
	// hidden surfaces are not walked; keep their meshes until they are removed from the graph
	for id, cached := range app.Model.meshes {
		if seen[id] {
			continue
		}
		if n, ok := app.ws.Graph.Node(id); ok && n.Mesh == cached.source {
			continue
		}
		rl.UnloadMesh(&cached.mesh)
		delete(app.Model.meshes, id)
	}
}

// drawSurfaces draws opaque surfaces first, then translucent ones
func (app *App) drawSurfaces() {
	type item struct {
		mesh    rl.Mesh
		world   rl.Matrix
		opacity float64
	}
	var opaque, translucent []item
	app.ws.Graph.Walk(func(n *scene.Node, world geometry.Transform) {
		if n.Kind != scene.KindSurface {
			return
		}
		cached, ok := app.Model.meshes[n.ID]
		if !ok {
			return
		}
		it := item{mesh: cached.mesh, world: toMatrix(world), opacity: n.Opacity}
		if n.Opacity < 1 {
			translucent = append(translucent, it)
		} else {
			opaque = append(opaque, it)
		}
	})

	for _, it := range append(opaque, translucent...) {
		alpha := uint8(math.Round(math.Max(0, math.Min(1, it.opacity)) * 255))
		app.Model.material.Maps.Color = rl.NewColor(255, 255, 255, alpha)
		rl.DrawMesh(it.mesh, app.Model.material, it.world)
	}
	app.Model.material.Maps.Color = rl.White
}

func (app *App) unloadMeshes() {
	for id, cached := range app.Model.meshes {
		rl.UnloadMesh(&cached.mesh)
		delete(app.Model.meshes, id)
	}
}
