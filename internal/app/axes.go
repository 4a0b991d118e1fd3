package app

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// drawAxesGizmo draws the world axes as seen by the camera in the top-right corner,
// back axes first so the front ones stay on top
func (app *App) drawAxesGizmo() {
	const length = float32(40)
	const offset = float32(60)

	origin := rl.Vector2{X: float32(rl.GetScreenWidth()) - offset - 20, Y: offset + 20}

	pose := app.ws.Graph.CameraTransform()
	right := pose.Direction(geometry.NewVector3(1, 0, 0)).Normalize()
	up := pose.Direction(geometry.Up).Normalize()
	back := pose.Direction(geometry.ReferenceAxis).Normalize()

	type axis struct {
		name  string
		dir   geometry.Vector3
		color rl.Color
		depth float64
	}
	axes := []axis{
		{name: "X", dir: geometry.NewVector3(1, 0, 0), color: rl.Red},
		{name: "Y", dir: geometry.Up, color: rl.Green},
		{name: "Z", dir: geometry.ReferenceAxis, color: rl.Blue},
	}
	for i := range axes {
		axes[i].depth = axes[i].dir.Dot(back)
	}
	sort.Slice(axes, func(i, j int) bool { return axes[i].depth < axes[j].depth })

	for _, a := range axes {
		tip := rl.Vector2{
			X: origin.X + float32(a.dir.Dot(right))*length,
			Y: origin.Y - float32(a.dir.Dot(up))*length,
		}
		col := a.color
		if a.depth < 0 {
			col.A = 120
		}
		rl.DrawLineEx(origin, tip, 2, col)
		rl.DrawCircleV(tip, 3, col)
		rl.DrawTextEx(app.UI.font, a.name, rl.Vector2{X: tip.X + 4, Y: tip.Y - 6}, 14, 1, col)
	}
}
