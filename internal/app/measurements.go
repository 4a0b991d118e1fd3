package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/planview"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/viewer"
)

// MeasurementLabel is a boxed text drawn at a projected point
type MeasurementLabel struct {
	Text       string
	ScreenPos  rl.Vector2
	BaseColor  rl.Color
	HoverColor rl.Color
	IsHovered  bool
}

// Draw renders the label and returns its bounding rectangle
func (l *MeasurementLabel) Draw(font rl.Font, fontSize float32, padding float32) rl.Rectangle {
	color := l.BaseColor
	borderWidth := float32(2)
	if l.IsHovered {
		color = l.HoverColor
		borderWidth = 2.5
	}

	textSize := rl.MeasureTextEx(font, l.Text, fontSize, 1)

	rect := rl.Rectangle{
		X:      l.ScreenPos.X - textSize.X/2 - padding,
		Y:      l.ScreenPos.Y - padding,
		Width:  textSize.X + 2*padding,
		Height: textSize.Y + 2*padding,
	}

	rl.DrawRectangleRec(rect, rl.NewColor(20, 20, 20, 220))
	rl.DrawRectangleLinesEx(rect, borderWidth, color)

	textPos := rl.Vector2{
		X: l.ScreenPos.X - textSize.X/2,
		Y: l.ScreenPos.Y,
	}
	rl.DrawTextEx(font, l.Text, textPos, fontSize, 1, color)

	return rect
}

// overlay returns marker outlines, dots and rulers of the current graph
func (app *App) overlay() viewer.Scene {
	style := app.style
	style.Overlay = true
	return planview.Build(app.ws.Graph, style)
}

// drawMarkers fills each marker plane with a thin translucent disc; must run in 3D mode
func (app *App) drawMarkers() {
	radius := float32(app.style.MarkerRadius)
	app.ws.Graph.Walk(func(n *scene.Node, world geometry.Transform) {
		if n.Kind != scene.KindMarker {
			return
		}
		center := world.Position()
		normal := world.Direction(geometry.ReferenceAxis).Normalize().Mul(float64(radius) * 0.02)

		col := app.style.Markers[n.Marker.Source]
		col.A = 90
		rl.DrawCylinderEx(toRL(center.Sub(normal)), toRL(center.Add(normal)), radius, radius, 24, col)
	})
}

// drawOverlayLines draws the overlay strokes; must run in 3D mode
func drawOverlayLines(s viewer.Scene) {
	for _, l := range s.Lines {
		rl.DrawLine3D(toRL(l.A), toRL(l.B), l.Color)
	}
}

// drawRulerLabels projects ruler labels to the screen and remembers where they were drawn
func (app *App) drawRulerLabels() {
	const fontSize = 16
	const padding = 4

	app.Interaction.rulerLabels = make(map[string]rl.Rectangle)
	app.ws.Graph.Walk(func(n *scene.Node, _ geometry.Transform) {
		if n.Kind != scene.KindRuler {
			return
		}
		label := MeasurementLabel{
			Text:       n.Ruler.Label(),
			ScreenPos:  rl.GetWorldToScreen(toRL(n.Ruler.Midpoint()), app.Camera.camera),
			BaseColor:  app.style.Ruler,
			HoverColor: rl.Yellow,
			IsHovered:  n.Ruler.ID == app.Interaction.hoveredRuler,
		}
		app.Interaction.rulerLabels[n.Ruler.ID] = label.Draw(app.UI.font, fontSize, padding)
	})
}

// rulerAtMouse returns the id of the ruler label under pos
func (app *App) rulerAtMouse(pos rl.Vector2) string {
	for id, rect := range app.Interaction.rulerLabels {
		if rl.CheckCollisionPointRec(pos, rect) {
			return id
		}
	}
	return ""
}
