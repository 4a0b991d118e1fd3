package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/version"
)

const statusTimeout = 4 * time.Second

// drawLoading shows the loader state while the case is read
func (app *App) drawLoading(state loader.State, elapsed time.Duration) {
	spinnerChars := []string{"|", "/", "-", "\\"}
	spinnerIdx := int(elapsed.Seconds()*10) % len(spinnerChars)
	text := fmt.Sprintf("%s Loading %s: %s (%.1fs)", spinnerChars[spinnerIdx], app.opts.Case.Name, state, elapsed.Seconds())

	textSize := rl.MeasureTextEx(app.UI.font, text, 20, 1)
	x := (float32(rl.GetScreenWidth()) - textSize.X) / 2
	y := (float32(rl.GetScreenHeight()) - textSize.Y) / 2
	rl.DrawTextEx(app.UI.font, text, rl.Vector2{X: x, Y: y}, 20, 1, rl.Yellow)
}

// drawUI draws the heads-up display
func (app *App) drawUI() {
	y := float32(10)
	lineHeight := float32(20)
	fontSize16 := float32(16)
	fontSize14 := float32(14)
	fontSize12 := float32(12)

	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())

	text := func(s string, size float32, col rl.Color) {
		rl.DrawTextEx(app.UI.font, s, rl.Vector2{X: 10, Y: y}, size, 1, col)
		y += lineHeight
	}

	s := app.ws.Session
	frame := s.Frame()

	// === CASE ===
	text("Case:", fontSize16, rl.Yellow)
	text(fmt.Sprintf("  %s", app.ws.Name), fontSize14, rl.White)
	for i, p := range frame.Parts {
		state := "shown"
		if !p.Visible {
			state = "hidden"
		} else if p.Translucent() {
			state = fmt.Sprintf("%.0f%%", p.Opacity*100)
		}
		col := rl.LightGray
		if p.Part == frame.ActivePart {
			col = rl.Green
		}
		text(fmt.Sprintf("  %d: %s (%s)", i+1, p.Part, state), fontSize14, col)
	}
	y += lineHeight

	// === PLAN ===
	text("Plan:", fontSize16, rl.Yellow)
	text(fmt.Sprintf("  Markers: %d", len(frame.Markers)), fontSize14, rl.White)
	text(fmt.Sprintf("  Rulers: %d", len(frame.Rulers)), fontSize14, rl.White)
	text(fmt.Sprintf("  Tap: %s, %s", frame.TapMode, frame.TapState), fontSize14, rl.White)
	if frame.RulerMode {
		text("  RULER MODE", fontSize16, rl.Magenta)
	}
	if id := app.Interaction.hoveredRuler; id != "" {
		for _, r := range frame.Rulers {
			if r.ID == id {
				text(fmt.Sprintf("  Ruler %s", r.Label()), fontSize14, rl.Yellow)
			}
		}
	}
	y += lineHeight

	if app.View.showHelp {
		text("Plan:", fontSize16, rl.Yellow)
		text("  Click: Tap | S: Spawn | F: Fragment plan", fontSize14, rl.LightGray)
		text("  T: Tap mode | Esc: Cancel tap | Tab: Active part", fontSize14, rl.LightGray)
		text("  Backspace: Remove last | H: Hide markers", fontSize14, rl.LightGray)
		text("  R: Ruler mode | L: Ruler last two | V: Show rulers | C: Clear", fontSize14, rl.LightGray)
		text("  1-9: Show part | O: Translucent", fontSize14, rl.LightGray)
		y += lineHeight

		text("Navigate:", fontSize16, rl.Yellow)
		text("  Left Drag: Rotate | Shift+Drag: Pan", fontSize14, rl.LightGray)
		text("  Mouse Wheel: Zoom | Middle: Pan", fontSize14, rl.LightGray)
		text("  Home: Reset | F1: Top | F2: Front | F3: Side", fontSize14, rl.LightGray)
		text("  W: Wireframe | Shift+W: Fill | I: Help", fontSize14, rl.LightGray)
	}

	// Status line in bottom-right corner
	if app.UI.status != "" && time.Since(app.UI.statusT) < statusTimeout {
		boxPadding := float32(10)
		textSize := rl.MeasureTextEx(app.UI.font, app.UI.status, fontSize16, 1)
		boxWidth := textSize.X + boxPadding*2
		boxHeight := textSize.Y + boxPadding*2
		boxX := screenWidth - boxWidth - 20
		boxY := screenHeight - boxHeight - 20

		rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 200))
		rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)
		rl.DrawTextEx(app.UI.font, app.UI.status, rl.Vector2{X: boxX + boxPadding, Y: boxY + boxPadding}, fontSize16, 1, rl.Yellow)
	}

	// Loading indicator
	if app.isLoading() {
		elapsed := time.Since(app.FileWatch.loadingStartTime).Seconds()
		loadingText := fmt.Sprintf("Reloading... (%.1fs)", elapsed)
		boxX := screenWidth - 270
		rl.DrawRectangle(int32(boxX), 20, 250, 40, rl.NewColor(0, 0, 0, 180))
		rl.DrawRectangleLines(int32(boxX), 20, 250, 40, rl.Yellow)
		rl.DrawTextEx(app.UI.font, loadingText, rl.Vector2{X: boxX + 12, Y: 30}, 18, 1, rl.Yellow)
	}

	// Version and FPS in bottom-left corner
	bottomY := screenHeight - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(app.UI.font, versionText, rl.Vector2{X: 10, Y: bottomY}, fontSize12, 1, rl.Gray)

	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(app.UI.font, versionText, fontSize12, 1).X
	rl.DrawTextEx(app.UI.font, fpsText, rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, fontSize12, 1, rl.Lime)
}
