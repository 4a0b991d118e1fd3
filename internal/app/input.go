package app

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/analysis"
)

// handleInput processes user input
func (app *App) handleInput() {
	app.Interaction.lastMousePos = rl.GetMousePosition()
	app.Interaction.hoveredRuler = app.rulerAtMouse(app.Interaction.lastMousePos)

	app.handleViewKeys()
	app.handleMouse()
	app.handlePlanningKeys()
}

func (app *App) handleViewKeys() {
	if rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		app.setCameraTopView()
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		app.setCameraFrontView()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		app.setCameraSideView()
	}
	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if rl.IsKeyPressed(rl.KeyW) {
		if shiftPressed {
			app.View.showFilled = !app.View.showFilled
		} else {
			app.View.showWireframe = !app.View.showWireframe
		}
	}
	if rl.IsKeyPressed(rl.KeyI) {
		app.View.showHelp = !app.View.showHelp
	}
}

func (app *App) handleMouse() {
	// Track mouse down for click vs drag detection
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.mouseDownPos = rl.GetMousePosition()
		app.Interaction.mouseMoved = false
		// Pan if Shift is pressed
		app.Interaction.isPanning = rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	}

	// Camera panning with Shift + mouse drag or middle mouse button drag
	if (rl.IsMouseButtonDown(rl.MouseLeftButton) && app.Interaction.isPanning) || rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			app.Interaction.mouseMoved = true
			app.doPan(delta)
		}
	} else if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		// Only count as moved if delta is significant (threshold of 1.0 pixels)
		if math.Abs(float64(delta.X)) > 1.0 || math.Abs(float64(delta.Y)) > 1.0 {
			app.Interaction.mouseMoved = true
		}
		if delta.X != 0 || delta.Y != 0 {
			app.Camera.angleY += delta.X * 0.01
			app.Camera.angleX -= delta.Y * 0.01

			// Clamp vertical rotation
			if app.Camera.angleX > 1.5 {
				app.Camera.angleX = 1.5
			}
			if app.Camera.angleX < -1.5 {
				app.Camera.angleX = -1.5
			}
		}
	}

	// A click that did not drag is a tap on the surface
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		currentPos := rl.GetMousePosition()
		dragDistance := rl.Vector2Distance(app.Interaction.mouseDownPos, currentPos)
		if !app.Interaction.mouseMoved && !app.Interaction.isPanning && dragDistance < 5.0 {
			ray := rl.GetMouseRay(currentPos, app.Camera.camera)
			app.report(app.ws.Session.Tap(fromRL(ray.Position), fromRL(ray.Direction)))
		}
		app.Interaction.isPanning = false
	}

	// Zoom with mouse wheel
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		app.Camera.distance *= (1.0 - wheel*0.03)
		if minDist := app.Model.size * 0.05; app.Camera.distance < minDist {
			app.Camera.distance = minDist
		}
	}
}

func (app *App) handlePlanningKeys() {
	s := app.ws.Session

	switch {
	case rl.IsKeyPressed(rl.KeyS):
		app.report(s.SpawnMarkerAtCurrentTarget())
	case rl.IsKeyPressed(rl.KeyR):
		app.setStatus("Ruler mode " + onOff(s.ToggleRulerMode()))
	case rl.IsKeyPressed(rl.KeyL):
		r, err := s.CreateRulerBetweenLastTwo()
		if err != nil {
			app.setStatus(fmt.Sprintf("No ruler: %v", err))
		} else {
			app.setStatus("Ruler " + r.Label())
		}
	case rl.IsKeyPressed(rl.KeyV):
		app.setStatus("Rulers " + onOff(s.ToggleRulerVisibility()))
	case rl.IsKeyPressed(rl.KeyC):
		s.ClearAllRulers()
		app.setStatus("Cleared all rulers")
	case rl.IsKeyPressed(rl.KeyBackspace):
		if m, ok := s.RemoveLastMarker(); ok {
			app.setStatus("Removed marker " + m.ID)
		}
	case rl.IsKeyPressed(rl.KeyH):
		app.setStatus("Markers " + onOff(s.ToggleAllMarkersVisible()))
	case rl.IsKeyPressed(rl.KeyT):
		mode, _ := s.TapState()
		if mode == tapphase.Single {
			mode = tapphase.TwoTap
		} else {
			mode = tapphase.Single
		}
		s.SetTapMode(mode)
		app.setStatus("Tap mode " + mode.String())
	case rl.IsKeyPressed(rl.KeyEscape):
		s.CancelPendingTap()
	case rl.IsKeyPressed(rl.KeyF):
		placed, err := s.ApplyFragmentPlan(app.opts.Case.Plan)
		if err != nil {
			app.setStatus(fmt.Sprintf("No fragment plan: %v", err))
		} else {
			app.setStatus(fmt.Sprintf("Placed %d planned slice(s)", len(placed)))
		}
	case rl.IsKeyPressed(rl.KeyTab):
		app.cycleActivePart()
	case rl.IsKeyPressed(rl.KeyO):
		app.toggleActiveOpacity()
	}

	// 1..9 toggle part visibility in display order
	parts := s.Frame().Parts
	for i := range parts {
		if i >= 9 || !rl.IsKeyPressed(int32(rl.KeyOne)+int32(i)) {
			continue
		}
		if err := s.SetPartVisible(parts[i].Part, !parts[i].Visible); err != nil {
			app.setStatus(err.Error())
		}
	}
}

func (app *App) cycleActivePart() {
	s := app.ws.Session
	frame := s.Frame()
	if len(frame.Parts) == 0 {
		return
	}
	next := 0
	for i, p := range frame.Parts {
		if p.Part == frame.ActivePart {
			next = (i + 1) % len(frame.Parts)
		}
	}
	if err := s.SetActivePart(frame.Parts[next].Part); err != nil {
		app.setStatus(err.Error())
		return
	}
	app.setStatus("Active part " + frame.Parts[next].Part.String())
}

func (app *App) toggleActiveOpacity() {
	s := app.ws.Session
	frame := s.Frame()
	state, ok := frame.Part(frame.ActivePart)
	if !ok {
		return
	}
	if err := s.SetPartOpacity(state.Part, !state.Translucent()); err != nil {
		app.setStatus(err.Error())
	}
}

// report turns a gesture outcome into a status line
func (app *App) report(out session.Outcome) {
	switch out.Kind {
	case session.OutcomeMarkerPlaced:
		app.setStatus("Marker at " + analysis.FormatVector(out.Marker.Position))
	case session.OutcomePending:
		app.setStatus("First tap stored, tap again")
	case session.OutcomeRulerStart:
		app.setStatus("Ruler start selected")
	case session.OutcomeRulerCreated:
		app.setStatus("Ruler " + out.Ruler.Label())
	default:
		if out.Err != nil {
			app.setStatus(out.Err.Error())
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
