// Package app is the raylib desktop planner: an orbit view of one case where
// clicks place osteotomy markers and keys drive the planning commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/config"
	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/planview"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/workspace"
)

// errClosed reports that the window was closed before the case finished loading
var errClosed = errors.New("window closed")

// Options configure Run
type Options struct {
	Case    *config.CaseConfig
	Planner config.PlannerConfig
	// Watch reloads the case when one of its files changes
	Watch  bool
	Logger *slog.Logger
}

// App is the running planner window
type App struct {
	Camera      CameraState
	Model       ModelData
	View        ViewSettings
	Interaction InteractionState
	FileWatch   FileWatchState
	UI          UIState

	opts   Options
	logger *slog.Logger
	ws     *workspace.Workspace
	style  planview.Style

	reloadRequested atomic.Bool
}

// Run opens the window, loads the case in the background and runs the main loop
// until the window is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Case == nil {
		return fmt.Errorf("no case to open")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{
		opts:   opts,
		logger: logger,
		style:  planview.DefaultStyle(),
		Model:  ModelData{meshes: make(map[raycast.EntityID]*gpuMesh)},
		View:   ViewSettings{showFilled: true, showHelp: true},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := loader.New(opts.Case, logger)
	l.Start(ctx)

	screenWidth := int32(1400)
	screenHeight := int32(900)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, fmt.Sprintf("Osteotomy planner - %s", opts.Case.Name))
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0) // Esc cancels a pending tap

	app.UI.font = rl.GetFontDefault()

	if err := app.waitForCase(ctx, l); err != nil {
		if errors.Is(err, errClosed) {
			return nil
		}
		return err
	}
	defer app.unloadMeshes()

	if opts.Watch {
		if err := app.setupFileWatcher(ctx); err != nil {
			logger.Warn("auto-reload not available", "error", err)
		} else {
			defer app.FileWatch.fileWatcher.Close()
		}
	}

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		// Check for Ctrl+Q to exit
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyQ) {
			break
		}

		if app.reloadRequested.Swap(false) {
			app.reloadModel(ctx)
		}
		app.applyLoadedModel()

		app.handleInput()
		app.updateCamera()
		app.syncMeshes()

		overlay := app.overlay()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		if app.View.showFilled {
			app.drawSurfaces()
		}
		if app.View.showWireframe {
			app.drawWireframe()
		}
		app.drawMarkers()
		drawOverlayLines(overlay)
		rl.EndMode3D()

		app.drawRulerLabels()
		app.drawAxesGizmo()
		app.drawUI()

		rl.EndDrawing()
	}
	return nil
}

// waitForCase keeps the window responsive while the loader runs, then builds the workspace
func (app *App) waitForCase(ctx context.Context, l *loader.Loader) error {
	start := time.Now()
	for l.State() == loader.InProgress {
		if rl.WindowShouldClose() || ctx.Err() != nil {
			return errClosed
		}
		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))
		app.drawLoading(l.State(), time.Since(start))
		rl.EndDrawing()
	}

	c, err := l.Result()
	if err != nil {
		return err
	}
	ws, err := workspace.Open(c, app.opts.Planner, app.logger)
	if err != nil {
		return err
	}
	app.ws = ws

	bbox := ws.Graph.Bounds()
	center := bbox.Center()
	size := bbox.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		maxDim = 1
	}
	distance := float32(maxDim * 2.0)

	app.Model.center = toRL(center)
	app.Model.size = float32(maxDim)
	app.style.MarkerRadius = bbox.Diagonal() * 0.05

	app.Model.material = rl.LoadMaterialDefault()

	app.Camera.target = app.Model.center
	app.Camera.distance = distance
	app.Camera.angleX = 0.3
	app.Camera.angleY = 0.3
	app.Camera.defaultDist = distance
	app.Camera.defaultAngleX = 0.3
	app.Camera.defaultAngleY = 0.3
	app.Camera.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 0, Z: distance},
		Target:     app.Camera.target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
	app.updateCamera()

	app.logger.Info("case ready", "case", c.Name, "parts", len(c.Parts), "elapsed", time.Since(start))
	return nil
}

func (app *App) setStatus(msg string) {
	app.logger.Info(msg)
	app.UI.status = msg
	app.UI.statusT = time.Now()
}
