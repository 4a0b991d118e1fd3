package app

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/yosuahres/developmentVRSkripsi/internal/loader"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/pkg/watcher"
)

// CameraState holds all camera-related state
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32    // Default camera distance (for reset)
	defaultAngleX float32
	defaultAngleY float32
}

// gpuMesh is an uploaded surface mesh together with the mesh it was built from
type gpuMesh struct {
	source *scene.Mesh
	mesh   rl.Mesh
}

// ModelData holds the uploaded meshes of the case
type ModelData struct {
	meshes   map[raycast.EntityID]*gpuMesh
	material rl.Material
	center   rl.Vector3 // Case center in world space
	size     float32    // Largest extent, for marker scaling
}

// ViewSettings holds display settings
type ViewSettings struct {
	showWireframe bool
	showFilled    bool
	showHelp      bool
}

// InteractionState holds mouse and interaction state
type InteractionState struct {
	mouseDownPos rl.Vector2
	mouseMoved   bool
	isPanning    bool
	lastMousePos rl.Vector2
	hoveredRuler string // id of the ruler whose label is under the mouse
	rulerLabels  map[string]rl.Rectangle
}

// FileWatchState holds file watching and reload state
type FileWatchState struct {
	fileWatcher      *watcher.FileWatcher
	reloader         *loader.Loader // in-flight reload, nil when idle
	loadingStartTime time.Time
}

// UIState holds UI-related state
type UIState struct {
	font    rl.Font
	status  string    // last gesture outcome
	statusT time.Time // when status was set
}
