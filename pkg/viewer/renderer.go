package viewer

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// SceneView is a widget drawing a Scene with an orbit camera.
// Drag orbits, scroll zooms and a tap reports the world ray under the pointer.
type SceneView struct {
	widget.BaseWidget

	mu       sync.Mutex
	scene    Scene
	camera   *Camera
	framed   bool
	size     fyne.Size
	onTap    func(origin, direction geometry.Vector3)
	onCamera func(pose geometry.Transform)

	dragStart *fyne.Position
	dragging  bool
}

// NewSceneView creates an empty view
func NewSceneView() *SceneView {
	v := &SceneView{camera: NewCamera(geometry.NewBoundingBox())}
	v.ExtendBaseWidget(v)
	return v
}

// SetScene replaces the drawn content. The camera frames the first non-empty scene.
func (v *SceneView) SetScene(s Scene) {
	v.mu.Lock()
	v.scene = s
	reframed := false
	if !v.framed {
		if b := s.Bounds(); !b.Empty() {
			v.camera.Frame(b)
			v.framed = true
			reframed = true
		}
	}
	v.mu.Unlock()

	if reframed {
		v.cameraChanged()
	}
	v.Refresh()
}

// SetOnTap sets the callback receiving the world ray of a tap
func (v *SceneView) SetOnTap(fn func(origin, direction geometry.Vector3)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onTap = fn
}

// SetOnCameraChange sets the callback receiving the camera pose after it moves
func (v *SceneView) SetOnCameraChange(fn func(pose geometry.Transform)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onCamera = fn
}

// Pose returns the current camera pose
func (v *SceneView) Pose() geometry.Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera.Pose()
}

// ResetCamera frames the current scene again
func (v *SceneView) ResetCamera() {
	v.mu.Lock()
	v.camera.RotationX, v.camera.RotationY = 0, 0
	v.camera.Frame(v.scene.Bounds())
	v.mu.Unlock()
	v.cameraChanged()
	v.Refresh()
}

func (v *SceneView) cameraChanged() {
	v.mu.Lock()
	fn := v.onCamera
	pose := v.camera.Pose()
	v.mu.Unlock()
	if fn != nil {
		fn(pose)
	}
}

// Tapped reports the ray under the pointer unless the tap ends a drag
func (v *SceneView) Tapped(event *fyne.PointEvent) {
	v.mu.Lock()
	if v.dragging || v.size.Width <= 0 || v.size.Height <= 0 {
		v.mu.Unlock()
		return
	}
	origin, direction := v.camera.Unproject(float64(event.Position.X), float64(event.Position.Y),
		float64(v.size.Width), float64(v.size.Height))
	fn := v.onTap
	v.mu.Unlock()

	if fn != nil {
		fn(origin, direction)
	}
}

// Dragged orbits the camera
func (v *SceneView) Dragged(event *fyne.DragEvent) {
	v.mu.Lock()
	if v.dragStart != nil {
		deltaX := event.Position.X - v.dragStart.X
		deltaY := event.Position.Y - v.dragStart.Y
		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
	}
	pos := event.Position
	v.dragStart = &pos
	v.dragging = true
	v.mu.Unlock()

	v.cameraChanged()
	v.Refresh()
}

// DragEnd finishes an orbit
func (v *SceneView) DragEnd() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragStart = nil
	v.dragging = false
}

// Scrolled zooms
func (v *SceneView) Scrolled(event *fyne.ScrollEvent) {
	v.mu.Lock()
	v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	v.mu.Unlock()

	v.cameraChanged()
	v.Refresh()
}

// CreateRenderer implements fyne.Widget
func (v *SceneView) CreateRenderer() fyne.WidgetRenderer {
	r := &sceneRenderer{view: v}
	r.raster = canvas.NewRaster(r.draw)
	return r
}

type sceneRenderer struct {
	view   *SceneView
	raster *canvas.Raster
	labels []*canvas.Text
}

func (r *sceneRenderer) draw(w, h int) image.Image {
	r.view.mu.Lock()
	defer r.view.mu.Unlock()
	return Rasterize(r.view.scene, r.view.camera, w, h)
}

func (r *sceneRenderer) Layout(size fyne.Size) {
	r.view.mu.Lock()
	r.view.size = size
	r.view.mu.Unlock()

	r.raster.Resize(size)
	r.layoutLabels()
}

func (r *sceneRenderer) layoutLabels() {
	v := r.view
	v.mu.Lock()
	defer v.mu.Unlock()

	labels := v.scene.Labels
	for len(r.labels) < len(labels) {
		text := canvas.NewText("", color.White)
		text.TextSize = theme.TextSize()
		r.labels = append(r.labels, text)
	}
	r.labels = r.labels[:len(labels)]

	w, h := float64(v.size.Width), float64(v.size.Height)
	for i, l := range labels {
		text := r.labels[i]
		text.Text = l.Text
		if l.Color.A > 0 {
			text.Color = l.Color
		}
		if w <= 0 || h <= 0 {
			continue
		}
		x, y, _ := v.camera.Project(l.At, w, h)
		min := text.MinSize()
		text.Resize(min)
		text.Move(fyne.NewPos(float32(x)-min.Width/2, float32(y)-min.Height))
	}
}

func (r *sceneRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *sceneRenderer) Refresh() {
	r.layoutLabels()
	r.raster.Refresh()
	for _, l := range r.labels {
		l.Refresh()
	}
}

func (r *sceneRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(r.labels)+1)
	objects = append(objects, r.raster)
	for _, l := range r.labels {
		objects = append(objects, l)
	}
	return objects
}

func (r *sceneRenderer) Destroy() {}
