package viewer

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

func TestSceneViewTapReportsRay(t *testing.T) {
	test.NewTempApp(t)

	v := NewSceneView()
	var poses []geometry.Transform
	v.SetOnCameraChange(func(pose geometry.Transform) { poses = append(poses, pose) })
	v.SetScene(Scene{Faces: square(0, color.RGBA{200, 200, 200, 255})})
	require.Len(t, poses, 1, "first scene frames the camera")

	w := test.NewWindow(v)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 400))
	v.Resize(fyne.NewSize(400, 400))

	var origin, dir geometry.Vector3
	tapped := false
	v.SetOnTap(func(o, d geometry.Vector3) {
		origin, dir, tapped = o, d, true
	})

	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(200, 200)})
	require.True(t, tapped)
	assert.True(t, origin.ApproxEqual(geometry.NewVector3(0, 0, 4), 1e-9))
	assert.True(t, dir.ApproxEqual(geometry.NewVector3(0, 0, -1), 1e-9))
}

func TestSceneViewDragSuppressesTap(t *testing.T) {
	test.NewTempApp(t)

	v := NewSceneView()
	v.SetScene(Scene{Faces: square(0, color.RGBA{200, 200, 200, 255})})
	v.Resize(fyne.NewSize(400, 400))
	w := test.NewWindow(v)
	defer w.Close()

	before := v.Pose()
	tapped := false
	v.SetOnTap(func(o, d geometry.Vector3) { tapped = true })

	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}})
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 120)}})
	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(150, 120)})
	assert.False(t, tapped)
	assert.False(t, before.ApproxEqual(v.Pose(), 1e-9))

	v.DragEnd()
	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(150, 120)})
	assert.True(t, tapped)

	v.ResetCamera()
	assert.True(t, before.ApproxEqual(v.Pose(), 1e-9))
}
