package planview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

func plate() *stl.Model {
	m := stl.NewModel("plate")
	a := geometry.NewVector3(-1, 0, -1)
	b := geometry.NewVector3(1, 0, -1)
	c := geometry.NewVector3(1, 0, 1)
	d := geometry.NewVector3(-1, 0, 1)
	m.AddTriangle(geometry.NewTriangle(geometry.Up, a, d, c))
	m.AddTriangle(geometry.NewTriangle(geometry.Up, a, c, b))
	return m
}

func newPlanner(t *testing.T) (*scene.Graph, *session.Session) {
	t.Helper()
	g := scene.NewGraph()
	surfaces, err := g.AddCase("case", 1, []scene.PartModel{{ID: "mandible", Part: part.Mandible, Model: plate()}})
	require.NoError(t, err)
	s := session.New(g, session.DefaultConfig(), nil)
	require.NoError(t, s.AddSurface(surfaces[0]))
	return g, s
}

var down = geometry.NewVector3(0, -1, 0)

func TestBuildMarkersAndRulers(t *testing.T) {
	g, s := newPlanner(t)
	s.Tap(geometry.NewVector3(0.1, 1, 0.3), down)
	s.Tap(geometry.NewVector3(0.6, 1, 0.3), down)
	_, err := s.CreateRulerBetweenLastTwo()
	require.NoError(t, err)

	style := DefaultStyle()
	style.MarkerRadius = 0.1
	out := Build(g, style)

	assert.Len(t, out.Faces, 2)
	assert.Len(t, out.Lines, 2*(discSegments+1)+1)
	require.Len(t, out.Labels, 1)
	assert.Equal(t, "50.0 mm", out.Labels[0].Text)
	assert.True(t, out.Labels[0].At.ApproxEqual(geometry.NewVector3(0.35, 0, 0.3), 1e-9))

	// the outline lies in the marker plane at the marker radius
	for _, l := range out.Lines[:discSegments] {
		assert.InDelta(t, 0, l.A.Y, 1e-9)
		assert.InDelta(t, 0.1, l.A.Distance(geometry.NewVector3(0.1, 0, 0.3)), 1e-9)
	}
	normal := out.Lines[discSegments]
	assert.True(t, normal.B.Sub(normal.A).Normalize().ApproxEqual(geometry.Up, 1e-9))
}

func TestBuildHonoursVisibility(t *testing.T) {
	g, s := newPlanner(t)
	s.Tap(geometry.NewVector3(0.1, 1, 0.3), down)
	s.ToggleAllMarkersVisible()
	require.NoError(t, s.SetPartOpacity(part.Mandible, true))

	out := Build(g, DefaultStyle())
	assert.Empty(t, out.Lines)
	require.Len(t, out.Faces, 2)
	assert.Equal(t, uint8(179), out.Faces[0].Color.A)

	require.NoError(t, s.SetPartVisible(part.Mandible, false))
	assert.Empty(t, Build(g, DefaultStyle()).Faces)
}

func TestBuildPendingDotAndRulerStart(t *testing.T) {
	g, s := newPlanner(t)
	s.SetTapMode(tapphase.TwoTap)
	s.Tap(geometry.NewVector3(0.1, 1, 0.3), down)

	out := Build(g, DefaultStyle())
	assert.Len(t, out.Lines, 3)

	s.Tap(geometry.NewVector3(0.5, 1, 0.3), down)
	s.ToggleRulerMode()
	s.Tap(geometry.NewVector3(0.3, 1, 0.3), down)

	out = Build(g, DefaultStyle())
	assert.Len(t, out.Lines, discSegments+1+3)
}

func TestBuildOverlay(t *testing.T) {
	g, s := newPlanner(t)
	s.Tap(geometry.NewVector3(0.1, 1, 0.3), down)

	style := DefaultStyle()
	style.Overlay = true
	out := Build(g, style)
	assert.Empty(t, out.Faces)
	assert.Len(t, out.Lines, discSegments+1)
}
