package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/scene"
	"github.com/yosuahres/developmentVRSkripsi/internal/session"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
	"github.com/yosuahres/developmentVRSkripsi/pkg/stl"
)

func TestParse(t *testing.T) {
	steps, err := Parse(strings.NewReader(`
# setup
camera 0 2 0  0 0 0
MODE two
tap 0.1 2 0 0 -1 0   # first
part maxilla translucent
active mandibula
ruler
`))
	require.NoError(t, err)
	require.Len(t, steps, 6)

	assert.Equal(t, OpCamera, steps[0].Op)
	assert.Equal(t, 3, steps[0].Line)
	assert.Equal(t, []float64{0, 2, 0, 0, 0, 0}, steps[0].Values)
	assert.Equal(t, tapphase.TwoTap, steps[1].Mode)
	assert.Equal(t, 5, steps[2].Line)
	assert.Equal(t, part.Maxilla, steps[3].Part)
	assert.Equal(t, "translucent", steps[3].Action)
	assert.Equal(t, part.Mandible, steps[4].Part)
	assert.Equal(t, OpRuler, steps[5].Op)
}

func TestParseErrors(t *testing.T) {
	for name, input := range map[string]string{
		"unknown":       "jump\n",
		"arity":         "tap 0 1 0\n",
		"number":        "aim 0 x 0\n",
		"mode":          "mode three\n",
		"part action":   "part mandible paint\n",
		"part name":     "active femur\n",
		"part args":     "part mandible\n",
		"spawn args":    "spawn 1\n",
		"missing modes": "mode\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader("spawn\n" + input))
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 2, perr.Line)
		})
	}

	_, err := Parse(strings.NewReader("jump"))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func plate(height float64) *stl.Model {
	m := stl.NewModel("plate")
	a := geometry.NewVector3(-1, height, -1)
	b := geometry.NewVector3(1, height, -1)
	c := geometry.NewVector3(1, height, 1)
	d := geometry.NewVector3(-1, height, 1)
	m.AddTriangle(geometry.NewTriangle(geometry.Up, a, d, c))
	m.AddTriangle(geometry.NewTriangle(geometry.Up, a, c, b))
	return m
}

func newRunner(t *testing.T, out *bytes.Buffer) *Runner {
	t.Helper()
	g := scene.NewGraph()
	surfaces, err := g.AddCase("case", 1, []scene.PartModel{
		{ID: "mandible", Part: part.Mandible, Model: plate(0)},
		{ID: "maxilla", Part: part.Maxilla, Model: plate(1)},
	})
	require.NoError(t, err)

	s := session.New(g, session.DefaultConfig(), nil)
	for _, surface := range surfaces {
		require.NoError(t, s.AddSurface(surface))
	}
	return &Runner{
		Session: s,
		Camera:  g,
		Plan: fragment.Plan{Axis: fragment.AxisX, Fragments: []fragment.Fragment{
			{Start: fragment.Slice{Distance: 0.5}, End: fragment.Slice{Distance: 1.5}},
		}},
		Out: out,
	}
}

func TestRunPlacesAndMeasures(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(t, &out)

	steps, err := Parse(strings.NewReader(`
part maxilla hide
camera 0.1 3 1.3  0.1 0 0.3
aim 0.1 -0.5 0.3
tap 0.6 2 0.3 0 -1 0
ruler-last
ruler
tap 9 9 9 0 1 0
`))
	require.NoError(t, err)
	require.NoError(t, r.Run(steps))

	markers := r.Session.Markers()
	require.Len(t, markers, 2)
	assert.True(t, markers[0].Position.ApproxEqual(geometry.NewVector3(0.1, 0, 0.3), 1e-9))
	assert.Equal(t, marker.SourceTap, markers[1].Source)

	rulers := r.Session.Rulers()
	require.Len(t, rulers, 1)
	assert.Equal(t, "50.0 mm", rulers[0].Label())
	assert.True(t, r.Session.IsRulerMode())

	text := out.String()
	assert.Contains(t, text, "ruler-last")
	assert.Contains(t, text, "50.0 mm")
	assert.Contains(t, text, "ignored:")

	var summary bytes.Buffer
	Summary(&summary, r.Session)
	assert.Contains(t, summary.String(), "Markers: 2")
	assert.Contains(t, summary.String(), "Rulers: 1")
}

func TestRunPartCommands(t *testing.T) {
	r := newRunner(t, nil)
	steps, err := Parse(strings.NewReader("active maxilla\npart maxilla translucent\nfragments\nmarkers-visible\n"))
	require.NoError(t, err)
	require.NoError(t, r.Run(steps))

	active, ok := r.Session.ActivePart()
	require.True(t, ok)
	assert.Equal(t, part.Maxilla, active)

	state, ok := r.Session.Frame().Part(part.Maxilla)
	require.True(t, ok)
	assert.True(t, state.Translucent())

	markers := r.Session.Markers()
	require.Len(t, markers, 2)
	for _, m := range markers {
		assert.Equal(t, marker.SourceFragment, m.Source)
		assert.False(t, m.Visible)
	}
}

func TestRunRejectsUnknownPart(t *testing.T) {
	r := newRunner(t, nil)
	steps, err := Parse(strings.NewReader("active other\n"))
	require.NoError(t, err)
	assert.Error(t, r.Run(steps))
}
