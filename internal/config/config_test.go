package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
)

const sample = `
[planner]
realWorldScale = 50
tapMode = two
surfaceOffset = 0.001

[case "b-case"]
part = mandibula:b/mandible.stl

[case "a-case"]
description = left resection
part = mandible:a/mandible.stl
part = maxilla:/abs/maxilla.stl
fragmentOrientation = y
slice = 0.2 0 10 0
slice = 0.5 0 -10 0
`

func TestReadString(t *testing.T) {
	f, err := ReadString(sample)
	require.NoError(t, err)

	assert.Equal(t, 50.0, f.Planner.RealWorldScale)
	assert.InDelta(t, 0.02, f.Planner.ModelScale, 1e-12, "model scale follows the real world scale")
	assert.Equal(t, 0.3, f.Planner.SpawnRadius, "defaults survive")
	assert.Equal(t, 0.7, f.Planner.TranslucentOpacity)

	s := f.Planner.Session()
	assert.Equal(t, tapphase.TwoTap, s.TapMode)
	assert.Equal(t, 0.001, s.SurfaceOffset)

	cases := f.Cases()
	require.Len(t, cases, 2)
	assert.Equal(t, "a-case", cases[0].Name)
	assert.Equal(t, "b-case", cases[1].Name)

	a := cases[0]
	assert.Equal(t, "left resection", a.Description)
	assert.Equal(t, []PartFile{
		{Part: part.Mandible, Path: "a/mandible.stl"},
		{Part: part.Maxilla, Path: "/abs/maxilla.stl"},
	}, a.Parts)
	assert.Equal(t, fragment.AxisY, a.Plan.Axis)
	require.Len(t, a.Plan.Fragments, 1)
	assert.Equal(t, 0.2, a.Plan.Fragments[0].Start.Distance)
	assert.Equal(t, -10.0, a.Plan.Fragments[0].End.YDeg)

	assert.Equal(t, fragment.AxisX, cases[1].Plan.Axis)
	assert.Empty(t, cases[1].Plan.Fragments)
}

func TestReadStringDefaults(t *testing.T) {
	f, err := ReadString("")
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.Planner.RealWorldScale)
	assert.Equal(t, tapphase.Single, f.Planner.Session().TapMode)
	assert.InDelta(t, 0.01, f.Planner.ModelScale, 1e-12)
	assert.Empty(t, f.Cases())
}

func TestReadStringErrors(t *testing.T) {
	for name, input := range map[string]string{
		"unknown key":     "[planner]\nzoom = 2\n",
		"bad scale":       "[planner]\nrealWorldScale = -1\n",
		"bad tap mode":    "[planner]\ntapMode = three\n",
		"bad opacity":     "[planner]\ntranslucentOpacity = 1.5\n",
		"no parts":        "[case \"x\"]\ndescription = empty\n",
		"bad part":        "[case \"x\"]\npart = femur:f.stl\n",
		"missing path":    "[case \"x\"]\npart = mandible\n",
		"duplicate part":  "[case \"x\"]\npart = mandible:a.stl\npart = mandibula:b.stl\n",
		"bad axis":        "[case \"x\"]\npart = mandible:a.stl\nfragmentOrientation = w\n",
		"odd slices":      "[case \"x\"]\npart = mandible:a.stl\nslice = 0.1\n",
		"malformed slice": "[case \"x\"]\npart = mandible:a.stl\nslice = near\nslice = far\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadString(input)
			assert.Error(t, err)
		})
	}
}

func TestReadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "planner.gcfg")
	require.NoError(t, os.WriteFile(fname, []byte(sample), 0o644))

	f, err := Read(fname)
	require.NoError(t, err)

	c, err := f.FindCase("a-case")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "mandible.stl"), c.Parts[0].Path)
	assert.Equal(t, "/abs/maxilla.stl", c.Parts[1].Path)

	_, err = f.FindCase("missing")
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.gcfg"))
	assert.Error(t, err)
}

func TestSingleModel(t *testing.T) {
	c := SingleModel("/data/jaw.stl")
	assert.Equal(t, "jaw", c.Name)
	assert.Equal(t, []PartFile{{Part: part.Mandible, Path: "/data/jaw.stl"}}, c.Parts)
}
