package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

func box() geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	b.Extend(geometry.NewVector3(-1, 0, 2))
	b.Extend(geometry.NewVector3(3, 2, 4))
	return b
}

func TestParseSlice(t *testing.T) {
	s, err := ParseSlice("0.01 0 15 0")
	require.NoError(t, err)
	assert.Equal(t, Slice{Distance: 0.01, YDeg: 15}, s)

	s, err = ParseSlice("0.5")
	require.NoError(t, err)
	assert.Equal(t, Slice{Distance: 0.5}, s)

	_, err = ParseSlice("")
	assert.Error(t, err)
	_, err = ParseSlice("1 2 3 4 5")
	assert.Error(t, err)
	_, err = ParseSlice("a 0 0 0")
	assert.Error(t, err)
}

func TestPair(t *testing.T) {
	_, err := Pair(AxisX, []Slice{{Distance: 1}})
	assert.Error(t, err)

	plan, err := Pair(AxisY, []Slice{{Distance: 1}, {Distance: 2}, {Distance: 3}, {Distance: 4}})
	require.NoError(t, err)
	require.Len(t, plan.Fragments, 2)
	assert.Equal(t, 3.0, plan.Fragments[1].Start.Distance)
}

func TestPlaceAlongX(t *testing.T) {
	plan := Plan{Axis: AxisX, Fragments: []Fragment{{Start: Slice{Distance: 0.5}, End: Slice{Distance: 2}}}}

	placements := plan.Place(box())
	require.Len(t, placements, 2)

	assert.True(t, placements[0].Position.ApproxEqual(geometry.NewVector3(-0.5, 1, 3), 1e-12), "%v", placements[0].Position)
	assert.True(t, placements[1].Position.ApproxEqual(geometry.NewVector3(1, 1, 3), 1e-12), "%v", placements[1].Position)
	assert.True(t, placements[0].Orientation.ApproxEqual(geometry.QuaternionIdentity(), 1e-12))
}

func TestPlaceAlongZWithRotation(t *testing.T) {
	plan := Plan{Axis: AxisZ, Fragments: []Fragment{{Start: Slice{Distance: 1, ZDeg: 90}, End: Slice{Distance: 1.5}}}}

	placements := plan.Place(box())
	require.Len(t, placements, 2)
	assert.True(t, placements[0].Position.ApproxEqual(geometry.NewVector3(1, 1, 3), 1e-12))

	// base turns the normal onto X, then Z rotates X onto Y
	n := placements[0].Orientation.Rotate(geometry.ReferenceAxis)
	assert.True(t, n.ApproxEqual(geometry.NewVector3(0, 1, 0), 1e-9), "%v", n)

	n = placements[1].Orientation.Rotate(geometry.ReferenceAxis)
	assert.True(t, n.ApproxEqual(geometry.NewVector3(1, 0, 0), 1e-9), "%v", n)
}

func TestParseAxis(t *testing.T) {
	a, ok := ParseAxis("Y")
	assert.True(t, ok)
	assert.Equal(t, AxisY, a)

	a, ok = ParseAxis("w")
	assert.False(t, ok)
	assert.Equal(t, AxisX, a)
	assert.Equal(t, "z", AxisZ.String())
}
