package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

const asciiQuad = `solid plate
  facet normal 0 1 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 1 0
    outer loop
      vertex 1 0 0
      vertex 0 0 1
      vertex 1 0 1
    endloop
  endfacet
endsolid plate
`

func binarySTL(t *testing.T, header string, triangles []geometry.Triangle) []byte {
	t.Helper()

	var buf bytes.Buffer
	h := make([]byte, 80)
	copy(h, header)
	buf.Write(h)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))
	for _, tri := range triangles {
		for _, v := range []geometry.Vector3{tri.Normal, tri.V1, tri.V2, tri.V3} {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}))
		}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestParseReaderASCII(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiQuad))
	require.NoError(t, err)

	assert.Equal(t, "plate", model.Name)
	assert.Equal(t, 2, model.TriangleCount())
	assert.InDelta(t, 1.0, model.SurfaceArea(), 1e-12)

	bbox := model.BoundingBox()
	assert.Equal(t, geometry.NewVector3(0, 0, 0), bbox.Min)
	assert.Equal(t, geometry.NewVector3(1, 0, 1), bbox.Max)
}

func TestParseReaderBinary(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(2, 0, 0),
		geometry.NewVector3(0, 2, 0),
	)
	data := binarySTL(t, "mandibula", []geometry.Triangle{tri})

	model, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "mandibula", model.Name)
	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, tri, model.Triangles[0])
}

func TestParseReaderBinaryWithSolidHeader(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	)
	data := binarySTL(t, "solid exported by scanner", []geometry.Triangle{tri, tri})

	model, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())
}

func TestParseReaderTruncated(t *testing.T) {
	_, err := ParseReader(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestParseNamesModelAfterFile(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	)
	path := filepath.Join(t.TempDir(), "maxilla.stl")
	require.NoError(t, os.WriteFile(path, binarySTL(t, "", []geometry.Triangle{tri}), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "maxilla", model.Name)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestModelCentroid(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiQuad))
	require.NoError(t, err)

	assert.True(t, model.Centroid().ApproxEqual(geometry.NewVector3(0.5, 0, 0.5), 1e-12))
}
