package openscad

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jaw.scad"), "use <lib/teeth.scad>\ninclude <./common.scad>\n// use <ignored.scad>\ncube(1);\n")
	writeFile(t, filepath.Join(dir, "lib", "teeth.scad"), "include <../common.scad>\n")
	writeFile(t, filepath.Join(dir, "common.scad"), "use <jaw.scad>\n")

	r := NewRenderer(dir)
	deps, err := r.ResolveDependencies("jaw.scad")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "jaw.scad"),
		filepath.Join(dir, "lib", "teeth.scad"),
		filepath.Join(dir, "common.scad"),
	}, deps)
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jaw.scad"), "use <missing.scad>\n")

	_, err := NewRenderer(dir).ResolveDependencies("jaw.scad")
	assert.Error(t, err)
}

func TestRenderWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir(), WithBinary("openscad-binary-that-does-not-exist"))
	_, err := r.Render(context.Background(), "jaw.scad")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("a/b/jaw.SCAD"))
	assert.False(t, IsSource("jaw.stl"))
}
