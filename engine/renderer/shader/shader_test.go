package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	common.SetLogger(nil)
}

func TestNewShaderCompiles(t *testing.T) {
	rec := graphicstest.NewRecorder()
	s, err := NewShader(rec, "basic.vert", ShaderTypeVertex, "//@oxy:include model\nvoid main() {}")
	require.NoError(t, err)

	assert.Equal(t, "basic.vert", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.NotZero(t, s.Handle())
	assert.Contains(t, s.Source(), "uniform mat4 M;")
	assert.Equal(t, []AnnotationArg{AnnotationArgModel}, s.Includes())
	assert.Equal(t, []string{"CreateShader", "ShaderSource", "CompileShader", "ShaderCompiled"}, rec.Names())
}

func TestNewShaderCompileFailure(t *testing.T) {
	rec := graphicstest.NewRecorder()
	rec.CompileFails = true
	rec.InfoLog = "0:1: syntax error"

	s, err := NewShader(rec, "broken.frag", ShaderTypeFragment, "void main() {")
	assert.Nil(t, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, 1, rec.Count("DeleteShader"))
}

func TestNewShaderPreProcessFailure(t *testing.T) {
	rec := graphicstest.NewRecorder()
	_, err := NewShader(rec, "bad", ShaderTypeVertex, "//@oxy:include nope")
	require.Error(t, err)
	assert.Zero(t, rec.Count("CreateShader"))
}

func TestShaderReleaseOnce(t *testing.T) {
	rec := graphicstest.NewRecorder()
	s, err := NewShader(rec, "s", ShaderTypeGeometry, "void main() {}")
	require.NoError(t, err)

	s.Release()
	s.Release()
	assert.Equal(t, 1, rec.Count("DeleteShader"))
}

func TestFromHandleIsBorrowed(t *testing.T) {
	s := FromHandle("external", ShaderTypeTessControl, 42)
	assert.Equal(t, uint32(42), s.Handle())
	assert.Equal(t, ShaderTypeTessControl, s.ShaderType())
	assert.NotPanics(t, s.Release)
}

func TestNewShaderFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(path, []byte("//@oxy:include screen\nvoid main() {}"), 0o644))

	rec := graphicstest.NewRecorder()
	s, err := NewShaderFromPath(rec, "a", ShaderTypeFragment, path)
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "uniform vec2 screenSize;")

	_, err = NewShaderFromPath(rec, "missing", ShaderTypeFragment, filepath.Join(dir, "missing.frag"))
	assert.Error(t, err)
	assert.Panics(t, func() { _, _ = NewShaderFromPath(rec, "empty", ShaderTypeFragment, "") })
}
