package material

import (
	"bytes"
	"log/slog"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

var uniformWrites = []string{"UniformMatrix4", "Uniform4", "Uniform3", "Uniform2", "Uniform1f", "Uniform1i", "Uniform1ui"}

type fakeTexture uint32

func (t fakeTexture) Handle() uint32 { return uint32(t) }

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { common.SetLogger(nil) })
	return &buf
}

func vertexStage() shader.Shader {
	return shader.FromHandle("test.vert", shader.ShaderTypeVertex, 100)
}

func fragmentStage() shader.Shader {
	return shader.FromHandle("test.frag", shader.ShaderTypeFragment, 101)
}

// newTestMaterial links a material against a recorder declaring the given uniforms.
func newTestMaterial(t *testing.T, uniforms ...string) (*graphicstest.Recorder, Material) {
	t.Helper()
	rec := graphicstest.NewRecorder(uniforms...)
	m := NewMaterial(rec, vertexStage(), fragmentStage(), WithName("test"))
	rec.Reset()
	return rec, m
}

func writesOf(rec *graphicstest.Recorder) []graphicstest.Call {
	var out []graphicstest.Call
	for _, c := range rec.Calls {
		if slices.Contains(uniformWrites, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func lookupsOf(rec *graphicstest.Recorder) []string {
	var names []string
	for _, c := range rec.CallsNamed("GetUniformLocation") {
		names = append(names, c.Args[1].(string))
	}
	return names
}

func init() {
	common.SetLogger(nil)
}
