package graphics_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { common.SetLogger(slog.Default()) })
	return &buf
}

func TestCheckErrorDrainsQueue(t *testing.T) {
	logs := captureLogs(t)
	rec := graphicstest.NewRecorder()
	rec.Errors = []uint32{graphics.ErrorInvalidOperation, graphics.ErrorInvalidValue}

	assert.True(t, graphics.CheckError(rec, "bind M"))
	assert.Empty(t, rec.Errors)

	out := logs.String()
	assert.Contains(t, out, "GL_INVALID_OPERATION")
	assert.Contains(t, out, "GL_INVALID_VALUE")
	assert.Contains(t, out, "op=\"bind M\"")
	assert.Equal(t, 2, strings.Count(out, "level=WARN"))
}

func TestCheckErrorClean(t *testing.T) {
	logs := captureLogs(t)
	rec := graphicstest.NewRecorder()

	assert.False(t, graphics.CheckError(rec, "noop"))
	assert.Empty(t, logs.String())
}

type stuckContext struct {
	*graphicstest.Recorder
	polls int
}

func (s *stuckContext) GetError() uint32 {
	s.polls++
	return graphics.ErrorOutOfMemory
}

func TestCheckErrorBounded(t *testing.T) {
	common.SetLogger(nil)
	t.Cleanup(func() { common.SetLogger(slog.Default()) })

	ctx := &stuckContext{Recorder: graphicstest.NewRecorder()}
	assert.True(t, graphics.CheckError(ctx, "lost"))
	assert.Equal(t, 16, ctx.polls)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "GL_NO_ERROR", graphics.ErrorString(graphics.ErrorNone))
	assert.Equal(t, "GL_OUT_OF_MEMORY", graphics.ErrorString(graphics.ErrorOutOfMemory))
	assert.Equal(t, "GL_ERROR_0x1234", graphics.ErrorString(0x1234))
}

func TestStageAndTargetStrings(t *testing.T) {
	assert.Equal(t, "tess-control", graphics.ShaderStageTessControl.String())
	assert.Equal(t, "fragment", graphics.ShaderStageFragment.String())
	assert.Equal(t, "3d", graphics.Texture3D.String())
	assert.Equal(t, "unknown", graphics.ShaderStage(99).String())
}
