package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func init() {
	common.SetLogger(nil)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })
	return &buf
}

func newTestProfiler(clock *fakeClock, options ...ProfilerBuilderOption) *Profiler {
	p := NewProfiler(options...)
	p.now = clock.now
	p.lastTime = clock.now()
	return p
}

func TestTickReportsAfterInterval(t *testing.T) {
	logs := captureLogs(t)
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(clock)

	clock.advance(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Empty(t, logs.String())

	clock.advance(500 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.Contains(t, logs.String(), "frame stats")
	assert.Contains(t, logs.String(), "fps=2 ")
	assert.NotContains(t, logs.String(), "uniforms_per_frame")

	clock.advance(10 * time.Millisecond)
	assert.False(t, p.Tick(), "the frame counter restarts after a report")
}

func TestTickReportsAndResetsBinderStats(t *testing.T) {
	rec := graphicstest.NewRecorder("tint")
	b := material.NewBinder(rec)
	m := material.NewMaterial(rec,
		shader.FromHandle("flat.vert", shader.ShaderTypeVertex, 1),
		shader.FromHandle("flat.frag", shader.ShaderTypeFragment, 2),
	)
	b.With(m, func(s *material.Session) {
		s.Bind(material.Float(0.5), "tint")
		s.Bind(material.Float(0.5), "missing")
	})

	logs := captureLogs(t)
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(clock, WithBinder(b), WithInterval(time.Second))

	clock.advance(time.Second)
	assert.True(t, p.Tick())
	out := logs.String()
	assert.Contains(t, out, "sessions_per_frame=1 ")
	assert.Contains(t, out, "uniforms_per_frame=1 ")
	assert.Contains(t, out, "samplers_per_frame=0 ")
	assert.Contains(t, out, "misses=1")
	assert.Equal(t, material.BindStats{}, b.Stats())
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)

	p = NewProfiler(WithInterval(time.Minute))
	assert.Equal(t, time.Minute, p.updateInterval)
}
