package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	common.SetLogger(nil)
}

// fakeWindow reports open for a fixed number of frames.
type fakeWindow struct {
	frames   int
	polls    int
	swaps    int
	current  bool
	resize   func(width, height int)
	closeErr error
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }
func (w *fakeWindow) SetScrollCallback(func(delta float32))        {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))      {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) MakeCurrent()                                 { w.current = true }
func (w *fakeWindow) SwapBuffers()                                 { w.swaps++ }
func (w *fakeWindow) IsRunning() bool                              { return w.polls < w.frames }
func (w *fakeWindow) Close() error                                 { return w.closeErr }
func (w *fakeWindow) Width() int                                   { return 640 }
func (w *fakeWindow) Height() int                                  { return 480 }

func (w *fakeWindow) PollEvents() bool {
	if w.polls >= w.frames {
		return false
	}
	w.polls++
	return true
}

// recordingLayer appends its phases to a shared log.
type recordingLayer struct {
	name       string
	active     bool
	computeErr error
	log        *[]string
}

func (l *recordingLayer) Active() bool { return l.active }

func (l *recordingLayer) Compute(float32) error {
	*l.log = append(*l.log, "compute:"+l.name)
	return l.computeErr
}

func (l *recordingLayer) Draw(*material.Binder, float32) {
	*l.log = append(*l.log, "draw:"+l.name)
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newTestEngine(t *testing.T, frames int, options ...EngineBuilderOption) (*engine, *fakeWindow) {
	t.Helper()
	w := &fakeWindow{frames: frames}
	opts := append([]EngineBuilderOption{WithWindow(w), WithBinder(material.NewBinder(graphicstest.NewRecorder()))}, options...)
	e := NewEngine(opts...).(*engine)
	e.now = steppingClock(10 * time.Millisecond)
	return e, w
}

func TestNewEngineRequiresWindowAndBinder(t *testing.T) {
	b := material.NewBinder(graphicstest.NewRecorder())
	assert.Panics(t, func() { NewEngine(WithBinder(b)) })
	assert.Panics(t, func() { NewEngine(WithWindow(&fakeWindow{})) })
	assert.NotPanics(t, func() { NewEngine(WithWindow(&fakeWindow{}), WithBinder(b)) })
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	e, w := newTestEngine(t, 3)
	frames := 0
	e.SetRenderCallback(func(float32) { frames++ })

	e.Run()

	assert.True(t, w.current)
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, w.swaps)
	assert.False(t, e.running)
}

func TestRunComputesBeforeDrawingInKeyOrder(t *testing.T) {
	var log []string
	e, _ := newTestEngine(t, 1,
		WithLayer(2, &recordingLayer{name: "hud", active: true, log: &log}),
		WithLayer(0, &recordingLayer{name: "world", active: true, log: &log}),
		WithLayer(1, &recordingLayer{name: "hidden", active: false, log: &log}),
	)

	e.Run()

	assert.Equal(t, []string{"compute:world", "compute:hud", "draw:world", "draw:hud"}, log)
}

func TestComputeFailureStillDraws(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	var log []string
	e, _ := newTestEngine(t, 1, WithLayer(0, &recordingLayer{name: "sim", active: true, computeErr: errors.New("kernel lost"), log: &log}))

	e.Run()

	assert.Equal(t, []string{"compute:sim", "draw:sim"}, log)
	assert.Contains(t, buf.String(), "layer compute failed")
	assert.Contains(t, buf.String(), "kernel lost")
}

func TestFixedRateTicksCatchUp(t *testing.T) {
	e, _ := newTestEngine(t, 3, WithTickRate(10))
	e.now = steppingClock(250 * time.Millisecond)
	ticks := 0
	var tickLength float32
	e.SetTickCallback(func(dt float32) {
		ticks++
		tickLength = dt
	})

	e.Run()

	assert.Equal(t, 7, ticks)
	assert.InDelta(t, 0.1, tickLength, 1e-6)
}

func TestQuitStopsAfterCurrentFrame(t *testing.T) {
	e, w := newTestEngine(t, 10)
	e.SetRenderCallback(func(float32) { e.Quit() })

	e.Run()

	assert.Equal(t, 1, w.polls)
	assert.Equal(t, 1, w.swaps)
}

func TestPanickingLayerStopsLoop(t *testing.T) {
	e, w := newTestEngine(t, 5)
	e.AddLayer(0, LayerFunc(func(*material.Binder, float32) { panic("boom") }))

	require.NotPanics(t, e.Run)
	assert.Equal(t, 1, w.polls)
}

func TestLayerRegistry(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	l := LayerFunc(func(*material.Binder, float32) {})

	e.AddLayer(3, l)
	assert.NotNil(t, e.Layer(3))
	assert.True(t, e.Layer(3).Active())
	assert.NoError(t, e.Layer(3).Compute(0))

	e.RemoveLayer(3)
	assert.Nil(t, e.Layer(3))
}

func TestRateConversions(t *testing.T) {
	assert.Equal(t, time.Second/60, tickDuration(0))
	assert.Equal(t, 100*time.Millisecond, tickDuration(10))
	assert.Equal(t, time.Duration(0), frameLimit(-1))
	assert.Equal(t, 20*time.Millisecond, frameLimit(50))
}
