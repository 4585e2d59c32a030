package engine

import (
	"runtime"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	running bool

	window window.Window
	binder *material.Binder

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	layers map[int]Layer

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// now is the clock, replaceable for tests.
	now func() time.Time
}

// Engine is the main entry point for the engine.
// It drives the frame loop: window events, fixed-rate ticks, compute dispatches and draws.
//
// OpenGL contexts are bound to one thread, so every phase of a frame runs on the thread that
// called Run, which is locked to its OS thread for the duration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Binder returns the binder owning the window context's program slot.
	//
	// Returns:
	//   - *material.Binder: the binder passed to every layer
	Binder() *material.Binder

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback is called at this rate for logic updates, catching up when frames run long.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after all layers have drawn.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddLayer registers a layer at the given z-index key.
	// Layers run in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining order (lower runs first)
	//   - l: the Layer to register
	AddLayer(key int, l Layer)

	// RemoveLayer removes the layer at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the layer to remove
	RemoveLayer(key int)

	// Layer retrieves the layer registered at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the layer to retrieve
	//
	// Returns:
	//   - Layer: the layer at the key, or nil if not found
	Layer(key int) Layer

	// Run runs the frame loop on the calling goroutine until the window closes or Quit is called.
	Run()

	// Quit stops the frame loop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window and a binder are required; passing neither is a programming error and panics.
//
// Parameters:
//   - options: functional options for engine configuration (window, binder, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		layers:         make(map[int]Layer),
		engineTickRate: time.Second / 60,
		now:            time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		panic("engine: a window is required")
	}
	if e.binder == nil {
		panic("engine: a binder is required")
	}
	e.profiler = profiler.NewProfiler(profiler.WithBinder(e.binder))
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Binder() *material.Binder {
	return e.binder
}

func (e *engine) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.window.MakeCurrent()
	e.running = true

	last := e.now()
	var accumulator time.Duration
	for e.running && e.window.PollEvents() {
		frameStart := e.now()
		elapsed := frameStart.Sub(last)
		last = frameStart

		accumulator += elapsed
		for accumulator >= e.engineTickRate {
			accumulator -= e.engineTickRate
			if e.tickCallback != nil {
				e.tickCallback(float32(e.engineTickRate.Seconds()))
			}
		}

		e.frame(float32(elapsed.Seconds()))
		e.window.SwapBuffers()

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	e.running = false
}

// frame runs the compute phase of every active layer, then their draws, in ascending key order.
// A panicking layer stops the loop.
func (e *engine) frame(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame panicked, stopping", "err", r)
			e.running = false
		}
	}()

	keys := make([]int, 0, len(e.layers))
	for k, l := range e.layers {
		if l.Active() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := e.layers[k].Compute(dt); err != nil {
			common.Logger().Warn("layer compute failed", "layer", k, "err", err)
		}
	}
	for _, k := range keys {
		e.layers[k].Draw(e.binder, dt)
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
}

// Quit stops the frame loop after the current frame.
func (e *engine) Quit() {
	e.running = false
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickDuration(fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func (e *engine) AddLayer(key int, l Layer) {
	e.layers[key] = l
}

func (e *engine) RemoveLayer(key int) {
	delete(e.layers, key)
}

func (e *engine) Layer(key int) Layer {
	return e.layers[key]
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
