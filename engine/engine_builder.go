package engine

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickDuration(fps)
	}
}

// WithWindow sets the window whose context the engine renders into.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBinder sets the binder layers draw through.
//
// Parameters:
//   - b: the binder of the window's graphics context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBinder(b *material.Binder) EngineBuilderOption {
	return func(e *engine) {
		e.binder = b
	}
}

// WithLayer registers a layer at the given z-index key during engine construction.
//
// Parameters:
//   - key: the z-index determining order (lower runs first)
//   - l: the Layer to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLayer(key int, l Layer) EngineBuilderOption {
	return func(e *engine) {
		e.layers[key] = l
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameLimit(fps)
	}
}
