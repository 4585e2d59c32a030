package engine

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"

// Layer is one z-ordered unit of per-frame work: an optional compute phase followed by draw
// calls issued through the engine's binder.
type Layer interface {
	// Active reports whether the layer takes part in the current frame.
	//
	// Returns:
	//   - bool: true if the layer should run
	Active() bool

	// Compute runs the layer's compute kernels for the frame. It is called for every active
	// layer before any layer draws.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: error if a kernel failed; the layer still draws
	Compute(deltaTime float32) error

	// Draw binds the layer's materials and parameters through b and issues its draw calls.
	//
	// Parameters:
	//   - b: the binder owning the context's program slot
	//   - deltaTime: seconds since the previous frame
	Draw(b *material.Binder, deltaTime float32)
}

// LayerFunc adapts a draw function into an always active Layer without a compute phase.
type LayerFunc func(b *material.Binder, deltaTime float32)

func (f LayerFunc) Active() bool { return true }

func (f LayerFunc) Compute(float32) error { return nil }

func (f LayerFunc) Draw(b *material.Binder, deltaTime float32) { f(b, deltaTime) }
