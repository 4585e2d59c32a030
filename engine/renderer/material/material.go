package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	ctx            graphics.Context
	name           string
	program        *Program
	geometry       shader.Shader
	tessControl    shader.Shader
	tessEvaluation shader.Shader
	released       bool
}

// Material defines the interface for a drawable surface's shading behavior: a display name
// and the one linked program it owns.
//
// A Material whose program failed to link is still usable. Name lookups against it fail and
// are reported as warnings by the binder, so the renderer keeps running.
type Material interface {
	// Name retrieves the material identifier used in diagnostics.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Program retrieves the program owned by this material.
	//
	// Returns:
	//   - *Program: the linked (or failed) program
	Program() *Program

	// Release deletes the owned program. Subsequent calls are no-ops.
	Release()
}

var _ Material = &material{}

// NewMaterial links the given stages, plus any optional stages set through options, into a
// new Material. The stages are only borrowed during linking; the caller keeps ownership.
//
// Passing a nil vertex or fragment stage, or a stage whose kind does not match its slot,
// is a programming error and panics.
//
// Parameters:
//   - ctx: the graphics context owning the program
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//   - options: variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the new material
func NewMaterial(ctx graphics.Context, vertex, fragment shader.Shader, options ...MaterialBuilderOption) Material {
	m := &material{
		ctx:  ctx,
		name: "material",
	}
	for _, opt := range options {
		opt(m)
	}
	m.program = assembleProgram(ctx, m.name, Stages{
		Vertex:         vertex,
		Fragment:       fragment,
		Geometry:       m.geometry,
		TessControl:    m.tessControl,
		TessEvaluation: m.tessEvaluation,
	})
	// stages are borrowed for linking only
	m.geometry, m.tessControl, m.tessEvaluation = nil, nil, nil
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Program() *Program {
	return m.program
}

func (m *material) Release() {
	if m.released {
		return
	}
	m.released = true
	m.ctx.DeleteProgram(m.program.handle)
}
