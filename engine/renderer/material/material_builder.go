package material

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithGeometryShader is an option builder that adds an optional geometry stage.
//
// Parameters:
//   - s: a geometry shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the geometry stage to a material
func WithGeometryShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.geometry = s
	}
}

// WithTessControlShader is an option builder that adds an optional tessellation-control stage.
//
// Parameters:
//   - s: a tessellation-control shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tessellation-control stage to a material
func WithTessControlShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.tessControl = s
	}
}

// WithTessEvaluationShader is an option builder that adds an optional tessellation-evaluation stage.
//
// Parameters:
//   - s: a tessellation-evaluation shader
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tessellation-evaluation stage to a material
func WithTessEvaluationShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.tessEvaluation = s
	}
}
