package shader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType = graphics.ShaderStage

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing.
	ShaderTypeVertex = graphics.ShaderStageVertex

	// ShaderTypeFragment is the fragment shader type, used in pair with a vertex shader.
	ShaderTypeFragment = graphics.ShaderStageFragment

	// ShaderTypeGeometry is the optional geometry shader type.
	ShaderTypeGeometry = graphics.ShaderStageGeometry

	// ShaderTypeTessControl is the optional tessellation-control shader type.
	ShaderTypeTessControl = graphics.ShaderStageTessControl

	// ShaderTypeTessEvaluation is the optional tessellation-evaluation shader type.
	ShaderTypeTessEvaluation = graphics.ShaderStageTessEvaluation
)

// shader is the implementation of the Shader interface.
type shader struct {
	ctx        graphics.Context
	key        string
	source     string
	shaderType ShaderType
	handle     uint32
	includes   []AnnotationArg
	released   bool
}

// Shader defines the interface for a compiled GLSL shader stage. A Shader is immutable once
// compiled. The caller owns it; programs only borrow a stage while linking, so a stage may be
// released as soon as every program using it has been assembled.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and diagnostics.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// ShaderType returns the stage this shader was compiled for.
	//
	// Returns:
	//   - ShaderType: one of ShaderTypeVertex, ShaderTypeFragment, ShaderTypeGeometry,
	//     ShaderTypeTessControl or ShaderTypeTessEvaluation
	ShaderType() ShaderType

	// Handle returns the native shader object handle.
	//
	// Returns:
	//   - uint32: the shader object handle
	Handle() uint32

	// Source retrieves the pre-processed GLSL source the shader was compiled from.
	// Empty for shaders wrapped with FromHandle.
	//
	// Returns:
	//   - string: the GLSL source code
	Source() string

	// Includes returns the standard uniform blocks injected into the source by the pre-processor.
	//
	// Returns:
	//   - []AnnotationArg: the included block keys in source order
	Includes() []AnnotationArg

	// Release deletes the native shader object. Subsequent calls are no-ops.
	Release()
}

var _ Shader = &shader{}

// NewShader pre-processes and compiles GLSL source into a shader object.
// On compile failure the compiler log is logged at error level, the shader object is
// deleted and an error is returned.
//
// Parameters:
//   - ctx: the graphics context to compile with
//   - key: a unique identifier for the shader, used for diagnostics
//   - shaderType: the stage to compile for
//   - source: the raw GLSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the compiled shader
//   - error: error if pre-processing or compilation fails
func NewShader(ctx graphics.Context, key string, shaderType ShaderType, source string) (Shader, error) {
	if ctx == nil {
		panic(fmt.Sprintf("shader: %s requires a graphics context", key))
	}
	processed, includes, err := preprocess(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", key, err)
	}
	return compile(ctx, key, shaderType, processed, includes)
}

// NewShaderFromPath reads a GLSL file and compiles it with NewShader.
//
// Parameters:
//   - ctx: the graphics context to compile with
//   - key: a unique identifier for the shader
//   - shaderType: the stage to compile for
//   - sourcePath: the file path to read GLSL source from
//
// Returns:
//   - Shader: the compiled shader
//   - error: error if reading, pre-processing or compilation fails
func NewShaderFromPath(ctx graphics.Context, key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	if sourcePath == "" {
		panic(fmt.Sprintf("shader: %s must have a valid source path", key))
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader source %q: %w", sourcePath, err)
	}
	return NewShader(ctx, key, shaderType, string(data))
}

// FromHandle wraps a shader object compiled elsewhere. The returned Shader does not own
// the handle and Release is a no-op.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the object was compiled for
//   - handle: the native shader object handle
//
// Returns:
//   - Shader: a borrowed shader
func FromHandle(key string, shaderType ShaderType, handle uint32) Shader {
	return &shader{
		key:        key,
		shaderType: shaderType,
		handle:     handle,
	}
}

func preprocess(source string) (string, []AnnotationArg, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return "", nil, err
	}
	return processed, append([]AnnotationArg(nil), pp.Includes()...), nil
}

func compile(ctx graphics.Context, key string, shaderType ShaderType, source string, includes []AnnotationArg) (Shader, error) {
	handle := ctx.CreateShader(shaderType)
	ctx.ShaderSource(handle, source)
	ctx.CompileShader(handle)
	if !ctx.ShaderCompiled(handle) {
		log := ctx.ShaderInfoLog(handle)
		ctx.DeleteShader(handle)
		common.Logger().Error("shader compile failed", "shader", key, "stage", shaderType.String(), "log", log)
		return nil, fmt.Errorf("failed to compile %s shader %q: %s", shaderType, key, log)
	}
	return &shader{
		ctx:        ctx,
		key:        key,
		source:     source,
		shaderType: shaderType,
		handle:     handle,
		includes:   includes,
	}, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Handle() uint32 {
	return s.handle
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Includes() []AnnotationArg {
	return s.includes
}

func (s *shader) Release() {
	if s.released || s.ctx == nil {
		return
	}
	s.released = true
	s.ctx.DeleteShader(s.handle)
}
