// Package graphics defines the rendering-API surface the engine binds shader state through.
// The core never calls OpenGL directly; it talks to a Context, which the opengl package
// implements on top of go-gl and the graphicstest package implements as a call recorder.
//
// A Context models exactly one GL context: one currently bound program and one currently
// active texture unit at any time. It must only be used from the thread that owns the context.
package graphics

import "github.com/go-gl/mathgl/mgl32"

// NotFound is the uniform location returned when a name does not resolve against a program.
const NotFound int32 = -1

// ShaderStage identifies the pipeline stage a shader object is compiled for.
type ShaderStage int

const (
	// ShaderStageVertex processes individual vertices.
	ShaderStageVertex ShaderStage = iota

	// ShaderStageFragment processes rasterized fragments, paired with a vertex stage.
	ShaderStageFragment

	// ShaderStageGeometry emits primitives from assembled input primitives.
	ShaderStageGeometry

	// ShaderStageTessControl sets per-patch tessellation levels.
	ShaderStageTessControl

	// ShaderStageTessEvaluation positions the vertices generated by the tessellator.
	ShaderStageTessEvaluation
)

// String returns a human readable stage name for diagnostics.
func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageGeometry:
		return "geometry"
	case ShaderStageTessControl:
		return "tess-control"
	case ShaderStageTessEvaluation:
		return "tess-evaluation"
	default:
		return "unknown"
	}
}

// TextureTarget identifies the dimensionality a texture object is bound with.
type TextureTarget int

const (
	// Texture2D binds as GL_TEXTURE_2D.
	Texture2D TextureTarget = iota

	// Texture3D binds as GL_TEXTURE_3D.
	Texture3D
)

// String returns a human readable target name for diagnostics.
func (t TextureTarget) String() string {
	switch t {
	case Texture2D:
		return "2d"
	case Texture3D:
		return "3d"
	default:
		return "unknown"
	}
}

// Context is the set of rendering-API calls consumed by shader assembly, parameter binding,
// texture management and compute interop.
//
// Textures managed through a Context always use an RGBA8 internal format so their contents
// can round-trip through ReadTexture/WriteTexture byte-for-byte.
type Context interface {
	// CreateShader creates an empty shader object for the given stage.
	//
	// Parameters:
	//   - stage: the pipeline stage the shader is compiled for
	//
	// Returns:
	//   - uint32: the shader object handle
	CreateShader(stage ShaderStage) uint32

	// ShaderSource replaces the source code of a shader object.
	//
	// Parameters:
	//   - shader: the shader object handle
	//   - source: the GLSL source code
	ShaderSource(shader uint32, source string)

	// CompileShader compiles the current source of a shader object.
	//
	// Parameters:
	//   - shader: the shader object handle
	CompileShader(shader uint32)

	// ShaderCompiled reports the compile status of a shader object.
	//
	// Parameters:
	//   - shader: the shader object handle
	//
	// Returns:
	//   - bool: true if the last compile succeeded
	ShaderCompiled(shader uint32) bool

	// ShaderInfoLog returns the compiler log of a shader object.
	//
	// Parameters:
	//   - shader: the shader object handle
	//
	// Returns:
	//   - string: the compiler log, possibly empty
	ShaderInfoLog(shader uint32) string

	// DeleteShader flags a shader object for deletion.
	//
	// Parameters:
	//   - shader: the shader object handle
	DeleteShader(shader uint32)

	// CreateProgram creates an empty program object.
	//
	// Returns:
	//   - uint32: the program handle
	CreateProgram() uint32

	// AttachShader attaches a compiled shader object to a program.
	//
	// Parameters:
	//   - program: the program handle
	//   - shader: the shader object handle
	AttachShader(program, shader uint32)

	// LinkProgram links all attached stages of a program.
	//
	// Parameters:
	//   - program: the program handle
	LinkProgram(program uint32)

	// ProgramLinked reports the link status of a program.
	//
	// Parameters:
	//   - program: the program handle
	//
	// Returns:
	//   - bool: true if the last link succeeded
	ProgramLinked(program uint32) bool

	// ProgramInfoLog returns the linker log of a program.
	//
	// Parameters:
	//   - program: the program handle
	//
	// Returns:
	//   - string: the linker log, possibly empty
	ProgramInfoLog(program uint32) string

	// DeleteProgram deletes a program object.
	//
	// Parameters:
	//   - program: the program handle
	DeleteProgram(program uint32)

	// UseProgram installs a program as the current program of the context. 0 uninstalls.
	//
	// Parameters:
	//   - program: the program handle, or 0
	UseProgram(program uint32)

	// GetUniformLocation resolves a uniform name against a program.
	//
	// Parameters:
	//   - program: the program handle
	//   - name: the uniform name, e.g. "M" or "pointLights[2].color"
	//
	// Returns:
	//   - int32: the uniform location, or NotFound
	GetUniformLocation(program uint32, name string) int32

	// UniformMatrix4 writes a 4x4 float matrix, column-major, without transposition.
	UniformMatrix4(location int32, value mgl32.Mat4)

	// Uniform4 writes a float vec4.
	Uniform4(location int32, value mgl32.Vec4)

	// Uniform3 writes a float vec3.
	Uniform3(location int32, value mgl32.Vec3)

	// Uniform2 writes a float vec2.
	Uniform2(location int32, value mgl32.Vec2)

	// Uniform1f writes a float scalar.
	Uniform1f(location int32, value float32)

	// Uniform1i writes a signed integer scalar. Also used for booleans and sampler units.
	Uniform1i(location int32, value int32)

	// Uniform1ui writes an unsigned integer scalar.
	Uniform1ui(location int32, value uint32)

	// ActiveTexture selects the active texture unit.
	//
	// Parameters:
	//   - unit: the zero-based texture unit index (not a GL_TEXTUREi enum)
	ActiveTexture(unit int32)

	// BindTexture binds a texture object to the active unit for the given target.
	//
	// Parameters:
	//   - target: the texture dimensionality
	//   - texture: the texture handle, or 0 to unbind
	BindTexture(target TextureTarget, texture uint32)

	// TextureBinding queries the texture bound to the active unit for the given target.
	//
	// Returns:
	//   - uint32: the bound texture handle, or 0 when nothing is bound
	TextureBinding(target TextureTarget) uint32

	// MaxCombinedTextureImageUnits queries the platform limit of texture units usable at once.
	//
	// Returns:
	//   - int32: the maximum number of combined texture image units
	MaxCombinedTextureImageUnits() int32

	// GetError pops the oldest sticky error flag.
	//
	// Returns:
	//   - uint32: the error code, or 0 when no error is pending
	GetError() uint32

	// The texture object operations below leave the active unit's bindings as they found them,
	// so they are safe to call while a binding session has samplers bound.

	// CreateTexture allocates RGBA8 storage for a new texture object.
	// A nil pixels slice leaves the contents undefined.
	//
	// Parameters:
	//   - target: Texture2D or Texture3D
	//   - width, height, depth: texel dimensions; depth is ignored for Texture2D
	//   - pixels: tightly packed RGBA8 data, or nil
	//
	// Returns:
	//   - uint32: the texture handle
	CreateTexture(target TextureTarget, width, height, depth int32, pixels []byte) uint32

	// TextureSize queries the base level dimensions of a texture.
	//
	// Returns:
	//   - width, height, depth: texel dimensions; depth is 1 for Texture2D
	TextureSize(target TextureTarget, texture uint32) (width, height, depth int32)

	// ReadTexture reads back the base level of a texture as tightly packed RGBA8.
	//
	// Parameters:
	//   - dst: destination buffer of at least width*height*depth*4 bytes
	ReadTexture(target TextureTarget, texture uint32, dst []byte)

	// WriteTexture replaces the base level of a texture with tightly packed RGBA8 data.
	WriteTexture(target TextureTarget, texture uint32, width, height, depth int32, src []byte)

	// DeleteTexture deletes a texture object.
	DeleteTexture(texture uint32)
}
