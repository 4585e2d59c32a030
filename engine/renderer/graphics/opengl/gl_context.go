// Package opengl implements graphics.Context on top of the OpenGL 4.1 core profile through go-gl.
// A context must already be current on the calling thread before New is called.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type glContext struct{}

var _ graphics.Context = &glContext{}

// New loads the GL function pointers for the current context and returns a graphics.Context bound to it.
//
// Returns:
//   - graphics.Context: the OpenGL backed context
//   - error: error if the GL bindings could not be initialized
func New() (graphics.Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	// RGBA8 rows are always 4-byte aligned, but the read/write paths assume tight packing.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	return &glContext{}, nil
}

// Version returns the GL_VERSION string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func stageEnum(stage graphics.ShaderStage) uint32 {
	switch stage {
	case graphics.ShaderStageVertex:
		return gl.VERTEX_SHADER
	case graphics.ShaderStageFragment:
		return gl.FRAGMENT_SHADER
	case graphics.ShaderStageGeometry:
		return gl.GEOMETRY_SHADER
	case graphics.ShaderStageTessControl:
		return gl.TESS_CONTROL_SHADER
	case graphics.ShaderStageTessEvaluation:
		return gl.TESS_EVALUATION_SHADER
	default:
		panic(fmt.Sprintf("opengl: unsupported shader stage %d", stage))
	}
}

func targetEnum(target graphics.TextureTarget) uint32 {
	switch target {
	case graphics.Texture2D:
		return gl.TEXTURE_2D
	case graphics.Texture3D:
		return gl.TEXTURE_3D
	default:
		panic(fmt.Sprintf("opengl: unsupported texture target %d", target))
	}
}

func pixelPointer(pixels []byte) unsafe.Pointer {
	if len(pixels) == 0 {
		return nil
	}
	return unsafe.Pointer(&pixels[0])
}

func (c *glContext) CreateShader(stage graphics.ShaderStage) uint32 {
	return gl.CreateShader(stageEnum(stage))
}

func (c *glContext) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (c *glContext) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (c *glContext) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *glContext) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (c *glContext) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (c *glContext) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (c *glContext) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (c *glContext) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *glContext) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (c *glContext) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (c *glContext) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *glContext) UniformMatrix4(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (c *glContext) Uniform4(location int32, value mgl32.Vec4) {
	gl.Uniform4f(location, value[0], value[1], value[2], value[3])
}

func (c *glContext) Uniform3(location int32, value mgl32.Vec3) {
	gl.Uniform3f(location, value[0], value[1], value[2])
}

func (c *glContext) Uniform2(location int32, value mgl32.Vec2) {
	gl.Uniform2f(location, value[0], value[1])
}

func (c *glContext) Uniform1f(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (c *glContext) Uniform1i(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (c *glContext) Uniform1ui(location int32, value uint32) {
	gl.Uniform1ui(location, value)
}

func (c *glContext) ActiveTexture(unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (c *glContext) BindTexture(target graphics.TextureTarget, texture uint32) {
	gl.BindTexture(targetEnum(target), texture)
}

func (c *glContext) TextureBinding(target graphics.TextureTarget) uint32 {
	pname := uint32(gl.TEXTURE_BINDING_2D)
	if target == graphics.Texture3D {
		pname = gl.TEXTURE_BINDING_3D
	}
	var bound int32
	gl.GetIntegerv(pname, &bound)
	return uint32(bound)
}

func (c *glContext) MaxCombinedTextureImageUnits() int32 {
	var units int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &units)
	return units
}

func (c *glContext) GetError() uint32 {
	return gl.GetError()
}

func (c *glContext) CreateTexture(target graphics.TextureTarget, width, height, depth int32, pixels []byte) uint32 {
	t := targetEnum(target)
	var handle uint32
	gl.GenTextures(1, &handle)
	graphics.WithTextureBound(c, target, handle, func() {
		gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(t, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(t, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		switch target {
		case graphics.Texture3D:
			gl.TexParameteri(t, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
			gl.TexImage3D(t, 0, gl.RGBA8, width, height, depth, 0, gl.RGBA, gl.UNSIGNED_BYTE, pixelPointer(pixels))
		default:
			gl.TexImage2D(t, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, pixelPointer(pixels))
		}
	})
	return handle
}

func (c *glContext) TextureSize(target graphics.TextureTarget, texture uint32) (int32, int32, int32) {
	t := targetEnum(target)
	var width, height, depth int32
	depth = 1
	graphics.WithTextureBound(c, target, texture, func() {
		gl.GetTexLevelParameteriv(t, 0, gl.TEXTURE_WIDTH, &width)
		gl.GetTexLevelParameteriv(t, 0, gl.TEXTURE_HEIGHT, &height)
		if target == graphics.Texture3D {
			gl.GetTexLevelParameteriv(t, 0, gl.TEXTURE_DEPTH, &depth)
		}
	})
	return width, height, depth
}

func (c *glContext) ReadTexture(target graphics.TextureTarget, texture uint32, dst []byte) {
	if len(dst) == 0 {
		return
	}
	t := targetEnum(target)
	graphics.WithTextureBound(c, target, texture, func() {
		gl.GetTexImage(t, 0, gl.RGBA, gl.UNSIGNED_BYTE, pixelPointer(dst))
	})
}

func (c *glContext) WriteTexture(target graphics.TextureTarget, texture uint32, width, height, depth int32, src []byte) {
	if len(src) == 0 {
		return
	}
	t := targetEnum(target)
	graphics.WithTextureBound(c, target, texture, func() {
		switch target {
		case graphics.Texture3D:
			gl.TexSubImage3D(t, 0, 0, 0, 0, width, height, depth, gl.RGBA, gl.UNSIGNED_BYTE, pixelPointer(src))
		default:
			gl.TexSubImage2D(t, 0, 0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, pixelPointer(src))
		}
	})
}

func (c *glContext) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}
