// Package graphicstest provides an in-memory graphics.Context that records every call it receives.
// It is meant for tests of code that binds shader state and has no access to a real GPU.
package graphicstest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded invocation of a Context method.
type Call struct {
	// Name is the Context method name, e.g. "Uniform3".
	Name string
	// Args are the arguments in declaration order.
	Args []any
}

// String renders the call for assertion failure messages.
func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

type texture struct {
	target graphics.TextureTarget
	width  int32
	height int32
	depth  int32
	pixels []byte
}

// Recorder is a graphics.Context that records calls in order and simulates the small amount of
// driver state the engine depends on: uniform locations, link/compile status, the unit limit,
// queued error flags and texture storage.
type Recorder struct {
	// Calls is the ordered call log.
	Calls []Call

	// Uniforms maps declared uniform names to locations. Names absent from the map resolve to NotFound.
	Uniforms map[string]int32

	// MaxTextureUnits is returned by MaxCombinedTextureImageUnits.
	MaxTextureUnits int32

	// LinkFails makes ProgramLinked report false.
	LinkFails bool

	// CompileFails makes ShaderCompiled report false.
	CompileFails bool

	// InfoLog is returned by both ShaderInfoLog and ProgramInfoLog.
	InfoLog string

	// Errors is the queue of error codes GetError pops from.
	Errors []uint32

	// CurrentProgram is the program last installed with UseProgram.
	CurrentProgram uint32

	// ActiveUnit is the unit last selected with ActiveTexture.
	ActiveUnit int32

	nextHandle uint32
	textures   map[uint32]*texture
	bindings   map[int32]map[graphics.TextureTarget]uint32
}

var _ graphics.Context = &Recorder{}

// NewRecorder creates a Recorder declaring the given uniform names with sequential locations starting at 0.
//
// Parameters:
//   - uniforms: the uniform names the simulated program declares
//
// Returns:
//   - *Recorder: the recorder, with MaxTextureUnits set to 32
func NewRecorder(uniforms ...string) *Recorder {
	r := &Recorder{
		Uniforms:        make(map[string]int32, len(uniforms)),
		MaxTextureUnits: 32,
		textures:        make(map[uint32]*texture),
	}
	for i, name := range uniforms {
		r.Uniforms[name] = int32(i)
	}
	return r
}

// Declare adds a uniform name at the next free location and returns that location.
func (r *Recorder) Declare(name string) int32 {
	if r.Uniforms == nil {
		r.Uniforms = make(map[string]int32)
	}
	if loc, ok := r.Uniforms[name]; ok {
		return loc
	}
	loc := int32(len(r.Uniforms))
	r.Uniforms[name] = loc
	return loc
}

// Reset clears the call log without touching the simulated state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Names returns the method names of the call log in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// CallsNamed returns every recorded call with the given method name, in order.
func (r *Recorder) CallsNamed(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times the given method was called.
func (r *Recorder) Count(name string) int {
	return len(r.CallsNamed(name))
}

// TextureCount returns the number of live texture objects.
func (r *Recorder) TextureCount() int {
	return len(r.textures)
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

func (r *Recorder) CreateShader(stage graphics.ShaderStage) uint32 {
	h := r.handle()
	r.record("CreateShader", stage, h)
	return h
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader, source)
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
}

func (r *Recorder) ShaderCompiled(shader uint32) bool {
	r.record("ShaderCompiled", shader)
	return !r.CompileFails
}

func (r *Recorder) ShaderInfoLog(shader uint32) string {
	r.record("ShaderInfoLog", shader)
	return r.InfoLog
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
}

func (r *Recorder) CreateProgram() uint32 {
	h := r.handle()
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
}

func (r *Recorder) ProgramLinked(program uint32) bool {
	r.record("ProgramLinked", program)
	return !r.LinkFails
}

func (r *Recorder) ProgramInfoLog(program uint32) string {
	r.record("ProgramInfoLog", program)
	return r.InfoLog
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.CurrentProgram = program
	r.record("UseProgram", program)
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	loc, ok := r.Uniforms[name]
	if !ok {
		loc = graphics.NotFound
	}
	r.record("GetUniformLocation", program, name)
	return loc
}

func (r *Recorder) UniformMatrix4(location int32, value mgl32.Mat4) {
	r.record("UniformMatrix4", location, value)
}

func (r *Recorder) Uniform4(location int32, value mgl32.Vec4) {
	r.record("Uniform4", location, value)
}

func (r *Recorder) Uniform3(location int32, value mgl32.Vec3) {
	r.record("Uniform3", location, value)
}

func (r *Recorder) Uniform2(location int32, value mgl32.Vec2) {
	r.record("Uniform2", location, value)
}

func (r *Recorder) Uniform1f(location int32, value float32) {
	r.record("Uniform1f", location, value)
}

func (r *Recorder) Uniform1i(location int32, value int32) {
	r.record("Uniform1i", location, value)
}

func (r *Recorder) Uniform1ui(location int32, value uint32) {
	r.record("Uniform1ui", location, value)
}

func (r *Recorder) ActiveTexture(unit int32) {
	r.ActiveUnit = unit
	r.record("ActiveTexture", unit)
}

func (r *Recorder) BindTexture(target graphics.TextureTarget, texture uint32) {
	r.record("BindTexture", target, texture)
	if r.bindings == nil {
		r.bindings = make(map[int32]map[graphics.TextureTarget]uint32)
	}
	if r.bindings[r.ActiveUnit] == nil {
		r.bindings[r.ActiveUnit] = make(map[graphics.TextureTarget]uint32)
	}
	r.bindings[r.ActiveUnit][target] = texture
}

func (r *Recorder) TextureBinding(target graphics.TextureTarget) uint32 {
	r.record("TextureBinding", target)
	return r.Bound(r.ActiveUnit, target)
}

// Bound returns the texture bound to target on a unit, or 0 when nothing is bound.
func (r *Recorder) Bound(unit int32, target graphics.TextureTarget) uint32 {
	return r.bindings[unit][target]
}

func (r *Recorder) MaxCombinedTextureImageUnits() int32 {
	r.record("MaxCombinedTextureImageUnits")
	return r.MaxTextureUnits
}

func (r *Recorder) GetError() uint32 {
	if len(r.Errors) == 0 {
		return graphics.ErrorNone
	}
	code := r.Errors[0]
	r.Errors = r.Errors[1:]
	return code
}

func (r *Recorder) CreateTexture(target graphics.TextureTarget, width, height, depth int32, pixels []byte) uint32 {
	h := r.handle()
	if target == graphics.Texture2D {
		depth = 1
	}
	tex := &texture{target: target, width: width, height: height, depth: depth}
	tex.pixels = make([]byte, int(width)*int(height)*int(depth)*4)
	copy(tex.pixels, pixels)
	if r.textures == nil {
		r.textures = make(map[uint32]*texture)
	}
	r.textures[h] = tex
	r.record("CreateTexture", target, width, height, depth, h)
	return h
}

func (r *Recorder) TextureSize(target graphics.TextureTarget, handle uint32) (int32, int32, int32) {
	r.record("TextureSize", target, handle)
	tex, ok := r.textures[handle]
	if !ok {
		return 0, 0, 0
	}
	return tex.width, tex.height, tex.depth
}

func (r *Recorder) ReadTexture(target graphics.TextureTarget, handle uint32, dst []byte) {
	r.record("ReadTexture", target, handle)
	if tex, ok := r.textures[handle]; ok {
		copy(dst, tex.pixels)
	}
}

func (r *Recorder) WriteTexture(target graphics.TextureTarget, handle uint32, width, height, depth int32, src []byte) {
	r.record("WriteTexture", target, handle, width, height, depth)
	if tex, ok := r.textures[handle]; ok {
		copy(tex.pixels, src)
	}
}

func (r *Recorder) DeleteTexture(handle uint32) {
	r.record("DeleteTexture", handle)
	delete(r.textures, handle)
}

// Pixels returns a copy of the stored contents of a texture, or nil if the handle is unknown.
func (r *Recorder) Pixels(handle uint32) []byte {
	tex, ok := r.textures[handle]
	if !ok {
		return nil
	}
	out := make([]byte, len(tex.pixels))
	copy(out, tex.pixels)
	return out
}
