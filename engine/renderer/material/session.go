package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
)

// noCopy marks a struct that must not be copied after first use. go vet's copylocks check
// reports copies of any struct containing it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// BindStats counts the work done by a Binder since it was created or last reset.
type BindStats struct {
	// Sessions is the number of sessions opened.
	Sessions int

	// Uniforms is the number of uniform writes issued, sampler unit writes included.
	Uniforms int

	// Samplers is the number of textures bound to units.
	Samplers int

	// Misses is the number of uniform names that did not resolve.
	Misses int
}

// Binder owns the "active program" slot of one graphics context. Every program activation
// goes through a Session opened on the Binder, and at most one Session is open at a time.
//
// A Binder is bound to the thread owning its context and is not safe for concurrent use.
type Binder struct {
	ctx      graphics.Context
	maxUnits int32
	active   *Session
	stats    BindStats
}

// NewBinder creates a Binder for a context, querying its texture unit limit once.
//
// Parameters:
//   - ctx: the graphics context whose program slot the binder owns
//
// Returns:
//   - *Binder: the binder
func NewBinder(ctx graphics.Context) *Binder {
	if ctx == nil {
		panic("material: binder requires a graphics context")
	}
	return &Binder{
		ctx:      ctx,
		maxUnits: ctx.MaxCombinedTextureImageUnits(),
	}
}

// MaxTextureUnits returns the platform limit of texture units usable by one session.
func (b *Binder) MaxTextureUnits() int32 {
	return b.maxUnits
}

// Active reports whether a session is currently open.
func (b *Binder) Active() bool {
	return b.active != nil
}

// Stats returns the counters accumulated since the last ResetStats.
func (b *Binder) Stats() BindStats {
	return b.stats
}

// ResetStats zeroes the binder counters.
func (b *Binder) ResetStats() {
	b.stats = BindStats{}
}

// Begin activates a material's program and opens a Session on it. Opening a session while
// another one is open is a programming error and panics. The caller must Close the session.
//
// Parameters:
//   - m: the material to bind against
//
// Returns:
//   - *Session: the open session, with its texture-unit counter at 0
func (b *Binder) Begin(m Material) *Session {
	if m == nil {
		panic("material: cannot begin a session without a material")
	}
	if b.active != nil {
		panic(fmt.Sprintf("material: session for %q opened while session for %q is still open", m.Name(), b.active.material.Name()))
	}
	s := &Session{binder: b, material: m}
	b.active = s
	b.stats.Sessions++
	b.ctx.UseProgram(m.Program().Handle())
	graphics.CheckError(b.ctx, "use program "+m.Name())
	return s
}

// With opens a session on m, runs fn, and closes the session on every exit path, panics included.
//
// Parameters:
//   - m: the material to bind against
//   - fn: the body receiving the open session
func (b *Binder) With(m Material, fn func(s *Session)) {
	s := b.Begin(m)
	defer s.Close()
	fn(s)
}

// Session is a scoped activation of one material's program. It dispatches parameters to the
// matching uniform writes and hands out texture units from a running counter.
type Session struct {
	noCopy noCopy

	binder   *Binder
	material Material
	unit     int32
	closed   bool
}

// Material returns the material the session is bound against.
func (s *Session) Material() Material {
	return s.material
}

// TextureUnit returns the unit the next sampler will be assigned.
func (s *Session) TextureUnit() int32 {
	return s.unit
}

func (s *Session) ensureOpen() {
	if s.closed {
		panic(fmt.Sprintf("material: session for %q used after close", s.material.Name()))
	}
}

func (s *Session) ctx() graphics.Context {
	return s.binder.ctx
}

// location resolves a uniform name against the session program. Unresolved names are logged
// and reported as graphics.NotFound.
func (s *Session) location(name string) int32 {
	loc := s.ctx().GetUniformLocation(s.material.Program().Handle(), name)
	if loc == graphics.NotFound {
		s.binder.stats.Misses++
		common.Logger().Warn("uniform not found", "material", s.material.Name(), "parameter", name)
	}
	return loc
}

// Bind writes one parameter to the uniform of the given name. Unresolved names are logged
// and skipped. A nil parameter is a programming error and panics.
//
// Parameters:
//   - p: the parameter to write
//   - name: the uniform name
func (s *Session) Bind(p ShaderParameter, name string) {
	s.ensureOpen()
	if p == nil {
		panic(fmt.Sprintf("material: parameter %q of %q has no value", name, s.material.Name()))
	}
	ctx := s.ctx()
	graphics.CheckError(ctx, "before bind "+name)

	switch v := p.(type) {
	case Mat4Value:
		s.write(name, func(loc int32) { ctx.UniformMatrix4(loc, v.Value) })
	case Vec4Value:
		s.write(name, func(loc int32) { ctx.Uniform4(loc, v.Value) })
	case Vec3Value:
		s.write(name, func(loc int32) { ctx.Uniform3(loc, v.Value) })
	case Vec2Value:
		s.write(name, func(loc int32) { ctx.Uniform2(loc, v.Value) })
	case FloatValue:
		s.write(name, func(loc int32) { ctx.Uniform1f(loc, v.Value) })
	case IntValue:
		s.write(name, func(loc int32) { ctx.Uniform1i(loc, v.Value) })
	case UintValue:
		s.write(name, func(loc int32) { ctx.Uniform1ui(loc, v.Value) })
	case BoolValue:
		var i int32
		if v.Value {
			i = 1
		}
		s.write(name, func(loc int32) { ctx.Uniform1i(loc, i) })
	case Sampler2DValue:
		s.BindSampler(name, v.Texture, graphics.Texture2D)
	case Sampler3DValue:
		s.BindSampler(name, v.Texture, graphics.Texture3D)
	case PointLightValue:
		s.BindPointLight(v.Array, v.Light)
	default:
		panic(fmt.Sprintf("material: parameter %q has unsupported type %s", name, p.Type()))
	}

	graphics.CheckError(ctx, "bind "+name)
}

func (s *Session) write(name string, fn func(loc int32)) {
	loc := s.location(name)
	if loc == graphics.NotFound {
		return
	}
	fn(loc)
	s.binder.stats.Uniforms++
}

// BindSampler assigns a texture to the next texture unit and points the sampler uniform at it.
// The unit counter advances whether or not the name resolves, so later samplers keep their units.
// Exceeding the platform unit limit is a programming error and panics.
//
// Parameters:
//   - name: the sampler uniform name
//   - tex: the texture to bind
//   - target: Texture2D or Texture3D
//
// Returns:
//   - int32: the resolved uniform location, or graphics.NotFound
func (s *Session) BindSampler(name string, tex Texture, target graphics.TextureTarget) int32 {
	s.ensureOpen()
	if tex == nil {
		panic(fmt.Sprintf("material: sampler %q of %q has no texture", name, s.material.Name()))
	}
	unit := s.unit
	if unit >= s.binder.maxUnits {
		panic(fmt.Sprintf("material: texture unit %d exceeds the platform limit of %d for %q", unit, s.binder.maxUnits, s.material.Name()))
	}
	ctx := s.ctx()
	ctx.ActiveTexture(unit)
	ctx.BindTexture(target, tex.Handle())
	s.binder.stats.Samplers++

	loc := s.location(name)
	if loc != graphics.NotFound {
		ctx.Uniform1i(loc, unit)
		s.binder.stats.Uniforms++
	}
	s.unit++
	return loc
}

// BindPointLight writes a light's position and color into its slot of a uniform struct array.
// When the position member does not resolve, the color member is not looked up at all.
//
// Parameters:
//   - base: the array base name; empty selects PointLightsUniform
//   - l: the light to bind
func (s *Session) BindPointLight(base string, l light.PointLight) {
	s.ensureOpen()
	if l == nil {
		panic(fmt.Sprintf("material: point light in %q of %q is nil", base, s.material.Name()))
	}
	base = common.Coalesce(base, PointLightsUniform)
	ctx := s.ctx()

	posLoc := s.location(PointLightPositionName(base, l.Index()))
	if posLoc == graphics.NotFound {
		return
	}
	ctx.Uniform3(posLoc, l.Position())
	s.binder.stats.Uniforms++

	colorLoc := s.location(PointLightColorName(base, l.Index()))
	if colorLoc == graphics.NotFound {
		return
	}
	ctx.Uniform3(colorLoc, l.Color())
	s.binder.stats.Uniforms++
}

// Upload binds every parameter of a group in iteration order. The texture-unit counter is
// reset to 0 before the first entry and again after the last, so each upload assigns units
// starting from 0.
//
// Parameters:
//   - g: the parameters to bind
func (s *Session) Upload(g *ParameterGroup) {
	s.ensureOpen()
	s.unit = 0
	if g != nil {
		g.Each(func(name string, p ShaderParameter) {
			s.Bind(p, name)
		})
	}
	s.unit = 0
}

// Close deactivates the program and frees the binder's program slot. Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.unit = 0
	s.ctx().UseProgram(0)
	if s.binder.active == s {
		s.binder.active = nil
	}
}
