package material

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindDispatchesOneWritePerKind(t *testing.T) {
	tests := []struct {
		name  string
		param ShaderParameter
		write string
		value any
	}{
		{name: "mat4", param: Mat4(mgl32.Ident4()), write: "UniformMatrix4", value: mgl32.Ident4()},
		{name: "vec4", param: Vec4(mgl32.Vec4{1, 2, 3, 4}), write: "Uniform4", value: mgl32.Vec4{1, 2, 3, 4}},
		{name: "vec3", param: Vec3(mgl32.Vec3{1, 2, 3}), write: "Uniform3", value: mgl32.Vec3{1, 2, 3}},
		{name: "vec2", param: Vec2(mgl32.Vec2{1, 2}), write: "Uniform2", value: mgl32.Vec2{1, 2}},
		{name: "float", param: Float(0.5), write: "Uniform1f", value: float32(0.5)},
		{name: "int", param: Int(-3), write: "Uniform1i", value: int32(-3)},
		{name: "uint", param: Uint(7), write: "Uniform1ui", value: uint32(7)},
		{name: "bool true", param: Bool(true), write: "Uniform1i", value: int32(1)},
		{name: "bool false", param: Bool(false), write: "Uniform1i", value: int32(0)},
		{name: "sampler2D", param: Sampler2D(fakeTexture(9)), write: "Uniform1i", value: int32(0)},
		{name: "sampler3D", param: Sampler3D(fakeTexture(9)), write: "Uniform1i", value: int32(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, m := newTestMaterial(t, "u")
			s := NewBinder(rec).Begin(m)
			defer s.Close()
			rec.Reset()

			s.Bind(tt.param, "u")

			writes := writesOf(rec)
			require.Len(t, writes, 1)
			assert.Equal(t, tt.write, writes[0].Name)
			assert.Equal(t, []any{int32(0), tt.value}, writes[0].Args)
		})
	}
}

func TestBindSamplerTargets(t *testing.T) {
	rec, m := newTestMaterial(t, "albedo", "volume")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	s.Bind(Sampler2D(fakeTexture(11)), "albedo")
	s.Bind(Sampler3D(fakeTexture(12)), "volume")

	binds := rec.CallsNamed("BindTexture")
	require.Len(t, binds, 2)
	assert.Equal(t, []any{graphics.Texture2D, uint32(11)}, binds[0].Args)
	assert.Equal(t, []any{graphics.Texture3D, uint32(12)}, binds[1].Args)

	units := rec.CallsNamed("ActiveTexture")
	require.Len(t, units, 2)
	assert.Equal(t, int32(0), units[0].Args[0])
	assert.Equal(t, int32(1), units[1].Args[0])
}

func TestBindPointLightWritesBothMembers(t *testing.T) {
	rec, m := newTestMaterial(t, "pointLights[2].position", "pointLights[2].color")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	l := light.NewPointLight(2, light.WithPosition(1, 2, 3), light.WithColor(1, 0, 0))
	s.Bind(PointLight(l), "pointLights[2]")

	writes := writesOf(rec)
	require.Len(t, writes, 2)
	assert.Equal(t, []any{int32(0), mgl32.Vec3{1, 2, 3}}, writes[0].Args)
	assert.Equal(t, []any{int32(1), mgl32.Vec3{1, 0, 0}}, writes[1].Args)
	assert.Equal(t, int32(0), s.TextureUnit())
}

func TestBindPointLightMissingPositionSkipsColor(t *testing.T) {
	logs := captureLogs(t)
	rec, m := newTestMaterial(t, "pointLights[0].color")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	s.BindPointLight(PointLightsUniform, light.NewPointLight(0))

	assert.Empty(t, writesOf(rec))
	assert.Equal(t, []string{"pointLights[0].position"}, lookupsOf(rec))
	assert.Contains(t, logs.String(), "parameter=pointLights[0].position")
}

func TestBindPointLightCustomArray(t *testing.T) {
	rec, m := newTestMaterial(t, "fill[1].position", "fill[1].color")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	s.Bind(PointLightIn("fill", light.NewPointLight(1)), "key")

	assert.Equal(t, []string{"fill[1].position", "fill[1].color"}, lookupsOf(rec))
	assert.Len(t, writesOf(rec), 2)
}

func TestBindSamplerAdvancesCounterOnMiss(t *testing.T) {
	rec, m := newTestMaterial(t)
	s := NewBinder(rec).Begin(m)
	defer s.Close()

	loc := s.BindSampler("undeclared", fakeTexture(1), graphics.Texture2D)
	assert.Equal(t, graphics.NotFound, loc)
	assert.Equal(t, int32(1), s.TextureUnit())
	assert.Equal(t, 1, rec.Count("BindTexture"))
	assert.Empty(t, writesOf(rec))
}

func TestNonSamplerBindKeepsCounter(t *testing.T) {
	rec, m := newTestMaterial(t, "a", "b")
	s := NewBinder(rec).Begin(m)
	defer s.Close()

	s.Bind(Sampler2D(fakeTexture(1)), "a")
	before := s.TextureUnit()
	s.Bind(Float(1), "b")
	s.Bind(Mat4(mgl32.Ident4()), "missing")
	s.Bind(PointLight(light.NewPointLight(0)), "light")
	assert.Equal(t, before, s.TextureUnit())
	assert.Equal(t, 1, rec.Count("ActiveTexture"))
}

func TestUploadAssignsUnitsInGroupOrder(t *testing.T) {
	rec, m := newTestMaterial(t, "tex0", "M", "tex1", "alpha", "tex2")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	g := NewParameterGroup().
		Set("tex0", Sampler2D(fakeTexture(10))).
		Set("M", Mat4(mgl32.Ident4())).
		Set("tex1", Sampler3D(fakeTexture(11))).
		Set("alpha", Float(0.25)).
		Set("tex2", Sampler2D(fakeTexture(12)))
	s.Upload(g)

	assert.Equal(t, int32(0), s.TextureUnit())

	var units []int32
	for _, c := range rec.CallsNamed("ActiveTexture") {
		units = append(units, c.Args[0].(int32))
	}
	assert.Equal(t, []int32{0, 1, 2}, units)

	var textures []uint32
	for _, c := range rec.CallsNamed("BindTexture") {
		textures = append(textures, c.Args[1].(uint32))
	}
	assert.Equal(t, []uint32{10, 11, 12}, textures)

	var samplerValues []any
	for _, c := range rec.CallsNamed("Uniform1i") {
		samplerValues = append(samplerValues, c.Args[1])
	}
	assert.Equal(t, []any{int32(0), int32(1), int32(2)}, samplerValues)
}

func TestUploadRestartsFromUnitZero(t *testing.T) {
	rec, m := newTestMaterial(t, "t")
	s := NewBinder(rec).Begin(m)
	defer s.Close()

	s.BindSampler("t", fakeTexture(1), graphics.Texture2D)
	s.BindSampler("t", fakeTexture(2), graphics.Texture2D)
	require.Equal(t, int32(2), s.TextureUnit())
	rec.Reset()

	s.Upload(NewParameterGroup().Set("t", Sampler2D(fakeTexture(3))))
	assert.Equal(t, int32(0), rec.CallsNamed("ActiveTexture")[0].Args[0])
	assert.Equal(t, int32(0), s.TextureUnit())

	s.Upload(NewParameterGroup().Set("t", Sampler2D(fakeTexture(4))))
	assert.Equal(t, int32(0), rec.CallsNamed("ActiveTexture")[1].Args[0])
}

func TestUnresolvedNameIsIsolated(t *testing.T) {
	logs := captureLogs(t)
	rec, m := newTestMaterial(t, "first", "third")
	s := NewBinder(rec).Begin(m)
	defer s.Close()
	rec.Reset()

	g := NewParameterGroup().
		Set("first", Float(1)).
		Set("second", Vec3(mgl32.Vec3{1, 1, 1})).
		Set("third", Int(3))
	s.Upload(g)

	writes := writesOf(rec)
	require.Len(t, writes, 2)
	assert.Equal(t, "Uniform1f", writes[0].Name)
	assert.Equal(t, []any{int32(1), int32(3)}, writes[1].Args)

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, "uniform not found"))
	assert.Contains(t, out, "material=test")
	assert.Contains(t, out, "parameter=second")
}

func TestTextureUnitOverflowPanics(t *testing.T) {
	rec, m := newTestMaterial(t)
	rec.MaxTextureUnits = 32
	b := NewBinder(rec)
	s := b.Begin(m)
	defer s.Close()

	g := NewParameterGroup()
	for i := 0; i < 32; i++ {
		g.Set(fmt.Sprintf("t%d", i), Sampler2D(fakeTexture(i+1)))
	}
	require.NotPanics(t, func() { s.Upload(g) })

	g.Set("t32", Sampler2D(fakeTexture(99)))
	assert.PanicsWithValue(t,
		`material: texture unit 32 exceeds the platform limit of 32 for "test"`,
		func() { s.Upload(g) })
}

func TestBinderQueriesUnitLimitOnce(t *testing.T) {
	rec, m := newTestMaterial(t, "t")
	rec.MaxTextureUnits = 2
	b := NewBinder(rec)
	rec.MaxTextureUnits = 64

	assert.Equal(t, int32(2), b.MaxTextureUnits())
	b.With(m, func(s *Session) {
		s.BindSampler("t", fakeTexture(1), graphics.Texture2D)
		s.BindSampler("t", fakeTexture(1), graphics.Texture2D)
		assert.Panics(t, func() { s.BindSampler("t", fakeTexture(1), graphics.Texture2D) })
	})
	assert.Equal(t, 1, rec.Count("MaxCombinedTextureImageUnits"))
}

func TestBindPanicsOnProgrammingErrors(t *testing.T) {
	rec, m := newTestMaterial(t, "u")
	s := NewBinder(rec).Begin(m)
	defer s.Close()

	assert.Panics(t, func() { s.Bind(nil, "u") })
	assert.Panics(t, func() { s.Bind(Sampler2D(nil), "u") })
	assert.Panics(t, func() { s.Bind(PointLightValue{Array: PointLightsUniform}, "u") })
	assert.Equal(t, ParameterTypeNone, TypeOf(nil))
}

func TestBindChecksErrorsAroundWrites(t *testing.T) {
	logs := captureLogs(t)
	rec, m := newTestMaterial(t, "u")
	s := NewBinder(rec).Begin(m)
	defer s.Close()

	rec.Errors = []uint32{graphics.ErrorInvalidOperation}
	s.Bind(Float(1), "u")

	out := logs.String()
	assert.Contains(t, out, "GL_INVALID_OPERATION")
	assert.Contains(t, out, `op="before bind u"`)
	assert.Len(t, writesOf(rec), 1)
}

func TestSessionLifecycle(t *testing.T) {
	rec, m := newTestMaterial(t)
	b := NewBinder(rec)

	s := b.Begin(m)
	assert.True(t, b.Active())
	assert.Equal(t, m.Program().Handle(), rec.CurrentProgram)
	assert.Panics(t, func() { b.Begin(m) })

	s.Close()
	s.Close()
	assert.False(t, b.Active())
	assert.Equal(t, uint32(0), rec.CurrentProgram)
	assert.Equal(t, 2, rec.Count("UseProgram"))
	assert.Panics(t, func() { s.Bind(Float(1), "u") })
	assert.Panics(t, func() { s.Upload(NewParameterGroup()) })

	assert.NotPanics(t, func() { b.Begin(m).Close() })
}

func TestWithClosesOnPanic(t *testing.T) {
	rec, m := newTestMaterial(t)
	b := NewBinder(rec)

	assert.Panics(t, func() {
		b.With(m, func(*Session) { panic("boom") })
	})
	assert.False(t, b.Active())
	assert.Equal(t, uint32(0), rec.CurrentProgram)
}

func TestBinderStats(t *testing.T) {
	rec, m := newTestMaterial(t, "a", "t")
	b := NewBinder(rec)
	b.With(m, func(s *Session) {
		s.Upload(NewParameterGroup().
			Set("a", Float(1)).
			Set("t", Sampler2D(fakeTexture(1))).
			Set("missing", Int(1)))
	})

	assert.Equal(t, BindStats{Sessions: 1, Uniforms: 2, Samplers: 1, Misses: 1}, b.Stats())
	b.ResetStats()
	assert.Equal(t, BindStats{}, b.Stats())
}
