package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialVertexFragmentLinks(t *testing.T) {
	logs := captureLogs(t)
	rec := graphicstest.NewRecorder()

	m := NewMaterial(rec, vertexStage(), fragmentStage(), WithName("basic"))

	require.NotNil(t, m.Program())
	assert.True(t, m.Program().Linked())
	assert.Equal(t, "basic", m.Name())
	assert.Equal(t, 2, rec.Count("AttachShader"))
	assert.Equal(t, 1, rec.Count("LinkProgram"))
	assert.Zero(t, rec.Count("ProgramInfoLog"))
	assert.Contains(t, logs.String(), "material program linked")
	assert.Contains(t, logs.String(), "material=basic")
}

func TestNewMaterialDefaultName(t *testing.T) {
	m := NewMaterial(graphicstest.NewRecorder(), vertexStage(), fragmentStage())
	assert.Equal(t, "material", m.Name())
}

func TestNewMaterialLinkFailureIsSoft(t *testing.T) {
	logs := captureLogs(t)
	rec := graphicstest.NewRecorder()
	rec.LinkFails = true
	rec.InfoLog = "error: undefined varying"

	var m Material
	require.NotPanics(t, func() {
		m = NewMaterial(rec, vertexStage(), fragmentStage(), WithName("broken"))
	})

	assert.False(t, m.Program().Linked())
	assert.Equal(t, "error: undefined varying", m.Program().InfoLog())
	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "material=broken")
	assert.Contains(t, out, "undefined varying")
}

func TestNewMaterialMissingRequiredStagePanics(t *testing.T) {
	rec := graphicstest.NewRecorder()
	assert.Panics(t, func() { NewMaterial(rec, vertexStage(), nil) })
	assert.Panics(t, func() { NewMaterial(rec, nil, fragmentStage()) })
	assert.Zero(t, rec.Count("LinkProgram"))
}

func TestNewMaterialStageKindMismatchPanics(t *testing.T) {
	rec := graphicstest.NewRecorder()
	assert.Panics(t, func() { NewMaterial(rec, fragmentStage(), fragmentStage()) })
	assert.Panics(t, func() { NewMaterial(rec, vertexStage(), vertexStage()) })

	tessControl := shader.FromHandle("tc", shader.ShaderTypeTessControl, 7)
	assert.Panics(t, func() {
		NewMaterial(rec, vertexStage(), fragmentStage(), WithTessEvaluationShader(tessControl))
	})
	assert.Panics(t, func() {
		NewMaterial(rec, vertexStage(), fragmentStage(), WithGeometryShader(tessControl))
	})
}

func TestNewMaterialAttachesOptionalStagesIndependently(t *testing.T) {
	rec := graphicstest.NewRecorder()
	geom := shader.FromHandle("g", shader.ShaderTypeGeometry, 200)
	tc := shader.FromHandle("tc", shader.ShaderTypeTessControl, 201)
	te := shader.FromHandle("te", shader.ShaderTypeTessEvaluation, 202)

	m := NewMaterial(rec, vertexStage(), fragmentStage(),
		WithGeometryShader(geom),
		WithTessControlShader(tc),
		WithTessEvaluationShader(te),
	)

	var attached []uint32
	for _, c := range rec.CallsNamed("AttachShader") {
		assert.Equal(t, m.Program().Handle(), c.Args[0])
		attached = append(attached, c.Args[1].(uint32))
	}
	assert.ElementsMatch(t, []uint32{100, 101, 200, 201, 202}, attached)
}

func TestMaterialReleaseDeletesOnce(t *testing.T) {
	rec := graphicstest.NewRecorder()
	m := NewMaterial(rec, vertexStage(), fragmentStage())

	m.Release()
	m.Release()

	calls := rec.CallsNamed("DeleteProgram")
	require.Len(t, calls, 1)
	assert.Equal(t, m.Program().Handle(), calls[0].Args[0])
}
