package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInjectsBlocks(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("#version 410 core\n//@oxy:include camera\n//@oxy:include model\nvoid main() {}")
	require.NoError(t, err)

	assert.Contains(t, out, "uniform mat4 P;")
	assert.Contains(t, out, "uniform vec3 cameraPosition;")
	assert.Contains(t, out, "uniform mat4 M;")
	assert.NotContains(t, out, "@oxy:")
	assert.True(t, strings.HasPrefix(out, "#version 410 core\n"))
	assert.Equal(t, []AnnotationArg{AnnotationArgCamera, AnnotationArgModel}, pp.Includes())
}

func TestProcessLightsBlockUsesCapacity(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include lights")
	require.NoError(t, err)

	assert.Contains(t, out, "#define MAX_POINT_LIGHTS 16")
	assert.Contains(t, out, "uniform PointLight pointLights[MAX_POINT_LIGHTS];")
	assert.Contains(t, out, "uniform int numberOfLights;")
}

func TestProcessDeduplicatesIncludes(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include screen\n//@oxy:include screen")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "uniform vec2 screenSize;"))
	assert.Equal(t, []AnnotationArg{AnnotationArgScreen}, pp.Includes())
}

func TestProcessResetsIncludes(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:include camera")
	require.NoError(t, err)
	_, err = pp.Process("void main() {}")
	require.NoError(t, err)

	assert.Empty(t, pp.Includes())
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "unknown block", source: "void f();\n//@oxy:include fog", want: "line 2: unknown uniform block \"fog\""},
		{name: "missing argument", source: "//@oxy:include", want: "line 1: @oxy include annotation requires exactly one argument"},
		{name: "extra argument", source: "//@oxy:include camera model", want: "requires exactly one argument"},
		{name: "empty annotation", source: "//@oxy:", want: "line 1: empty @oxy annotation"},
		{name: "unknown type", source: "//@oxy:group 0 0", want: "unknown @oxy annotation type \"group\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAnnotationIgnoresNonComments(t *testing.T) {
	a, err := parseAnnotation(`const char* s = "@oxy:include camera";`, 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("   // @oxy:include camera", 7)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeInclude, a.Type)
	assert.Equal(t, 7, a.Line)
}
