package wgpu_driver

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blurKernel = `
// box blur over a 2D image
@group(0) @binding(0) var<uniform> radius: i32;
@group(0) @binding(1) var source: texture_2d<f32>;
@group(0) @binding(2) var target: texture_storage_2d<rgba8unorm, write>;

/* a helper that is /* nested */ not an entry point */
fn clampCoord(c: vec2<i32>, size: vec2<i32>) -> vec2<i32> {
	return clamp(c, vec2<i32>(0), size - vec2<i32>(1));
}

@compute @workgroup_size(16, 8)
fn blur(@builtin(global_invocation_id) id: vec3<u32>) {
}

@compute
@workgroup_size(64)
fn copy(@builtin(global_invocation_id) id: vec3<u32>) {
}
`

func TestParseKernelSelectsEntryPoint(t *testing.T) {
	sig, err := parseKernel(blurKernel, "blur")
	require.NoError(t, err)
	assert.Equal(t, "blur", sig.entryPoint)
	assert.Equal(t, [3]uint32{16, 8, 1}, sig.workgroupSize)

	sig, err = parseKernel(blurKernel, "copy")
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{64, 1, 1}, sig.workgroupSize)
}

func TestParseKernelMissingEntryPoint(t *testing.T) {
	_, err := parseKernel(blurKernel, "clampCoord")
	assert.ErrorContains(t, err, `no @compute entry point "clampCoord"`)

	_, err = parseKernel(blurKernel, "sharpen")
	assert.Error(t, err)
}

func TestParseKernelArguments(t *testing.T) {
	sig, err := parseKernel(blurKernel, "blur")
	require.NoError(t, err)
	require.Len(t, sig.arguments, 3)
	assert.Equal(t, []int{0, 1, 2}, sig.bindings())

	radius := sig.arguments[0]
	assert.Equal(t, "radius", radius.name)
	assert.Equal(t, argumentScalar, radius.kind)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, radius.entry.Buffer.Type)
	assert.Equal(t, uint64(4), radius.entry.Buffer.MinBindingSize)

	source := sig.arguments[1]
	assert.Equal(t, argumentTexture, source.kind)
	assert.Equal(t, compute.AccessRead, source.access)
	assert.Equal(t, compute.Image2D, source.dimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, source.entry.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, source.entry.Texture.ViewDimension)

	target := sig.arguments[2]
	assert.Equal(t, argumentStorageTexture, target.kind)
	assert.Equal(t, compute.AccessWrite, target.access)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, target.entry.StorageTexture.Format)
	assert.Equal(t, wgpu.StorageTextureAccessWriteOnly, target.entry.StorageTexture.Access)

	for _, arg := range sig.arguments {
		assert.Equal(t, wgpu.ShaderStageCompute, arg.entry.Visibility)
	}
}

func TestLayoutDescriptorIsSortedByBinding(t *testing.T) {
	src := `
@group(0) @binding(4) var b: texture_storage_3d<rgba8unorm, read_write>;
@group(0) @binding(1) var<uniform> a: f32;
@compute @workgroup_size(4, 4, 4) fn main() {}
`
	sig, err := parseKernel(src, "main")
	require.NoError(t, err)

	desc := sig.layoutDescriptor("volume")
	assert.Equal(t, "volume", desc.Label)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, uint32(1), desc.Entries[0].Binding)
	assert.Equal(t, uint32(4), desc.Entries[1].Binding)
	assert.Equal(t, compute.Image3D, sig.arguments[4].dimension)
	assert.Equal(t, compute.AccessReadWrite, sig.arguments[4].access)
	assert.Equal(t, wgpu.TextureViewDimension3D, desc.Entries[1].StorageTexture.ViewDimension)
}

func TestParseKernelRejectsUnbindableArguments(t *testing.T) {
	cases := map[string]string{
		"other group":    `@group(1) @binding(0) var<uniform> a: f32;`,
		"duplicate":      "@group(0) @binding(0) var<uniform> a: f32;\n@group(0) @binding(0) var<uniform> b: u32;",
		"struct uniform": `@group(0) @binding(0) var<uniform> a: Params;`,
		"storage buffer": `@group(0) @binding(0) var<storage, read_write> a: array<f32>;`,
		"sampler":        `@group(0) @binding(0) var s: sampler;`,
		"int texture":    `@group(0) @binding(0) var t: texture_2d<u32>;`,
		"cube texture":   `@group(0) @binding(0) var t: texture_cube<f32>;`,
		"float format":   `@group(0) @binding(0) var t: texture_storage_2d<rgba32float, write>;`,
		"no access":      `@group(0) @binding(0) var t: texture_storage_2d<rgba8unorm>;`,
	}
	for name, decl := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseKernel(decl+"\n@compute @workgroup_size(1) fn main() {}", "main")
			assert.Error(t, err)
		})
	}
}

func TestParseWorkgroupSize(t *testing.T) {
	size, err := parseWorkgroupSize("@compute @workgroup_size(8, 4, 2) ")
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{8, 4, 2}, size)

	size, err = parseWorkgroupSize("@workgroup_size( 32, ) @compute ")
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{32, 1, 1}, size)

	_, err = parseWorkgroupSize("@compute ")
	assert.ErrorContains(t, err, "missing")

	_, err = parseWorkgroupSize("@compute @workgroup_size(TILE) ")
	assert.ErrorContains(t, err, "literals")

	_, err = parseWorkgroupSize("@compute @workgroup_size(0) ")
	assert.Error(t, err)
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n// last"
	assert.Equal(t, "a \nb  c\n", stripComments(src))
}

func TestSplitTypeParams(t *testing.T) {
	base, params := splitTypeParams("texture_storage_2d< rgba8unorm, write >")
	assert.Equal(t, "texture_storage_2d", base)
	assert.Equal(t, "rgba8unorm, write", params)

	base, params = splitTypeParams("sampler")
	assert.Equal(t, "sampler", base)
	assert.Empty(t, params)
}
