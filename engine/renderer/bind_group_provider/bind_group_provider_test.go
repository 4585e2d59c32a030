package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderStartsDirty(t *testing.T) {
	p := NewBindGroupProvider("blur")
	assert.Equal(t, "blur", p.Label())
	assert.True(t, p.Dirty())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Zero(t, p.Bindings())
}

func TestSetBindGroupClearsDirty(t *testing.T) {
	p := NewBindGroupProvider("blur")
	p.SetBindGroup(nil)
	assert.False(t, p.Dirty())

	p.SetBuffer(0, nil)
	assert.True(t, p.Dirty())
	assert.Equal(t, 1, p.Bindings())

	p.SetBindGroup(nil)
	p.SetTexture(1, nil, nil)
	assert.True(t, p.Dirty())
	assert.Equal(t, 2, p.Bindings())
}

func TestSetTextureReplacesBuffer(t *testing.T) {
	p := NewBindGroupProvider("blur")
	p.SetBuffer(3, nil)
	p.SetTexture(3, nil, nil)
	assert.Equal(t, 1, p.Bindings())
	assert.Nil(t, p.Buffer(3))
	assert.Nil(t, p.Texture(3))
	assert.Nil(t, p.TextureView(3))
}

func TestReleaseEmptiesProvider(t *testing.T) {
	p := NewBindGroupProvider("blur")
	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetBindGroup(nil)

	p.Release()
	assert.Zero(t, p.Bindings())
	assert.True(t, p.Dirty())
}
