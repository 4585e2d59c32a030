package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewPointLightDefaults(t *testing.T) {
	l := NewPointLight(3)
	assert.Equal(t, 3, l.Index())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, l.Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
}

func TestNewPointLightOptions(t *testing.T) {
	l := NewPointLight(0, WithPosition(1, 2, 3), WithColor(0.5, 0.25, 0))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0}, l.Color())

	l.SetPosition(-1, 0, 4)
	assert.Equal(t, mgl32.Vec3{-1, 0, 4}, l.Position())
}

func TestNewPointLightIndexBounds(t *testing.T) {
	assert.NotPanics(t, func() { NewPointLight(MaxPointLights - 1) })
	assert.Panics(t, func() { NewPointLight(MaxPointLights) })
	assert.Panics(t, func() { NewPointLight(-1) })
}
