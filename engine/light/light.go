package light

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the capacity of the pointLights uniform array declared by the "lights" shader block.
const MaxPointLights = 16

// pointLight is the implementation of the PointLight interface.
type pointLight struct {
	index    int
	position mgl32.Vec3
	color    mgl32.Vec3
}

// PointLight defines the interface for a point light bound into a shader's indexed light array.
//
// A point light occupies one fixed slot of the pointLights array; its index is assigned at
// construction and never changes, so the uniform names it binds to are stable for its lifetime.
// Materials only ever borrow a light through a parameter group; the caller keeps ownership.
type PointLight interface {
	// Index returns the slot of the light within the shader's point-light array.
	//
	// Returns:
	//   - int: the array index in [0, MaxPointLights)
	Index() int

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)
}

var _ PointLight = &pointLight{}

// NewPointLight creates a new white PointLight at the origin occupying the given array slot,
// with any provided options applied.
//
// Parameters:
//   - index: the slot within the point-light array, in [0, MaxPointLights)
//   - opts: variadic list of PointLightBuilderOption functions to configure the light
//
// Returns:
//   - PointLight: a new PointLight instance
func NewPointLight(index int, opts ...PointLightBuilderOption) PointLight {
	if index < 0 || index >= MaxPointLights {
		panic(fmt.Sprintf("light: point light index %d outside [0, %d)", index, MaxPointLights))
	}
	l := &pointLight{
		index:    index,
		position: mgl32.Vec3{0, 0, 0},
		color:    mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *pointLight) Index() int {
	return l.index
}

func (l *pointLight) Position() mgl32.Vec3 {
	return l.position
}

func (l *pointLight) Color() mgl32.Vec3 {
	return l.color
}

func (l *pointLight) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *pointLight) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}
