package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
}

// Camera defines the interface for a perspective camera.
// The camera produces the standard P, V and cameraPosition uniforms for the material binder.
// All methods are safe for concurrent use.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// ViewMatrix returns the current world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix, column-major
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix, column-major
	ProjectionMatrix() mgl32.Mat4

	// SetPosition moves the eye.
	//
	// Parameters:
	//   - x, y, z: eye position components
	SetPosition(x, y, z float32)

	// SetTarget changes the look-at point.
	//
	// Parameters:
	//   - x, y, z: target components
	SetTarget(x, y, z float32)

	// SetAspect updates the aspect ratio, typically after a framebuffer resize.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// WriteParameters stores P, V and cameraPosition into a parameter group.
	//
	// Parameters:
	//   - g: the group to write into
	WriteParameters(g *material.ParameterGroup)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective camera at (0, 0, 3) looking at the origin,
// with a 45 degree field of view and any provided options applied.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 0, 3},
		target:   mgl32.Vec3{0, 0, 0},
		up:       mgl32.Vec3{0, 1, 0},
		fov:      45.0 * (math.Pi / 180.0), // radians
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = mgl32.Vec3{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = mgl32.Vec3{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) WriteParameters(g *material.ParameterGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g.Set(material.ProjectionUniform, material.Mat4(c.projectionMatrix))
	g.Set(material.ViewUniform, material.Mat4(c.viewMatrix))
	g.Set(material.CameraPositionUniform, material.Vec3(c.position))
}

// updateMatrices recalculates the view and projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.position, c.target, c.up)
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}
