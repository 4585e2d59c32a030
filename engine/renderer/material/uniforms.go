package material

import "fmt"

// Standard uniform names written by the engine. Materials that want to receive a standard
// value must declare a uniform with exactly the matching name.
const (
	ProjectionUniform     = "P"
	ViewUniform           = "V"
	CameraPositionUniform = "cameraPosition"
	NumberOfLightsUniform = "numberOfLights"
	ModelUniform          = "M"
	ScreenSizeUniform     = "screenSize"
	StateUniform          = "state"

	// PointLightsUniform is the base name of the indexed point-light struct array.
	PointLightsUniform = "pointLights"
)

// PointLightPositionName returns the uniform name of the position member of a light array slot.
//
// Parameters:
//   - base: the array base name, e.g. "pointLights"
//   - index: the slot index
//
// Returns:
//   - string: "<base>[<index>].position"
func PointLightPositionName(base string, index int) string {
	return fmt.Sprintf("%s[%d].position", base, index)
}

// PointLightColorName returns the uniform name of the color member of a light array slot.
//
// Parameters:
//   - base: the array base name, e.g. "pointLights"
//   - index: the slot index
//
// Returns:
//   - string: "<base>[<index>].color"
func PointLightColorName(base string, index int) string {
	return fmt.Sprintf("%s[%d].color", base, index)
}
