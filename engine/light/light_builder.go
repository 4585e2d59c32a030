package light

// PointLightBuilderOption is a function that configures a PointLight instance during construction.
type PointLightBuilderOption func(*pointLight)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - PointLightBuilderOption: a function that applies the position option to a pointLight
func WithPosition(x, y, z float32) PointLightBuilderOption {
	return func(l *pointLight) {
		l.SetPosition(x, y, z)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - PointLightBuilderOption: a function that applies the color option to a pointLight
func WithColor(r, g, b float32) PointLightBuilderOption {
	return func(l *pointLight) {
		l.SetColor(r, g, b)
	}
}
