package texture

// TextureBuilderOption is a function that configures a texture instance during construction.
type TextureBuilderOption func(*texture)

// WithName is an option builder that sets the name of the texture.
//
// Parameters:
//   - name: the identifier for the texture
//
// Returns:
//   - TextureBuilderOption: a function that applies the name option to a texture
func WithName(name string) TextureBuilderOption {
	return func(t *texture) {
		t.name = name
	}
}
