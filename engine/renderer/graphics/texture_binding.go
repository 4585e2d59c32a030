package graphics

// WithTextureBound binds texture on the active unit for the duration of fn, then restores
// whatever was bound to target before.
//
// Parameters:
//   - ctx: the graphics context
//   - target: the texture dimensionality
//   - texture: the texture to bind while fn runs
//   - fn: the work that needs texture bound
func WithTextureBound(ctx Context, target TextureTarget, texture uint32, fn func()) {
	prev := ctx.TextureBinding(target)
	ctx.BindTexture(target, texture)
	defer ctx.BindTexture(target, prev)
	fn()
}
