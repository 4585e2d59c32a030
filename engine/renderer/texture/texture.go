package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
)

// texture is the implementation of the Texture interface.
type texture struct {
	ctx      graphics.Context
	name     string
	handle   uint32
	target   graphics.TextureTarget
	width    int32
	height   int32
	depth    int32
	released bool
}

// Texture defines the interface for an RGBA8 texture object owned by the engine.
//
// A Texture is the owner of its handle. Sampler parameters and compute images only borrow it,
// so it must outlive every ParameterGroup and compute resource referencing it.
type Texture interface {
	// Name retrieves the texture identifier used in diagnostics.
	//
	// Returns:
	//   - string: the texture name
	Name() string

	// Handle returns the native texture object handle.
	//
	// Returns:
	//   - uint32: the texture handle
	Handle() uint32

	// Target returns the dimensionality the texture binds with.
	//
	// Returns:
	//   - graphics.TextureTarget: Texture2D or Texture3D
	Target() graphics.TextureTarget

	// Size returns the texel dimensions of the texture.
	//
	// Returns:
	//   - width, height, depth: depth is 1 for 2D textures
	Size() (width, height, depth int32)

	// Read downloads the texture contents as tightly packed RGBA8.
	//
	// Returns:
	//   - common.TextureStagingData: the pixels and dimensions
	Read() common.TextureStagingData

	// Write replaces the texture contents. The data dimensions must match the texture.
	//
	// Parameters:
	//   - data: tightly packed RGBA8 pixels
	//
	// Returns:
	//   - error: error if the data does not match the texture size
	Write(data common.TextureStagingData) error

	// Release deletes the texture object. Subsequent calls are no-ops.
	Release()
}

var _ Texture = &texture{}

// NewTexture2D allocates a 2D RGBA8 texture. Nil pixels leave the contents undefined.
//
// Parameters:
//   - ctx: the graphics context owning the texture
//   - width, height: texel dimensions, both positive
//   - pixels: tightly packed RGBA8 data of width*height*4 bytes, or nil
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - Texture: the new texture
func NewTexture2D(ctx graphics.Context, width, height int32, pixels []byte, options ...TextureBuilderOption) Texture {
	return newTexture(ctx, graphics.Texture2D, width, height, 1, pixels, options)
}

// NewTexture3D allocates a 3D RGBA8 texture. Nil pixels leave the contents undefined.
//
// Parameters:
//   - ctx: the graphics context owning the texture
//   - width, height, depth: texel dimensions, all positive
//   - pixels: tightly packed RGBA8 data of width*height*depth*4 bytes, or nil
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - Texture: the new texture
func NewTexture3D(ctx graphics.Context, width, height, depth int32, pixels []byte, options ...TextureBuilderOption) Texture {
	return newTexture(ctx, graphics.Texture3D, width, height, depth, pixels, options)
}

// NewTexture2DFromImage decodes a PNG, JPEG or BMP image and uploads it as a 2D texture.
// The texture name defaults to the image name.
//
// Parameters:
//   - ctx: the graphics context owning the texture
//   - img: the encoded image, embedded or on disk
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - Texture: the new texture
//   - error: error if the image could not be decoded
func NewTexture2DFromImage(ctx graphics.Context, img *common.ImportedTexture, options ...TextureBuilderOption) (Texture, error) {
	data, err := img.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	options = append([]TextureBuilderOption{WithName(img.Name)}, options...)
	return newTexture(ctx, graphics.Texture2D, data.Width, data.Height, 1, data.Pixels, options), nil
}

func newTexture(ctx graphics.Context, target graphics.TextureTarget, width, height, depth int32, pixels []byte, options []TextureBuilderOption) Texture {
	if width <= 0 || height <= 0 || depth <= 0 {
		panic(fmt.Sprintf("texture: invalid %s size %dx%dx%d", target, width, height, depth))
	}
	t := &texture{
		ctx:    ctx,
		target: target,
		width:  width,
		height: height,
		depth:  depth,
	}
	for _, opt := range options {
		opt(t)
	}
	if pixels != nil && len(pixels) != t.byteSize() {
		panic(fmt.Sprintf("texture: %q expects %d bytes of pixel data, got %d", t.name, t.byteSize(), len(pixels)))
	}
	t.handle = ctx.CreateTexture(target, width, height, depth, pixels)
	graphics.CheckError(ctx, "create texture "+t.name)
	return t
}

func (t *texture) byteSize() int {
	return common.TextureStagingData{Width: t.width, Height: t.height, Depth: t.depth}.Size()
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Handle() uint32 {
	return t.handle
}

func (t *texture) Target() graphics.TextureTarget {
	return t.target
}

func (t *texture) Size() (int32, int32, int32) {
	return t.width, t.height, t.depth
}

func (t *texture) Read() common.TextureStagingData {
	data := common.TextureStagingData{
		Pixels: make([]byte, t.byteSize()),
		Width:  t.width,
		Height: t.height,
		Depth:  t.depth,
	}
	t.ctx.ReadTexture(t.target, t.handle, data.Pixels)
	graphics.CheckError(t.ctx, "read texture "+t.name)
	return data
}

func (t *texture) Write(data common.TextureStagingData) error {
	if data.Width != t.width || data.Height != t.height || common.Coalesce(data.Depth, 1) != t.depth {
		return fmt.Errorf("texture %q is %dx%dx%d, got %dx%dx%d", t.name, t.width, t.height, t.depth, data.Width, data.Height, data.Depth)
	}
	if len(data.Pixels) != t.byteSize() {
		return fmt.Errorf("texture %q expects %d bytes of pixel data, got %d", t.name, t.byteSize(), len(data.Pixels))
	}
	t.ctx.WriteTexture(t.target, t.handle, t.width, t.height, t.depth, data.Pixels)
	graphics.CheckError(t.ctx, "write texture "+t.name)
	return nil
}

func (t *texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.ctx.DeleteTexture(t.handle)
}
