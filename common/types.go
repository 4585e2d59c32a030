// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// TextureStagingData holds tightly packed RGBA8 pixel data for a texture pending GPU upload.
// 3D images store their slices back to back, slice 0 first.
type TextureStagingData struct {
	// Pixels is the pixel data, 4 bytes per texel, row-major within each slice.
	Pixels []byte
	// Width is the width of the texture in texels.
	Width int32
	// Height is the height of the texture in texels.
	Height int32
	// Depth is the number of slices. 1 for 2D textures.
	Depth int32
}

// Size returns the number of bytes an RGBA8 image with these dimensions occupies.
//
// Returns:
//   - int: width * height * depth * 4
func (d TextureStagingData) Size() int {
	depth := d.Depth
	if depth < 1 {
		depth = 1
	}
	return int(d.Width) * int(d.Height) * int(depth) * 4
}

// ImportedTexture represents encoded image data destined for a GPU texture.
// For embedded textures the Data field contains raw image bytes.
// For external textures the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "albedo", "noise").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw encoded image bytes (PNG/JPEG/BMP).
	Data []byte

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG, JPEG and BMP formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: RGBA8 pixels with Depth set to 1
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return TextureStagingData{}, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  int32(t.Width),
		Height: int32(t.Height),
		Depth:  1,
	}, nil
}
