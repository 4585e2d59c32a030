package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportedTextureDecodeEmbedded(t *testing.T) {
	tex := &ImportedTexture{Name: "albedo", Data: encodePNG(t, 3, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})}

	data, err := tex.Decode()
	require.NoError(t, err)

	assert.Equal(t, int32(3), data.Width)
	assert.Equal(t, int32(2), data.Height)
	assert.Equal(t, int32(1), data.Depth)
	assert.Len(t, data.Pixels, data.Size())
	assert.Equal(t, []byte{10, 20, 30, 255}, data.Pixels[:4])
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	var nilTex *ImportedTexture
	_, err := nilTex.Decode()
	assert.Error(t, err)

	_, err = (&ImportedTexture{}).Decode()
	assert.EqualError(t, err, "texture has neither data nor path")

	_, err = (&ImportedTexture{Data: []byte("not an image")}).Decode()
	assert.ErrorContains(t, err, "failed to decode embedded image")

	_, err = (&ImportedTexture{Path: "does/not/exist.png"}).Decode()
	assert.ErrorContains(t, err, "failed to open texture file")
}

func TestTextureStagingDataSize(t *testing.T) {
	assert.Equal(t, 4*4*4, TextureStagingData{Width: 4, Height: 4}.Size())
	assert.Equal(t, 2*2*3*4, TextureStagingData{Width: 2, Height: 2, Depth: 3}.Size())
}
