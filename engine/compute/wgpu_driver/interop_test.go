package wgpu_driver

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestWorkgroupCount(t *testing.T) {
	assert.Equal(t, [3]uint32{4, 1, 1}, workgroupCount([3]uint32{64, 9, 9}, [3]uint32{16, 1, 1}, 1))
	assert.Equal(t, [3]uint32{5, 2, 1}, workgroupCount([3]uint32{65, 9, 1}, [3]uint32{16, 8, 1}, 2))
	assert.Equal(t, [3]uint32{1, 1, 3}, workgroupCount([3]uint32{1, 1, 9}, [3]uint32{4, 4, 4}, 3))
	assert.Equal(t, [3]uint32{1, 1, 1}, workgroupCount([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0}, 3))
}

func TestPaddedBytesPerRow(t *testing.T) {
	align := uint32(wgpu.CopyBytesPerRowAlignment)
	assert.Equal(t, align, paddedBytesPerRow(4))
	assert.Equal(t, align, paddedBytesPerRow(align))
	assert.Equal(t, 2*align, paddedBytesPerRow(align+4))
}

func TestUnpadRows(t *testing.T) {
	padded := []byte{
		1, 2, 3, 4, 0, 0, 0, 0,
		5, 6, 7, 8, 0, 0, 0, 0,
	}
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, unpadRows(padded, 4, 8, 2))
}

func TestMirrorSizes(t *testing.T) {
	m := &mirror{size: wgpu.Extent3D{Width: 3, Height: 2, DepthOrArrayLayers: 4}}
	assert.Equal(t, 3*2*4*texelSize, m.byteSize())
	assert.Equal(t, uint32(12), m.rowBytes())
}
