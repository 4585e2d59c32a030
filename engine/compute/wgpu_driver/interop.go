package wgpu_driver

import "github.com/cogentcore/webgpu/wgpu"

// texelSize is the size in bytes of one interopFormat texel.
const texelSize = 4

// uniformBufferSize is the allocation size of one scalar argument buffer.
const uniformBufferSize = 16

// mirror is the wgpu texture a shared GL texture is copied into while the compute API owns it.
type mirror struct {
	binding int
	texture *wgpu.Texture
	size    wgpu.Extent3D
}

// byteSize returns the tightly packed size of the mirrored texels.
func (m *mirror) byteSize() int {
	return int(m.size.Width) * int(m.size.Height) * int(m.size.DepthOrArrayLayers) * texelSize
}

// rowBytes returns the tightly packed size of one texel row.
func (m *mirror) rowBytes() uint32 {
	return m.size.Width * texelSize
}

// workgroupCount returns the number of workgroups covering a global work size, rounding up
// so that global sizes not divisible by the local size are still fully covered.
//
// Parameters:
//   - global: the global work size
//   - local: the workgroup size
//   - dimensions: the number of meaningful dimensions; the rest dispatch one workgroup
//
// Returns:
//   - [3]uint32: the workgroup counts
func workgroupCount(global, local [3]uint32, dimensions int) [3]uint32 {
	counts := [3]uint32{1, 1, 1}
	for i := 0; i < dimensions && i < 3; i++ {
		l := max(local[i], 1)
		counts[i] = max((global[i]+l-1)/l, 1)
	}
	return counts
}

// paddedBytesPerRow rounds a row size up to the alignment texture-to-buffer copies require.
func paddedBytesPerRow(rowBytes uint32) uint32 {
	align := uint32(wgpu.CopyBytesPerRowAlignment)
	return (rowBytes + align - 1) / align * align
}

// unpadRows copies rows out of a padded copy buffer into a tightly packed slice.
//
// Parameters:
//   - padded: the mapped buffer contents
//   - rowBytes: the packed size of one row
//   - stride: the padded size of one row
//   - rows: the number of rows, all depth slices included
//
// Returns:
//   - []byte: the packed rows
func unpadRows(padded []byte, rowBytes, stride, rows uint32) []byte {
	out := make([]byte, int(rowBytes)*int(rows))
	for r := uint32(0); r < rows; r++ {
		src := padded[r*stride : r*stride+rowBytes]
		copy(out[r*rowBytes:], src)
	}
	return out
}
