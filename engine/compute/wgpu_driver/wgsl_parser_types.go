package wgpu_driver

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/cogentcore/webgpu/wgpu"
)

// argumentKind is the category of a kernel argument as declared in WGSL.
type argumentKind int

const (
	// argumentScalar is a var<uniform> holding one i32, u32 or f32.
	argumentScalar argumentKind = iota

	// argumentTexture is a sampled texture, usable as a read-only image.
	argumentTexture

	// argumentStorageTexture is a storage texture with an explicit access mode.
	argumentStorageTexture
)

// String returns the WGSL-facing name of the argument kind.
func (k argumentKind) String() string {
	switch k {
	case argumentScalar:
		return "scalar"
	case argumentTexture:
		return "texture"
	case argumentStorageTexture:
		return "storage texture"
	default:
		return "unknown"
	}
}

// kernelArgument is a single @group(0) @binding(N) declaration of a kernel.
type kernelArgument struct {
	name      string
	typeName  string
	kind      argumentKind
	dimension compute.ImageDimension
	access    compute.Access
	format    wgpu.TextureFormat
	entry     wgpu.BindGroupLayoutEntry
}

// kernelSignature is everything the driver needs to know about a kernel before building it.
type kernelSignature struct {
	entryPoint    string
	workgroupSize [3]uint32
	arguments     map[int]kernelArgument
}

// layoutDescriptor returns the bind group layout of the signature's arguments sorted by binding.
func (s kernelSignature) layoutDescriptor(label string) wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(s.arguments))
	for _, binding := range s.bindings() {
		entries = append(entries, s.arguments[binding].entry)
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	}
}

// bindings returns the declared binding indices in ascending order.
func (s kernelSignature) bindings() []int {
	out := make([]int, 0, len(s.arguments))
	for b := range s.arguments {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}
