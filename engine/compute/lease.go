package compute

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"

// Owner identifies which API currently owns a shared image.
type Owner int

const (
	// OwnerGraphics means the image may be used as a GL texture.
	OwnerGraphics Owner = iota

	// OwnerCompute means the image is held by the compute API and must not be touched by GL.
	OwnerCompute
)

// String returns a human readable owner name.
func (o Owner) String() string {
	if o == OwnerCompute {
		return "compute"
	}
	return "graphics"
}

// SharedImage is a GL texture registered as a kernel image argument.
type SharedImage struct {
	index     int
	texture   uint32
	dimension ImageDimension
	access    Access
	owner     Owner

	// Handle is the compute-side object a Driver associates with the image. Drivers own it.
	Handle any
}

// Index returns the argument slot of the image.
func (i *SharedImage) Index() int {
	return i.index
}

// Texture returns the GL texture handle backing the image.
func (i *SharedImage) Texture() uint32 {
	return i.texture
}

// Dimension returns whether the image is 2D or 3D.
func (i *SharedImage) Dimension() ImageDimension {
	return i.dimension
}

// Target returns the GL texture target matching the image dimension.
func (i *SharedImage) Target() graphics.TextureTarget {
	if i.dimension == Image3D {
		return graphics.Texture3D
	}
	return graphics.Texture2D
}

// Access returns the access mode the kernel declares for the image.
func (i *SharedImage) Access() Access {
	return i.access
}

// Owner reports which API currently owns the image.
func (i *SharedImage) Owner() Owner {
	return i.owner
}

// Lease is the capability to dispatch against a set of acquired images. Only Resource.Acquire
// creates one; Resource.Release consumes it, after which it is spent.
type Lease struct {
	resource *resource
	images   []*SharedImage
	spent    bool
}

// Live reports whether the lease still holds its images.
func (l *Lease) Live() bool {
	return l != nil && !l.spent
}

// Images returns the images held by the lease, ordered by argument index.
func (l *Lease) Images() []*SharedImage {
	return l.images
}
