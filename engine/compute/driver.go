// Package compute runs compute kernels over images shared with the rendering context.
//
// A Resource owns one kernel and its positional arguments. Images it is given are GL textures;
// before every dispatch they are handed to the compute API and handed back afterwards. The
// hand-off is explicit: Acquire returns a Lease that Dispatch requires and Release consumes.
// A Resource is bound to the thread owning the GL context.
package compute

import "errors"

// MaxImages is the number of distinct image argument slots a Resource supports.
const MaxImages = 9

var (
	// ErrNoDevice is returned when neither a GPU nor a CPU compute device is available.
	ErrNoDevice = errors.New("compute: no compute device available")

	// ErrLeaseSpent is returned when a released or foreign lease is used.
	ErrLeaseSpent = errors.New("compute: lease is not live")
)

// DeviceKind identifies the class of compute device.
type DeviceKind int

const (
	// DeviceGPU selects a hardware GPU device.
	DeviceGPU DeviceKind = iota

	// DeviceCPU selects a CPU (software) device.
	DeviceCPU
)

// String returns a human readable device kind.
func (k DeviceKind) String() string {
	switch k {
	case DeviceGPU:
		return "gpu"
	case DeviceCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// Access is the access mode a kernel declares for an image argument.
type Access int

const (
	// AccessRead marks an image the kernel only reads.
	AccessRead Access = iota

	// AccessWrite marks an image the kernel only writes.
	AccessWrite

	// AccessReadWrite marks an image the kernel reads and writes.
	AccessReadWrite
)

// String returns a human readable access mode.
func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "read_write"
	default:
		return "unknown"
	}
}

// Writes reports whether the kernel may modify an image with this access.
func (a Access) Writes() bool {
	return a == AccessWrite || a == AccessReadWrite
}

// ImageDimension is the dimensionality of an image argument.
type ImageDimension int

const (
	// Image2D is a 2D image backed by a GL_TEXTURE_2D.
	Image2D ImageDimension = iota

	// Image3D is a 3D image backed by a GL_TEXTURE_3D.
	Image3D
)

// String returns a human readable dimension.
func (d ImageDimension) String() string {
	switch d {
	case Image2D:
		return "2d"
	case Image3D:
		return "3d"
	default:
		return "unknown"
	}
}

// DeviceInfo describes the device a driver opened.
type DeviceInfo struct {
	// Name is the adapter or device name reported by the driver.
	Name string

	// Vendor is the vendor name, possibly empty.
	Vendor string

	// Backend names the underlying API, e.g. "vulkan" or "metal".
	Backend string

	// Kind is the class of the device.
	Kind DeviceKind
}

// Driver is the compute API a Resource drives. A Driver instance serves exactly one kernel.
// Every method is synchronous; Finish blocks until all enqueued work has completed.
type Driver interface {
	// OpenDevice opens a device of the given kind along with its command queue and the
	// interop context shared with the rendering API.
	//
	// Parameters:
	//   - kind: the class of device to open
	//
	// Returns:
	//   - DeviceInfo: a description of the opened device
	//   - error: ErrNoDevice (possibly wrapped) if no device of that kind exists
	OpenDevice(kind DeviceKind) (DeviceInfo, error)

	// BuildKernel compiles the kernel source and selects the entry point.
	//
	// Parameters:
	//   - source: the kernel source code
	//   - entryPoint: the kernel function name
	//
	// Returns:
	//   - [3]uint32: the local work-group size declared by or chosen for the kernel
	//   - error: error if compilation fails or the entry point does not exist
	BuildKernel(source, entryPoint string) ([3]uint32, error)

	// SetScalar binds a plain value to a positional argument.
	//
	// Parameters:
	//   - index: the argument index
	//   - value: the little-endian encoded value
	//
	// Returns:
	//   - error: error if the argument could not be set
	SetScalar(index int, value []byte) error

	// SetImage binds a shared image to its positional argument.
	//
	// Parameters:
	//   - img: the image, carrying its index, texture, dimension and access
	//
	// Returns:
	//   - error: error if the image could not be shared with the compute API
	SetImage(img *SharedImage) error

	// Acquire hands the given images from the rendering API to the compute API.
	//
	// Returns:
	//   - error: error if any image could not be acquired; none are acquired then
	Acquire(images []*SharedImage) error

	// Enqueue submits the kernel over a global work size.
	//
	// Parameters:
	//   - global: the global work size, unused dimensions set to 1
	//   - local: the local work-group size, unused dimensions set to 1
	//   - dimensions: the number of meaningful dimensions, 1 to 3
	//
	// Returns:
	//   - error: error if the kernel could not be enqueued
	Enqueue(global, local [3]uint32, dimensions int) error

	// Finish blocks until every enqueued command has completed.
	//
	// Returns:
	//   - error: error if waiting failed
	Finish() error

	// Release hands the given images back to the rendering API.
	//
	// Returns:
	//   - error: error if any image could not be released
	Release(images []*SharedImage) error

	// Close frees the kernel, queue and device.
	Close()
}
