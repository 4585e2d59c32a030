package compute

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// resource is the implementation of the Resource interface.
type resource struct {
	driver     Driver
	label      string
	sourceDir  string
	entryPoint string
	dimensions int
	global     [3]uint32
	local      [3]uint32
	device     DeviceInfo
	preference []DeviceKind
	images     map[int]*SharedImage
	lease      *Lease
	closed     bool
}

// Resource defines the interface for a compute kernel with positional arguments and images
// shared with the rendering context.
//
// Every run brackets the dispatch with an explicit ownership hand-off: all registered images
// are acquired by the compute API before the kernel is enqueued and released back to the
// rendering API after it completes. There is no timeout; a hung kernel blocks Run forever.
type Resource interface {
	// Label retrieves the identifier used in diagnostics.
	//
	// Returns:
	//   - string: the resource label
	Label() string

	// Device returns the device the kernel runs on.
	//
	// Returns:
	//   - DeviceInfo: the selected device
	Device() DeviceInfo

	// Dimensions returns the number of meaningful work dimensions, 1 to 3.
	//
	// Returns:
	//   - int: the declared dimensionality
	Dimensions() int

	// LocalWorkSize returns the local work-group size queried from the kernel.
	//
	// Returns:
	//   - [3]uint32: the local size, unused dimensions set to 1
	LocalWorkSize() [3]uint32

	// GlobalWorkSize returns the stored global work size.
	//
	// Returns:
	//   - [3]uint32: the global size, unused dimensions set to 1
	GlobalWorkSize() [3]uint32

	// SetGlobalWorkSize replaces the global work size used by subsequent runs.
	// Components beyond the declared dimensionality are ignored.
	//
	// Parameters:
	//   - size: the global work size
	SetGlobalWorkSize(size [3]uint32)

	// SetIntArgument binds a signed integer to a positional argument.
	//
	// Parameters:
	//   - index: the non-negative argument index
	//   - value: the value to bind
	//
	// Returns:
	//   - error: error if the driver rejected the argument
	SetIntArgument(index int, value int32) error

	// SetUintArgument binds an unsigned integer to a positional argument.
	//
	// Parameters:
	//   - index: the non-negative argument index
	//   - value: the value to bind
	//
	// Returns:
	//   - error: error if the driver rejected the argument
	SetUintArgument(index int, value uint32) error

	// SetFloatArgument binds a float to a positional argument.
	//
	// Parameters:
	//   - index: the non-negative argument index
	//   - value: the value to bind
	//
	// Returns:
	//   - error: error if the driver rejected the argument
	SetFloatArgument(index int, value float32) error

	// SetWriteImage2DArgument registers a 2D texture the kernel writes.
	//
	// Parameters:
	//   - index: the non-negative argument index
	//   - texture: the GL texture handle
	//
	// Returns:
	//   - error: error if the image could not be shared or its slot is currently leased
	SetWriteImage2DArgument(index int, texture uint32) error

	// SetReadImage2DArgument registers a 2D texture the kernel reads.
	SetReadImage2DArgument(index int, texture uint32) error

	// SetReadWriteImage2DArgument registers a 2D texture the kernel reads and writes.
	SetReadWriteImage2DArgument(index int, texture uint32) error

	// SetWriteImage3DArgument registers a 3D texture the kernel writes.
	SetWriteImage3DArgument(index int, texture uint32) error

	// SetReadImage3DArgument registers a 3D texture the kernel reads.
	SetReadImage3DArgument(index int, texture uint32) error

	// SetReadWriteImage3DArgument registers a 3D texture the kernel reads and writes.
	SetReadWriteImage3DArgument(index int, texture uint32) error

	// Images returns the registered images ordered by argument index.
	//
	// Returns:
	//   - []*SharedImage: the registered images
	Images() []*SharedImage

	// Acquire hands every registered image to the compute API.
	//
	// Returns:
	//   - *Lease: the live lease over the acquired images
	//   - error: error if a lease is already live or the driver could not acquire
	Acquire() (*Lease, error)

	// Dispatch enqueues the kernel with the stored global size and the local size, then
	// blocks until it completes.
	//
	// Parameters:
	//   - lease: a live lease from Acquire
	//
	// Returns:
	//   - error: ErrLeaseSpent for a dead lease, or the driver error
	Dispatch(lease *Lease) error

	// Release hands the leased images back to the rendering API and spends the lease. The images
	// return to the rendering API even when the driver reports an error.
	//
	// Parameters:
	//   - lease: a live lease from Acquire
	//
	// Returns:
	//   - error: ErrLeaseSpent for a dead lease, or the driver error
	Release(lease *Lease) error

	// Run acquires all images, dispatches, waits and releases. A failed acquire aborts before
	// dispatch; release always follows a successful acquire.
	//
	// Returns:
	//   - error: the joined errors of the failed steps
	Run() error

	// Close frees the driver resources. Subsequent calls are no-ops.
	Close()
}

var _ Resource = &resource{}

// NewResource reads a kernel source file, opens a compute device and builds the kernel.
// Devices are tried in preference order, GPU first by default, falling back to the next kind.
//
// Parameters:
//   - driver: the compute API, serving this resource only
//   - sourcePath: the kernel source file, relative to the source dir when one is set
//   - entryPoint: the kernel function name
//   - globalWorkSize: the global work size; components beyond dimensions are ignored
//   - dimensions: the work dimensionality, 1 to 3
//   - options: variadic list of ResourceBuilderOption functions
//
// Returns:
//   - Resource: the compute resource
//   - error: ErrNoDevice when no device exists, or a source or build error. The driver is
//     closed on every error path.
func NewResource(driver Driver, sourcePath, entryPoint string, globalWorkSize [3]uint32, dimensions int, options ...ResourceBuilderOption) (Resource, error) {
	if dimensions < 1 || dimensions > 3 {
		panic(fmt.Sprintf("compute: dimensions must be 1 to 3, got %d", dimensions))
	}
	if driver == nil {
		panic("compute: resource requires a driver")
	}
	r := &resource{
		driver:     driver,
		label:      entryPoint,
		entryPoint: entryPoint,
		dimensions: dimensions,
		preference: []DeviceKind{DeviceGPU, DeviceCPU},
		images:     make(map[int]*SharedImage),
	}
	for _, opt := range options {
		opt(r)
	}
	r.SetGlobalWorkSize(globalWorkSize)

	path := sourcePath
	if r.sourceDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.sourceDir, path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to read kernel source %q: %w", path, err)
	}

	if err := r.openDevice(); err != nil {
		driver.Close()
		return nil, err
	}

	local, err := driver.BuildKernel(string(source), entryPoint)
	if err != nil {
		r.logFailure("build kernel", err)
		driver.Close()
		return nil, fmt.Errorf("failed to build kernel %q: %w", entryPoint, err)
	}
	r.local = r.clamp(local)
	common.Logger().Info("compute kernel built", "kernel", r.label, "device", r.device.Name, "kind", r.device.Kind.String(), "local", r.local)
	return r, nil
}

func (r *resource) openDevice() error {
	for i, kind := range r.preference {
		info, err := r.driver.OpenDevice(kind)
		if err == nil {
			r.device = info
			common.Logger().Info("compute device selected", "kernel", r.label, "device", info.Name, "vendor", info.Vendor, "backend", info.Backend, "kind", kind.String())
			return nil
		}
		if !errors.Is(err, ErrNoDevice) {
			r.logFailure("open device", err)
			return fmt.Errorf("failed to open %s device: %w", kind, err)
		}
		if i+1 < len(r.preference) {
			common.Logger().Warn("compute device unavailable, falling back", "kernel", r.label, "kind", kind.String(), "fallback", r.preference[i+1].String())
		}
	}
	common.Logger().Error("no compute device available", "kernel", r.label)
	return ErrNoDevice
}

// clamp sets components beyond the declared dimensionality to 1 and zero components to 1.
func (r *resource) clamp(size [3]uint32) [3]uint32 {
	for i := range size {
		if i >= r.dimensions || size[i] == 0 {
			size[i] = 1
		}
	}
	return size
}

func (r *resource) logFailure(op string, err error) {
	common.Logger().Error("compute call failed", "kernel", r.label, "op", op, "err", err)
}

func (r *resource) ensureOpen() {
	if r.closed {
		panic(fmt.Sprintf("compute: %s used after close", r.label))
	}
}

func (r *resource) Label() string {
	return r.label
}

func (r *resource) Device() DeviceInfo {
	return r.device
}

func (r *resource) Dimensions() int {
	return r.dimensions
}

func (r *resource) LocalWorkSize() [3]uint32 {
	return r.local
}

func (r *resource) GlobalWorkSize() [3]uint32 {
	return r.global
}

func (r *resource) SetGlobalWorkSize(size [3]uint32) {
	for i := range size {
		if i >= r.dimensions {
			size[i] = 1
		}
	}
	r.global = size
}

func (r *resource) setScalar(index int, value []byte) error {
	r.ensureOpen()
	if index < 0 {
		panic(fmt.Sprintf("compute: %s argument index %d is negative", r.label, index))
	}
	if err := r.driver.SetScalar(index, value); err != nil {
		r.logFailure(fmt.Sprintf("set argument %d", index), err)
		return fmt.Errorf("failed to set argument %d of %s: %w", index, r.label, err)
	}
	return nil
}

func (r *resource) SetIntArgument(index int, value int32) error {
	return r.setScalar(index, binary.LittleEndian.AppendUint32(nil, uint32(value)))
}

func (r *resource) SetUintArgument(index int, value uint32) error {
	return r.setScalar(index, binary.LittleEndian.AppendUint32(nil, value))
}

func (r *resource) SetFloatArgument(index int, value float32) error {
	return r.setScalar(index, binary.LittleEndian.AppendUint32(nil, math.Float32bits(value)))
}

func (r *resource) setImage(index int, texture uint32, dim ImageDimension, access Access) error {
	r.ensureOpen()
	if index < 0 {
		panic(fmt.Sprintf("compute: %s image index %d is negative", r.label, index))
	}
	prev, exists := r.images[index]
	if !exists && len(r.images) >= MaxImages {
		panic(fmt.Sprintf("compute: %s supports at most %d images", r.label, MaxImages))
	}
	if exists && prev.owner == OwnerCompute {
		return fmt.Errorf("image %d of %s is acquired by the compute API", index, r.label)
	}

	img := &SharedImage{
		index:     index,
		texture:   texture,
		dimension: dim,
		access:    access,
		owner:     OwnerGraphics,
	}
	if err := r.driver.SetImage(img); err != nil {
		r.logFailure(fmt.Sprintf("set %s %s image %d", access, dim, index), err)
		return fmt.Errorf("failed to share texture %d as image %d of %s: %w", texture, index, r.label, err)
	}
	r.images[index] = img
	return nil
}

func (r *resource) SetWriteImage2DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image2D, AccessWrite)
}

func (r *resource) SetReadImage2DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image2D, AccessRead)
}

func (r *resource) SetReadWriteImage2DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image2D, AccessReadWrite)
}

func (r *resource) SetWriteImage3DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image3D, AccessWrite)
}

func (r *resource) SetReadImage3DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image3D, AccessRead)
}

func (r *resource) SetReadWriteImage3DArgument(index int, texture uint32) error {
	return r.setImage(index, texture, Image3D, AccessReadWrite)
}

func (r *resource) Images() []*SharedImage {
	images := make([]*SharedImage, 0, len(r.images))
	for _, img := range r.images {
		images = append(images, img)
	}
	slices.SortFunc(images, func(a, b *SharedImage) int { return a.index - b.index })
	return images
}

func (r *resource) Acquire() (*Lease, error) {
	r.ensureOpen()
	if r.lease.Live() {
		return nil, fmt.Errorf("%s already holds a live lease", r.label)
	}
	images := r.Images()
	for _, img := range images {
		if img.owner != OwnerGraphics {
			return nil, fmt.Errorf("image %d of %s is not owned by the rendering API", img.index, r.label)
		}
	}
	if err := r.driver.Acquire(images); err != nil {
		r.logFailure("acquire images", err)
		return nil, fmt.Errorf("failed to acquire images of %s: %w", r.label, err)
	}
	for _, img := range images {
		img.owner = OwnerCompute
	}
	r.lease = &Lease{resource: r, images: images}
	return r.lease, nil
}

func (r *resource) checkLease(lease *Lease) error {
	if !lease.Live() || lease.resource != r {
		return ErrLeaseSpent
	}
	return nil
}

func (r *resource) Dispatch(lease *Lease) error {
	r.ensureOpen()
	if err := r.checkLease(lease); err != nil {
		return err
	}
	if err := r.driver.Enqueue(r.global, r.local, r.dimensions); err != nil {
		r.logFailure("enqueue kernel", err)
		return fmt.Errorf("failed to enqueue %s: %w", r.label, err)
	}
	if err := r.driver.Finish(); err != nil {
		r.logFailure("finish", err)
		return fmt.Errorf("failed waiting for %s: %w", r.label, err)
	}
	return nil
}

func (r *resource) Release(lease *Lease) error {
	r.ensureOpen()
	if err := r.checkLease(lease); err != nil {
		return err
	}
	lease.spent = true
	err := r.driver.Release(lease.images)
	// Ownership returns to the rendering API whether or not the driver release succeeded.
	for _, img := range lease.images {
		img.owner = OwnerGraphics
	}
	if err != nil {
		r.logFailure("release images", err)
		return fmt.Errorf("failed to release images of %s: %w", r.label, err)
	}
	return nil
}

func (r *resource) Run() error {
	lease, err := r.Acquire()
	if err != nil {
		return err
	}
	runErr := r.Dispatch(lease)
	if err := r.Release(lease); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

func (r *resource) Close() {
	if r.closed {
		return
	}
	if r.lease.Live() {
		_ = r.Release(r.lease)
	}
	r.closed = true
	r.driver.Close()
	clear(r.images)
}
