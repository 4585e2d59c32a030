// Package wgpu_driver runs compute kernels written in WGSL through wgpu, mirroring GL
// textures into wgpu textures for the duration of each acquire/release bracket.
package wgpu_driver

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/cogentcore/webgpu/wgpu"
)

// driver is the wgpu implementation of compute.Driver.
type driver struct {
	ctx   graphics.Context
	label string

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	module         *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.ComputePipeline
	signature      kernelSignature
	provider       bind_group_provider.BindGroupProvider

	// writes holds scalar uploads staged until the next Acquire.
	writes []bind_group_provider.BufferWrite
}

var _ compute.Driver = &driver{}

// NewDriver creates a compute.Driver backed by wgpu. Shared images are read from and written
// back to GL through ctx, so the driver must be used on the thread owning ctx.
//
// Parameters:
//   - ctx: the graphics context owning the shared textures
//   - options: variadic list of DriverBuilderOption functions
//
// Returns:
//   - compute.Driver: the driver, with no device open yet
func NewDriver(ctx graphics.Context, options ...DriverBuilderOption) compute.Driver {
	if ctx == nil {
		panic("wgpu_driver: driver requires a graphics context")
	}
	d := &driver{
		ctx:   ctx,
		label: "Compute",
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *driver) OpenDevice(kind compute.DeviceKind) (compute.DeviceInfo, error) {
	if d.device != nil {
		panic("wgpu_driver: device already open")
	}
	if d.instance == nil {
		d.instance = wgpu.CreateInstance(nil)
	}

	opts := &wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	}
	if kind == compute.DeviceCPU {
		opts = &wgpu.RequestAdapterOptions{
			ForceFallbackAdapter: true,
			PowerPreference:      wgpu.PowerPreferenceLowPower,
		}
	}
	a, err := d.instance.RequestAdapter(opts)
	if err != nil || a == nil {
		return compute.DeviceInfo{}, fmt.Errorf("%s adapter: %v: %w", kind, err, compute.ErrNoDevice)
	}

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: d.label + " Device",
	})
	if err != nil {
		a.Release()
		return compute.DeviceInfo{}, fmt.Errorf("failed to request %s device: %w", kind, err)
	}
	d.adapter = a
	d.device = dev
	d.queue = dev.GetQueue()

	return compute.DeviceInfo{
		Name:    fmt.Sprintf("wgpu %s adapter", kind),
		Backend: "wgpu",
		Kind:    kind,
	}, nil
}

func (d *driver) BuildKernel(source, entryPoint string) ([3]uint32, error) {
	if d.device == nil {
		return [3]uint32{}, errors.New("no device open")
	}
	sig, err := parseKernel(source, entryPoint)
	if err != nil {
		return [3]uint32{}, err
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: d.label + " " + entryPoint,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return [3]uint32{}, err
	}

	desc := sig.layoutDescriptor(d.label + " Bind Group Layout")
	bgl, err := d.device.CreateBindGroupLayout(&desc)
	if err != nil {
		module.Release()
		return [3]uint32{}, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	layout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            d.label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bgl.Release()
		module.Release()
		return [3]uint32{}, err
	}

	pipeline, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  d.label + " Compute Pipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		layout.Release()
		bgl.Release()
		module.Release()
		return [3]uint32{}, err
	}

	d.releaseKernel()
	d.module = module
	d.pipelineLayout = layout
	d.pipeline = pipeline
	d.signature = sig
	d.provider = bind_group_provider.NewBindGroupProvider(d.label, bind_group_provider.WithBindGroupLayout(bgl))
	return sig.workgroupSize, nil
}

// argument returns the declared argument at a binding, or an error naming the mismatch.
func (d *driver) argument(index int, scalar bool) (kernelArgument, error) {
	if d.provider == nil {
		return kernelArgument{}, errors.New("no kernel built")
	}
	arg, ok := d.signature.arguments[index]
	if !ok {
		return arg, fmt.Errorf("kernel %s declares no argument at binding %d", d.signature.entryPoint, index)
	}
	if scalar != (arg.kind == argumentScalar) {
		return arg, fmt.Errorf("argument %s at binding %d is a %s", arg.name, index, arg.kind)
	}
	return arg, nil
}

func (d *driver) SetScalar(index int, value []byte) error {
	arg, err := d.argument(index, true)
	if err != nil {
		return err
	}
	if len(value) != 4 {
		return fmt.Errorf("argument %s takes 4 bytes, got %d", arg.name, len(value))
	}

	if d.provider.Buffer(index) == nil {
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: d.label + " " + arg.name + " Buffer",
			Size:  uniformBufferSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		d.provider.SetBuffer(index, buf)
	}
	d.writes = append(d.writes, bind_group_provider.BufferWrite{
		Provider: d.provider,
		Binding:  index,
		Data:     value,
	})
	return nil
}

func (d *driver) SetImage(img *compute.SharedImage) error {
	arg, err := d.argument(img.Index(), false)
	if err != nil {
		return err
	}
	if arg.dimension != img.Dimension() {
		return fmt.Errorf("argument %s is a %s image, got %s", arg.name, arg.dimension, img.Dimension())
	}
	if arg.access != img.Access() {
		return fmt.Errorf("argument %s is declared %s, got %s", arg.name, arg.access, img.Access())
	}

	width, height, depth := d.ctx.TextureSize(img.Target(), img.Texture())
	if graphics.CheckError(d.ctx, "query texture size") || width <= 0 || height <= 0 || depth <= 0 {
		return fmt.Errorf("texture %d has no %s storage", img.Texture(), img.Dimension())
	}

	usage := wgpu.TextureUsageCopyDst | wgpu.TextureUsageCopySrc
	if arg.kind == argumentTexture {
		usage |= wgpu.TextureUsageTextureBinding
	} else {
		usage |= wgpu.TextureUsageStorageBinding
	}
	dimension := wgpu.TextureDimension2D
	if img.Dimension() == compute.Image3D {
		dimension = wgpu.TextureDimension3D
	}
	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: uint32(depth),
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         d.label + " " + arg.name + " Texture",
		Usage:         usage,
		Dimension:     dimension,
		Size:          size,
		Format:        arg.format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	d.provider.SetTexture(img.Index(), tex, view)
	img.Handle = &mirror{
		binding: img.Index(),
		texture: tex,
		size:    size,
	}
	return nil
}

func mirrorOf(img *compute.SharedImage) (*mirror, error) {
	m, ok := img.Handle.(*mirror)
	if !ok || m == nil {
		return nil, fmt.Errorf("image %d was not shared through this driver", img.Index())
	}
	return m, nil
}

func (d *driver) Acquire(images []*compute.SharedImage) error {
	if d.provider == nil {
		return errors.New("no kernel built")
	}
	mirrors := make([]*mirror, len(images))
	for i, img := range images {
		m, err := mirrorOf(img)
		if err != nil {
			return err
		}
		mirrors[i] = m
	}

	for i, img := range images {
		m := mirrors[i]
		pixels := make([]byte, m.byteSize())
		d.ctx.ReadTexture(img.Target(), img.Texture(), pixels)
		if graphics.CheckError(d.ctx, fmt.Sprintf("read texture %d", img.Texture())) {
			return fmt.Errorf("failed to read texture %d for image %d", img.Texture(), img.Index())
		}
		d.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  m.texture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  m.rowBytes(),
				RowsPerImage: m.size.Height,
			},
			&m.size,
		)
	}

	d.flushWrites()
	return d.ensureBindGroup()
}

// flushWrites applies staged scalar uploads, skipping bindings whose buffer is gone.
func (d *driver) flushWrites() {
	for _, w := range d.writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		d.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
	d.writes = d.writes[:0]
}

// ensureBindGroup rebuilds the bind group when an argument resource changed since the last build.
func (d *driver) ensureBindGroup() error {
	if !d.provider.Dirty() {
		return nil
	}

	bindings := d.signature.bindings()
	entries := make([]wgpu.BindGroupEntry, 0, len(bindings))
	for _, b := range bindings {
		arg := d.signature.arguments[b]
		if arg.kind == argumentScalar {
			buf := d.provider.Buffer(b)
			if buf == nil {
				return fmt.Errorf("argument %s at binding %d is not set", arg.name, b)
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: uint32(b),
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
			continue
		}
		tv := d.provider.TextureView(b)
		if tv == nil {
			return fmt.Errorf("argument %s at binding %d is not set", arg.name, b)
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(b),
			TextureView: tv,
		})
	}

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   d.label + " Bind Group",
		Layout:  d.provider.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return err
	}
	d.provider.SetBindGroup(bindGroup)
	return nil
}

func (d *driver) Enqueue(global, local [3]uint32, dimensions int) error {
	if d.pipeline == nil || d.provider.BindGroup() == nil {
		return errors.New("kernel is not ready for dispatch")
	}
	counts := workgroupCount(global, local, dimensions)

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(d.pipeline)
	pass.SetBindGroup(0, d.provider.BindGroup(), nil)
	pass.DispatchWorkgroups(counts[0], counts[1], counts[2])
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return err
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

func (d *driver) Finish() error {
	if d.device == nil {
		return errors.New("no device open")
	}
	d.device.Poll(true, nil)
	return nil
}

func (d *driver) Release(images []*compute.SharedImage) error {
	var errs []error
	for _, img := range images {
		if !img.Access().Writes() {
			continue
		}
		m, err := mirrorOf(img)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pixels, err := d.readMirror(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("image %d: %w", img.Index(), err))
			continue
		}
		size := m.size
		d.ctx.WriteTexture(img.Target(), img.Texture(), int32(size.Width), int32(size.Height), int32(size.DepthOrArrayLayers), pixels)
		if graphics.CheckError(d.ctx, fmt.Sprintf("write texture %d", img.Texture())) {
			errs = append(errs, fmt.Errorf("failed to write back texture %d for image %d", img.Texture(), img.Index()))
		}
	}
	return errors.Join(errs...)
}

// readMirror copies a mirror texture into a mappable buffer and returns its packed texels.
func (d *driver) readMirror(m *mirror) ([]byte, error) {
	stride := paddedBytesPerRow(m.rowBytes())
	rows := m.size.Height * m.size.DepthOrArrayLayers
	size := uint64(stride) * uint64(rows)

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: d.label + " Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  m.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  stride,
				RowsPerImage: m.size.Height,
			},
			Buffer: buf,
		},
		&m.size,
	)
	commandBuffer, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return nil, err
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	var status wgpu.BufferMapAsyncStatus
	err = buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}
	d.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("readback buffer mapping failed with status %v", status)
	}

	pixels := unpadRows(buf.GetMappedRange(0, uint(size)), m.rowBytes(), stride, rows)
	buf.Unmap()
	return pixels, nil
}

// releaseKernel frees the objects created by BuildKernel.
func (d *driver) releaseKernel() {
	if d.provider != nil {
		d.provider.Release()
		d.provider = nil
	}
	if d.pipeline != nil {
		d.pipeline.Release()
		d.pipeline = nil
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
		d.pipelineLayout = nil
	}
	if d.module != nil {
		d.module.Release()
		d.module = nil
	}
	d.writes = nil
}

func (d *driver) Close() {
	d.releaseKernel()
	if d.device != nil {
		d.device.Release()
		d.device = nil
		d.queue = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
