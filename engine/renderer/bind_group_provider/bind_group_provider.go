package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup is the GPU bind group built from the current resources, or nil until built.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the layout the bind group is built against.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textures holds the GPU textures created for this provider, keyed by binding index.
	textures map[int]*wgpu.Texture
	// textureViews holds the views of textures, keyed by binding index.
	textureViews map[int]*wgpu.TextureView

	// dirty is set whenever a bound resource changes and the bind group must be rebuilt.
	dirty bool
}

// BindGroupProvider defines the interface for the GPU resources bound to one kernel's bind group.
// A compute driver populates the provider as arguments are set, then rebuilds the bind group
// from it before a dispatch whenever a resource has been replaced.
//
// Usage pattern:
//  1. Driver creates a BindGroupProvider once the kernel's bind group layout exists
//  2. Driver stores argument resources via SetBuffer() and SetTexture()
//  3. Before dispatch, when Dirty() reports true, the driver builds a bind group and calls SetBindGroup()
//  4. The compute pass binds BindGroup()
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the current bind group for shader binding.
	// Returns nil if it has not been built.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout for this provider.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Texture returns the texture bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Texture: the texture or nil
	Texture(binding int) *wgpu.Texture

	// TextureView returns the view of the texture bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Bindings returns the number of bindings holding a resource.
	//
	// Returns:
	//   - int: the bound resource count
	Bindings() int

	// Dirty reports whether a resource changed since the bind group was last set.
	//
	// Returns:
	//   - bool: true if the bind group must be rebuilt
	Dirty() bool

	// SetBindGroup replaces the bind group, releasing the previous one, and clears the dirty flag.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer for a binding, releasing any buffer or texture it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a texture and its view for a binding, releasing any resource it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the created texture
	//   - tv: the view of tex to bind
	SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label used for the resources the provider names
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		dirty:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Texture(binding int) *wgpu.Texture {
	return p.textures[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Bindings() int {
	return len(p.buffers) + len(p.textures)
}

func (p *bindGroupProvider) Dirty() bool {
	return p.dirty
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.dirty = false
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
	p.dirty = true
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.releaseBinding(binding)
	p.buffers[binding] = buf
	p.dirty = true
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView) {
	p.releaseBinding(binding)
	p.textures[binding] = tex
	p.textureViews[binding] = tv
	p.dirty = true
}

// releaseBinding frees whatever resource currently occupies a binding.
func (p *bindGroupProvider) releaseBinding(binding int) {
	if tv := p.textureViews[binding]; tv != nil {
		tv.Release()
	}
	if tex := p.textures[binding]; tex != nil {
		tex.Release()
	}
	if buf := p.buffers[binding]; buf != nil {
		buf.Release()
	}
	delete(p.textureViews, binding)
	delete(p.textures, binding)
	delete(p.buffers, binding)
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i := range p.textures {
		p.releaseBinding(i)
	}
	for i := range p.buffers {
		p.releaseBinding(i)
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	p.dirty = true
}
