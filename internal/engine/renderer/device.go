package renderer

import (
	"image"

	"github.com/Faultbox/midgard-cube/internal/engine/geometry"
)

// TextureFormat is the pixel format of a surface or texture.
type TextureFormat int

const (
	FormatUndefined TextureFormat = iota
	FormatRGBA8Unorm
	FormatRGBA8UnormSRGB
	FormatBGRA8Unorm
	FormatBGRA8UnormSRGB
)

// PresentMode controls how presented frames are synchronised with the display.
type PresentMode int

const (
	// PresentModeFifo waits for vertical blank, capping throughput to the refresh rate.
	PresentModeFifo PresentMode = iota
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// SurfaceConfig describes how the presentation surface is set up.
type SurfaceConfig struct {
	Format      TextureFormat
	Width       int
	Height      int
	PresentMode PresentMode
}

// BufferUsage is a set of buffer usage flags.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopyDst
)

// BufferDesc describes a buffer created with initial contents.
type BufferDesc struct {
	Label    string
	Usage    BufferUsage
	Contents []byte
}

// ShaderStage is a set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	StageVertex ShaderStage = 1 << iota
	StageFragment
)

// BindingType is the kind of resource in a bind group slot.
type BindingType int

const (
	BindingTexture BindingType = iota
	BindingSampler
	BindingUniformBuffer
)

// BindGroupLayoutEntry describes one slot of a bind group.
// Name is the symbol the shader program declares for the slot.
type BindGroupLayoutEntry struct {
	Binding    int
	Visibility ShaderStage
	Type       BindingType
	Name       string
}

// BindGroupLayoutDesc describes the shape of a bind group.
type BindGroupLayoutDesc struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry supplies the resource for one slot. Exactly one of the
// resource fields is set, matching the layout entry's type.
type BindGroupEntry struct {
	Binding int
	Buffer  Buffer
	Texture Texture
	Sampler Sampler
}

// BindGroupDesc describes a bind group built against a layout.
type BindGroupDesc struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// FilterMode selects texel filtering.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// SamplerDesc describes a texture sampler. Addressing clamps to the edge.
type SamplerDesc struct {
	Label     string
	MagFilter FilterMode
	MinFilter FilterMode
}

// Topology is the primitive assembly mode.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
)

// FrontFace selects the winding of front-facing triangles.
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// BlendMode selects how fragment output combines with the target.
type BlendMode int

const (
	// BlendReplace overwrites the target.
	BlendReplace BlendMode = iota
	BlendAlpha
)

// PipelineDesc describes a render pipeline.
type PipelineDesc struct {
	Label string

	// Shader names the program module; VertexEntry and FragmentEntry select
	// its stages.
	Shader        string
	VertexEntry   string
	FragmentEntry string

	BindGroupLayouts []BindGroupLayout
	VertexLayout     geometry.VertexLayout
	TargetFormat     TextureFormat

	Topology    Topology
	FrontFace   FrontFace
	CullMode    CullMode
	SampleCount int
	DepthTest   bool
	Blend       BlendMode
}

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float64
}

// IndexFormat is the element type of an index buffer.
type IndexFormat int

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// RenderPassDesc describes a render pass with one color attachment that is
// cleared on load and stored at the end.
type RenderPassDesc struct {
	Label      string
	Target     SurfaceTexture
	ClearColor Color
}

// Releaser is implemented by every device resource.
type Releaser interface {
	Release()
}

// Resource handles. Implementations are device-specific.
type (
	Buffer          interface{ Releaser }
	Texture         interface{ Releaser }
	Sampler         interface{ Releaser }
	BindGroupLayout interface{ Releaser }
	BindGroup       interface{ Releaser }
	Pipeline        interface{ Releaser }
	CommandBuffer   interface{}
)

// SurfaceTexture is an acquired presentable image.
type SurfaceTexture interface {
	// Present queues the image for display.
	Present()
}

// RenderPass records draw commands into a single pass.
type RenderPass interface {
	SetPipeline(p Pipeline)
	SetBindGroup(index int, g BindGroup)
	SetVertexBuffer(slot int, b Buffer)
	SetIndexBuffer(b Buffer, format IndexFormat)
	DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance int)
	End()
}

// CommandEncoder records passes for submission.
type CommandEncoder interface {
	BeginRenderPass(desc RenderPassDesc) RenderPass
	Finish() CommandBuffer
}

// AdapterInfo describes the negotiated graphics device.
type AdapterInfo struct {
	Vendor  string
	Name    string
	Backend string
	Version string
}

// Device is a connection to a graphics device able to present to a surface.
// All methods must be called from the thread that owns the device.
type Device interface {
	Info() AdapterInfo
	SurfaceFormats() []TextureFormat
	ConfigureSurface(cfg SurfaceConfig)

	CreateBuffer(desc BufferDesc) (Buffer, error)
	WriteBuffer(b Buffer, offset int, data []byte)
	CreateTexture(label string, img *image.RGBA) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateBindGroupLayout(desc BindGroupLayoutDesc) (BindGroupLayout, error)
	CreateBindGroup(desc BindGroupDesc) (BindGroup, error)
	CreatePipeline(desc PipelineDesc) (Pipeline, error)

	// AcquireFrame returns the next image to render into. Errors are
	// ErrSurfaceLost, ErrOutOfMemory, ErrTimeout or ErrOutdated.
	AcquireFrame() (SurfaceTexture, error)
	CreateCommandEncoder(label string) CommandEncoder
	Submit(cmds ...CommandBuffer)

	Release()
}
