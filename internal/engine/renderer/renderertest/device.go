// Package renderertest provides a recording renderer.Device for tests that
// run without a GPU.
package renderertest

import (
	"fmt"
	"image"

	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
)

var _ renderer.Device = (*Device)(nil)

// Resource is a handle created by Device.
type Resource struct {
	Kind     string
	Label    string
	Data     []byte
	released bool
	dev      *Device
}

// Release marks the resource as freed.
func (r *Resource) Release() {
	if r.released {
		r.dev.DoubleReleases++
		return
	}
	r.released = true
	r.dev.live--
}

// Released reports whether Release was called.
func (r *Resource) Released() bool {
	return r.released
}

// Draw records one DrawIndexed call and the state bound at the time.
type Draw struct {
	IndexCount    int
	InstanceCount int
	FirstIndex    int
	BaseVertex    int
	FirstInstance int

	Pipeline    renderer.Pipeline
	BindGroups  map[int]renderer.BindGroup
	Vertex      renderer.Buffer
	Index       renderer.Buffer
	IndexFormat renderer.IndexFormat
}

// Pass records one render pass.
type Pass struct {
	Desc  renderer.RenderPassDesc
	Draws []Draw
	Ended bool
}

// Write records one WriteBuffer call.
type Write struct {
	Buffer renderer.Buffer
	Offset int
	Data   []byte
}

// Device is an in-memory renderer.Device that records every call.
// The zero value is not usable; call New.
type Device struct {
	Formats []renderer.TextureFormat

	// AcquireErrs are returned by successive AcquireFrame calls before
	// frames start succeeding.
	AcquireErrs []error

	// FailLabel makes creation of the resource with this label fail.
	FailLabel string

	Surface    renderer.SurfaceConfig
	Configures int
	Pipelines  []renderer.PipelineDesc
	Writes     []Write
	Passes     []*Pass
	Submits    int
	Presents   int
	Acquires   int

	DoubleReleases int
	DeviceReleased bool

	live int
}

// New returns a device offering a single RGBA8 surface format.
func New() *Device {
	return &Device{
		Formats: []renderer.TextureFormat{renderer.FormatRGBA8Unorm},
	}
}

// Live returns the number of created resources not yet released.
func (d *Device) Live() int {
	return d.live
}

// Draws returns every draw call across all passes.
func (d *Device) Draws() []Draw {
	var draws []Draw
	for _, p := range d.Passes {
		draws = append(draws, p.Draws...)
	}
	return draws
}

// LastWrite returns the most recent buffer write.
func (d *Device) LastWrite() (Write, bool) {
	if len(d.Writes) == 0 {
		return Write{}, false
	}
	return d.Writes[len(d.Writes)-1], true
}

func (d *Device) create(kind, label string, data []byte) (*Resource, error) {
	if d.FailLabel != "" && label == d.FailLabel {
		return nil, fmt.Errorf("create %s %q: injected failure", kind, label)
	}
	d.live++
	return &Resource{Kind: kind, Label: label, Data: data, dev: d}, nil
}

func (d *Device) Info() renderer.AdapterInfo {
	return renderer.AdapterInfo{Vendor: "test", Name: "recorder", Backend: "none"}
}

func (d *Device) SurfaceFormats() []renderer.TextureFormat {
	return d.Formats
}

func (d *Device) ConfigureSurface(cfg renderer.SurfaceConfig) {
	d.Surface = cfg
	d.Configures++
}

func (d *Device) CreateBuffer(desc renderer.BufferDesc) (renderer.Buffer, error) {
	data := append([]byte(nil), desc.Contents...)
	r, err := d.create("buffer", desc.Label, data)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Device) WriteBuffer(b renderer.Buffer, offset int, data []byte) {
	d.Writes = append(d.Writes, Write{Buffer: b, Offset: offset, Data: append([]byte(nil), data...)})
	if r, ok := b.(*Resource); ok && offset+len(data) <= len(r.Data) {
		copy(r.Data[offset:], data)
	}
}

func (d *Device) CreateTexture(label string, img *image.RGBA) (renderer.Texture, error) {
	r, err := d.create("texture", label, append([]byte(nil), img.Pix...))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Device) CreateSampler(desc renderer.SamplerDesc) (renderer.Sampler, error) {
	r, err := d.create("sampler", desc.Label, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Device) CreateBindGroupLayout(desc renderer.BindGroupLayoutDesc) (renderer.BindGroupLayout, error) {
	r, err := d.create("bind group layout", desc.Label, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Device) CreateBindGroup(desc renderer.BindGroupDesc) (renderer.BindGroup, error) {
	r, err := d.create("bind group", desc.Label, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Device) CreatePipeline(desc renderer.PipelineDesc) (renderer.Pipeline, error) {
	r, err := d.create("pipeline", desc.Label, nil)
	if err != nil {
		return nil, err
	}
	d.Pipelines = append(d.Pipelines, desc)
	return r, nil
}

func (d *Device) AcquireFrame() (renderer.SurfaceTexture, error) {
	d.Acquires++
	if len(d.AcquireErrs) > 0 {
		err := d.AcquireErrs[0]
		d.AcquireErrs = d.AcquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &frame{dev: d}, nil
}

func (d *Device) CreateCommandEncoder(label string) renderer.CommandEncoder {
	return &encoder{dev: d}
}

func (d *Device) Submit(cmds ...renderer.CommandBuffer) {
	d.Submits += len(cmds)
}

func (d *Device) Release() {
	d.DeviceReleased = true
}

type frame struct {
	dev *Device
}

func (f *frame) Present() {
	f.dev.Presents++
}

type encoder struct {
	dev *Device
}

func (e *encoder) BeginRenderPass(desc renderer.RenderPassDesc) renderer.RenderPass {
	p := &Pass{Desc: desc}
	e.dev.Passes = append(e.dev.Passes, p)
	return &pass{rec: p, groups: map[int]renderer.BindGroup{}}
}

func (e *encoder) Finish() renderer.CommandBuffer {
	return struct{}{}
}

type pass struct {
	rec         *Pass
	pipeline    renderer.Pipeline
	groups      map[int]renderer.BindGroup
	vertex      renderer.Buffer
	index       renderer.Buffer
	indexFormat renderer.IndexFormat
}

func (p *pass) SetPipeline(pl renderer.Pipeline)             { p.pipeline = pl }
func (p *pass) SetBindGroup(index int, g renderer.BindGroup) { p.groups[index] = g }
func (p *pass) SetVertexBuffer(slot int, b renderer.Buffer)  { p.vertex = b }

func (p *pass) SetIndexBuffer(b renderer.Buffer, format renderer.IndexFormat) {
	p.index = b
	p.indexFormat = format
}

func (p *pass) DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance int) {
	groups := make(map[int]renderer.BindGroup, len(p.groups))
	for k, v := range p.groups {
		groups[k] = v
	}
	p.rec.Draws = append(p.rec.Draws, Draw{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
		Pipeline:      p.pipeline,
		BindGroups:    groups,
		Vertex:        p.vertex,
		Index:         p.index,
		IndexFormat:   p.indexFormat,
	})
}

func (p *pass) End() {
	p.rec.Ended = true
}
