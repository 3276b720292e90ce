package glbackend

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
)

type buffer struct {
	label string
	id    uint32
	size  int
}

func (b *buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

type texture struct {
	label string
	id    uint32
}

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

type sampler struct {
	label string
	id    uint32
}

func (s *sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

// bindGroupLayout has no GL object; pipelines read it to assign units and
// binding points.
type bindGroupLayout struct {
	label   string
	entries []renderer.BindGroupLayoutEntry
}

func (l *bindGroupLayout) entry(binding int) (renderer.BindGroupLayoutEntry, bool) {
	for _, e := range l.entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return renderer.BindGroupLayoutEntry{}, false
}

func (l *bindGroupLayout) Release() {}

type uniformEntry struct {
	binding int
	buffer  *buffer
}

// bindGroup references resources owned elsewhere; releasing it frees nothing.
type bindGroup struct {
	label    string
	texture  *texture
	sampler  *sampler
	uniforms []uniformEntry
}

func (g *bindGroup) Release() {}

// bind attaches the group's resources at the given group index.
func (g *bindGroup) bind(group int) {
	unit := textureUnit(group)
	if g.texture != nil {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, g.texture.id)
	}
	if g.sampler != nil {
		gl.BindSampler(unit, g.sampler.id)
	}
	for _, u := range g.uniforms {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, uniformBinding(group, u.binding), u.buffer.id)
	}
}

type pipeline struct {
	label   string
	program uint32
	vao     uint32
	desc    renderer.PipelineDesc
}

func (p *pipeline) Release() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// apply binds the program and vertex array and sets fixed-function state.
func (p *pipeline) apply() {
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)

	gl.FrontFace(glFrontFace(p.desc.FrontFace))
	if face, on := glCullFace(p.desc.CullMode); on {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	if p.desc.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	if p.desc.Blend == renderer.BlendAlpha {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// bindVertexBuffer points the pipeline's attributes at b.
func (p *pipeline) bindVertexBuffer(b *buffer) {
	layout := p.desc.VertexLayout
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	for _, a := range layout.Attributes {
		n, typ := glAttribute(a.Format)
		loc := uint32(a.Location)
		gl.VertexAttribPointerWithOffset(loc, n, typ, false, int32(layout.Stride), uintptr(a.Offset))
		gl.EnableVertexAttribArray(loc)
	}
}

type commandBuffer struct {
	cmds []func()
}

// encoder records commands that run when the buffer is submitted.
type encoder struct {
	label  string
	width  int
	height int
	cmds   []func()
}

func (e *encoder) record(cmd func()) {
	e.cmds = append(e.cmds, cmd)
}

func (e *encoder) BeginRenderPass(desc renderer.RenderPassDesc) renderer.RenderPass {
	w, h := int32(e.width), int32(e.height)
	c := desc.ClearColor
	e.record(func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, w, h)
		gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	})
	return &pass{enc: e}
}

func (e *encoder) Finish() renderer.CommandBuffer {
	cb := &commandBuffer{cmds: e.cmds}
	e.cmds = nil
	return cb
}

// pass tracks the bound pipeline and index format while recording.
type pass struct {
	enc       *encoder
	pipeline  *pipeline
	indexType uint32
	indexSize int
}

func (p *pass) SetPipeline(pl renderer.Pipeline) {
	gp, ok := pl.(*pipeline)
	if !ok {
		return
	}
	p.pipeline = gp
	p.enc.record(gp.apply)
}

func (p *pass) SetBindGroup(index int, g renderer.BindGroup) {
	bg, ok := g.(*bindGroup)
	if !ok {
		return
	}
	p.enc.record(func() { bg.bind(index) })
}

// SetVertexBuffer binds b for the current pipeline. Only slot 0 exists.
func (p *pass) SetVertexBuffer(slot int, b renderer.Buffer) {
	buf, ok := b.(*buffer)
	if !ok || slot != 0 || p.pipeline == nil {
		return
	}
	pl := p.pipeline
	p.enc.record(func() { pl.bindVertexBuffer(buf) })
}

func (p *pass) SetIndexBuffer(b renderer.Buffer, format renderer.IndexFormat) {
	buf, ok := b.(*buffer)
	if !ok {
		return
	}
	p.indexType, p.indexSize = glIndexType(format)
	p.enc.record(func() { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.id) })
}

// DrawIndexed draws from the bound index buffer. GL 4.1 has no base
// instance, so firstInstance must be zero.
func (p *pass) DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance int) {
	if p.pipeline == nil || p.indexSize == 0 || firstInstance != 0 {
		return
	}
	mode := glTopology(p.pipeline.desc.Topology)
	typ := p.indexType
	offset := firstIndex * p.indexSize
	p.enc.record(func() {
		gl.DrawElementsInstancedBaseVertex(mode, int32(indexCount), typ,
			gl.PtrOffset(offset), int32(instanceCount), int32(baseVertex))
	})
}

func (p *pass) End() {
	p.enc.record(func() {
		gl.BindVertexArray(0)
		gl.UseProgram(0)
	})
}
