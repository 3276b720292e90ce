// Package glbackend implements renderer.Device on an OpenGL 4.1 core
// context presenting to an SDL window.
package glbackend

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
	"github.com/Faultbox/midgard-cube/internal/engine/renderer/glbackend/shaders"
	"github.com/Faultbox/midgard-cube/internal/engine/shader"
	"github.com/Faultbox/midgard-cube/internal/logger"
)

// Surface is the window a Device presents to. Its GL context must be
// current on the calling thread.
type Surface interface {
	DrawableSize() (width, height int)
	SwapBuffers()
	SetSwapInterval(interval int) error
}

// Device is an OpenGL implementation of renderer.Device.
type Device struct {
	surface    Surface
	info       renderer.AdapterInfo
	config     renderer.SurfaceConfig
	configured bool
	log        *zap.Logger
}

var _ renderer.Device = (*Device)(nil)

// Open loads the GL entry points for the surface's current context.
func Open(surface Surface) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		surface: surface,
		log:     logger.Named("gl"),
		info: renderer.AdapterInfo{
			Vendor:  gl.GoStr(gl.GetString(gl.VENDOR)),
			Name:    gl.GoStr(gl.GetString(gl.RENDERER)),
			Backend: "OpenGL",
			Version: gl.GoStr(gl.GetString(gl.VERSION)),
		},
	}

	d.log.Info("OpenGL initialized",
		zap.String("vendor", d.info.Vendor),
		zap.String("renderer", d.info.Name),
		zap.String("version", d.info.Version),
	)
	return d, nil
}

func (d *Device) Info() renderer.AdapterInfo {
	return d.info
}

// SurfaceFormats reports the default framebuffer format.
func (d *Device) SurfaceFormats() []renderer.TextureFormat {
	return []renderer.TextureFormat{renderer.FormatRGBA8Unorm}
}

func (d *Device) ConfigureSurface(cfg renderer.SurfaceConfig) {
	interval := 1
	if cfg.PresentMode == renderer.PresentModeImmediate {
		interval = 0
	}
	if err := d.surface.SetSwapInterval(interval); err != nil {
		d.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	if cfg.Format == renderer.FormatRGBA8UnormSRGB || cfg.Format == renderer.FormatBGRA8UnormSRGB {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	} else {
		gl.Disable(gl.FRAMEBUFFER_SRGB)
	}
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	d.config = cfg
	d.configured = true
}

func (d *Device) CreateBuffer(desc renderer.BufferDesc) (renderer.Buffer, error) {
	if len(desc.Contents) == 0 {
		return nil, fmt.Errorf("buffer %q: no contents", desc.Label)
	}

	b := &buffer{label: desc.Label, size: len(desc.Contents)}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, b.size, gl.Ptr(desc.Contents), glBufferUsage(desc.Usage))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if err := checkError(); err != nil {
		b.Release()
		return nil, fmt.Errorf("buffer %q: %w", desc.Label, err)
	}
	return b, nil
}

func (d *Device) WriteBuffer(b renderer.Buffer, offset int, data []byte) {
	buf, ok := b.(*buffer)
	if !ok || buf.id == 0 || len(data) == 0 {
		return
	}
	if offset < 0 || offset+len(data) > buf.size {
		d.log.Warn("buffer write out of range",
			zap.String("buffer", buf.label),
			zap.Int("offset", offset),
			zap.Int("len", len(data)),
			zap.Int("size", buf.size),
		)
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *Device) CreateTexture(label string, img *image.RGBA) (renderer.Texture, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("texture %q: empty image", label)
	}

	t := &texture{label: label}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y):]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError(); err != nil {
		t.Release()
		return nil, fmt.Errorf("texture %q: %w", label, err)
	}

	d.log.Debug("texture uploaded",
		zap.String("label", label),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
	)
	return t, nil
}

func (d *Device) CreateSampler(desc renderer.SamplerDesc) (renderer.Sampler, error) {
	s := &sampler{label: desc.Label}
	gl.GenSamplers(1, &s.id)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	if err := checkError(); err != nil {
		s.Release()
		return nil, fmt.Errorf("sampler %q: %w", desc.Label, err)
	}
	return s, nil
}

func (d *Device) CreateBindGroupLayout(desc renderer.BindGroupLayoutDesc) (renderer.BindGroupLayout, error) {
	if err := checkLayout(desc); err != nil {
		return nil, err
	}
	entries := make([]renderer.BindGroupLayoutEntry, len(desc.Entries))
	copy(entries, desc.Entries)
	return &bindGroupLayout{label: desc.Label, entries: entries}, nil
}

func (d *Device) CreateBindGroup(desc renderer.BindGroupDesc) (renderer.BindGroup, error) {
	layout, ok := desc.Layout.(*bindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("bind group %q: foreign layout", desc.Label)
	}

	g := &bindGroup{label: desc.Label}
	for _, e := range desc.Entries {
		le, ok := layout.entry(e.Binding)
		if !ok {
			return nil, fmt.Errorf("bind group %q: binding %d not in layout %q", desc.Label, e.Binding, layout.label)
		}
		switch le.Type {
		case renderer.BindingTexture:
			t, ok := e.Texture.(*texture)
			if !ok {
				return nil, fmt.Errorf("bind group %q: binding %d needs a texture", desc.Label, e.Binding)
			}
			g.texture = t
		case renderer.BindingSampler:
			s, ok := e.Sampler.(*sampler)
			if !ok {
				return nil, fmt.Errorf("bind group %q: binding %d needs a sampler", desc.Label, e.Binding)
			}
			g.sampler = s
		case renderer.BindingUniformBuffer:
			b, ok := e.Buffer.(*buffer)
			if !ok {
				return nil, fmt.Errorf("bind group %q: binding %d needs a buffer", desc.Label, e.Binding)
			}
			g.uniforms = append(g.uniforms, uniformEntry{binding: e.Binding, buffer: b})
		}
	}
	if len(desc.Entries) != len(layout.entries) {
		return nil, fmt.Errorf("bind group %q: %d entries for %d layout slots",
			desc.Label, len(desc.Entries), len(layout.entries))
	}
	return g, nil
}

func (d *Device) CreatePipeline(desc renderer.PipelineDesc) (renderer.Pipeline, error) {
	// GLSL stages always enter at main; the module name selects the sources.
	vertSrc, fragSrc, err := shaders.Source(desc.Shader)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", desc.Label, err)
	}
	if desc.SampleCount > 1 {
		return nil, fmt.Errorf("pipeline %q: multisampling not supported", desc.Label)
	}

	program, err := shader.CompileProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", desc.Label, err)
	}

	p := &pipeline{label: desc.Label, program: program, desc: desc}
	for group, l := range desc.BindGroupLayouts {
		layout, ok := l.(*bindGroupLayout)
		if !ok {
			p.Release()
			return nil, fmt.Errorf("pipeline %q: foreign layout at group %d", desc.Label, group)
		}
		for _, e := range layout.entries {
			switch e.Type {
			case renderer.BindingTexture:
				err = shader.BindSampler(program, e.Name, int32(textureUnit(group)))
			case renderer.BindingUniformBuffer:
				err = shader.BindUniformBlock(program, e.Name, uniformBinding(group, e.Binding))
			}
			if err != nil {
				p.Release()
				return nil, fmt.Errorf("pipeline %q: %w", desc.Label, err)
			}
		}
	}

	gl.GenVertexArrays(1, &p.vao)

	if err := checkError(); err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline %q: %w", desc.Label, err)
	}

	d.log.Debug("pipeline created",
		zap.String("label", desc.Label),
		zap.Uint32("program", p.program),
		zap.Uint32("vao", p.vao),
	)
	return p, nil
}

// AcquireFrame checks the default framebuffer can be drawn to at the
// configured size.
func (d *Device) AcquireFrame() (renderer.SurfaceTexture, error) {
	if !d.configured {
		return nil, renderer.ErrSurfaceLost
	}
	if err := checkError(); errors.Is(err, renderer.ErrOutOfMemory) {
		return nil, err
	}
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		return nil, renderer.ErrSurfaceLost
	}

	w, h := d.surface.DrawableSize()
	if w == 0 || h == 0 {
		return nil, renderer.ErrTimeout
	}
	if w != d.config.Width || h != d.config.Height {
		return nil, renderer.ErrOutdated
	}
	return &frame{surface: d.surface}, nil
}

func (d *Device) CreateCommandEncoder(label string) renderer.CommandEncoder {
	return &encoder{label: label, width: d.config.Width, height: d.config.Height}
}

// Submit executes recorded command buffers in order.
func (d *Device) Submit(cmds ...renderer.CommandBuffer) {
	for _, c := range cmds {
		cb, ok := c.(*commandBuffer)
		if !ok {
			continue
		}
		for _, cmd := range cb.cmds {
			cmd()
		}
	}
}

// Release forgets the surface configuration. The GL context belongs to the
// window and is destroyed with it.
func (d *Device) Release() {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	d.configured = false
	d.log.Debug("device released")
}

// checkError drains the GL error queue. GL_OUT_OF_MEMORY maps to
// renderer.ErrOutOfMemory; other codes are reported as a generic error.
func checkError() error {
	var first error
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		var err error
		if code == gl.OUT_OF_MEMORY {
			err = renderer.ErrOutOfMemory
		} else {
			err = fmt.Errorf("GL error 0x%04X", code)
		}
		if first == nil || errors.Is(err, renderer.ErrOutOfMemory) {
			first = err
		}
	}
	return first
}

type frame struct {
	surface Surface
}

func (f *frame) Present() {
	f.surface.SwapBuffers()
}
