// Package renderer owns the GPU resources for the textured cube and drives
// the per-frame update and render cycle.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cube/internal/engine/camera"
	"github.com/Faultbox/midgard-cube/internal/engine/geometry"
	"github.com/Faultbox/midgard-cube/internal/engine/input"
	"github.com/Faultbox/midgard-cube/internal/logger"
)

// Status is the lifecycle state of a State.
type Status int

const (
	StatusUninitialized Status = iota
	StatusReady
	StatusResizing
	StatusLost
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusResizing:
		return "resizing"
	case StatusLost:
		return "lost"
	case StatusFatal:
		return "fatal"
	}
	return "uninitialized"
}

// Shader module and entry points the pipeline is built from.
const (
	ShaderModule  = "cube"
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Bind group slots as declared by the shader.
const (
	TextureGroup = 0
	CameraGroup  = 1
)

// DefaultClearColor is the background behind the cube.
var DefaultClearColor = Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// DefaultCameraSpeed is the controller step used when none is configured.
const DefaultCameraSpeed = 0.2

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool

	// ClearColor is the background. The zero value selects DefaultClearColor.
	ClearColor Color

	// Camera is the initial camera. Its aspect ratio is replaced by
	// Width/Height. Nil selects camera.New.
	Camera *camera.Camera

	// CameraSpeed is the controller step per update. Zero selects
	// DefaultCameraSpeed.
	CameraSpeed float32
}

// State owns the device connection and every resource needed to draw the
// cube. It is not safe for concurrent use.
type State struct {
	device  Device
	surface SurfaceConfig
	status  Status
	clear   Color

	pipeline   Pipeline
	layouts    []BindGroupLayout
	vertexBuf  Buffer
	indexBuf   Buffer
	numIndices int

	diffuseTexture   Texture
	diffuseSampler   Sampler
	diffuseBindGroup BindGroup

	camera          camera.Camera
	controller      *camera.Controller
	uniform         camera.Uniform
	cameraBuffer    Buffer
	cameraBindGroup BindGroup
}

// New builds the render state on an already negotiated device and uploads
// the texture and cube geometry. On error every resource created so far is
// released and the device is left to the caller.
func New(dev Device, diffuse *image.RGBA, cfg Config) (*State, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", cfg.Width, cfg.Height)
	}
	if diffuse == nil {
		return nil, errors.New("no texture")
	}

	formats := dev.SurfaceFormats()
	if len(formats) == 0 {
		return nil, ErrNoSurfaceFormat
	}

	s := &State{
		device: dev,
		clear:  cfg.ClearColor,
		surface: SurfaceConfig{
			Format:      formats[0],
			Width:       cfg.Width,
			Height:      cfg.Height,
			PresentMode: PresentModeFifo,
		},
		numIndices: geometry.IndexCount,
		controller: camera.NewController(cfg.CameraSpeed),
		uniform:    camera.NewUniform(),
	}
	if !cfg.VSync {
		s.surface.PresentMode = PresentModeImmediate
	}
	if s.clear == (Color{}) {
		s.clear = DefaultClearColor
	}
	if cfg.CameraSpeed <= 0 {
		s.controller.Speed = DefaultCameraSpeed
	}
	if cfg.Camera != nil {
		s.camera = *cfg.Camera
	} else {
		s.camera = *camera.New(1)
	}
	s.camera.Aspect = float32(cfg.Width) / float32(cfg.Height)

	dev.ConfigureSurface(s.surface)

	if err := s.init(diffuse); err != nil {
		s.release()
		return nil, err
	}

	s.status = StatusReady
	info := dev.Info()
	logger.Info("render state ready",
		zap.String("adapter", info.Name),
		zap.String("backend", info.Backend),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync),
	)
	return s, nil
}

func (s *State) init(diffuse *image.RGBA) error {
	dev := s.device
	var err error

	s.diffuseTexture, err = dev.CreateTexture("diffuse_texture", diffuse)
	if err != nil {
		return fmt.Errorf("creating texture: %w", err)
	}
	s.diffuseSampler, err = dev.CreateSampler(SamplerDesc{
		Label:     "diffuse_sampler",
		MagFilter: FilterLinear,
		MinFilter: FilterNearest,
	})
	if err != nil {
		return fmt.Errorf("creating sampler: %w", err)
	}

	textureLayout, err := dev.CreateBindGroupLayout(BindGroupLayoutDesc{
		Label: "texture_bind_group_layout",
		Entries: []BindGroupLayoutEntry{
			{Binding: 0, Visibility: StageFragment, Type: BindingTexture, Name: "t_diffuse"},
			{Binding: 1, Visibility: StageFragment, Type: BindingSampler, Name: "s_diffuse"},
		},
	})
	if err != nil {
		return fmt.Errorf("creating texture layout: %w", err)
	}
	s.layouts = append(s.layouts, textureLayout)

	s.diffuseBindGroup, err = dev.CreateBindGroup(BindGroupDesc{
		Label:  "diffuse_bind_group",
		Layout: textureLayout,
		Entries: []BindGroupEntry{
			{Binding: 0, Texture: s.diffuseTexture},
			{Binding: 1, Sampler: s.diffuseSampler},
		},
	})
	if err != nil {
		return fmt.Errorf("creating texture bind group: %w", err)
	}

	s.uniform.UpdateViewProj(&s.camera)
	s.cameraBuffer, err = dev.CreateBuffer(BufferDesc{
		Label:    "camera_buffer",
		Usage:    BufferUsageUniform | BufferUsageCopyDst,
		Contents: s.uniform.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("creating camera buffer: %w", err)
	}

	cameraLayout, err := dev.CreateBindGroupLayout(BindGroupLayoutDesc{
		Label: "camera_bind_group_layout",
		Entries: []BindGroupLayoutEntry{
			{Binding: 0, Visibility: StageVertex, Type: BindingUniformBuffer, Name: "Camera"},
		},
	})
	if err != nil {
		return fmt.Errorf("creating camera layout: %w", err)
	}
	s.layouts = append(s.layouts, cameraLayout)

	s.cameraBindGroup, err = dev.CreateBindGroup(BindGroupDesc{
		Label:   "camera_bind_group",
		Layout:  cameraLayout,
		Entries: []BindGroupEntry{{Binding: 0, Buffer: s.cameraBuffer}},
	})
	if err != nil {
		return fmt.Errorf("creating camera bind group: %w", err)
	}

	s.pipeline, err = dev.CreatePipeline(PipelineDesc{
		Label:            "render_pipeline",
		Shader:           ShaderModule,
		VertexEntry:      VertexEntry,
		FragmentEntry:    FragmentEntry,
		BindGroupLayouts: []BindGroupLayout{textureLayout, cameraLayout},
		VertexLayout:     geometry.Layout(),
		TargetFormat:     s.surface.Format,
		Topology:         TopologyTriangleList,
		FrontFace:        FrontFaceCCW,
		CullMode:         CullBack,
		SampleCount:      1,
		DepthTest:        false,
		Blend:            BlendReplace,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	s.vertexBuf, err = dev.CreateBuffer(BufferDesc{
		Label:    "vertex_buffer",
		Usage:    BufferUsageVertex,
		Contents: geometry.VertexBytes(),
	})
	if err != nil {
		return fmt.Errorf("creating vertex buffer: %w", err)
	}
	s.indexBuf, err = dev.CreateBuffer(BufferDesc{
		Label:    "index_buffer",
		Usage:    BufferUsageIndex,
		Contents: geometry.IndexBytes(),
	})
	if err != nil {
		return fmt.Errorf("creating index buffer: %w", err)
	}

	return nil
}

// Status returns the current lifecycle state.
func (s *State) Status() Status {
	return s.status
}

// Size returns the configured surface size in physical pixels.
func (s *State) Size() (width, height int) {
	return s.surface.Width, s.surface.Height
}

// Camera returns a copy of the current camera.
func (s *State) Camera() camera.Camera {
	return s.camera
}

// Uniform returns the camera data as last written to the GPU.
func (s *State) Uniform() camera.Uniform {
	return s.uniform
}

// Input forwards an input event to the camera controller and reports
// whether it was consumed.
func (s *State) Input(e input.Event) bool {
	return s.controller.ProcessEvent(e)
}

// Resize reconfigures the surface and camera aspect for a new physical size.
// A zero dimension, seen while minimised, is ignored.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if s.status == StatusFatal || s.status == StatusUninitialized {
		return
	}

	s.status = StatusResizing
	s.surface.Width = width
	s.surface.Height = height
	s.device.ConfigureSurface(s.surface)
	s.camera.Aspect = float32(width) / float32(height)
	s.status = StatusReady

	logger.Debug("surface resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Update applies held movement keys to the camera and uploads the new
// view-projection matrix.
func (s *State) Update() {
	s.controller.UpdateCamera(&s.camera)
	s.uniform.UpdateViewProj(&s.camera)
	s.device.WriteBuffer(s.cameraBuffer, 0, s.uniform.Bytes())
}

// Render draws one frame and presents it.
//
// ErrSurfaceLost leaves the state Lost until the caller calls Resize with
// the current size. ErrOutOfMemory leaves it Fatal. Any other error skips
// the frame without changing state.
func (s *State) Render() error {
	if s.status == StatusFatal || s.status == StatusUninitialized {
		return ErrNotReady
	}

	output, err := s.device.AcquireFrame()
	if err != nil {
		switch {
		case errors.Is(err, ErrSurfaceLost):
			s.status = StatusLost
		case errors.Is(err, ErrOutOfMemory):
			s.status = StatusFatal
		}
		return err
	}

	encoder := s.device.CreateCommandEncoder("render_encoder")
	pass := encoder.BeginRenderPass(RenderPassDesc{
		Label:      "render_pass",
		Target:     output,
		ClearColor: s.clear,
	})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(TextureGroup, s.diffuseBindGroup)
	pass.SetBindGroup(CameraGroup, s.cameraBindGroup)
	pass.SetVertexBuffer(0, s.vertexBuf)
	pass.SetIndexBuffer(s.indexBuf, IndexFormatUint16)
	pass.DrawIndexed(s.numIndices, 1, 0, 0, 0)
	pass.End()

	s.device.Submit(encoder.Finish())
	output.Present()
	return nil
}

// Close releases every GPU resource and the device.
func (s *State) Close() {
	if s.status == StatusUninitialized {
		return
	}
	logger.Info("closing render state")
	s.release()
	s.device.Release()
	s.status = StatusUninitialized
}

// release frees resources in reverse creation order. Missing handles are skipped.
func (s *State) release() {
	for _, r := range []Releaser{
		s.indexBuf,
		s.vertexBuf,
		s.pipeline,
		s.cameraBindGroup,
		s.cameraBuffer,
		s.diffuseBindGroup,
		s.diffuseSampler,
		s.diffuseTexture,
	} {
		if r != nil {
			r.Release()
		}
	}
	for i := len(s.layouts) - 1; i >= 0; i-- {
		s.layouts[i].Release()
	}
	s.indexBuf, s.vertexBuf, s.pipeline = nil, nil, nil
	s.cameraBindGroup, s.cameraBuffer = nil, nil
	s.diffuseBindGroup, s.diffuseSampler, s.diffuseTexture = nil, nil, nil
	s.layouts = nil
}
