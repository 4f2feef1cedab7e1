package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Frame is the command encoder and color target of one in-progress frame.
type Frame struct {
	Encoder *wgpu.CommandEncoder
	View    *wgpu.TextureView
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	presentMode   PresentMode
	inFrame       bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
}

// Renderer owns the GPU device and the window surface. It is the device that buffers, bind groups
// and pipelines are created on, and it drives the per-frame encoder lifecycle:
// BeginFrame, record passes, EndFrame (submit), Present.
type Renderer interface {
	buffer.Device
	bind_group.Device
	pipeline.Device

	// Resize reconfigures the surface for a new size. A zero width or height suspends frames
	// until the next non-zero resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// SurfaceFormat returns the color format of the surface, used as the pipeline color target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// PresentMode returns the current present mode.
	//
	// Returns:
	//   - PresentMode: the present mode
	PresentMode() PresentMode

	// SetPresentMode sets the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the surface texture and creates the frame's command encoder.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - Frame: the encoder and the color target view
	//   - error: common.ErrLifecycle if a frame is already in progress, common.ErrNotReady while
	//     the surface has zero size, or the backend error
	BeginFrame() (Frame, error)

	// EndFrame finishes the frame's encoder and submits it to the queue.
	//
	// Returns:
	//   - error: common.ErrLifecycle if no frame is in progress, or the backend error
	EndFrame() error

	// Present presents the submitted frame to the display.
	Present()

	// Release releases every GPU object owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window's surface and configures the surface
// to the window's current size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: common.ErrEnvironment if no adapter or device is available
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.attach(w.Width(), w.Height())
	return r, nil
}

// newRenderer applies options onto a renderer without a backend.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		presentMode: PresentModeVSync,
	}
	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attach pushes the pending configuration into the backend and configures the surface.
func (r *renderer) attach(width, height int) {
	r.backend.SetPresentMode(r.presentMode)
	r.Resize(width, height)
}

func (r *renderer) CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return r.backend.CreateBuffer(descriptor)
}

func (r *renderer) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	r.backend.WriteBuffer(buffer, offset, data)
}

func (r *renderer) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return r.backend.CreateBindGroupLayout(descriptor)
}

func (r *renderer) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return r.backend.CreateBindGroup(descriptor)
}

func (r *renderer) CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	return r.backend.CreateShaderModule(descriptor)
}

func (r *renderer) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return r.backend.CreatePipelineLayout(descriptor)
}

func (r *renderer) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return r.backend.CreateRenderPipeline(descriptor)
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) PresentMode() PresentMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presentMode
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	r.presentMode = mode
	width, height := r.width, r.height
	r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	r.Resize(width, height)
}

func (r *renderer) BeginFrame() (Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFrame {
		return Frame{}, fmt.Errorf("frame already in progress: %w", common.ErrLifecycle)
	}
	if r.width <= 0 || r.height <= 0 {
		return Frame{}, fmt.Errorf("surface is %dx%d: %w", r.width, r.height, common.ErrNotReady)
	}

	encoder, view, err := r.backend.BeginFrame()
	if err != nil {
		return Frame{}, fmt.Errorf("failed to begin frame: %w", err)
	}
	r.inFrame = true
	return Frame{Encoder: encoder, View: view}, nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return fmt.Errorf("no frame in progress: %w", common.ErrLifecycle)
	}
	r.inFrame = false
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
