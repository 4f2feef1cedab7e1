package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackend is the WebGPU implementation of RendererBackend.
type wgpuRendererBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	presentMode   wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	surfaceFormat wgpu.TextureFormat

	// per-frame state, set by BeginFrame and cleared by EndFrame/Present
	frameEncoder *wgpu.CommandEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackend{}

// newWGPURendererBackend creates the instance, surface, adapter, device and queue.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor from the window
//   - forceFallbackAdapter: request a software adapter instead of hardware
//
// Returns:
//   - *wgpuRendererBackend: the backend, surface not yet configured
//   - error: common.ErrEnvironment if no adapter or device is available
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*wgpuRendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
	}
	if surfaceDescriptor == nil {
		w.instance.Release()
		return nil, fmt.Errorf("window has no surface descriptor: %w", common.ErrEnvironment)
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("no WebGPU adapter available: %v: %w", err, common.ErrEnvironment)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Gallery Device",
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("failed to acquire WebGPU device: %v: %w", err, common.ErrEnvironment)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackend) CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(descriptor)
}

func (b *wgpuRendererBackend) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(buffer, offset, data)
}

func (b *wgpuRendererBackend) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return b.device.CreateBindGroupLayout(descriptor)
}

func (b *wgpuRendererBackend) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return b.device.CreateBindGroup(descriptor)
}

func (b *wgpuRendererBackend) CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	return b.device.CreateShaderModule(descriptor)
}

func (b *wgpuRendererBackend) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return b.device.CreatePipelineLayout(descriptor)
}

func (b *wgpuRendererBackend) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return b.device.CreateRenderPipeline(descriptor)
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackend) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackend) BeginFrame() (*wgpu.CommandEncoder, *wgpu.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface image still held from the previous frame must be presented first,
	// otherwise wgpu-native reports "Surface image is already acquired".
	if b.frameSurface != nil {
		return nil, nil, fmt.Errorf("previous frame surface not yet presented: %w", common.ErrLifecycle)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		// outdated, lost or timed out; the surface is reconfigured on the next resize
		return nil, nil, fmt.Errorf("failed to acquire surface texture: %v: %w", err, common.ErrNotReady)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, nil, err
	}

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame Encoder"})
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, nil, err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return encoder, view, nil
}

func (b *wgpuRendererBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return fmt.Errorf("no frame in progress: %w", common.ErrLifecycle)
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return fmt.Errorf("failed to finish frame encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	return nil
}

func (b *wgpuRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
