package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// ParsePresentMode parses "vsync" or "uncapped" (case-insensitive).
//
// Parameters:
//   - s: the mode name
//
// Returns:
//   - PresentMode: the mode
//   - error: common.ErrConfiguration for any other name
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vsync":
		return PresentModeVSync, nil
	case "uncapped":
		return PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("unknown present mode %q: %w", s, common.ErrConfiguration)
	}
}

// RendererBackend is the GPU API behind the Renderer: resource creation on the device and queue,
// plus the surface and per-frame command submission.
type RendererBackend interface {
	// CreateBuffer allocates a GPU buffer.
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)

	// WriteBuffer enqueues a write of data into buffer at offset.
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)

	// CreateBindGroup creates a bind group.
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)

	// CreateShaderModule compiles a WGSL module.
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)

	// CreatePipelineLayout creates a pipeline layout.
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)

	// ConfigureSurface (re)configures the surface for the given size in pixels.
	ConfigureSurface(width, height int)

	// SurfaceFormat returns the color format chosen by the last ConfigureSurface.
	SurfaceFormat() wgpu.TextureFormat

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the surface texture and creates a command encoder for the frame.
	BeginFrame() (*wgpu.CommandEncoder, *wgpu.TextureView, error)

	// EndFrame finishes the frame's command encoder and submits it to the queue.
	EndFrame() error

	// Present presents the acquired surface texture and releases it.
	Present()

	// Release releases the device, adapter, surface and instance.
	Release()
}
