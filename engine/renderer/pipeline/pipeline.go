package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// DefaultVertexEntryPoint is the vertex entry point of the quad and sphere tracer machines.
	DefaultVertexEntryPoint = "vertex_default"

	// DefaultFragmentEntryPoint is the fragment entry point every sketch defines.
	DefaultFragmentEntryPoint = "fragment_main"
)

// ClearColor is the color every render pass clears to.
var ClearColor = wgpu.Color{R: 0, G: 0, B: 0, A: 1}

// Device is the slice of the GPU device needed to create a render pipeline. *wgpu.Device satisfies it.
type Device interface {
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

// DrawFunc encodes the draw commands of one render pass. The pipeline and bind group are already set.
type DrawFunc func(pass *wgpu.RenderPassEncoder) error

// renderPipeline is the implementation of the RenderPipeline interface.
type renderPipeline struct {
	// label is the unique debug label for this pipeline
	label string

	// vertexEntryPoint and fragmentEntryPoint name the shader functions of each stage
	vertexEntryPoint, fragmentEntryPoint string

	// The following properties configure the pipeline during creation and can be toggled/set with the builder options.

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState

	// The following fields are GPU allocated resources, populated by Create.

	module   *wgpu.ShaderModule
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

// RenderPipeline is a single render pipeline (vertex + fragment) bound to one bind group at @group(0).
// It holds the primitive and color target configuration and runs one render pass per frame.
type RenderPipeline interface {
	// Label returns the debug label of the pipeline.
	//
	// Returns:
	//   - string: the label
	Label() string

	// EntryPoints returns the vertex and fragment entry point names.
	//
	// Returns:
	//   - string: the vertex entry point
	//   - string: the fragment entry point
	EntryPoints() (string, string)

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state applied when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is disabled
	BlendState() *wgpu.BlendState

	// Descriptor builds the render pipeline descriptor for the given resources without touching the GPU.
	//
	// Parameters:
	//   - module: the compiled shader module
	//   - layout: the pipeline layout
	//   - vertexLayouts: the vertex buffer layouts, in slot order
	//   - format: the color target format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, vertexLayouts []wgpu.VertexBufferLayout, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// Create compiles the shader module, then creates the pipeline layout and the render pipeline.
	// May be called once.
	//
	// Parameters:
	//   - device: the GPU device
	//   - s: the assembled shader
	//   - vertexLayouts: the vertex buffer layouts, in slot order
	//   - bindGroupLayout: the layout of the bind group at @group(0)
	//   - format: the color target format
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, common.ErrConfiguration if an entry point
	//     is missing, a *common.CompilationError if the device rejects the shader, or the device error
	Create(device Device, s shader.Shader, vertexLayouts []wgpu.VertexBufferLayout, bindGroupLayout *wgpu.BindGroupLayout, format wgpu.TextureFormat) error

	// Pipeline returns the created render pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline
	//   - error: common.ErrNotReady before Create
	Pipeline() (*wgpu.RenderPipeline, error)

	// Render records exactly one render pass into encoder, targeting view with a black clear.
	// The pipeline and bindGroup (at index 0) are set before draw is called.
	//
	// Parameters:
	//   - encoder: the frame's command encoder
	//   - view: the color attachment
	//   - bindGroup: the bind group for @group(0)
	//   - draw: records the draw commands
	//
	// Returns:
	//   - error: common.ErrNotReady before Create, or the error returned by draw
	Render(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, bindGroup bind_group.BindGroup, draw DrawFunc) error

	// Release releases the GPU objects held by this pipeline.
	Release()
}

var _ RenderPipeline = &renderPipeline{}

// NewRenderPipeline is the entry point to create a new RenderPipeline. No GPU objects are created until Create.
//
// Parameters:
//   - label: the debug label for this pipeline
//   - opts: a variadic list of RenderPipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - RenderPipeline: a new RenderPipeline with the specified configuration
func NewRenderPipeline(label string, opts ...RenderPipelineBuilderOption) RenderPipeline {
	p := &renderPipeline{
		label:              label,
		vertexEntryPoint:   DefaultVertexEntryPoint,
		fragmentEntryPoint: DefaultFragmentEntryPoint,
		blendEnabled:       false,
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *renderPipeline) Label() string {
	return p.label
}

func (p *renderPipeline) EntryPoints() (string, string) {
	return p.vertexEntryPoint, p.fragmentEntryPoint
}

func (p *renderPipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *renderPipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *renderPipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *renderPipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *renderPipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *renderPipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *renderPipeline) Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, vertexLayouts []wgpu.VertexBufferLayout, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     p.BlendState(),
				WriteMask: p.writeMask,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

func (p *renderPipeline) Create(device Device, s shader.Shader, vertexLayouts []wgpu.VertexBufferLayout, bindGroupLayout *wgpu.BindGroupLayout, format wgpu.TextureFormat) error {
	if p.pipeline != nil {
		return fmt.Errorf("pipeline %q already created: %w", p.label, common.ErrLifecycle)
	}
	if !s.HasEntryPoint(shader.ShaderTypeVertex, p.vertexEntryPoint) {
		return fmt.Errorf("pipeline %q: shader %q has no @vertex fn %s: %w", p.label, s.Key(), p.vertexEntryPoint, common.ErrConfiguration)
	}
	if !s.HasEntryPoint(shader.ShaderTypeFragment, p.fragmentEntryPoint) {
		return fmt.Errorf("pipeline %q: shader %q has no @fragment fn %s: %w", p.label, s.Key(), p.fragmentEntryPoint, common.ErrConfiguration)
	}

	module, err := device.CreateShaderModule(s.Module())
	if err != nil {
		return shader.NewCompilationError(s.Key(), s.Source(), err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		module.Release()
		return fmt.Errorf("failed to create pipeline layout %q: %w", p.label, err)
	}

	rp, err := device.CreateRenderPipeline(p.Descriptor(module, layout, vertexLayouts, format))
	if err != nil {
		layout.Release()
		module.Release()
		var compileErr *common.CompilationError
		if errors.As(err, &compileErr) {
			return compileErr
		}
		return fmt.Errorf("failed to create render pipeline %q: %w", p.label, err)
	}

	p.module = module
	p.layout = layout
	p.pipeline = rp
	return nil
}

func (p *renderPipeline) Pipeline() (*wgpu.RenderPipeline, error) {
	if p.pipeline == nil {
		return nil, fmt.Errorf("pipeline %q used before creation: %w", p.label, common.ErrNotReady)
	}
	return p.pipeline, nil
}

func (p *renderPipeline) Render(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, bindGroup bind_group.BindGroup, draw DrawFunc) error {
	rp, err := p.Pipeline()
	if err != nil {
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: p.label + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: ClearColor,
		}},
	})

	pass.SetPipeline(rp)
	if err := bindGroup.Attach(0, pass); err != nil {
		pass.End()
		return err
	}
	if err := draw(pass); err != nil {
		pass.End()
		return fmt.Errorf("pipeline %q draw: %w", p.label, err)
	}
	pass.End()
	return nil
}

func (p *renderPipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
