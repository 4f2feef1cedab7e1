package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `@vertex
fn vertex_default(@builtin(vertex_index) i: u32) -> @builtin(position) vec4f {
    return vec4f(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fragment_main() -> @location(0) vec4f {
    return vec4f(1.0, 0.0, 0.0, 1.0);
}
`

// fakeDevice hands out empty GPU objects, or fails shader module creation with moduleErr.
type fakeDevice struct {
	moduleErr error
	pipelines []wgpu.RenderPipelineDescriptor
	layouts   []wgpu.PipelineLayoutDescriptor
}

func (d *fakeDevice) CreateShaderModule(*wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	if d.moduleErr != nil {
		return nil, d.moduleErr
	}
	return &wgpu.ShaderModule{}, nil
}

func (d *fakeDevice) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	d.layouts = append(d.layouts, *descriptor)
	return &wgpu.PipelineLayout{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	d.pipelines = append(d.pipelines, *descriptor)
	return &wgpu.RenderPipeline{}, nil
}

func compileTestShader(t *testing.T) shader.Shader {
	t.Helper()
	s, err := shader.Compile("test", []string{testSource})
	require.NoError(t, err)
	return s
}

func TestNewRenderPipeline_Defaults(t *testing.T) {
	p := NewRenderPipeline("quad")

	vertex, fragment := p.EntryPoints()
	assert.Equal(t, DefaultVertexEntryPoint, vertex)
	assert.Equal(t, DefaultFragmentEntryPoint, fragment)
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
}

func TestRenderPipeline_Descriptor(t *testing.T) {
	p := NewRenderPipeline("shape",
		WithEntryPoints("vertex_main", "fragment_main"),
		WithCullMode(wgpu.CullModeBack),
		WithBlendEnabled(true),
	)
	layouts := []wgpu.VertexBufferLayout{{ArrayStride: 32}}

	desc := p.Descriptor(nil, nil, layouts, wgpu.TextureFormatBGRA8Unorm)
	assert.Equal(t, "shape", desc.Label)
	assert.Equal(t, "vertex_main", desc.Vertex.EntryPoint)
	assert.Equal(t, layouts, desc.Vertex.Buffers)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fragment_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
	assert.NotNil(t, desc.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
}

func TestRenderPipeline_CreateMissingEntryPoint(t *testing.T) {
	p := NewRenderPipeline("shape", WithEntryPoints("vertex_main", "fragment_main"))
	device := &fakeDevice{}

	err := p.Create(device, compileTestShader(t), nil, &wgpu.BindGroupLayout{}, wgpu.TextureFormatBGRA8Unorm)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.Empty(t, device.pipelines)
}

func TestRenderPipeline_CreateCompilationError(t *testing.T) {
	p := NewRenderPipeline("quad")
	device := &fakeDevice{moduleErr: errors.New("Shader validation error: wgsl:7:12 unknown identifier `colr`")}

	err := p.Create(device, compileTestShader(t), nil, &wgpu.BindGroupLayout{}, wgpu.TextureFormatBGRA8Unorm)
	var compileErr *common.CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, 7, compileErr.Line)
	assert.Equal(t, 12, compileErr.Column)
	assert.Equal(t, "test", compileErr.Label)
}

func TestRenderPipeline_CreateLifecycle(t *testing.T) {
	p := NewRenderPipeline("quad")
	device := &fakeDevice{}

	_, err := p.Pipeline()
	assert.ErrorIs(t, err, common.ErrNotReady)
	assert.ErrorIs(t, p.Render(nil, nil, nil, nil), common.ErrNotReady)

	s := compileTestShader(t)
	require.NoError(t, p.Create(device, s, nil, &wgpu.BindGroupLayout{}, wgpu.TextureFormatBGRA8Unorm))
	require.Len(t, device.layouts, 1)
	assert.Len(t, device.layouts[0].BindGroupLayouts, 1)
	require.Len(t, device.pipelines, 1)
	assert.Equal(t, DefaultVertexEntryPoint, device.pipelines[0].Vertex.EntryPoint)

	rp, err := p.Pipeline()
	require.NoError(t, err)
	assert.NotNil(t, rp)

	assert.ErrorIs(t, p.Create(device, s, nil, &wgpu.BindGroupLayout{}, wgpu.TextureFormatBGRA8Unorm), common.ErrLifecycle)
}
