package machine

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var machineSources = map[string]string{
	shader.MachineQuad: `@vertex
fn vertex_default(@location(0) position: vec2f) -> @builtin(position) vec4f {
    return vec4f(position, 0.0, 1.0);
}
`,
	shader.MachineShape: `@vertex
fn vertex_main(@location(0) position: vec3f) -> @builtin(position) vec4f {
    return vec4f(position, 1.0);
}
`,
	shader.MachineSphereTracer: `fn trace_steps() -> i32 {
    return 64;
}
`,
}

const sketchSource = `@fragment
fn fragment_main() -> @location(0) vec4f {
    return vec4f(1.0, 0.5, 0.0, 1.0);
}
`

// fakeLibrary assembles from machineSources and records the machines it was asked for.
type fakeLibrary struct {
	requested []string
}

func (l *fakeLibrary) Machine(name string) (shader.LazyShader, error) {
	return nil, common.ErrConfiguration
}

func (l *fakeLibrary) Import(name string) (shader.LazyShader, error) {
	return nil, common.ErrConfiguration
}

func (l *fakeLibrary) Imports() []string {
	return nil
}

func (l *fakeLibrary) Assemble(machines []string, sketch shader.LazyShader) ([]string, error) {
	l.requested = append(l.requested, machines...)
	parts := make([]string, 0, len(machines)+1)
	for _, m := range machines {
		parts = append(parts, machineSources[m])
	}
	src, err := sketch.Source()
	if err != nil {
		return nil, err
	}
	return append(parts, src), nil
}

// fakeDevice hands out empty GPU objects and records what was created.
type fakeDevice struct {
	buffers   []wgpu.BufferDescriptor
	writes    int
	pipelines []wgpu.RenderPipelineDescriptor
}

func (d *fakeDevice) CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.buffers = append(d.buffers, *descriptor)
	return &wgpu.Buffer{}, nil
}

func (d *fakeDevice) WriteBuffer(*wgpu.Buffer, uint64, []byte) {
	d.writes++
}

func (d *fakeDevice) CreateShaderModule(*wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	return &wgpu.ShaderModule{}, nil
}

func (d *fakeDevice) CreatePipelineLayout(*wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return &wgpu.PipelineLayout{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	d.pipelines = append(d.pipelines, *descriptor)
	return &wgpu.RenderPipeline{}, nil
}

// bindGroupIface aliases bind_group.BindGroup so embedding it does not create a field named
// BindGroup, which would shadow the interface's BindGroup method.
type bindGroupIface = bind_group.BindGroup

// fakeBindGroup is a bind group that is already created.
type fakeBindGroup struct {
	bindGroupIface
	notReady bool
}

func (g *fakeBindGroup) Layout() (*wgpu.BindGroupLayout, error) {
	if g.notReady {
		return nil, common.ErrNotReady
	}
	return &wgpu.BindGroupLayout{}, nil
}

func testSketch() Sketch {
	fsys := fstest.MapFS{"sketch.wgsl": &fstest.MapFile{Data: []byte(sketchSource)}}
	return Sketch{Source: shader.NewLazyShader("test-sketch", fsys, "sketch.wgsl")}
}

func TestQuadUVs(t *testing.T) {
	basic := QuadUVs(UVModeBasic)
	require.Len(t, basic, QuadVertexCount*2)
	assert.Equal(t, []float32{0, 1}, basic[0:2])
	assert.Equal(t, []float32{1, 0}, basic[10:12])

	centered := QuadUVs(UVModeCentered)
	require.Len(t, centered, QuadVertexCount*2)
	assert.Equal(t, float32(-1), centered[0])
	assert.InDelta(t, 1.4, centered[1], 1e-6)
	assert.InDelta(t, -1.4, centered[11], 1e-6)
	assert.Len(t, QuadPositions, QuadVertexCount*2)
}

func TestQuadVertexBuffer_Layout(t *testing.T) {
	vb, err := QuadVertexBuffer(UVModeBasic)
	require.NoError(t, err)
	assert.Equal(t, QuadVertexCount, vb.Count())
	assert.Equal(t, []int{0, 8}, vb.Offsets())
	assert.Equal(t, 16, vb.Stride())
}

func TestCubeGeometry(t *testing.T) {
	cube := CubeGeometry()

	assert.Equal(t, 24, cube.Positions.Count())
	assert.Equal(t, 24, cube.Normals.Count())
	assert.Equal(t, 24, cube.UVs.Count())
	require.Len(t, cube.Indices, 36)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, cube.Indices[0:6])
	assert.Equal(t, []uint32{20, 21, 22, 22, 23, 20}, cube.Indices[30:36])

	// Every face has a distinct axis-aligned unit normal.
	seen := map[[3]float32]bool{}
	for _, face := range cubeFaces {
		seen[face.normal] = true
	}
	assert.Len(t, seen, 6)
}

func TestCubeGeometry_FacesWindOutward(t *testing.T) {
	for i, face := range cubeFaces {
		a, b, c := cubeCorners[face.corners[0]], cubeCorners[face.corners[1]], cubeCorners[face.corners[2]]
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cross := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		dot := cross[0]*face.normal[0] + cross[1]*face.normal[1] + cross[2]*face.normal[2]
		assert.Greater(t, dot, float32(0), "face %d winds counter-clockwise around its normal", i)
	}
}

func TestNewShapeMachine_IndexOutOfRange(t *testing.T) {
	cube := CubeGeometry()
	cube.Indices = append([]uint32(nil), cube.Indices...)
	cube.Indices[5] = 24

	_, err := NewShapeMachine(testSketch(), cube)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestNewMachine_RequiresSource(t *testing.T) {
	_, err := NewQuadMachine(Sketch{}, UVModeBasic)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestMachines_CreateResources(t *testing.T) {
	tests := []struct {
		name       string
		build      func() (Machine, error)
		libraries  []string
		vertex     string
		cull       wgpu.CullMode
		buffers    int
		hasIndices bool
	}{
		{
			name:      "quad",
			build:     func() (Machine, error) { return NewQuadMachine(testSketch(), UVModeCentered) },
			libraries: []string{shader.MachineQuad},
			vertex:    "vertex_default",
			cull:      wgpu.CullModeNone,
			buffers:   1,
		},
		{
			name:      "sphere tracer",
			build:     func() (Machine, error) { return NewSphereTracerMachine(testSketch()) },
			libraries: []string{shader.MachineQuad, shader.MachineSphereTracer},
			vertex:    "vertex_default",
			cull:      wgpu.CullModeNone,
			buffers:   1,
		},
		{
			name:       "shape",
			build:      func() (Machine, error) { return NewShapeMachine(testSketch(), CubeGeometry()) },
			libraries:  []string{shader.MachineShape},
			vertex:     "vertex_main",
			cull:       wgpu.CullModeBack,
			buffers:    2,
			hasIndices: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, "test-sketch", m.Label())
			assert.Equal(t, tt.hasIndices, m.IndexBuffer() != nil)

			assert.ErrorIs(t, m.ConfigurePasses(nil, nil, nil), common.ErrNotReady)

			library := &fakeLibrary{}
			device := &fakeDevice{}
			require.NoError(t, m.CreateResources(device, library, wgpu.TextureFormatBGRA8Unorm, &fakeBindGroup{}))

			assert.Equal(t, tt.libraries, library.requested)
			assert.Len(t, device.buffers, tt.buffers)
			require.Len(t, device.pipelines, 1)
			assert.Equal(t, tt.vertex, device.pipelines[0].Vertex.EntryPoint)
			assert.Equal(t, "fragment_main", device.pipelines[0].Fragment.EntryPoint)
			assert.Equal(t, tt.cull, device.pipelines[0].Primitive.CullMode)

			err = m.CreateResources(device, library, wgpu.TextureFormatBGRA8Unorm, &fakeBindGroup{})
			assert.ErrorIs(t, err, common.ErrLifecycle)
		})
	}
}

func TestMachine_CreateResourcesNeedsBindGroup(t *testing.T) {
	m, err := NewQuadMachine(testSketch(), UVModeBasic)
	require.NoError(t, err)

	device := &fakeDevice{}
	err = m.CreateResources(device, &fakeLibrary{}, wgpu.TextureFormatBGRA8Unorm, &fakeBindGroup{notReady: true})
	assert.ErrorIs(t, err, common.ErrNotReady)
	assert.Empty(t, device.buffers)
}

func TestMachine_Callbacks(t *testing.T) {
	var configured bool
	var times []float32
	sketch := testSketch()
	sketch.ConfigureInput = func(in input.InputSystem) error {
		configured = true
		return nil
	}
	sketch.Update = func(time float32) {
		times = append(times, time)
	}

	m, err := NewQuadMachine(sketch, UVModeBasic)
	require.NoError(t, err)
	require.NoError(t, m.ConfigureInput(nil))
	m.Update(0.5)
	m.Update(1.0)

	assert.True(t, configured)
	assert.Equal(t, []float32{0.5, 1.0}, times)
}

func TestMachine_CallbacksOptional(t *testing.T) {
	m, err := NewSphereTracerMachine(testSketch())
	require.NoError(t, err)
	assert.NoError(t, m.ConfigureInput(nil))
	m.Update(1)
}

func TestMachine_ConfigureInputError(t *testing.T) {
	boom := errors.New("too many signals")
	sketch := testSketch()
	sketch.ConfigureInput = func(input.InputSystem) error { return boom }

	m, err := NewQuadMachine(sketch, UVModeBasic)
	require.NoError(t, err)
	assert.ErrorIs(t, m.ConfigureInput(nil), boom)
}
