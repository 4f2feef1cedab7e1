// Package machine implements the three rendering machines a sketch runs on: a full-screen quad,
// an indexed shape, and a sphere tracer over a signed distance field.
package machine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// MachineType identifies a machine variant.
type MachineType int

const (
	MachineTypeQuad MachineType = iota
	MachineTypeShape
	MachineTypeSphereTracer
)

func (t MachineType) String() string {
	switch t {
	case MachineTypeQuad:
		return "quad"
	case MachineTypeShape:
		return "shape"
	case MachineTypeSphereTracer:
		return "sphere_tracer"
	default:
		return fmt.Sprintf("MachineType(%d)", int(t))
	}
}

// Device is the slice of the GPU a machine creates its resources on. The renderer satisfies it.
type Device interface {
	buffer.Device
	pipeline.Device
}

// machine is the implementation of the Machine interface shared by every variant.
type machine struct {
	machineType MachineType
	label       string
	sketch      Sketch

	// libraries are the machine library names prepended to the sketch source, in order
	libraries []string

	vertexBuffer buffer.VertexBuffer
	indexBuffer  buffer.IndexBuffer
	pipeline     pipeline.RenderPipeline

	compileOptions  []shader.CompileOption
	pipelineOptions []pipeline.RenderPipelineBuilderOption

	created bool
}

// Machine owns the geometry and render pipeline of one sketch and records its render pass.
//
// Usage pattern:
//  1. CreateResources once, after the engine's bind group exists
//  2. ConfigureInput once
//  3. Each frame: Update, then (after the uniform flush) ConfigurePasses
type Machine interface {
	// Type returns the machine variant.
	//
	// Returns:
	//   - MachineType: the variant
	Type() MachineType

	// Label returns the debug label, derived from the sketch name.
	//
	// Returns:
	//   - string: the label
	Label() string

	// VertexBuffer returns the machine's vertex buffer.
	//
	// Returns:
	//   - buffer.VertexBuffer: the vertex buffer
	VertexBuffer() buffer.VertexBuffer

	// IndexBuffer returns the machine's index buffer, or nil for non-indexed machines.
	//
	// Returns:
	//   - buffer.IndexBuffer: the index buffer or nil
	IndexBuffer() buffer.IndexBuffer

	// Pipeline returns the machine's render pipeline.
	//
	// Returns:
	//   - pipeline.RenderPipeline: the render pipeline
	Pipeline() pipeline.RenderPipeline

	// CreateResources uploads the geometry, assembles and compiles the shader, and creates the
	// render pipeline against the bind group's layout. May be called once.
	//
	// Parameters:
	//   - device: the GPU device
	//   - library: the shader library providing machine and import sources
	//   - format: the surface color format
	//   - bindGroup: the engine's created per-frame bind group
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, a *common.CompilationError if the shader
	//     fails to compile, or any creation error
	CreateResources(device Device, library shader.Library, format wgpu.TextureFormat, bindGroup bind_group.BindGroup) error

	// ConfigureInput passes the input system to the sketch's ConfigureInput callback, if any.
	//
	// Parameters:
	//   - in: the input system
	//
	// Returns:
	//   - error: the callback's error
	ConfigureInput(in input.InputSystem) error

	// Update passes the frame time to the sketch's Update callback, if any.
	//
	// Parameters:
	//   - time: seconds since the frame loop started
	Update(time float32)

	// ConfigurePasses records the machine's single render pass.
	//
	// Parameters:
	//   - encoder: the frame's command encoder
	//   - view: the color target
	//   - bindGroup: the engine's per-frame bind group
	//
	// Returns:
	//   - error: common.ErrNotReady before CreateResources
	ConfigurePasses(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, bindGroup bind_group.BindGroup) error
}

var _ Machine = &machine{}

// NewQuadMachine creates a machine drawing a full-screen quad with the sketch's fragment shader.
//
// Parameters:
//   - sketch: the sketch
//   - uvMode: the quad UV mode
//   - options: functional options to configure the machine
//
// Returns:
//   - Machine: the machine
//   - error: common.ErrConfiguration if the sketch has no source
func NewQuadMachine(sketch Sketch, uvMode UVMode, options ...MachineBuilderOption) (Machine, error) {
	vb, err := QuadVertexBuffer(uvMode)
	if err != nil {
		return nil, err
	}
	m, err := newMachine(MachineTypeQuad, sketch, []string{shader.MachineQuad}, vb, nil, options...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewSphereTracerMachine creates a quad machine with centered UVs and the sphere tracer library.
// The sketch must define scene_sdf.
//
// Parameters:
//   - sketch: the sketch
//   - options: functional options to configure the machine
//
// Returns:
//   - Machine: the machine
//   - error: common.ErrConfiguration if the sketch has no source
func NewSphereTracerMachine(sketch Sketch, options ...MachineBuilderOption) (Machine, error) {
	vb, err := QuadVertexBuffer(UVModeCentered)
	if err != nil {
		return nil, err
	}
	m, err := newMachine(MachineTypeSphereTracer, sketch, []string{shader.MachineQuad, shader.MachineSphereTracer}, vb, nil, options...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewShapeMachine creates a machine drawing indexed geometry with position, normal and uv
// attributes at locations 0, 1 and 2. Back faces are culled; front faces wind counter-clockwise.
//
// Parameters:
//   - sketch: the sketch
//   - geometry: the shape to draw
//   - options: functional options to configure the machine
//
// Returns:
//   - Machine: the machine
//   - error: common.ErrConfiguration if the geometry is malformed or the sketch has no source
func NewShapeMachine(sketch Sketch, geometry ShapeGeometry, options ...MachineBuilderOption) (Machine, error) {
	vb, err := buffer.NewVertexBuffer("shape_vertices", geometry.Positions, geometry.Normals, geometry.UVs)
	if err != nil {
		return nil, err
	}
	ib, err := buffer.NewIndexBuffer("shape_indices", geometry.Indices)
	if err != nil {
		return nil, err
	}
	for _, idx := range geometry.Indices {
		if int(idx) >= vb.Count() {
			return nil, fmt.Errorf("shape index %d out of range for %d vertices: %w", idx, vb.Count(), common.ErrConfiguration)
		}
	}

	shapeDefaults := []MachineBuilderOption{
		WithPipelineOptions(
			pipeline.WithEntryPoints("vertex_main", pipeline.DefaultFragmentEntryPoint),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		),
	}
	m, err := newMachine(MachineTypeShape, sketch, []string{shader.MachineShape}, vb, ib, append(shapeDefaults, options...)...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newMachine(t MachineType, sketch Sketch, libraries []string, vb buffer.VertexBuffer, ib buffer.IndexBuffer, options ...MachineBuilderOption) (*machine, error) {
	if sketch.Source == nil {
		return nil, fmt.Errorf("%s machine sketch has no source: %w", t, common.ErrConfiguration)
	}
	m := &machine{
		machineType:  t,
		label:        sketch.Source.Name(),
		sketch:       sketch,
		libraries:    libraries,
		vertexBuffer: vb,
		indexBuffer:  ib,
	}
	for _, opt := range options {
		opt(m)
	}
	m.pipeline = pipeline.NewRenderPipeline(m.label, m.pipelineOptions...)
	return m, nil
}

func (m *machine) Type() MachineType {
	return m.machineType
}

func (m *machine) Label() string {
	return m.label
}

func (m *machine) VertexBuffer() buffer.VertexBuffer {
	return m.vertexBuffer
}

func (m *machine) IndexBuffer() buffer.IndexBuffer {
	return m.indexBuffer
}

func (m *machine) Pipeline() pipeline.RenderPipeline {
	return m.pipeline
}

func (m *machine) CreateResources(device Device, library shader.Library, format wgpu.TextureFormat, bindGroup bind_group.BindGroup) error {
	if m.created {
		return fmt.Errorf("machine %q resources already created: %w", m.label, common.ErrLifecycle)
	}

	layout, err := bindGroup.Layout()
	if err != nil {
		return err
	}

	if err := m.vertexBuffer.Create(device); err != nil {
		return err
	}
	if m.indexBuffer != nil {
		if err := m.indexBuffer.Create(device); err != nil {
			return err
		}
	}

	parts, err := library.Assemble(m.libraries, m.sketch.Source)
	if err != nil {
		return fmt.Errorf("machine %q: %w", m.label, err)
	}
	s, err := shader.Compile(m.label, parts, m.compileOptions...)
	if err != nil {
		return err
	}

	if err := m.pipeline.Create(device, s, []wgpu.VertexBufferLayout{m.vertexBuffer.Layout()}, layout, format); err != nil {
		return err
	}
	m.created = true
	return nil
}

func (m *machine) ConfigureInput(in input.InputSystem) error {
	if m.sketch.ConfigureInput == nil {
		return nil
	}
	if err := m.sketch.ConfigureInput(in); err != nil {
		return fmt.Errorf("sketch %q input: %w", m.label, err)
	}
	return nil
}

func (m *machine) Update(time float32) {
	if m.sketch.Update != nil {
		m.sketch.Update(time)
	}
}

func (m *machine) ConfigurePasses(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, bindGroup bind_group.BindGroup) error {
	if !m.created {
		return fmt.Errorf("machine %q rendered before its resources were created: %w", m.label, common.ErrNotReady)
	}
	return m.pipeline.Render(encoder, view, bindGroup, m.draw)
}

// draw binds the geometry and issues the single draw call.
func (m *machine) draw(pass *wgpu.RenderPassEncoder) error {
	if err := m.vertexBuffer.Attach(pass); err != nil {
		return err
	}
	if m.indexBuffer == nil {
		pass.Draw(uint32(m.vertexBuffer.Count()), 1, 0, 0)
		return nil
	}
	if err := m.indexBuffer.Attach(pass); err != nil {
		return err
	}
	pass.DrawIndexed(uint32(m.indexBuffer.Count()), 1, 0, 0, 0)
	return nil
}
