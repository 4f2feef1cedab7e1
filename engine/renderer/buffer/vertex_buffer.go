package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexAttribute is one per-vertex channel (position, normal, uv...) of f32 or vecNf values.
// Values are flattened: vertex i occupies values[i*components : (i+1)*components].
type VertexAttribute struct {
	components int
	values     []float32
}

// NewVertexAttribute creates a vertex attribute.
//
// Parameters:
//   - components: components per vertex, 1 to 4
//   - values: the flattened per-vertex values
//
// Returns:
//   - VertexAttribute: the attribute
//   - error: common.ErrConfiguration if components is out of range or values is empty or not a
//     whole number of vertices
func NewVertexAttribute(components int, values []float32) (VertexAttribute, error) {
	if components < 1 || components > 4 {
		return VertexAttribute{}, fmt.Errorf("vertex attribute must have 1 to 4 components, got %d: %w", components, common.ErrConfiguration)
	}
	if len(values) == 0 || len(values)%components != 0 {
		return VertexAttribute{}, fmt.Errorf("vertex attribute with %d components cannot hold %d values: %w", components, len(values), common.ErrConfiguration)
	}
	return VertexAttribute{components: components, values: values}, nil
}

// Components returns the number of components per vertex.
func (a VertexAttribute) Components() int {
	return a.components
}

// Count returns the number of vertices.
func (a VertexAttribute) Count() int {
	if a.components == 0 {
		return 0
	}
	return len(a.values) / a.components
}

// ElementSize returns the unpadded size of one vertex's value in bytes.
func (a VertexAttribute) ElementSize() int {
	return a.components * bytesPerComponent
}

// Alignment returns the byte alignment of the attribute within a vertex.
func (a VertexAttribute) Alignment() int {
	return Alignment(a.components)
}

// Format returns the matching wgpu vertex format.
func (a VertexAttribute) Format() wgpu.VertexFormat {
	switch a.components {
	case 1:
		return wgpu.VertexFormatFloat32
	case 2:
		return wgpu.VertexFormatFloat32x2
	case 3:
		return wgpu.VertexFormatFloat32x3
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

// fill writes every vertex value of the attribute at offset within each stride-sized vertex.
func (a VertexAttribute) fill(data []byte, offset, stride int) {
	for i := 0; i < a.Count(); i++ {
		base := i*stride + offset
		for j := 0; j < a.components; j++ {
			at := base + j*bytesPerComponent
			binary.LittleEndian.PutUint32(data[at:at+4], math.Float32bits(a.values[i*a.components+j]))
		}
	}
}

// VertexBuffer stores one interleaved struct per vertex, built from a set of attributes that
// share a vertex count. Attribute i is bound to shader location i.
type VertexBuffer interface {
	// Label returns the debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Count returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	Count() int

	// Offsets returns the byte offset of each attribute within a vertex, in declaration order.
	//
	// Returns:
	//   - []int: one offset per attribute
	Offsets() []int

	// Alignment returns the largest attribute alignment.
	//
	// Returns:
	//   - int: the alignment in bytes
	Alignment() int

	// Stride returns the size of one vertex struct in bytes.
	//
	// Returns:
	//   - int: the stride
	Stride() int

	// Bytes serializes every vertex, little-endian, with padding bytes left zero.
	//
	// Returns:
	//   - []byte: Count() * Stride() bytes
	Bytes() []byte

	// Layout describes the buffer for a render pipeline's vertex state.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the per-vertex layout
	Layout() wgpu.VertexBufferLayout

	// Create allocates the GPU buffer and uploads the vertex data. May be called once.
	//
	// Parameters:
	//   - device: the GPU device
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, or the allocation error
	Create(device Device) error

	// Buffer returns the GPU buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	//   - error: common.ErrNotReady before Create
	Buffer() (*wgpu.Buffer, error)

	// Attach binds the buffer to vertex slot 0 of a render pass.
	//
	// Parameters:
	//   - pass: the active render pass
	//
	// Returns:
	//   - error: common.ErrNotReady before Create
	Attach(pass *wgpu.RenderPassEncoder) error
}

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	label      string
	attributes []VertexAttribute
	layout     structLayout

	buffer *wgpu.Buffer
}

var _ VertexBuffer = &vertexBuffer{}

// NewVertexBuffer creates a vertex buffer description. No GPU memory is allocated until Create.
//
// Parameters:
//   - label: the debug label
//   - attributes: the attributes in shader location order
//
// Returns:
//   - VertexBuffer: the vertex buffer
//   - error: common.ErrConfiguration if there are no attributes or their vertex counts differ
func NewVertexBuffer(label string, attributes ...VertexAttribute) (VertexBuffer, error) {
	if len(attributes) == 0 {
		return nil, fmt.Errorf("vertex buffer %q has no attributes: %w", label, common.ErrConfiguration)
	}
	count := attributes[0].Count()
	members := make([]layoutMember, len(attributes))
	for i, a := range attributes {
		if a.Count() != count {
			return nil, fmt.Errorf("vertex buffer %q attribute %d has %d vertices, expected %d: %w", label, i, a.Count(), count, common.ErrConfiguration)
		}
		members[i] = layoutMember{alignment: a.Alignment(), size: a.ElementSize()}
	}

	return &vertexBuffer{
		label:      label,
		attributes: attributes,
		layout:     computeLayout(members),
	}, nil
}

func (v *vertexBuffer) Label() string {
	return v.label
}

func (v *vertexBuffer) Count() int {
	return v.attributes[0].Count()
}

func (v *vertexBuffer) Offsets() []int {
	return append([]int(nil), v.layout.offsets...)
}

func (v *vertexBuffer) Alignment() int {
	return v.layout.alignment
}

func (v *vertexBuffer) Stride() int {
	return v.layout.size
}

func (v *vertexBuffer) Bytes() []byte {
	data := make([]byte, v.Count()*v.Stride())
	for i, a := range v.attributes {
		a.fill(data, v.layout.offsets[i], v.Stride())
	}
	return data
}

func (v *vertexBuffer) Layout() wgpu.VertexBufferLayout {
	attributes := make([]wgpu.VertexAttribute, len(v.attributes))
	for i, a := range v.attributes {
		attributes[i] = wgpu.VertexAttribute{
			Format:         a.Format(),
			Offset:         uint64(v.layout.offsets[i]),
			ShaderLocation: uint32(i),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Stride()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func (v *vertexBuffer) Create(device Device) error {
	if v.buffer != nil {
		return fmt.Errorf("vertex buffer %q already created: %w", v.label, common.ErrLifecycle)
	}
	data := v.Bytes()
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            v.label + " Vertex Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer %q: %w", v.label, err)
	}
	device.WriteBuffer(buf, 0, data)
	v.buffer = buf
	return nil
}

func (v *vertexBuffer) Buffer() (*wgpu.Buffer, error) {
	if v.buffer == nil {
		return nil, fmt.Errorf("vertex buffer %q used before creation: %w", v.label, common.ErrNotReady)
	}
	return v.buffer, nil
}

func (v *vertexBuffer) Attach(pass *wgpu.RenderPassEncoder) error {
	buf, err := v.Buffer()
	if err != nil {
		return err
	}
	pass.SetVertexBuffer(0, buf, 0, wgpu.WholeSize)
	return nil
}

// MustVertexAttribute is like NewVertexAttribute but panics on error. Use for built-in geometry.
func MustVertexAttribute(components int, values []float32) VertexAttribute {
	a, err := NewVertexAttribute(components, values)
	if err != nil {
		panic(err)
	}
	return a
}
