package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// IndexBuffer holds uint32 triangle indices for indexed draws.
type IndexBuffer interface {
	// Label returns the debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Count returns the number of indices.
	//
	// Returns:
	//   - int: the index count
	Count() int

	// Bytes serializes the indices little-endian.
	//
	// Returns:
	//   - []byte: 4 bytes per index
	Bytes() []byte

	// Create allocates the GPU buffer and uploads the indices. May be called once.
	//
	// Parameters:
	//   - device: the GPU device
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, or the allocation error
	Create(device Device) error

	// Attach binds the buffer as the index buffer of a render pass.
	//
	// Parameters:
	//   - pass: the active render pass
	//
	// Returns:
	//   - error: common.ErrNotReady before Create
	Attach(pass *wgpu.RenderPassEncoder) error
}

// indexBuffer is the implementation of the IndexBuffer interface.
type indexBuffer struct {
	label   string
	indices []uint32
	buffer  *wgpu.Buffer
}

var _ IndexBuffer = &indexBuffer{}

// NewIndexBuffer creates an index buffer description. No GPU memory is allocated until Create.
//
// Parameters:
//   - label: the debug label
//   - indices: the triangle indices
//
// Returns:
//   - IndexBuffer: the index buffer
//   - error: common.ErrConfiguration if indices is empty
func NewIndexBuffer(label string, indices []uint32) (IndexBuffer, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("index buffer %q has no indices: %w", label, common.ErrConfiguration)
	}
	return &indexBuffer{label: label, indices: indices}, nil
}

func (b *indexBuffer) Label() string {
	return b.label
}

func (b *indexBuffer) Count() int {
	return len(b.indices)
}

func (b *indexBuffer) Bytes() []byte {
	data := make([]byte, len(b.indices)*bytesPerComponent)
	for i, idx := range b.indices {
		binary.LittleEndian.PutUint32(data[i*4:(i+1)*4], idx)
	}
	return data
}

func (b *indexBuffer) Create(device Device) error {
	if b.buffer != nil {
		return fmt.Errorf("index buffer %q already created: %w", b.label, common.ErrLifecycle)
	}
	data := b.Bytes()
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.label + " Index Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create index buffer %q: %w", b.label, err)
	}
	device.WriteBuffer(buf, 0, data)
	b.buffer = buf
	return nil
}

func (b *indexBuffer) Attach(pass *wgpu.RenderPassEncoder) error {
	if b.buffer == nil {
		return fmt.Errorf("index buffer %q used before creation: %w", b.label, common.ErrNotReady)
	}
	pass.SetIndexBuffer(b.buffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	return nil
}
