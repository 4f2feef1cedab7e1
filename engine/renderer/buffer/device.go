// Package buffer packs vertex, index and uniform data into GPU-aligned byte buffers.
//
// Layout follows the WGSL alignment rules for f32 and vecN types: a member with 3 components is
// aligned as if it had 4, each member's offset is rounded up to its own alignment, and the total
// struct size is rounded up to the largest member alignment.
package buffer

import "github.com/cogentcore/webgpu/wgpu"

// bytesPerComponent is the size of every supported scalar (f32, u32, i32).
const bytesPerComponent = 4

// Device is the slice of the GPU device the buffer types need. The renderer satisfies it with the
// real device and queue.
type Device interface {
	// CreateBuffer allocates a GPU buffer.
	//
	// Parameters:
	//   - descriptor: label, size and usage of the buffer
	//
	// Returns:
	//   - *wgpu.Buffer: the new buffer
	//   - error: error if allocation fails
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)

	// WriteBuffer enqueues a write of data into buffer at offset.
	//
	// Parameters:
	//   - buffer: the destination buffer (created with BufferUsageCopyDst)
	//   - offset: byte offset into buffer
	//   - data: the bytes to copy
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)
}
