package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformMember names one member of a UniformStruct.
type UniformMember struct {
	Name    string
	Uniform Uniform
}

// UniformStruct is one uniform buffer binding: an ordered set of named members packed with WGSL
// struct layout, backed by a single GPU buffer. Only dirty members are re-serialized, and the
// buffer is written at most once per Update.
type UniformStruct interface {
	// Label returns the debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Binding returns the binding index within its bind group.
	//
	// Returns:
	//   - uint32: the binding index
	Binding() uint32

	// Size returns the struct size in bytes.
	//
	// Returns:
	//   - int: the size, rounded up to the largest member alignment
	Size() int

	// Names returns the member names in declaration order.
	//
	// Returns:
	//   - []string: the member names
	Names() []string

	// Offset returns the byte offset of a member.
	//
	// Parameters:
	//   - name: the member name
	//
	// Returns:
	//   - int: the offset in bytes
	//   - error: common.ErrConfiguration if there is no such member
	Offset(name string) (int, error)

	// Uniform returns a member by name for reading or assignment.
	//
	// Parameters:
	//   - name: the member name
	//
	// Returns:
	//   - Uniform: the member
	//   - error: common.ErrConfiguration if there is no such member
	Uniform(name string) (Uniform, error)

	// Bytes returns a copy of the backing bytes as of the last flush.
	//
	// Returns:
	//   - []byte: Size() bytes
	Bytes() []byte

	// Create allocates the GPU buffer and uploads every member. May be called once.
	//
	// Parameters:
	//   - device: the GPU device, retained for later updates
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, or the allocation error
	Create(device Device) error

	// Update flushes dirty members into the backing bytes and, if any were dirty, writes the
	// buffer once.
	//
	// Returns:
	//   - bool: true if a GPU write was issued
	//   - error: common.ErrNotReady before Create
	Update() (bool, error)

	// LayoutEntry describes the binding for a bind group layout.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutEntry: a uniform buffer entry visible to vertex and fragment stages
	LayoutEntry() wgpu.BindGroupLayoutEntry

	// BindGroupEntry binds the GPU buffer for a bind group.
	//
	// Returns:
	//   - wgpu.BindGroupEntry: the entry
	//   - error: common.ErrNotReady before Create
	BindGroupEntry() (wgpu.BindGroupEntry, error)
}

// uniformStruct is the implementation of the UniformStruct interface.
type uniformStruct struct {
	label   string
	binding uint32
	members []UniformMember
	index   map[string]int
	layout  structLayout
	data    []byte

	device Device
	buffer *wgpu.Buffer
}

var _ UniformStruct = &uniformStruct{}

// NewUniformStruct creates a uniform struct. No GPU memory is allocated until Create.
//
// Parameters:
//   - label: the debug label
//   - binding: the binding index within its bind group
//   - members: the members in WGSL declaration order
//
// Returns:
//   - UniformStruct: the uniform struct
//   - error: common.ErrConfiguration if there are no members, a member is nil, or names repeat
func NewUniformStruct(label string, binding uint32, members ...UniformMember) (UniformStruct, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("uniform struct %q has no members: %w", label, common.ErrConfiguration)
	}

	index := make(map[string]int, len(members))
	layoutMembers := make([]layoutMember, len(members))
	for i, m := range members {
		if m.Name == "" || m.Uniform == nil {
			return nil, fmt.Errorf("uniform struct %q member %d needs a name and a value: %w", label, i, common.ErrConfiguration)
		}
		if _, dup := index[m.Name]; dup {
			return nil, fmt.Errorf("uniform struct %q declares %q twice: %w", label, m.Name, common.ErrConfiguration)
		}
		index[m.Name] = i
		layoutMembers[i] = layoutMember{alignment: m.Uniform.Alignment(), size: m.Uniform.Size()}
	}

	l := computeLayout(layoutMembers)
	return &uniformStruct{
		label:   label,
		binding: binding,
		members: append([]UniformMember(nil), members...),
		index:   index,
		layout:  l,
		data:    make([]byte, l.size),
	}, nil
}

func (s *uniformStruct) Label() string {
	return s.label
}

func (s *uniformStruct) Binding() uint32 {
	return s.binding
}

func (s *uniformStruct) Size() int {
	return s.layout.size
}

func (s *uniformStruct) Names() []string {
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.Name
	}
	return names
}

func (s *uniformStruct) Offset(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("uniform struct %q has no member %q: %w", s.label, name, common.ErrConfiguration)
	}
	return s.layout.offsets[i], nil
}

func (s *uniformStruct) Uniform(name string) (Uniform, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("uniform struct %q has no member %q: %w", s.label, name, common.ErrConfiguration)
	}
	return s.members[i].Uniform, nil
}

func (s *uniformStruct) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

func (s *uniformStruct) Create(device Device) error {
	if s.buffer != nil {
		return fmt.Errorf("uniform buffer %q already created: %w", s.label, common.ErrLifecycle)
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            s.label + " Uniform Buffer",
		Size:             uint64(s.layout.size),
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer %q: %w", s.label, err)
	}
	s.device = device
	s.buffer = buf
	_, err = s.Update()
	return err
}

func (s *uniformStruct) Update() (bool, error) {
	if s.buffer == nil {
		return false, fmt.Errorf("uniform buffer %q updated before creation: %w", s.label, common.ErrNotReady)
	}

	written := false
	for i, m := range s.members {
		if !m.Uniform.IsDirty() {
			continue
		}
		offset := s.layout.offsets[i]
		m.Uniform.flush(s.data[offset : offset+m.Uniform.Size()])
		written = true
	}
	if !written {
		return false, nil
	}
	s.device.WriteBuffer(s.buffer, 0, s.data)
	return true, nil
}

func (s *uniformStruct) LayoutEntry() wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    s.binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = uint64(s.layout.size)
	return entry
}

func (s *uniformStruct) BindGroupEntry() (wgpu.BindGroupEntry, error) {
	if s.buffer == nil {
		return wgpu.BindGroupEntry{}, fmt.Errorf("uniform buffer %q bound before creation: %w", s.label, common.ErrNotReady)
	}
	return wgpu.BindGroupEntry{
		Binding: s.binding,
		Buffer:  s.buffer,
		Offset:  0,
		Size:    wgpu.WholeSize,
	}, nil
}
