package bind_group

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Entry is one binding of a bind group. buffer.UniformStruct satisfies it.
type Entry interface {
	// Binding returns the binding index within the group.
	Binding() uint32

	// LayoutEntry describes the binding for the bind group layout.
	LayoutEntry() wgpu.BindGroupLayoutEntry

	// BindGroupEntry binds the created GPU resource. Fails until the resource exists.
	BindGroupEntry() (wgpu.BindGroupEntry, error)
}

// Device is the slice of the GPU device needed to create bind groups. *wgpu.Device satisfies it.
type Device interface {
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
}

// bindGroup is the unexported implementation of BindGroup.
type bindGroup struct {
	// label is a debug label added for convenience.
	label string

	// entries are the bindings in declaration order.
	entries []Entry

	// The following fields are GPU allocated resources, populated by Create.

	// bindGroupLayout is the GPU bind group layout, or nil before Create.
	bindGroupLayout *wgpu.BindGroupLayout
	// bindGroup is the GPU bind group, or nil before Create.
	bindGroup *wgpu.BindGroup
}

// BindGroup binds a set of GPU resources to shader-visible slots of one @group. Entries must be
// created before the bind group is.
//
// Usage pattern:
//  1. Create each entry (e.g. UniformStruct.Create)
//  2. Call Create to build the layout and bind group
//  3. Hand Layout to the pipeline layout
//  4. Call Attach on each render pass
type BindGroup interface {
	// Label returns the debug label for this bind group.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Entries returns the entries in declaration order.
	//
	// Returns:
	//   - []Entry: the entries
	Entries() []Entry

	// LayoutDescriptor builds the layout descriptor from the entries. Available before Create.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// Create creates the bind group layout and the bind group. May be called once.
	//
	// Parameters:
	//   - device: the GPU device
	//
	// Returns:
	//   - error: common.ErrLifecycle if already created, common.ErrNotReady if an entry has not
	//     been created, or the device error
	Create(device Device) error

	// Layout returns the created bind group layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	//   - error: common.ErrNotReady before Create
	Layout() (*wgpu.BindGroupLayout, error)

	// BindGroup returns the created bind group.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	//   - error: common.ErrNotReady before Create
	BindGroup() (*wgpu.BindGroup, error)

	// Attach sets the bind group at a group index of a render pass.
	//
	// Parameters:
	//   - index: the @group index
	//   - pass: the active render pass
	//
	// Returns:
	//   - error: common.ErrNotReady before Create
	Attach(index uint32, pass *wgpu.RenderPassEncoder) error

	// Release releases the GPU objects held by this bind group. The entries are not released.
	Release()
}

// Compile-time check that bindGroup implements BindGroup
var _ BindGroup = &bindGroup{}

// NewBindGroup creates a new BindGroup with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the bind group
//
// Returns:
//   - BindGroup: the bind group
//   - error: common.ErrConfiguration if there are no entries or two share a binding index
func NewBindGroup(label string, options ...BindGroupBuilderOption) (BindGroup, error) {
	g := &bindGroup{label: label}
	for _, opt := range options {
		opt(g)
	}

	if len(g.entries) == 0 {
		return nil, fmt.Errorf("bind group %q has no entries: %w", label, common.ErrConfiguration)
	}
	seen := make(map[uint32]bool, len(g.entries))
	for _, e := range g.entries {
		if seen[e.Binding()] {
			return nil, fmt.Errorf("bind group %q declares binding %d twice: %w", label, e.Binding(), common.ErrConfiguration)
		}
		seen[e.Binding()] = true
	}
	return g, nil
}

func (g *bindGroup) Label() string {
	return g.label
}

func (g *bindGroup) Entries() []Entry {
	return append([]Entry(nil), g.entries...)
}

func (g *bindGroup) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, len(g.entries))
	for i, e := range g.entries {
		entries[i] = e.LayoutEntry()
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   g.label,
		Entries: entries,
	}
}

func (g *bindGroup) Create(device Device) error {
	if g.bindGroup != nil {
		return fmt.Errorf("bind group %q already created: %w", g.label, common.ErrLifecycle)
	}

	entries := make([]wgpu.BindGroupEntry, len(g.entries))
	for i, e := range g.entries {
		entry, err := e.BindGroupEntry()
		if err != nil {
			return fmt.Errorf("bind group %q entry %d: %w", g.label, e.Binding(), err)
		}
		entries[i] = entry
	}

	descriptor := g.LayoutDescriptor()
	layout, err := device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return fmt.Errorf("failed to create bind group layout %q: %w", g.label, err)
	}

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   g.label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group %q: %w", g.label, err)
	}

	g.bindGroupLayout = layout
	g.bindGroup = bg
	return nil
}

func (g *bindGroup) Layout() (*wgpu.BindGroupLayout, error) {
	if g.bindGroupLayout == nil {
		return nil, fmt.Errorf("bind group %q layout used before creation: %w", g.label, common.ErrNotReady)
	}
	return g.bindGroupLayout, nil
}

func (g *bindGroup) BindGroup() (*wgpu.BindGroup, error) {
	if g.bindGroup == nil {
		return nil, fmt.Errorf("bind group %q used before creation: %w", g.label, common.ErrNotReady)
	}
	return g.bindGroup, nil
}

func (g *bindGroup) Attach(index uint32, pass *wgpu.RenderPassEncoder) error {
	bg, err := g.BindGroup()
	if err != nil {
		return err
	}
	pass.SetBindGroup(index, bg, nil)
	return nil
}

func (g *bindGroup) Release() {
	if g.bindGroup != nil {
		g.bindGroup.Release()
		g.bindGroup = nil
	}
	if g.bindGroupLayout != nil {
		g.bindGroupLayout.Release()
		g.bindGroupLayout = nil
	}
}
