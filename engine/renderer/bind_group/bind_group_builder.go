package bind_group

// BindGroupBuilderOption is a functional option used to configure a BindGroup during construction.
type BindGroupBuilderOption func(*bindGroup)

// WithEntries appends entries to the bind group, in binding declaration order.
//
// Parameters:
//   - entries: the entries to add
//
// Returns:
//   - BindGroupBuilderOption: a function that adds the entries to this bind group
func WithEntries(entries ...Entry) BindGroupBuilderOption {
	return func(g *bindGroup) {
		g.entries = append(g.entries, entries...)
	}
}
