package gallery

import (
	"embed"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/machine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
)

//go:embed sketches/*.wgsl
var sketchFiles embed.FS

// Metadata describes one artwork in the gallery.
type Metadata struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Years string `yaml:"years"`
}

// Factory builds a fresh machine for a sketch. Each call returns independent sketch state.
type Factory func() (machine.Machine, error)

// Entry pairs a sketch's metadata with its factory.
type Entry struct {
	Metadata
	New Factory
}

// Registry indexes sketches by id, keeping registration order for listing.
type Registry interface {
	// Register adds a sketch.
	//
	// Parameters:
	//   - entry: the sketch
	//
	// Returns:
	//   - error: common.ErrConfiguration if the id is empty, already taken, or the factory is nil
	Register(entry Entry) error

	// Lookup finds a sketch by id.
	//
	// Parameters:
	//   - id: the sketch id
	//
	// Returns:
	//   - Entry: the sketch
	//   - error: common.ErrConfiguration naming the known ids if there is no such sketch
	Lookup(id string) (Entry, error)

	// List returns the metadata of every sketch in registration order.
	//
	// Returns:
	//   - []Metadata: the gallery listing
	List() []Metadata

	// NewMachine builds the machine of a sketch.
	//
	// Parameters:
	//   - id: the sketch id
	//
	// Returns:
	//   - machine.Machine: a machine ready for Engine
	//   - error: the lookup or construction error
	NewMachine(id string) (machine.Machine, error)
}

// registry is the implementation of the Registry interface.
type registry struct {
	entries []Entry
	byID    map[string]int
}

var _ Registry = &registry{}

// NewRegistry creates a registry holding the given sketches.
//
// Parameters:
//   - entries: the sketches, in listing order
//
// Returns:
//   - Registry: the registry
//   - error: the first Register error
func NewRegistry(entries ...Entry) (Registry, error) {
	r := &registry{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns a registry of the sketches shipped with the gallery.
func Builtin() Registry {
	r, err := NewRegistry(builtinEntries()...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *registry) Register(entry Entry) error {
	if entry.ID == "" || entry.New == nil {
		return fmt.Errorf("sketch %q needs an id and a factory: %w", entry.Title, common.ErrConfiguration)
	}
	if _, taken := r.byID[entry.ID]; taken {
		return fmt.Errorf("sketch id %q registered twice: %w", entry.ID, common.ErrConfiguration)
	}
	r.byID[entry.ID] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *registry) Lookup(id string) (Entry, error) {
	i, ok := r.byID[id]
	if !ok {
		ids := make([]string, len(r.entries))
		for j, e := range r.entries {
			ids[j] = e.ID
		}
		return Entry{}, fmt.Errorf("unknown sketch %q (have %s): %w", id, strings.Join(ids, ", "), common.ErrConfiguration)
	}
	return r.entries[i], nil
}

func (r *registry) List() []Metadata {
	list := make([]Metadata, len(r.entries))
	for i, e := range r.entries {
		list[i] = e.Metadata
	}
	return list
}

func (r *registry) NewMachine(id string) (machine.Machine, error) {
	entry, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	m, err := entry.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build sketch %q: %w", id, err)
	}
	return m, nil
}

// sketchSource returns the embedded WGSL of a sketch.
func sketchSource(name string) shader.LazyShader {
	return shader.NewLazyShader(name, sketchFiles, "sketches/"+name+".wgsl")
}
