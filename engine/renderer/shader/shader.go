package shader

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies a render pipeline stage.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key         string
	source      string
	entryPoints map[ShaderType][]string
	bindings    []Binding
	module      *wgpu.ShaderModuleDescriptor
}

// Shader is one assembled and front-end checked WGSL module: the machine library, the sketch's
// imports and the sketch itself, concatenated in that order. It is produced by Compile.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the assembled WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoints returns the entry point names declared for a stage, in source order.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - []string: the entry point names
	EntryPoints(stage ShaderType) []string

	// HasEntryPoint reports whether the source declares the named entry point for a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//   - name: the entry point function name
	//
	// Returns:
	//   - bool: true if declared
	HasEntryPoint(stage ShaderType, name string) bool

	// Bindings returns every @group/@binding declaration in the source.
	//
	// Returns:
	//   - []Binding: the declarations sorted by group and binding
	Bindings() []Binding

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

func newShader(key, source string) *shader {
	return &shader{
		key:         key,
		source:      source,
		entryPoints: parseEntryPoints(source),
		bindings:    parseBindings(source),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoints(stage ShaderType) []string {
	return slices.Clone(s.entryPoints[stage])
}

func (s *shader) HasEntryPoint(stage ShaderType, name string) bool {
	return slices.Contains(s.entryPoints[stage], name)
}

func (s *shader) Bindings() []Binding {
	return slices.Clone(s.bindings)
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
