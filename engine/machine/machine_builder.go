package machine

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
)

// MachineBuilderOption is a functional option used to configure a Machine during construction.
type MachineBuilderOption func(*machine)

// WithCompileOptions passes options to shader.Compile when the machine's shader is built.
//
// Parameters:
//   - options: the compile options
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithCompileOptions(options ...shader.CompileOption) MachineBuilderOption {
	return func(m *machine) {
		m.compileOptions = append(m.compileOptions, options...)
	}
}

// WithPipelineOptions configures the machine's render pipeline. Options apply after the variant's
// defaults, so they can override them.
//
// Parameters:
//   - options: the render pipeline options
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithPipelineOptions(options ...pipeline.RenderPipelineBuilderOption) MachineBuilderOption {
	return func(m *machine) {
		m.pipelineOptions = append(m.pipelineOptions, options...)
	}
}

// WithLabel overrides the debug label, which defaults to the sketch source name.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithLabel(label string) MachineBuilderOption {
	return func(m *machine) {
		m.label = label
	}
}
