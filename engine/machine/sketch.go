package machine

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
)

// Sketch is the per-artwork part of a machine: its WGSL source (which declares its own library
// imports with //@oxy:import) and two optional callbacks.
type Sketch struct {
	// Source is the sketch's WGSL. It must define fragment_main, and scene_sdf for the sphere tracer.
	Source shader.LazyShader

	// ConfigureInput is called once before the frame loop. It wires device signals into sketch
	// state and registers the signals to upload with the input system.
	ConfigureInput func(in input.InputSystem) error

	// Update is called once per frame after input is sampled and before uniforms are flushed.
	Update func(time float32)
}
