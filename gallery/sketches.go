package gallery

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/machine"
)

func builtinEntries() []Entry {
	return []Entry{
		{Metadata: Metadata{ID: "meltaway", Title: "Meltaway", Years: "2025"}, New: NewMeltaway},
		{Metadata: Metadata{ID: "sun-and-moon", Title: "Sun and Moon", Years: "2025"}, New: NewSunAndMoon},
		{Metadata: Metadata{ID: "eyes", Title: "Eyes", Years: "2025"}, New: NewEyes},
		{Metadata: Metadata{ID: "boolean-color", Title: "Boolean Color", Years: "2025"}, New: NewBooleanColor},
		{Metadata: Metadata{ID: "srgb-cube", Title: "sRGB Cube", Years: "2025"}, New: NewSRGBCube},
	}
}

// NewSunAndMoon builds the Sun and Moon sketch: a centered quad with no input.
func NewSunAndMoon() (machine.Machine, error) {
	return machine.NewQuadMachine(machine.Sketch{
		Source: sketchSource("sun_and_moon"),
	}, machine.UVModeCentered, machine.WithLabel("sun-and-moon"))
}

// NewMeltaway builds the Meltaway sketch on the sphere tracer.
func NewMeltaway() (machine.Machine, error) {
	return machine.NewSphereTracerMachine(machine.Sketch{
		Source: sketchSource("meltaway"),
	}, machine.WithLabel("meltaway"))
}

// NewSRGBCube builds the sRGB Cube sketch on the shape machine with the unit cube.
func NewSRGBCube() (machine.Machine, error) {
	return machine.NewShapeMachine(machine.Sketch{
		Source: sketchSource("srgb_cube"),
	}, machine.CubeGeometry(), machine.WithLabel("srgb-cube"))
}

// NewBooleanColor builds the Boolean Color sketch.
func NewBooleanColor() (machine.Machine, error) {
	b := newBooleanColor()
	return machine.NewQuadMachine(machine.Sketch{
		Source:         sketchSource("boolean_color"),
		ConfigureInput: b.configureInput,
		Update:         b.update,
	}, machine.UVModeCentered, machine.WithLabel("boolean-color"))
}

// NewEyes builds the Eyes sketch.
func NewEyes() (machine.Machine, error) {
	e := newEyes()
	return machine.NewQuadMachine(machine.Sketch{
		Source:         sketchSource("eyes"),
		ConfigureInput: e.configureInput,
		Update:         e.update,
	}, machine.UVModeCentered, machine.WithLabel("eyes"))
}
