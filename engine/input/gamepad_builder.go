package input

// GamepadBuilderOption is a functional option for configuring a gamepad.
// Use the With* functions to create options.
type GamepadBuilderOption func(g *gamepad)

// WithDefaultDeadZone sets the dead zone applied to every axis signal that does not override it.
//
// Parameters:
//   - deadZone: axis magnitudes below this read as 0
//
// Returns:
//   - GamepadBuilderOption: option function to apply
func WithDefaultDeadZone(deadZone float32) GamepadBuilderOption {
	return func(g *gamepad) {
		g.defaultDeadZone = deadZone
	}
}

// AxisOption adjusts a single gamepad axis signal.
type AxisOption func(c *axisConfig)

// WithDeadZone zeroes axis values whose magnitude is below deadZone.
//
// Parameters:
//   - deadZone: the dead zone radius in [0, 1)
//
// Returns:
//   - AxisOption: option function to apply
func WithDeadZone(deadZone float32) AxisOption {
	return func(c *axisConfig) {
		c.deadZone = deadZone
	}
}

// WithFlip negates the axis, e.g. to make stick y point up.
//
// Returns:
//   - AxisOption: option function to apply
func WithFlip() AxisOption {
	return func(c *axisConfig) {
		c.flip = true
	}
}
