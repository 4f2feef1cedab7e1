package input

import "github.com/Carmen-Shannon/oxy-gallery/engine/window"

// InputSystemBuilderOption is a functional option for configuring an inputSystem.
// Use the With* functions to create options.
type InputSystemBuilderOption func(s *inputSystem)

// WithWindow routes the window's key and pointer callbacks into the keyboard and pointer adapters
// and uses the window's framebuffer size as the pointer canvas size.
//
// Parameters:
//   - w: the window to listen to
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithWindow(w window.Window) InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.window = w
	}
}

// WithCanvasSize overrides how the pointer reads the canvas size.
//
// Parameters:
//   - canvasSize: returns the canvas size in pixels
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithCanvasSize(canvasSize func() (width, height int)) InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.canvasSize = canvasSize
	}
}

// WithGamepadSource sets the poller the gamepad reads from.
//
// Parameters:
//   - source: the gamepad poller
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithGamepadSource(source GamepadSource) InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.gamepadSource = source
	}
}

// WithGLFWGamepads polls gamepads through GLFW and tracks GLFW joystick connect events.
// GLFW must already be initialized, which creating the window does.
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithGLFWGamepads() InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.gamepadSource = NewGLFWGamepadSource()
		s.watchJoysticks = true
	}
}

// WithGamepadDeadZone sets the default dead zone for gamepad axis signals.
//
// Parameters:
//   - deadZone: axis magnitudes below this read as 0
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithGamepadDeadZone(deadZone float32) InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.gamepadDeadZone = deadZone
	}
}

// WithMidiDriver sets the driver RequestMIDI opens.
//
// Parameters:
//   - driver: the MIDI backend
//
// Returns:
//   - InputSystemBuilderOption: option function to apply
func WithMidiDriver(driver MidiDriver) InputSystemBuilderOption {
	return func(s *inputSystem) {
		s.midiDriver = driver
	}
}
