// Package input owns the device adapters (keyboard, gamepad, pointer, MIDI) and the registry of
// signals that are uploaded to the shader's input uniform every frame.
package input

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
)

const (
	// MaxDigitalSignals is the number of digital slots in the input uniform (array<vec4u, 2>).
	MaxDigitalSignals = 8

	// MaxAnalogSignals is the number of analog slots in the input uniform (array<vec4f, 4>).
	MaxAnalogSignals = 16
)

// InputSystem owns one instance of every device adapter and the signals a sketch registered for
// upload. There is no package-level input state; everything hangs off this value.
type InputSystem interface {
	// Keyboard returns the keyboard adapter.
	//
	// Returns:
	//   - Keyboard: the keyboard adapter
	Keyboard() Keyboard

	// Gamepad returns the gamepad adapter.
	//
	// Returns:
	//   - Gamepad: the gamepad adapter
	Gamepad() Gamepad

	// Pointer returns the pointer adapter.
	//
	// Returns:
	//   - Pointer: the pointer adapter
	Pointer() Pointer

	// Midi returns the MIDI adapter.
	//
	// Returns:
	//   - Midi: the MIDI adapter
	Midi() Midi

	// RequestMIDI opts in to MIDI input using the driver configured with WithMidiDriver.
	// Unavailability is logged, not returned.
	RequestMIDI()

	// RegisterDigital appends signals to the digital slots of the input uniform, in order.
	//
	// Parameters:
	//   - signals: the signals to upload each frame
	//
	// Returns:
	//   - error: common.ErrConfiguration if more than MaxDigitalSignals would be registered
	RegisterDigital(signals ...signal.Digital) error

	// RegisterAnalog appends signals to the analog slots of the input uniform, in order.
	//
	// Parameters:
	//   - signals: the signals to upload each frame
	//
	// Returns:
	//   - error: common.ErrConfiguration if more than MaxAnalogSignals would be registered
	RegisterAnalog(signals ...signal.Analog) error

	// Update advances input by one frame: it polls the gamepad, updates every registered signal
	// once, then samples them into the packed slot values.
	//
	// Parameters:
	//   - time: the frame time in seconds
	//
	// Returns:
	//   - error: a gamepad lifecycle error; fatal for the frame loop
	Update(time float32) error

	// DigitalValues returns the packed digital slots, 1 for true and 0 for false.
	// Unregistered slots read 0.
	//
	// Returns:
	//   - []uint32: MaxDigitalSignals values, valid until the next Update
	DigitalValues() []uint32

	// AnalogValues returns the packed analog slots. Unregistered slots read 0.
	//
	// Returns:
	//   - []float32: MaxAnalogSignals values, valid until the next Update
	AnalogValues() []float32

	// Close releases device resources (the MIDI driver).
	Close()
}

// inputSystem is the implementation of the InputSystem interface.
type inputSystem struct {
	keyboard Keyboard
	gamepad  *gamepad
	pointer  Pointer
	midi     Midi

	gamepadSource   GamepadSource
	gamepadDeadZone float32
	watchJoysticks  bool
	midiDriver      MidiDriver
	canvasSize      func() (int, int)
	window          window.Window

	digital []signal.Digital
	analog  []signal.Analog

	digitalValues [MaxDigitalSignals]uint32
	analogValues  [MaxAnalogSignals]float32
}

var _ InputSystem = &inputSystem{}

// NewInputSystem creates an InputSystem with the specified options.
// Device adapters are created after the options apply so they pick up the configured sources.
//
// Parameters:
//   - options: functional options to configure the input system
//
// Returns:
//   - InputSystem: the input system
func NewInputSystem(options ...InputSystemBuilderOption) InputSystem {
	s := &inputSystem{}
	for _, opt := range options {
		opt(s)
	}

	if s.canvasSize == nil && s.window != nil {
		s.canvasSize = func() (int, int) { return s.window.Width(), s.window.Height() }
	}
	s.keyboard = NewKeyboard()
	s.gamepad = NewGamepad(s.gamepadSource, WithDefaultDeadZone(s.gamepadDeadZone)).(*gamepad)
	s.pointer = NewPointer(s.canvasSize)
	s.midi = NewMidi()

	if s.window != nil {
		s.bindWindow(s.window)
	}
	if s.watchJoysticks {
		watchGLFWJoysticks(s.gamepad)
	}
	return s
}

// bindWindow routes the window's keyboard and pointer callbacks into the device adapters.
func (s *inputSystem) bindWindow(w window.Window) {
	w.SetKeyDownCallback(s.keyboard.KeyDown)
	w.SetKeyUpCallback(s.keyboard.KeyUp)
	w.SetPointerDownCallback(s.pointer.PointerDown)
	w.SetPointerUpCallback(s.pointer.PointerUp)
	w.SetPointerMoveCallback(s.pointer.PointerMove)
	w.SetPointerLeaveCallback(s.pointer.PointerLeave)
}

func (s *inputSystem) Keyboard() Keyboard {
	return s.keyboard
}

func (s *inputSystem) Gamepad() Gamepad {
	return s.gamepad
}

func (s *inputSystem) Pointer() Pointer {
	return s.pointer
}

func (s *inputSystem) Midi() Midi {
	return s.midi
}

func (s *inputSystem) RequestMIDI() {
	s.midi.RequestMIDI(s.midiDriver)
}

func (s *inputSystem) RegisterDigital(signals ...signal.Digital) error {
	if len(s.digital)+len(signals) > MaxDigitalSignals {
		return fmt.Errorf("cannot register %d digital signals, %d of %d slots in use: %w",
			len(signals), len(s.digital), MaxDigitalSignals, common.ErrConfiguration)
	}
	s.digital = append(s.digital, signals...)
	return nil
}

func (s *inputSystem) RegisterAnalog(signals ...signal.Analog) error {
	if len(s.analog)+len(signals) > MaxAnalogSignals {
		return fmt.Errorf("cannot register %d analog signals, %d of %d slots in use: %w",
			len(signals), len(s.analog), MaxAnalogSignals, common.ErrConfiguration)
	}
	s.analog = append(s.analog, signals...)
	return nil
}

func (s *inputSystem) Update(time float32) error {
	if err := s.gamepad.Update(); err != nil {
		return fmt.Errorf("failed to poll gamepad: %w", err)
	}

	for i, sig := range s.digital {
		sig.Update(time)
		if sig.Value() {
			s.digitalValues[i] = 1
		} else {
			s.digitalValues[i] = 0
		}
	}
	for i, sig := range s.analog {
		sig.Update(time)
		s.analogValues[i] = sig.Value()
	}
	return nil
}

func (s *inputSystem) DigitalValues() []uint32 {
	return s.digitalValues[:]
}

func (s *inputSystem) AnalogValues() []float32 {
	return s.analogValues[:]
}

func (s *inputSystem) Close() {
	s.midi.Close()
}
