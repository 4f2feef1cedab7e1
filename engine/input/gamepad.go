package input

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/chewxy/math32"
)

// GamepadButton indexes a button in the standard gamepad layout.
type GamepadButton int

const (
	GamepadA GamepadButton = iota
	GamepadB
	GamepadX
	GamepadY
	GamepadLeftBumper
	GamepadRightBumper
	GamepadLeftTrigger
	GamepadRightTrigger
	GamepadBack
	GamepadStart
	GamepadLeftStick
	GamepadRightStick
	GamepadUp
	GamepadDown
	GamepadLeft
	GamepadRight
	GamepadGuide

	// GamepadButtonCount is the number of buttons in the standard layout.
	GamepadButtonCount
)

// GamepadAxis indexes a stick axis in the standard gamepad layout.
// Stick y axes report +1 when pushed down.
type GamepadAxis int

const (
	GamepadLeftX GamepadAxis = iota
	GamepadLeftY
	GamepadRightX
	GamepadRightY

	// GamepadAxisCount is the number of axes in the standard layout.
	GamepadAxisCount
)

// GamepadState is one polled snapshot of a gamepad.
type GamepadState struct {
	// Pressed holds the digital state of every button.
	Pressed [GamepadButtonCount]bool

	// Values holds the analog state of every button in [0, 1].
	Values [GamepadButtonCount]float32

	// Axes holds the stick axes in [-1, 1].
	Axes [GamepadAxisCount]float32
}

// GamepadSource polls the platform for gamepad state.
type GamepadSource interface {
	// Poll reads the current state of a connected gamepad.
	//
	// Parameters:
	//   - id: the platform gamepad id passed to Connect
	//
	// Returns:
	//   - GamepadState: the snapshot
	//   - bool: false if the gamepad is no longer present
	Poll(id int) (GamepadState, bool)
}

// Gamepad tracks a single connected gamepad and exposes its buttons and axes as signals.
// State is polled once per Update; connection events only select which device is polled.
type Gamepad interface {
	// Connect starts tracking a gamepad.
	//
	// Parameters:
	//   - id: the platform gamepad id
	//
	// Returns:
	//   - error: common.ErrLifecycle if a different gamepad is already tracked
	Connect(id int) error

	// Disconnect stops tracking a gamepad. Unknown ids are ignored.
	//
	// Parameters:
	//   - id: the platform gamepad id
	Disconnect(id int)

	// Connected reports whether a gamepad is currently tracked.
	//
	// Returns:
	//   - bool: true if a gamepad is tracked
	Connected() bool

	// Update polls the tracked gamepad once. A connection error recorded by an event callback since
	// the last Update is returned here so the frame loop can stop.
	//
	// Returns:
	//   - error: the pending connection error, if any
	Update() error

	// DigitalButton returns a signal observing whether a button is pressed.
	//
	// Parameters:
	//   - button: the standard layout button
	//
	// Returns:
	//   - signal.Digital: true while the button is pressed; false with no gamepad
	DigitalButton(button GamepadButton) signal.Digital

	// AnalogButton returns a signal observing how far a button is pressed.
	//
	// Parameters:
	//   - button: the standard layout button
	//
	// Returns:
	//   - signal.Analog: the button value in [0, 1]; 0 with no gamepad
	AnalogButton(button GamepadButton) signal.Analog

	// Axis returns a signal observing a stick axis.
	// The gamepad default dead zone applies unless overridden with WithDeadZone.
	//
	// Parameters:
	//   - axis: the standard layout axis
	//   - options: dead zone and flip adjustments
	//
	// Returns:
	//   - signal.Analog: the axis value in [-1, 1]; 0 with no gamepad
	Axis(axis GamepadAxis, options ...AxisOption) signal.Analog
}

// gamepad is the implementation of the Gamepad interface.
type gamepad struct {
	source          GamepadSource
	defaultDeadZone float32

	tracked bool
	id      int
	state   GamepadState
	pending error
}

var _ Gamepad = &gamepad{}

// NewGamepad creates a Gamepad with no device tracked.
//
// Parameters:
//   - source: the platform poller; nil means no gamepad will ever report input
//   - options: functional options to configure the gamepad
//
// Returns:
//   - Gamepad: the gamepad adapter
func NewGamepad(source GamepadSource, options ...GamepadBuilderOption) Gamepad {
	g := &gamepad{
		source:          source,
		defaultDeadZone: 0,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *gamepad) Connect(id int) error {
	if g.tracked && g.id != id {
		return fmt.Errorf("gamepad %d connected while gamepad %d is tracked, only one gamepad is supported: %w", id, g.id, common.ErrLifecycle)
	}
	g.tracked = true
	g.id = id
	return nil
}

// connectEvent is the event-callback form of Connect; the error surfaces from the next Update, once.
func (g *gamepad) connectEvent(id int) {
	if err := g.Connect(id); err != nil && g.pending == nil {
		g.pending = err
	}
}

func (g *gamepad) Disconnect(id int) {
	if !g.tracked || g.id != id {
		return
	}
	g.tracked = false
	g.state = GamepadState{}
}

func (g *gamepad) Connected() bool {
	return g.tracked
}

func (g *gamepad) Update() error {
	if err := g.pending; err != nil {
		g.pending = nil
		return err
	}
	if !g.tracked || g.source == nil {
		g.state = GamepadState{}
		return nil
	}
	state, ok := g.source.Poll(g.id)
	if !ok {
		g.state = GamepadState{}
		return nil
	}
	g.state = state
	return nil
}

func (g *gamepad) DigitalButton(button GamepadButton) signal.Digital {
	return signal.NewObserver(func() bool {
		if !g.tracked || button < 0 || button >= GamepadButtonCount {
			return false
		}
		return g.state.Pressed[button]
	})
}

func (g *gamepad) AnalogButton(button GamepadButton) signal.Analog {
	return signal.NewObserver(func() float32 {
		if !g.tracked || button < 0 || button >= GamepadButtonCount {
			return 0
		}
		return g.state.Values[button]
	})
}

func (g *gamepad) Axis(axis GamepadAxis, options ...AxisOption) signal.Analog {
	cfg := axisConfig{deadZone: g.defaultDeadZone}
	for _, opt := range options {
		opt(&cfg)
	}
	return signal.NewObserver(func() float32 {
		if !g.tracked || axis < 0 || axis >= GamepadAxisCount {
			return 0
		}
		return cfg.apply(g.state.Axes[axis])
	})
}

// axisConfig holds per-signal axis adjustments.
type axisConfig struct {
	deadZone float32
	flip     bool
}

func (c axisConfig) apply(v float32) float32 {
	if math32.Abs(v) < c.deadZone {
		return 0
	}
	if c.flip {
		v = -v
	}
	return common.Clamp(v, -1, 1)
}
