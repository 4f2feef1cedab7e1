package input

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
)

// Keyboard tracks which keys are currently held and exposes them as signals.
// Key codes are the values delivered by the window key callbacks (see common.Key*).
type Keyboard interface {
	// KeyDown marks a key as pressed. Wired to the window key-down callback.
	//
	// Parameters:
	//   - code: the virtual key code
	KeyDown(code uint32)

	// KeyUp marks a key as released. Wired to the window key-up callback.
	//
	// Parameters:
	//   - code: the virtual key code
	KeyUp(code uint32)

	// IsPressed reports whether a key is currently held.
	//
	// Parameters:
	//   - code: the virtual key code
	//
	// Returns:
	//   - bool: true while the key is down
	IsPressed(code uint32) bool

	// DigitalKey returns a signal that observes the live pressed state of one key.
	//
	// Parameters:
	//   - code: the virtual key code
	//
	// Returns:
	//   - signal.Digital: true while the key is down
	DigitalKey(code uint32) signal.Digital

	// ArrowAxes returns a horizontal and vertical axis driven by the arrow keys.
	// Up is positive y.
	//
	// Returns:
	//   - x: Left = -1, Right = +1
	//   - y: Down = -1, Up = +1
	ArrowAxes() (x, y signal.Analog)

	// WASDAxes returns a horizontal and vertical axis driven by the W, A, S and D keys.
	// Up is positive y.
	//
	// Returns:
	//   - x: A = -1, D = +1
	//   - y: S = -1, W = +1
	WASDAxes() (x, y signal.Analog)
}

// keyboard is the implementation of the Keyboard interface.
type keyboard struct {
	pressed map[uint32]bool
}

var _ Keyboard = &keyboard{}

// NewKeyboard creates a Keyboard with no keys held.
//
// Returns:
//   - Keyboard: the keyboard adapter
func NewKeyboard() Keyboard {
	return &keyboard{pressed: make(map[uint32]bool)}
}

func (k *keyboard) KeyDown(code uint32) {
	k.pressed[code] = true
}

func (k *keyboard) KeyUp(code uint32) {
	k.pressed[code] = false
}

func (k *keyboard) IsPressed(code uint32) bool {
	return k.pressed[code]
}

func (k *keyboard) DigitalKey(code uint32) signal.Digital {
	return signal.NewObserver(func() bool {
		return k.pressed[code]
	})
}

func (k *keyboard) ArrowAxes() (x, y signal.Analog) {
	return k.axes(common.KeyArrowLeft, common.KeyArrowRight, common.KeyArrowDown, common.KeyArrowUp)
}

func (k *keyboard) WASDAxes() (x, y signal.Analog) {
	return k.axes(common.KeyA, common.KeyD, common.KeyS, common.KeyW)
}

func (k *keyboard) axes(left, right, down, up uint32) (signal.Analog, signal.Analog) {
	x := signal.NewTwoButtonAxis(k.DigitalKey(left), k.DigitalKey(right))
	y := signal.NewTwoButtonAxis(k.DigitalKey(down), k.DigitalKey(up))
	return x, y
}
