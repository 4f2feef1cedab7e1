package input

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// pointerDeadZone is the normalized radius around the canvas center where screen axes read 0.
const pointerDeadZone = 0.1

// Pointer tracks the canvas-relative cursor (or touch) position and primary button state.
type Pointer interface {
	// PointerDown records a press at a canvas-relative pixel position.
	//
	// Parameters:
	//   - x, y: position in pixels from the top-left of the canvas
	PointerDown(x, y float32)

	// PointerMove records a new canvas-relative pixel position.
	//
	// Parameters:
	//   - x, y: position in pixels from the top-left of the canvas
	PointerMove(x, y float32)

	// PointerUp records a release at a canvas-relative pixel position.
	//
	// Parameters:
	//   - x, y: position in pixels from the top-left of the canvas
	PointerUp(x, y float32)

	// PointerLeave records that the pointer left the canvas.
	PointerLeave()

	// Position returns the last known canvas-relative pixel position.
	//
	// Returns:
	//   - mgl32.Vec2: position in pixels from the top-left of the canvas
	Position() mgl32.Vec2

	// PressedSignal returns a signal observing the primary button.
	//
	// Returns:
	//   - signal.Digital: true while the pointer is pressed
	PressedSignal() signal.Digital

	// ScreenAxes returns the pointer position as a pair of axes in [-1, 1] centered on the canvas.
	// Both axes use half the canvas width as their unit so pixels stay square, y points up, values
	// inside the dead zone read 0, and both axes spring back to 0 when the pointer is off the canvas.
	//
	// Returns:
	//   - x: horizontal axis, +1 at the right edge
	//   - y: vertical axis, positive above the center
	ScreenAxes() (x, y signal.Analog)

	// VirtualButton returns a signal that is true while the pointer is pressed inside a rectangle.
	// Rectangles are in normalized canvas coordinates: (0, 0) is the top-left corner and (1, 1) is
	// the bottom-right corner.
	//
	// Parameters:
	//   - origin: the top-left corner of the rectangle
	//   - size: the width and height of the rectangle
	//
	// Returns:
	//   - signal.Digital: true while pressed inside the rectangle
	VirtualButton(origin, size mgl32.Vec2) signal.Digital
}

// pointer is the implementation of the Pointer interface.
type pointer struct {
	canvasSize func() (width, height int)

	pressed  bool
	inside   bool
	position mgl32.Vec2
}

var _ Pointer = &pointer{}

// NewPointer creates a Pointer for a canvas whose size is read on demand.
//
// Parameters:
//   - canvasSize: returns the current canvas size in pixels
//
// Returns:
//   - Pointer: the pointer adapter
func NewPointer(canvasSize func() (width, height int)) Pointer {
	return &pointer{canvasSize: canvasSize}
}

func (p *pointer) PointerDown(x, y float32) {
	p.pressed = true
	p.inside = true
	p.position = mgl32.Vec2{x, y}
}

func (p *pointer) PointerMove(x, y float32) {
	p.inside = true
	p.position = mgl32.Vec2{x, y}
}

func (p *pointer) PointerUp(x, y float32) {
	p.pressed = false
	p.position = mgl32.Vec2{x, y}
}

func (p *pointer) PointerLeave() {
	p.inside = false
}

func (p *pointer) Position() mgl32.Vec2 {
	return p.position
}

func (p *pointer) PressedSignal() signal.Digital {
	return signal.NewObserver(func() bool {
		return p.pressed
	})
}

func (p *pointer) ScreenAxes() (x, y signal.Analog) {
	x = signal.NewObserver(func() float32 {
		width, _, ok := p.bounds()
		if !ok {
			return 0
		}
		center := width / 2
		return deadZoneClamp((p.position.X() - center) / (width / 2))
	})
	y = signal.NewObserver(func() float32 {
		width, height, ok := p.bounds()
		if !ok {
			return 0
		}
		center := height / 2
		// same unit as x so the axes keep a 1:1 pixel aspect ratio
		return -deadZoneClamp((p.position.Y() - center) / (width / 2))
	})
	return x, y
}

func (p *pointer) VirtualButton(origin, size mgl32.Vec2) signal.Digital {
	return signal.NewObserver(func() bool {
		if !p.pressed {
			return false
		}
		width, height, ok := p.bounds()
		if !ok {
			return false
		}
		uv := mgl32.Vec2{p.position.X() / width, p.position.Y() / height}
		corner := origin.Add(size)
		return uv.X() >= origin.X() && uv.X() < corner.X() &&
			uv.Y() >= origin.Y() && uv.Y() < corner.Y()
	})
}

// bounds returns the canvas size and whether the pointer is currently over the canvas.
func (p *pointer) bounds() (width, height float32, ok bool) {
	if p.canvasSize == nil || !p.inside {
		return 0, 0, false
	}
	w, h := p.canvasSize()
	width, height = float32(w), float32(h)
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	x, y := p.position.X(), p.position.Y()
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return width, height, true
}

func deadZoneClamp(v float32) float32 {
	if math32.Abs(v) < pointerDeadZone {
		return 0
	}
	return common.Clamp(v, -1, 1)
}
