package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func newTestPointer() Pointer {
	return NewPointer(func() (int, int) { return 500, 700 })
}

func TestPointerPressedSignal(t *testing.T) {
	p := newTestPointer()
	pressed := p.PressedSignal()
	assert.False(t, pressed.Value())

	p.PointerDown(10, 20)
	assert.True(t, pressed.Value())
	assert.Equal(t, mgl32.Vec2{10, 20}, p.Position())

	p.PointerUp(30, 40)
	assert.False(t, pressed.Value())
	assert.Equal(t, mgl32.Vec2{30, 40}, p.Position())
}

func TestPointerScreenAxes(t *testing.T) {
	p := newTestPointer()
	x, y := p.ScreenAxes()

	tests := []struct {
		px, py float32
		ex, ey float32
	}{
		// center
		{250, 350, 0, 0},
		// right of center, y uses the width as its unit
		{375, 350, 0.5, 0},
		{250, 100, 0, 1},
		// inside the dead zone
		{260, 360, 0, 0},
		// top-left corner clamps and y points up
		{0, 0, -1, 1},
		// off the canvas springs back
		{600, 350, 0, 0},
		{250, -5, 0, 0},
	}
	for _, test := range tests {
		p.PointerMove(test.px, test.py)
		assert.InDelta(t, test.ex, x.Value(), 1e-6, "x at (%v, %v)", test.px, test.py)
		assert.InDelta(t, test.ey, y.Value(), 1e-6, "y at (%v, %v)", test.px, test.py)
	}
}

func TestPointerLeaveSpringsBack(t *testing.T) {
	p := newTestPointer()
	x, _ := p.ScreenAxes()
	p.PointerMove(500*0.9, 350)
	assert.InDelta(t, 0.8, x.Value(), 1e-6)

	p.PointerLeave()
	assert.Equal(t, float32(0), x.Value())
}

func TestPointerVirtualButton(t *testing.T) {
	p := newTestPointer()
	b := p.VirtualButton(mgl32.Vec2{0, 0.5}, mgl32.Vec2{0.5, 0.5})

	p.PointerMove(100, 600)
	assert.False(t, b.Value(), "hover is not a press")

	p.PointerDown(100, 600)
	assert.True(t, b.Value())

	p.PointerMove(300, 600)
	assert.False(t, b.Value(), "dragged out of the rectangle")

	p.PointerMove(100, 600)
	p.PointerUp(100, 600)
	assert.False(t, b.Value())
}

func TestPointerWithoutCanvasReadsZero(t *testing.T) {
	p := NewPointer(nil)
	x, y := p.ScreenAxes()
	p.PointerDown(10, 10)
	assert.Equal(t, float32(0), x.Value())
	assert.Equal(t, float32(0), y.Value())
	assert.False(t, p.VirtualButton(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}).Value())
}
