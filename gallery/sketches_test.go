package gallery

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canvasInput() input.InputSystem {
	return input.NewInputSystem(input.WithCanvasSize(func() (int, int) { return 500, 700 }))
}

func TestFloorMod(t *testing.T) {
	assert.Equal(t, float32(27), floorMod(-1, 28))
	assert.Equal(t, float32(0), floorMod(28, 28))
	assert.Equal(t, float32(3), floorMod(3, 16))
	assert.Equal(t, float32(7), floorMod(-9, 8))
}

func TestBooleanColor_Defaults(t *testing.T) {
	b := newBooleanColor()
	b.update(0)
	assert.Equal(t, float32(0), b.paletteA)
	assert.Equal(t, float32(1), b.operator)
	assert.Equal(t, float32(3), b.bitDepth)
}

func TestBooleanColor_CountersWrap(t *testing.T) {
	b := newBooleanColor()
	b.deltas[0] = signal.NewAnalogConst(-1)
	b.deltas[2] = signal.NewAnalogConst(1)
	b.deltas[3] = signal.NewAnalogConst(1)

	for i := 0; i < 15; i++ {
		b.update(float32(i))
	}
	assert.Equal(t, float32(13), b.paletteA)
	assert.Equal(t, float32(0), b.operator)
	assert.Equal(t, float32(2), b.bitDepth)
}

func TestBooleanColor_KeyboardStepsOnRelease(t *testing.T) {
	in := canvasInput()
	b := newBooleanColor()
	require.NoError(t, b.configureInput(in))
	kb := in.Keyboard()

	// hold the palette a modifier and tap up
	kb.KeyDown(common.KeyZ)
	kb.KeyDown(common.KeyArrowUp)
	b.update(0)
	assert.Equal(t, float32(0), b.paletteA)

	kb.KeyUp(common.KeyArrowUp)
	b.update(0.1)
	assert.Equal(t, float32(1), b.paletteA)

	b.update(0.2)
	assert.Equal(t, float32(1), b.paletteA)

	// down without the modifier does nothing
	kb.KeyUp(common.KeyZ)
	kb.KeyDown(common.KeyArrowDown)
	b.update(0.3)
	kb.KeyUp(common.KeyArrowDown)
	b.update(0.4)
	assert.Equal(t, float32(1), b.paletteA)

	// the counters are uploaded through the analog slots
	require.NoError(t, in.Update(0.5))
	assert.Equal(t, []float32{1, 0, 1, 3}, in.AnalogValues()[:4])
}

func TestBooleanColor_PointerButtons(t *testing.T) {
	in := canvasInput()
	b := newBooleanColor()
	require.NoError(t, b.configureInput(in))
	p := in.Pointer()

	// operator increment sits at x 250..350 px, y 0..100 px
	p.PointerDown(300, 50)
	b.update(0)
	p.PointerUp(300, 50)
	b.update(0.1)
	assert.Equal(t, float32(2), b.operator)

	// bit depth decrement sits in the bottom right
	p.PointerDown(400, 650)
	b.update(0.2)
	p.PointerUp(400, 650)
	b.update(0.3)
	assert.Equal(t, float32(2), b.bitDepth)
}

func TestEyes_MovesAndClamps(t *testing.T) {
	in := canvasInput()
	e := newEyes()
	require.NoError(t, e.configureInput(in))
	kb := in.Keyboard()

	e.update(0)
	kb.KeyDown(common.KeyArrowRight)
	kb.KeyDown(common.KeyW)
	e.update(0.05)
	assert.InDelta(t, 0.04, e.position.X(), 1e-6)
	assert.InDelta(t, 0.04, e.position.Y(), 1e-6)

	for i := 2; i < 100; i++ {
		e.update(float32(i) * 0.05)
	}
	assert.Equal(t, float32(1), e.position.X())
	assert.Equal(t, float32(1), e.position.Y())

	// a long stall moves at most one capped step
	kb.KeyUp(common.KeyArrowRight)
	kb.KeyUp(common.KeyW)
	kb.KeyDown(common.KeyArrowLeft)
	e.update(100)
	assert.InDelta(t, 1-eyesSpeed*eyesMaxStep, e.position.X(), 1e-6)
}

func TestEyes_Uniforms(t *testing.T) {
	in := canvasInput()
	e := newEyes()
	require.NoError(t, e.configureInput(in))
	kb := in.Keyboard()

	require.NoError(t, in.Update(0))
	assert.Equal(t, uint32(0), in.DigitalValues()[0])

	kb.KeyDown(common.KeyZ)
	kb.KeyDown(common.KeyArrowUp)
	e.update(0)
	require.NoError(t, in.Update(1))
	assert.Equal(t, uint32(1), in.DigitalValues()[0])
	// blink has finished its attack and sits at sustain
	require.NoError(t, in.Update(2))
	assert.Equal(t, float32(1), in.AnalogValues()[2])
}
