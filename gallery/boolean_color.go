package gallery

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	booleanOperatorCount = 16
	paletteCount         = 28
	maxBitDepth          = 8
)

// One canvas pixel in normalized canvas coordinates.
var pixel = mgl32.Vec2{1.0 / 500, 1.0 / 700}

// The grid starts 100 px down the canvas: 16x16 cells plus a header row and column.
var (
	gridY      = 100 * pixel.Y()
	squareSize = mgl32.Vec2{1.0 / 17, (5.0 / 7.0) / 17}
)

// buttonLayout names the buttons the sketch reads from one device.
type buttonLayout struct {
	a, b, x, y signal.Digital
	up, down   signal.Digital
}

// counterButtons are the pointer buttons that step one counter.
type counterButtons struct {
	increment, decrement signal.Digital
}

// modifierSelector picks the modifier button of a layout.
type modifierSelector func(l buttonLayout) signal.Digital

// booleanColor holds the four counters of the Boolean Color sketch. Each counter steps when its
// modifier is held and up or down is released, or when its pointer button is released.
type booleanColor struct {
	paletteA float32
	paletteB float32
	operator float32
	bitDepth float32
	deltas   [4]signal.Analog
	wrapAt   [4]float32
}

func newBooleanColor() *booleanColor {
	b := &booleanColor{
		operator: 1, // AND
		bitDepth: 3,
		wrapAt:   [4]float32{paletteCount, paletteCount, booleanOperatorCount, maxBitDepth},
	}
	for i := range b.deltas {
		b.deltas[i] = signal.NewAnalogConst(0)
	}
	return b
}

func (b *booleanColor) counters() [4]*float32 {
	return [4]*float32{&b.paletteA, &b.paletteB, &b.operator, &b.bitDepth}
}

func (b *booleanColor) configureInput(in input.InputSystem) error {
	kb := in.Keyboard()
	keys := buttonLayout{
		a:    kb.DigitalKey(common.KeyZ),
		b:    kb.DigitalKey(common.KeyX),
		x:    kb.DigitalKey(common.KeyA),
		y:    kb.DigitalKey(common.KeyS),
		up:   kb.DigitalKey(common.KeyArrowUp),
		down: kb.DigitalKey(common.KeyArrowDown),
	}
	gp := in.Gamepad()
	pad := buttonLayout{
		a:    gp.DigitalButton(input.GamepadA),
		b:    gp.DigitalButton(input.GamepadB),
		x:    gp.DigitalButton(input.GamepadX),
		y:    gp.DigitalButton(input.GamepadY),
		up:   gp.DigitalButton(input.GamepadUp),
		down: gp.DigitalButton(input.GamepadDown),
	}

	p := in.Pointer()
	virtual := [4]counterButtons{
		{
			decrement: p.VirtualButton(mgl32.Vec2{0, gridY + squareSize.Y()}, mgl32.Vec2{squareSize.X(), 8 * squareSize.Y()}),
			increment: p.VirtualButton(mgl32.Vec2{0, gridY + 9*squareSize.Y()}, mgl32.Vec2{squareSize.X(), 8 * squareSize.Y()}),
		},
		{
			decrement: p.VirtualButton(mgl32.Vec2{squareSize.X(), gridY}, mgl32.Vec2{8 * squareSize.X(), squareSize.Y()}),
			increment: p.VirtualButton(mgl32.Vec2{9 * squareSize.X(), gridY}, mgl32.Vec2{8 * squareSize.X(), squareSize.Y()}),
		},
		{
			decrement: p.VirtualButton(mgl32.Vec2{150 * pixel.X(), 0}, mgl32.Vec2{100 * pixel.X(), 100 * pixel.Y()}),
			increment: p.VirtualButton(mgl32.Vec2{250 * pixel.X(), 0}, mgl32.Vec2{100 * pixel.X(), 100 * pixel.Y()}),
		},
		{
			increment: p.VirtualButton(mgl32.Vec2{0, 600 * pixel.Y()}, mgl32.Vec2{250 * pixel.X(), 100 * pixel.Y()}),
			decrement: p.VirtualButton(mgl32.Vec2{250 * pixel.X(), 600 * pixel.Y()}, mgl32.Vec2{250 * pixel.X(), 100 * pixel.Y()}),
		},
	}
	modifiers := [4]modifierSelector{
		func(l buttonLayout) signal.Digital { return l.a },
		func(l buttonLayout) signal.Digital { return l.b },
		func(l buttonLayout) signal.Digital { return l.x },
		func(l buttonLayout) signal.Digital { return l.y },
	}
	for i := range b.deltas {
		b.deltas[i] = deltaSignal(modifiers[i], pad, keys, virtual[i])
	}

	analog := make([]signal.Analog, 0, 4)
	for _, c := range b.counters() {
		analog = append(analog, signal.NewObserver(func() float32 { return *c }))
	}
	return in.RegisterAnalog(analog...)
}

// deltaSignal is +1 on the frame an increment is released, -1 on the frame a decrement is
// released, and 0 otherwise. Any device can step the counter.
func deltaSignal(modifier modifierSelector, pad, keys buttonLayout, virtual counterButtons) signal.Analog {
	decrement := signal.NewRelease(signal.NewDigitalCascade(
		signal.NewAnd(modifier(pad), pad.down),
		signal.NewAnd(modifier(keys), keys.down),
		virtual.decrement,
	))
	increment := signal.NewRelease(signal.NewDigitalCascade(
		signal.NewAnd(modifier(pad), pad.up),
		signal.NewAnd(modifier(keys), keys.up),
		virtual.increment,
	))
	return signal.NewTwoButtonAxis(decrement, increment)
}

func (b *booleanColor) update(time float32) {
	for i, c := range b.counters() {
		b.deltas[i].Update(time)
		*c = floorMod(*c+b.deltas[i].Value(), b.wrapAt[i])
	}
}

// floorMod is x mod n with the sign of n.
func floorMod(x, n float32) float32 {
	return x - n*math32.Floor(x/n)
}
