package gallery

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// eyesSpeed is the player speed in centered units per second.
	eyesSpeed = 0.8

	// eyesMaxStep caps the time step so a stalled frame does not teleport the player.
	eyesMaxStep = 0.1
)

var blinkEnvelope = signal.ADSRParams{
	Attack:  0.08,
	Decay:   0,
	Sustain: 1,
	Release: 0.25,
}

// eyes moves a player around the canvas with the left stick, arrows or WASD, and blinks while A
// (Z on the keyboard) is held.
type eyes struct {
	position mgl32.Vec2
	lastTime float32
	started  bool

	x, y  signal.Analog
	blink signal.ADSR
}

func newEyes() *eyes {
	return &eyes{
		x: signal.NewAnalogConst(0),
		y: signal.NewAnalogConst(0),
	}
}

func (e *eyes) configureInput(in input.InputSystem) error {
	kb := in.Keyboard()
	gp := in.Gamepad()

	arrowX, arrowY := kb.ArrowAxes()
	wasdX, wasdY := kb.WASDAxes()
	// stick y reads +1 pushed down; the player moves up for positive y
	e.x = signal.NewAnalogCascade(gp.Axis(input.GamepadLeftX), arrowX, wasdX)
	e.y = signal.NewAnalogCascade(gp.Axis(input.GamepadLeftY, input.WithFlip()), arrowY, wasdY)

	blinkButton := signal.NewDigitalCascade(gp.DigitalButton(input.GamepadA), kb.DigitalKey(common.KeyZ))
	e.blink = signal.NewADSR(signal.NewTrigger(blinkButton), signal.NewRelease(blinkButton), blinkEnvelope)

	moving := signal.NewObserver(func() bool {
		return e.x.Value() != 0 || e.y.Value() != 0
	})
	if err := in.RegisterDigital(moving); err != nil {
		return err
	}
	return in.RegisterAnalog(
		signal.NewObserver(func() float32 { return e.position.X() }),
		signal.NewObserver(func() float32 { return e.position.Y() }),
		e.blink,
	)
}

func (e *eyes) update(time float32) {
	e.x.Update(time)
	e.y.Update(time)

	if !e.started {
		e.started = true
		e.lastTime = time
		return
	}
	dt := min(max(time-e.lastTime, 0), eyesMaxStep)
	e.lastTime = time

	direction := mgl32.Vec2{e.x.Value(), e.y.Value()}
	e.position = e.position.Add(direction.Mul(eyesSpeed * dt))
	e.position = mgl32.Vec2{
		mgl32.Clamp(e.position.X(), -1, 1),
		mgl32.Clamp(e.position.Y(), -1, 1),
	}
}
