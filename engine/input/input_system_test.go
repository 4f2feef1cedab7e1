package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAnalog counts Update calls on a constant analog signal.
type countingAnalog struct {
	value   float32
	updates int
}

func (c *countingAnalog) Value() float32 { return c.value }

func (c *countingAnalog) Update(float32) { c.updates++ }

func TestInputSystemPacksRegisteredSignals(t *testing.T) {
	s := NewInputSystem(WithCanvasSize(func() (int, int) { return 500, 700 }))
	require.NoError(t, s.RegisterDigital(
		s.Keyboard().DigitalKey(common.KeyZ),
		signal.NewDigitalConst(true),
	))
	x, _ := s.Keyboard().ArrowAxes()
	require.NoError(t, s.RegisterAnalog(x, signal.NewAnalogConst(0.5)))

	s.Keyboard().KeyDown(common.KeyArrowLeft)
	require.NoError(t, s.Update(0))

	digital := s.DigitalValues()
	require.Len(t, digital, MaxDigitalSignals)
	assert.Equal(t, []uint32{0, 1, 0, 0, 0, 0, 0, 0}, digital)

	analog := s.AnalogValues()
	require.Len(t, analog, MaxAnalogSignals)
	assert.Equal(t, float32(-1), analog[0])
	assert.Equal(t, float32(0.5), analog[1])
	assert.Equal(t, float32(0), analog[2])

	s.Keyboard().KeyDown(common.KeyZ)
	// values are sampled by Update, not read through
	assert.Equal(t, uint32(0), s.DigitalValues()[0])
	require.NoError(t, s.Update(1.0/60))
	assert.Equal(t, uint32(1), s.DigitalValues()[0])
}

func TestInputSystemUpdatesEachSignalOncePerFrame(t *testing.T) {
	s := NewInputSystem()
	c := &countingAnalog{value: 2}
	require.NoError(t, s.RegisterAnalog(c))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(float32(i)))
	}
	assert.Equal(t, 3, c.updates)
}

func TestInputSystemRegistrationLimits(t *testing.T) {
	s := NewInputSystem()
	digital := make([]signal.Digital, MaxDigitalSignals)
	for i := range digital {
		digital[i] = signal.NewDigitalConst(false)
	}
	require.NoError(t, s.RegisterDigital(digital...))
	assert.ErrorIs(t, s.RegisterDigital(signal.NewDigitalConst(true)), common.ErrConfiguration)

	analog := make([]signal.Analog, MaxAnalogSignals+1)
	for i := range analog {
		analog[i] = signal.NewAnalogConst(0)
	}
	assert.ErrorIs(t, s.RegisterAnalog(analog...), common.ErrConfiguration)
	require.NoError(t, s.RegisterAnalog(analog[:MaxAnalogSignals]...))
}

func TestInputSystemSurfacesGamepadError(t *testing.T) {
	s := NewInputSystem(WithGamepadSource(&fakeGamepadSource{}))
	g := s.Gamepad().(*gamepad)
	g.connectEvent(0)
	require.NoError(t, s.Update(0))

	g.connectEvent(1)
	assert.ErrorIs(t, s.Update(1), common.ErrLifecycle)
}

func TestInputSystemGamepadDeadZone(t *testing.T) {
	var state GamepadState
	state.Axes[GamepadLeftX] = 0.1
	s := NewInputSystem(
		WithGamepadSource(&fakeGamepadSource{states: map[int]GamepadState{0: state}}),
		WithGamepadDeadZone(0.2),
	)
	require.NoError(t, s.Gamepad().Connect(0))
	require.NoError(t, s.Update(0))
	assert.Equal(t, float32(0), s.Gamepad().Axis(GamepadLeftX).Value())
}

func TestInputSystemRequestMIDI(t *testing.T) {
	d := &fakeMidiDriver{}
	s := NewInputSystem(WithMidiDriver(d))
	gate := s.Midi().GateSignal(60)

	s.RequestMIDI()
	require.NotNil(t, d.handler)
	d.handler([]byte{0x90, 60, 127})
	assert.True(t, gate.Value())

	s.Close()
	assert.True(t, d.stopped)
}
