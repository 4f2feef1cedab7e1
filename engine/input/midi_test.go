package input

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMidiDriver hands its handler back to the test so messages can be injected.
type fakeMidiDriver struct {
	handler func([]byte)
	stopped bool
	err     error
}

func (f *fakeMidiDriver) Listen(handler func([]byte)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.handler = handler
	return func() { f.stopped = true }, nil
}

func TestMidiNoteOnOff(t *testing.T) {
	m := NewMidi()
	gate := m.GateSignal(60)
	velocity := m.VelocitySignal(60)

	m.HandleMessage([]byte{0x90, 60, 100})
	assert.True(t, gate.Value())
	assert.Equal(t, float32(100), velocity.Value())

	m.HandleMessage([]byte{0x80, 60, 64})
	assert.False(t, gate.Value())
	assert.Equal(t, float32(0), velocity.Value())
}

func TestMidiNoteOnWithZeroVelocityIsNoteOff(t *testing.T) {
	m := NewMidi()
	gate := m.GateSignal(64)
	// channel 3 note-on
	m.HandleMessage([]byte{0x93, 64, 90})
	require.True(t, gate.Value())

	m.HandleMessage([]byte{0x93, 64, 0})
	assert.False(t, gate.Value())
	assert.Equal(t, float32(0), m.VelocitySignal(64).Value())
}

func TestMidiPitchSignalMatchesAnyOctave(t *testing.T) {
	m := NewMidi()
	c := m.PitchSignal(PitchC)
	e := m.PitchSignal(PitchE)
	b := m.PitchSignal(PitchB)

	// C7
	m.HandleMessage([]byte{0x90, 96, 1})
	assert.True(t, c.Value())
	assert.False(t, e.Value())

	// B in the top octave
	m.HandleMessage([]byte{0x90, 119, 1})
	assert.True(t, b.Value())

	m.HandleMessage([]byte{0x80, 96, 0})
	assert.False(t, c.Value())
}

func TestMidiControlChange(t *testing.T) {
	m := NewMidi()
	cc := m.CCSignal(7, 64)
	assert.Equal(t, float32(64), cc.Value())

	m.HandleMessage([]byte{0xB0, 7, 12})
	assert.Equal(t, float32(12), cc.Value())
	assert.Equal(t, float32(5), m.CCSignal(8, 5).Value())
}

func TestMidiIgnoresOtherMessages(t *testing.T) {
	m := NewMidi()
	gate := m.GateSignal(60)
	m.HandleMessage(nil)
	m.HandleMessage([]byte{0x90})
	m.HandleMessage([]byte{0xE0, 60, 100})
	m.HandleMessage([]byte{0xF8})
	assert.False(t, gate.Value())
}

func TestMidiRequestWiresDriver(t *testing.T) {
	m := NewMidi()
	d := &fakeMidiDriver{}
	m.RequestMIDI(d)
	require.NotNil(t, d.handler)

	d.handler([]byte{0x90, 48, 80})
	assert.True(t, m.GateSignal(48).Value())

	m.Close()
	assert.True(t, d.stopped)
}

func TestMidiRequestFailureKeepsDefaults(t *testing.T) {
	m := NewMidi()
	m.RequestMIDI(&fakeMidiDriver{err: fmt.Errorf("no ports: %w", common.ErrEnvironment)})
	m.RequestMIDI(nil)
	assert.Equal(t, float32(3), m.CCSignal(1, 3).Value())
	assert.NotPanics(t, m.Close)
}
