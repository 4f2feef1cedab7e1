package input

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/engine/input/signal"
)

// MIDI status nibbles and sizes.
const (
	midiNoteOff       = 0x8
	midiNoteOn        = 0x9
	midiControlChange = 0xB

	midiNoteCount = 128
	midiOctave    = 12
)

// PitchClass is one of the 12 pitch classes, independent of octave.
type PitchClass int

const (
	PitchC PitchClass = iota
	PitchCSharp
	PitchD
	PitchDSharp
	PitchE
	PitchF
	PitchFSharp
	PitchG
	PitchGSharp
	PitchA
	PitchASharp
	PitchB
)

// MidiDriver delivers raw MIDI messages from every available input port.
type MidiDriver interface {
	// Listen starts delivering messages to handler. Handler may be called from a driver goroutine.
	//
	// Parameters:
	//   - handler: receives each raw message
	//
	// Returns:
	//   - func(): stops listening
	//   - error: common.ErrEnvironment if no MIDI backend is available
	Listen(handler func(msg []byte)) (stop func(), err error)
}

// Midi tracks note gates, note velocities and control-change values from MIDI input.
// Nothing is received until RequestMIDI is called; until then every signal reads its default.
type Midi interface {
	// RequestMIDI opts in to MIDI input through driver. Failure to open the driver is logged and
	// otherwise ignored so MIDI signals keep their defaults.
	//
	// Parameters:
	//   - driver: the MIDI backend
	RequestMIDI(driver MidiDriver)

	// HandleMessage applies one raw MIDI message. Note-off, note-on and control-change messages
	// are recognized; a note-on with velocity 0 is a note-off. Anything else is ignored.
	//
	// Parameters:
	//   - msg: the raw message bytes
	HandleMessage(msg []byte)

	// GateSignal returns a signal that is true while a note is held.
	//
	// Parameters:
	//   - note: the MIDI note number in [0, 127]
	//
	// Returns:
	//   - signal.Digital: the note gate
	GateSignal(note uint8) signal.Digital

	// VelocitySignal returns a signal observing the velocity of a held note.
	//
	// Parameters:
	//   - note: the MIDI note number in [0, 127]
	//
	// Returns:
	//   - signal.Analog: the velocity in [0, 127]; 0 when the note is released
	VelocitySignal(note uint8) signal.Analog

	// PitchSignal returns a signal that is true while any octave of a pitch class is held.
	//
	// Parameters:
	//   - pitch: one of the 12 pitch classes
	//
	// Returns:
	//   - signal.Digital: the pitch class gate
	PitchSignal(pitch PitchClass) signal.Digital

	// CCSignal returns a signal observing a control-change value.
	// MIDI gives no way to query a controller, so start is reported until the first message.
	//
	// Parameters:
	//   - controller: the controller number in [0, 127]
	//   - start: the assumed initial value in [0, 127]
	//
	// Returns:
	//   - signal.Analog: the controller value
	CCSignal(controller uint8, start float32) signal.Analog

	// Close stops listening to the driver, if RequestMIDI opened one.
	Close()
}

// midi is the implementation of the Midi interface.
// Driver callbacks arrive off the render thread, so all state is guarded by mu.
type midi struct {
	mu       sync.RWMutex
	gate     [midiNoteCount]bool
	velocity [midiNoteCount]uint8
	cc       map[uint8]uint8
	stop     func()
}

var _ Midi = &midi{}

// NewMidi creates a Midi adapter with no notes held.
//
// Returns:
//   - Midi: the MIDI adapter
func NewMidi() Midi {
	return &midi{cc: make(map[uint8]uint8)}
}

func (m *midi) RequestMIDI(driver MidiDriver) {
	if driver == nil {
		log.Printf("[MIDI] no driver configured, MIDI input disabled")
		return
	}
	stop, err := driver.Listen(m.HandleMessage)
	if err != nil {
		log.Printf("[MIDI] unavailable: %v", err)
		return
	}
	m.mu.Lock()
	m.stop = stop
	m.mu.Unlock()
}

func (m *midi) HandleMessage(msg []byte) {
	if len(msg) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg[0] >> 4 {
	case midiNoteOff:
		if len(msg) < 2 {
			return
		}
		note := msg[1] & 0x7F
		m.gate[note] = false
		m.velocity[note] = 0
	case midiNoteOn:
		if len(msg) < 3 {
			return
		}
		note, velocity := msg[1]&0x7F, msg[2]&0x7F
		// some controllers send note-on with velocity 0 instead of note-off
		pressed := velocity > 0
		m.gate[note] = pressed
		m.velocity[note] = velocity
	case midiControlChange:
		if len(msg) < 3 {
			return
		}
		m.cc[msg[1]&0x7F] = msg[2] & 0x7F
	}
}

func (m *midi) GateSignal(note uint8) signal.Digital {
	note &= 0x7F
	return signal.NewObserver(func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.gate[note]
	})
}

func (m *midi) VelocitySignal(note uint8) signal.Analog {
	note &= 0x7F
	return signal.NewObserver(func() float32 {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return float32(m.velocity[note])
	})
}

func (m *midi) PitchSignal(pitch PitchClass) signal.Digital {
	return signal.NewObserver(func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for note := int(pitch); note >= 0 && note < midiNoteCount; note += midiOctave {
			if m.gate[note] {
				return true
			}
		}
		return false
	})
}

func (m *midi) CCSignal(controller uint8, start float32) signal.Analog {
	controller &= 0x7F
	return signal.NewObserver(func() float32 {
		m.mu.RLock()
		defer m.mu.RUnlock()
		if v, ok := m.cc[controller]; ok {
			return float32(v)
		}
		return start
	})
}

func (m *midi) Close() {
	m.mu.Lock()
	stop := m.stop
	m.stop = nil
	m.mu.Unlock()
	if stop != nil {
		stop()
	}
}
