package input

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// rtMidiDriver listens on every MIDI input port exposed by the rtmidi backend.
type rtMidiDriver struct{}

var _ MidiDriver = rtMidiDriver{}

// NewRtMidiDriver creates a MidiDriver backed by gomidi and rtmidi.
//
// Reference: https://pkg.go.dev/gitlab.com/gomidi/midi/v2
//
// Returns:
//   - MidiDriver: the system MIDI driver
func NewRtMidiDriver() MidiDriver {
	return rtMidiDriver{}
}

func (rtMidiDriver) Listen(handler func(msg []byte)) (func(), error) {
	ports := gomidi.GetInPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI input ports: %w", common.ErrEnvironment)
	}

	var stops []func()
	for _, in := range ports {
		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			handler(msg)
		})
		if err != nil {
			log.Printf("[MIDI] failed to listen on %s: %v", in, err)
			continue
		}
		log.Printf("[MIDI] listening on %s", in)
		stops = append(stops, stop)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("could not open any MIDI input port: %w", common.ErrEnvironment)
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
		gomidi.CloseDriver()
	}, nil
}
