package signal

import "github.com/Carmen-Shannon/oxy-gallery/common"

// ADSRState is the phase of an ADSR envelope.
type ADSRState int

const (
	// ADSRIdle holds the envelope at 0 until the next trigger.
	ADSRIdle ADSRState = iota

	// ADSRPlaying runs the attack and decay ramps, then holds at sustain.
	ADSRPlaying

	// ADSRReleasing ramps from the value captured at release down to 0.
	ADSRReleasing
)

// String returns the name of the state.
func (s ADSRState) String() string {
	switch s {
	case ADSRIdle:
		return "Idle"
	case ADSRPlaying:
		return "Playing"
	case ADSRReleasing:
		return "Releasing"
	default:
		return "Unknown"
	}
}

// ADSRParams holds the envelope durations (in the same time units as Update) and the sustain level.
type ADSRParams struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

// adsr is the implementation of the ADSR interface.
type adsr struct {
	trigger Digital
	release Digital
	params  ADSRParams

	value             float32
	state             ADSRState
	timeTriggered     float32
	timeReleased      float32
	valueWhenReleased float32
}

// ADSR is an Attack-Decay-Sustain-Release envelope driven by a pair of digital signals.
// A true trigger arms (or re-arms) the attack; a true release starts the release ramp from the
// current value. When both are true in the same Update while playing, the trigger wins.
type ADSR interface {
	Analog

	// State returns the current phase of the envelope.
	//
	// Returns:
	//   - ADSRState: Idle, Playing or Releasing
	State() ADSRState

	// Params returns the envelope parameters.
	//
	// Returns:
	//   - ADSRParams: the attack, decay, sustain and release settings
	Params() ADSRParams
}

var _ ADSR = &adsr{}

// NewADSR creates an envelope keyed by trigger and release.
// Typical wiring uses NewTrigger(button) and NewRelease(button) so that a press starts the attack
// and letting go starts the release.
//
// Parameters:
//   - trigger: digital signal that arms the attack while true
//   - release: digital signal that starts the release while true
//   - params: the envelope durations and sustain level
//
// Returns:
//   - ADSR: the envelope, initially Idle at 0
func NewADSR(trigger, release Digital, params ADSRParams) ADSR {
	return &adsr{
		trigger:       trigger,
		release:       release,
		params:        params,
		state:         ADSRIdle,
		timeTriggered: -1,
		timeReleased:  -1,
	}
}

func (e *adsr) Value() float32 {
	return e.value
}

func (e *adsr) State() ADSRState {
	return e.state
}

func (e *adsr) Params() ADSRParams {
	return e.params
}

func (e *adsr) Update(time float32) {
	e.trigger.Update(time)
	e.release.Update(time)
	triggered := e.trigger.Value()
	released := e.release.Value()

	switch e.state {
	case ADSRIdle:
		e.updateIdle(time, triggered)
	case ADSRPlaying:
		e.updatePlaying(time, triggered, released)
	case ADSRReleasing:
		e.updateReleasing(time, triggered)
	}
}

func (e *adsr) updateIdle(time float32, triggered bool) {
	e.value = 0
	if triggered {
		e.startPlaying(time)
	}
}

func (e *adsr) updatePlaying(time float32, triggered, released bool) {
	e.value = e.playingValue(time)

	if triggered {
		// same state, restart the timing
		e.startPlaying(time)
	} else if released {
		e.state = ADSRReleasing
		e.timeTriggered = -1
		e.timeReleased = time
		e.valueWhenReleased = e.value
		e.value = e.releasingValue(time)
	}
}

func (e *adsr) updateReleasing(time float32, triggered bool) {
	if triggered {
		e.startPlaying(time)
		return
	}

	e.value = e.releasingValue(time)
	if e.value == 0 {
		e.state = ADSRIdle
		e.timeReleased = -1
		e.valueWhenReleased = 0
	}
}

// startPlaying arms the attack at time and evaluates it immediately so zero-length phases take
// effect on the same frame as the triggering edge.
func (e *adsr) startPlaying(time float32) {
	e.state = ADSRPlaying
	e.timeTriggered = time
	e.timeReleased = -1
	e.valueWhenReleased = 0
	e.value = e.playingValue(time)
}

func (e *adsr) playingValue(time float32) float32 {
	elapsed := time - e.timeTriggered
	p := e.params

	switch {
	case elapsed >= p.Attack+p.Decay:
		return p.Sustain
	case elapsed >= p.Attack:
		t := float32(1)
		if p.Decay != 0 {
			t = (elapsed - p.Attack) / p.Decay
		}
		return common.Lerp(1, p.Sustain, t)
	default:
		t := float32(1)
		if p.Attack != 0 {
			t = elapsed / p.Attack
		}
		return common.Lerp(0, 1, t)
	}
}

func (e *adsr) releasingValue(time float32) float32 {
	if e.params.Release == 0 {
		return 0
	}
	t := common.Clamp((time-e.timeReleased)/e.params.Release, 0, 1)
	return common.Lerp(e.valueWhenReleased, 0, t)
}
