package signal

import "github.com/chewxy/math32"

// digitalCascade is true when any of its constituent signals is true.
type digitalCascade struct {
	signals []Digital
}

// NewDigitalCascade creates a Digital signal that ORs the given signals together.
// This models "take input from gamepad OR keyboard OR touch, whichever is active".
//
// Parameters:
//   - signals: the constituent signals, in any order
//
// Returns:
//   - Digital: true if any constituent is true; false for an empty cascade
func NewDigitalCascade(signals ...Digital) Digital {
	return &digitalCascade{signals: signals}
}

func (c *digitalCascade) Value() bool {
	for _, s := range c.signals {
		if s.Value() {
			return true
		}
	}
	return false
}

func (c *digitalCascade) Update(time float32) {
	for _, s := range c.signals {
		s.Update(time)
	}
}

// analogCascade reports whichever constituent currently has the largest magnitude.
type analogCascade struct {
	signals []Analog
}

// NewAnalogCascade creates an Analog signal that picks the constituent value with the largest
// absolute magnitude, keeping its sign. Ties go to the first signal in argument order.
// An empty cascade, or one where every input reads 0, reports 0.
//
// Parameters:
//   - signals: the constituent signals in priority order for ties
//
// Returns:
//   - Analog: the strongest constituent value
func NewAnalogCascade(signals ...Analog) Analog {
	return &analogCascade{signals: signals}
}

func (c *analogCascade) Value() float32 {
	var maxAbs, argMax float32
	for _, s := range c.signals {
		v := s.Value()
		// strict comparison keeps the earliest signal on ties
		if a := math32.Abs(v); a > maxAbs {
			maxAbs = a
			argMax = v
		}
	}
	return argMax
}

func (c *analogCascade) Update(time float32) {
	for _, s := range c.signals {
		s.Update(time)
	}
}

// twoButtonAxis maps a negative/positive button pair onto {-1, 0, +1}.
type twoButtonAxis struct {
	negative, positive Digital
}

// NewTwoButtonAxis creates an Analog signal from two buttons.
//
//	pos | neg | value
//	----|-----|------
//	 0  |  0  |  0
//	 0  |  1  | -1
//	 1  |  0  | +1
//	 1  |  1  |  0
//
// Parameters:
//   - negative: the button driving the axis toward -1
//   - positive: the button driving the axis toward +1
//
// Returns:
//   - Analog: the combined axis
func NewTwoButtonAxis(negative, positive Digital) Analog {
	return &twoButtonAxis{negative: negative, positive: positive}
}

func (a *twoButtonAxis) Value() float32 {
	return boolToFloat(a.positive.Value()) - boolToFloat(a.negative.Value())
}

func (a *twoButtonAxis) Update(time float32) {
	a.negative.Update(time)
	a.positive.Update(time)
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
