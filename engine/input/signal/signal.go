// Package signal implements the small reactive algebra used to turn raw device state into the
// semantic inputs a sketch declares. Every Signal is pull-based: Value is a pure read, and Update
// advances any internal state exactly once per frame.
package signal

// Type is the set of value types a Signal can carry. Digital signals carry bool, analog signals
// carry float32 (the width of a WGSL f32 uniform).
type Type interface {
	~bool | ~float32
}

// Signal is a time-varying value source.
//
// Value must be stateless to read: repeated reads without an intervening Update return the same
// result. Update must be called at most once per frame per signal instance so that edge detectors
// and envelopes keep their timing.
type Signal[T Type] interface {
	// Value returns the current value of the signal.
	//
	// Returns:
	//   - T: the current value
	Value() T

	// Update advances the signal's internal state to the given time.
	// Composite signals update their children before sampling them.
	//
	// Parameters:
	//   - time: the frame time in seconds since the engine started
	Update(time float32)
}

// Digital is a boolean signal (buttons, keys, gates).
type Digital = Signal[bool]

// Analog is a numeric signal (axes, velocities, envelopes).
type Analog = Signal[float32]

// observer adapts a live external value into the Signal interface without copying it.
type observer[T Type] struct {
	observe func() T
}

var _ Digital = &observer[bool]{}

// NewObserver creates a Signal that re-invokes observe on every Value call.
// Update is a no-op; the observed state is owned by whoever mutates it.
//
// Parameters:
//   - observe: the zero-argument callback that reads the live value
//
// Returns:
//   - Signal[T]: the observer signal
func NewObserver[T Type](observe func() T) Signal[T] {
	return &observer[T]{observe: observe}
}

func (o *observer[T]) Value() T {
	return o.observe()
}

func (o *observer[T]) Update(float32) {}

// constant is a fixed-value signal, used as a safe default before real input is wired up.
type constant[T Type] struct {
	value T
}

// NewConst creates a Signal that always reports value.
//
// Parameters:
//   - value: the fixed value
//
// Returns:
//   - Signal[T]: the constant signal
func NewConst[T Type](value T) Signal[T] {
	return constant[T]{value: value}
}

// NewDigitalConst creates a Digital signal that always reports value.
func NewDigitalConst(value bool) Digital {
	return NewConst(value)
}

// NewAnalogConst creates an Analog signal that always reports value.
func NewAnalogConst(value float32) Analog {
	return NewConst(value)
}

func (c constant[T]) Value() T {
	return c.value
}

func (c constant[T]) Update(float32) {}

// NewAnd creates a Digital signal that is true only while both a and b are true.
// Useful for modifier chords such as "hold A and press Up".
//
// Parameters:
//   - a: the first operand, usually the modifier
//   - b: the second operand
//
// Returns:
//   - Digital: the conjunction of a and b
func NewAnd(a, b Digital) Digital {
	return &and{a: a, b: b}
}

type and struct {
	a, b Digital
}

func (s *and) Value() bool {
	return s.a.Value() && s.b.Value()
}

func (s *and) Update(time float32) {
	s.a.Update(time)
	s.b.Update(time)
}
