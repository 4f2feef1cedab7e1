package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

// UniformType is the WGSL type of a uniform member (or of one element of a uniform array).
type UniformType int

const (
	UniformF32 UniformType = iota
	UniformU32
	UniformI32
	UniformVec2F
	UniformVec3F
	UniformVec4F
	UniformVec4U
)

// scalarKind is the component type of a UniformType.
type scalarKind int

const (
	scalarFloat scalarKind = iota
	scalarUint
	scalarInt
)

// Components returns the number of 4-byte components in one value of the type.
func (t UniformType) Components() int {
	switch t {
	case UniformVec2F:
		return 2
	case UniformVec3F:
		return 3
	case UniformVec4F, UniformVec4U:
		return 4
	default:
		return 1
	}
}

func (t UniformType) kind() scalarKind {
	switch t {
	case UniformU32, UniformVec4U:
		return scalarUint
	case UniformI32:
		return scalarInt
	default:
		return scalarFloat
	}
}

// String returns the WGSL spelling of the type.
func (t UniformType) String() string {
	switch t {
	case UniformF32:
		return "f32"
	case UniformU32:
		return "u32"
	case UniformI32:
		return "i32"
	case UniformVec2F:
		return "vec2f"
	case UniformVec3F:
		return "vec3f"
	case UniformVec4F:
		return "vec4f"
	case UniformVec4U:
		return "vec4u"
	default:
		return fmt.Sprintf("UniformType(%d)", int(t))
	}
}

// Uniform is one member of a UniformStruct: either a single value or a fixed-length array.
// Values are stored as raw 32-bit patterns; assigning a value whose bit pattern matches the
// current one does not mark the uniform dirty.
type Uniform interface {
	// Type returns the element type.
	//
	// Returns:
	//   - UniformType: the element type
	Type() UniformType

	// Length returns the number of elements (1 for a non-array uniform).
	//
	// Returns:
	//   - int: the element count
	Length() int

	// Components returns the total number of 4-byte components across all elements.
	//
	// Returns:
	//   - int: the component count
	Components() int

	// Alignment returns the member alignment within a struct.
	//
	// Returns:
	//   - int: the alignment in bytes
	Alignment() int

	// Size returns the unpadded member size in bytes.
	//
	// Returns:
	//   - int: the size in bytes
	Size() int

	// IsDirty reports whether the value changed since the owning struct last flushed it.
	//
	// Returns:
	//   - bool: true if a flush is pending
	IsDirty() bool

	// SetFloat32 assigns the value of a float-typed uniform.
	//
	// Parameters:
	//   - values: exactly Components() values
	//
	// Returns:
	//   - error: common.ErrConfiguration on a length or type mismatch
	SetFloat32(values ...float32) error

	// SetUint32 assigns the value of a u32-typed uniform.
	//
	// Parameters:
	//   - values: exactly Components() values
	//
	// Returns:
	//   - error: common.ErrConfiguration on a length or type mismatch
	SetUint32(values ...uint32) error

	// SetInt32 assigns the value of an i32-typed uniform.
	//
	// Parameters:
	//   - values: exactly Components() values
	//
	// Returns:
	//   - error: common.ErrConfiguration on a length or type mismatch
	SetInt32(values ...int32) error

	// Float32 returns the current value interpreted as float32.
	//
	// Returns:
	//   - []float32: a copy of the value
	Float32() []float32

	// Uint32 returns the current value as raw 32-bit patterns.
	//
	// Returns:
	//   - []uint32: a copy of the value
	Uint32() []uint32

	// Int32 returns the current value interpreted as int32.
	//
	// Returns:
	//   - []int32: a copy of the value
	Int32() []int32

	// flush copies the value into dst and clears the dirty flag.
	flush(dst []byte)
}

// uniform is the implementation of the Uniform interface for both single values and arrays.
type uniform struct {
	uniformType UniformType
	length      int
	isArray     bool
	bits        []uint32
	dirty       bool
}

var _ Uniform = &uniform{}

// NewUniform creates a single-value uniform. New uniforms start dirty so the first flush
// uploads them.
//
// Parameters:
//   - t: the value type
//   - bits: the initial value as raw 32-bit patterns, exactly t.Components() of them
//
// Returns:
//   - Uniform: the uniform
//   - error: common.ErrConfiguration if the value length does not match the type
func NewUniform(t UniformType, bits []uint32) (Uniform, error) {
	if len(bits) != t.Components() {
		return nil, fmt.Errorf("uniform %s expects %d components, got %d: %w", t, t.Components(), len(bits), common.ErrConfiguration)
	}
	return &uniform{
		uniformType: t,
		length:      1,
		bits:        append([]uint32(nil), bits...),
		dirty:       true,
	}, nil
}

// NewUniformArray creates an array uniform. The element type must be a 4-component vector so the
// array stride matches WGSL's 16-byte uniform array stride.
//
// Parameters:
//   - t: the element type
//   - length: the number of elements
//   - bits: the initial value as raw 32-bit patterns, exactly length * t.Components() of them
//
// Returns:
//   - Uniform: the array uniform
//   - error: common.ErrConfiguration if the element is not a multiple of 4 components or the
//     value length does not match
func NewUniformArray(t UniformType, length int, bits []uint32) (Uniform, error) {
	if t.Components()%4 != 0 {
		return nil, fmt.Errorf("uniform array element %s must have a multiple of 4 components: %w", t, common.ErrConfiguration)
	}
	if length < 1 {
		return nil, fmt.Errorf("uniform array must have at least one element, got %d: %w", length, common.ErrConfiguration)
	}
	if want := length * t.Components(); len(bits) != want {
		return nil, fmt.Errorf("uniform array<%s, %d> expects %d components, got %d: %w", t, length, want, len(bits), common.ErrConfiguration)
	}
	return &uniform{
		uniformType: t,
		length:      length,
		isArray:     true,
		bits:        append([]uint32(nil), bits...),
		dirty:       true,
	}, nil
}

// NewFloatUniform creates a single-value float uniform from float32 values.
func NewFloatUniform(t UniformType, values ...float32) (Uniform, error) {
	if t.kind() != scalarFloat {
		return nil, fmt.Errorf("uniform %s is not float typed: %w", t, common.ErrConfiguration)
	}
	return NewUniform(t, floatBits(values))
}

// NewUintUniform creates a single-value u32 uniform.
func NewUintUniform(t UniformType, values ...uint32) (Uniform, error) {
	if t.kind() != scalarUint {
		return nil, fmt.Errorf("uniform %s is not u32 typed: %w", t, common.ErrConfiguration)
	}
	return NewUniform(t, values)
}

// NewFloatArray creates a float array uniform.
func NewFloatArray(t UniformType, length int, values ...float32) (Uniform, error) {
	if t.kind() != scalarFloat {
		return nil, fmt.Errorf("uniform array element %s is not float typed: %w", t, common.ErrConfiguration)
	}
	return NewUniformArray(t, length, floatBits(values))
}

// NewUintArray creates a u32 array uniform.
func NewUintArray(t UniformType, length int, values ...uint32) (Uniform, error) {
	if t.kind() != scalarUint {
		return nil, fmt.Errorf("uniform array element %s is not u32 typed: %w", t, common.ErrConfiguration)
	}
	return NewUniformArray(t, length, values)
}

func (u *uniform) Type() UniformType {
	return u.uniformType
}

func (u *uniform) Length() int {
	return u.length
}

func (u *uniform) Components() int {
	return len(u.bits)
}

func (u *uniform) Alignment() int {
	if u.isArray {
		return Alignment(4)
	}
	return Alignment(u.uniformType.Components())
}

func (u *uniform) Size() int {
	return len(u.bits) * bytesPerComponent
}

func (u *uniform) IsDirty() bool {
	return u.dirty
}

func (u *uniform) SetFloat32(values ...float32) error {
	if u.uniformType.kind() != scalarFloat {
		return fmt.Errorf("cannot assign float values to %s uniform: %w", u.uniformType, common.ErrConfiguration)
	}
	return u.set(floatBits(values))
}

func (u *uniform) SetUint32(values ...uint32) error {
	if u.uniformType.kind() != scalarUint {
		return fmt.Errorf("cannot assign u32 values to %s uniform: %w", u.uniformType, common.ErrConfiguration)
	}
	return u.set(values)
}

func (u *uniform) SetInt32(values ...int32) error {
	if u.uniformType.kind() != scalarInt {
		return fmt.Errorf("cannot assign i32 values to %s uniform: %w", u.uniformType, common.ErrConfiguration)
	}
	bits := make([]uint32, len(values))
	for i, v := range values {
		bits[i] = uint32(v)
	}
	return u.set(bits)
}

// set copies bits in and marks the uniform dirty only if any component's bit pattern changed.
func (u *uniform) set(bits []uint32) error {
	if len(bits) != len(u.bits) {
		return fmt.Errorf("uniform %s expects %d components, got %d: %w", u.uniformType, len(u.bits), len(bits), common.ErrConfiguration)
	}
	for i, b := range bits {
		if u.bits[i] != b {
			copy(u.bits, bits)
			u.dirty = true
			return nil
		}
	}
	return nil
}

func (u *uniform) Float32() []float32 {
	values := make([]float32, len(u.bits))
	for i, b := range u.bits {
		values[i] = math.Float32frombits(b)
	}
	return values
}

func (u *uniform) Uint32() []uint32 {
	return append([]uint32(nil), u.bits...)
}

func (u *uniform) Int32() []int32 {
	values := make([]int32, len(u.bits))
	for i, b := range u.bits {
		values[i] = int32(b)
	}
	return values
}

func (u *uniform) flush(dst []byte) {
	for i, b := range u.bits {
		binary.LittleEndian.PutUint32(dst[i*4:(i+1)*4], b)
	}
	u.dirty = false
}

func floatBits(values []float32) []uint32 {
	bits := make([]uint32, len(values))
	for i, v := range values {
		bits[i] = math.Float32bits(v)
	}
	return bits
}
