package common

import "github.com/chewxy/math32"

// RoundUp rounds value up to the next multiple of alignment, following the WGSL roundUp rule.
// See https://www.w3.org/TR/WGSL/#roundup
//
// Parameters:
//   - alignment: the alignment in bytes (must be positive)
//   - value: the value to round up
//
// Returns:
//   - int: the smallest multiple of alignment that is >= value
func RoundUp(alignment, value int) int {
	if alignment <= 0 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

// Lerp linearly interpolates between a and b.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - float32: (1 - t) * a + t * b
func Lerp(a, b, t float32) float32 {
	return (1.0-t)*a + t*b
}

// Clamp limits x to the closed range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return math32.Min(math32.Max(x, lo), hi)
}
