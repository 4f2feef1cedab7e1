package common

// Coalesce picks the first argument that is not the zero value of its type. Config loaders use it
// to fall back to defaults for keys a file leaves out.
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate, or the zero value when every candidate is zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Ptr returns a pointer to a copy of v, for optional config fields.
func Ptr[T any](v T) *T {
	return &v
}
