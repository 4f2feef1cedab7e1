package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUp(t *testing.T) {
	tests := []struct {
		alignment, value, e int
	}{
		{4, 0, 0},
		{4, 1, 4},
		{4, 4, 4},
		{16, 8, 16},
		{16, 17, 32},
		{8, 12, 16},
	}
	for _, test := range tests {
		assert.Equal(t, test.e, RoundUp(test.alignment, test.value))
	}
}

func TestLerpAndClamp(t *testing.T) {
	assert.Equal(t, float32(0.5), Lerp(0, 1, 0.5))
	assert.Equal(t, float32(1), Lerp(1, 0.5, 0))
	assert.Equal(t, float32(0.25), Lerp(1, 0, 0.75))

	assert.Equal(t, float32(-1), Clamp(-3, -1, 1))
	assert.Equal(t, float32(1), Clamp(2, -1, 1))
	assert.Equal(t, float32(0.3), Clamp(0.3, -1, 1))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, "a", Coalesce("a", "b"))
}

func TestPtr(t *testing.T) {
	a, b := Ptr(true), Ptr(true)
	assert.True(t, *a)
	assert.NotSame(t, a, b)
}

func TestCompilationErrorMessage(t *testing.T) {
	err := &CompilationError{Label: "quad", Line: 3, Column: 7, Message: "unknown identifier", Context: "2: let x = y;"}
	assert.Contains(t, err.Error(), `shader "quad" failed to compile at 3:7: unknown identifier`)
	assert.Contains(t, err.Error(), "2: let x = y;")

	var target *CompilationError
	assert.True(t, errors.As(error(err), &target))
}
