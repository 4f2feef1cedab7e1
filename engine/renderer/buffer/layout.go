package buffer

import "github.com/Carmen-Shannon/oxy-gallery/common"

// Alignment returns the byte alignment of a member with the given component count.
// Three-component members align like four-component members (vec3 pads to vec4).
//
// Parameters:
//   - components: the number of 4-byte components in the member
//
// Returns:
//   - int: the alignment in bytes
func Alignment(components int) int {
	if components == 3 {
		components = 4
	}
	return components * bytesPerComponent
}

// layoutMember is one entry of a struct layout.
type layoutMember struct {
	alignment int
	size      int
}

// structLayout is the computed byte layout of a struct.
type structLayout struct {
	offsets   []int
	alignment int
	size      int
}

// computeLayout assigns offsets in declaration order. Each offset is the running offset rounded
// up to the member's alignment; the running offset then advances by the member's unpadded size.
// The struct size is the end of the last member rounded up to the largest alignment.
func computeLayout(members []layoutMember) structLayout {
	l := structLayout{offsets: make([]int, len(members))}
	offset := 0
	for i, m := range members {
		offset = common.RoundUp(m.alignment, offset)
		l.offsets[i] = offset
		offset += m.size
		l.alignment = max(l.alignment, m.alignment)
	}
	if len(members) == 0 {
		return l
	}
	l.size = common.RoundUp(l.alignment, offset)
	return l
}
