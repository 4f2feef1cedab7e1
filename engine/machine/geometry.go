package machine

import "github.com/Carmen-Shannon/oxy-gallery/engine/renderer/buffer"

const (
	// CanvasWidth and CanvasHeight are the gallery's portrait canvas size in pixels.
	CanvasWidth  = 500
	CanvasHeight = 700

	// QuadVertexCount is the number of vertices in the full-screen quad (two triangles).
	QuadVertexCount = 6
)

// UVMode selects the UV coordinates of the full-screen quad.
type UVMode int

const (
	// UVModeBasic is pixel / resolution: [0, 1] in each direction from the bottom left corner, v up.
	UVModeBasic UVMode = iota

	// UVModeCentered is (pixel - resolution / 2) / resolution.x: [-1, 1] in u and
	// [-height/width, height/width] in v, v up, so distances are square.
	UVModeCentered
)

func (m UVMode) String() string {
	if m == UVModeCentered {
		return "centered"
	}
	return "basic"
}

// QuadPositions are the clip-space xy positions of the full-screen quad, top left triangle first.
var QuadPositions = []float32{
	-1, 1,
	-1, -1,
	1, 1,

	1, 1,
	-1, -1,
	1, -1,
}

// QuadUVs returns the per-vertex UVs of the full-screen quad for a UV mode.
//
// Parameters:
//   - mode: the UV mode
//
// Returns:
//   - []float32: two values per vertex, QuadVertexCount vertices
func QuadUVs(mode UVMode) []float32 {
	if mode == UVModeBasic {
		return []float32{
			0, 1,
			0, 0,
			1, 1,

			1, 1,
			0, 0,
			1, 0,
		}
	}

	const uMax = float32(1.0)
	const vMax = float32(CanvasHeight) / float32(CanvasWidth)
	return []float32{
		-uMax, vMax,
		-uMax, -vMax,
		uMax, vMax,

		uMax, vMax,
		-uMax, -vMax,
		uMax, -vMax,
	}
}

// QuadVertexBuffer builds the vertex buffer of the full-screen quad: position at location 0 and
// uv at location 1.
//
// Parameters:
//   - mode: the UV mode
//
// Returns:
//   - buffer.VertexBuffer: the uncreated vertex buffer
//   - error: a configuration error (never for the built-in data)
func QuadVertexBuffer(mode UVMode) (buffer.VertexBuffer, error) {
	positions, err := buffer.NewVertexAttribute(2, QuadPositions)
	if err != nil {
		return nil, err
	}
	uvs, err := buffer.NewVertexAttribute(2, QuadUVs(mode))
	if err != nil {
		return nil, err
	}
	return buffer.NewVertexBuffer("quad_vertices", positions, uvs)
}

// ShapeGeometry is indexed triangle geometry for the shape machine.
type ShapeGeometry struct {
	Positions buffer.VertexAttribute
	Normals   buffer.VertexAttribute
	UVs       buffer.VertexAttribute
	Indices   []uint32
}

// cubeCorners are indexed by bit pattern xyz, 1 meaning +1 on that axis.
var cubeCorners = [8][3]float32{
	{-1, -1, -1},
	{-1, -1, 1},
	{-1, 1, -1},
	{-1, 1, 1},
	{1, -1, -1},
	{1, -1, 1},
	{1, 1, -1},
	{1, 1, 1},
}

// cubeFaces list each face's corners counter-clockwise seen from outside, with the face normal.
var cubeFaces = [6]struct {
	corners [4]int
	normal  [3]float32
}{
	{[4]int{0b111, 0b101, 0b100, 0b110}, [3]float32{1, 0, 0}},
	{[4]int{0b000, 0b001, 0b011, 0b010}, [3]float32{-1, 0, 0}},
	{[4]int{0b111, 0b110, 0b010, 0b011}, [3]float32{0, 1, 0}},
	{[4]int{0b000, 0b100, 0b101, 0b001}, [3]float32{0, -1, 0}},
	{[4]int{0b111, 0b011, 0b001, 0b101}, [3]float32{0, 0, 1}},
	{[4]int{0b000, 0b010, 0b110, 0b100}, [3]float32{0, 0, -1}},
}

var (
	faceUVs     = [8]float32{0, 0, 1, 0, 1, 1, 0, 1}
	quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}
)

// CubeGeometry builds a cube spanning [-1, 1] on each axis: 24 vertices (4 per face, so each face
// has its own normal and UVs) and 36 indices.
//
// Returns:
//   - ShapeGeometry: the cube
func CubeGeometry() ShapeGeometry {
	positions := make([]float32, 0, 24*3)
	normals := make([]float32, 0, 24*3)
	uvs := make([]float32, 0, 24*2)
	indices := make([]uint32, 0, 36)

	for i, face := range cubeFaces {
		for _, c := range face.corners {
			positions = append(positions, cubeCorners[c][:]...)
			normals = append(normals, face.normal[:]...)
		}
		uvs = append(uvs, faceUVs[:]...)
		for _, idx := range quadIndices {
			indices = append(indices, uint32(4*i)+idx)
		}
	}

	return ShapeGeometry{
		Positions: buffer.MustVertexAttribute(3, positions),
		Normals:   buffer.MustVertexAttribute(3, normals),
		UVs:       buffer.MustVertexAttribute(2, uvs),
		Indices:   indices,
	}
}
