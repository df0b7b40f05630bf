// Package meshbin reads and writes the flat binary mesh format: a small
// header of counts followed by planar position, normal and color arrays
// and a triangle index array, all little-endian.
//
// Encode and Decode are pure functions and hold no state, so they are safe
// to call concurrently on independent values.
package meshbin

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a single mesh vertex. Color is RGB; alpha never reaches the
// format.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
}

// Triangle is an ordered triple of vertex indices. Winding is preserved as
// given.
type Triangle [3]uint32

// Mesh is an ordered list of vertices and the triangles indexing them.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IndexCount returns the number of individual indices, three per triangle.
func (m *Mesh) IndexCount() int {
	return len(m.Triangles) * 3
}

// IsEmpty returns true if the mesh has no vertices and no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 && len(m.Triangles) == 0
}

// Validate reports the first triangle that references a vertex past the
// end of the vertex list.
func (m *Mesh) Validate() error {
	n := uint64(len(m.Vertices))
	for ti, tri := range m.Triangles {
		for corner, idx := range tri {
			if uint64(idx) >= n {
				return &IndexError{
					Triangle:    ti,
					Corner:      corner,
					Index:       idx,
					VertexCount: len(m.Vertices),
				}
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return min, max
	}
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh(%d vertices, %d triangles)", len(m.Vertices), len(m.Triangles))
}
