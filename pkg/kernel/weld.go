package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WeldTolerance is the grid size used to decide that two triangle corners
// are the same vertex.
const WeldTolerance = 1e-4

type weldKey [3]int64

func keyOf(p mgl32.Vec3) weldKey {
	return weldKey{
		int64(math.Round(float64(p[0]) / WeldTolerance)),
		int64(math.Round(float64(p[1]) / WeldTolerance)),
		int64(math.Round(float64(p[2]) / WeldTolerance)),
	}
}

// Weld builds an indexed mesh from a triangle soup. Corners closer than
// WeldTolerance share a vertex, triangles that collapse after welding are
// dropped, and each vertex normal is the area-weighted sum of the normals
// of the faces around it.
func Weld(soup [][3]mgl32.Vec3) *Mesh {
	index := make(map[weldKey]uint32, len(soup))
	var positions []mgl32.Vec3
	indices := make([]uint32, 0, len(soup)*3)

	for _, tri := range soup {
		var ids [3]uint32
		for j, p := range tri {
			k := keyOf(p)
			id, ok := index[k]
			if !ok {
				id = uint32(len(positions))
				index[k] = id
				positions = append(positions, p)
			}
			ids[j] = id
		}
		if ids[0] == ids[1] || ids[1] == ids[2] || ids[0] == ids[2] {
			continue
		}
		indices = append(indices, ids[0], ids[1], ids[2])
	}

	normals := make([]mgl32.Vec3, len(positions))
	for t := 0; t < len(indices); t += 3 {
		a, b, c := positions[indices[t]], positions[indices[t+1]], positions[indices[t+2]]
		// Cross product length is twice the face area.
		n := b.Sub(a).Cross(c.Sub(a))
		for _, id := range indices[t : t+3] {
			normals[id] = normals[id].Add(n)
		}
	}

	m := &Mesh{
		Vertices: make([]float32, 0, len(positions)*3),
		Normals:  make([]float32, 0, len(positions)*3),
		Indices:  indices,
	}
	for i, p := range positions {
		n := normals[i]
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
	}
	return m
}
