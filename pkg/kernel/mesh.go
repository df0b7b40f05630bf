package kernel

import (
	"fmt"

	"github.com/chazu/meshdump/pkg/host"
	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
)

var _ host.Source = (*Mesh)(nil)

// Mesh is a triangle mesh produced by a kernel.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Each color channel holds 4 floats (r,g,b,a) per vertex.
type Mesh struct {
	Vertices []float32            // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32            // [nx0,ny0,nz0, ...]
	Indices  []uint32             // [i0,i1,i2, ...] triangles
	Colors   map[string][]float32 // channel -> [r0,g0,b0,a0, ...]
	PartName string               // which scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

func (m *Mesh) Triangle(i int) meshbin.Triangle {
	return meshbin.Triangle{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// ColorChannel unpacks the named channel into RGBA vectors.
func (m *Mesh) ColorChannel(name string) ([]mgl32.Vec4, bool) {
	flat, ok := m.Colors[name]
	if !ok {
		return nil, false
	}
	out := make([]mgl32.Vec4, len(flat)/4)
	for i := range out {
		out[i] = mgl32.Vec4{flat[i*4], flat[i*4+1], flat[i*4+2], flat[i*4+3]}
	}
	return out, true
}

func (m *Mesh) ColorChannels() []string {
	names := make([]string, 0, len(m.Colors))
	for name := range m.Colors {
		names = append(names, name)
	}
	return names
}

// Paint fills the named channel with a single RGBA color.
func (m *Mesh) Paint(channel string, rgba mgl32.Vec4) {
	n := m.VertexCount()
	flat := make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		flat = append(flat, rgba[0], rgba[1], rgba[2], rgba[3])
	}
	if m.Colors == nil {
		m.Colors = make(map[string][]float32)
	}
	m.Colors[channel] = flat
}

// Merge concatenates meshes into one, offsetting indices. A color channel
// survives only if every input mesh has it.
func Merge(name string, meshes ...*Mesh) (*Mesh, error) {
	out := &Mesh{PartName: name}

	shared := map[string]bool{}
	for i, m := range meshes {
		if i == 0 {
			for ch := range m.Colors {
				shared[ch] = true
			}
			continue
		}
		for ch := range shared {
			if _, ok := m.Colors[ch]; !ok {
				delete(shared, ch)
			}
		}
	}
	if len(shared) > 0 {
		out.Colors = make(map[string][]float32, len(shared))
	}

	for _, m := range meshes {
		base := out.VertexCount()
		if uint64(base)+uint64(m.VertexCount()) > 1<<32 {
			return nil, fmt.Errorf("kernel: merge %s: more than 2^32 vertices", name)
		}
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+uint32(base))
		}
		for ch := range shared {
			out.Colors[ch] = append(out.Colors[ch], m.Colors[ch]...)
		}
	}
	return out, nil
}
