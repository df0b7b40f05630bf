package host

import (
	"fmt"

	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile-time interface check.
var _ Source = (*Mesh)(nil)

// Mesh is an in-memory Source for callers that already hold their geometry
// in Go slices.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    map[string][]mgl32.Vec4
	Faces     []meshbin.Triangle
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

func (m *Mesh) Position(i int) mgl32.Vec3 { return m.Positions[i] }

// Normal returns the normal of vertex i, or zero if normals are missing.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	if i < len(m.Normals) {
		return m.Normals[i]
	}
	return mgl32.Vec3{}
}

func (m *Mesh) ColorChannel(name string) ([]mgl32.Vec4, bool) {
	c, ok := m.Colors[name]
	return c, ok
}

func (m *Mesh) ColorChannels() []string {
	names := make([]string, 0, len(m.Colors))
	for name := range m.Colors {
		names = append(names, name)
	}
	return names
}

// SetColorChannel stores one RGBA value per vertex under name.
func (m *Mesh) SetColorChannel(name string, colors []mgl32.Vec4) error {
	if len(colors) != len(m.Positions) {
		return fmt.Errorf("%w: channel %q has %d values for %d vertices",
			ErrAttributeLength, name, len(colors), len(m.Positions))
	}
	if m.Colors == nil {
		m.Colors = make(map[string][]mgl32.Vec4)
	}
	m.Colors[name] = colors
	return nil
}

func (m *Mesh) TriangleCount() int { return len(m.Faces) }

func (m *Mesh) Triangle(i int) meshbin.Triangle { return m.Faces[i] }
