//go:build manifold

package manifold

import (
	"testing"

	"github.com/chazu/meshdump/pkg/host"
	"github.com/chazu/meshdump/pkg/kernel"
	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	require.NoError(t, err)
	return k
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, wantMin[i], min[i], 1e-6, "min[%d]", i)
		assert.InDelta(t, wantMax[i], max[i], 1e-6, "max[%d]", i)
	}
}

func TestBoxAnchoredAtOrigin(t *testing.T) {
	s, err := mustNew(t).Box(10, 20, 30)
	require.NoError(t, err)
	assertBounds(t, s, [3]float64{0, 0, 0}, [3]float64{10, 20, 30})
}

func TestPrimitivesRejectBadDimensions(t *testing.T) {
	k := mustNew(t)
	_, err := k.Box(0, 1, 1)
	assert.Error(t, err)
	_, err = k.Cylinder(1, -1)
	assert.Error(t, err)
	_, err = k.Sphere(0)
	assert.Error(t, err)
}

func TestCylinderCentered(t *testing.T) {
	s, err := mustNew(t).Cylinder(20, 5)
	require.NoError(t, err)
	min, max := s.BoundingBox()
	assert.InDelta(t, -10, min[2], 0.01)
	assert.InDelta(t, 10, max[2], 0.01)
	for i := 0; i < 2; i++ {
		assert.LessOrEqual(t, min[i], -4.5)
		assert.GreaterOrEqual(t, max[i], 4.5)
	}
}

func TestDifferenceKeepsOuterBounds(t *testing.T) {
	k := mustNew(t)
	box, err := k.Box(10, 10, 10)
	require.NoError(t, err)
	hole, err := k.Cylinder(20, 3)
	require.NoError(t, err)
	hole = k.Translate(hole, 5, 5, 5)

	assertBounds(t, k.Difference(box, hole), [3]float64{0, 0, 0}, [3]float64{10, 10, 10})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	box, err := k.Box(10, 10, 10)
	require.NoError(t, err)
	assertBounds(t, k.Translate(box, 100, 200, 300),
		[3]float64{100, 200, 300}, [3]float64{110, 210, 310})
}

func TestToMeshWeldsBox(t *testing.T) {
	k := mustNew(t)
	box, err := k.Box(10, 10, 10)
	require.NoError(t, err)
	mesh, err := k.ToMesh(box)
	require.NoError(t, err)

	// Corners shared across faces weld to the 8 box corners.
	assert.Equal(t, 8, mesh.VertexCount())
	assert.Equal(t, 12, mesh.TriangleCount())
	assert.Len(t, mesh.Normals, len(mesh.Vertices))

	mesh.Paint(host.DefaultColorChannel, mgl32.Vec4{1, 1, 1, 1})
	m, err := host.Extract(mesh, host.Options{})
	require.NoError(t, err)
	buf, err := meshbin.Encode(m)
	require.NoError(t, err)
	assert.Len(t, buf, 8+36*8+4*36)
}
