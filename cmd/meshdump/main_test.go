package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/meshdump/pkg/host"
	"github.com/chazu/meshdump/pkg/kernel/sdfx"
	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// run executes the command tree with a no-op logger and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(zap.NewNop())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestExportWritesDecodableMesh(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "cube.lisp", `(part "cube" (box 10 10 10) :color "#ff0000")`)
	out := filepath.Join(dir, "cube.bin")

	stdout, err := run(t, "export", script, "-o", out, "--cells", "16")
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	m, err := meshbin.DecodeFile(out)
	require.NoError(t, err)
	require.NotZero(t, m.VertexCount())
	require.NotZero(t, m.TriangleCount())
	require.NoError(t, m.Validate())
	for _, v := range m.Vertices {
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, v.Color)
	}

	lo, hi := m.Bounds()
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 0, lo[c], 1.0)
		assert.InDelta(t, 10, hi[c], 1.0)
	}
}

func TestExportDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ball.lisp", `(part "ball" (sphere :radius 3))`)

	_, err := run(t, "export", script, "--cells", "12")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "ball"+DefaultExt))
	assert.NoError(t, err)
}

func TestExportColorChannel(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "wear.lisp", `
(color-channel "Wear")
(part "a" (box 4 4 4) :color (rgba 0 1 0))
`)
	out := filepath.Join(dir, "wear.bin")

	// The script's channel is used by default.
	_, err := run(t, "export", script, "-o", out, "--cells", "12")
	require.NoError(t, err)
	m, err := meshbin.DecodeFile(out)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, m.Vertices[0].Color)

	// Asking for a channel the scene does not paint fails...
	_, err = run(t, "export", script, "-o", out, "--cells", "12", "--color-channel", "Color")
	require.Error(t, err)
	assert.ErrorIs(t, err, host.ErrMissingColorChannel)

	// ...unless missing colors are allowed.
	_, err = run(t, "export", script, "-o", out, "--cells", "12", "--color-channel", "Color", "--allow-missing-color")
	require.NoError(t, err)
	m, err = meshbin.DecodeFile(out)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, m.Vertices[0].Color)
}

func TestExportEmptyScene(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "empty.lisp", "; nothing here\n")
	out := filepath.Join(dir, "empty.bin")

	_, err := run(t, "export", script, "-o", out)
	require.NoError(t, err)

	buf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, meshbin.HeaderSize), buf)
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeScript(t, dir, "bad.lisp", `(part "a" (box -1 1 1))`)
	good := writeScript(t, dir, "good.lisp", `(part "a" (box 1 1 1))`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing script", []string{"export", filepath.Join(dir, "nope.lisp")}, "read script"},
		{"script error", []string{"export", bad, "-o", filepath.Join(dir, "bad.bin")}, "evaluate"},
		{"bad cells", []string{"export", good, "--cells", "0"}, "--cells"},
		{"missing output dir", []string{"export", good, "-o", filepath.Join(dir, "no", "such", "x.bin"), "--cells", "8"}, "meshbin"},
		{"no args", []string{"export"}, "accepts 1 arg"},
		{"unknown kernel", []string{"export", good, "--kernel", "cgal"}, "unknown kernel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "bad.bin"))
	assert.True(t, os.IsNotExist(err), "failed export must not leave a file")
}

func TestNewKernel(t *testing.T) {
	k, err := newKernel("sdfx", 12)
	require.NoError(t, err)
	require.IsType(t, &sdfx.SdfxKernel{}, k)
	assert.Equal(t, 12, k.(*sdfx.SdfxKernel).Cells())

	_, err = newKernel("nope", 12)
	assert.Error(t, err)
}

func TestInfoAndDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.bin")
	m := &meshbin.Mesh{
		Vertices: []meshbin.Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{0, 1, 0}},
			{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{0, 0, 1}},
		},
		Triangles: []meshbin.Triangle{{0, 1, 2}},
	}
	require.NoError(t, meshbin.EncodeFile(path, m))

	stdout, err := run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "vertices:  3")
	assert.Contains(t, stdout, "indices:   3")
	assert.Contains(t, stdout, "triangles: 1")
	assert.Contains(t, stdout, "bytes:     128")
	assert.Contains(t, stdout, "max:       1 1 0")
	assert.NotContains(t, stdout, "trailing")
	assert.NotContains(t, stdout, "warning")

	stdout, err = run(t, "dump", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "# mesh(3 vertices, 1 triangles)", lines[0])
	assert.Equal(t, "v 1 p 1 0 0 n 0 0 1 c 0 1 0", lines[2])
	assert.Equal(t, "f 0 0 1 2", lines[4])
}

func TestInfoReportsProblems(t *testing.T) {
	dir := t.TempDir()

	truncated := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(truncated, []byte{1, 0, 0, 0, 3, 0, 0, 0}, 0o644))
	_, err := run(t, "info", truncated)
	require.Error(t, err)
	assert.ErrorIs(t, err, meshbin.ErrTruncatedBuffer)

	_, err = run(t, "dump", truncated)
	require.Error(t, err)
	assert.ErrorIs(t, err, meshbin.ErrTruncatedBuffer)

	// A single vertex with an out-of-range triangle, followed by junk.
	buf := make([]byte, 0, 64)
	buf = append(buf, 1, 0, 0, 0, 3, 0, 0, 0)
	buf = append(buf, make([]byte, 36)...)
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 0, 7, 0, 0, 0)
	buf = append(buf, 0xde, 0xad)
	odd := filepath.Join(dir, "odd.bin")
	require.NoError(t, os.WriteFile(odd, buf, 0o644))

	stdout, err := run(t, "info", odd)
	require.NoError(t, err)
	assert.Contains(t, stdout, "trailing:  2")
	assert.Contains(t, stdout, "warning:   index 7 out of range for 1 vertices")
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		log, err := newLogger(verbose)
		require.NoError(t, err)
		assert.Equal(t, verbose, log.Core().Enabled(zap.DebugLevel))
	}
}

func TestExampleScripts(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.lisp"))
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	dir := t.TempDir()
	for _, script := range scripts {
		t.Run(filepath.Base(script), func(t *testing.T) {
			out := filepath.Join(dir, filepath.Base(script)+".bin")
			_, err := run(t, "export", script, "-o", out, "--cells", "16")
			require.NoError(t, err)

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(meshbin.HeaderSize))
		})
	}
}
