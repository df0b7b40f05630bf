package meshbin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.mesh")
	buf, err := Encode(rgbTriangle())
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, buf))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mesh")
	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0o644))

	require.NoError(t, EncodeFile(path, quad()))

	m, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, quad(), m)
}

func TestWriteFileMissingDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nope", "out.mesh")

	err := WriteFile(path, []byte{0, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEncodeFileLeavesNoArtifactOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.mesh")
	m := rgbTriangle()
	m.Triangles[0][2] = 9

	err := EncodeFile(path, m)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.mesh"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.mesh")
	buf, err := Encode(quad())
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, buf[:20]))

	_, err = DecodeFile(path)
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}
