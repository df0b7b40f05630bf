package meshbin

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes buf to path. The data goes to a temporary file in the
// same directory which is renamed over path once complete, so a failed
// write leaves nothing behind.
func WriteFile(path string, buf []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("meshbin: write %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(buf); err != nil {
		return fmt.Errorf("meshbin: write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("meshbin: sync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("meshbin: close %s: %w", path, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("meshbin: chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("meshbin: rename %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the whole encoded buffer at path. It does not decode it.
func ReadFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshbin: read %s: %w", path, err)
	}
	return buf, nil
}

// EncodeFile encodes m and writes it to path.
func EncodeFile(path string, m *Mesh) error {
	buf, err := Encode(m)
	if err != nil {
		return err
	}
	return WriteFile(path, buf)
}

// DecodeFile reads and decodes the mesh at path.
func DecodeFile(path string) (*Mesh, error) {
	buf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("meshbin: decode %s: %w", path, err)
	}
	return m, nil
}
