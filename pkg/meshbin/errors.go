package meshbin

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by Encode when a triangle references a
	// vertex that does not exist.
	ErrIndexOutOfRange = errors.New("meshbin: index out of range")

	// ErrTruncatedBuffer is returned by Decode when the buffer is shorter
	// than its header declares.
	ErrTruncatedBuffer = errors.New("meshbin: truncated buffer")

	// ErrMalformedHeader is returned when a header count cannot describe a
	// representable buffer.
	ErrMalformedHeader = errors.New("meshbin: malformed header")
)

// IndexError describes a triangle corner pointing past the vertex list.
type IndexError struct {
	Triangle    int
	Corner      int
	Index       uint32
	VertexCount int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: triangle %d corner %d references vertex %d, mesh has %d vertices",
		ErrIndexOutOfRange, e.Triangle, e.Corner, e.Index, e.VertexCount)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// TruncatedError records how many bytes the header required.
type TruncatedError struct {
	Need int64
	Have int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%v: need %d bytes, have %d", ErrTruncatedBuffer, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncatedBuffer }
