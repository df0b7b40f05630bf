package meshbin

import (
	"fmt"
	"math"
)

// Encode serializes m. Vertex attributes are written planar: every position,
// then every normal, then every color, followed by the indices in triangle
// order. Floats are copied bit for bit, NaN and Inf included.
//
// Encode fails with ErrIndexOutOfRange if any triangle references a missing
// vertex; nothing is returned in that case.
func Encode(m *Mesh) ([]byte, error) {
	if m == nil {
		m = &Mesh{}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	nv := uint64(len(m.Vertices))
	ni := uint64(len(m.Triangles)) * 3
	if nv > math.MaxUint32 || ni > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d vertices and %d indices do not fit 32-bit counts",
			ErrMalformedHeader, nv, ni)
	}
	h := Header{VertexCount: uint32(nv), IndexCount: uint32(ni)}
	if h.Size() > math.MaxInt {
		return nil, fmt.Errorf("%w: encoded size %d is not addressable", ErrMalformedHeader, h.Size())
	}

	buf := make([]byte, h.Size())
	h.put(buf)

	pos, nrm, col := h.positionsOffset(), h.normalsOffset(), h.colorsOffset()
	for i, v := range m.Vertices {
		off := uint64(i) * attribSize
		putVec3(buf, pos+off, v.Position)
		putVec3(buf, nrm+off, v.Normal)
		putVec3(buf, col+off, v.Color)
	}

	off := h.indicesOffset()
	for _, tri := range m.Triangles {
		for _, idx := range tri {
			byteOrder.PutUint32(buf[off:], idx)
			off += indexSize
		}
	}
	return buf, nil
}
