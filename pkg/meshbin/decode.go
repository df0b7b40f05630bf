package meshbin

// Decode parses buf into a Mesh. Bytes past the end of the declared layout
// are ignored.
//
// Decode fails with ErrMalformedHeader if the header counts cannot describe
// an addressable buffer, and with ErrTruncatedBuffer if buf is shorter than
// the header requires.
func Decode(buf []byte) (*Mesh, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	if uint64(len(buf)) < h.Size() {
		return nil, &TruncatedError{Need: int64(h.Size()), Have: len(buf)}
	}

	m := &Mesh{
		Vertices:  make([]Vertex, h.VertexCount),
		Triangles: make([]Triangle, h.TriangleCount()),
	}

	pos, nrm, col := h.positionsOffset(), h.normalsOffset(), h.colorsOffset()
	for i := range m.Vertices {
		off := uint64(i) * attribSize
		m.Vertices[i] = Vertex{
			Position: vec3At(buf, pos+off),
			Normal:   vec3At(buf, nrm+off),
			Color:    vec3At(buf, col+off),
		}
	}

	off := h.indicesOffset()
	for i := range m.Triangles {
		for c := 0; c < 3; c++ {
			m.Triangles[i][c] = byteOrder.Uint32(buf[off:])
			off += indexSize
		}
	}
	return m, nil
}
