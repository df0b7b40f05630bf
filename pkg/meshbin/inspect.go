package meshbin

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Info summarizes an encoded buffer without building a Mesh.
type Info struct {
	Header
	Triangles uint32
	Bytes     uint64 // bytes required by the header
	Trailing  int    // bytes past the declared layout
	Min, Max  mgl32.Vec3
	// MaxIndex is the largest index stored, or -1 when there are none.
	MaxIndex int64
}

// Inspect validates buf the same way Decode does and reports its layout and
// the bounding box of its positions.
func Inspect(buf []byte) (*Info, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	size := h.Size()
	if uint64(len(buf)) < size {
		return nil, &TruncatedError{Need: int64(size), Have: len(buf)}
	}

	info := &Info{
		Header:    h,
		Triangles: h.TriangleCount(),
		Bytes:     size,
		Trailing:  len(buf) - int(size),
		MaxIndex:  -1,
	}

	if h.VertexCount > 0 {
		inf := float32(math.Inf(1))
		info.Min = mgl32.Vec3{inf, inf, inf}
		info.Max = mgl32.Vec3{-inf, -inf, -inf}
		pos := h.positionsOffset()
		for i := uint64(0); i < uint64(h.VertexCount); i++ {
			p := vec3At(buf, pos+i*attribSize)
			for c := 0; c < 3; c++ {
				info.Min[c] = min(info.Min[c], p[c])
				info.Max[c] = max(info.Max[c], p[c])
			}
		}
	}

	off := h.indicesOffset()
	for i := uint64(0); i < uint64(h.IndexCount); i++ {
		idx := int64(byteOrder.Uint32(buf[off+i*indexSize:]))
		if idx > info.MaxIndex {
			info.MaxIndex = idx
		}
	}
	return info, nil
}

// IndicesInRange reports whether every stored index addresses a vertex.
func (i *Info) IndicesInRange() bool {
	return i.MaxIndex < int64(i.VertexCount)
}
