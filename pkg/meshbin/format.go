package meshbin

import (
	"encoding/binary"
	"fmt"
	"math"
)

// byteOrder is fixed by the format; hosts of either endianness read the
// same file.
var byteOrder = binary.LittleEndian

// Sizes of the fixed parts of the layout, in bytes.
const (
	HeaderSize = 8
	// attribute record: 3 float32s
	attribSize = 12
	// position + normal + color per vertex
	vertexSize = 3 * attribSize
	indexSize  = 4
)

// Header is the fixed 8-byte prefix of an encoded mesh.
type Header struct {
	VertexCount uint32
	// IndexCount counts individual indices, not triangles.
	IndexCount uint32
}

// TriangleCount returns IndexCount / 3.
func (h Header) TriangleCount() uint32 {
	return h.IndexCount / 3
}

// Size returns the number of bytes the header says the buffer occupies.
func (h Header) Size() uint64 {
	return EncodedSize(uint64(h.VertexCount), uint64(h.IndexCount))
}

// Section offsets, relative to the start of the buffer.
func (h Header) positionsOffset() uint64 { return HeaderSize }
func (h Header) normalsOffset() uint64   { return HeaderSize + attribSize*uint64(h.VertexCount) }
func (h Header) colorsOffset() uint64    { return HeaderSize + 2*attribSize*uint64(h.VertexCount) }
func (h Header) indicesOffset() uint64   { return HeaderSize + vertexSize*uint64(h.VertexCount) }

// EncodedSize returns 8 + 36*vertices + 4*indices.
func EncodedSize(vertices, indices uint64) uint64 {
	return HeaderSize + vertexSize*vertices + indexSize*indices
}

// ReadHeader parses the header at the start of buf and checks that the
// counts describe an addressable buffer. It does not check that buf holds
// the full body.
func ReadHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, &TruncatedError{Need: HeaderSize, Have: len(buf)}
	}
	h := Header{
		VertexCount: byteOrder.Uint32(buf[0:4]),
		IndexCount:  byteOrder.Uint32(buf[4:8]),
	}
	if h.Size() > math.MaxInt {
		return Header{}, fmt.Errorf("%w: %d vertices and %d indices need %d bytes",
			ErrMalformedHeader, h.VertexCount, h.IndexCount, h.Size())
	}
	if h.IndexCount%3 != 0 {
		return Header{}, fmt.Errorf("%w: index count %d is not a multiple of 3",
			ErrMalformedHeader, h.IndexCount)
	}
	return h, nil
}

func (h Header) put(buf []byte) {
	byteOrder.PutUint32(buf[0:4], h.VertexCount)
	byteOrder.PutUint32(buf[4:8], h.IndexCount)
}

func putVec3(buf []byte, off uint64, v [3]float32) {
	byteOrder.PutUint32(buf[off:], math.Float32bits(v[0]))
	byteOrder.PutUint32(buf[off+4:], math.Float32bits(v[1]))
	byteOrder.PutUint32(buf[off+8:], math.Float32bits(v[2]))
}

func vec3At(buf []byte, off uint64) [3]float32 {
	return [3]float32{
		math.Float32frombits(byteOrder.Uint32(buf[off:])),
		math.Float32frombits(byteOrder.Uint32(buf[off+4:])),
		math.Float32frombits(byteOrder.Uint32(buf[off+8:])),
	}
}
