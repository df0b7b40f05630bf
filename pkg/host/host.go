// Package host defines the boundary between a 3D host (a scene, a kernel,
// an importer) and the binary mesh format. A host exposes its already
// triangulated geometry through Source; Extract snapshots it into a
// meshbin.Mesh.
package host

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultColorChannel is the color attribute read when none is named.
const DefaultColorChannel = "Color"

var (
	// ErrMissingColorChannel is returned when the requested color channel
	// does not exist on the source.
	ErrMissingColorChannel = errors.New("host: missing color channel")

	// ErrAttributeLength is returned when a per-vertex attribute does not
	// have one entry per vertex.
	ErrAttributeLength = errors.New("host: attribute length mismatch")
)

// Source is a triangulated host mesh. Normals are per vertex and already
// computed; colors are RGBA and stored in named channels.
type Source interface {
	VertexCount() int
	Position(i int) mgl32.Vec3
	Normal(i int) mgl32.Vec3

	// ColorChannel returns the RGBA values of the named channel, one per
	// vertex, and whether the channel exists.
	ColorChannel(name string) ([]mgl32.Vec4, bool)
	ColorChannels() []string

	TriangleCount() int
	Triangle(i int) meshbin.Triangle
}

// Options control Extract.
type Options struct {
	// ColorChannel names the color attribute to export. Empty means
	// DefaultColorChannel.
	ColorChannel string

	// AllowMissingColor exports black instead of failing when the channel
	// is absent.
	AllowMissingColor bool
}

func (o Options) channel() string {
	if o.ColorChannel == "" {
		return DefaultColorChannel
	}
	return o.ColorChannel
}

// MissingChannelError names the channel that was asked for and the ones the
// source has.
type MissingChannelError struct {
	Name      string
	Available []string
}

func (e *MissingChannelError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%v %q: source has no color channels", ErrMissingColorChannel, e.Name)
	}
	return fmt.Sprintf("%v %q (available: %s)", ErrMissingColorChannel, e.Name, strings.Join(e.Available, ", "))
}

func (e *MissingChannelError) Unwrap() error { return ErrMissingColorChannel }

// Extract copies positions, normals, the RGB part of the selected color
// channel and the triangles of src into a new Mesh. Alpha is dropped.
// Triangle indices are copied as is; Encode checks them.
func Extract(src Source, opts Options) (*meshbin.Mesh, error) {
	n := src.VertexCount()
	name := opts.channel()

	colors, ok := src.ColorChannel(name)
	switch {
	case !ok && opts.AllowMissingColor:
		colors = nil
	case !ok:
		avail := src.ColorChannels()
		sort.Strings(avail)
		return nil, &MissingChannelError{Name: name, Available: avail}
	case len(colors) != n:
		return nil, fmt.Errorf("%w: channel %q has %d values for %d vertices",
			ErrAttributeLength, name, len(colors), n)
	}

	m := &meshbin.Mesh{
		Vertices:  make([]meshbin.Vertex, n),
		Triangles: make([]meshbin.Triangle, src.TriangleCount()),
	}
	for i := range m.Vertices {
		v := meshbin.Vertex{
			Position: src.Position(i),
			Normal:   src.Normal(i),
		}
		if colors != nil {
			v.Color = colors[i].Vec3()
		}
		m.Vertices[i] = v
	}
	for i := range m.Triangles {
		m.Triangles[i] = src.Triangle(i)
	}
	return m, nil
}
