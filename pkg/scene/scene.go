// Package scene holds the description of what gets exported: named parts,
// each a CSG tree of primitives with a placement and a color.
package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind identifies a node in a shape tree.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
	ShapeSphere
	ShapeUnion
	ShapeDifference
	ShapeIntersection
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	case ShapeUnion:
		return "union"
	case ShapeDifference:
		return "difference"
	case ShapeIntersection:
		return "intersection"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Shape is a primitive or a boolean combination of shapes.
type Shape struct {
	Kind ShapeKind

	Size   mgl64.Vec3 // box
	Height float64    // cylinder
	Radius float64    // cylinder, sphere

	// Operands of a boolean node. Difference subtracts every operand after
	// the first from the first.
	Operands []*Shape
}

// Validate checks dimensions and operand counts.
func (s *Shape) Validate() error {
	if s == nil {
		return fmt.Errorf("missing shape")
	}
	switch s.Kind {
	case ShapeBox:
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return fmt.Errorf("box size %v must be positive", s.Size)
		}
	case ShapeCylinder:
		if s.Height <= 0 || s.Radius <= 0 {
			return fmt.Errorf("cylinder height %g and radius %g must be positive", s.Height, s.Radius)
		}
	case ShapeSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("sphere radius %g must be positive", s.Radius)
		}
	case ShapeUnion, ShapeDifference, ShapeIntersection:
		if len(s.Operands) < 2 {
			return fmt.Errorf("%s needs at least 2 operands, got %d", s.Kind, len(s.Operands))
		}
		for i, op := range s.Operands {
			if err := op.Validate(); err != nil {
				return fmt.Errorf("%s operand %d: %w", s.Kind, i, err)
			}
		}
	default:
		return fmt.Errorf("unknown shape kind %v", s.Kind)
	}
	return nil
}

// Part is a named, placed and colored shape.
type Part struct {
	Name        string
	Shape       *Shape
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3 // Euler angles in degrees, applied before translation
	Color       *mgl32.Vec4
}

// Scene is an ordered list of parts and the color channel they are painted
// into.
type Scene struct {
	ColorChannel string
	Parts        []*Part
}

// New returns an empty scene painting into channel.
func New(channel string) *Scene {
	return &Scene{ColorChannel: channel}
}

// Lookup returns the part with the given name, or nil.
func (s *Scene) Lookup(name string) *Part {
	for _, p := range s.Parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddPart appends p after checking its name is unique and its shape valid.
func (s *Scene) AddPart(p *Part) error {
	if p.Name == "" {
		return fmt.Errorf("part name must not be empty")
	}
	if s.Lookup(p.Name) != nil {
		return fmt.Errorf("duplicate part %q", p.Name)
	}
	if err := p.Shape.Validate(); err != nil {
		return fmt.Errorf("part %q: %w", p.Name, err)
	}
	s.Parts = append(s.Parts, p)
	return nil
}

// PartCount returns the number of parts.
func (s *Scene) PartCount() int {
	return len(s.Parts)
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into RGBA in [0,1].
// Alpha defaults to 1.
func ParseHexColor(s string) (mgl32.Vec4, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return mgl32.Vec4{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
