// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per part; Flatten merges them into
// the single mesh an export holds.
package tessellate

import (
	"fmt"

	"github.com/chazu/meshdump/pkg/host"
	"github.com/chazu/meshdump/pkg/kernel"
	"github.com/chazu/meshdump/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Palette colors parts that do not set their own color.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Tessellate produces one mesh per part, in scene order, each painted into
// the scene's color channel. The scene is never mutated.
func Tessellate(sc *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}
	channel := sc.ColorChannel
	if channel == "" {
		channel = host.DefaultColorChannel
	}

	meshes := make([]*kernel.Mesh, 0, len(sc.Parts))
	for i, p := range sc.Parts {
		m, err := tessellatePart(k, p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
		}
		color, err := partColor(p, i)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
		}
		m.Paint(channel, color)
		m.PartName = p.Name
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Flatten tessellates every part and merges the results into one mesh
// named after the scene's parts.
func Flatten(sc *scene.Scene, k kernel.Kernel) (*kernel.Mesh, error) {
	meshes, err := Tessellate(sc, k)
	if err != nil {
		return nil, err
	}
	name := "scene"
	if len(meshes) == 1 {
		name = meshes[0].PartName
	}
	return kernel.Merge(name, meshes...)
}

func partColor(p *scene.Part, i int) (mgl32.Vec4, error) {
	if p.Color != nil {
		return *p.Color, nil
	}
	return scene.ParseHexColor(Palette[i%len(Palette)])
}

// tessellatePart builds the part's solid, applies rotation then
// translation, and meshes it.
func tessellatePart(k kernel.Kernel, p *scene.Part) (*kernel.Mesh, error) {
	solid, err := buildSolid(k, p.Shape)
	if err != nil {
		return nil, err
	}

	rot := p.Rotation
	if rot[0] != 0 || rot[1] != 0 || rot[2] != 0 {
		solid = k.Rotate(solid, rot[0], rot[1], rot[2])
	}
	trans := p.Translation
	if trans[0] != 0 || trans[1] != 0 || trans[2] != 0 {
		solid = k.Translate(solid, trans[0], trans[1], trans[2])
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	return mesh, nil
}

// buildSolid recursively converts a shape tree to a kernel solid.
func buildSolid(k kernel.Kernel, s *scene.Shape) (kernel.Solid, error) {
	if s == nil {
		return nil, fmt.Errorf("missing shape")
	}
	switch s.Kind {
	case scene.ShapeBox:
		return k.Box(s.Size[0], s.Size[1], s.Size[2])
	case scene.ShapeCylinder:
		return k.Cylinder(s.Height, s.Radius)
	case scene.ShapeSphere:
		return k.Sphere(s.Radius)
	case scene.ShapeUnion, scene.ShapeDifference, scene.ShapeIntersection:
		if len(s.Operands) == 0 {
			return nil, fmt.Errorf("%s has no operands", s.Kind)
		}
		acc, err := buildSolid(k, s.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range s.Operands[1:] {
			next, err := buildSolid(k, op)
			if err != nil {
				return nil, err
			}
			switch s.Kind {
			case scene.ShapeUnion:
				acc = k.Union(acc, next)
			case scene.ShapeDifference:
				acc = k.Difference(acc, next)
			default:
				acc = k.Intersection(acc, next)
			}
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unknown shape kind: %v", s.Kind)
}
