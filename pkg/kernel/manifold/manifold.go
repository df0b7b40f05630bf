//go:build manifold

// Package manifold provides a CGo geometry kernel backed by the Manifold
// library (https://github.com/elalish/manifold), which guarantees manifold
// output from boolean operations.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/meshdump/pkg/kernel"
	"github.com/go-gl/mathgl/mgl32"
)

// Segments is the number of facets used around cylinders and spheres.
const Segments = 64

var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps ptr; the finalizer releases the C object.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*manifoldSolid).ptr
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New returns a ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box creates a box with its minimum corner at the origin.
func (k *ManifoldKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("manifold: box %gx%gx%g: dimensions must be positive", x, y, z)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc, C.double(x), C.double(y), C.double(z), C.int(0))
	return newSolid(ptr), nil
}

// Cylinder creates a Z-aligned cylinder centered at the origin.
func (k *ManifoldKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("manifold: cylinder h=%g r=%g: dimensions must be positive", height, radius)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc,
		C.double(height),
		C.double(radius), // radius_low
		C.double(radius), // radius_high
		C.int(Segments),
		C.int(1), // center
	)
	return newSolid(ptr), nil
}

// Sphere creates a sphere centered at the origin.
func (k *ManifoldKernel) Sphere(radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("manifold: sphere r=%g: radius must be positive", radius)
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_sphere(alloc, C.double(radius), C.int(Segments))
	return newSolid(ptr), nil
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_difference(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_intersection(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ptr := C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z))
	return newSolid(ptr)
}

// Rotate rotates by Euler angles in degrees, X then Y then Z.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ptr := C.manifold_rotate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z))
	return newSolid(ptr)
}

// ToMesh reads the solid's MeshGL positions and triangles and welds them.
// MeshGL splits vertices along sharp edges, so welding is what gives the
// result shared vertices and smooth normals.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	meshGL := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return nil, fmt.Errorf("manifold: solid produced no triangles")
	}

	// The first three properties of every vertex are its position.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	soup := make([][3]mgl32.Vec3, numTri)
	for t := range soup {
		for c := 0; c < 3; c++ {
			idx := int(indices[t*3+c])
			if idx >= numVert {
				return nil, fmt.Errorf("manifold: triangle %d references vertex %d of %d", t, idx, numVert)
			}
			base := idx * numProp
			soup[t][c] = mgl32.Vec3{props[base], props[base+1], props[base+2]}
		}
	}
	return kernel.Weld(soup), nil
}
