// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/hullgen/pkg/kernel"
	"github.com/chazu/hullgen/pkg/sample"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// DefaultSegments is used when a curved primitive is asked for fewer than
// three segments.
const DefaultSegments = 32

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. samples are points on
// the surface whose hull approximates the solid; they are carried through
// every transform applied to s.
type sdfxSolid struct {
	s       sdf.SDF3
	samples []v3.Vec
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution used by ToMesh.
func WithMeshCells(cells int) Option {
	return func(k *SdfxKernel) { k.meshCells = cells }
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// unwrap extracts the underlying solid from a kernel.Solid.
func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

func segmentsOrDefault(n int) int {
	if n < 3 {
		return DefaultSegments
	}
	return n
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin (0,0,0) so that placement translations work
// intuitively. sdf.Box3D centers the box at the origin, so we translate by
// half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	size := v3.Vec{X: x, Y: y, Z: z}
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(size.MulScalar(0.5))
	return &sdfxSolid{
		s:       sdf.Transform3D(s, m),
		samples: sample.BoxCorners(v3.Vec{}, size),
	}
}

// Cylinder creates a cylinder along Z centered at the origin. Its samples
// are two rings of the given number of segments.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	n := segmentsOrDefault(segments)
	samples := append(sample.Ring(n, radius, -height/2), sample.Ring(n, radius, height/2)...)
	return &sdfxSolid{s: s, samples: samples}
}

// Sphere creates a sphere centered at the origin sampled with
// segments² points.
func (k *SdfxKernel) Sphere(radius float64, segments int) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	n := segmentsOrDefault(segments)
	return &sdfxSolid{s: s, samples: sample.FibonacciSphere(n*n/2, radius)}
}

// Transform applies m to the solid and its samples.
func (k *SdfxKernel) Transform(s kernel.Solid, m sdf.M44) kernel.Solid {
	src := unwrap(s)
	samples := make([]v3.Vec, len(src.samples))
	for i, p := range src.samples {
		samples[i] = m.MulPosition(p)
	}
	return &sdfxSolid{s: sdf.Transform3D(src.s, m), samples: samples}
}

// Points returns a copy of the solid's surface samples.
func (k *SdfxKernel) Points(s kernel.Solid) ([]v3.Vec, error) {
	src := unwrap(s)
	if len(src.samples) == 0 {
		return nil, fmt.Errorf("sdfx: solid has no surface samples")
	}
	return append([]v3.Vec(nil), src.samples...), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s).s

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles")
	}

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
