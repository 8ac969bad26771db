// Package kernel defines the abstract geometry kernel interface.
// Implementations provide primitive solids, their surface samples for hull
// construction, and meshes for display. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64, segments int) Solid

	// Transform applies an affine transform to a solid.
	Transform(s Solid, m sdf.M44) Solid

	// Points returns surface points whose convex hull approximates the solid.
	Points(s Solid) ([]v3.Vec, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Placement returns the matrix that rotates by Euler angles in degrees
// (X first, then Y, then Z) and then translates.
func Placement(translation, rotation v3.Vec) sdf.M44 {
	xRad := rotation.X * math.Pi / 180.0
	yRad := rotation.Y * math.Pi / 180.0
	zRad := rotation.Z * math.Pi / 180.0

	r := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return sdf.Translate3d(translation).Mul(r)
}
