package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/hullgen/pkg/hull"
	"github.com/chazu/hullgen/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func TestBox(t *testing.T) {
	k := New(WithMeshCells(testCells))
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestCylinder(t *testing.T) {
	k := New(WithMeshCells(testCells))
	cyl := k.Cylinder(50, 10, 32)
	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	t.Logf("cylinder triangle count: %d", mesh.TriangleCount())
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTransformTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	moved := k.Transform(box, kernel.Placement(v3.Vec{X: 100, Y: 200, Z: 300}, v3.Vec{}))

	min, max := moved.BoundingBox()
	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}

	pts, err := k.Points(moved)
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	for _, p := range pts {
		if p.X < 100-1e-9 || p.Y < 200-1e-9 || p.Z < 300-1e-9 {
			t.Errorf("sample %v was not translated", p)
		}
	}
}

func TestTransformRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Transform(box, kernel.Placement(v3.Vec{}, v3.Vec{Z: 90}))
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestPointsDoNotAlias(t *testing.T) {
	k := New()
	box := k.Box(1, 1, 1)
	a, _ := k.Points(box)
	a[0] = v3.Vec{X: 99}
	b, _ := k.Points(box)
	if b[0] == a[0] {
		t.Fatal("Points returned the solid's own storage")
	}
}

func TestSamplesLieOnSurface(t *testing.T) {
	k := New()
	solids := map[string]kernel.Solid{
		"cylinder": k.Cylinder(20, 5, 16),
		"sphere":   k.Sphere(7, 10),
	}
	for name, s := range solids {
		pts, err := k.Points(s)
		if err != nil {
			t.Fatalf("%s: Points failed: %v", name, err)
		}
		sdf3 := unwrap(s).s
		for i, p := range pts {
			if d := sdf3.Evaluate(p); math.Abs(d) > 1e-6 {
				t.Errorf("%s: sample %d at distance %g from surface", name, i, d)
			}
		}
	}
}

func TestHullOfPrimitives(t *testing.T) {
	k := New()
	tests := []struct {
		name     string
		solid    kernel.Solid
		vertices int
	}{
		{"box", k.Box(3, 4, 5), 8},
		{"cylinder", k.Cylinder(10, 2, 12), 24},
		{"sphere", k.Sphere(5, 12), 72},
		{"default segments", k.Cylinder(10, 2, 0), 2 * DefaultSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := k.Points(tt.solid)
			if err != nil {
				t.Fatalf("Points failed: %v", err)
			}
			h, err := hull.Build(hull.Vecs(pts))
			if err != nil {
				t.Fatalf("hull.Build failed: %v", err)
			}
			if h.Result.HullVertices != tt.vertices {
				t.Errorf("hull vertices = %d, want %d", h.Result.HullVertices, tt.vertices)
			}
			if h.Result.Faces != 2*tt.vertices-4 {
				t.Errorf("hull faces = %d, want %d", h.Result.Faces, 2*tt.vertices-4)
			}
			if vs := h.Verify(1e-6); len(vs) > 0 {
				t.Errorf("hull violations: %v", vs)
			}
		})
	}
}

func TestHullOfMarchingCubesMesh(t *testing.T) {
	k := New(WithMeshCells(20))
	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// float32 vertices sit up to ~1e-6 off the flat faces.
	h, err := hull.Build(hull.Flat32(mesh.Vertices), hull.WithTolerance(1e-4))
	if err != nil {
		t.Fatalf("hull.Build failed: %v", err)
	}
	bb := h.Bounds()
	size := bb.Max.Sub(bb.Min)
	for _, c := range []float64{size.X, size.Y, size.Z} {
		if math.Abs(c-10) > 1 {
			t.Errorf("hull extent %v, expected ~10 on every axis", size)
		}
	}
}
