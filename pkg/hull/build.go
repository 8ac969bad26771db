package hull

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Hull is the allocated result of Build.
type Hull struct {
	Points Points
	// Index is the full vertex index buffer; Index[:Result.HullVertices] are
	// the hull vertices.
	Index  []int
	Faces  []Face
	Planes []Plane
	Result Result
	// Complete is false when the face capacity ran out; the hull is then a
	// valid polytope that does not enclose every point.
	Complete bool
}

// MaxFaces is the largest face count of a triangulated hull of n points.
func MaxFaces(n int) int {
	if n < 4 {
		return 4
	}
	return 2 * (n - 2)
}

// Build hulls every point of pts with buffers sized by MaxFaces.
func Build(pts Points, opts ...Option) (*Hull, error) {
	return BuildCap(pts, MaxFaces(pts.Len()), opts...)
}

// BuildCap is Build with an explicit face capacity. When the capacity runs
// out it returns the partial Hull, with Complete unset, together with
// ErrCapacityExhausted. A degenerate input returns a nil Hull.
func BuildCap(pts Points, capacity int, opts ...Option) (*Hull, error) {
	n := pts.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	faces := make([]Face, capacity)
	planes := make([]Plane, capacity)

	res, err := Compute(pts, idx, faces, planes, opts...)
	h := &Hull{
		Points:   pts,
		Index:    idx,
		Faces:    faces[:res.Faces],
		Planes:   planes[:res.Faces],
		Result:   res,
		Complete: err == nil,
	}
	if res.Faces == 0 {
		return nil, err
	}
	return h, err
}

// Vertices returns the point-cloud indices of the hull vertices in the order
// they were accepted.
func (h *Hull) Vertices() []int {
	return h.Index[:h.Result.HullVertices]
}

// Triangles returns the faces as point-cloud index triples.
func (h *Hull) Triangles() [][3]int {
	tris := make([][3]int, len(h.Faces))
	for i, f := range h.Faces {
		tris[i] = [3]int{h.Index[f[0]], h.Index[f[1]], h.Index[f[2]]}
	}
	return tris
}

// Corner returns vertex j of face i as a position.
func (h *Hull) Corner(i, j int) v3.Vec {
	return h.Points.At(h.Index[h.Faces[i][j]])
}

// Contains reports whether p lies behind every face plane within tol.
func (h *Hull) Contains(p v3.Vec, tol float64) bool {
	for _, pl := range h.Planes {
		if pl.Distance(p) > tol {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounds of the hull vertices.
func (h *Hull) Bounds() sdf.Box3 {
	var bb sdf.Box3
	for i, vi := range h.Vertices() {
		p := h.Points.At(vi)
		if i == 0 {
			bb = sdf.Box3{Min: p, Max: p}
			continue
		}
		bb.Min = v3.Vec{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y), Z: min(bb.Min.Z, p.Z)}
		bb.Max = v3.Vec{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y), Z: max(bb.Max.Z, p.Z)}
	}
	return bb
}
