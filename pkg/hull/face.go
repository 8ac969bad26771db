package hull

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a triangle given as three positions in the vertex index buffer.
// Dereference through the buffer to reach the point cloud. Winding is
// counter-clockwise when viewed from outside the hull.
type Face [3]int

// Plane is the outward supporting plane of a face: a unit normal and a signed
// offset such that Distance is positive in front of the face.
type Plane struct {
	Normal v3.Vec  `json:"normal"`
	Offset float64 `json:"offset"`
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p v3.Vec) float64 {
	return pl.Normal.Dot(p) + pl.Offset
}

// planeThrough returns the plane through a, b, c with normal (b-a)×(c-a).
// A zero-area triangle yields a zero normal, which never reports a point in
// front of it.
func planeThrough(a, b, c v3.Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	n = n.MulScalar(1 / l)
	return Plane{Normal: n, Offset: -n.Dot(a)}
}

// faceSet holds the face and plane arrays. Face k and plane k always describe
// the same triangle; the arrays are only changed through push and removeAt.
type faceSet struct {
	faces  []Face
	planes []Plane
	n      int
}

func newFaceSet(faces []Face, planes []Plane) faceSet {
	if len(faces) == 0 {
		panic("hull: face buffer has zero length")
	}
	if len(planes) < len(faces) {
		panic(fmt.Sprintf("hull: plane buffer (%d) shorter than face buffer (%d)", len(planes), len(faces)))
	}
	return faceSet{faces: faces, planes: planes[:len(faces)]}
}

func (fs *faceSet) len() int  { return fs.n }
func (fs *faceSet) free() int { return len(fs.faces) - fs.n }

// push appends face f whose plane is derived from the current positions of
// its vertices.
func (fs *faceSet) push(f Face, pts Points, idx []int) {
	if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
		panic(fmt.Sprintf("hull: degenerate face %v", f))
	}
	if fs.n == len(fs.faces) {
		panic("hull: face buffer overflow")
	}
	fs.faces[fs.n] = f
	fs.planes[fs.n] = planeThrough(pts.At(idx[f[0]]), pts.At(idx[f[1]]), pts.At(idx[f[2]]))
	fs.n++
}

// removeAt swaps entry k with the last live entry in both arrays and shrinks
// them by one.
func (fs *faceSet) removeAt(k int) {
	last := fs.n - 1
	fs.faces[k] = fs.faces[last]
	fs.planes[k] = fs.planes[last]
	fs.n = last
}
