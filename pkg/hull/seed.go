package hull

import (
	"fmt"
	"math"
)

// seed selects four extreme, non-coplanar vertices, moves them to positions
// 0..3 of the index buffer and emits the four faces of their tetrahedron.
// On failure nothing is emitted.
func (b *builder) seed() error {
	n := len(b.idx)
	if n < 4 {
		return fmt.Errorf("hull: %d points: %w", n, ErrDegenerate)
	}
	if len(b.fs.faces) < 4 {
		return fmt.Errorf("hull: face capacity %d below seed size: %w", len(b.fs.faces), ErrCapacityExhausted)
	}

	// Extremes along Z.
	lo, hi := 0, 0
	zlo, zhi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		z := b.at(i).Z
		if z < zlo {
			zlo, lo = z, i
		}
		if z > zhi {
			zhi, hi = z, i
		}
	}
	if zhi-zlo <= b.tol {
		return fmt.Errorf("hull: points span %g along z: %w", zhi-zlo, ErrDegenerate)
	}
	b.swap(0, lo)
	if hi == 0 {
		hi = lo
	}
	b.swap(1, hi)

	// Farthest from the line through the first two.
	p0 := b.at(0)
	edge := b.at(1).Sub(p0)
	dir := edge.MulScalar(1 / edge.Length())
	best, far := -1, b.tol
	for i := 2; i < n; i++ {
		d := b.at(i).Sub(p0).Cross(dir).Length()
		if d > far {
			best, far = i, d
		}
	}
	if best < 0 {
		return fmt.Errorf("hull: points are collinear: %w", ErrDegenerate)
	}
	b.swap(2, best)

	// Farthest from the plane of the first three.
	axis := edge.Cross(b.at(2).Sub(p0))
	axis = axis.MulScalar(1 / axis.Length())
	best, far = -1, b.tol
	side := 0.0
	for i := 3; i < n; i++ {
		d := b.at(i).Sub(p0).Dot(axis)
		if math.Abs(d) > far {
			best, far, side = i, math.Abs(d), d
		}
	}
	if best < 0 {
		return fmt.Errorf("hull: points are coplanar: %w", ErrDegenerate)
	}
	b.swap(3, best)

	if side < 0 {
		b.fs.push(Face{0, 1, 2}, b.pts, b.idx)
		b.fs.push(Face{0, 3, 1}, b.pts, b.idx)
		b.fs.push(Face{1, 3, 2}, b.pts, b.idx)
		b.fs.push(Face{2, 3, 0}, b.pts, b.idx)
	} else {
		b.fs.push(Face{0, 2, 1}, b.pts, b.idx)
		b.fs.push(Face{0, 3, 2}, b.pts, b.idx)
		b.fs.push(Face{2, 3, 1}, b.pts, b.idx)
		b.fs.push(Face{1, 3, 0}, b.pts, b.idx)
	}
	b.hullEnd = 4
	return nil
}
