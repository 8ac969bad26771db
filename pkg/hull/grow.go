package hull

import (
	"fmt"
	"slices"
)

// grow adds the vertex at position v to the hull: it deletes every face v can
// see and fans new faces from v to the boundary of the hole. When the result
// would not fit in the face buffer it returns ErrCapacityExhausted without
// changing anything.
func (b *builder) grow(v int) (removed, added int, err error) {
	p := b.at(v)

	cached, ok := b.cache.best()
	b.visible = b.visible[:0]
	if ok {
		b.visible = append(b.visible, cached...)
	} else {
		for k := 0; k < b.fs.len(); k++ {
			if b.fs.planes[k].Distance(p) > b.tol {
				b.visible = append(b.visible, k)
			}
		}
	}

	b.perim.reset(3 * len(b.visible))
	for _, k := range b.visible {
		b.perim.addFace(b.fs.faces[k])
	}
	if b.fs.len()-len(b.visible)+len(b.perim.edges) > len(b.fs.faces) {
		return 0, 0, fmt.Errorf("hull: %d faces needed, capacity %d: %w",
			b.fs.len()-len(b.visible)+len(b.perim.edges), len(b.fs.faces), ErrCapacityExhausted)
	}

	b.swap(v, b.hullEnd)
	nv := b.hullEnd
	b.hullEnd++

	// Highest index first so the swapped-in last entry is never pending.
	slices.Sort(b.visible)
	slices.Reverse(b.visible)
	for _, k := range b.visible {
		b.fs.removeAt(k)
	}
	for _, e := range b.perim.edges {
		b.fs.push(Face{nv, e.From, e.To}, b.pts, b.idx)
	}
	return len(b.visible), len(b.perim.edges), nil
}
