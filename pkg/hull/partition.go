package hull

// visibleCap bounds the visible-face cache. A candidate that sees more faces
// than this leaves the cache overflowed and grow re-scans the planes.
const visibleCap = 64

// visibleCache holds the faces seen by the best candidate so far and by the
// candidate being scanned, in two buffers swapped by flipping cur.
type visibleCache struct {
	buf      [2][]int
	cur      int
	overflow [2]bool
}

func newVisibleCache() visibleCache {
	return visibleCache{buf: [2][]int{
		make([]int, 0, visibleCap),
		make([]int, 0, visibleCap),
	}}
}

func (c *visibleCache) best() ([]int, bool) { return c.buf[c.cur], !c.overflow[c.cur] }

// scratch returns the buffer not holding the best candidate, emptied.
func (c *visibleCache) scratch() int {
	s := 1 - c.cur
	c.buf[s] = c.buf[s][:0]
	c.overflow[s] = false
	return s
}

func (c *visibleCache) record(s, face int) {
	if len(c.buf[s]) == visibleCap {
		c.overflow[s] = true
		return
	}
	c.buf[s] = append(c.buf[s], face)
}

func (c *visibleCache) clear() {
	c.buf[c.cur] = c.buf[c.cur][:0]
	c.overflow[c.cur] = false
}

// partition moves every unclassified vertex that lies behind all current
// planes into the interior region and returns the position of the vertex
// farthest in front of any plane, or -1 when none remains. The faces that
// vertex sees are left in the cache. Ties keep the first vertex scanned.
func (b *builder) partition() int {
	b.cache.clear()
	extreme, extremeDist := -1, 0.0
	i := b.hullEnd
	for i < b.interiorStart {
		p := b.at(i)
		s := b.cache.scratch()
		far := 0.0
		for k := 0; k < b.fs.len(); k++ {
			d := b.fs.planes[k].Distance(p)
			if d > b.tol {
				b.cache.record(s, k)
				if d > far {
					far = d
				}
			}
		}
		if far == 0 {
			b.interiorStart--
			b.swap(i, b.interiorStart)
			continue
		}
		if far > extremeDist {
			extreme, extremeDist = i, far
			b.cache.cur = s
		}
		i++
	}
	return extreme
}
