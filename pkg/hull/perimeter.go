package hull

// Edge is a directed edge between two index-buffer positions.
type Edge struct {
	From, To int
}

// perimeter is the open boundary of a set of removed faces. An edge shared by
// two removed faces is added once in each direction and cancels, leaving the
// boundary loop in the winding of the removed faces.
type perimeter struct {
	edges []Edge
}

// reset empties the stack and makes room for capacity edges, reusing the
// backing array when it is large enough.
func (p *perimeter) reset(capacity int) {
	if cap(p.edges) < capacity {
		p.edges = make([]Edge, 0, capacity)
		return
	}
	p.edges = p.edges[:0]
}

func (p *perimeter) add(a, b int) {
	for i, e := range p.edges {
		if e.From == b && e.To == a {
			last := len(p.edges) - 1
			p.edges[i] = p.edges[last]
			p.edges = p.edges[:last]
			return
		}
	}
	if len(p.edges) == cap(p.edges) {
		panic("hull: perimeter capacity exceeded")
	}
	p.edges = append(p.edges, Edge{From: a, To: b})
}

func (p *perimeter) addFace(f Face) {
	p.add(f[0], f[1])
	p.add(f[1], f[2])
	p.add(f[2], f[0])
}
