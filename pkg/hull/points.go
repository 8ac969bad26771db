package hull

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Points is a read-only, index-addressable point cloud.
type Points interface {
	Len() int
	At(i int) v3.Vec
}

// Vecs adapts a slice of vectors to Points.
type Vecs []v3.Vec

func (v Vecs) Len() int         { return len(v) }
func (v Vecs) At(i int) v3.Vec { return v[i] }

// Flat32 adapts packed x,y,z float32 triples (the kernel.Mesh vertex layout)
// to Points.
type Flat32 []float32

func (f Flat32) Len() int { return len(f) / 3 }

func (f Flat32) At(i int) v3.Vec {
	return v3.Vec{X: float64(f[3*i]), Y: float64(f[3*i+1]), Z: float64(f[3*i+2])}
}
