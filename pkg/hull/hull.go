package hull

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultRelativeTolerance scales with the largest bounding-box side of the
// input to give the distance below which a point counts as on a plane.
const DefaultRelativeTolerance = 1e-9

// roundoff is the float64 machine epsilon.
const roundoff = 0x1p-52

var (
	// ErrDegenerate reports fewer than four points, or points that are all
	// collinear or coplanar within tolerance.
	ErrDegenerate = errors.New("degenerate input")

	// ErrCapacityExhausted reports a face buffer too small for the hull.
	ErrCapacityExhausted = errors.New("face capacity exhausted")
)

// Result counts what Compute produced. The first HullVertices entries of the
// index buffer are hull vertices in acceptance order; the first Faces entries
// of the face and plane buffers are the hull triangles.
type Result struct {
	HullVertices int `json:"hull_vertices"`
	Faces        int `json:"faces"`
}

// EventKind identifies a step of the hull computation.
type EventKind int

const (
	EventSeeded   EventKind = iota // seed tetrahedron emitted
	EventExpanded                  // a vertex was added to the hull
	EventDone                      // no unclassified vertices remain
)

func (k EventKind) String() string {
	switch k {
	case EventSeeded:
		return "seeded"
	case EventExpanded:
		return "expanded"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event describes one step for an Observer.
type Event struct {
	Kind         EventKind
	Vertex       int // index-buffer position of the added vertex
	Removed      int // faces deleted by this step
	Added        int // faces emitted by this step
	HullVertices int
	Faces        int
	Unclassified int
}

// Observer receives an Event after each step. It must not retain or modify
// the buffers passed to Compute.
type Observer func(Event)

type options struct {
	tol      float64
	tolSet   bool
	observer Observer
}

// Option configures Compute and Build.
type Option func(*options)

// WithTolerance sets an absolute distance tolerance, overriding the
// size-relative default. Zero is honored: only points strictly in front of a
// plane see it.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol, o.tolSet = tol, true }
}

// WithObserver registers a callback invoked after every step.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// builder is the state of one hull computation.
type builder struct {
	pts Points
	idx []int
	fs  faceSet
	tol float64

	hullEnd       int
	interiorStart int

	cache   visibleCache
	visible []int
	perim   perimeter
	observe Observer
}

func (b *builder) at(i int) v3.Vec { return b.pts.At(b.idx[i]) }
func (b *builder) swap(i, j int)    { b.idx[i], b.idx[j] = b.idx[j], b.idx[i] }

func (b *builder) result() Result {
	return Result{HullVertices: b.hullEnd, Faces: b.fs.len()}
}

func (b *builder) emit(kind EventKind, v, removed, added int) {
	if b.observe == nil {
		return
	}
	b.observe(Event{
		Kind:         kind,
		Vertex:       v,
		Removed:      removed,
		Added:        added,
		HullVertices: b.hullEnd,
		Faces:        b.fs.len(),
		Unclassified: b.interiorStart - b.hullEnd,
	})
}

// Compute builds the convex hull of the points named by indices.
//
// indices is reordered in place: on return its first HullVertices entries are
// the hull vertices and entries after the unclassified region are interior
// points. faces and planes receive the triangles; planes must be at least as
// long as faces, and 2×(len(indices)−2) faces always suffice.
//
// A nil error means every point is either a hull vertex or inside the hull.
// ErrDegenerate comes with a zero Result. ErrCapacityExhausted comes with the
// counts of a valid closed polytope that omits the points not yet classified.
// An empty face buffer is a programming error and panics.
func Compute(pts Points, indices []int, faces []Face, planes []Plane, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	b := &builder{
		pts:           pts,
		idx:           indices,
		fs:            newFaceSet(faces, planes),
		tol:           o.tol,
		interiorStart: len(indices),
		observe:       o.observer,
	}
	if !o.tolSet {
		b.tol = defaultTolerance(pts, indices)
	}

	if err := b.seed(); err != nil {
		b.fs.n = 0
		return Result{}, err
	}
	b.cache = newVisibleCache()
	b.visible = make([]int, 0, visibleCap)
	b.emit(EventSeeded, -1, 0, 4)

	for {
		v := b.partition()
		if v < 0 {
			b.emit(EventDone, -1, 0, 0)
			return b.result(), nil
		}
		if b.fs.free() < 2 {
			return b.result(), fmt.Errorf("hull: %d of %d faces used with %d points unclassified: %w",
				b.fs.len(), len(faces), b.interiorStart-b.hullEnd, ErrCapacityExhausted)
		}
		removed, added, err := b.grow(v)
		if err != nil {
			return b.result(), err
		}
		b.emit(EventExpanded, b.hullEnd-1, removed, added)
	}
}

// defaultTolerance is DefaultRelativeTolerance times the largest side of the
// points' bounding box, raised to the rounding error of evaluating a plane at
// their coordinates. A small cloud far from the origin keeps a tolerance
// proportional to its own size.
func defaultTolerance(pts Points, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	lo := pts.At(indices[0])
	hi := lo
	for _, i := range indices[1:] {
		p := pts.At(i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	size := hi.Sub(lo)
	reach := lo.Abs().Max(hi.Abs())
	return math.Max(
		DefaultRelativeTolerance*size.MaxComponent(),
		3*roundoff*(reach.X+reach.Y+reach.Z))
}
