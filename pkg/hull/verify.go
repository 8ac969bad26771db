package hull

import "fmt"

// ViolationKind names the hull property a Violation breaks.
type ViolationKind int

const (
	ViolationClosure     ViolationKind = iota // face references a non-hull position
	ViolationOrientation                      // a hull vertex lies in front of a face
	ViolationEdge                             // an edge is not shared by exactly two faces
	ViolationContainment                      // an interior point lies outside the hull
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationClosure:
		return "closure"
	case ViolationOrientation:
		return "orientation"
	case ViolationEdge:
		return "edge"
	case ViolationContainment:
		return "containment"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// Violation is a single failed hull property.
type Violation struct {
	Kind    ViolationKind
	Face    int // face index, -1 if not face-specific
	Message string
}

func (v Violation) Error() string {
	if v.Face < 0 {
		return fmt.Sprintf("[%s] %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", v.Kind, v.Face, v.Message)
}

// Verify checks the structural properties of h within tol and returns every
// violation found. An empty slice means the hull is a closed, outward-facing
// polytope; for a complete hull it also encloses every input point.
func (h *Hull) Verify(tol float64) []Violation {
	var vs []Violation
	vs = append(vs, h.verifyClosure()...)
	if len(vs) > 0 {
		return vs
	}
	vs = append(vs, h.verifyOrientation(tol)...)
	vs = append(vs, h.verifyEdges()...)
	if h.Complete {
		vs = append(vs, h.verifyContainment(tol)...)
	}
	return vs
}

func (h *Hull) verifyClosure() []Violation {
	var vs []Violation
	for i, f := range h.Faces {
		for _, p := range f {
			if p < 0 || p >= h.Result.HullVertices {
				vs = append(vs, Violation{
					Kind:    ViolationClosure,
					Face:    i,
					Message: fmt.Sprintf("position %d outside hull prefix [0,%d)", p, h.Result.HullVertices),
				})
			}
		}
	}
	return vs
}

func (h *Hull) verifyOrientation(tol float64) []Violation {
	var vs []Violation
	for i, pl := range h.Planes {
		for _, vi := range h.Vertices() {
			if d := pl.Distance(h.Points.At(vi)); d > tol {
				vs = append(vs, Violation{
					Kind:    ViolationOrientation,
					Face:    i,
					Message: fmt.Sprintf("point %d is %g in front", vi, d),
				})
			}
		}
	}
	return vs
}

// verifyEdges checks that each directed edge appears once and its reverse
// appears once, which holds for a closed, consistently wound surface.
func (h *Hull) verifyEdges() []Violation {
	var vs []Violation
	seen := make(map[Edge]int, 3*len(h.Faces))
	for i, f := range h.Faces {
		for j := 0; j < 3; j++ {
			e := Edge{From: f[j], To: f[(j+1)%3]}
			if prev, ok := seen[e]; ok {
				vs = append(vs, Violation{
					Kind:    ViolationEdge,
					Face:    i,
					Message: fmt.Sprintf("edge %d->%d already used by face %d", e.From, e.To, prev),
				})
			}
			seen[e] = i
		}
	}
	for i, f := range h.Faces {
		for j := 0; j < 3; j++ {
			e := Edge{From: f[j], To: f[(j+1)%3]}
			if _, ok := seen[Edge{From: e.To, To: e.From}]; !ok {
				vs = append(vs, Violation{
					Kind:    ViolationEdge,
					Face:    i,
					Message: fmt.Sprintf("edge %d->%d has no opposite", e.From, e.To),
				})
			}
		}
	}
	return vs
}

func (h *Hull) verifyContainment(tol float64) []Violation {
	var vs []Violation
	for _, vi := range h.Index[h.Result.HullVertices:] {
		if p := h.Points.At(vi); !h.Contains(p, tol) {
			vs = append(vs, Violation{
				Kind:    ViolationContainment,
				Face:    -1,
				Message: fmt.Sprintf("point %d outside hull", vi),
			})
		}
	}
	return vs
}
