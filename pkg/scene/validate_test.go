package scene

import (
	"fmt"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// validScene builds a hull over a box and a sampled sphere.
func validScene() *Scene {
	s := New()
	box := &Node{
		ID:   NewNodeID("solid/base"),
		Kind: NodeSolid,
		Name: "base",
		Data: SolidData{Kind: SolidBox, Dimensions: v3.Vec{X: 10, Y: 10, Z: 2}},
	}
	ball := &Node{
		ID:   NewNodeID("sample/ball"),
		Kind: NodeSample,
		Data: SampleData{Kind: SampleSphere, Count: 50, Radius: 3, Jitter: 0.1, Seed: 7},
	}
	tr := TransformData{Translation: &v3.Vec{Z: 5}}
	placed := &Node{
		ID:       NewNodeID("place/ball"),
		Kind:     NodeTransform,
		Children: []NodeID{ball.ID},
		Data:     tr,
	}
	h := &Node{
		ID:       NewNodeID("hull/lamp"),
		Kind:     NodeGroup,
		Name:     "lamp",
		Children: []NodeID{box.ID, placed.ID},
		Data:     GroupData{},
	}
	for _, n := range []*Node{box, ball, placed, h} {
		s.AddNode(n)
	}
	s.AddRoot(h.ID)
	return s
}

func hasMessage(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateValidScene(t *testing.T) {
	result := ValidateAll(validScene())
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestValidateCycle(t *testing.T) {
	s := validScene()
	base := s.Lookup("base")
	base.Children = []NodeID{s.Lookup("lamp").ID}

	errs := Validate(s)
	if !hasMessage(errs, "cycle detected") {
		t.Fatalf("expected a cycle error, got %v", errs)
	}
}

func TestValidateDanglingChild(t *testing.T) {
	s := validScene()
	lamp := s.Lookup("lamp")
	lamp.Children = append(lamp.Children, NewNodeID("nowhere"))

	if !hasMessage(Validate(s), "does not exist") {
		t.Fatal("expected a dangling reference error")
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	s := validScene()
	dup := &Node{ID: NewNodeID("solid/base2"), Kind: NodeSolid, Name: "base",
		Data: SolidData{Kind: SolidSphere, Radius: 1}}
	s.Nodes[dup.ID] = dup
	s.Lookup("lamp").Children = append(s.Lookup("lamp").Children, dup.ID)

	if !hasMessage(Validate(s), "duplicate name") {
		t.Fatal("expected a duplicate name error")
	}
}

func TestValidateRootMustBeGroup(t *testing.T) {
	s := validScene()
	s.AddRoot(s.Lookup("base").ID)
	if !hasMessage(Validate(s), "expected a hull group") {
		t.Fatal("expected a root kind error")
	}
}

func TestValidateMissingRoot(t *testing.T) {
	s := validScene()
	s.AddRoot(NewNodeID("ghost"))
	if !hasMessage(Validate(s), "root reference") {
		t.Fatal("expected a missing root error")
	}
}

func TestValidateOrphanIsWarning(t *testing.T) {
	s := validScene()
	s.AddNode(&Node{ID: NewNodeID("solid/loose"), Kind: NodeSolid, Name: "loose",
		Data: SolidData{Kind: SolidSphere, Radius: 1}})

	result := ValidateAll(s)
	if !result.OK() {
		t.Fatalf("orphans should not be errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "orphan") {
		t.Fatalf("expected one orphan warning, got %v", result.Warnings)
	}
}

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want string
	}{
		{"flat box", SolidData{Kind: SolidBox, Dimensions: v3.Vec{X: 1, Y: 1}}, "box dimension Z"},
		{"negative radius", SolidData{Kind: SolidSphere, Radius: -1}, "sphere radius"},
		{"zero cylinder", SolidData{Kind: SolidCylinder, Radius: 1}, "cylinder height"},
		{"negative segments", SolidData{Kind: SolidSphere, Radius: 1, Segments: -3}, "segments"},
		{"too few samples", SampleData{Kind: SampleSphere, Count: 3, Radius: 1}, "at least 4 points"},
		{"jitter out of range", SampleData{Kind: SampleSphere, Count: 10, Radius: 1, Jitter: 1}, "jitter"},
		{"too many segments", SolidData{Kind: SolidSphere, Radius: 1, Segments: MaxSegments + 1}, "segments"},
		{"too many samples", SampleData{Kind: SampleSphere, Count: MaxSamples + 1, Radius: 1}, "the limit is"},
		{"flat sample box", SampleData{Kind: SampleBox, Count: 10, Size: v3.Vec{X: 1, Y: 1}}, "sample size Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			n := &Node{ID: NewNodeID("bad/" + tt.name), Kind: NodeSolid, Data: tt.data}
			s.AddNode(n)
			s.Lookup("lamp").Children = append(s.Lookup("lamp").Children, n.ID)

			result := ValidateAll(s)
			if !hasMessage(result.Errors, tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateAcceptsLimits(t *testing.T) {
	s := validScene()
	for i, d := range []NodeData{
		SolidData{Kind: SolidSphere, Radius: 1, Segments: MaxSegments},
		SampleData{Kind: SampleBox, Count: MaxSamples, Size: v3.Vec{X: 1, Y: 1, Z: 1}},
	} {
		n := &Node{ID: NewNodeID(fmt.Sprintf("limit/%d", i)), Kind: NodeSolid, Data: d}
		s.AddNode(n)
		s.Lookup("lamp").Children = append(s.Lookup("lamp").Children, n.ID)
	}

	if result := ValidateAll(s); !result.OK() {
		t.Fatalf("values at the limits should pass: %v", result.Errors)
	}
}

func TestValidateGroupSettings(t *testing.T) {
	s := validScene()
	lamp := s.Lookup("lamp")
	lamp.Data = GroupData{Tolerance: -1, Capacity: 2}

	result := ValidateAll(s)
	if !hasMessage(result.Errors, "tolerance") || !hasMessage(result.Errors, "capacity") {
		t.Fatalf("expected tolerance and capacity errors, got %v", result.Errors)
	}
}

func TestValidateEmptyGroupWarns(t *testing.T) {
	s := New()
	h := &Node{ID: NewNodeID("hull/empty"), Kind: NodeGroup, Name: "empty", Data: GroupData{}}
	s.AddNode(h)
	s.AddRoot(h.ID)

	result := ValidateAll(s)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "no children") {
		t.Fatalf("expected an empty group warning, got %v", result.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "bad", Severity: SeverityError}
	if e.Error() != "[error] bad" {
		t.Errorf("Error() = %q", e.Error())
	}
	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "odd", Severity: SeverityWarning}
	want := "[warning] node " + id.Short() + ": odd"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
