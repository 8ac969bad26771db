package scene

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNewScene(t *testing.T) {
	s := New()
	if s.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if s.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if s.NodeCount() != 0 {
		t.Errorf("empty scene should have 0 nodes, got %d", s.NodeCount())
	}
}

func TestNodeIDIsStable(t *testing.T) {
	a := NewNodeID("hull/cube")
	b := NewNodeID("hull/cube")
	c := NewNodeID("hull/ball")
	if a != b {
		t.Errorf("same path produced %s and %s", a, b)
	}
	if a == c {
		t.Errorf("different paths produced the same ID %s", a)
	}
	if len(a.Short()) != 8 {
		t.Errorf("Short() = %q, want 8 characters", a.Short())
	}
	if a.IsZero() || !ZeroID.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	s := New()

	pts := &Node{
		ID:   NewNodeID("points/corners"),
		Kind: NodePoints,
		Name: "corners",
		Data: PointsData{Points: []v3.Vec{{X: 0}, {X: 1}, {Y: 1}, {Z: 1}}},
	}
	h := &Node{
		ID:       NewNodeID("hull/tetra"),
		Kind:     NodeGroup,
		Name:     "tetra",
		Children: []NodeID{pts.ID},
		Data:     GroupData{},
	}
	s.AddNode(pts)
	s.AddNode(h)
	s.AddRoot(h.ID)

	if s.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", s.NodeCount())
	}
	if found := s.Lookup("corners"); found == nil || found.ID != pts.ID {
		t.Fatal("Lookup('corners') returned the wrong node")
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup of a missing name should return nil")
	}
	if s.MustLookup("tetra").ID != h.ID {
		t.Error("MustLookup returned the wrong node")
	}
	if got := s.Get(h.ID); got != h {
		t.Error("Get returned the wrong node")
	}
	children := s.Children(h)
	if len(children) != 1 || children[0] != pts {
		t.Errorf("Children = %v, want [corners]", children)
	}
	hulls := s.Hulls()
	if len(hulls) != 1 || hulls[0] != h {
		t.Errorf("Hulls = %v, want [tetra]", hulls)
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustLookup should panic for an unknown name")
		}
	}()
	New().MustLookup("nope")
}

func TestChildrenSkipsDangling(t *testing.T) {
	s := New()
	n := &Node{ID: NewNodeID("g"), Kind: NodeGroup, Children: []NodeID{NewNodeID("gone")}}
	s.AddNode(n)
	if len(s.Children(n)) != 0 {
		t.Error("dangling children should be skipped")
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodePoints.String(), "points"},
		{NodeSolid.String(), "solid"},
		{NodeSample.String(), "sample"},
		{NodeTransform.String(), "transform"},
		{NodeGroup.String(), "group"},
		{NodeKind(99).String(), "unknown"},
		{SolidBox.String(), "box"},
		{SolidCylinder.String(), "cylinder"},
		{SolidSphere.String(), "sphere"},
		{SampleSphere.String(), "sphere"},
		{SampleBox.String(), "box"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
