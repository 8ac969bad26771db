package scene

import "fmt"

// Scene is the immutable data structure produced by Lisp evaluation.
// It is never mutated after evaluation; each evaluation produces a new scene.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the scene. It does not check for duplicates.
func (s *Scene) AddNode(n *Node) {
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the scene.
func (s *Scene) AddRoot(id NodeID) {
	s.Roots = append(s.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Hulls returns the root nodes in declaration order. Each one is hulled
// independently.
func (s *Scene) Hulls() []*Node {
	hulls := make([]*Node, 0, len(s.Roots))
	for _, id := range s.Roots {
		if n := s.Nodes[id]; n != nil {
			hulls = append(hulls, n)
		}
	}
	return hulls
}

// Children returns the child nodes of the given node.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}
