package scene

import (
	"github.com/google/uuid"
)

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePoints    NodeKind = iota // explicit point list
	NodeSolid                     // kernel primitive (box, cylinder, sphere)
	NodeSample                    // generated point cloud
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // hull or sub-group
)

func (k NodeKind) String() string {
	switch k {
	case NodePoints:
		return "points"
	case NodeSolid:
		return "solid"
	case NodeSample:
		return "sample"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// NodeID is a content-addressed identifier for scene nodes.
type NodeID string

// ZeroID is the empty NodeID.
const ZeroID NodeID = ""

// namespace scopes the name-based UUIDs used for node IDs.
var namespace = uuid.MustParse("5b1c7f0e-2d43-4a8e-9f61-0c3e8d2a7b94")

// NewNodeID derives a stable ID from a node path such as "hull/cube".
// The same path always yields the same ID.
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)).String())
}

// Short returns the first eight characters of the ID for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
