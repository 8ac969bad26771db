package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Points
// ---------------------------------------------------------------------------

// PointsData is an explicit list of points.
type PointsData struct {
	Points []v3.Vec `json:"points"`
}

func (PointsData) nodeData() {}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// SolidKind distinguishes between kernel primitives.
type SolidKind int

const (
	SolidBox      SolidKind = iota // rectangular solid, min corner at origin
	SolidCylinder                  // cylinder along Z, centered
	SolidSphere                    // sphere, centered
)

func (k SolidKind) String() string {
	switch k {
	case SolidBox:
		return "box"
	case SolidCylinder:
		return "cylinder"
	case SolidSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// SolidData describes a kernel primitive whose surface samples feed the hull.
type SolidData struct {
	Kind       SolidKind `json:"kind"`
	Dimensions v3.Vec    `json:"dimensions,omitempty"` // box only
	Radius     float64   `json:"radius,omitempty"`
	Height     float64   `json:"height,omitempty"`   // cylinder only
	Segments   int       `json:"segments,omitempty"` // 0 = kernel default
}

func (SolidData) nodeData() {}

// ---------------------------------------------------------------------------
// Samplers
// ---------------------------------------------------------------------------

// SampleKind enumerates point generators.
type SampleKind int

const (
	SampleSphere SampleKind = iota // points on a (noisy) sphere
	SampleBox                      // points uniformly inside a box
)

func (k SampleKind) String() string {
	switch k {
	case SampleSphere:
		return "sphere"
	case SampleBox:
		return "box"
	default:
		return "unknown"
	}
}

// SampleData describes a generated point cloud.
type SampleData struct {
	Kind   SampleKind `json:"kind"`
	Count  int        `json:"count"`
	Radius float64    `json:"radius,omitempty"` // sphere
	Jitter float64    `json:"jitter,omitempty"` // sphere, fraction of radius
	Size   v3.Vec     `json:"size,omitempty"`   // box, min corner at origin
	Seed   int64      `json:"seed"`
}

func (SampleData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to child nodes.
// Created by the (place ...) form.
type TransformData struct {
	Translation *v3.Vec `json:"translation,omitempty"`
	Rotation    *v3.Vec `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is a logical grouping. A root group is hulled as one cloud.
type GroupData struct {
	Tolerance float64 `json:"tolerance,omitempty"` // hull tolerance, 0 = default
	Capacity  int     `json:"capacity,omitempty"`  // face capacity, 0 = worst case
}

func (GroupData) nodeData() {}
