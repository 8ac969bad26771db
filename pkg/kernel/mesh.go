package kernel

import (
	"github.com/chazu/hullgen/pkg/hull"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene hull this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FromHull converts a hull into a flat-shaded mesh: every face gets its own
// three vertices carrying the face plane normal.
func FromHull(h *hull.Hull) *Mesh {
	n := len(h.Faces)
	m := &Mesh{
		Vertices: make([]float32, 0, n*9),
		Normals:  make([]float32, 0, n*9),
		Indices:  make([]uint32, 0, n*3),
	}
	for i := range h.Faces {
		nrm := h.Planes[i].Normal
		for j := 0; j < 3; j++ {
			v := h.Corner(i, j)
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(nrm.X), float32(nrm.Y), float32(nrm.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
