// Package tessellate walks a scene and produces one convex hull mesh per
// root group using a geometry kernel.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/hullgen/pkg/hull"
	"github.com/chazu/hullgen/pkg/kernel"
	"github.com/chazu/hullgen/pkg/sample"
	"github.com/chazu/hullgen/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// transformStack accumulates placement matrices during scene traversal.
// The top of the stack maps local coordinates to world coordinates.
type transformStack struct {
	ms []sdf.M44
}

func newTransformStack() *transformStack {
	return &transformStack{ms: []sdf.M44{sdf.Identity3d()}}
}

func (ts *transformStack) push(m sdf.M44) {
	ts.ms = append(ts.ms, ts.top().Mul(m))
}

func (ts *transformStack) pop() {
	if len(ts.ms) > 1 {
		ts.ms = ts.ms[:len(ts.ms)-1]
	}
}

func (ts *transformStack) top() sdf.M44 {
	return ts.ms[len(ts.ms)-1]
}

// Stats summarises one hull.
type Stats struct {
	Name     string `json:"name"`
	Points   int    `json:"points"`   // input cloud size
	Vertices int    `json:"vertices"` // hull vertices
	Faces    int    `json:"faces"`
	Complete bool   `json:"complete"` // false if the face capacity ran out
}

// Result is the hull of one root group.
type Result struct {
	Mesh  *kernel.Mesh
	Hull  *hull.Hull
	Stats Stats
	// Solids holds a kernel mesh of every primitive solid under the root,
	// placed in world space. It is only filled when WithSolidMeshes is set.
	Solids []*kernel.Mesh
}

type config struct {
	hullOpts []hull.Option
	solids   bool
}

// Option configures Tessellate.
type Option func(*config)

// WithHullOptions passes options to every hull build. Per-group tolerance
// from the scene is applied after these.
func WithHullOptions(opts ...hull.Option) Option {
	return func(c *config) { c.hullOpts = append(c.hullOpts, opts...) }
}

// WithSolidMeshes meshes every primitive solid with the kernel so callers can
// draw the source shapes inside their hulls.
func WithSolidMeshes() Option {
	return func(c *config) { c.solids = true }
}

// Tessellate gathers the points under each root of s, hulls them and returns
// one Result per root in declaration order. Roots with no points are
// skipped. A hull that ran out of face capacity is returned with
// Stats.Complete unset rather than as an error. The scene is never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel, opts ...Option) ([]Result, error) {
	if s == nil {
		return nil, nil
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var results []Result
	for _, root := range s.Hulls() {
		w := &walker{s: s, k: k, solids: cfg.solids, ts: newTransformStack()}
		pts, err := w.gather(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", label(root), err)
		}
		if len(pts) == 0 {
			continue
		}
		res, err := build(root, pts, cfg.hullOpts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: hull %s: %w", label(root), err)
		}
		res.Solids = w.meshes
		results = append(results, res)
	}
	return results, nil
}

// Meshes returns the mesh of every result.
func Meshes(results []Result) []*kernel.Mesh {
	meshes := make([]*kernel.Mesh, len(results))
	for i, r := range results {
		meshes[i] = r.Mesh
	}
	return meshes
}

func label(n *scene.Node) string {
	if n.Name != "" {
		return fmt.Sprintf("%q", n.Name)
	}
	return n.ID.Short()
}

// build hulls pts with the group's tolerance and capacity.
func build(root *scene.Node, pts []v3.Vec, base []hull.Option) (Result, error) {
	opts := append([]hull.Option(nil), base...)
	capacity := hull.MaxFaces(len(pts))
	if gd, ok := root.Data.(scene.GroupData); ok {
		if gd.Tolerance > 0 {
			opts = append(opts, hull.WithTolerance(gd.Tolerance))
		}
		if gd.Capacity > 0 {
			capacity = gd.Capacity
		}
	}

	h, err := hull.BuildCap(hull.Vecs(pts), capacity, opts...)
	if err != nil && !errors.Is(err, hull.ErrCapacityExhausted) {
		return Result{}, err
	}
	if h == nil {
		return Result{}, err
	}

	mesh := kernel.FromHull(h)
	mesh.PartName = root.Name
	if mesh.PartName == "" {
		mesh.PartName = root.ID.Short()
	}
	return Result{
		Mesh: mesh,
		Hull: h,
		Stats: Stats{
			Name:     mesh.PartName,
			Points:   len(pts),
			Vertices: h.Result.HullVertices,
			Faces:    h.Result.Faces,
			Complete: h.Complete,
		},
	}, nil
}

// walker is the traversal state for one root.
type walker struct {
	s      *scene.Scene
	k      kernel.Kernel
	ts     *transformStack
	solids bool
	meshes []*kernel.Mesh
}

// gather recursively collects the world-space points under n.
func (w *walker) gather(n *scene.Node) ([]v3.Vec, error) {
	switch n.Kind {
	case scene.NodePoints:
		pd, ok := n.Data.(scene.PointsData)
		if !ok {
			return nil, unexpected(n)
		}
		return place(pd.Points, w.ts.top()), nil

	case scene.NodeSolid:
		return w.handleSolid(n)

	case scene.NodeSample:
		return handleSample(n, w.ts)

	case scene.NodeTransform:
		return w.handleTransform(n)

	case scene.NodeGroup:
		return w.gatherChildren(n)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func unexpected(n *scene.Node) error {
	return fmt.Errorf("%s node %s has unexpected data type %T", n.Kind, n.ID.Short(), n.Data)
}

// place maps local points through m into a new slice.
func place(pts []v3.Vec, m sdf.M44) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[i] = m.MulPosition(p)
	}
	return out
}

// handleSolid builds the primitive, places it and takes its surface samples.
func (w *walker) handleSolid(n *scene.Node) ([]v3.Vec, error) {
	sd, ok := n.Data.(scene.SolidData)
	if !ok {
		return nil, unexpected(n)
	}

	var solid kernel.Solid
	switch sd.Kind {
	case scene.SolidBox:
		solid = w.k.Box(sd.Dimensions.X, sd.Dimensions.Y, sd.Dimensions.Z)
	case scene.SolidCylinder:
		solid = w.k.Cylinder(sd.Height, sd.Radius, sd.Segments)
	case scene.SolidSphere:
		solid = w.k.Sphere(sd.Radius, sd.Segments)
	default:
		return nil, fmt.Errorf("solid node %s has unsupported kind %s", n.ID.Short(), sd.Kind)
	}

	placed := w.k.Transform(solid, w.ts.top())
	pts, err := w.k.Points(placed)
	if err != nil {
		return nil, fmt.Errorf("sampling node %s: %w", n.ID.Short(), err)
	}
	if w.solids {
		mesh, err := w.k.ToMesh(placed)
		if err != nil {
			return nil, fmt.Errorf("meshing node %s: %w", n.ID.Short(), err)
		}
		mesh.PartName = n.Name
		if mesh.PartName == "" {
			mesh.PartName = n.ID.Short()
		}
		w.meshes = append(w.meshes, mesh)
	}
	return pts, nil
}

// handleSample generates the cloud in local coordinates and places it.
func handleSample(n *scene.Node, ts *transformStack) ([]v3.Vec, error) {
	sd, ok := n.Data.(scene.SampleData)
	if !ok {
		return nil, unexpected(n)
	}

	var pts []v3.Vec
	switch sd.Kind {
	case scene.SampleSphere:
		pts = sample.NoisySphere(sd.Count, sd.Radius, sd.Jitter, int32(sd.Seed))
	case scene.SampleBox:
		pts = sample.UniformBox(sd.Count, v3.Vec{}, sd.Size, uint64(sd.Seed))
	default:
		return nil, fmt.Errorf("sample node %s has unsupported kind %s", n.ID.Short(), sd.Kind)
	}
	return place(pts, ts.top()), nil
}

// handleTransform pushes the placement, recurses into children, then pops.
func (w *walker) handleTransform(n *scene.Node) ([]v3.Vec, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, unexpected(n)
	}

	var translation, rotation v3.Vec
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}

	w.ts.push(kernel.Placement(translation, rotation))
	defer w.ts.pop()
	return w.gatherChildren(n)
}

// gatherChildren concatenates the points of every child of n.
func (w *walker) gatherChildren(n *scene.Node) ([]v3.Vec, error) {
	var pts []v3.Vec
	for _, child := range w.s.Children(n) {
		collected, err := w.gather(child)
		if err != nil {
			return nil, err
		}
		pts = append(pts, collected...)
	}
	return pts, nil
}
