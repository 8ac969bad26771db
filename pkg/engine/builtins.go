package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hullgen/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user-defined symbols.
//  2. sphere-points becomes sphere_points. zygomys reads a hyphen inside an
//     identifier as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			j := skipQuoted(b, i)
			result = append(result, b[i:j]...)
			i = j
			continue

		case b[i] == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			result = append(result, b[i:j]...)
			i = j
			continue

		case b[i] == ';':
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue

		case b[i] == ':' && i+1 < len(b) && b[i+1] == '=':
			result = append(result, ':', '=')
			i += 2
			continue

		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue

		case b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			// Hyphen between identifier characters, not a minus operator.
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// skipQuoted returns the index just past the double-quoted literal at b[i].
func skipQuoted(b []byte, i int) int {
	j := i + 1
	for j < len(b) && b[j] != '"' {
		if b[j] == '\\' && j+1 < len(b) {
			j += 2
			continue
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	kind scene.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// number reads an optional numeric keyword into dst.
func (a kwArgs) number(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// integer reads an optional integer keyword into dst.
func (a kwArgs) integer(key string, dst *int64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// vec reads an optional vec3 keyword. It returns nil when the key is absent.
func (a kwArgs) vec(key string) (*v3.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &vec, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt64 extracts an integer from a SexpInt.
func toInt64(s zygo.Sexp) (int64, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a node reference from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, bool) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		items, err := zygo.ListToArray(v)
		return items, err == nil
	case *zygo.SexpArray:
		return v.Val, true
	}
	return nil, false
}

// flatten expands nested lists and arrays into a single argument slice.
func flatten(args []zygo.Sexp) []zygo.Sexp {
	var out []zygo.Sexp
	for _, a := range args {
		if items, ok := sexpListToSlice(a); ok {
			out = append(out, flatten(items)...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// toPoints reads vec3 values and bare number triples, in any mix.
func toPoints(args []zygo.Sexp) ([]v3.Vec, error) {
	var pts []v3.Vec
	var pending []float64
	for i, a := range flatten(args) {
		if v, ok := a.(*sexpVec3); ok {
			if len(pending) != 0 {
				return nil, fmt.Errorf("argument %d: vec3 inside an unfinished x y z triple", i)
			}
			pts = append(pts, v.vec)
			continue
		}
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		pending = append(pending, f)
		if len(pending) == 3 {
			pts = append(pts, v3.Vec{X: pending[0], Y: pending[1], Z: pending[2]})
			pending = pending[:0]
		}
	}
	if len(pending) != 0 {
		return nil, fmt.Errorf("%d trailing coordinates do not form a point", len(pending))
	}
	return pts, nil
}

// toChildren reads node references from the given arguments.
func toChildren(form string, args []zygo.Sexp) ([]scene.NodeID, error) {
	var children []scene.NodeID
	for i, a := range flatten(args) {
		ref, err := toNodeRef(a)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", form, i, err)
		}
		children = append(children, ref.id)
	}
	return children, nil
}

// ---------------------------------------------------------------------------
// Scene construction
// ---------------------------------------------------------------------------

// sceneBuilder adds nodes to the scene under evaluation. The anonymous
// counter is per evaluation, so identical source yields identical IDs.
type sceneBuilder struct {
	s    *scene.Scene
	anon int
}

func newSceneBuilder(s *scene.Scene) *sceneBuilder {
	return &sceneBuilder{s: s}
}

// add stores a node under path, or an anonymous path when path is empty.
func (b *sceneBuilder) add(kind scene.NodeKind, path, name string, children []scene.NodeID, data scene.NodeData) *sexpNodeRef {
	if path == "" {
		b.anon++
		path = fmt.Sprintf("%s/_anon_%d", kind, b.anon)
	}
	n := &scene.Node{
		ID:       scene.NewNodeID(path),
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	}
	b.s.AddNode(n)
	return &sexpNodeRef{id: n.ID, kind: kind, name: name}
}

// rename gives an existing node a user-visible name.
func (b *sceneBuilder) rename(ref *sexpNodeRef, name string) error {
	if b.s.Lookup(name) != nil {
		return fmt.Errorf("name %q is already defined", name)
	}
	n := b.s.Get(ref.id)
	if n == nil {
		return fmt.Errorf("shape %s does not exist", ref.id.Short())
	}
	if n.Name != "" {
		delete(b.s.NameIndex, n.Name)
	}
	n.Name = name
	b.s.NameIndex[name] = n.ID
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// wrap adapts a builtin to zygomys and prefixes its errors with the form name
// as the user wrote it.
func wrap(form string, fn builtin) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		out, err := fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
		}
		return out, nil
	}
}

// registerBuiltins installs the scene language into a zygomys environment.
// The builtins populate b's scene during evaluation.
//
// Source must be run through preprocessSource first so that :keyword tokens
// and kebab-case names reach the builtins in their registered form.
func registerBuiltins(env *zygo.Zlisp, b *sceneBuilder) {
	forms := []struct {
		name string // as written in source
		fn   builtin
	}{
		{"vec3", b.vec3},
		{"points", b.points},
		{"box", b.box},
		{"cylinder", b.cylinder},
		{"sphere", b.sphere},
		{"sphere-points", b.spherePoints},
		{"box-points", b.boxPoints},
		{"place", b.place},
		{"group", b.group},
		{"hull", b.hull},
		{"defshape", b.defshape},
		{"shape", b.shape},
	}
	for _, f := range forms {
		env.AddFunction(strings.ReplaceAll(f.name, "-", "_"), wrap(f.name, f.fn))
	}
}

// (vec3 1 2 3)
func (b *sceneBuilder) vec3(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (points (vec3 0 0 0) (vec3 1 0 0) ...) or (points 0 0 0  1 0 0 ...)
func (b *sceneBuilder) points(args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := toPoints(args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return b.add(scene.NodePoints, "", "", nil, scene.PointsData{Points: pts}), nil
}

// (box :size (vec3 10 20 5))
func (b *sceneBuilder) box(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	sd := scene.SolidData{Kind: scene.SolidBox}
	size, err := pa.vec("size")
	if err != nil {
		return zygo.SexpNull, err
	}
	if size == nil {
		return zygo.SexpNull, fmt.Errorf("requires :size")
	}
	sd.Dimensions = *size
	return b.add(scene.NodeSolid, "", "", nil, sd), nil
}

// (cylinder :height 10 :radius 2 :segments 24)
func (b *sceneBuilder) cylinder(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	sd := scene.SolidData{Kind: scene.SolidCylinder}
	var segments int64
	if err := pa.number("height", &sd.Height); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.number("radius", &sd.Radius); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.integer("segments", &segments); err != nil {
		return zygo.SexpNull, err
	}
	sd.Segments = int(segments)
	return b.add(scene.NodeSolid, "", "", nil, sd), nil
}

// (sphere :radius 5 :segments 12)
func (b *sceneBuilder) sphere(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	sd := scene.SolidData{Kind: scene.SolidSphere}
	var segments int64
	if err := pa.number("radius", &sd.Radius); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.integer("segments", &segments); err != nil {
		return zygo.SexpNull, err
	}
	sd.Segments = int(segments)
	return b.add(scene.NodeSolid, "", "", nil, sd), nil
}

// (sphere-points :count 200 :radius 5 :jitter 0.1 :seed 7)
func (b *sceneBuilder) spherePoints(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	sd := scene.SampleData{Kind: scene.SampleSphere, Radius: 1}
	var count int64
	if err := pa.integer("count", &count); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.number("radius", &sd.Radius); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.number("jitter", &sd.Jitter); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.integer("seed", &sd.Seed); err != nil {
		return zygo.SexpNull, err
	}
	sd.Count = int(count)
	return b.add(scene.NodeSample, "", "", nil, sd), nil
}

// (box-points :count 100 :size (vec3 4 4 4) :seed 3)
func (b *sceneBuilder) boxPoints(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	sd := scene.SampleData{Kind: scene.SampleBox}
	var count int64
	if err := pa.integer("count", &count); err != nil {
		return zygo.SexpNull, err
	}
	size, err := pa.vec("size")
	if err != nil {
		return zygo.SexpNull, err
	}
	if size == nil {
		return zygo.SexpNull, fmt.Errorf("requires :size")
	}
	if err := pa.integer("seed", &sd.Seed); err != nil {
		return zygo.SexpNull, err
	}
	sd.Count = int(count)
	sd.Size = *size
	return b.add(scene.NodeSample, "", "", nil, sd), nil
}

// (place shape... :at (vec3 0 0 19) :rotate (vec3 0 0 90))
func (b *sceneBuilder) place(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("requires a shape as first argument")
	}
	children, err := toChildren("place", pa.positional)
	if err != nil {
		return zygo.SexpNull, err
	}

	var td scene.TransformData
	if td.Translation, err = pa.vec("at"); err != nil {
		return zygo.SexpNull, err
	}
	if td.Rotation, err = pa.vec("rotate"); err != nil {
		return zygo.SexpNull, err
	}
	return b.add(scene.NodeTransform, "", "", children, td), nil
}

// (group shape...)
func (b *sceneBuilder) group(args []zygo.Sexp) (zygo.Sexp, error) {
	children, err := toChildren("group", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return b.add(scene.NodeGroup, "", "", children, scene.GroupData{}), nil
}

// (hull "name" :tolerance 1e-6 :capacity 64 shape...)
func (b *sceneBuilder) hull(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("name: %w", err)
	}
	if b.s.Lookup(name) != nil {
		return zygo.SexpNull, fmt.Errorf("name %q is already defined", name)
	}

	pa := parseArgs(args[1:])
	var gd scene.GroupData
	var capacity int64
	if err := pa.number("tolerance", &gd.Tolerance); err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.integer("capacity", &capacity); err != nil {
		return zygo.SexpNull, err
	}
	gd.Capacity = int(capacity)

	children, err := toChildren("hull", pa.positional)
	if err != nil {
		return zygo.SexpNull, err
	}
	ref := b.add(scene.NodeGroup, "hull/"+name, name, children, gd)
	b.s.AddRoot(ref.id)
	return ref, nil
}

// (defshape "name" (box ...))
func (b *sceneBuilder) defshape(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("requires a name and a body expression")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("name: %w", err)
	}
	ref, err := toNodeRef(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("body: %w", err)
	}
	if err := b.rename(ref, name); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpNodeRef{id: ref.id, kind: ref.kind, name: name}, nil
}

// (shape "name")
func (b *sceneBuilder) shape(args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("name: %w", err)
	}
	n := b.s.Lookup(name)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("no shape named %q", name)
	}
	return &sexpNodeRef{id: n.ID, kind: n.Kind, name: name}, nil
}
