// Command hullcli builds convex hulls from a scene file or a generated point
// cloud and prints per-hull statistics.
//
//	hullcli -scene examples/lamp.hull
//	hullcli -count 5000 -shape box -json
//	hullcli -count 20000 -profile ./prof
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/hullgen/pkg/engine"
	"github.com/chazu/hullgen/pkg/hull"
	"github.com/chazu/hullgen/pkg/kernel/sdfx"
	"github.com/chazu/hullgen/pkg/scene"
	"github.com/chazu/hullgen/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/profile"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

type config struct {
	scenePath  string
	count      int
	shape      string
	radius     float64
	jitter     float64
	seed       int64
	capacity   int
	tolerance  float64
	jsonOut    bool
	verify     bool
	verbose    bool
	profileDir string
}

func parseFlags(args []string) (config, error) {
	var c config
	fs := flag.NewFlagSet("hullcli", flag.ContinueOnError)
	fs.StringVar(&c.scenePath, "scene", "", "scene file to evaluate; a generated cloud is used when empty")
	fs.IntVar(&c.count, "count", 1000, "generated cloud size")
	fs.StringVar(&c.shape, "shape", "sphere", "generated cloud shape: sphere or box")
	fs.Float64Var(&c.radius, "radius", 10, "sphere radius, or box edge length")
	fs.Float64Var(&c.jitter, "jitter", 0.2, "radial noise on the sphere, as a fraction of the radius")
	fs.Int64Var(&c.seed, "seed", 1, "random seed")
	fs.IntVar(&c.capacity, "capacity", 0, "face capacity for the generated cloud, 0 for the worst case")
	fs.Float64Var(&c.tolerance, "tol", 0, "absolute plane tolerance, 0 for relative default")
	fs.BoolVar(&c.jsonOut, "json", false, "print statistics as JSON")
	fs.BoolVar(&c.verify, "verify", false, "check every hull for closure, orientation and containment")
	fs.BoolVar(&c.verbose, "v", false, "log every hull expansion")
	fs.StringVar(&c.profileDir, "profile", "", "write a CPU profile to this directory")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.scenePath == "" && c.shape != "sphere" && c.shape != "box" {
		return c, fmt.Errorf("unknown shape %q", c.shape)
	}
	return c, nil
}

func main() {
	log := logger.NewDefaultLogger()
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err.Error())
	}
	if err := runProfiled(c, log); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// runProfiled is run wrapped in a CPU profile when one was requested.
func runProfiled(c config, log logger.Logger) error {
	if c.profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(c.profileDir), profile.Quiet).Stop()
	}
	return run(c, os.Stdout, log)
}

// run evaluates the configured input and writes statistics to out.
func run(c config, out io.Writer, log logger.Logger) error {
	s, err := loadScene(c)
	if err != nil {
		return err
	}

	var opts []hull.Option
	if c.tolerance > 0 {
		opts = append(opts, hull.WithTolerance(c.tolerance))
	}
	if c.verbose {
		opts = append(opts, hull.WithObserver(func(e hull.Event) {
			log.Debug(fmt.Sprintf("%s vertex=%d removed=%d added=%d faces=%d pending=%d",
				e.Kind, e.Vertex, e.Removed, e.Added, e.Faces, e.Unclassified))
		}))
	}

	results, err := tessellate.Tessellate(s, sdfx.New(), tessellate.WithHullOptions(opts...))
	if err != nil {
		return err
	}

	stats := make([]tessellate.Stats, len(results))
	for i, r := range results {
		stats[i] = r.Stats
		if !r.Stats.Complete {
			log.Warning(fmt.Sprintf("hull %q is partial: face capacity ran out", r.Stats.Name))
		}
		if c.verify {
			for _, v := range r.Hull.Verify(verifyTolerance(r.Hull)) {
				log.Error(fmt.Sprintf("hull %q: %v", r.Stats.Name, v))
				err = fmt.Errorf("hull %q failed verification", r.Stats.Name)
			}
		}
	}

	if c.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(stats); encErr != nil {
			return encErr
		}
		return err
	}
	for _, st := range stats {
		partial := ""
		if !st.Complete {
			partial = " (partial)"
		}
		fmt.Fprintf(out, "%s: %d points, %d vertices, %d faces%s\n",
			st.Name, st.Points, st.Vertices, st.Faces, partial)
	}
	return err
}

// verifyTolerance scales the check tolerance with the hull size.
func verifyTolerance(h *hull.Hull) float64 {
	bb := h.Bounds()
	size := bb.Max.Sub(bb.Min)
	return 1e-8 * max(1, size.X, size.Y, size.Z)
}

// loadScene reads the scene file, or wraps a generated cloud in a one-hull
// scene, and validates the result.
func loadScene(c config) (*scene.Scene, error) {
	source := "generated cloud"
	var s *scene.Scene
	var evalErrs []engine.EvalError
	if c.scenePath == "" {
		s = cloudScene(c)
	} else {
		source = c.scenePath
		text, err := os.ReadFile(c.scenePath)
		if err != nil {
			return nil, err
		}
		s, evalErrs, err = engine.NewEngine().Evaluate(string(text))
		if err != nil {
			return nil, err
		}
	}
	if len(evalErrs) == 0 {
		evalErrs, _ = engine.Check(s)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = fmt.Errorf("%s: %w", source, e)
		}
		return nil, errors.Join(errs...)
	}
	return s, nil
}

func cloudScene(c config) *scene.Scene {
	data := scene.SampleData{Count: c.count, Seed: c.seed}
	switch c.shape {
	case "box":
		data.Kind = scene.SampleBox
		data.Size = v3.Vec{X: c.radius, Y: c.radius, Z: c.radius}
	default:
		data.Kind = scene.SampleSphere
		data.Radius = c.radius
		data.Jitter = c.jitter
	}

	s := scene.New()
	cloud := &scene.Node{
		ID:   scene.NewNodeID("sample/cloud"),
		Kind: scene.NodeSample,
		Data: data,
	}
	root := &scene.Node{
		ID:       scene.NewNodeID("hull/" + c.shape),
		Kind:     scene.NodeGroup,
		Name:     c.shape,
		Children: []scene.NodeID{cloud.ID},
		Data:     scene.GroupData{Capacity: c.capacity},
	}
	s.AddNode(cloud)
	s.AddNode(root)
	s.AddRoot(root.ID)
	return s
}
