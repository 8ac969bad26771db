package main

import (
	"context"
	"fmt"

	"github.com/chazu/hullgen/pkg/engine"
	"github.com/chazu/hullgen/pkg/hull"
	"github.com/chazu/hullgen/pkg/kernel"
	"github.com/chazu/hullgen/pkg/kernel/sdfx"
	"github.com/chazu/hullgen/pkg/tessellate"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// colorPalette is a default palette used to assign distinct colors to hulls.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel
	log    logger.Logger
	// trace attaches a hull observer; off unless the log shows Debug.
	trace bool
}

// solidMeshCells is the marching cubes resolution of the solid overlays.
const solidMeshCells = 48

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData         `json:"meshes"`
	Solids   []MeshData         `json:"solids"` // source solids drawn inside the hulls
	Stats    []tessellate.Stats `json:"stats"`
	Errors   []EvalErrorData    `json:"errors"`
	Warnings []EvalErrorData    `json:"warnings"`
}

// NewAppWithLogger creates an App with an engine and the sdfx kernel that
// logs to log. Hull construction steps are traced only when log shows Debug.
func NewAppWithLogger(log logger.Logger) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(sdfx.WithMeshCells(solidMeshCells)),
		log:    log,
		trace:  debugEnabled(log),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// observe forwards hull construction events to the debug log.
func (a *App) observe(e hull.Event) {
	a.log.Debug(fmt.Sprintf("hull %s: vertex=%d removed=%d added=%d hull=%d faces=%d pending=%d",
		e.Kind, e.Vertex, e.Removed, e.Added, e.HullVertices, e.Faces, e.Unclassified))
}

// Evaluate takes scene source and returns hull meshes + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Solids:   []MeshData{},
		Stats:    []tessellate.Stats{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded)
		a.log.Error(fmt.Sprintf("Evaluate fatal error: %v", err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Validate the scene. Errors block hulling.
	checkErrs, warnings := engine.Check(s)
	for _, w := range warnings {
		a.log.Warning(w.Message)
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if len(checkErrs) > 0 {
		for _, e := range checkErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	// Step 3: Hull every root of the scene.
	opts := []tessellate.Option{tessellate.WithSolidMeshes()}
	if a.trace {
		opts = append(opts, tessellate.WithHullOptions(hull.WithObserver(a.observe)))
	}
	hulls, err := tessellate.Tessellate(s, a.kernel, opts...)
	if err != nil {
		a.log.Error(fmt.Sprintf("Tessellate error: %v", err))
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "hull construction failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert hull meshes to the frontend MeshData format.
	for i, h := range hulls {
		st := h.Stats
		if !st.Complete {
			msg := fmt.Sprintf("hull %q ran out of face capacity after %d faces; some points lie outside it", st.Name, st.Faces)
			a.log.Warning(msg)
			result.Warnings = append(result.Warnings, EvalErrorData{Message: msg})
		}
		a.log.Info(fmt.Sprintf("hull %q: %d points, %d vertices, %d faces", st.Name, st.Points, st.Vertices, st.Faces))

		color := colorPalette[i%len(colorPalette)]
		result.Stats = append(result.Stats, st)
		result.Meshes = append(result.Meshes, meshData(h.Mesh, color))
		for _, m := range h.Solids {
			result.Solids = append(result.Solids, meshData(m, color))
		}
	}

	return result
}

func meshData(m *kernel.Mesh, color string) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
	}
}
