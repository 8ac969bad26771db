package main

import (
	"strings"
	"testing"
)

func containsMessage(errs []EvalErrorData, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Empty input
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	result := newTestApp(t).Evaluate("")

	if len(result.Errors) != 0 || len(result.Meshes) != 0 || len(result.Warnings) != 0 {
		t.Errorf("expected an empty result, got %+v", result)
	}
	// JSON must serialize as [] not null.
	if result.Meshes == nil || result.Stats == nil || result.Errors == nil || result.Warnings == nil {
		t.Error("result slices should be non-nil")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	result := newTestApp(t).Evaluate(";; a comment\n; another :keyword\n")
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Evaluation errors
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	source := "(+ 1 2)\n(hull \"test\""
	result := newTestApp(t).Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

func TestE2EUndefinedShapeReference(t *testing.T) {
	source := `
(defshape "ball" (sphere :radius 2))
(hull "h" (place (shape "nonexistent") :at (vec3 0 0 0)))
`
	result := newTestApp(t).Evaluate(source)

	if !containsMessage(result.Errors, "nonexistent") {
		t.Errorf("expected error mentioning 'nonexistent', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EDuplicateHullName(t *testing.T) {
	source := `
(hull "twin" (sphere :radius 1))
(hull "twin" (sphere :radius 2))
`
	result := newTestApp(t).Evaluate(source)
	if !containsMessage(result.Errors, "already defined") {
		t.Errorf("expected duplicate name error, got: %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestE2EZeroDimensionBox(t *testing.T) {
	result := newTestApp(t).Evaluate(`(hull "flat" (box :size (vec3 10 10 0)))`)

	if !containsMessage(result.Errors, "box dimension Z") {
		t.Errorf("expected a dimension error, got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ENegativeRadius(t *testing.T) {
	result := newTestApp(t).Evaluate(`(hull "h" (sphere :radius -3))`)
	if !containsMessage(result.Errors, "sphere radius") {
		t.Errorf("expected a radius error, got: %v", result.Errors)
	}
}

func TestE2ETooFewSamples(t *testing.T) {
	result := newTestApp(t).Evaluate(`(hull "h" (sphere-points :count 3))`)
	if !containsMessage(result.Errors, "at least 4 points") {
		t.Errorf("expected a count error, got: %v", result.Errors)
	}
}

func TestE2EOversizedShapesAreRejected(t *testing.T) {
	tests := map[string]string{
		"samples":  `(hull "h" (sphere-points :count 100000000))`,
		"segments": `(hull "h" (sphere :radius 1 :segments 100000))`,
	}
	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			result := newTestApp(t).Evaluate(source)
			if len(result.Errors) == 0 || len(result.Meshes) != 0 {
				t.Fatalf("expected the shape to be rejected before hulling, got %d meshes, errors %v",
					len(result.Meshes), result.Errors)
			}
			if !containsMessage(result.Errors, "limit is") && !containsMessage(result.Errors, "must be in [0, 1024]") {
				t.Errorf("expected a size limit error, got: %v", result.Errors)
			}
		})
	}
}

func TestE2EOrphanShapeWarns(t *testing.T) {
	source := `
(defshape "unused" (sphere :radius 1))
(hull "h" (box :size (vec3 1 1 1)))
`
	result := newTestApp(t).Evaluate(source)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !containsMessage(result.Warnings, "orphan") {
		t.Errorf("expected an orphan warning, got: %v", result.Warnings)
	}
	if len(result.Meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(result.Meshes))
	}
}

func TestE2EEmptyHullWarns(t *testing.T) {
	result := newTestApp(t).Evaluate(`(hull "nothing")`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !containsMessage(result.Warnings, "no children") {
		t.Errorf("expected an empty group warning, got: %v", result.Warnings)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Hull construction
// ---------------------------------------------------------------------------

func TestE2ECoplanarPointsAreDegenerate(t *testing.T) {
	result := newTestApp(t).Evaluate(`(hull "sheet" (points 0 0 0  1 0 0  0 1 0  1 1 0  2 2 0))`)
	if !containsMessage(result.Errors, "degenerate") {
		t.Errorf("expected a degenerate input error, got: %v", result.Errors)
	}
}

func TestE2ECubeWithCentroid(t *testing.T) {
	source := `
(hull "cube"
  (points 0 0 0  1 0 0  0 1 0  1 1 0
          0 0 1  1 0 1  0 1 1  1 1 1
          0.5 0.5 0.5))
`
	result := newTestApp(t).Evaluate(source)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if st := result.Stats[0]; st.Points != 9 || st.Vertices != 8 || st.Faces != 12 {
		t.Errorf("cube stats = %+v", st)
	}
}

func TestE2ESharedShapes(t *testing.T) {
	source := `
(defshape "ball" (sphere :radius 2 :segments 8))
(hull "one" (shape "ball"))
(hull "two" (shape "ball") (place (shape "ball") :at (vec3 10 0 0)))
`
	result := newTestApp(t).Evaluate(source)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stats) != 2 {
		t.Fatalf("expected 2 hulls, got %d", len(result.Stats))
	}
	one, two := result.Stats[0], result.Stats[1]
	if two.Points != 2*one.Points {
		t.Errorf("two should hull twice the points of one: %d vs %d", two.Points, one.Points)
	}
}

func TestE2ENestedArithmeticDef(t *testing.T) {
	source := `
(def w 10)
(def half (/ w 2))
(hull "h" (place (box :size (vec3 w w (* half 2))) :at (vec3 (- 0 half) (- 0 half) 0)))
`
	result := newTestApp(t).Evaluate(source)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	for i, v := range result.Meshes[0].Vertices {
		if i%3 < 2 && (v < -5 || v > 5) {
			t.Fatalf("vertex coordinate %f outside the centered footprint", v)
		}
	}
}

// ---------------------------------------------------------------------------
// Rapid evaluation (debounce simulation): no panics, no data races.
// Run with `go test -race` to detect data races.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// zygomys keeps global state that is not safe for concurrent sandbox
	// creation, so calls are sequential.
	app := newTestApp(t)

	sources := []string{
		`(hull "ok" (box :size (vec3 1 2 3)))`,
		`(hull "broken"`,
		``,
		`(shape "missing")`,
		`(hull "ball" (sphere-points :count 40 :radius 2 :seed 1))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(hull "flat" (points 0 0 0 1 0 0 0 1 0 1 1 0))`,
		`(undefined-func 1 2 3)`,
		`(hull "last" (cylinder :height 2 :radius 1))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}
