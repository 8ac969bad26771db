package scene

import "fmt"

// Severity indicates whether a validation finding blocks evaluation
// or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks evaluation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID   // which node has the problem (zero if scene-level)
	Message  string   // human-readable description
	Severity Severity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks on s and returns every finding,
// warnings included. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	return errs
}

// ValidateAll runs structural and geometric checks and separates
// errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range append(Validate(s), validateGeometry(s)...) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
// Reaching a gray node means the current path loops back on itself.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range s.Nodes {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that names are unique and the name index is sound.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks root references, requires roots to be groups and
// warns about nodes no root reaches.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, rid := range s.Roots {
		n, ok := s.Nodes[rid]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if n.Kind != NodeGroup {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root is a %s node, expected a hull group", n.Kind),
				Severity: SeverityError,
			})
		}
	}

	if len(s.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(s.Roots))
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := s.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range s.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any hull (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
