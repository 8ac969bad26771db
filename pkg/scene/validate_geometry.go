package scene

import "fmt"

const (
	// MaxSamples bounds the point count of one sample node.
	MaxSamples = 1 << 20
	// MaxSegments bounds the segments of a curved solid; a sphere samples
	// about segments²/2 points.
	MaxSegments = 1024
)

// validateGeometry checks node payloads for values no hull can be built from.
func validateGeometry(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		switch d := node.Data.(type) {
		case PointsData:
			errs = append(errs, validatePoints(node, d)...)
		case SolidData:
			errs = append(errs, validateSolid(node, d)...)
		case SampleData:
			errs = append(errs, validateSample(node, d)...)
		case GroupData:
			errs = append(errs, validateGroup(node, d)...)
		}
	}
	return errs
}

func positive(node *Node, what string, v float64) []ValidationError {
	if v > 0 {
		return nil
	}
	return []ValidationError{{
		NodeID:   node.ID,
		Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
		Severity: SeverityError,
	}}
}

func validatePoints(node *Node, d PointsData) []ValidationError {
	if len(d.Points) > 0 {
		return nil
	}
	return []ValidationError{{
		NodeID:   node.ID,
		Message:  "point list is empty",
		Severity: SeverityWarning,
	}}
}

func validateSolid(node *Node, d SolidData) []ValidationError {
	var errs []ValidationError
	switch d.Kind {
	case SolidBox:
		errs = append(errs, positive(node, "box dimension X", d.Dimensions.X)...)
		errs = append(errs, positive(node, "box dimension Y", d.Dimensions.Y)...)
		errs = append(errs, positive(node, "box dimension Z", d.Dimensions.Z)...)
	case SolidCylinder:
		errs = append(errs, positive(node, "cylinder height", d.Height)...)
		errs = append(errs, positive(node, "cylinder radius", d.Radius)...)
	case SolidSphere:
		errs = append(errs, positive(node, "sphere radius", d.Radius)...)
	}
	if d.Segments < 0 || d.Segments > MaxSegments {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("segments is %d, must be in [0, %d]", d.Segments, MaxSegments),
			Severity: SeverityError,
		})
	}
	return errs
}

func validateSample(node *Node, d SampleData) []ValidationError {
	var errs []ValidationError
	if d.Count < 4 {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("sample count is %d, a hull needs at least 4 points", d.Count),
			Severity: SeverityError,
		})
	}
	if d.Count > MaxSamples {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("sample count is %d, the limit is %d", d.Count, MaxSamples),
			Severity: SeverityError,
		})
	}
	switch d.Kind {
	case SampleSphere:
		errs = append(errs, positive(node, "sample radius", d.Radius)...)
		if d.Jitter < 0 || d.Jitter >= 1 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("jitter is %.4f, must be in [0, 1)", d.Jitter),
				Severity: SeverityError,
			})
		}
	case SampleBox:
		errs = append(errs, positive(node, "sample size X", d.Size.X)...)
		errs = append(errs, positive(node, "sample size Y", d.Size.Y)...)
		errs = append(errs, positive(node, "sample size Z", d.Size.Z)...)
	}
	return errs
}

func validateGroup(node *Node, d GroupData) []ValidationError {
	var errs []ValidationError
	if len(node.Children) == 0 {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("group %q has no children", node.Name),
			Severity: SeverityWarning,
		})
	}
	if d.Tolerance < 0 {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("tolerance is %g, must not be negative", d.Tolerance),
			Severity: SeverityError,
		})
	}
	if d.Capacity != 0 && d.Capacity < 4 {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("capacity is %d, the seed tetrahedron needs 4 faces", d.Capacity),
			Severity: SeverityError,
		})
	}
	return errs
}
