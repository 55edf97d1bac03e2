package explain

import "fmt"

// Shape tags the layout of a raw attribution result.
type Shape int

const (
	// ShapePerClass is a list of per-feature vectors, one per class.
	ShapePerClass Shape = iota
	// ShapeCube is a [sample][feature][class] array.
	ShapeCube
	// ShapeMatrix is a [sample][feature] array holding the positive
	// class directly (binary-symmetric engines).
	ShapeMatrix
)

const positiveClass = 1

// RawAttribution is the untyped output of an attribution engine. Kind
// selects which field is populated.
type RawAttribution struct {
	Kind     Shape
	PerClass [][]float64
	Cube     [][][]float64
	Matrix   [][]float64
}

// PositiveClass collapses any supported layout to one per-feature
// attribution vector for the positive (recession) class.
func (r RawAttribution) PositiveClass() ([]float64, error) {
	switch r.Kind {
	case ShapePerClass:
		return normalizePerClass(r.PerClass)
	case ShapeCube:
		return normalizeCube(r.Cube)
	case ShapeMatrix:
		return normalizeMatrix(r.Matrix)
	default:
		return nil, fmt.Errorf("unknown attribution shape %d", r.Kind)
	}
}

func normalizePerClass(perClass [][]float64) ([]float64, error) {
	if len(perClass) <= positiveClass {
		return nil, fmt.Errorf("per-class list has %d classes, need positive class %d", len(perClass), positiveClass)
	}
	return perClass[positiveClass], nil
}

func normalizeCube(cube [][][]float64) ([]float64, error) {
	if len(cube) == 0 {
		return nil, fmt.Errorf("attribution cube has no samples")
	}
	sample := cube[0]
	out := make([]float64, len(sample))
	for i, classes := range sample {
		if len(classes) <= positiveClass {
			return nil, fmt.Errorf("attribution cube feature %d has %d classes", i, len(classes))
		}
		out[i] = classes[positiveClass]
	}
	return out, nil
}

func normalizeMatrix(matrix [][]float64) ([]float64, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("attribution matrix has no rows")
	}
	return matrix[0], nil
}
