package explain

import (
	"fmt"
	"math"

	"compass/internal/mlmodel"
)

// Engine computes path-based attributions for a tree ensemble. Each
// split on a feature moves the running positive-class fraction; the
// feature is credited with that movement, averaged over all trees.
// The per-feature credits sum exactly to prediction − baseline.
type Engine struct {
	model *mlmodel.Model
}

// NewEngine wraps a loaded model. The engine holds no mutable state
// and is safe for concurrent use.
func NewEngine(model *mlmodel.Model) *Engine {
	return &Engine{model: model}
}

// Attribute returns raw per-class attributions for one feature row.
// Missing cells follow the predictor's zero-fill policy so the
// attributions explain exactly the row the predictor saw. The result
// uses the per-class list layout with the binary-symmetric negative
// class mirrored.
func (e *Engine) Attribute(row []float64) (RawAttribution, error) {
	features := e.model.Features
	if len(row) != len(features) {
		return RawAttribution{}, fmt.Errorf("feature row has %d values, schema expects %d", len(row), len(features))
	}

	x := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			x[i] = 0
		} else {
			x[i] = v
		}
	}

	positive := make([]float64, len(features))
	for _, tree := range e.model.Trees {
		idx := 0
		for {
			n := tree.Nodes[idx]
			if n.IsLeaf() {
				break
			}
			next := n.Left
			if x[n.Feature] > n.Threshold {
				next = n.Right
			}
			positive[n.Feature] += tree.Nodes[next].Value - n.Value
			idx = next
		}
	}

	nTrees := float64(len(e.model.Trees))
	negative := make([]float64, len(features))
	for i := range positive {
		positive[i] /= nTrees
		negative[i] = -positive[i]
	}

	return RawAttribution{
		Kind:     ShapePerClass,
		PerClass: [][]float64{negative, positive},
	}, nil
}
