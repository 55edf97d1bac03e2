package mlmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// ModelUnavailableError indicates no fitted model could be loaded from
// the configured location. Fatal: callers surface it as a
// service-unavailable condition.
type ModelUnavailableError struct {
	Path string
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model unavailable at %s: %v", e.Path, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// Node is one decision node. Leaf nodes have Left == Right == -1.
// Value is the positive-class fraction of training samples at the
// node; internal nodes carry it too, which is what makes path-based
// attribution possible.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// IsLeaf reports whether the node terminates a path.
func (n Node) IsLeaf() bool { return n.Left < 0 && n.Right < 0 }

// Tree is one decision tree, nodes indexed from the root at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Model is a fitted binary classifier: an ensemble of decision trees
// plus the ordered feature schema it expects at inference time.
type Model struct {
	Version  int      `json:"version"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// Load reads and validates a model artifact. A missing or malformed
// artifact yields a ModelUnavailableError.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelUnavailableError{Path: path, Err: err}
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ModelUnavailableError{Path: path, Err: fmt.Errorf("decode artifact: %w", err)}
	}
	if err := m.validate(); err != nil {
		return nil, &ModelUnavailableError{Path: path, Err: err}
	}
	return &m, nil
}

func (m *Model) validate() error {
	if len(m.Features) == 0 {
		return fmt.Errorf("artifact has no feature schema")
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("artifact has no trees")
	}
	for ti, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range tree.Nodes {
			if n.IsLeaf() {
				continue
			}
			if n.Left < 0 || n.Left >= len(tree.Nodes) ||
				n.Right < 0 || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
			if n.Feature < 0 || n.Feature >= len(m.Features) {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.Feature)
			}
		}
	}
	return nil
}

// Schema returns the ordered feature names the model expects. The
// returned slice is shared; callers must not mutate it.
func (m *Model) Schema() []string { return m.Features }

// Baseline is the ensemble's output for an average input: the mean of
// the root-node positive-class fractions. Attributions are expressed
// relative to it.
func (m *Model) Baseline() float64 {
	var sum float64
	for _, t := range m.Trees {
		sum += t.Nodes[0].Value
	}
	return sum / float64(len(m.Trees))
}

// PredictProba returns the positive-class probability in [0, 1] for
// one feature row matching the schema in length and order. Missing
// cells (NaN) are replaced with zero immediately before inference,
// matching the fill the model was trained with, so prediction never
// fails on missing cells alone.
func (m *Model) PredictProba(row []float64) (float64, error) {
	if len(row) != len(m.Features) {
		return 0, fmt.Errorf("feature row has %d values, schema expects %d", len(row), len(m.Features))
	}

	x := zeroFilled(row)

	var sum float64
	for _, tree := range m.Trees {
		sum += tree.leafValue(x)
	}
	p := sum / float64(len(m.Trees))
	return clampUnit(p), nil
}

// leafValue walks x down the tree and returns the positive-class
// fraction at the reached leaf.
func (t Tree) leafValue(x []float64) float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// zeroFilled returns a copy of row with NaN cells replaced by zero.
func zeroFilled(row []float64) []float64 {
	x := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			x[i] = 0
		} else {
			x[i] = v
		}
	}
	return x
}

func clampUnit(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
