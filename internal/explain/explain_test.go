package explain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/mlmodel"
)

// depthTwoModel builds a single tree with two levels so attribution
// paths touch more than one feature.
func depthTwoModel() *mlmodel.Model {
	return &mlmodel.Model{
		Version:  1,
		Features: []string{"T10Y2Y", "UNRATE", "FEDFUNDS"},
		Trees: []mlmodel.Tree{
			{Nodes: []mlmodel.Node{
				{Feature: 0, Threshold: 0.0, Left: 1, Right: 2, Value: 0.25},
				{Feature: 1, Threshold: 4.0, Left: 3, Right: 4, Value: 0.60},
				{Feature: 2, Threshold: 3.0, Left: 5, Right: 6, Value: 0.10},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.40},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.85},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.05},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.20},
			}},
		},
	}
}

func TestEngineAdditivity(t *testing.T) {
	m := depthTwoModel()
	engine := NewEngine(m)

	rows := [][]float64{
		{-0.5, 5.0, 2.0}, // inverted curve, high unemployment
		{0.8, 3.5, 4.5},
		{math.NaN(), math.NaN(), math.NaN()}, // fully missing, zero-filled
	}
	for _, row := range rows {
		raw, err := engine.Attribute(row)
		require.NoError(t, err)
		attrs, err := raw.PositiveClass()
		require.NoError(t, err)

		var sum float64
		for _, a := range attrs {
			sum += a
		}
		prob, err := m.PredictProba(row)
		require.NoError(t, err)
		assert.InDelta(t, prob-m.Baseline(), sum, 1e-12,
			"attributions must sum to prediction minus baseline")
	}
}

func TestEngineRowLengthMismatch(t *testing.T) {
	engine := NewEngine(depthTwoModel())
	_, err := engine.Attribute([]float64{1.0})
	assert.Error(t, err)
}

func TestPositiveClassNormalization(t *testing.T) {
	want := []float64{0.1, -0.2, 0.05}
	neg := []float64{-0.1, 0.2, -0.05}

	tests := []struct {
		name string
		raw  RawAttribution
	}{
		{
			name: "per-class list",
			raw:  RawAttribution{Kind: ShapePerClass, PerClass: [][]float64{neg, want}},
		},
		{
			name: "sample-feature-class cube",
			raw: RawAttribution{Kind: ShapeCube, Cube: [][][]float64{{
				{neg[0], want[0]},
				{neg[1], want[1]},
				{neg[2], want[2]},
			}}},
		},
		{
			name: "binary-symmetric matrix",
			raw:  RawAttribution{Kind: ShapeMatrix, Matrix: [][]float64{want}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.raw.PositiveClass()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPositiveClassErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  RawAttribution
	}{
		{"single-class list", RawAttribution{Kind: ShapePerClass, PerClass: [][]float64{{0.1}}}},
		{"empty cube", RawAttribution{Kind: ShapeCube}},
		{"empty matrix", RawAttribution{Kind: ShapeMatrix}},
		{"unknown shape", RawAttribution{Kind: Shape(99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.raw.PositiveClass()
			assert.Error(t, err)
		})
	}
}

func TestTopContributorsOrdering(t *testing.T) {
	m := depthTwoModel()
	ex := NewExplainer(m, nil)

	row := []float64{-0.5, 5.0, 2.0}
	got := ex.TopContributors(row, 3)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 3)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t,
			math.Abs(got[i-1].Attribution),
			math.Abs(got[i].Attribution),
			"contributors must be sorted by descending magnitude")
	}
	for _, c := range got {
		assert.Contains(t, m.Features, c.Name)
	}
}

func TestTopContributorsStableTies(t *testing.T) {
	m := depthTwoModel()
	tied := RawAttribution{
		Kind:     ShapePerClass,
		PerClass: [][]float64{{-0.1, -0.1, -0.1}, {0.1, 0.1, 0.1}},
	}
	ex := NewExplainerWithEngine(m, stubEngine{raw: tied}, nil)

	got := ex.TopContributors([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"T10Y2Y", "UNRATE", "FEDFUNDS"},
		[]string{got[0].Name, got[1].Name, got[2].Name},
		"ties keep original feature order")
}

func TestTopContributorsTruncation(t *testing.T) {
	m := depthTwoModel()
	ex := NewExplainer(m, nil)

	assert.Len(t, ex.TopContributors([]float64{-0.5, 5.0, 2.0}, 2), 2)
	assert.Len(t, ex.TopContributors([]float64{-0.5, 5.0, 2.0}, 10), 3)
	assert.Nil(t, ex.TopContributors([]float64{-0.5, 5.0, 2.0}, 0))
}

type stubEngine struct {
	raw RawAttribution
	err error
}

func (s stubEngine) Attribute(row []float64) (RawAttribution, error) {
	return s.raw, s.err
}

func TestTopContributorsDegradesOnEngineFailure(t *testing.T) {
	m := depthTwoModel()
	ex := NewExplainerWithEngine(m, stubEngine{err: errors.New("engine exploded")}, nil)

	got := ex.TopContributors([]float64{-0.5, 5.0, 2.0}, 3)
	assert.Empty(t, got, "engine failure must degrade to no explanation, not an error")
}

func TestTopContributorsDegradesOnBadShape(t *testing.T) {
	m := depthTwoModel()
	ex := NewExplainerWithEngine(m, stubEngine{raw: RawAttribution{Kind: Shape(42)}}, nil)
	assert.Empty(t, ex.TopContributors([]float64{-0.5, 5.0, 2.0}, 3))
}

func TestTopContributorsMissingCellValueReported(t *testing.T) {
	m := depthTwoModel()
	ex := NewExplainer(m, nil)

	got := ex.TopContributors([]float64{math.NaN(), 5.0, 2.0}, 3)
	for _, c := range got {
		assert.False(t, math.IsNaN(c.Value), "reported values follow the zero-fill policy")
	}
}
