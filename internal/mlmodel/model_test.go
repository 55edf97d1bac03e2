package mlmodel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testModel builds a two-tree stump ensemble over two features:
// tree 0 splits on feature 0 at 0.5, tree 1 splits on feature 1 at 1.0.
func testModel() *Model {
	return &Model{
		Version:  1,
		Features: []string{"T10Y2Y", "UNRATE"},
		Trees: []Tree{
			{Nodes: []Node{
				{Feature: 0, Threshold: 0.5, Left: 1, Right: 2, Value: 0.30},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.80},
				{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: 0.10},
			}},
			{Nodes: []Node{
				{Feature: 1, Threshold: 1.0, Left: 1, Right: 2, Value: 0.20},
				{Feature: 1, Threshold: 0, Left: -1, Right: -1, Value: 0.05},
				{Feature: 1, Threshold: 0, Left: -1, Right: -1, Value: 0.60},
			}},
		},
	}
}

func writeModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recession_model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		var unavailable *ModelUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("malformed artifact", func(t *testing.T) {
		path := writeModelFile(t, "{not json")
		_, err := Load(path)
		var unavailable *ModelUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("empty schema rejected", func(t *testing.T) {
		path := writeModelFile(t, `{"version":1,"features":[],"trees":[{"nodes":[{"feature":0,"threshold":0,"left":-1,"right":-1,"value":0.5}]}]}`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("child index out of range rejected", func(t *testing.T) {
		path := writeModelFile(t, `{"version":1,"features":["A"],"trees":[{"nodes":[{"feature":0,"threshold":0,"left":5,"right":1,"value":0.5}]}]}`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("valid artifact", func(t *testing.T) {
		path := writeModelFile(t, `{
			"version": 1,
			"features": ["T10Y2Y", "UNRATE"],
			"trees": [{"nodes": [
				{"feature": 0, "threshold": 0.5, "left": 1, "right": 2, "value": 0.3},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": 0.8},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": 0.1}
			]}]
		}`)
		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"T10Y2Y", "UNRATE"}, m.Schema())
	})
}

func TestPredictProba(t *testing.T) {
	m := testModel()

	tests := []struct {
		name string
		row  []float64
		want float64
	}{
		{"both low branches", []float64{0.2, 0.5}, (0.80 + 0.05) / 2},
		{"both high branches", []float64{1.5, 4.0}, (0.10 + 0.60) / 2},
		{"mixed", []float64{0.2, 4.0}, (0.80 + 0.60) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.PredictProba(tt.row)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}

	t.Run("wrong row length", func(t *testing.T) {
		_, err := m.PredictProba([]float64{1})
		assert.Error(t, err)
	})

	t.Run("missing cells are zero-filled, not fatal", func(t *testing.T) {
		got, err := m.PredictProba([]float64{math.NaN(), math.NaN()})
		require.NoError(t, err)
		// Zero routes feature 0 left (0 <= 0.5) and feature 1 left (0 <= 1).
		assert.InDelta(t, (0.80+0.05)/2, got, 1e-12)
	})
}

func TestBaseline(t *testing.T) {
	m := testModel()
	assert.InDelta(t, (0.30+0.20)/2, m.Baseline(), 1e-12)
}

func TestNewContext(t *testing.T) {
	t.Run("missing model is fatal", func(t *testing.T) {
		_, err := NewContext(filepath.Join(t.TempDir(), "absent.json"), nil)
		var unavailable *ModelUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	})
}
