package explain

import (
	"log/slog"
	"math"
	"sort"

	"compass/internal/mlmodel"
)

// DefaultTopK is the number of contributors returned to the dashboard.
const DefaultTopK = 3

// Contributor is one feature's contribution to a prediction.
type Contributor struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Attribution float64 `json:"attribution"`
}

// Attributer produces raw attributions for a feature row. Satisfied by
// *Engine; tests substitute failing engines to exercise degradation.
type Attributer interface {
	Attribute(row []float64) (RawAttribution, error)
}

// Explainer ranks per-feature attributions for single predictions.
type Explainer struct {
	model  *mlmodel.Model
	engine Attributer
	logger *slog.Logger
}

// NewExplainer builds an explainer over the loaded model using the
// built-in path attribution engine.
func NewExplainer(model *mlmodel.Model, logger *slog.Logger) *Explainer {
	return NewExplainerWithEngine(model, NewEngine(model), logger)
}

// NewExplainerWithEngine builds an explainer with a caller-supplied
// attribution engine.
func NewExplainerWithEngine(model *mlmodel.Model, engine Attributer, logger *slog.Logger) *Explainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Explainer{
		model:  model,
		engine: engine,
		logger: logger.With(slog.String("component", "explainer")),
	}
}

// TopContributors returns up to topK features ranked by absolute
// attribution, descending, ties broken by schema order. Any engine or
// normalization failure degrades to an empty list so that explanation
// problems never block the prediction itself; the caller can tell
// "no attribution available" (empty) apart from "prediction failed"
// (error from the predictor).
func (e *Explainer) TopContributors(row []float64, topK int) []Contributor {
	if topK <= 0 {
		return nil
	}

	raw, err := e.engine.Attribute(row)
	if err != nil {
		e.logger.Warn("attribution engine failed, omitting explanation",
			slog.String("error", err.Error()))
		return nil
	}

	attrs, err := raw.PositiveClass()
	if err != nil {
		e.logger.Warn("attribution normalization failed, omitting explanation",
			slog.String("error", err.Error()))
		return nil
	}
	if len(attrs) != len(e.model.Features) {
		e.logger.Warn("attribution vector length mismatch, omitting explanation",
			slog.Int("got", len(attrs)),
			slog.Int("want", len(e.model.Features)))
		return nil
	}

	contributors := make([]Contributor, len(attrs))
	for i, a := range attrs {
		v := row[i]
		if math.IsNaN(v) {
			v = 0
		}
		contributors[i] = Contributor{
			Name:        e.model.Features[i],
			Value:       v,
			Attribution: a,
		}
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return math.Abs(contributors[i].Attribution) > math.Abs(contributors[j].Attribution)
	})

	if topK > len(contributors) {
		topK = len(contributors)
	}
	return contributors[:topK]
}
