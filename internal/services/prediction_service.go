package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"compass/internal/config"
	"compass/internal/explain"
	"compass/internal/frame"
	"compass/internal/infrastructure"
	"compass/internal/mlmodel"
	"compass/pkg/contracts/domain"
)

// PredictionService produces the live recession score: query the
// recent observation window, shape the latest feature row, predict,
// and explain.
type PredictionService struct {
	store      SeriesReader
	shaper     *frame.Shaper
	model      *mlmodel.Context
	explainer  *explain.Explainer
	metrics    *infrastructure.Metrics
	seriesIDs  []string
	windowDays int
	topK       int
	logger     *slog.Logger
	now        func() time.Time
}

// NewPredictionService wires the prediction pipeline. The model
// context must already be loaded; metrics may be nil in tests.
func NewPredictionService(
	reader SeriesReader,
	model *mlmodel.Context,
	pipeline config.PipelineConfig,
	topK int,
	metrics *infrastructure.Metrics,
	logger *slog.Logger,
) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{
		store:      reader,
		shaper:     frame.NewShaper(config.LevelSeries, logger),
		model:      model,
		explainer:  explain.NewExplainer(model.Model, logger),
		metrics:    metrics,
		seriesIDs:  config.PipelineSeriesIDs(),
		windowDays: pipeline.PredictionWindowDays,
		topK:       topK,
		logger:     logger.With(slog.String("service", "prediction")),
		now:        time.Now,
	}
}

// Predict computes the current recession probability and its top
// contributors. The score is scaled to percentage units here, at the
// service boundary; the predictor itself stays in [0, 1]. Failures to
// shape or predict propagate as errors so the caller can render a
// distinguishable failure instead of a default score; only the
// explanation may be absent.
func (s *PredictionService) Predict(ctx context.Context) (domain.PredictionResult, error) {
	started := s.now()

	start := started.AddDate(0, 0, -s.windowDays)
	lf, err := s.store.Observations(ctx, s.seriesIDs, &start, nil)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("query observation window: %w", err)
	}

	matrix, err := s.shaper.Shape(lf, s.model.Model.Schema())
	if err != nil {
		return domain.PredictionResult{}, err
	}

	date, row := matrix.LatestRow()
	prob, err := s.model.Model.PredictProba(row)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}

	contributors := s.explainer.TopContributors(row, s.topK)
	if len(contributors) == 0 && s.metrics != nil {
		s.metrics.AttributionErrors.Inc()
	}

	if s.metrics != nil {
		s.metrics.PredictionsTotal.Inc()
		s.metrics.PredictionDuration.Observe(time.Since(started).Seconds())
	}

	s.logger.InfoContext(ctx, "prediction computed",
		slog.String("as_of", date.Format("2006-01-02")),
		slog.Float64("probability", prob),
		slog.Int("contributors", len(contributors)),
	)

	return domain.PredictionResult{
		Date:         date.Format("2006-01-02"),
		Score:        prob * 100,
		Contributors: toContributors(contributors),
	}, nil
}

func toContributors(in []explain.Contributor) []domain.Contributor {
	out := make([]domain.Contributor, len(in))
	for i, c := range in {
		out[i] = domain.Contributor(c)
	}
	return out
}
