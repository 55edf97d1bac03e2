package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"compass/internal/config"
	"compass/internal/outlook"
	"compass/pkg/contracts/domain"
)

// OutlookService computes the per-category outlook percentiles served
// on the dashboard landing page. Results are recomputed on every
// request; nothing is cached.
type OutlookService struct {
	store      SeriesReader
	scorer     *outlook.Scorer
	membership map[string][]string
	logger     *slog.Logger
	now        func() time.Time
}

// NewOutlookService wires the outlook scorer over the store.
func NewOutlookService(reader SeriesReader, pipeline config.PipelineConfig, logger *slog.Logger) *OutlookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutlookService{
		store:      reader,
		scorer:     outlook.NewScorer(pipeline.LookbackYears, logger),
		membership: config.CategoryMembership,
		logger:     logger.With(slog.String("service", "outlook")),
		now:        time.Now,
	}
}

// Categories returns every category with its member series and its
// outlook score. Categories with no usable data keep the neutral
// default rather than failing the whole response.
func (s *OutlookService) Categories(ctx context.Context) (map[string]domain.CategoryOutlook, error) {
	var ids []string
	for _, members := range s.membership {
		ids = append(ids, members...)
	}

	start := s.scorer.WindowStart(s.now())
	lf, err := s.store.Observations(ctx, ids, &start, nil)
	if err != nil {
		return nil, fmt.Errorf("query outlook window: %w", err)
	}

	scored := s.scorer.Score(lf, s.membership)
	out := make(map[string]domain.CategoryOutlook, len(scored))
	for category, c := range scored {
		out[category] = domain.CategoryOutlook{
			Series:       c.Series,
			OutlookScore: c.OutlookScore,
		}
	}
	return out, nil
}
