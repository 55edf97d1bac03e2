package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"compass/internal/config"
	"compass/internal/frame"
	"compass/internal/fred"
	"compass/internal/store"
)

// Provider fetches series data from the external source. Satisfied by
// *fred.Client.
type Provider interface {
	SeriesInfo(ctx context.Context, seriesID string) (fred.SeriesInfo, error)
	Observations(ctx context.Context, seriesID string) ([]frame.Observation, error)
}

// SeriesWriter is the store capability the fetcher needs.
type SeriesWriter interface {
	ReplaceSeries(ctx context.Context, meta store.SeriesMeta, obs []frame.Observation) error
}

// FetchService refreshes every configured series from the provider.
// Each series is replaced atomically; a failing series is logged and
// skipped so one bad series cannot block the rest of the refresh.
type FetchService struct {
	provider      Provider
	writer        SeriesWriter
	maxConcurrent int
	logger        *slog.Logger
}

// NewFetchService wires a fetch service.
func NewFetchService(provider Provider, writer SeriesWriter, maxConcurrent int, logger *slog.Logger) *FetchService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchService{
		provider:      provider,
		writer:        writer,
		maxConcurrent: maxConcurrent,
		logger:        logger.With(slog.String("service", "fetch")),
	}
}

// RefreshAll fetches and stores every series in the catalog. Returns
// the number of series refreshed successfully.
func (s *FetchService) RefreshAll(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))

	categoryOf := make(map[string]string)
	for category, members := range config.CategoryMembership {
		for _, id := range members {
			categoryOf[id] = category
		}
	}

	succeeded := make(chan string, len(config.AllSeriesIDs()))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, seriesID := range config.AllSeriesIDs() {
		seriesID := seriesID
		g.Go(func() error {
			if err := s.refreshOne(gctx, seriesID, categoryOf[seriesID]); err != nil {
				// Tolerated: log and keep refreshing the others.
				logger.ErrorContext(gctx, "series refresh failed",
					slog.String("series_id", seriesID),
					slog.String("error", err.Error()))
				return nil
			}
			succeeded <- seriesID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(succeeded)

	count := len(succeeded)
	logger.InfoContext(ctx, "refresh complete",
		slog.Int("succeeded", count),
		slog.Int("total", len(config.AllSeriesIDs())))
	return count, nil
}

func (s *FetchService) refreshOne(ctx context.Context, seriesID, category string) error {
	info, err := s.provider.SeriesInfo(ctx, seriesID)
	if err != nil {
		return err
	}
	obs, err := s.provider.Observations(ctx, seriesID)
	if err != nil {
		return err
	}

	meta := store.SeriesMeta{
		SeriesID:  seriesID,
		Name:      info.Title,
		Frequency: info.FrequencyShort,
		Units:     info.UnitsShort,
		Category:  category,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.writer.ReplaceSeries(ctx, meta, obs); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "series refreshed",
		slog.String("series_id", seriesID),
		slog.Int("observations", len(obs)))
	return nil
}
