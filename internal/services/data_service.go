package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apierrors "compass/internal/errors"
	"compass/pkg/contracts/domain"
)

// DataService serves single-series drill-down payloads: metadata plus
// observations in an optional date range.
type DataService struct {
	store  SeriesReader
	logger *slog.Logger
}

// NewDataService creates a data service over the store.
func NewDataService(reader SeriesReader, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:  reader,
		logger: logger.With(slog.String("service", "data")),
	}
}

// List returns the catalog of stored series for the dashboard's
// series picker.
func (s *DataService) List(ctx context.Context) ([]domain.SeriesListItem, error) {
	metas, err := s.store.ListSeriesMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	out := make([]domain.SeriesListItem, len(metas))
	for i, m := range metas {
		out[i] = domain.SeriesListItem{
			SeriesID:  m.SeriesID,
			Name:      m.Name,
			Frequency: m.Frequency,
			Units:     m.Units,
			Category:  m.Category,
		}
	}
	return out, nil
}

// Series returns one series' metadata and observations. Unknown series
// map to a not-found error.
func (s *DataService) Series(ctx context.Context, seriesID string, start, end *time.Time) (domain.SeriesPayload, error) {
	meta, err := s.store.SeriesMeta(ctx, seriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SeriesPayload{}, apierrors.ErrNotFound
		}
		return domain.SeriesPayload{}, fmt.Errorf("load series meta: %w", err)
	}

	lf, err := s.store.Observations(ctx, []string{seriesID}, start, end)
	if err != nil {
		return domain.SeriesPayload{}, fmt.Errorf("load observations: %w", err)
	}

	obs := make([]domain.Observation, len(lf))
	for i, o := range lf {
		obs[i] = domain.Observation{
			Date:  o.Date.Format("2006-01-02"),
			Value: o.Value,
		}
	}

	return domain.SeriesPayload{
		SeriesID:  meta.SeriesID,
		Name:      meta.Name,
		Frequency: meta.Frequency,
		Units:     meta.Units,
		Category:  meta.Category,
		Citation: fmt.Sprintf("FRED, %s. Retrieved from https://fred.stlouisfed.org/series/%s",
			meta.Name, meta.SeriesID),
		Count:        len(obs),
		Observations: obs,
	}, nil
}
