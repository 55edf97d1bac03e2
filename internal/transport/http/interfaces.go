package http

import (
	"context"
	"time"

	"compass/pkg/contracts/domain"
)

// PredictionProvider serves the live recession prediction.
type PredictionProvider interface {
	Predict(ctx context.Context) (domain.PredictionResult, error)
}

// OutlookProvider serves per-category outlook scores.
type OutlookProvider interface {
	Categories(ctx context.Context) (map[string]domain.CategoryOutlook, error)
}

// SeriesProvider serves the series catalog and single-series
// drill-down payloads.
type SeriesProvider interface {
	List(ctx context.Context) ([]domain.SeriesListItem, error)
	Series(ctx context.Context, seriesID string, start, end *time.Time) (domain.SeriesPayload, error)
}

// HistoryProvider serves the precomputed prediction history.
type HistoryProvider interface {
	History(ctx context.Context) ([]domain.HistoryPoint, error)
}

// HealthProvider serves health checks.
type HealthProvider interface {
	Check(ctx context.Context) domain.HealthStatus
}
