package services

import (
	"context"
	"time"

	"compass/internal/frame"
	"compass/internal/store"
)

// SeriesReader is the store capability the services consume. Satisfied
// by *store.Store; tests substitute fakes.
type SeriesReader interface {
	Observations(ctx context.Context, seriesIDs []string, start, end *time.Time) (frame.LongFrame, error)
	SeriesMeta(ctx context.Context, seriesID string) (store.SeriesMeta, error)
	ListSeriesMeta(ctx context.Context) ([]store.SeriesMeta, error)
	Ping(ctx context.Context) error
}
