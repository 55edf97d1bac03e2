// Package store implements the series store: long-format
// macroeconomic observations and per-series metadata in Postgres.
//
// The schema enforces at most one value per (series, date). A refresh
// replaces a series' observations inside one transaction, so readers
// see either the old or the new vintage, never a mix.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"compass/internal/config"
	"compass/internal/frame"
)

// SeriesMeta describes one series as reported by the data provider.
type SeriesMeta struct {
	SeriesID  string    `json:"series_id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
	Units     string    `json:"units"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store wraps the Postgres connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to Postgres, applies pool settings, runs pending
// migrations, and verifies connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("series store ready", slog.Int("max_open_conns", cfg.MaxOpenConns))
	return &Store{db: db, logger: logger.With(slog.String("component", "store"))}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies database connectivity, used by health checks.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Observations returns the long frame for the given series, optionally
// bounded by [start, end]. Nil bounds are open.
func (s *Store) Observations(ctx context.Context, seriesIDs []string, start, end *time.Time) (frame.LongFrame, error) {
	q := `SELECT series_id, date, value FROM observations WHERE series_id = ANY($1)`
	args := []any{seriesIDs}
	if start != nil {
		args = append(args, *start)
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		q += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	q += " ORDER BY date, series_id"

	return s.queryFrame(ctx, q, args...)
}

// AllObservations returns every stored observation, used by the
// history generator.
func (s *Store) AllObservations(ctx context.Context) (frame.LongFrame, error) {
	return s.queryFrame(ctx,
		`SELECT series_id, date, value FROM observations ORDER BY date, series_id`)
}

func (s *Store) queryFrame(ctx context.Context, q string, args ...any) (frame.LongFrame, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var lf frame.LongFrame
	for rows.Next() {
		var obs frame.Observation
		if err := rows.Scan(&obs.SeriesID, &obs.Date, &obs.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		lf = append(lf, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return lf, nil
}

// ReplaceSeries atomically replaces a series' metadata and all of its
// observations: upsert metadata, delete existing rows, bulk insert the
// new vintage, one transaction.
func (s *Store) ReplaceSeries(ctx context.Context, meta SeriesMeta, obs []frame.Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO series (series_id, name, frequency, units, category, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (series_id) DO UPDATE SET
			name = EXCLUDED.name,
			frequency = EXCLUDED.frequency,
			units = EXCLUDED.units,
			category = EXCLUDED.category,
			updated_at = EXCLUDED.updated_at`,
		meta.SeriesID, meta.Name, meta.Frequency, meta.Units, meta.Category, meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert series meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM observations WHERE series_id = $1`, meta.SeriesID); err != nil {
		return fmt.Errorf("delete observations: %w", err)
	}

	if len(obs) > 0 {
		dates := make([]time.Time, len(obs))
		values := make([]float64, len(obs))
		for i, o := range obs {
			dates[i] = o.Date
			values[i] = o.Value
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO observations (series_id, date, value)
			SELECT $1, unnest($2::date[]), unnest($3::float8[])`,
			meta.SeriesID, dates, values)
		if err != nil {
			return fmt.Errorf("insert observations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}

	s.logger.Info("series replaced",
		slog.String("series_id", meta.SeriesID),
		slog.Int("observations", len(obs)),
	)
	return nil
}

// ListSeriesMeta returns metadata for every stored series, ordered by
// category then identifier.
func (s *Store) ListSeriesMeta(ctx context.Context) ([]SeriesMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_id, name, frequency, units, category, updated_at
		FROM series ORDER BY category, series_id`)
	if err != nil {
		return nil, fmt.Errorf("query series list: %w", err)
	}
	defer rows.Close()

	var out []SeriesMeta
	for rows.Next() {
		var m SeriesMeta
		if err := rows.Scan(&m.SeriesID, &m.Name, &m.Frequency, &m.Units, &m.Category, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan series meta: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series list: %w", err)
	}
	return out, nil
}

// SeriesMeta returns metadata for one series, or sql.ErrNoRows.
func (s *Store) SeriesMeta(ctx context.Context, seriesID string) (SeriesMeta, error) {
	var m SeriesMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT series_id, name, frequency, units, category, updated_at
		FROM series WHERE series_id = $1`, seriesID).
		Scan(&m.SeriesID, &m.Name, &m.Frequency, &m.Units, &m.Category, &m.UpdatedAt)
	if err != nil {
		return SeriesMeta{}, fmt.Errorf("query series meta: %w", err)
	}
	return m, nil
}
