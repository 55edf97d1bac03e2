// Package history regenerates the full time series of past recession
// predictions consumed by the dashboard's history chart.
//
// Each run recomputes every prediction from scratch and atomically
// replaces the previous artifact; there is no incremental update path.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"compass/internal/frame"
	"compass/internal/mlmodel"
)

// Point is one month of the generated history: the model's probability
// paired with the realized recession indicator for that month.
type Point struct {
	Date        string  `json:"date"`
	Prob        float64 `json:"prob"`
	IsRecession int     `json:"is_recession"`
}

// SeriesReader is the store capability the generator needs: the full
// long-format observation history for every series.
type SeriesReader interface {
	AllObservations(ctx context.Context) (frame.LongFrame, error)
}

// Generator runs the feature shaper and predictor across the whole
// historical record and writes the result as a JSON artifact.
type Generator struct {
	store           SeriesReader
	shaper          *frame.Shaper
	model           *mlmodel.Context
	recessionSeries string
	outputPath      string
	logger          *slog.Logger
}

// NewGenerator wires a generator. recessionSeries names the realized
// 0/1 indicator column (USREC); outputPath is the artifact location.
func NewGenerator(store SeriesReader, shaper *frame.Shaper, model *mlmodel.Context, recessionSeries, outputPath string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		store:           store,
		shaper:          shaper,
		model:           model,
		recessionSeries: recessionSeries,
		outputPath:      outputPath,
		logger:          logger.With(slog.String("component", "history_generator")),
	}
}

// Run shapes all available history, predicts every month whose feature
// row is fully populated (past the year-over-year warm-up and the
// forward-fill horizon), and overwrites the artifact atomically so a
// concurrent reader never observes a half-written file.
func (g *Generator) Run(ctx context.Context) error {
	lf, err := g.store.AllObservations(ctx)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}

	points, err := g.Generate(lf)
	if err != nil {
		return fmt.Errorf("generate history: %w", err)
	}

	if err := writeAtomic(g.outputPath, points); err != nil {
		return fmt.Errorf("write history artifact: %w", err)
	}

	g.logger.InfoContext(ctx, "history artifact written",
		slog.String("path", g.outputPath),
		slog.Int("points", len(points)),
	)
	return nil
}

// Generate computes the ordered-by-date prediction sequence for one
// long frame. Exposed separately from Run for testability.
func (g *Generator) Generate(lf frame.LongFrame) ([]Point, error) {
	monthly, err := g.shaper.Monthly(lf)
	if err != nil {
		return nil, err
	}

	// The realized indicator lives outside the model schema, so it is
	// read from the monthly matrix before alignment drops it.
	realized := monthly.Column(g.recessionSeries)

	aligned := frame.Align(monthly, g.model.Model.Schema())

	var points []Point
	for i := 0; i < aligned.NumRows(); i++ {
		if !aligned.RowComplete(i) {
			continue
		}
		prob, err := g.model.Model.PredictProba(aligned.Row(i))
		if err != nil {
			return nil, fmt.Errorf("predict row %s: %w", aligned.Dates[i].Format("2006-01-02"), err)
		}
		points = append(points, Point{
			Date:        aligned.Dates[i].Format("2006-01-02"),
			Prob:        prob,
			IsRecession: realizedLabel(realized, i),
		})
	}
	return points, nil
}

// realizedLabel reads the 0/1 indicator for row i, defaulting to 0
// when the indicator is absent for that month.
func realizedLabel(realized []float64, i int) int {
	if realized == nil || i >= len(realized) {
		return 0
	}
	v := realized[i]
	if frame.IsMissing(v) {
		return 0
	}
	if v >= 0.5 {
		return 1
	}
	return 0
}

// writeAtomic marshals points and replaces path via a temp file in the
// same directory plus rename.
func writeAtomic(path string, points []Point) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}
