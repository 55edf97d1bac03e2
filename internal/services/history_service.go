package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	apierrors "compass/internal/errors"
	"compass/pkg/contracts/domain"
)

// HistoryService serves the precomputed prediction history artifact
// written by the history generator. The artifact is re-read per
// request; the generator's atomic replace guarantees a consistent
// file.
type HistoryService struct {
	path   string
	logger *slog.Logger
}

// NewHistoryService creates a history service reading from path.
func NewHistoryService(path string, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{
		path:   path,
		logger: logger.With(slog.String("service", "history")),
	}
}

// History returns the ordered prediction history. A missing artifact
// means the generator has not run yet and maps to not-found.
func (s *HistoryService) History(ctx context.Context) ([]domain.HistoryPoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.New(404, "HISTORY_NOT_FOUND",
				"History not found. Run the history generator first.")
		}
		return nil, err
	}

	var points []domain.HistoryPoint
	if err := json.Unmarshal(data, &points); err != nil {
		s.logger.ErrorContext(ctx, "history artifact is corrupt",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, err
	}
	return points, nil
}
