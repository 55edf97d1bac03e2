package services

import (
	"context"
	"log/slog"

	"compass/internal/mlmodel"
	"compass/pkg/contracts/domain"
)

// HealthService reports overall service health: database connectivity
// and model availability.
type HealthService struct {
	store   SeriesReader
	model   *mlmodel.Context
	version string
	logger  *slog.Logger
}

// NewHealthService creates a health service.
func NewHealthService(reader SeriesReader, model *mlmodel.Context, version string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		store:   reader,
		model:   model,
		version: version,
		logger:  logger.With(slog.String("service", "health")),
	}
}

// Check reports component statuses. Degraded components mark the
// overall status but never error: the endpoint always answers.
func (s *HealthService) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Status:   "ok",
		Version:  s.version,
		Services: make(map[string]string, 2),
	}

	if err := s.store.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Services["database"] = "unreachable"
		s.logger.WarnContext(ctx, "health check: database unreachable",
			slog.String("error", err.Error()))
	} else {
		status.Services["database"] = "ok"
	}

	if s.model == nil || s.model.Model == nil {
		status.Status = "degraded"
		status.Services["model"] = "not loaded"
	} else {
		status.Services["model"] = "ok"
	}
	return status
}
