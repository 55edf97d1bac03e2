package mlmodel

import (
	"log/slog"
	"time"
)

// Context is the process-wide handle to the loaded model. It is
// created once at startup and passed by reference into predictor and
// explainer calls, replacing lazily-initialized globals. Read-only
// after construction, so it is safe to share across concurrent
// requests.
type Context struct {
	Model    *Model
	Path     string
	LoadedAt time.Time
}

// NewContext loads the artifact at path and wraps it. Loading fails
// fatally with a ModelUnavailableError when the artifact is absent or
// malformed.
func NewContext(path string, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m, err := Load(path)
	if err != nil {
		return nil, err
	}

	logger.Info("model loaded",
		slog.String("path", path),
		slog.Int("features", len(m.Features)),
		slog.Int("trees", len(m.Trees)),
	)
	return &Context{Model: m, Path: path, LoadedAt: time.Now()}, nil
}
