package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"compass/internal/config"
	"compass/internal/infrastructure"
	"compass/internal/mlmodel"
	"compass/internal/services"
	"compass/internal/store"
	transport "compass/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the composed web server: configuration, storage, the
// loaded model, the service layer, and the HTTP surface.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Store   *store.Store
	Model   *mlmodel.Context
	Router  chi.Router
	Server  *http.Server

	closeLogger func() error
}

// NewApplication wires every component. The model artifact is loaded
// once here; a missing or corrupt artifact fails startup rather than
// surfacing per request.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, closeLogger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		closeLogger()
		return nil, fmt.Errorf("open series store: %w", err)
	}

	model, err := mlmodel.NewContext(cfg.Model.Path, logger)
	if err != nil {
		st.Close()
		closeLogger()
		return nil, fmt.Errorf("load model: %w", err)
	}

	metrics := infrastructure.NewMetrics()

	a := &Application{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics,
		Store:       st,
		Model:       model,
		closeLogger: closeLogger,
	}
	a.buildRouter()
	a.createServer()
	return a, nil
}

func (a *Application) buildRouter() {
	cfg := a.Config

	prediction := services.NewPredictionService(
		a.Store, a.Model, cfg.Pipeline, cfg.Model.TopContributors, a.Metrics, a.Logger)
	outlook := services.NewOutlookService(a.Store, cfg.Pipeline, a.Logger)
	data := services.NewDataService(a.Store, a.Logger)
	history := services.NewHistoryService(cfg.Model.HistoryPath, a.Logger)
	health := services.NewHealthService(a.Store, a.Model, Version, a.Logger)

	handler := transport.NewHandler(prediction, outlook, data, history, health, a.Logger)
	a.Router = transport.NewRouter(handler, cfg.Server, a.Metrics, a.Logger)
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. A listener failure cancels the supplied
// context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "server listening", slog.String("addr", a.Server.Addr))
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop drains in-flight requests and releases resources.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.ErrorContext(ctx, "closing store", slog.String("error", err.Error()))
	}
	if a.closeLogger != nil {
		a.closeLogger()
	}
	return nil
}

// Run serves until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
