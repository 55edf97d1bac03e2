package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "compass/internal/errors"
)

// Handler bundles the API endpoints over their service providers.
type Handler struct {
	prediction PredictionProvider
	outlook    OutlookProvider
	series     SeriesProvider
	history    HistoryProvider
	health     HealthProvider
	errors     *apierrors.Handler
	logger     *slog.Logger
}

// NewHandler wires the endpoint handlers.
func NewHandler(
	prediction PredictionProvider,
	outlook OutlookProvider,
	series SeriesProvider,
	history HistoryProvider,
	health HealthProvider,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		prediction: prediction,
		outlook:    outlook,
		series:     series,
		history:    history,
		health:     health,
		errors:     apierrors.NewHandler(logger),
		logger:     logger.With(slog.String("component", "http_handler")),
	}
}

// Routes returns the API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/categories", h.GetCategories)
	r.Get("/outlook", h.GetCategories)
	r.Get("/prediction", h.GetPrediction)
	r.Get("/history", h.GetHistory)
	r.Get("/series", h.ListSeries)
	r.Get("/series/{seriesID}", h.GetSeries)

	return r
}

// GetPrediction handles GET /api/v1/prediction: the dial score in
// percent plus up to three contributors. A shaping or prediction
// failure is rendered as an error response, never as a zero score.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	result, err := h.prediction.Predict(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetCategories handles GET /api/v1/categories: every category with
// its member series and outlook score.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.outlook.Categories(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	render.JSON(w, r, categories)
}

// GetHistory handles GET /api/v1/history: the generator's ordered
// prediction sequence.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	points, err := h.history.History(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	render.JSON(w, r, points)
}

// ListSeries handles GET /api/v1/series: the catalog of stored
// series.
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	items, err := h.series.List(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	render.JSON(w, r, items)
}

// GetSeries handles GET /api/v1/series/{seriesID}?start=&end= for
// drill-down charts.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if seriesID == "" {
		h.errors.Respond(w, r, apierrors.ErrInvalidRequest)
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	payload, err := h.series.Series(r.Context(), seriesID, start, end)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	render.JSON(w, r, payload)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.health.Check(r.Context()))
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apierrors.New(http.StatusBadRequest, "INVALID_PARAMETER",
			fmt.Sprintf("parameter %q must be a YYYY-MM-DD date", name))
	}
	return &t, nil
}
