// Package errors maps domain failures onto structured HTTP error
// responses.
//
// The propagation policy: shaping and prediction failures always reach
// the caller as a distinguishable error response, never as a default
// numeric score. Absence of data is an explicit "unavailable" signal,
// distinct from a real score of zero. Only attribution failures
// degrade silently, and that happens upstream in the explainer.
package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"compass/internal/frame"
	"compass/internal/mlmodel"
)

// APIError is the structured error body returned to clients.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// Predefined errors for common conditions.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternal       = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")

	// ErrDataUnavailable signals that no data exists in the requested
	// window; the dashboard shows "not available", never a zero score.
	ErrDataUnavailable = New(http.StatusNotFound, "DATA_UNAVAILABLE", "No data available for the requested window")

	// ErrModelUnavailable signals a missing or corrupt model artifact.
	ErrModelUnavailable = New(http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "Prediction model is not available")

	// ErrMalformedData signals an input frame that cannot be shaped.
	ErrMalformedData = New(http.StatusUnprocessableEntity, "MALFORMED_DATA", "Stored observations cannot be shaped into features")
)

// Handler renders domain errors as APIError responses and logs them.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates an error handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger.With(slog.String("component", "error_handler"))}
}

// Respond classifies err, logs it with request context, and writes the
// matching APIError.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	// Copy before attaching the trace ID; Classify may return one of
	// the shared predefined errors.
	apiErr := *Classify(err)
	apiErr.TraceID = middleware.GetReqID(r.Context())

	level := slog.LevelError
	if apiErr.StatusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.String("code", apiErr.ErrorCode),
		slog.Int("status", apiErr.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, &apiErr)
}

// Classify maps a domain error onto its APIError. Unknown errors
// become internal server errors without leaking details.
func Classify(err error) *APIError {
	var shapeErr *frame.ShapeError
	var modelErr *mlmodel.ModelUnavailableError
	var apiErr *APIError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, frame.ErrEmptyInput):
		return ErrDataUnavailable
	case errors.As(err, &shapeErr):
		return &APIError{
			StatusCode: ErrMalformedData.StatusCode,
			ErrorCode:  ErrMalformedData.ErrorCode,
			Message:    ErrMalformedData.Message,
			Details:    shapeErr.Error(),
		}
	case errors.As(err, &modelErr):
		return ErrModelUnavailable
	default:
		return ErrInternal
	}
}
