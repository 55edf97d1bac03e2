package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/config"
	apierrors "compass/internal/errors"
	"compass/internal/frame"
	"compass/internal/infrastructure"
	"compass/pkg/contracts/domain"
)

type fakePrediction struct {
	result domain.PredictionResult
	err    error
}

func (f *fakePrediction) Predict(ctx context.Context) (domain.PredictionResult, error) {
	return f.result, f.err
}

type fakeOutlook struct {
	categories map[string]domain.CategoryOutlook
	err        error
}

func (f *fakeOutlook) Categories(ctx context.Context) (map[string]domain.CategoryOutlook, error) {
	return f.categories, f.err
}

type fakeSeries struct {
	payload domain.SeriesPayload
	list    []domain.SeriesListItem
	err     error

	gotID    string
	gotStart *time.Time
	gotEnd   *time.Time
}

func (f *fakeSeries) List(ctx context.Context) ([]domain.SeriesListItem, error) {
	return f.list, f.err
}

func (f *fakeSeries) Series(ctx context.Context, seriesID string, start, end *time.Time) (domain.SeriesPayload, error) {
	f.gotID = seriesID
	f.gotStart = start
	f.gotEnd = end
	return f.payload, f.err
}

type fakeHistory struct {
	points []domain.HistoryPoint
	err    error
}

func (f *fakeHistory) History(ctx context.Context) ([]domain.HistoryPoint, error) {
	return f.points, f.err
}

type fakeHealth struct {
	status domain.HealthStatus
}

func (f *fakeHealth) Check(ctx context.Context) domain.HealthStatus {
	return f.status
}

type fixtures struct {
	prediction *fakePrediction
	outlook    *fakeOutlook
	series     *fakeSeries
	history    *fakeHistory
	health     *fakeHealth
}

func newTestServer(t *testing.T, f fixtures) *httptest.Server {
	t.Helper()

	if f.prediction == nil {
		f.prediction = &fakePrediction{}
	}
	if f.outlook == nil {
		f.outlook = &fakeOutlook{}
	}
	if f.series == nil {
		f.series = &fakeSeries{}
	}
	if f.history == nil {
		f.history = &fakeHistory{}
	}
	if f.health == nil {
		f.health = &fakeHealth{status: domain.HealthStatus{Status: "ok"}}
	}

	h := NewHandler(f.prediction, f.outlook, f.series, f.history, f.health, nil)
	router := NewRouter(h, config.ServerConfig{
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
	}, infrastructure.NewMetrics(), nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPrediction(t *testing.T) {
	tests := []struct {
		name       string
		provider   *fakePrediction
		wantStatus int
		wantCode   string
	}{
		{
			name: "successful prediction",
			provider: &fakePrediction{result: domain.PredictionResult{
				Date:  "2024-05-31",
				Score: 72.5,
				Contributors: []domain.Contributor{
					{Name: "UNRATE_YoY", Value: 0.12, Attribution: 0.31},
				},
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no data in window",
			provider:   &fakePrediction{err: frame.ErrEmptyInput},
			wantStatus: http.StatusNotFound,
			wantCode:   "DATA_UNAVAILABLE",
		},
		{
			name: "malformed stored data",
			provider: &fakePrediction{err: &frame.ShapeError{
				SeriesID: "UNRATE",
				Reason:   "duplicate observation",
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MALFORMED_DATA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, fixtures{prediction: tt.provider})

			resp, err := http.Get(srv.URL + "/api/v1/prediction")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				var apiErr apierrors.APIError
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
				assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
				return
			}

			var got domain.PredictionResult
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.provider.result, got)
		})
	}
}

func TestGetCategories(t *testing.T) {
	outlook := &fakeOutlook{categories: map[string]domain.CategoryOutlook{
		"labor": {Series: []string{"UNRATE", "PAYEMS"}, OutlookScore: 64},
	}}
	srv := newTestServer(t, fixtures{outlook: outlook})

	for _, path := range []string{"/api/v1/categories", "/api/v1/outlook"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		var got map[string]domain.CategoryOutlook
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, outlook.categories, got, path)
	}
}

func TestGetSeries(t *testing.T) {
	t.Run("passes parsed date bounds to the provider", func(t *testing.T) {
		series := &fakeSeries{payload: domain.SeriesPayload{
			SeriesID: "UNRATE",
			Name:     "Unemployment Rate",
			Count:    1,
			Observations: []domain.Observation{
				{Date: "2024-04-30", Value: 3.9},
			},
		}}
		srv := newTestServer(t, fixtures{series: series})

		resp, err := http.Get(srv.URL + "/api/v1/series/UNRATE?start=2020-01-01&end=2024-06-30")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "UNRATE", series.gotID)
		require.NotNil(t, series.gotStart)
		require.NotNil(t, series.gotEnd)
		assert.Equal(t, "2020-01-01", series.gotStart.Format("2006-01-02"))
		assert.Equal(t, "2024-06-30", series.gotEnd.Format("2006-01-02"))
	})

	t.Run("rejects malformed date parameter", func(t *testing.T) {
		srv := newTestServer(t, fixtures{})

		resp, err := http.Get(srv.URL + "/api/v1/series/UNRATE?start=January")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var apiErr apierrors.APIError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
		assert.Equal(t, "INVALID_PARAMETER", apiErr.ErrorCode)
	})

	t.Run("lists the catalog", func(t *testing.T) {
		series := &fakeSeries{list: []domain.SeriesListItem{
			{SeriesID: "UNRATE", Name: "Unemployment Rate", Category: "labor"},
		}}
		srv := newTestServer(t, fixtures{series: series})

		resp, err := http.Get(srv.URL + "/api/v1/series")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got []domain.SeriesListItem
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, series.list, got)
	})

	t.Run("unknown series yields not found", func(t *testing.T) {
		srv := newTestServer(t, fixtures{series: &fakeSeries{err: apierrors.ErrNotFound}})

		resp, err := http.Get(srv.URL + "/api/v1/series/NOPE")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetHistory(t *testing.T) {
	history := &fakeHistory{points: []domain.HistoryPoint{
		{Date: "1990-01-31", Prob: 0.12, IsRecession: 0},
		{Date: "1990-02-28", Prob: 0.34, IsRecession: 1},
	}}
	srv := newTestServer(t, fixtures{history: history})

	resp, err := http.Get(srv.URL + "/api/v1/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []domain.HistoryPoint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, history.points, got)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, fixtures{health: &fakeHealth{status: domain.HealthStatus{
		Status:  "ok",
		Version: "test",
	}}})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got.Status)
}

func TestErrorResponseCarriesTraceID(t *testing.T) {
	srv := newTestServer(t, fixtures{prediction: &fakePrediction{err: frame.ErrEmptyInput}})

	resp, err := http.Get(srv.URL + "/api/v1/prediction")
	require.NoError(t, err)
	defer resp.Body.Close()

	var apiErr apierrors.APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.NotEmpty(t, apiErr.TraceID)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, fixtures{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/prediction", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
