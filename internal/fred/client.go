// Package fred is a minimal client for the St. Louis Fed FRED API,
// covering the two calls the fetcher needs: series metadata and
// series observations.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"compass/internal/config"
	"compass/internal/frame"
)

// SeriesInfo is the metadata FRED reports for one series.
type SeriesInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	FrequencyShort string `json:"frequency_short"`
	UnitsShort     string `json:"units_short"`
}

// Client talks to the FRED API with a shared rate limit. FRED returns
// missing observations as the literal value "."; the client drops
// them, so callers only ever see real values.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a client from configuration. The API key must be
// set; the fetcher refuses to start without one.
func NewClient(cfg config.FREDConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing FRED API key")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger.With(slog.String("component", "fred_client")),
	}, nil
}

// SeriesInfo fetches metadata for one series.
func (c *Client) SeriesInfo(ctx context.Context, seriesID string) (SeriesInfo, error) {
	var payload struct {
		Seriess []SeriesInfo `json:"seriess"`
	}
	if err := c.get(ctx, "/series", url.Values{"series_id": {seriesID}}, &payload); err != nil {
		return SeriesInfo{}, err
	}
	if len(payload.Seriess) == 0 {
		return SeriesInfo{}, fmt.Errorf("series %s not found", seriesID)
	}
	return payload.Seriess[0], nil
}

// Observations fetches the full observation history for one series,
// dropping entries FRED marks as missing.
func (c *Client) Observations(ctx context.Context, seriesID string) ([]frame.Observation, error) {
	var payload struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := c.get(ctx, "/series/observations", url.Values{"series_id": {seriesID}}, &payload); err != nil {
		return nil, err
	}

	obs := make([]frame.Observation, 0, len(payload.Observations))
	for _, raw := range payload.Observations {
		if raw.Value == "." || raw.Value == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad observation date %q: %w", seriesID, raw.Date, err)
		}
		value, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad observation value %q: %w", seriesID, raw.Value, err)
		}
		obs = append(obs, frame.Observation{SeriesID: seriesID, Date: date, Value: value})
	}
	return obs, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fred request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fred request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode fred response %s: %w", path, err)
	}
	return nil
}
