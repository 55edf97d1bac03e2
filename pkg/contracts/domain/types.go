// Package domain defines the dashboard-facing data contracts shared
// by the service layer and the HTTP transport.
package domain

// Observation is one dated value in a series payload.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesPayload is the drill-down response for a single series:
// metadata plus its observations.
type SeriesPayload struct {
	SeriesID     string        `json:"seriesId"`
	Name         string        `json:"name"`
	Frequency    string        `json:"frequency"`
	Units        string        `json:"units"`
	Category     string        `json:"category"`
	Citation     string        `json:"citation"`
	Count        int           `json:"count"`
	Observations []Observation `json:"series"`
}

// SeriesListItem is one entry in the series catalog listing.
type SeriesListItem struct {
	SeriesID  string `json:"seriesId"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Units     string `json:"units"`
	Category  string `json:"category"`
}

// CategoryOutlook is one dashboard category with its outlook
// percentile.
type CategoryOutlook struct {
	Series       []string `json:"series"`
	OutlookScore int      `json:"outlook_score"`
}

// Contributor is one feature's contribution to the recession score.
type Contributor struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Attribution float64 `json:"attribution"`
}

// PredictionResult is the live recession prediction: the dial score in
// percentage units plus the strongest contributing features. An empty
// contributor list means no attribution was available, which is
// distinct from the prediction itself having failed.
type PredictionResult struct {
	Date         string        `json:"date"`
	Score        float64       `json:"score"`
	Contributors []Contributor `json:"contributors"`
}

// HistoryPoint is one month of the precomputed prediction history.
type HistoryPoint struct {
	Date        string  `json:"date"`
	Prob        float64 `json:"prob"`
	IsRecession int     `json:"is_recession"`
}

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services,omitempty"`
}
