package frame

import (
	"math"
	"time"
)

// Observation is a single dated value for one series. The store only
// returns observations that carry a value; absence is represented by
// the observation simply not existing.
type Observation struct {
	SeriesID string    `json:"series_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// LongFrame is a long-format collection of observations, the sole
// input to the shaper.
type LongFrame []Observation

// SeriesIDs returns the distinct series identifiers present in the
// frame, in first-seen order.
func (lf LongFrame) SeriesIDs() []string {
	seen := make(map[string]bool, 8)
	var ids []string
	for _, obs := range lf {
		if !seen[obs.SeriesID] {
			seen[obs.SeriesID] = true
			ids = append(ids, obs.SeriesID)
		}
	}
	return ids
}

// Matrix is a wide, date-indexed numeric matrix. Rows are ascending by
// date, columns are named, and missing cells are NaN.
type Matrix struct {
	Dates   []time.Time
	Columns []string
	Data    [][]float64
}

// Missing is the cell value used for absent observations.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a cell holds no value.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// NumRows returns the number of date rows.
func (m *Matrix) NumRows() int { return len(m.Dates) }

// ColumnIndex returns the position of the named column, or -1.
func (m *Matrix) ColumnIndex(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Row returns the feature vector at row i. The slice aliases the
// matrix storage; callers that mutate it must copy first.
func (m *Matrix) Row(i int) []float64 { return m.Data[i] }

// LatestRow returns the chronologically last row and its date.
func (m *Matrix) LatestRow() (time.Time, []float64) {
	last := len(m.Dates) - 1
	return m.Dates[last], m.Data[last]
}

// RowComplete reports whether row i has a value in every column.
func (m *Matrix) RowComplete(i int) bool {
	for _, v := range m.Data[i] {
		if IsMissing(v) {
			return false
		}
	}
	return true
}

// Column returns a copy of the named column, or nil if absent.
func (m *Matrix) Column(name string) []float64 {
	idx := m.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(m.Data))
	for i, row := range m.Data {
		out[i] = row[idx]
	}
	return out
}

// monthEnd returns the last calendar day of t's month, normalized to
// midnight UTC.
func monthEnd(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// normalizeDate strips any time-of-day component.
func normalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
