package frame

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput indicates the long frame held no observations after
// filtering. Callers must surface this as "unavailable", never as a
// numeric score.
var ErrEmptyInput = errors.New("empty input frame")

// ShapeError indicates a malformed long frame that cannot be pivoted
// unambiguously, such as duplicate (series, date) keys.
type ShapeError struct {
	SeriesID string
	Date     time.Time
	Reason   string
}

func (e *ShapeError) Error() string {
	if e.SeriesID != "" {
		return fmt.Sprintf("shape: %s (series=%s date=%s)",
			e.Reason, e.SeriesID, e.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("shape: %s", e.Reason)
}
