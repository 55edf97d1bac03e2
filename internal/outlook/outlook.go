// Package outlook ranks each macroeconomic series' latest value
// against its own trailing history and aggregates the percentiles per
// dashboard category.
//
// The ranking is historical self-relative: a series is compared only
// with its own past, which makes units irrelevant and lets rates,
// levels, and spreads share one 0-100 scale.
package outlook

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"compass/internal/frame"
)

// DefaultLookbackYears is the trailing window used for percentile
// ranking.
const DefaultLookbackYears = 20

// NeutralScore is reported for a category with no scorable members.
const NeutralScore = 50

// SeriesScore is the result of ranking one series. Scored
// distinguishes a real percentile from "no usable observations in the
// window"; an unavailable series is excluded from its category's mean
// rather than counted as zero.
type SeriesScore struct {
	Scored     bool
	Percentile float64
}

// CategoryOutlook is the per-category aggregate served to the
// dashboard.
type CategoryOutlook struct {
	Series       []string `json:"series"`
	OutlookScore int      `json:"outlook_score"`
}

// Scorer computes outlook percentiles over a trailing window.
type Scorer struct {
	lookbackYears int
	logger        *slog.Logger
}

// NewScorer creates a scorer. lookbackYears <= 0 falls back to the
// default window.
func NewScorer(lookbackYears int, logger *slog.Logger) *Scorer {
	if lookbackYears <= 0 {
		lookbackYears = DefaultLookbackYears
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		lookbackYears: lookbackYears,
		logger:        logger.With(slog.String("component", "outlook")),
	}
}

// Score computes a CategoryOutlook for every category in membership.
// Series missing from the frame, or with no observations inside the
// window, contribute nothing; a category where every member is
// unavailable keeps the neutral default instead of failing.
func (s *Scorer) Score(lf frame.LongFrame, membership map[string][]string) map[string]CategoryOutlook {
	bySeries := make(map[string][]frame.Observation)
	for _, obs := range lf {
		bySeries[obs.SeriesID] = append(bySeries[obs.SeriesID], obs)
	}

	out := make(map[string]CategoryOutlook, len(membership))
	for category, members := range membership {
		var percentiles []float64
		for _, id := range members {
			score := s.SeriesPercentile(bySeries[id])
			if score.Scored {
				percentiles = append(percentiles, score.Percentile)
			}
		}

		score := NeutralScore
		if len(percentiles) > 0 {
			var sum float64
			for _, p := range percentiles {
				sum += p
			}
			score = int(math.Round(sum / float64(len(percentiles))))
		}
		out[category] = CategoryOutlook{Series: members, OutlookScore: score}

		s.logger.Debug("scored category",
			slog.String("category", category),
			slog.Int("members", len(members)),
			slog.Int("scored", len(percentiles)),
			slog.Int("outlook", score),
		)
	}
	return out
}

// SeriesPercentile ranks the chronologically last observation against
// all observations within the trailing window, the current one
// included. Percentile stays unrounded here; rounding happens once at
// category aggregation.
func (s *Scorer) SeriesPercentile(obs []frame.Observation) SeriesScore {
	if len(obs) == 0 {
		return SeriesScore{}
	}

	sorted := append([]frame.Observation(nil), obs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	last := sorted[len(sorted)-1]
	cutoff := last.Date.AddDate(-s.lookbackYears, 0, 0)

	var window []float64
	for _, o := range sorted {
		if !o.Date.Before(cutoff) {
			window = append(window, o.Value)
		}
	}
	if len(window) == 0 {
		return SeriesScore{}
	}

	current := window[len(window)-1]
	atOrBelow := 0
	for _, v := range window {
		if v <= current {
			atOrBelow++
		}
	}
	return SeriesScore{
		Scored:     true,
		Percentile: float64(atOrBelow) / float64(len(window)) * 100,
	}
}

// WindowStart returns the earliest date the scorer will consider,
// anchored at now. Used by callers to bound the store query.
func (s *Scorer) WindowStart(now time.Time) time.Time {
	return now.AddDate(-s.lookbackYears, 0, 0)
}
