package frame

import (
	"log/slog"
	"sort"
	"time"
)

// YoYSuffix is appended to level series names after the year-over-year
// transform.
const YoYSuffix = "_YoY"

// yoyLag is the number of monthly periods consumed by the
// year-over-year transform.
const yoyLag = 12

// Shaper converts long-format observations into a wide monthly matrix
// matching a target feature schema.
type Shaper struct {
	levelSeries map[string]bool
	logger      *slog.Logger
}

// NewShaper creates a shaper. Series named in levelSeries are treated
// as absolute levels and converted to year-over-year growth rates.
func NewShaper(levelSeries []string, logger *slog.Logger) *Shaper {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]bool, len(levelSeries))
	for _, id := range levelSeries {
		set[id] = true
	}
	return &Shaper{
		levelSeries: set,
		logger:      logger.With(slog.String("component", "shaper")),
	}
}

// Shape runs the full pipeline and aligns the result to schema: the
// output columns are exactly schema, in schema order. Columns the
// schema requires but the data never produced are zero-filled;
// columns outside the schema are dropped.
func (s *Shaper) Shape(lf LongFrame, schema []string) (*Matrix, error) {
	monthly, err := s.Monthly(lf)
	if err != nil {
		return nil, err
	}
	return Align(monthly, schema), nil
}

// Monthly runs pivot, month-end resample, forward fill, and the
// year-over-year transform, but leaves columns unaligned. Useful when
// the caller needs columns outside the model schema, such as the
// realized recession indicator.
func (s *Shaper) Monthly(lf LongFrame) (*Matrix, error) {
	wide, err := pivot(lf)
	if err != nil {
		return nil, err
	}

	monthly := resampleMonthEnd(wide)
	forwardFill(monthly)
	s.applyYoY(monthly)

	s.logger.Debug("shaped long frame",
		slog.Int("observations", len(lf)),
		slog.Int("months", monthly.NumRows()),
		slog.Int("columns", len(monthly.Columns)),
	)
	return monthly, nil
}

// pivot converts the long frame to wide form with one row per distinct
// date and one column per series, sorted ascending by date. Duplicate
// (series, date) keys make the pivot ambiguous and fail with a
// ShapeError.
func pivot(lf LongFrame) (*Matrix, error) {
	if len(lf) == 0 {
		return nil, ErrEmptyInput
	}

	cells := make(map[string]map[string]float64)
	dateSet := make(map[string]struct{})
	colSet := make(map[string]struct{})

	for _, obs := range lf {
		key := normalizeDate(obs.Date).Format("2006-01-02")
		byCol, ok := cells[key]
		if !ok {
			byCol = make(map[string]float64, 4)
			cells[key] = byCol
			dateSet[key] = struct{}{}
		}
		if _, dup := byCol[obs.SeriesID]; dup {
			return nil, &ShapeError{
				SeriesID: obs.SeriesID,
				Date:     normalizeDate(obs.Date),
				Reason:   "duplicate (series, date) pair",
			}
		}
		byCol[obs.SeriesID] = obs.Value
		colSet[obs.SeriesID] = struct{}{}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	m := &Matrix{
		Dates:   make([]time.Time, len(dates)),
		Columns: cols,
		Data:    make([][]float64, len(dates)),
	}
	for i, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, &ShapeError{Reason: "unparseable date " + d}
		}
		m.Dates[i] = t
		row := make([]float64, len(cols))
		for j, c := range cols {
			if v, ok := cells[d][c]; ok {
				row[j] = v
			} else {
				row[j] = Missing()
			}
		}
		m.Data[i] = row
	}
	return m, nil
}

// resampleMonthEnd collapses the matrix to one row per calendar month,
// labeled with the month-end date. Each cell takes the last observed
// value within its month; months with no observation for a column stay
// missing. The monthly index is contiguous from the first to the last
// observed month, so sparse series cannot silently skip months.
func resampleMonthEnd(m *Matrix) *Matrix {
	if m.NumRows() == 0 {
		return m
	}

	first := monthEnd(m.Dates[0])
	last := monthEnd(m.Dates[m.NumRows()-1])

	var months []time.Time
	for t := first; !t.After(last); t = monthEnd(t.AddDate(0, 0, 1)) {
		months = append(months, t)
	}

	out := &Matrix{
		Dates:   months,
		Columns: m.Columns,
		Data:    make([][]float64, len(months)),
	}
	for i := range out.Data {
		row := make([]float64, len(m.Columns))
		for j := range row {
			row[j] = Missing()
		}
		out.Data[i] = row
	}

	monthIdx := make(map[string]int, len(months))
	for i, t := range months {
		monthIdx[t.Format("2006-01")] = i
	}

	// Input rows are date-ordered, so later writes within a month win.
	for i, date := range m.Dates {
		ri := monthIdx[monthEnd(date).Format("2006-01")]
		for j, v := range m.Data[i] {
			if !IsMissing(v) {
				out.Data[ri][j] = v
			}
		}
	}
	return out
}

// forwardFill propagates the last seen value down each column. Leading
// gaps before a column's first observation stay missing.
func forwardFill(m *Matrix) {
	for j := range m.Columns {
		prev := Missing()
		for i := range m.Data {
			if IsMissing(m.Data[i][j]) {
				m.Data[i][j] = prev
			} else {
				prev = m.Data[i][j]
			}
		}
	}
}

// applyYoY replaces each level column with its 12-month percentage
// change under <name>_YoY. The first 12 entries are undefined and stay
// missing, never zero.
func (s *Shaper) applyYoY(m *Matrix) {
	var keepCols []string
	var keepIdx []int
	var yoyCols []string
	var yoyIdx []int

	for j, name := range m.Columns {
		if s.levelSeries[name] {
			yoyCols = append(yoyCols, name+YoYSuffix)
			yoyIdx = append(yoyIdx, j)
		} else {
			keepCols = append(keepCols, name)
			keepIdx = append(keepIdx, j)
		}
	}
	if len(yoyCols) == 0 {
		return
	}

	n := m.NumRows()
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, len(keepIdx)+len(yoyIdx))
		for _, j := range keepIdx {
			row = append(row, m.Data[i][j])
		}
		for _, j := range yoyIdx {
			row = append(row, pctChange(m, i, j))
		}
		data[i] = row
	}

	m.Columns = append(keepCols, yoyCols...)
	m.Data = data
}

// pctChange computes (v[i] - v[i-12]) / v[i-12] for column j, or
// missing when the lagged value is absent or zero.
func pctChange(m *Matrix, i, j int) float64 {
	if i < yoyLag {
		return Missing()
	}
	cur := m.Data[i][j]
	base := m.Data[i-yoyLag][j]
	if IsMissing(cur) || IsMissing(base) || base == 0 {
		return Missing()
	}
	return (cur - base) / base
}

// Align reindexes the matrix columns to exactly schema, in schema
// order. A required column absent from the matrix is added with a
// neutral zero fill, matching how the model was trained on reindexed
// input.
func Align(m *Matrix, schema []string) *Matrix {
	out := &Matrix{
		Dates:   m.Dates,
		Columns: append([]string(nil), schema...),
		Data:    make([][]float64, m.NumRows()),
	}

	src := make([]int, len(schema))
	for k, name := range schema {
		src[k] = m.ColumnIndex(name)
	}

	for i := range m.Data {
		row := make([]float64, len(schema))
		for k, j := range src {
			if j < 0 {
				row[k] = 0
			} else {
				row[k] = m.Data[i][j]
			}
		}
		out.Data[i] = row
	}
	return out
}
