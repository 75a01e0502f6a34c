// Package chart renders per-sequence cell-voltage charts from a combined
// capture table: a per-cell line plot over a mean-resampled timeline and a
// cross-cell statistics chart.
package chart

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"battmerge/internal/table"
)

// timeLayouts are tried in order when coercing timestamp cells. Instrument
// exports are inconsistent about their timestamp rendering.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"20060102150405",
	"01-02-06 15:04:05",
}

func parseCellTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseCellFloat coerces a cell to float64, NaN when it is empty or not
// numeric. Thousands separators are tolerated.
func parseCellFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// detectTimeColumn returns the index of the configured timestamp column, or
// of the first column holding at least one parseable timestamp. -1 when none.
func detectTimeColumn(t *table.Table, configured string) int {
	if configured != "" {
		return t.ColumnIndex(configured)
	}
	for j := range t.Columns {
		for i := 0; i < t.NumRows(); i++ {
			if _, ok := parseCellTime(t.Cell(i, j)); ok {
				return j
			}
		}
	}
	return -1
}

// selectColumns returns indices of columns whose names contain the match
// substring, case-insensitively.
func selectColumns(t *table.Table, match string) []int {
	match = strings.ToLower(match)
	var cols []int
	for j, name := range t.Columns {
		if strings.Contains(strings.ToLower(name), match) {
			cols = append(cols, j)
		}
	}
	return cols
}

// resampled holds one column's mean-aggregated values over the shared bin
// timeline. Bins without a sample for the column are NaN.
type resampled struct {
	name   string
	values []float64
}

// resample bins every selected column's samples into fixed intervals and
// mean-aggregates each bin. The returned bin times are ascending and shared
// by all columns.
func resample(t *table.Table, timeCol int, cols []int, interval time.Duration) ([]time.Time, []resampled) {
	type acc struct {
		sum   float64
		count int
	}
	binsByCol := make([]map[time.Time]*acc, len(cols))
	for i := range binsByCol {
		binsByCol[i] = make(map[time.Time]*acc)
	}
	binSet := make(map[time.Time]struct{})

	for i := 0; i < t.NumRows(); i++ {
		ts, ok := parseCellTime(t.Cell(i, timeCol))
		if !ok {
			continue
		}
		bin := ts.Truncate(interval)
		binSet[bin] = struct{}{}
		for ci, j := range cols {
			v := parseCellFloat(t.Cell(i, j))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			a := binsByCol[ci][bin]
			if a == nil {
				a = &acc{}
				binsByCol[ci][bin] = a
			}
			a.sum += v
			a.count++
		}
	}
	if len(binSet) == 0 {
		return nil, nil
	}

	bins := make([]time.Time, 0, len(binSet))
	for b := range binSet {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Before(bins[j]) })

	series := make([]resampled, len(cols))
	for ci, j := range cols {
		values := make([]float64, len(bins))
		for bi, b := range bins {
			if a := binsByCol[ci][b]; a != nil && a.count > 0 {
				values[bi] = a.sum / float64(a.count)
			} else {
				values[bi] = math.NaN()
			}
		}
		series[ci] = resampled{name: t.Columns[j], values: values}
	}
	return bins, series
}

// hasPositiveFinite reports whether any value is finite and > 0.
func hasPositiveFinite(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
			return true
		}
	}
	return false
}
