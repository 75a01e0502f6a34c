package chart

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battmerge/internal/config"
	"battmerge/internal/table"
)

func testChartConfig() config.ChartConfig {
	return config.ChartConfig{
		Enabled:          true,
		ColumnMatch:      "voltage",
		ResampleInterval: config.Duration(30 * time.Second),
		Width:            640,
		Height:           360,
	}
}

func voltageTable() *table.Table {
	return &table.Table{
		Columns: []string{"Time", "Cell Voltage 1", "Cell Voltage 2", "Current"},
		Rows: [][]string{
			{"2024-01-01 09:00:05", "3.70", "3.65", "1.2"},
			{"2024-01-01 09:00:15", "3.72", "3.67", "1.2"},
			{"2024-01-01 09:00:40", "3.74", "3.69", "1.3"},
			{"2024-01-01 09:01:10", "3.76", "bad", "1.3"},
		},
	}
}

func TestDetectTimeColumn(t *testing.T) {
	tbl := voltageTable()
	assert.Equal(t, 0, detectTimeColumn(tbl, ""))
	assert.Equal(t, 0, detectTimeColumn(tbl, "Time"))
	assert.Equal(t, -1, detectTimeColumn(tbl, "Missing"))

	noTimes := &table.Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"x", "y"}},
	}
	assert.Equal(t, -1, detectTimeColumn(noTimes, ""))
}

func TestSelectColumns(t *testing.T) {
	tbl := voltageTable()
	assert.Equal(t, []int{1, 2}, selectColumns(tbl, "voltage"))
	assert.Equal(t, []int{1, 2}, selectColumns(tbl, "VOLTAGE"))
	assert.Empty(t, selectColumns(tbl, "temperature"))
}

func TestResampleMeanBins(t *testing.T) {
	tbl := voltageTable()
	bins, series := resample(tbl, 0, []int{1, 2}, 30*time.Second)

	// 09:00:05 and 09:00:15 share the 09:00:00 bin; 09:00:40 is in
	// 09:00:30; 09:01:10 is in 09:01:00.
	require.Len(t, bins, 3)
	assert.True(t, bins[0].Before(bins[1]) && bins[1].Before(bins[2]))

	require.Len(t, series, 2)
	v1 := series[0]
	assert.Equal(t, "Cell Voltage 1", v1.name)
	assert.InDelta(t, (3.70+3.72)/2, v1.values[0], 1e-9)
	assert.InDelta(t, 3.74, v1.values[1], 1e-9)
	assert.InDelta(t, 3.76, v1.values[2], 1e-9)

	// "bad" coerces to NaN and drops out of its bin, leaving it empty for
	// that column.
	v2 := series[1]
	assert.InDelta(t, (3.65+3.67)/2, v2.values[0], 1e-9)
	assert.InDelta(t, 3.69, v2.values[1], 1e-9)
	assert.True(t, math.IsNaN(v2.values[2]))
}

func TestResampleNoTimestampedRows(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"Time", "Cell Voltage 1"},
		Rows:    [][]string{{"junk", "3.7"}},
	}
	bins, series := resample(tbl, 0, []int{1}, 30*time.Second)
	assert.Nil(t, bins)
	assert.Nil(t, series)
}

func TestHasPositiveFinite(t *testing.T) {
	assert.True(t, hasPositiveFinite([]float64{math.NaN(), 0.5}))
	assert.False(t, hasPositiveFinite([]float64{math.NaN(), -1, 0}))
	assert.False(t, hasPositiveFinite([]float64{math.Inf(1)}))
	assert.False(t, hasPositiveFinite(nil))
}

func TestParseCellFloat(t *testing.T) {
	assert.InDelta(t, 3.7, parseCellFloat(" 3.7 "), 1e-9)
	assert.InDelta(t, 1234.5, parseCellFloat("1,234.5"), 1e-9)
	assert.True(t, math.IsNaN(parseCellFloat("")))
	assert.True(t, math.IsNaN(parseCellFloat("n/a")))
}

func TestRenderSequenceChartsWritesBothPNGs(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "sequence_1_20240101090000_to_20240101090100")

	r := NewRenderer(testChartConfig(), slog.Default())
	require.NoError(t, r.RenderSequenceCharts(voltageTable(), stem))

	for _, suffix := range []string{"_voltage_plot.png", "_voltage_stats.png"} {
		info, err := os.Stat(stem + suffix)
		require.NoError(t, err, "expected %s", suffix)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderSequenceChartsSkipsWithoutData(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "sequence_1")
	r := NewRenderer(testChartConfig(), slog.Default())

	// No timestamp column at all.
	noTime := &table.Table{Columns: []string{"A"}, Rows: [][]string{{"x"}}}
	require.NoError(t, r.RenderSequenceCharts(noTime, stem))

	// Timestamps but no matching voltage columns.
	noVolt := &table.Table{
		Columns: []string{"Time", "Current"},
		Rows:    [][]string{{"2024-01-01 09:00:00", "1.2"}},
	}
	require.NoError(t, r.RenderSequenceCharts(noVolt, stem))

	// Voltage columns with only non-positive values: plot skipped.
	nonPositive := &table.Table{
		Columns: []string{"Time", "Cell Voltage 1"},
		Rows:    [][]string{{"2024-01-01 09:00:00", "0"}},
	}
	require.NoError(t, r.RenderSequenceCharts(nonPositive, stem))
	_, err := os.Stat(stem + "_voltage_plot.png")
	assert.True(t, os.IsNotExist(err))
}

func TestRenderSinglePointSequence(t *testing.T) {
	// One timestamped row collapses into a single bin; rendering must still
	// succeed via the single-point padding.
	dir := t.TempDir()
	stem := filepath.Join(dir, "sequence_1")
	tbl := &table.Table{
		Columns: []string{"Time", "Cell Voltage 1"},
		Rows:    [][]string{{"2024-01-01 09:00:00", "3.7"}},
	}

	r := NewRenderer(testChartConfig(), slog.Default())
	require.NoError(t, r.RenderSequenceCharts(tbl, stem))

	_, err := os.Stat(stem + "_voltage_plot.png")
	assert.NoError(t, err)
}
