package chart

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"battmerge/internal/config"
	"battmerge/internal/table"
)

// Renderer produces the per-sequence voltage charts. Each call builds its
// own chart values and buffers; there is no shared figure state.
type Renderer struct {
	cfg    config.ChartConfig
	logger *slog.Logger
}

// NewRenderer creates a renderer with the given chart configuration.
func NewRenderer(cfg config.ChartConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// RenderSequenceCharts writes the voltage line plot and statistics chart
// for a combined table next to outputStem ("<stem>_voltage_plot.png" and
// "<stem>_voltage_stats.png").
//
// Missing timestamp column, no matching voltage columns, or no plottable
// data are quiet skips, not errors. A real render or write failure is
// returned; callers must not let it override the sequence's write outcome.
func (r *Renderer) RenderSequenceCharts(t *table.Table, outputStem string) error {
	timeCol := detectTimeColumn(t, r.cfg.TimeColumn)
	if timeCol < 0 {
		r.logger.Debug("no timestamp column found, skipping charts",
			slog.String("output_stem", outputStem))
		return nil
	}
	cols := selectColumns(t, r.cfg.ColumnMatch)
	if len(cols) == 0 {
		r.logger.Debug("no voltage columns matched, skipping charts",
			slog.String("output_stem", outputStem),
			slog.String("column_match", r.cfg.ColumnMatch))
		return nil
	}

	bins, series := resample(t, timeCol, cols, r.cfg.ResampleInterval.Std())
	if len(bins) == 0 {
		r.logger.Debug("no timestamped rows to chart",
			slog.String("output_stem", outputStem))
		return nil
	}

	if err := r.renderVoltagePlot(bins, series, outputStem+"_voltage_plot.png"); err != nil {
		return err
	}
	return r.renderStatsChart(bins, series, outputStem+"_voltage_stats.png")
}

// renderVoltagePlot draws one line per voltage column over the resampled
// timeline. Columns with no positive finite sample are left out.
func (r *Renderer) renderVoltagePlot(bins []time.Time, series []resampled, path string) error {
	var plotted []chart.Series
	for i, s := range series {
		if !hasPositiveFinite(s.values) {
			continue
		}
		xs, ys := compactSeries(bins, s.values)
		padSinglePoint(&xs, &ys, r.cfg.ResampleInterval.Std())
		plotted = append(plotted, chart.TimeSeries{
			Name:    s.name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 1.5,
			},
		})
	}
	if len(plotted) == 0 {
		r.logger.Debug("no voltage column has positive data, skipping plot",
			slog.String("path", path))
		return nil
	}

	ch := chart.Chart{
		Title:  "Cell Voltage",
		Width:  r.cfg.Width,
		Height: r.cfg.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: "Time"},
		YAxis:  chart.YAxis{Name: "Voltage"},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderPNG(ch, path)
}

// renderStatsChart draws the cross-cell mean/min/max lines, with the spread
// (max minus min) on the secondary axis. Only bins where at least one cell
// has a valid value contribute.
func (r *Renderer) renderStatsChart(bins []time.Time, series []resampled, path string) error {
	var xs []time.Time
	var means, mins, maxs, spreads []float64
	for bi, b := range bins {
		var valid []float64
		for _, s := range series {
			v := s.values[bi]
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				valid = append(valid, v)
			}
		}
		if len(valid) == 0 {
			continue
		}
		sum, mn, mx := 0.0, valid[0], valid[0]
		for _, v := range valid {
			sum += v
			if v < mn {
				mn = v
			}
			if v > mx {
				mx = v
			}
		}
		xs = append(xs, b)
		means = append(means, sum/float64(len(valid)))
		mins = append(mins, mn)
		maxs = append(maxs, mx)
		spreads = append(spreads, mx-mn)
	}
	if len(xs) == 0 {
		r.logger.Debug("no valid bins for stats chart", slog.String("path", path))
		return nil
	}
	padSinglePointAll(&xs, r.cfg.ResampleInterval.Std(), &means, &mins, &maxs, &spreads)

	ch := chart.Chart{
		Title:  "Cell Voltage Statistics",
		Width:  r.cfg.Width,
		Height: r.cfg.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:          chart.XAxis{Name: "Time"},
		YAxis:          chart.YAxis{Name: "Voltage"},
		YAxisSecondary: chart.YAxis{Name: "Spread"},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Mean",
				XValues: xs,
				YValues: means,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Min",
				XValues: xs,
				YValues: mins,
				Style: chart.Style{
					StrokeColor:     chart.ColorAlternateGray,
					StrokeWidth:     1,
					StrokeDashArray: []float64{4, 2},
				},
			},
			chart.TimeSeries{
				Name:    "Max",
				XValues: xs,
				YValues: maxs,
				Style: chart.Style{
					StrokeColor:     chart.ColorAlternateGray,
					StrokeWidth:     1,
					StrokeDashArray: []float64{4, 2},
				},
			},
			chart.TimeSeries{
				Name:    "Spread",
				XValues: xs,
				YValues: spreads,
				YAxis:   chart.YAxisSecondary,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 1.5},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderPNG(ch, path)
}

// compactSeries drops NaN bins from one column's resampled values so the
// line only connects real samples.
func compactSeries(bins []time.Time, values []float64) ([]time.Time, []float64) {
	var xs []time.Time
	var ys []float64
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, bins[i])
		ys = append(ys, v)
	}
	return xs, ys
}

// padSinglePoint duplicates a lone point one interval later; go-chart needs
// at least two X values to establish a range.
func padSinglePoint(xs *[]time.Time, ys *[]float64, interval time.Duration) {
	if len(*xs) != 1 {
		return
	}
	*xs = append(*xs, (*xs)[0].Add(interval))
	*ys = append(*ys, (*ys)[0])
}

func padSinglePointAll(xs *[]time.Time, interval time.Duration, series ...*[]float64) {
	if len(*xs) != 1 {
		return
	}
	*xs = append(*xs, (*xs)[0].Add(interval))
	for _, s := range series {
		*s = append(*s, (*s)[0])
	}
}

func renderPNG(ch chart.Chart, path string) error {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}
	return nil
}
