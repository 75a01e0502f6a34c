package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"battmerge/internal/capture"
	"battmerge/internal/chart"
	"battmerge/internal/config"
	"battmerge/internal/files"
	"battmerge/internal/sequence"
	"battmerge/internal/table"
)

// ErrInputDirMissing indicates the input directory does not exist or is not
// a directory. It is the one condition that aborts a run outright.
var ErrInputDirMissing = errors.New("input directory missing")

// Summary accounts for the outcome of one run.
type Summary struct {
	FilesDiscovered  int
	FilesLoaded      int
	FilesFailed      int
	SequencesTotal   int
	SequencesWritten int
	SequencesSkipped int
	RowsWritten      int
}

// Runner executes battmerge runs. Every run is fully sequential: one file,
// one sequence at a time, synchronous I/O throughout.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *chart.Renderer
}

// NewRunner creates a runner from the application configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		renderer: chart.NewRenderer(cfg.Chart, logger),
	}
}

// Run processes every capture sequence found in inputDir and writes the
// combined workbooks (and charts) into outputDir.
//
// Per-file and per-sequence failures are logged and absorbed into the
// Summary; only a missing input directory or an uncreatable output
// directory is returned as an error.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputDirMissing, inputDir)
	}
	if err := files.EnsureDirectory(outputDir); err != nil {
		return nil, err
	}

	discovered, err := files.FindCaptureFiles(inputDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{FilesDiscovered: len(discovered)}

	names := make([]string, len(discovered))
	for i, f := range discovered {
		names[i] = f.Name
	}
	sequences, skipped := sequence.Group(names, r.cfg.Batch.MaxGap.Std())
	for _, name := range skipped {
		summary.FilesFailed++
		r.logger.WarnContext(ctx, "skipping file with unusable timestamp",
			slog.String("file", name))
	}
	summary.SequencesTotal = len(sequences)

	r.logger.InfoContext(ctx, "grouped capture files",
		slog.Int("files", len(discovered)),
		slog.Int("sequences", len(sequences)),
		slog.Duration("max_gap", r.cfg.Batch.MaxGap.Std()))

	for i, seq := range sequences {
		r.processSequence(ctx, seq, i+1, inputDir, outputDir, summary)
	}

	r.logger.InfoContext(ctx, "run complete",
		slog.Int("files_discovered", summary.FilesDiscovered),
		slog.Int("files_loaded", summary.FilesLoaded),
		slog.Int("files_failed", summary.FilesFailed),
		slog.Int("sequences_written", summary.SequencesWritten),
		slog.Int("sequences_skipped", summary.SequencesSkipped),
		slog.Int("rows_written", summary.RowsWritten))

	return summary, nil
}

func (r *Runner) processSequence(ctx context.Context, seq sequence.Sequence, idx int, inputDir, outputDir string, summary *Summary) {
	var tables []*table.Table
	for _, f := range seq {
		t, err := table.Load(filepath.Join(inputDir, f.Name))
		if err != nil {
			summary.FilesFailed++
			r.logger.WarnContext(ctx, "failed to read capture file",
				slog.String("file", f.Name),
				slog.Int("sequence", idx),
				slog.String("error", err.Error()))
			continue
		}
		summary.FilesLoaded++
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		summary.SequencesSkipped++
		r.logger.WarnContext(ctx, "no valid data found for sequence",
			slog.Int("sequence", idx),
			slog.Int("files", len(seq)))
		return
	}

	combined := table.Concat(tables)
	outputName := fmt.Sprintf("sequence_%d_%s_to_%s.xlsx",
		idx,
		seq.Start().Format(capture.TimestampLayout),
		seq.End().Format(capture.TimestampLayout))
	outputPath := filepath.Join(outputDir, outputName)

	if err := table.Write(combined, outputPath); err != nil {
		summary.SequencesSkipped++
		r.logger.ErrorContext(ctx, "failed to write combined workbook",
			slog.Int("sequence", idx),
			slog.String("output", outputName),
			slog.String("error", err.Error()))
		return
	}
	summary.SequencesWritten++
	summary.RowsWritten += combined.NumRows()

	r.logger.InfoContext(ctx, "created sequence workbook",
		slog.Int("sequence", idx),
		slog.String("output", outputName),
		slog.Int("files", len(seq)),
		slog.Int("records", combined.NumRows()))

	if !r.cfg.Chart.Enabled {
		return
	}
	// Chart failures never undo the recorded write success.
	stem := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	if err := r.renderer.RenderSequenceCharts(combined, stem); err != nil {
		r.logger.WarnContext(ctx, "failed to render sequence charts",
			slog.Int("sequence", idx),
			slog.String("error", err.Error()))
	}
}
