// Command battmerge batches timestamped battery-monitor exports into
// contiguous time-sequences, writes one combined workbook per sequence, and
// renders cell-voltage charts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"battmerge/internal/config"
	"battmerge/internal/infrastructure"
	"battmerge/internal/pipeline"
)

func main() {
	inDir := flag.String("in", "", "input directory containing capture .xlsx files")
	outDir := flag.String("out", "", "output directory for combined workbooks and charts")
	gap := flag.Duration("gap", 0, "max gap between captures in one sequence (default from config, 1h6m)")
	match := flag.String("match", "", "substring selecting voltage columns (default from config, \"voltage\")")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *inDir == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: battmerge -in <input dir> -out <output dir> [-gap 1h6m] [-match voltage] [-config file.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *gap != 0 {
		cfg.Batch.MaxGap = config.Duration(*gap)
	}
	if *match != "" {
		cfg.Chart.ColumnMatch = *match
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.InfoContext(ctx, "Starting capture merge",
		slog.String("run_id", runID),
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.Duration("max_gap", cfg.Batch.MaxGap.Std()))

	start := time.Now()
	runner := pipeline.NewRunner(cfg, logger)
	summary, err := runner.Run(ctx, *inDir, *outDir)
	if err != nil {
		if errors.Is(err, pipeline.ErrInputDirMissing) {
			logger.ErrorContext(ctx, "Input directory not found", "error", err)
		} else {
			logger.ErrorContext(ctx, "Run failed", "error", err)
		}
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Capture merge finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("sequences_written", summary.SequencesWritten),
		slog.Int("sequences_skipped", summary.SequencesSkipped),
		slog.Int("files_loaded", summary.FilesLoaded),
		slog.Int("files_failed", summary.FilesFailed),
		slog.Int("rows_written", summary.RowsWritten))
}
