// Package pipeline orchestrates a battmerge run over a directory of
// timestamped capture exports.
//
// A run proceeds in one pass: discover capture files, group them into
// contiguous time-sequences, then for each sequence load every member
// workbook, concatenate the tables, write the combined workbook, and render
// its voltage charts. Everything is sequential and synchronous; there is no
// concurrent file access and no background work.
//
// Failure policy follows "report and continue": an unreadable capture file
// is dropped from its sequence, a sequence with no readable members is
// skipped, and a failed workbook write skips that sequence's charts but not
// the remaining sequences. Only a missing input directory aborts the run.
//
// Example usage:
//
//	runner := pipeline.NewRunner(cfg, logger)
//	summary, err := runner.Run(ctx, "record/00", "record/processed")
//	if err != nil {
//	    // input directory missing or output directory uncreatable
//	}
//	fmt.Println(summary.SequencesWritten)
package pipeline
