// Package sequence groups timestamped capture files into contiguous runs.
//
// A sequence is a maximal run of captures where no two consecutive capture
// instants are further apart than a configurable gap tolerance. The default
// tolerance of 1h6m covers a nominal 60-minute capture cadence plus jitter.
package sequence

import (
	"sort"
	"time"

	"battmerge/internal/capture"
)

// DefaultMaxGap is the gap tolerance used when none is configured.
const DefaultMaxGap = 66 * time.Minute

// TimestampedFile pairs a capture instant with the filename it was parsed
// from. The instant is the ordering key; the filename rides along for I/O.
type TimestampedFile struct {
	Instant time.Time
	Name    string
}

// Sequence is an ordered, non-empty run of captures whose consecutive
// instants differ by at most the gap tolerance used to build it.
type Sequence []TimestampedFile

// Start returns the instant of the first capture in the sequence.
func (s Sequence) Start() time.Time { return s[0].Instant }

// End returns the instant of the last capture in the sequence.
func (s Sequence) End() time.Time { return s[len(s)-1].Instant }

// Group partitions filenames into contiguous sequences.
//
// Filenames that fail timestamp extraction (non-matching or malformed) are
// excluded and returned in the second value for diagnostics. The remaining
// files are stable-sorted ascending by instant, then split wherever the gap
// between consecutive instants exceeds maxGap. The gap is always measured
// against the immediately preceding file in sorted order, never against the
// sequence start.
//
// Empty input yields a nil slice. Files sharing an instant keep their input
// order.
func Group(names []string, maxGap time.Duration) ([]Sequence, []string) {
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}

	var files []TimestampedFile
	var skipped []string
	for _, name := range names {
		ts, matched, err := capture.ParseTimestamp(name)
		if !matched || err != nil {
			skipped = append(skipped, name)
			continue
		}
		files = append(files, TimestampedFile{Instant: ts, Name: name})
	}
	if len(files) == 0 {
		return nil, skipped
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Instant.Before(files[j].Instant)
	})

	var sequences []Sequence
	current := Sequence{files[0]}
	for _, f := range files[1:] {
		if f.Instant.Sub(current[len(current)-1].Instant) <= maxGap {
			current = append(current, f)
		} else {
			sequences = append(sequences, current)
			current = Sequence{f}
		}
	}
	sequences = append(sequences, current)

	return sequences, skipped
}
