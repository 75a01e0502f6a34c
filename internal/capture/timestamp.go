// Package capture parses capture metadata out of instrument export filenames.
//
// Battery-monitor exports are named by capture timestamp, e.g.
// "20240101090000-00.xlsx". The 14 leading digits encode the capture
// instant as YYYYMMDDHHMMSS; the suffix after the dash is a per-capture
// index and carries no timing information.
package capture

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// TimestampLayout is the wire format of the 14-digit capture timestamp.
const TimestampLayout = "20060102150405"

// filenameRe matches capture export filenames like "20240101090000-00.xlsx".
var filenameRe = regexp.MustCompile(`^(\d{14})-\d+\.xlsx?$`)

// ErrMalformedTimestamp indicates a filename that matches the capture
// pattern but whose digits do not decode to a valid calendar instant
// (month 13, hour 25 and so on).
var ErrMalformedTimestamp = errors.New("malformed capture timestamp")

// ParseTimestamp extracts the capture instant from a filename.
//
// The second return reports whether the name matched the capture pattern
// at all. Non-matching names return (zero, false, nil): they are simply
// not captures, which is not an error. Matching names with an invalid
// calendar decode return (zero, true, err) with err wrapping
// ErrMalformedTimestamp.
func ParseTimestamp(filename string) (time.Time, bool, error) {
	m := filenameRe.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false, nil
	}

	ts, err := time.Parse(TimestampLayout, m[1])
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %s: %v", ErrMalformedTimestamp, filename, err)
	}
	return ts, true, nil
}

// IsCaptureFilename reports whether a name matches the capture export
// pattern, without decoding the timestamp.
func IsCaptureFilename(filename string) bool {
	return filenameRe.MatchString(filename)
}
