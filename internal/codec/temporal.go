// Package codec converts between raw store documents and strict domain
// entities: instant conversion, absence stripping, and the field decoding
// engine the per-entity readers are built on.
package codec

import (
	"fmt"
	"time"

	"amani/internal/document"
)

// millisEpochCutoff separates numeric epochs in seconds from epochs in
// milliseconds. Anything at or above it (≈ Sep 2001 in millis) is millis.
const millisEpochCutoff = 1e12

// ToInstant interprets any of the instant shapes a stored document can
// carry and returns the native time. The second return is false when the
// value is absent (nil or the absence marker); an unrecognized shape is an
// error.
//
// Already-converted time.Time values pass through unchanged, so applying
// ToInstant to its own output is safe: shared helpers sometimes receive
// values that were converted upstream.
func ToInstant(raw any) (time.Time, bool, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case document.Timestamp:
		return v.Time(), true, nil
	case map[string]any:
		return instantFromMap(v)
	case document.Document:
		return instantFromMap(v)
	case int:
		return instantFromEpoch(float64(v)), true, nil
	case int64:
		return instantFromEpoch(float64(v)), true, nil
	case float64:
		return instantFromEpoch(v), true, nil
	case string:
		return instantFromString(v)
	default:
		if document.IsAbsent(raw) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("cannot interpret %T as an instant", raw)
	}
}

// ToTimestamp converts a native instant into the store representation. It
// is total over valid instants; absence is expressed by omitting the field
// and a caller-intended clear by writing an explicit null, never through
// this function.
func ToTimestamp(t time.Time) document.Timestamp {
	return document.TimestampOf(t)
}

// OptionalTimestamp maps a possibly-nil instant to either a store timestamp
// or the absence marker, which the sanitizer strips before the write.
func OptionalTimestamp(t *time.Time) any {
	if t == nil {
		return document.Absent
	}
	return ToTimestamp(*t)
}

func instantFromMap(m map[string]any) (time.Time, bool, error) {
	seconds, okSec := numeric(m["seconds"])
	if !okSec {
		seconds, okSec = numeric(m["_seconds"])
	}
	nanos, okNanos := numeric(m["nanoseconds"])
	if !okNanos {
		nanos, okNanos = numeric(m["_nanoseconds"])
	}
	if !okSec || !okNanos {
		return time.Time{}, false, fmt.Errorf("map is not a {seconds, nanoseconds} instant")
	}
	ms := seconds*1000 + nanos/1e6
	return time.UnixMilli(int64(ms)).UTC(), true, nil
}

func instantFromEpoch(n float64) time.Time {
	if n >= millisEpochCutoff {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

func instantFromString(s string) (time.Time, bool, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q as an instant", s)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
