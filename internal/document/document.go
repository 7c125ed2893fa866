// Package document defines the store-facing document model and the Store
// interface every persistence backend implements.
//
// Documents are loosely typed maps; the strict domain types live in the
// entity packages and cross this boundary through internal/codec.
package document

import (
	"time"
)

// Collection names for every record type the console persists.
const (
	CollectionBeneficiaries = "beneficiaries"
	CollectionPrograms      = "programs"
	CollectionDonations     = "donations"
	CollectionGrants        = "grants"
	CollectionProjects      = "projects"
	CollectionPartners      = "partners"
	CollectionEvents        = "calendar_events"
)

// Document is a raw persisted record. Values are scalars, nested
// map[string]any objects, []any lists, Timestamp instants, nil (an explicit
// stored null) or Absent (never stored; stripped before any write).
type Document map[string]any

// Clone returns a deep copy so callers can mutate the result freely.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(d).(Document)
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case Document:
		out := make(Document, len(tv))
		for k, e := range tv {
			out[k] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// absentMarker is the unexported type behind Absent so no other value can
// accidentally compare equal to it.
type absentMarker struct{}

// Absent is the "no value provided" marker. The store cannot represent it:
// writers place it on optional fields they want omitted and the sanitizer
// strips it before the document reaches a driver. It is distinct from an
// explicit nil, which is stored as a literal null and means "cleared".
var Absent any = absentMarker{}

// IsAbsent reports whether v is the absence marker.
func IsAbsent(v any) bool {
	_, ok := v.(absentMarker)
	return ok
}

// Timestamp is the store-native instant representation, distinct from
// time.Time. There is no empty Timestamp: absent instants are omitted from
// the document and cleared instants are stored as explicit nulls.
type Timestamp struct {
	Seconds int64 `json:"_seconds"`
	Nanos   int32 `json:"_nanoseconds"`
}

// TimestampOf converts a native instant into the store representation.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time converts back to the native instant type, in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}
