package document

import (
	"encoding/json"
	"fmt"
)

// JSON (de)serialization for documents, shared by the Postgres driver and
// the Redis cache. Timestamps survive the round trip as tagged objects
// ({"_seconds":..,"_nanoseconds":..}); plain JSON has no instant type.

// MarshalDocument encodes a document as JSON bytes.
func MarshalDocument(doc Document) ([]byte, error) {
	b, err := json.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

// UnmarshalDocument decodes JSON bytes into a document, reviving tagged
// timestamp objects into Timestamp values at any nesting depth.
func UnmarshalDocument(b []byte) (Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return reviveValue(raw).(map[string]any), nil
}

func reviveValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		if ts, ok := reviveTimestamp(tv); ok {
			return ts
		}
		for k, e := range tv {
			tv[k] = reviveValue(e)
		}
		return tv
	case []any:
		for i, e := range tv {
			tv[i] = reviveValue(e)
		}
		return tv
	default:
		return v
	}
}

func reviveTimestamp(m map[string]any) (Timestamp, bool) {
	if len(m) != 2 {
		return Timestamp{}, false
	}
	sec, okSec := m["_seconds"].(float64)
	nanos, okNanos := m["_nanoseconds"].(float64)
	if !okSec || !okNanos {
		return Timestamp{}, false
	}
	return Timestamp{Seconds: int64(sec), Nanos: int32(nanos)}, true
}
