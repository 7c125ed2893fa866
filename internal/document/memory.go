package document

import (
	"context"
	"sort"
	"sync"

	"amani/pkg/platform/sentinel"
)

// InMemory keeps documents in process memory. It is the fake used by unit
// tests and the default backend for local runs; it intentionally favors
// clarity over performance.
type InMemory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

var _ Store = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{collections: make(map[string]map[string]Document)}
}

func (s *InMemory) Get(_ context.Context, collection, id string) (Stored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return Stored{}, sentinel.ErrNotFound
	}
	return Stored{ID: id, Doc: doc.Clone()}, nil
}

func (s *InMemory) Insert(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return sentinel.ErrConflict
	}
	coll[id] = doc.Clone()
	return nil
}

func (s *InMemory) Update(_ context.Context, collection, id string, patch Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return sentinel.ErrNotFound
	}
	merged := doc.Clone()
	for k, v := range patch {
		// nil is kept: a stored null is how a cleared field looks.
		merged[k] = cloneValue(v)
	}
	s.collections[collection][id] = merged
	return nil
}

func (s *InMemory) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *InMemory) Query(_ context.Context, collection string, q Query) ([]Stored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Stored
	for id, doc := range s.collections[collection] {
		if matchesAll(doc, q.Filters) {
			out = append(out, Stored{ID: id, Doc: doc.Clone()})
		}
	}

	if q.OrderBy.Field != "" {
		field, desc := q.OrderBy.Field, q.OrderBy.Desc
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(out[i].Doc[field], out[j].Doc[field]) < 0
			if desc {
				return !less && compareValues(out[i].Doc[field], out[j].Doc[field]) != 0
			}
			return less
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchesAll(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func matches(doc Document, f Filter) bool {
	v, ok := doc[f.Field]
	if !ok {
		return false
	}
	switch f.Op {
	case OpEqual:
		return compareValues(v, f.Value) == 0
	case OpArrayContains:
		list, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range list {
			if compareValues(item, f.Value) == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareValues orders the scalar types a document can hold. Mixed types
// sort by type name so ordering stays deterministic.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case Timestamp:
		if bv, ok := b.(Timestamp); ok {
			at, bt := av.Time(), bv.Time()
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	default:
		an, aok := asFloat(a)
		bn, bok := asFloat(b)
		if aok && bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}
	ta, tb := typeName(a), typeName(b)
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
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

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "0nil"
	case bool:
		return "1bool"
	case int, int32, int64, float32, float64:
		return "2number"
	case string:
		return "3string"
	case Timestamp:
		return "4timestamp"
	default:
		return "5other"
	}
}
