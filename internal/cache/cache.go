// Package cache keeps read results warm between mutations and invalidates
// them afterwards so downstream reads observe new values without a full
// refetch of everything.
//
// Entries are serialized raw store results, keyed by (collection, id) for
// single entities and (collection, filter signature) for list views. The
// cache is best-effort: a failing cache degrades reads to the store, it
// never fails them.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Store is the cache backend contract. Implementations: in-process memory
// and Redis.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key with the given prefix; used to drop
	// all list views of a collection in one call.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// EntityKey is the cache key for a single-entity view.
func EntityKey(collection, id string) string {
	return collection + "/" + id
}

// ListKey is the cache key for a list view under a filter signature. The
// signature is order-insensitive so logically equal filter sets share an
// entry.
func ListKey(collection string, signature []string) string {
	sig := append([]string(nil), signature...)
	sort.Strings(sig)
	return collection + "?" + strings.Join(sig, "&")
}

// ListPrefix covers every list view of a collection, whatever its filters.
func ListPrefix(collection string) string {
	return collection + "?"
}

// FilterSignature renders one filter predicate for ListKey.
func FilterSignature(field, op string, value any) string {
	return fmt.Sprintf("%s%s%v", field, op, value)
}
