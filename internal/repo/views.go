package repo

import (
	"context"
	"fmt"

	"amani/internal/cache"
	"amani/internal/document"
)

// Cached views hold serialized raw store results, not converted entities:
// a hit replays the read conversion, which is pure and cheap, and the
// cache stays oblivious to entity types.

func (f *Facade[E, N, P]) listKey(filters []document.Filter) string {
	sig := make([]string, 0, len(filters))
	for _, flt := range filters {
		sig = append(sig, cache.FilterSignature(flt.Field, string(flt.Op), flt.Value))
	}
	return cache.ListKey(f.codec.Collection(), sig)
}

func (f *Facade[E, N, P]) cachedRows(ctx context.Context, key, coll string) ([]document.Stored, bool) {
	if f.views == nil {
		return nil, false
	}
	raw, hit, err := f.views.Get(ctx, key)
	if err != nil {
		f.warnCache("read", err)
		f.metrics.ObserveCache(coll, false)
		return nil, false
	}
	f.metrics.ObserveCache(coll, hit)
	if !hit {
		return nil, false
	}
	rows, err := decodeRows(raw)
	if err != nil {
		f.warnCache("decode", err)
		f.dropView(ctx, key)
		return nil, false
	}
	return rows, true
}

func (f *Facade[E, N, P]) storeView(ctx context.Context, key string, rows []document.Stored) {
	if f.views == nil {
		return
	}
	raw, err := encodeRows(rows)
	if err != nil {
		f.warnCache("encode", err)
		return
	}
	if err := f.views.Set(ctx, key, raw, f.viewTTL); err != nil {
		f.warnCache("write", err)
	}
}

func (f *Facade[E, N, P]) dropView(ctx context.Context, key string) {
	if f.views == nil {
		return
	}
	if err := f.views.Delete(ctx, key); err != nil {
		f.warnCache("drop", err)
	}
}

func (f *Facade[E, N, P]) warnCache(action string, err error) {
	if f.log == nil {
		return
	}
	f.log.WithField("collection", f.codec.Collection()).
		WithField("action", action).
		WithError(err).
		Warn("view cache degraded to store read")
}

func encodeRows(rows []document.Stored) ([]byte, error) {
	items := make([]any, len(rows))
	for i, row := range rows {
		items[i] = map[string]any{"id": row.ID, "doc": map[string]any(row.Doc)}
	}
	return document.MarshalDocument(document.Document{"items": items})
}

func decodeRows(raw []byte) ([]document.Stored, error) {
	doc, err := document.UnmarshalDocument(raw)
	if err != nil {
		return nil, err
	}
	items, ok := doc["items"].([]any)
	if !ok {
		return nil, fmt.Errorf("cached view has no items list")
	}
	rows := make([]document.Stored, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cached view item is not an object")
		}
		id, ok := entry["id"].(string)
		if !ok {
			return nil, fmt.Errorf("cached view item has no id")
		}
		docVal, ok := entry["doc"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cached view item has no document")
		}
		rows = append(rows, document.Stored{ID: id, Doc: docVal})
	}
	return rows, nil
}
