// Package repo exposes list/get/create/update/delete per record type. The
// generic facade composes a per-entity codec with the document store, the
// cache coordinator and observability; it is the only layer that talks to
// the store driver directly.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"amani/internal/cache"
	"amani/internal/codec"
	"amani/internal/document"
	"amani/internal/platform/metrics"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/platform/sentinel"
)

// Codec binds one record type to its document mapping. E is the domain
// entity, N the create payload, P the partial update.
type Codec[E, N, P any] interface {
	// Collection names the store collection for this record type.
	Collection() string
	// Validate rejects create payloads missing required fields before any
	// store call is made. Business rules beyond structural presence belong
	// upstream.
	Validate(n N) error
	// Read maps a stored document plus its id to a fully-defaulted entity.
	// The string slice carries non-fatal data warnings to surface.
	Read(doc document.Document, id string) (E, []string, error)
	// CreateDoc maps a create payload to a sanitized, persistence-safe
	// document with identifiers, derived fields and both lifecycle
	// timestamps assigned.
	CreateDoc(n N, now time.Time) document.Document
	// UpdateDoc maps a partial update to a sanitized partial document.
	// current supplies stored values for derived-field inputs the partial
	// leaves out; updatedAt is set unconditionally.
	UpdateDoc(p P, current E, now time.Time) document.Document
}

// Facade is the repository for one record type.
type Facade[E, N, P any] struct {
	store document.Store
	codec Codec[E, N, P]

	coordinator *cache.Coordinator
	views       cache.Store
	viewTTL     time.Duration

	metrics *metrics.Metrics
	log     *logrus.Entry

	order document.Order
	now   func() time.Time
	newID func() string
}

// Option customizes a Facade.
type Option func(*facadeConfig)

type facadeConfig struct {
	coordinator *cache.Coordinator
	views       cache.Store
	viewTTL     time.Duration
	metrics     *metrics.Metrics
	log         *logrus.Entry
	order       *document.Order
	now         func() time.Time
	newID       func() string
}

// WithCache wires the read-through view cache and its post-mutation
// coordinator.
func WithCache(views cache.Store, coordinator *cache.Coordinator, ttl time.Duration) Option {
	return func(c *facadeConfig) {
		c.views = views
		c.coordinator = coordinator
		c.viewTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *facadeConfig) { c.metrics = m }
}

func WithLogger(log *logrus.Entry) Option {
	return func(c *facadeConfig) { c.log = log }
}

// WithOrder overrides the default list ordering (createdAt descending).
func WithOrder(order document.Order) Option {
	return func(c *facadeConfig) { c.order = &order }
}

// WithClock fixes the write clock; tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *facadeConfig) { c.now = now }
}

// WithIDSource fixes identifier generation; tests use it for stable ids.
func WithIDSource(newID func() string) Option {
	return func(c *facadeConfig) { c.newID = newID }
}

func New[E, N, P any](store document.Store, cdc Codec[E, N, P], opts ...Option) *Facade[E, N, P] {
	cfg := &facadeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	order := document.Order{Field: "createdAt", Desc: true}
	if cfg.order != nil {
		order = *cfg.order
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}
	newID := cfg.newID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Facade[E, N, P]{
		store:       store,
		codec:       cdc,
		coordinator: cfg.coordinator,
		views:       cfg.views,
		viewTTL:     cfg.viewTTL,
		metrics:     cfg.metrics,
		log:         cfg.log,
		order:       order,
		now:         now,
		newID:       newID,
	}
}

// List returns every entity matching the filters, ordered by the default
// field. A single structurally malformed document fails the whole list
// loudly rather than silently excluding itself.
func (f *Facade[E, N, P]) List(ctx context.Context, filters ...document.Filter) ([]E, error) {
	coll := f.codec.Collection()
	start := f.now()

	key := f.listKey(filters)
	if rows, ok := f.cachedRows(ctx, key, coll); ok {
		entities, err := f.readAll(rows)
		if err == nil {
			f.metrics.ObserveOperation(coll, "list", start, nil)
			return entities, nil
		}
		// A cached view that no longer decodes is dropped, not trusted.
		f.dropView(ctx, key)
	}

	rows, err := f.store.Query(ctx, coll, document.Query{Filters: filters, OrderBy: f.order})
	if err != nil {
		err = f.translate(err, "")
		f.metrics.ObserveOperation(coll, "list", start, err)
		return nil, err
	}
	entities, err := f.readAll(rows)
	if err != nil {
		f.metrics.ObserveOperation(coll, "list", start, err)
		return nil, err
	}
	f.storeView(ctx, key, rows)
	f.metrics.ObserveOperation(coll, "list", start, nil)
	return entities, nil
}

// Get fetches one entity by id.
func (f *Facade[E, N, P]) Get(ctx context.Context, id string) (E, error) {
	coll := f.codec.Collection()
	start := f.now()
	var zero E

	key := cache.EntityKey(coll, id)
	if rows, ok := f.cachedRows(ctx, key, coll); ok && len(rows) == 1 {
		entity, err := f.read(rows[0])
		if err == nil {
			f.metrics.ObserveOperation(coll, "get", start, nil)
			return entity, nil
		}
		f.dropView(ctx, key)
	}

	stored, err := f.store.Get(ctx, coll, id)
	if err != nil {
		err = f.translate(err, id)
		f.metrics.ObserveOperation(coll, "get", start, err)
		return zero, err
	}
	entity, err := f.read(stored)
	if err != nil {
		f.metrics.ObserveOperation(coll, "get", start, err)
		return zero, err
	}
	f.storeView(ctx, key, []document.Stored{stored})
	f.metrics.ObserveOperation(coll, "get", start, nil)
	return entity, nil
}

// Create validates, converts and inserts a new entity, returning its
// generated identifier. Validation failures never reach the store and
// raise no notification; store failures notify through the coordinator.
func (f *Facade[E, N, P]) Create(ctx context.Context, n N) (string, error) {
	coll := f.codec.Collection()
	start := f.now()

	if err := f.codec.Validate(n); err != nil {
		f.metrics.ObserveOperation(coll, "create", start, err)
		return "", err
	}

	id := f.newID()
	doc := f.codec.CreateDoc(n, f.now().UTC())
	err := f.store.Insert(ctx, coll, id, doc)
	if err != nil {
		err = f.translate(err, id)
	}
	f.afterMutation(ctx, coll, id, "create", err)
	f.metrics.ObserveOperation(coll, "create", start, err)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update applies a partial write. The current entity is fetched first so
// derived fields can be recomputed even when the partial carries only some
// of their inputs; untouched fields are left alone server-side.
func (f *Facade[E, N, P]) Update(ctx context.Context, id string, p P) error {
	coll := f.codec.Collection()
	start := f.now()

	err := f.update(ctx, coll, id, p)
	f.afterMutation(ctx, coll, id, "update", err)
	f.metrics.ObserveOperation(coll, "update", start, err)
	return err
}

func (f *Facade[E, N, P]) update(ctx context.Context, coll, id string, p P) error {
	stored, err := f.store.Get(ctx, coll, id)
	if err != nil {
		return f.translate(err, id)
	}
	current, err := f.read(stored)
	if err != nil {
		return err
	}
	doc := f.codec.UpdateDoc(p, current, f.now().UTC())
	if err := f.store.Update(ctx, coll, id, doc); err != nil {
		return f.translate(err, id)
	}
	return nil
}

// Delete removes the entity unconditionally. Sub-records are embedded, so
// nothing cascades.
func (f *Facade[E, N, P]) Delete(ctx context.Context, id string) error {
	coll := f.codec.Collection()
	start := f.now()

	err := f.store.Delete(ctx, coll, id)
	if err != nil {
		err = f.translate(err, id)
	}
	f.afterMutation(ctx, coll, id, "delete", err)
	f.metrics.ObserveOperation(coll, "delete", start, err)
	return err
}

func (f *Facade[E, N, P]) afterMutation(ctx context.Context, coll, id, op string, err error) {
	if f.coordinator == nil {
		return
	}
	f.coordinator.AfterMutation(ctx, coll, id, op, err)
}

func (f *Facade[E, N, P]) read(stored document.Stored) (E, error) {
	entity, warnings, err := f.codec.Read(stored.Doc, stored.ID)
	if err != nil {
		var zero E
		return zero, dErrors.Wrap(err, dErrors.CodeConversion, "unreadable stored document")
	}
	f.surfaceWarnings(stored.ID, warnings)
	return entity, nil
}

func (f *Facade[E, N, P]) readAll(rows []document.Stored) ([]E, error) {
	entities := make([]E, 0, len(rows))
	for _, row := range rows {
		entity, err := f.read(row)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (f *Facade[E, N, P]) surfaceWarnings(id string, warnings []string) {
	f.metrics.ObserveReadWarnings(f.codec.Collection(), len(warnings))
	if f.log == nil {
		return
	}
	for _, w := range warnings {
		f.log.WithFields(logrus.Fields{
			"collection": f.codec.Collection(),
			"id":         id,
		}).Warn(w)
	}
}

func (f *Facade[E, N, P]) translate(err error, id string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s %q not found", f.codec.Collection(), id)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "write conflict")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store failure")
	}
}

// IsConversion reports whether err stems from a structurally malformed
// stored document and extracts the typed detail.
func IsConversion(err error) (*codec.ConversionError, bool) {
	var ce *codec.ConversionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
