package cache

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Coordinator keeps cached views consistent with the store after each
// mutation and raises the user-facing outcome notification.
type Coordinator struct {
	store    Store
	notifier Notifier
	log      *logrus.Entry
}

func NewCoordinator(store Store, notifier Notifier, log *logrus.Entry) *Coordinator {
	return &Coordinator{store: store, notifier: notifier, log: log}
}

// AfterMutation is called once per create/update/delete with the outcome.
//
// On success it drops every list view of the collection plus the
// single-entity view for id (when known), then notifies success. On
// failure it notifies failure with the original error message and leaves
// caches untouched: a failed write changed nothing, so the cached data is
// stale-but-correct and a refetch would be spurious.
func (c *Coordinator) AfterMutation(ctx context.Context, collection, id, op string, mutationErr error) {
	if mutationErr != nil {
		if c.notifier != nil {
			c.notifier.Failure(ctx, fmt.Sprintf("%s %s failed: %v", collection, op, mutationErr))
		}
		return
	}

	if c.store != nil {
		if err := c.store.DeleteByPrefix(ctx, ListPrefix(collection)); err != nil {
			c.warn(collection, "invalidate list views", err)
		}
		if id != "" {
			if err := c.store.Delete(ctx, EntityKey(collection, id)); err != nil {
				c.warn(collection, "invalidate entity view", err)
			}
		}
	}
	if c.notifier != nil {
		c.notifier.Success(ctx, fmt.Sprintf("%s %s succeeded", collection, op))
	}
}

func (c *Coordinator) warn(collection, action string, err error) {
	if c.log == nil {
		return
	}
	c.log.WithFields(logrus.Fields{
		"collection": collection,
		"action":     action,
	}).WithError(err).Warn("cache invalidation failed")
}
