package cache

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier surfaces mutation outcomes to whatever renders them. The
// presentation layer is an external collaborator, so the default
// implementation just logs; tests use Collector.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Log *logrus.Entry
}

func (n LogNotifier) Success(_ context.Context, message string) {
	n.Log.WithField("outcome", "success").Info(message)
}

func (n LogNotifier) Failure(_ context.Context, message string) {
	n.Log.WithField("outcome", "failure").Warn(message)
}

// Collector records notifications for assertions in tests.
type Collector struct {
	Successes []string
	Failures  []string
}

func (c *Collector) Success(_ context.Context, message string) {
	c.Successes = append(c.Successes, message)
}

func (c *Collector) Failure(_ context.Context, message string) {
	c.Failures = append(c.Failures, message)
}
