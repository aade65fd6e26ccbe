package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is done.
// Runs never overlap.
func Every(ctx context.Context, interval time.Duration, name string, log *logrus.Logger, task Task) {
	entry := log.WithField("task", name)
	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			entry.WithError(err).Error("task failed")
		}
	}

	run()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
