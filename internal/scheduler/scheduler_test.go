package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"jobs-portal/internal/logging"
)

func TestEvery_RunsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan struct{})

	go func() {
		Every(ctx, 10*time.Millisecond, "test", logging.Discard(), func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return errors.New("boom")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not stop after cancel")
	}
	if n := runs.Load(); n < 3 {
		t.Errorf("runs = %d", n)
	}
}
