// Package poll keeps the local status overlay in step with the backend.
package poll

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"jobs-portal/internal/config"
	"jobs-portal/internal/scheduler"
)

const batchSize = 100

// Syncer is the part of portal.Service the poller drives.
type Syncer interface {
	SyncPending(ctx context.Context, limit int) (synced, failed int, err error)
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastSync  int    `json:"last_synced"`
	LastFail  int    `json:"last_failed"`
	Running   bool   `json:"running"`
}

// SyncOnce pushes pending overrides and prunes old synced ones.
func SyncOnce(ctx context.Context, s Syncer, cfg config.Config, st *atomic.Value, log *logrus.Logger) error {
	now := time.Now().Format(time.RFC3339)
	cur := load(st)
	cur.Running = true
	cur.LastRunAt = now
	st.Store(cur)

	synced, failed, err := s.SyncPending(ctx, batchSize)

	cur = load(st)
	cur.Running = false
	cur.LastSync = synced
	cur.LastFail = failed
	if err != nil {
		cur.LastError = err.Error()
		st.Store(cur)
		return err
	}
	cur.LastError = ""
	cur.LastOkAt = time.Now().Format(time.RFC3339)
	st.Store(cur)

	if synced > 0 || failed > 0 {
		log.WithFields(logrus.Fields{"synced": synced, "failed": failed}).Info("[poll] overrides pushed")
	}

	if days := cfg.Overrides.RetentionDays; days > 0 {
		n, err := s.Prune(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			return err
		}
		if n > 0 {
			log.WithField("deleted", n).Info("[poll] pruned synced overrides")
		}
	}
	return nil
}

// Start runs SyncOnce on the configured interval until ctx is done. The
// interval is read once; changing it needs a restart.
func Start(ctx context.Context, s Syncer, cfgVal *atomic.Value, st *atomic.Value, log *logrus.Logger) {
	cfg := cfgVal.Load().(config.Config)
	interval := time.Duration(cfg.Overrides.SyncSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	go scheduler.Every(ctx, interval, "override-sync", log, func(ctx context.Context) error {
		return SyncOnce(ctx, s, cfgVal.Load().(config.Config), st, log)
	})
}

func load(st *atomic.Value) Status {
	if v, ok := st.Load().(Status); ok {
		return v
	}
	return Status{}
}
