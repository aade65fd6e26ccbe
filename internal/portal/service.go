package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"jobs-portal/internal/backend"
	"jobs-portal/internal/config"
	"jobs-portal/internal/domain"
	"jobs-portal/internal/events"
	"jobs-portal/internal/store"
)

// Backend is everything the portal needs from the jobs REST API.
type Backend interface {
	JobSource
	UpdateStatus(ctx context.Context, jobID int64, status domain.Status, value domain.Flag) error
}

// Publisher receives portal events (see events.Hub).
type Publisher interface {
	Publish(evt string)
}

type Options struct {
	DefaultCategory string
	ItemsPerPage    int
	StatusPageSize  int
	Categories      []domain.Category
}

// OptionsFromConfig maps the portal section of cfg onto Options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		DefaultCategory: cfg.Portal.DefaultCategory,
		ItemsPerPage:    cfg.Portal.ItemsPerPage,
		StatusPageSize:  cfg.Portal.StatusPageSize,
		Categories:      cfg.CategoryList(),
	}
}

// View is what a request asks to see.
type View struct {
	Category string
	Page     int
	Tab      domain.Tab
}

var ErrUnknownCategory = errors.New("unknown category")

// Service builds sessions and owns the local status overlay.
type Service struct {
	backend Backend
	db      *sql.DB
	pub     Publisher
	log     *logrus.Entry

	mu   sync.RWMutex
	opts Options
}

// NewService wires the backend and the overlay database. db and pub may be
// nil; without db local marks are pushed straight to the backend.
func NewService(b Backend, db *sql.DB, pub Publisher, opts Options, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	s := &Service{backend: b, db: db, pub: pub, log: log.WithField("component", "portal")}
	s.SetOptions(opts)
	return s
}

func (s *Service) SetOptions(opts Options) {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = domain.DefaultCategory
	}
	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = 50
	}
	if opts.StatusPageSize <= 0 {
		opts.StatusPageSize = 50
	}
	if len(opts.Categories) == 0 {
		opts.Categories = domain.DefaultCategories
	}
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

func (s *Service) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *Service) Categories() []domain.Category {
	return s.Options().Categories
}

// ResolveCategory maps user input to a catalogue key. Empty input means the
// default category.
func (s *Service) ResolveCategory(key string) (string, error) {
	opts := s.Options()
	key = strings.TrimSpace(key)
	if key == "" {
		return opts.DefaultCategory, nil
	}
	if strings.EqualFold(key, domain.CategoryAll) {
		return domain.CategoryAll, nil
	}
	c, ok := domain.FindCategory(opts.Categories, key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return c.Key, nil
}

func (s *Service) NewSession() *Session {
	opts := s.Options()
	sess := NewSession(s.backend, s.log)
	sess.overlay = s.applyOverrides
	sess.Category = opts.DefaultCategory
	sess.ItemsPerPage = opts.ItemsPerPage
	sess.StatusPageSize = opts.StatusPageSize
	return sess
}

// Open builds a session for v: it selects the category, moves to the page,
// then switches to the tab.
func (s *Service) Open(ctx context.Context, v View) (*Session, error) {
	cat, err := s.ResolveCategory(v.Category)
	if err != nil {
		return nil, err
	}
	sess := s.NewSession()
	sess.Category = cat
	if v.Page > 1 {
		sess.CurrentPage = v.Page
	}
	if err := sess.Load(ctx); err != nil {
		return sess, err
	}
	if v.Tab != "" && v.Tab != sess.Tab {
		// status tab failures leave local jobs displayed; not fatal
		_ = sess.SwitchTab(ctx, v.Tab)
	}
	return sess, nil
}

// MarkJob sets a status flag to "Y". The change is kept locally first so it
// survives reloads, then pushed to the backend. A failed push stays queued
// for the override poller and is not an error for the caller, unless the
// backend does not know the job: then the local change is dropped and the
// 404 returned.
func (s *Service) MarkJob(ctx context.Context, sess *Session, jobID int64, status domain.Status) error {
	if jobID <= 0 {
		return fmt.Errorf("invalid job id %d", jobID)
	}

	category := ""
	if sess != nil {
		category = sess.Category
	}

	if s.db != nil {
		if err := store.PutOverride(ctx, s.db, store.Override{
			JobID:    jobID,
			Status:   status,
			Value:    domain.Yes,
			Category: category,
		}); err != nil {
			return err
		}
	}

	pushErr := s.push(ctx, jobID, status, domain.Yes)
	if pushErr != nil && (s.db == nil || backend.IsNotFound(pushErr)) {
		return pushErr
	}

	if sess != nil && sess.SetJobStatus(jobID, status, domain.Yes) {
		sess.JobUpdated(ctx)
	}

	s.publish("job_status_changed", map[string]any{
		"id":     jobID,
		"status": status,
		"synced": pushErr == nil,
	})
	return nil
}

// SyncPending re-pushes up to limit overrides the backend has not accepted
// yet. Overrides for jobs the backend no longer has are dropped and counted
// as failed.
func (s *Service) SyncPending(ctx context.Context, limit int) (synced, failed int, err error) {
	if s.db == nil {
		return 0, 0, nil
	}
	pending, err := store.ListUnsynced(ctx, s.db, limit)
	if err != nil {
		return 0, 0, err
	}
	dropped := 0
	for _, o := range pending {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		if perr := s.push(ctx, o.JobID, o.Status, o.Value); perr != nil {
			failed++
			if backend.IsNotFound(perr) {
				dropped++
			}
			continue
		}
		synced++
	}
	if synced > 0 || dropped > 0 {
		s.publish("overrides_synced", map[string]any{"synced": synced, "failed": failed, "dropped": dropped})
	}
	return synced, failed, nil
}

// Prune drops synced overrides older than maxAge.
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.db == nil {
		return 0, nil
	}
	return store.PruneSynced(ctx, s.db, maxAge)
}

func (s *Service) PendingCount(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	return store.CountUnsynced(ctx, s.db)
}

func (s *Service) push(ctx context.Context, jobID int64, status domain.Status, value domain.Flag) error {
	err := s.backend.UpdateStatus(ctx, jobID, status, value)
	fields := logrus.Fields{"job_id": jobID, "status": status}
	switch {
	case err != nil && backend.IsNotFound(err):
		s.log.WithFields(fields).Warn("backend has no such job, dropping local status")
		if s.db != nil {
			if derr := store.DeleteOverride(ctx, s.db, jobID, status); derr != nil {
				s.log.WithError(derr).WithFields(fields).Error("drop override")
			}
		}
		return err
	case err != nil:
		s.log.WithError(err).WithFields(fields).Warn("status push failed")
		if s.db != nil {
			if merr := store.MarkSyncFailed(ctx, s.db, jobID, status, err.Error()); merr != nil {
				s.log.WithError(merr).WithFields(fields).Error("record sync failure")
			}
		}
		return err
	}
	if s.db != nil {
		if merr := store.MarkSynced(ctx, s.db, jobID, status); merr != nil {
			s.log.WithError(merr).WithFields(fields).Error("record sync")
		}
	}
	s.log.WithFields(fields).Info("status pushed")
	return nil
}

func (s *Service) applyOverrides(ctx context.Context, jobs []domain.Job) {
	if s.db == nil {
		return
	}
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	ovs, err := store.OverridesFor(ctx, s.db, ids)
	if err != nil {
		s.log.WithError(err).Warn("read overrides")
		return
	}
	store.Apply(jobs, ovs)
}

func (s *Service) publish(typ string, data any) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(events.MakeEvent("", typ, 1, data))
}
