package portal

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"jobs-portal/internal/domain"
	"jobs-portal/internal/pagination"
)

// JobSource is the read side of the jobs backend.
type JobSource interface {
	GetJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error)
	GetAppliedJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error)
	GetRejectedExpiredJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error)
}

// Totals holds one number per tab.
type Totals struct {
	Available       int `json:"available"`
	Applied         int `json:"applied"`
	ExpiredRejected int `json:"expiredRejected"`
}

func (t Totals) For(tab domain.Tab) int {
	switch tab {
	case domain.TabApplied:
		return t.Applied
	case domain.TabExpiredRejected:
		return t.ExpiredRejected
	default:
		return t.Available
	}
}

// Session is the view state of one portal user: the current page of jobs,
// its tab partitions, and the counts shown on tabs and banners.
// It is not safe for concurrent use.
type Session struct {
	src     JobSource
	overlay func(ctx context.Context, jobs []domain.Job)
	log     *logrus.Entry

	Jobs      []domain.Job
	Displayed []domain.Job
	Partitions
	Loading bool

	CurrentPage    int
	TotalPages     int
	TotalJobs      int
	Category       string
	ItemsPerPage   int
	StatusPageSize int
	Tab            domain.Tab

	// Reconciled totals: server counts plus local marks the server has not seen.
	Totals           Totals
	countsCalculated bool

	// Totals exactly as the backend reported them, used for banners.
	APITotals Totals

	// LoadErr is the last failure of the main listing; StatusErr the last
	// failure of a status tab, in which case Displayed holds local jobs only.
	LoadErr   error
	StatusErr error
}

func NewSession(src JobSource, log *logrus.Entry) *Session {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Session{
		src:            src,
		log:            log,
		CurrentPage:    1,
		TotalPages:     1,
		Category:       domain.DefaultCategory,
		ItemsPerPage:   50,
		StatusPageSize: 50,
		Tab:            domain.TabAvailable,
		Jobs:           []domain.Job{},
		Displayed:      []domain.Job{},
		Partitions:     Categorize(nil),
	}
}

// Load fetches the current page and refreshes everything derived from it.
func (s *Session) Load(ctx context.Context) error {
	s.Loading = true
	resp, err := s.src.GetJobs(ctx, s.CurrentPage, s.ItemsPerPage, s.Category)
	if err != nil {
		s.Loading = false
		s.LoadErr = err
		s.log.WithError(err).WithFields(logrus.Fields{"page": s.CurrentPage, "category": s.Category}).Warn("load jobs failed")
		return fmt.Errorf("load jobs page %d: %w", s.CurrentPage, err)
	}
	s.LoadErr = nil
	s.applyOverlay(ctx, resp.Jobs)

	s.Jobs = resp.Jobs
	s.categorize()
	s.TotalJobs = resp.TotalJobs
	s.TotalPages = resp.TotalPages
	s.CurrentPage = resp.CurrentPage
	s.APITotals.Available = resp.TotalJobs
	s.Loading = false

	if !s.countsCalculated {
		s.CalculateTotals(ctx)
	}

	if s.Tab == domain.TabApplied || s.Tab == domain.TabExpiredRejected {
		_ = s.LoadByStatus(ctx, s.Tab)
	}
	return nil
}

func (s *Session) Refresh(ctx context.Context) error { return s.Load(ctx) }

// SelectCategory switches category, going back to page 1 and forgetting
// every count computed for the previous category.
func (s *Session) SelectCategory(ctx context.Context, key string) error {
	s.Category = key
	s.CurrentPage = 1
	s.countsCalculated = false
	s.APITotals = Totals{}
	return s.Load(ctx)
}

func (s *Session) ChangePage(ctx context.Context, page int) error {
	s.CurrentPage = page
	return s.Load(ctx)
}

// SwitchTab shows the current page's available jobs, or loads the status
// list for the applied and expired-rejected tabs.
func (s *Session) SwitchTab(ctx context.Context, tab domain.Tab) error {
	s.Tab = tab
	if tab == domain.TabApplied || tab == domain.TabExpiredRejected {
		return s.LoadByStatus(ctx, tab)
	}
	s.updateDisplayed()
	return nil
}

// LoadByStatus displays the first page of the backend's list for tab, plus
// the page's local jobs of that tab the backend did not return. On failure
// only the local jobs are shown.
func (s *Session) LoadByStatus(ctx context.Context, tab domain.Tab) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	local := s.Partitions.For(tab)
	resp, err := s.fetchStatus(ctx, tab)
	if err != nil {
		s.StatusErr = err
		s.Displayed = local
		s.log.WithError(err).WithField("tab", tab).Warn("status list unavailable, showing local jobs")
		return fmt.Errorf("load %s jobs: %w", tab, err)
	}
	s.StatusErr = nil

	switch tab {
	case domain.TabApplied:
		s.APITotals.Applied = resp.TotalJobs
	case domain.TabExpiredRejected:
		s.APITotals.ExpiredRejected = resp.TotalJobs
	}
	s.Displayed = MergeByID(resp.Jobs, local)
	return nil
}

// JobUpdated re-derives the views after a local status change and forces
// the totals to be recomputed.
func (s *Session) JobUpdated(ctx context.Context) {
	s.categorize()
	s.countsCalculated = false
	s.CalculateTotals(ctx)
	if s.Tab == domain.TabApplied || s.Tab == domain.TabExpiredRejected {
		_ = s.LoadByStatus(ctx, s.Tab)
	}
}

// SetJobStatus sets a flag on the in-memory job. It reports false when the
// job is not on the current page.
func (s *Session) SetJobStatus(jobID int64, status domain.Status, value domain.Flag) bool {
	for i := range s.Jobs {
		if s.Jobs[i].ID == jobID {
			s.Jobs[i] = s.Jobs[i].WithStatus(status, value)
			return true
		}
	}
	return false
}

// CalculateTotals reconciles per-tab totals. Each status total is the
// backend's count plus the local jobs of that tab missing from the backend's
// first page; available is whatever is left of the listing total.
func (s *Session) CalculateTotals(ctx context.Context) {
	var applied, rejected domain.JobsResponse
	var appliedErr, rejectedErr error

	var g errgroup.Group
	g.Go(func() error {
		applied, appliedErr = s.fetchStatus(ctx, domain.TabApplied)
		return nil
	})
	g.Go(func() error {
		rejected, rejectedErr = s.fetchStatus(ctx, domain.TabExpiredRejected)
		return nil
	})
	_ = g.Wait()

	if appliedErr != nil {
		s.log.WithError(appliedErr).Debug("applied totals unavailable, using local counts")
		s.Totals = Totals{
			Applied:         len(s.Applied),
			ExpiredRejected: len(s.ExpiredRejected),
		}
		s.Totals.Available = nonNegative(s.TotalJobs - s.Totals.Applied - s.Totals.ExpiredRejected)
		s.countsCalculated = true
		return
	}

	s.APITotals.Applied = applied.TotalJobs
	s.Totals.Applied = remoteCount(applied) + countUniqueLocal(s.Applied, applied.Jobs)

	if rejectedErr != nil {
		s.log.WithError(rejectedErr).Debug("rejected/expired totals unavailable, using local count")
		s.Totals.ExpiredRejected = len(s.ExpiredRejected)
	} else {
		s.APITotals.ExpiredRejected = rejected.TotalJobs
		s.Totals.ExpiredRejected = remoteCount(rejected) + countUniqueLocal(s.ExpiredRejected, rejected.Jobs)
	}

	s.Totals.Available = nonNegative(s.TotalJobs - s.Totals.Applied - s.Totals.ExpiredRejected)
	s.countsCalculated = true
}

// CountsCalculated reports whether Totals belong to the current category.
func (s *Session) CountsCalculated() bool { return s.countsCalculated }

// TabCount is the backend total for tab, or the page-local count while the
// backend has reported nothing.
func (s *Session) TabCount(tab domain.Tab) int {
	if n := s.APITotals.For(tab); n > 0 {
		return n
	}
	return len(s.Partitions.For(tab))
}

// BannerCount is the backend total for the current tab.
func (s *Session) BannerCount() int {
	return s.APITotals.For(s.Tab)
}

func (s *Session) Pager() pagination.Pager {
	return pagination.Pager{
		CurrentPage:  s.CurrentPage,
		TotalPages:   s.TotalPages,
		TotalItems:   s.TotalJobs,
		ItemsPerPage: s.ItemsPerPage,
		Disabled:     s.Loading,
	}
}

func (s *Session) categorize() {
	s.Partitions = Categorize(s.Jobs)
	s.updateDisplayed()
}

func (s *Session) updateDisplayed() {
	s.Displayed = s.Partitions.For(s.Tab)
}

func (s *Session) fetchStatus(ctx context.Context, tab domain.Tab) (domain.JobsResponse, error) {
	var (
		resp domain.JobsResponse
		err  error
	)
	if tab == domain.TabApplied {
		resp, err = s.src.GetAppliedJobs(ctx, 1, s.StatusPageSize, s.Category)
	} else {
		resp, err = s.src.GetRejectedExpiredJobs(ctx, 1, s.StatusPageSize, s.Category)
	}
	if err != nil {
		return resp, err
	}
	s.applyOverlay(ctx, resp.Jobs)
	return resp, nil
}

func (s *Session) applyOverlay(ctx context.Context, jobs []domain.Job) {
	if s.overlay != nil && len(jobs) > 0 {
		s.overlay(ctx, jobs)
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
