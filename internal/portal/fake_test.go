package portal

import (
	"context"
	"errors"
	"sync"

	"jobs-portal/internal/domain"
)

var errBackendDown = errors.New("backend down")

type listCall struct {
	kind     string
	page     int
	perPage  int
	category string
}

// fakeBackend serves canned responses and records calls.
type fakeBackend struct {
	mu sync.Mutex

	jobs            map[int]domain.JobsResponse // by page
	applied         domain.JobsResponse
	rejectedExpired domain.JobsResponse

	jobsErr, appliedErr, rejectedErr, updateErr error
	updateErrFor                                map[int64]error // by job id, checked before updateErr

	calls   []listCall
	updates []domain.Status
}

func (f *fakeBackend) record(kind string, page, perPage int, category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, listCall{kind, page, perPage, category})
}

func (f *fakeBackend) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeBackend) GetJobs(_ context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	f.record("jobs", page, perPage, category)
	if f.jobsErr != nil {
		return domain.JobsResponse{}, f.jobsErr
	}
	r, ok := f.jobs[page]
	if !ok {
		r = domain.JobsResponse{CurrentPage: page, TotalPages: 1}
	}
	return copyResp(r), nil
}

func (f *fakeBackend) GetAppliedJobs(_ context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	f.record("applied", page, perPage, category)
	if f.appliedErr != nil {
		return domain.JobsResponse{}, f.appliedErr
	}
	return copyResp(f.applied), nil
}

func (f *fakeBackend) GetRejectedExpiredJobs(_ context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	f.record("rejected", page, perPage, category)
	if f.rejectedErr != nil {
		return domain.JobsResponse{}, f.rejectedErr
	}
	return copyResp(f.rejectedExpired), nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id int64, status domain.Status, _ domain.Flag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	if err, ok := f.updateErrFor[id]; ok {
		return err
	}
	return f.updateErr
}

func copyResp(r domain.JobsResponse) domain.JobsResponse {
	r.Jobs = append([]domain.Job(nil), r.Jobs...)
	return r
}

func job(id int64, applied, rejected, expired domain.Flag) domain.Job {
	return domain.Job{ID: id, Title: "job", Applied: applied, Rejected: rejected, Expired: expired}
}

// pageOne has 2 available, 1 applied, 1 rejected, 1 expired, 1 applied+rejected.
func pageOne() domain.JobsResponse {
	return domain.JobsResponse{
		Jobs: []domain.Job{
			job(1, domain.No, "", ""),
			job(2, domain.No, domain.No, domain.No),
			job(3, domain.Yes, "", ""),
			job(4, domain.No, domain.Yes, ""),
			job(5, domain.No, "", domain.Yes),
			job(6, domain.Yes, domain.Yes, ""),
		},
		TotalJobs:   100,
		CurrentPage: 1,
		TotalPages:  2,
		PerPage:     50,
	}
}
