package portal

import "jobs-portal/internal/domain"

// Partitions splits one page of jobs into the three tab views. A job that
// is both applied and rejected/expired shows up in both lists.
type Partitions struct {
	Available       []domain.Job
	Applied         []domain.Job
	ExpiredRejected []domain.Job
}

func Categorize(jobs []domain.Job) Partitions {
	p := Partitions{
		Available:       []domain.Job{},
		Applied:         []domain.Job{},
		ExpiredRejected: []domain.Job{},
	}
	for _, j := range jobs {
		if j.IsAvailable() {
			p.Available = append(p.Available, j)
		}
		if j.IsApplied() {
			p.Applied = append(p.Applied, j)
		}
		if j.IsRejected() || j.IsExpired() {
			p.ExpiredRejected = append(p.ExpiredRejected, j)
		}
	}
	return p
}

func (p Partitions) For(tab domain.Tab) []domain.Job {
	switch tab {
	case domain.TabApplied:
		return p.Applied
	case domain.TabExpiredRejected:
		return p.ExpiredRejected
	default:
		return p.Available
	}
}

// MergeByID returns remote followed by the local jobs whose id remote lacks.
func MergeByID(remote, local []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(remote)+len(local))
	out = append(out, remote...)
	seen := idSet(remote)
	for _, j := range local {
		if !seen[j.ID] {
			out = append(out, j)
		}
	}
	return out
}

// countUniqueLocal counts local jobs missing from remote.
func countUniqueLocal(local, remote []domain.Job) int {
	seen := idSet(remote)
	n := 0
	for _, j := range local {
		if !seen[j.ID] {
			n++
		}
	}
	return n
}

func idSet(jobs []domain.Job) map[int64]bool {
	m := make(map[int64]bool, len(jobs))
	for _, j := range jobs {
		m[j.ID] = true
	}
	return m
}

// remoteCount prefers the server total and falls back to the page length.
func remoteCount(r domain.JobsResponse) int {
	if r.TotalJobs > 0 {
		return r.TotalJobs
	}
	return len(r.Jobs)
}
