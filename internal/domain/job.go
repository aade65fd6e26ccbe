package domain

import "strings"

// Flag is the backend's boolean encoding. Only "Y" counts as set.
type Flag string

const (
	Yes Flag = "Y"
	No  Flag = "N"
)

func (f Flag) Set() bool { return f == Yes }

// Job mirrors the backend record. REJECTED and EXPIRED are absent on older rows.
type Job struct {
	ID               int64  `json:"JOB_ID"`
	Title            string `json:"JOB_TITLE"`
	Company          string `json:"COMPANY"`
	Location         string `json:"COMPANY_LOCATION"`
	Type             string `json:"JOB_TYPE"`
	Category         string `json:"JOB_CATEGORY"`
	Link             string `json:"JOB_LINK"`
	Source           string `json:"JOB_SOURCE"`
	LinkedInVerified Flag   `json:"LINKEDIN_VERIFIED"`
	Applied          Flag   `json:"APPLIED"`
	Rejected         Flag   `json:"REJECTED,omitempty"`
	Expired          Flag   `json:"EXPIRED,omitempty"`
}

func (j Job) IsApplied() bool  { return j.Applied.Set() }
func (j Job) IsRejected() bool { return j.Rejected.Set() }
func (j Job) IsExpired() bool  { return j.Expired.Set() }

// IsAvailable reports whether none of the status flags is set.
func (j Job) IsAvailable() bool {
	return !j.IsApplied() && !j.IsRejected() && !j.IsExpired()
}

// WithStatus returns a copy of j with the flag for s set to v.
func (j Job) WithStatus(s Status, v Flag) Job {
	switch s {
	case StatusApplied:
		j.Applied = v
	case StatusRejected:
		j.Rejected = v
	case StatusExpired:
		j.Expired = v
	}
	return j
}

// JobsResponse is one page of the backend's /jobs listing.
type JobsResponse struct {
	Jobs        []Job `json:"jobs"`
	TotalJobs   int   `json:"totalJobs"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PerPage     int   `json:"perPage"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// Status names a flag the user can mark on a job.
type Status string

const (
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApplied:
		return StatusApplied, true
	case StatusRejected:
		return StatusRejected, true
	case StatusExpired:
		return StatusExpired, true
	}
	return "", false
}

// Tab is a client-side view over the current job list.
type Tab string

const (
	TabAvailable       Tab = "available"
	TabApplied         Tab = "applied"
	TabExpiredRejected Tab = "expired-rejected"
)

var Tabs = []Tab{TabAvailable, TabApplied, TabExpiredRejected}

// ParseTab falls back to TabAvailable for anything it does not recognise.
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabApplied:
		return TabApplied
	case TabExpiredRejected:
		return TabExpiredRejected
	default:
		return TabAvailable
	}
}

func (t Tab) Label() string {
	switch t {
	case TabApplied:
		return "Applied"
	case TabExpiredRejected:
		return "Expired / Rejected"
	default:
		return "Available"
	}
}
