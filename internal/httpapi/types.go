package httpapi

import (
	"jobs-portal/internal/domain"
	"jobs-portal/internal/portal"
)

// Listing is the JSON rendering of a portal session.
type Listing struct {
	Category    string        `json:"category"`
	Tab         domain.Tab    `json:"tab"`
	Jobs        []domain.Job  `json:"jobs"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalJobs   int           `json:"totalJobs"`
	Totals      portal.Totals `json:"totals"`
	APITotals   portal.Totals `json:"apiTotals"`
	TabCounts   portal.Totals `json:"tabCounts"`
	Banner      int           `json:"banner"`
	Pages       PageInfo      `json:"pages"`
	LoadError   string        `json:"loadError,omitempty"`
	StatusError string        `json:"statusError,omitempty"`
}

type PageInfo struct {
	Start   int   `json:"start"`
	End     int   `json:"end"`
	Visible []int `json:"visible"`
	HasPrev bool  `json:"hasPrevious"`
	HasNext bool  `json:"hasNext"`
}

type setStatusReq struct {
	Status string `json:"status"`
}

type setStatusResp struct {
	ID      int64         `json:"id"`
	Status  domain.Status `json:"status"`
	Pending int           `json:"pending"`
}

func newListing(s *portal.Session, maxVisible int) Listing {
	p := s.Pager()
	l := Listing{
		Category:    s.Category,
		Tab:         s.Tab,
		Jobs:        s.Displayed,
		CurrentPage: s.CurrentPage,
		TotalPages:  s.TotalPages,
		TotalJobs:   s.TotalJobs,
		Totals:      s.Totals,
		APITotals:   s.APITotals,
		TabCounts: portal.Totals{
			Available:       s.TabCount(domain.TabAvailable),
			Applied:         s.TabCount(domain.TabApplied),
			ExpiredRejected: s.TabCount(domain.TabExpiredRejected),
		},
		Banner: s.BannerCount(),
		Pages: PageInfo{
			Start:   p.StartItem(),
			End:     p.EndItem(),
			Visible: p.VisiblePages(maxVisible),
			HasPrev: p.CanGoPrevious(),
			HasNext: p.CanGoNext(),
		},
	}
	if l.Jobs == nil {
		l.Jobs = []domain.Job{}
	}
	if s.LoadErr != nil {
		l.LoadError = s.LoadErr.Error()
	}
	if s.StatusErr != nil {
		l.StatusError = s.StatusErr.Error()
	}
	return l
}
