package portal

import (
	"strings"

	"jobs-portal/internal/domain"
)

var jobTypeClasses = map[string]string{
	"Remote":      "job-type-remote",
	"On-site":     "job-type-onsite",
	"Hybrid":      "job-type-hybrid",
	"Recommended": "job-type-recommended",
}

// JobTypeClass maps JOB_TYPE to the badge CSS class.
func JobTypeClass(jobType string) string {
	if c, ok := jobTypeClasses[jobType]; ok {
		return c
	}
	return "job-type-default"
}

// ApplyLink returns the link to open for a job, if it has one.
func ApplyLink(j domain.Job) (string, bool) {
	link := strings.TrimSpace(j.Link)
	return link, link != ""
}

// CategoryTab is one entry of the category strip.
type CategoryTab struct {
	domain.Category
	Active bool `json:"active"`
}

// CategoryTabs marks the active entry of the catalogue.
func CategoryTabs(cats []domain.Category, active string) []CategoryTab {
	out := make([]CategoryTab, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryTab{Category: c, Active: IsActive(c.Key, active)})
	}
	return out
}

func IsActive(key, active string) bool {
	return strings.EqualFold(key, active)
}
