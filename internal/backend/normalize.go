package backend

import (
	"strings"

	"jobs-portal/internal/domain"
)

// CleanText collapses whitespace, including non-breaking spaces scraped
// job boards like to leave behind.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLocation drops "Location:" labels and repeated comma parts.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// normalizeJobs tidies display fields in place. Status flags are left
// untouched.
func normalizeJobs(jobs []domain.Job) {
	for i := range jobs {
		j := &jobs[i]
		j.Title = CleanText(j.Title)
		j.Company = CleanText(j.Company)
		j.Location = NormalizeLocation(j.Location)
		j.Type = CleanText(j.Type)
		j.Category = CleanText(j.Category)
		j.Source = CleanText(j.Source)
		j.Link = strings.TrimSpace(j.Link)
	}
}
