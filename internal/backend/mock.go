package backend

import (
	"fmt"

	"jobs-portal/internal/domain"
)

const mockTotalJobs = 150

var mockJobs = []domain.Job{
	{
		ID:               1,
		Title:            "Senior Frontend Developer",
		Company:          "TechCorp Inc.",
		Location:         "San Francisco, CA",
		Type:             "On-site",
		Link:             "https://example.com/apply/1",
		Source:           "demo",
		LinkedInVerified: domain.No,
		Applied:          domain.No,
	},
	{
		ID:               2,
		Title:            "DevOps Engineer",
		Company:          "CloudTech Solutions",
		Location:         "Remote",
		Type:             "Remote",
		Link:             "https://example.com/apply/2",
		Source:           "demo",
		LinkedInVerified: domain.Yes,
		Applied:          domain.No,
	},
	{
		ID:               3,
		Title:            "Product Manager",
		Company:          "InnovateLabs",
		Location:         "New York, NY",
		Type:             "Hybrid",
		Link:             "https://example.com/apply/3",
		Source:           "demo",
		LinkedInVerified: domain.No,
		Applied:          domain.No,
	},
}

// MockJobsResponse builds the demo page served when the backend is down and
// mock fallback is enabled.
func MockJobsResponse(page, perPage int, category string) domain.JobsResponse {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	jobs := make([]domain.Job, 0, len(mockJobs))
	for _, j := range mockJobs {
		j.ID += int64((page - 1) * perPage)
		j.Title = fmt.Sprintf("%s - %s", j.Title, category)
		j.Category = category
		jobs = append(jobs, j)
	}

	totalPages := (mockTotalJobs + perPage - 1) / perPage
	return domain.JobsResponse{
		Jobs:        jobs,
		TotalJobs:   mockTotalJobs,
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
