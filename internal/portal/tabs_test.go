package portal

import (
	"testing"

	"jobs-portal/internal/domain"
)

func ids(jobs []domain.Job) []int64 {
	out := make([]int64, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func sameIDs(got []domain.Job, want ...int64) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCategorize(t *testing.T) {
	p := Categorize(pageOne().Jobs)

	if !sameIDs(p.Available, 1, 2) {
		t.Errorf("available = %v", ids(p.Available))
	}
	if !sameIDs(p.Applied, 3, 6) {
		t.Errorf("applied = %v", ids(p.Applied))
	}
	if !sameIDs(p.ExpiredRejected, 4, 5, 6) {
		t.Errorf("expired-rejected = %v", ids(p.ExpiredRejected))
	}
}

func TestCategorize_Empty(t *testing.T) {
	p := Categorize(nil)
	if p.Available == nil || p.Applied == nil || p.ExpiredRejected == nil {
		t.Error("partitions should be non-nil so JSON renders []")
	}
}

func TestMergeByID(t *testing.T) {
	remote := []domain.Job{{ID: 10}, {ID: 11}}
	local := []domain.Job{{ID: 11}, {ID: 12}}

	got := MergeByID(remote, local)
	if !sameIDs(got, 10, 11, 12) {
		t.Errorf("merged = %v", ids(got))
	}
	if n := countUniqueLocal(local, remote); n != 1 {
		t.Errorf("unique local = %d", n)
	}
}

func TestRemoteCount(t *testing.T) {
	if n := remoteCount(domain.JobsResponse{TotalJobs: 0, Jobs: []domain.Job{{ID: 1}}}); n != 1 {
		t.Errorf("fallback to len = %d", n)
	}
	if n := remoteCount(domain.JobsResponse{TotalJobs: 7}); n != 7 {
		t.Errorf("total = %d", n)
	}
}

func TestJobTypeClass(t *testing.T) {
	cases := map[string]string{
		"Remote":      "job-type-remote",
		"On-site":     "job-type-onsite",
		"Hybrid":      "job-type-hybrid",
		"Recommended": "job-type-recommended",
		"Contract":    "job-type-default",
		"":            "job-type-default",
	}
	for in, want := range cases {
		if got := JobTypeClass(in); got != want {
			t.Errorf("JobTypeClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyLink(t *testing.T) {
	if _, ok := ApplyLink(domain.Job{Link: "  "}); ok {
		t.Error("blank link should not open")
	}
	if l, ok := ApplyLink(domain.Job{Link: "https://x/apply"}); !ok || l != "https://x/apply" {
		t.Errorf("link = %q %v", l, ok)
	}
}

func TestCategoryTabs(t *testing.T) {
	tabs := CategoryTabs(domain.DefaultCategories[:3], "remote")
	if tabs[0].Active || tabs[1].Active || !tabs[2].Active {
		t.Errorf("tabs = %+v", tabs)
	}
}
