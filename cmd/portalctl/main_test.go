package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobs-portal/internal/domain"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.JobsResponse{
			Jobs: []domain.Job{
				{ID: 11, Title: "Platform Engineer", Company: "Acme", Type: "Remote", Applied: domain.No},
				{ID: 12, Title: "Analyst", Company: "Initech", Applied: domain.Yes},
			},
			TotalJobs: 1200, CurrentPage: 1, TotalPages: 24, PerPage: 50,
		})
	})
	mux.HandleFunc("/jobs/applied", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.JobsResponse{TotalJobs: 40})
	})
	mux.HandleFunc("/jobs/rejected-expired", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.JobsResponse{})
	})
	mux.HandleFunc("/jobs/98/status", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/jobs/11/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--data-dir", t.TempDir(), "--no-color"}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func TestList(t *testing.T) {
	srv := fakeBackend(t)
	t.Setenv("PORTAL_BACKEND_BASE_URL", srv.URL)

	out, err := runCLI(t, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	for _, want := range []string{"Platform Engineer", "Available: 1,200", "Showing 1-50 of 1,200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Analyst") {
		t.Errorf("applied job listed under available:\n%s", out)
	}
}

func TestMark(t *testing.T) {
	srv := fakeBackend(t)
	t.Setenv("PORTAL_BACKEND_BASE_URL", srv.URL)

	out, err := runCLI(t, "mark", "11", "applied")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !strings.Contains(out, "job 11 marked applied") || strings.Contains(out, "waiting") {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, "mark", "98", "applied")
	if err != nil {
		t.Fatalf("mark while backend is down: %v", err)
	}
	if !strings.Contains(out, "waiting for the backend") {
		t.Errorf("failed push should be queued, output = %q", out)
	}

	// no status endpoint for job 99: the backend answers 404
	if _, err := runCLI(t, "mark", "99", "applied"); err == nil {
		t.Error("marking an unknown job should fail")
	}
}

func TestBadInput(t *testing.T) {
	srv := fakeBackend(t)
	t.Setenv("PORTAL_BACKEND_BASE_URL", srv.URL)

	for _, args := range [][]string{
		{},
		{"bogus"},
		{"mark", "x", "applied"},
		{"mark", "1", "hired"},
	} {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestCategories(t *testing.T) {
	out, err := runCLI(t, "categories")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Recommended *") || !strings.Contains(out, "Remote Jobs") {
		t.Errorf("output = %s", out)
	}
}

func TestSync(t *testing.T) {
	srv := fakeBackend(t)
	t.Setenv("PORTAL_BACKEND_BASE_URL", srv.URL)

	dir := t.TempDir()
	cli := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		if err := run(context.Background(), append([]string{"--data-dir", dir, "--no-color"}, args...), &out); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	// job 98 keeps failing with 503, so both marks stay pending
	cli("mark", "98", "rejected")
	cli("mark", "98", "expired")

	out := cli("sync")
	if !strings.Contains(out, "synced 0, still pending 2") {
		t.Errorf("output = %q", out)
	}
	out = cli("sync")
	if !strings.Contains(out, "synced 0, still pending 2") {
		t.Errorf("second run output = %q", out)
	}
}
