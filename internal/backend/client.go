package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobs-portal/internal/config"
	"jobs-portal/internal/domain"
	"jobs-portal/internal/secrets"
)

const (
	pathJobs            = "/jobs"
	pathApplied         = "/jobs/applied"
	pathRejectedExpired = "/jobs/rejected-expired"
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Token         string
	MockFallback  bool
	HTTPClient    *http.Client
	Log           *logrus.Logger
}

// Client talks to the jobs REST backend.
type Client struct {
	base    string
	token   string
	mock    bool
	hc      *http.Client
	limiter *HostLimiter
	log     *logrus.Entry
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		mock:    opts.MockFallback,
		hc:      hc,
		limiter: NewHostLimiter(opts.RatePerSecond, opts.Burst),
		log:     log.WithField("component", "backend"),
	}
}

// NewFromConfig builds a client from config, picking up the bearer token
// from the keyring or environment when one is available.
func NewFromConfig(cfg config.BackendConfig, log *logrus.Logger) *Client {
	tok, err := secrets.BackendToken(cfg.TokenAccount)
	if err != nil && cfg.TokenAccount != "" && log != nil {
		log.WithError(err).Warn("backend token unavailable, sending unauthenticated requests")
	}
	return New(Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       time.Duration(cfg.TimeoutSeconds) * time.Second,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
		Token:         tok,
		MockFallback:  cfg.MockFallback,
		Log:           log,
	})
}

func (c *Client) BaseURL() string { return c.base }

// GetJobs fetches one page of jobs. An empty category or "all" sends no filter.
func (c *Client) GetJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	resp, err := c.listJobs(ctx, pathJobs, page, perPage, category)
	if err != nil && c.mock && ctx.Err() == nil {
		c.log.WithError(err).WithField("page", page).Warn("backend unavailable, serving demo jobs")
		return MockJobsResponse(page, perPage, category), nil
	}
	return resp, err
}

func (c *Client) GetAppliedJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	return c.listJobs(ctx, pathApplied, page, perPage, category)
}

func (c *Client) GetRejectedExpiredJobs(ctx context.Context, page, perPage int, category string) (domain.JobsResponse, error) {
	return c.listJobs(ctx, pathRejectedExpired, page, perPage, category)
}

type statusUpdate struct {
	Status domain.Status `json:"status"`
	Value  domain.Flag   `json:"value"`
}

// UpdateStatus sets one status flag of a job on the backend.
func (c *Client) UpdateStatus(ctx context.Context, jobID int64, status domain.Status, value domain.Flag) error {
	body, err := json.Marshal(statusUpdate{Status: status, Value: value})
	if err != nil {
		return err
	}
	path := pathJobs + "/" + strconv.FormatInt(jobID, 10) + "/status"
	res, err := c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func (c *Client) listJobs(ctx context.Context, path string, page, perPage int, category string) (domain.JobsResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if category != "" && !strings.EqualFold(category, domain.CategoryAll) {
		q.Set("job_category", category)
	}

	res, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return domain.JobsResponse{}, err
	}
	defer res.Body.Close()

	var out domain.JobsResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return domain.JobsResponse{}, fmt.Errorf("decode %s: %w", path, err)
	}
	fillPageDefaults(&out, page, perPage)
	normalizeJobs(out.Jobs)
	return out, nil
}

// fillPageDefaults covers backends that omit paging fields.
func fillPageDefaults(r *domain.JobsResponse, page, perPage int) {
	if r.Jobs == nil {
		r.Jobs = []domain.Job{}
	}
	if r.CurrentPage <= 0 {
		r.CurrentPage = page
	}
	if r.PerPage <= 0 {
		r.PerPage = perPage
	}
	if r.TotalPages <= 0 && r.TotalJobs > 0 {
		r.TotalPages = (r.TotalJobs + r.PerPage - 1) / r.PerPage
	}
	if r.TotalPages <= 0 {
		r.TotalPages = 1
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	if c.base == "" {
		return nil, errors.New("backend base url is not configured")
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	if err := c.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jobs-portal/1.0 (+local)")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Debug("request failed")
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": res.StatusCode,
		"dur_ms": time.Since(start).Milliseconds(),
	}).Debug("request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		res.Body.Close()
		return nil, &APIError{Method: method, Path: path, Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return res, nil
}
