package config

import (
	"fmt"
	"strings"

	"jobs-portal/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(out.Backend.BaseURL), "/")
	out.Portal.DefaultCategory = strings.TrimSpace(out.Portal.DefaultCategory)
	out.App.LogLevel = strings.ToLower(strings.TrimSpace(out.App.LogLevel))

	var origins []string
	for _, o := range out.App.AllowedOrigins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "" {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			res.addErr("app.allowed_origins: %q must start with http:// or https://", o)
			continue
		}
		if strings.ContainsAny(strings.SplitN(o, "://", 2)[1], "/?#*") {
			res.addErr("app.allowed_origins: %q must be scheme://host[:port]", o)
			continue
		}
		origins = append(origins, o)
	}
	out.App.AllowedOrigins = origins

	// Drop blank and duplicate category keys, keep first label seen.
	seen := map[string]bool{}
	var cats []domain.Category
	for _, c := range out.Categories {
		c.Key = strings.TrimSpace(c.Key)
		c.Label = strings.TrimSpace(c.Label)
		if c.Key == "" {
			continue
		}
		k := strings.ToLower(c.Key)
		if seen[k] {
			res.addWarn("duplicate category key %q dropped", c.Key)
			continue
		}
		seen[k] = true
		if c.Label == "" {
			c.Label = c.Key
		}
		cats = append(cats, c)
	}
	out.Categories = cats

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Backend.BaseURL == "" {
		res.addErr("backend.base_url is required")
	} else if !strings.HasPrefix(out.Backend.BaseURL, "http://") && !strings.HasPrefix(out.Backend.BaseURL, "https://") {
		res.addErr("backend.base_url must start with http:// or https://")
	}
	if out.Backend.TimeoutSeconds <= 0 {
		res.addErr("backend.timeout_seconds must be > 0")
	}
	if out.Backend.RatePerSecond <= 0 {
		res.addErr("backend.rate_per_second must be > 0")
	} else if out.Backend.RatePerSecond < 1 {
		res.addWarn("backend.rate_per_second is very low (%.2f); page loads will be slow.", out.Backend.RatePerSecond)
	}
	if out.Backend.Burst <= 0 {
		res.addErr("backend.burst must be > 0")
	}
	if out.Backend.MockFallback {
		res.addWarn("backend.mock_fallback is on; backend outages will show demo jobs.")
	}

	if out.Portal.ItemsPerPage <= 0 || out.Portal.ItemsPerPage > 500 {
		res.addErr("portal.items_per_page must be 1..500")
	}
	if out.Portal.StatusPageSize <= 0 {
		res.addErr("portal.status_page_size must be > 0")
	}
	if out.Portal.MaxVisiblePages < 3 {
		res.addErr("portal.max_visible_pages must be >= 3")
	}
	if out.Portal.DefaultCategory != "" && !strings.EqualFold(out.Portal.DefaultCategory, domain.CategoryAll) {
		if _, ok := domain.FindCategory(out.CategoryList(), out.Portal.DefaultCategory); !ok {
			res.addWarn("portal.default_category %q is not in the category list", out.Portal.DefaultCategory)
		}
	}

	if out.Overrides.SyncSeconds <= 0 {
		res.addErr("overrides.sync_seconds must be > 0")
	} else if out.Overrides.SyncSeconds < 10 {
		res.addWarn("overrides.sync_seconds is very low (%d) and may hammer the backend.", out.Overrides.SyncSeconds)
	}
	if out.Overrides.RetentionDays < 0 {
		res.addErr("overrides.retention_days must be >= 0")
	}

	switch out.App.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		res.addErr("app.log_level %q is not one of debug, info, warn, error", out.App.LogLevel)
	}

	return out, res
}
