package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobs-portal/internal/domain"
)

func TestEnsureUserConfig_WritesDefaultsWhenNoTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir, filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Portal.ItemsPerPage != 50 {
		t.Errorf("items_per_page = %d", cfg.Portal.ItemsPerPage)
	}
}

func TestEnsureUserConfig_CopiesTemplateOnce(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.yml")
	if err := os.WriteFile(tmpl, []byte("app:\n  port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data := filepath.Join(dir, "data")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := EnsureUserConfig(data, tmpl)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := os.WriteFile(tmpl, []byte("app:\n  port: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(data, tmpl); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.App.Port)
	}
	// untouched keys fall back to defaults
	if cfg.Portal.MaxVisiblePages != 5 {
		t.Errorf("max_visible_pages = %d", cfg.Portal.MaxVisiblePages)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := SaveAtomic(path, Default()); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("PORTAL_BACKEND_BASE_URL", "http://jobs.internal:8080")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://jobs.internal:8080" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	cfg := Default()
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg.App.Port = 40000
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.App.Port != 40000 {
		t.Errorf("port = %d", got.App.Port)
	}
}

func TestSaveAtomic_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "not a url"
	err := SaveAtomic(filepath.Join(t.TempDir(), "c.yml"), cfg)
	if err == nil || !strings.Contains(err.Error(), "backend.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = " http://localhost:5000/ "
	cfg.Categories = []domain.Category{
		{Key: "Remote", Label: "Remote Jobs"},
		{Key: " remote ", Label: "dup"},
		{Key: "", Label: "blank"},
		{Key: "IT"},
	}

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}
	if out.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("base_url = %q", out.Backend.BaseURL)
	}
	if len(out.Categories) != 2 {
		t.Fatalf("categories = %+v", out.Categories)
	}
	if out.Categories[1].Label != "IT" {
		t.Errorf("label should default to key, got %q", out.Categories[1].Label)
	}
	// duplicate + default_category not in overridden list
	if len(vr.Warnings) != 2 {
		t.Errorf("warnings = %v", vr.Warnings)
	}
}

func TestNormalizeAndValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "ftp://x"
	cfg.Portal.ItemsPerPage = 0
	cfg.App.LogLevel = "loud"

	_, vr := NormalizeAndValidate(cfg)
	if vr.OK() {
		t.Fatal("expected errors")
	}
	if len(vr.Errors) != 3 {
		t.Errorf("errors = %v", vr.Errors)
	}
}

func TestNormalizeAndValidate_AllowedOrigins(t *testing.T) {
	cfg := Default()
	cfg.App.AllowedOrigins = []string{" HTTP://Localhost:5173/ ", "", "https://app.example.com"}

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("errors = %v", vr.Errors)
	}
	want := []string{"http://localhost:5173", "https://app.example.com"}
	if len(out.App.AllowedOrigins) != 2 || out.App.AllowedOrigins[0] != want[0] || out.App.AllowedOrigins[1] != want[1] {
		t.Errorf("origins = %v", out.App.AllowedOrigins)
	}

	cfg.App.AllowedOrigins = []string{"*", "https://evil.example/path"}
	if _, vr := NormalizeAndValidate(cfg); len(vr.Errors) != 2 {
		t.Errorf("errors = %v", vr.Errors)
	}
}

func TestOverlayCategories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yml")
	body := "categories:\n  - key: Gaming\n    label: Games\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := OverlayCategories(&cfg, path); err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if len(cfg.CategoryList()) != 1 || cfg.CategoryList()[0].Label != "Games" {
		t.Errorf("categories = %+v", cfg.CategoryList())
	}

	cfg = Default()
	if err := OverlayCategories(&cfg, filepath.Join(dir, "missing.yml")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
	if len(cfg.CategoryList()) != len(domain.DefaultCategories) {
		t.Error("expected built-in catalogue")
	}
}
