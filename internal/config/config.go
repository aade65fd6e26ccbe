package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"jobs-portal/internal/domain"
)

type AppConfig struct {
	Port     int    `yaml:"port" mapstructure:"port" json:"port"`
	DataDir  string `yaml:"data_dir" mapstructure:"data_dir" json:"data_dir"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level" json:"log_level"`
	// Extra browser origins (scheme://host[:port]) allowed to call the API.
	// The portal's own origin is always allowed.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" mapstructure:"allowed_origins" json:"allowed_origins,omitempty"`
}

type BackendConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url" json:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds" json:"timeout_seconds"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second" json:"rate_per_second"`
	Burst          int     `yaml:"burst" mapstructure:"burst" json:"burst"`
	MockFallback   bool    `yaml:"mock_fallback" mapstructure:"mock_fallback" json:"mock_fallback"`
	// Keyring account holding the bearer token; empty disables auth.
	TokenAccount string `yaml:"token_account" mapstructure:"token_account" json:"token_account"`
}

type PortalConfig struct {
	DefaultCategory string `yaml:"default_category" mapstructure:"default_category" json:"default_category"`
	ItemsPerPage    int    `yaml:"items_per_page" mapstructure:"items_per_page" json:"items_per_page"`
	StatusPageSize  int    `yaml:"status_page_size" mapstructure:"status_page_size" json:"status_page_size"`
	MaxVisiblePages int    `yaml:"max_visible_pages" mapstructure:"max_visible_pages" json:"max_visible_pages"`
}

type OverridesConfig struct {
	SyncSeconds   int `yaml:"sync_seconds" mapstructure:"sync_seconds" json:"sync_seconds"`
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days" json:"retention_days"`
}

type Config struct {
	App        AppConfig         `yaml:"app" mapstructure:"app" json:"app"`
	Backend    BackendConfig     `yaml:"backend" mapstructure:"backend" json:"backend"`
	Portal     PortalConfig      `yaml:"portal" mapstructure:"portal" json:"portal"`
	Overrides  OverridesConfig   `yaml:"overrides" mapstructure:"overrides" json:"overrides"`
	Categories []domain.Category `yaml:"categories,omitempty" mapstructure:"categories" json:"categories,omitempty"`
}

// Default is what a fresh install runs with.
func Default() Config {
	return Config{
		App: AppConfig{Port: 38471, DataDir: ".", LogLevel: "info"},
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
			RatePerSecond:  5,
			Burst:          10,
		},
		Portal: PortalConfig{
			DefaultCategory: domain.DefaultCategory,
			ItemsPerPage:    50,
			StatusPageSize:  50,
			MaxVisiblePages: 5,
		},
		Overrides: OverridesConfig{SyncSeconds: 60, RetentionDays: 30},
	}
}

// CategoryList returns the configured catalogue or the built-in one.
func (c Config) CategoryList() []domain.Category {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	return domain.DefaultCategories
}

func (c Config) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.App.Port)
}

// Load reads path and applies PORTAL_* environment overrides
// (PORTAL_BACKEND_BASE_URL, PORTAL_APP_PORT, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.port", d.App.Port)
	v.SetDefault("app.data_dir", d.App.DataDir)
	v.SetDefault("app.log_level", d.App.LogLevel)
	v.SetDefault("app.allowed_origins", []string{})
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.timeout_seconds", d.Backend.TimeoutSeconds)
	v.SetDefault("backend.rate_per_second", d.Backend.RatePerSecond)
	v.SetDefault("backend.burst", d.Backend.Burst)
	v.SetDefault("backend.mock_fallback", d.Backend.MockFallback)
	v.SetDefault("backend.token_account", d.Backend.TokenAccount)
	v.SetDefault("portal.default_category", d.Portal.DefaultCategory)
	v.SetDefault("portal.items_per_page", d.Portal.ItemsPerPage)
	v.SetDefault("portal.status_page_size", d.Portal.StatusPageSize)
	v.SetDefault("portal.max_visible_pages", d.Portal.MaxVisiblePages)
	v.SetDefault("overrides.sync_seconds", d.Overrides.SyncSeconds)
	v.SetDefault("overrides.retention_days", d.Overrides.RetentionDays)
}
