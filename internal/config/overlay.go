// config/overlay.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"jobs-portal/internal/domain"
)

type CategoriesFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// OverlayCategories replaces the catalogue with the one in categoriesPath.
func OverlayCategories(cfg *Config, categoriesPath string) error {
	b, err := os.ReadFile(categoriesPath)
	if err != nil {
		// Missing categories file should not kill startup
		return nil
	}

	var cf CategoriesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return err
	}

	if len(cf.Categories) > 0 {
		cfg.Categories = cf.Categories
	}
	return nil
}
