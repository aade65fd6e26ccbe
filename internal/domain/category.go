package domain

import "strings"

// CategoryAll disables the backend category filter.
const CategoryAll = "all"

const DefaultCategory = "Recommended"

type Category struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Count int    `json:"count,omitempty" yaml:"-" mapstructure:"-"`
}

// DefaultCategories is the catalogue shown when config does not override it.
var DefaultCategories = []Category{
	{Key: "Recommended", Label: "Recommended"},
	{Key: "Easy Apply", Label: "Easy Apply"},
	{Key: "Remote", Label: "Remote Jobs"},
	{Key: "IT", Label: "IT Services & Consulting"},
	{Key: "HR", Label: "Human Resources"},
	{Key: "Finance", Label: "Financial Services"},
	{Key: "Sustainability", Label: "Sustainability"},
	{Key: "Hybrid", Label: "Hybrid"},
	{Key: "Pharma", Label: "Pharmaceuticals"},
	{Key: "Part-time", Label: "Part Time Jobs"},
	{Key: "Social impact", Label: "Social Impact"},
	{Key: "Manufacturing", Label: "Manufacturing"},
	{Key: "Real estate", Label: "Real Estate"},
	{Key: "Healthcare", Label: "Healthcare & Hospitals"},
	{Key: "Government", Label: "Government"},
	{Key: "Biotech", Label: "Biotech"},
	{Key: "Defense and space", Label: "Defense and space"},
	{Key: "Operations", Label: "Operations"},
	{Key: "Construction", Label: "Construction"},
	{Key: "Small biz", Label: "Small biz"},
	{Key: "Human services", Label: "Human services"},
	{Key: "Publishing", Label: "Publishing"},
	{Key: "Retail", Label: "Retail"},
	{Key: "Hospitality", Label: "Hospitality"},
	{Key: "Education", Label: "Education"},
	{Key: "Media", Label: "Media"},
	{Key: "Restaurants", Label: "Restaurants"},
	{Key: "Logistics", Label: "Logistics"},
	{Key: "Digital security", Label: "Digital security"},
	{Key: "Marketing", Label: "Marketing"},
	{Key: "Career growth", Label: "Career growth"},
	{Key: "Higher ed", Label: "Higher ed"},
	{Key: "Food & bev", Label: "Food & bev"},
	{Key: "Non-profit", Label: "Non-profit"},
	{Key: "Gaming", Label: "Gaming"},
	{Key: "Recruiting", Label: "Recruiting"},
	{Key: "Veterinary med", Label: "Veterinary med"},
	{Key: "Civil eng", Label: "Civil eng"},
	{Key: "Work-life balance", Label: "Work-life balance"},
	{Key: "Fashion", Label: "Fashion"},
}

// FindCategory matches key case-insensitively and returns the catalogue entry.
func FindCategory(cats []Category, key string) (Category, bool) {
	key = strings.TrimSpace(key)
	for _, c := range cats {
		if strings.EqualFold(c.Key, key) {
			return c, true
		}
	}
	return Category{}, false
}
