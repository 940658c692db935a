// Package resources provides the static listing of crisis lines, self-help
// material and support groups.
package resources

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var listing []byte

// Category groups resources on the dashboard.
type Category string

const (
	CategoryCrisis       Category = "crisis"
	CategoryMentalHealth Category = "mental-health"
	CategorySupportGroup Category = "support-group"
)

// Resource is one entry of the listing. Available holds opening hours or a
// meeting schedule.
type Resource struct {
	Category    Category `json:"category" yaml:"category"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Format      string   `json:"format,omitempty" yaml:"format"`
	Contact     string   `json:"contact,omitempty" yaml:"contact"`
	URL         string   `json:"url,omitempty" yaml:"url"`
	Location    string   `json:"location,omitempty" yaml:"location"`
	Available   string   `json:"available,omitempty" yaml:"available"`
}

// Load parses the embedded listing.
func Load() ([]Resource, error) {
	return Parse(listing)
}

// Parse decodes a YAML resource list.
func Parse(data []byte) ([]Resource, error) {
	var out []Resource
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse resources: %w", err)
	}
	for i, r := range out {
		switch r.Category {
		case CategoryCrisis, CategoryMentalHealth, CategorySupportGroup:
		default:
			return nil, fmt.Errorf("resource %d (%s): unknown category %q", i, r.Name, r.Category)
		}
	}
	return out, nil
}

// ByCategory keeps resources of category c. An empty c keeps everything.
func ByCategory(all []Resource, c Category) []Resource {
	if c == "" {
		return all
	}
	out := []Resource{}
	for _, r := range all {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}
