package listing

import (
	"strings"

	"github.com/thejzagency/swfldines/app/models"
)

// Filter narrows a directory listing before ranking. Empty fields match
// everything; Features requires every named feature to be present.
type Filter struct {
	Query      string
	City       string
	Cuisine    string
	PriceRange string
	Features   []string
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f.Query == "" && f.City == "" && f.Cuisine == "" && f.PriceRange == "" && len(f.Features) == 0
}

// Apply returns the listings matching the filter, preserving input order
func Apply(restaurants []models.Restaurant, f Filter) []models.Restaurant {
	if f.IsZero() {
		return restaurants
	}

	out := make([]models.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Restaurant, f Filter) bool {
	if f.City != "" && !strings.EqualFold(r.City, f.City) {
		return false
	}
	if f.Cuisine != "" && !strings.EqualFold(r.CuisineType, f.Cuisine) {
		return false
	}
	if f.PriceRange != "" && r.PriceRange != f.PriceRange {
		return false
	}
	for _, want := range f.Features {
		if !hasFeature(r.Features, want) {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.CuisineType), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	return true
}

func hasFeature(features models.StringList, want string) bool {
	for _, f := range features {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
