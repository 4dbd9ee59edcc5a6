// Package catalog filters and sorts already-fetched collections in memory.
// Everything here is pure: no network calls, no mutation of the input slice.
package catalog

import (
	"sort"
	"strings"

	"github.com/developia-II/servicehub-backend/internal/models"
)

// SortKey selects the comparator for SortServices. An empty key preserves
// the server-determined order.
type SortKey string

const (
	SortTitle     SortKey = "title"
	SortTitleDesc SortKey = "title-desc"
	SortPopular   SortKey = "popular"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
)

// Filter is a conjunction: an entity passes only when every set field
// matches. Zero-valued fields are inactive.
type Filter struct {
	Search     string
	CategoryID string
	Tag        string
	Popular    *bool
}

// Active reports whether any predicate is set.
func (f Filter) Active() bool {
	return f.Search != "" || f.CategoryID != "" || f.Tag != "" || f.Popular != nil
}

// Match checks a single service against every active predicate.
func (f Filter) Match(s models.Service) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) {
			return false
		}
	}
	if f.CategoryID != "" && s.CategoryID.Hex() != f.CategoryID {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range s.Tags {
			if strings.EqualFold(tag, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Popular != nil && s.Popular != *f.Popular {
		return false
	}
	return true
}

// FilterServices returns a new slice holding the services that pass the
// filter, in their original order.
func FilterServices(services []models.Service, f Filter) []models.Service {
	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// SortServices returns a sorted copy. The sort is stable, so entries that
// compare equal keep their relative order; popular-first in particular only
// partitions the slice without reshuffling within each group.
func SortServices(services []models.Service, key SortKey) []models.Service {
	out := append([]models.Service(nil), services...)
	switch key {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortTitleDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) > strings.ToLower(out[j].Title)
		})
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Popular && !out[j].Popular
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out
}

// Apply filters then sorts, the composition order every listing page uses.
func Apply(services []models.Service, f Filter, key SortKey) []models.Service {
	return SortServices(FilterServices(services, f), key)
}

// SearchProviders is the in-memory name match used for quick filtering of an
// already-loaded provider list.
func SearchProviders(providers []models.Provider, query string) []models.Provider {
	if query == "" {
		return append([]models.Provider(nil), providers...)
	}
	needle := strings.ToLower(query)
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if strings.Contains(strings.ToLower(p.FullName), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SearchCategories matches category names and descriptions.
func SearchCategories(categories []models.Category, query string) []models.Category {
	if query == "" {
		return append([]models.Category(nil), categories...)
	}
	needle := strings.ToLower(query)
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle) {
			out = append(out, c)
		}
	}
	return out
}
