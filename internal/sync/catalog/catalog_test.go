package catalog_test

import (
	"testing"
	"time"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool { return &b }

func titles(services []models.Service) []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Title
	}
	return out
}

// seed mirrors the catalog page's canonical ordering example: B arrives
// first and is not popular, A and C follow and are.
func seed() []models.Service {
	return []models.Service{
		{ID: primitive.NewObjectID(), Title: "B", Popular: false},
		{ID: primitive.NewObjectID(), Title: "A", Popular: true},
		{ID: primitive.NewObjectID(), Title: "C", Popular: true},
	}
}

func TestSortPopularPartitionsPreservingOrder(t *testing.T) {
	got := catalog.SortServices(seed(), catalog.SortPopular)
	assert.Equal(t, []string{"A", "C", "B"}, titles(got))
}

func TestSortTitleAscending(t *testing.T) {
	got := catalog.SortServices(seed(), catalog.SortTitle)
	assert.Equal(t, []string{"A", "B", "C"}, titles(got))
}

func TestSortTitleDescending(t *testing.T) {
	got := catalog.SortServices(seed(), catalog.SortTitleDesc)
	assert.Equal(t, []string{"C", "B", "A"}, titles(got))
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	once := catalog.SortServices(seed(), catalog.SortTitle)
	twice := catalog.SortServices(once, catalog.SortTitle)
	assert.Equal(t, titles(once), titles(twice))
}

func TestSortByCreationTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	services := []models.Service{
		{ID: primitive.NewObjectID(), Title: "middle", CreatedAt: base.Add(time.Hour)},
		{ID: primitive.NewObjectID(), Title: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: primitive.NewObjectID(), Title: "oldest", CreatedAt: base},
	}

	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(catalog.SortServices(services, catalog.SortNewest)))
	assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(catalog.SortServices(services, catalog.SortOldest)))
}

func TestEmptySortKeyPreservesServerOrder(t *testing.T) {
	in := seed()
	got := catalog.SortServices(in, "")
	assert.Equal(t, titles(in), titles(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := seed()
	_ = catalog.SortServices(in, catalog.SortTitle)
	assert.Equal(t, []string{"B", "A", "C"}, titles(in))
}

func TestFilterSearchMatchesTitleAndDescription(t *testing.T) {
	services := []models.Service{
		{ID: primitive.NewObjectID(), Title: "House Cleaning"},
		{ID: primitive.NewObjectID(), Title: "Plumbing", Description: "pipe cleaning and repair"},
		{ID: primitive.NewObjectID(), Title: "Tutoring"},
	}

	got := catalog.FilterServices(services, catalog.Filter{Search: "CLEANING"})
	assert.Equal(t, []string{"House Cleaning", "Plumbing"}, titles(got))
}

func TestFilterComposition(t *testing.T) {
	categoryID := primitive.NewObjectID()
	otherCategory := primitive.NewObjectID()
	services := []models.Service{
		{ID: primitive.NewObjectID(), Title: "match", CategoryID: categoryID, Popular: true},
		{ID: primitive.NewObjectID(), Title: "match but wrong category", CategoryID: otherCategory, Popular: true},
		{ID: primitive.NewObjectID(), Title: "match but not popular", CategoryID: categoryID, Popular: false},
		{ID: primitive.NewObjectID(), Title: "no hit at all", CategoryID: categoryID, Popular: true},
	}

	f := catalog.Filter{
		Search:     "match",
		CategoryID: categoryID.Hex(),
		Popular:    boolPtr(true),
	}
	got := catalog.FilterServices(services, f)

	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].Title)
	assert.LessOrEqual(t, len(got), len(services))
	for _, s := range got {
		assert.True(t, f.Match(s))
	}
	for _, s := range services {
		if f.Match(s) {
			assert.Contains(t, titles(got), s.Title)
		}
	}
}

func TestFilterTag(t *testing.T) {
	services := []models.Service{
		{ID: primitive.NewObjectID(), Title: "tagged", Tags: []string{"Outdoor", "weekend"}},
		{ID: primitive.NewObjectID(), Title: "untagged"},
	}

	got := catalog.FilterServices(services, catalog.Filter{Tag: "outdoor"})
	require.Len(t, got, 1)
	assert.Equal(t, "tagged", got[0].Title)
}

func TestInactiveFilterPassesEverything(t *testing.T) {
	in := seed()
	got := catalog.FilterServices(in, catalog.Filter{})
	assert.Len(t, got, len(in))
	assert.False(t, catalog.Filter{}.Active())
}

func TestApplyFiltersThenSorts(t *testing.T) {
	services := append(seed(), models.Service{
		ID: primitive.NewObjectID(), Title: "D", Popular: false,
	})

	got := catalog.Apply(services, catalog.Filter{Popular: boolPtr(true)}, catalog.SortTitle)
	assert.Equal(t, []string{"A", "C"}, titles(got))
}

func TestSearchProvidersByName(t *testing.T) {
	providers := []models.Provider{
		{ID: primitive.NewObjectID(), FullName: "Ama Mensah"},
		{ID: primitive.NewObjectID(), FullName: "Kofi Boateng"},
	}

	got := catalog.SearchProviders(providers, "mensah")
	require.Len(t, got, 1)
	assert.Equal(t, "Ama Mensah", got[0].FullName)

	assert.Len(t, catalog.SearchProviders(providers, ""), 2)
}

func TestSearchCategories(t *testing.T) {
	categories := []models.Category{
		{ID: primitive.NewObjectID(), Name: "Home Repair", Description: "fixing things around the house"},
		{ID: primitive.NewObjectID(), Name: "Education"},
	}

	byName := catalog.SearchCategories(categories, "repair")
	require.Len(t, byName, 1)
	assert.Equal(t, "Home Repair", byName[0].Name)

	byDescription := catalog.SearchCategories(categories, "house")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Home Repair", byDescription[0].Name)
}
