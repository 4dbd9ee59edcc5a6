package state_test

import (
	"testing"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newServiceSlice() *state.Slice[models.Service, state.None, models.ServiceStats] {
	return state.NewSlice[models.Service, state.None, models.ServiceStats](
		func(s models.Service) string { return s.ID.Hex() },
	)
}

func service(title string, popular bool) models.Service {
	return models.Service{
		ID:      primitive.NewObjectID(),
		Title:   title,
		Popular: popular,
	}
}

func TestListLoadedReplacesInsteadOfAppending(t *testing.T) {
	s := newServiceSlice()
	items := []models.Service{service("A", false), service("B", true)}
	page := api.Pagination{Page: 1, TotalPages: 1, Total: 2, Limit: 10}

	s.ListLoaded(items, page)
	s.ListLoaded(items, page)

	got := s.All()
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID)
	assert.Equal(t, items[1].ID, got[1].ID)
}

func TestListLoadedPreservesLocalLimit(t *testing.T) {
	s := newServiceSlice()
	s.SetLimit(25)

	s.ListLoaded([]models.Service{service("A", false)}, api.Pagination{
		Page: 3, TotalPages: 7, Total: 61, HasNext: true, HasPrev: true, Limit: 10,
	})

	p := s.Pagination()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 7, p.TotalPages)
	assert.Equal(t, int64(61), p.Total)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.Equal(t, 25, p.Limit, "page size stays under local control")
}

func TestCreatedPrependsAndSetsCurrent(t *testing.T) {
	s := newServiceSlice()
	existing := service("old", false)
	s.ListLoaded([]models.Service{existing}, api.Pagination{Page: 1, Limit: 10})

	created := service("new", true)
	s.Created(created)

	got := s.All()
	require.Len(t, got, 2)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, existing.ID, got[1].ID)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, created.ID, current.ID)
	assert.False(t, s.Loading(state.OpCreate))
}

func TestUpdatedPatchesBothSlots(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	b := service("B", false)
	s.ListLoaded([]models.Service{a, b}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, b)

	updated := b
	updated.Title = "B renamed"
	s.Updated(state.OpUpdate, updated)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "B renamed", current.Title)

	got := s.All()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B renamed", got[1].Title)
}

func TestDeletedRemovesFromListAndClearsCurrent(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	b := service("B", false)
	s.ListLoaded([]models.Service{a, b}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, a)
	s.Select(a.ID.Hex())

	s.Deleted(a.ID.Hex())

	got := s.All()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	_, ok := s.Current()
	assert.False(t, ok, "current entity cleared when it was the deleted one")
	assert.Empty(t, s.SelectedID())
}

func TestDeletedKeepsUnrelatedCurrent(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	b := service("B", false)
	s.ListLoaded([]models.Service{a, b}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, b)

	s.Deleted(a.ID.Hex())

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, b.ID, current.ID)
}

func TestErrorIsolationBetweenOperations(t *testing.T) {
	s := newServiceSlice()
	s.Begin(state.OpUpdate)
	s.Fail(state.OpUpdate, "update broke")

	s.Begin(state.OpCreate)
	s.Fail(state.OpCreate, "create broke")

	assert.Equal(t, "create broke", s.Err(state.OpCreate))
	assert.Equal(t, "update broke", s.Err(state.OpUpdate))
	assert.Empty(t, s.Err(state.OpDelete))
	assert.Empty(t, s.Err(state.OpList))
}

func TestBeginClearsPreviousError(t *testing.T) {
	s := newServiceSlice()
	s.Begin(state.OpDelete)
	s.Fail(state.OpDelete, "Not found")
	require.Equal(t, "Not found", s.Err(state.OpDelete))

	s.Begin(state.OpDelete)
	assert.Empty(t, s.Err(state.OpDelete))
	assert.True(t, s.Loading(state.OpDelete))
}

func TestFailLeavesEntityStateUntouched(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	s.ListLoaded([]models.Service{a}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, a)

	s.Begin(state.OpDelete)
	s.Fail(state.OpDelete, "Not found")

	assert.Len(t, s.All(), 1, "failed delete leaves the entity in the list")
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, a.ID, current.ID)
	assert.False(t, s.Loading(state.OpDelete))
}

func TestSearchLoadedDoesNotTouchList(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	s.ListLoaded([]models.Service{a}, api.Pagination{Page: 1, Limit: 10})

	hit := service("match", true)
	s.SearchLoaded([]models.Service{hit})

	assert.Len(t, s.All(), 1)
	results := s.SearchResults()
	require.Len(t, results, 1)
	assert.Equal(t, hit.ID, results[0].ID)
}

func TestApplyLocalPatchesWithoutFlags(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	s.ListLoaded([]models.Service{a}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, a)

	edited := a
	edited.Title = "A edited"
	s.ApplyLocal(edited)

	current, _ := s.Current()
	assert.Equal(t, "A edited", current.Title)
	assert.Equal(t, "A edited", s.All()[0].Title)
	assert.False(t, s.Loading(state.OpUpdate))
	assert.Empty(t, s.Err(state.OpUpdate))
}

func TestServerConfirmedUpdateOverwritesLocal(t *testing.T) {
	s := newServiceSlice()
	a := service("A", false)
	s.ListLoaded([]models.Service{a}, api.Pagination{Page: 1, Limit: 10})
	s.Fetched(state.OpFetch, a)

	local := a
	local.Title = "optimistic"
	s.ApplyLocal(local)

	confirmed := a
	confirmed.Title = "confirmed"
	s.Updated(state.OpUpdate, confirmed)

	current, _ := s.Current()
	assert.Equal(t, "confirmed", current.Title)
	assert.Equal(t, "confirmed", s.All()[0].Title)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newServiceSlice()
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.Begin(state.OpList)
	s.ListLoaded(nil, api.Pagination{Page: 1, Limit: 10})
	require.Equal(t, 2, calls)

	unsubscribe()
	s.Begin(state.OpList)
	assert.Equal(t, 2, calls)
}

func TestFormFlagsAndSelection(t *testing.T) {
	s := newServiceSlice()
	assert.False(t, s.FormOpen("edit"))

	s.SetFormOpen("edit", true)
	s.Select("abc")
	assert.True(t, s.FormOpen("edit"))
	assert.Equal(t, "abc", s.SelectedID())

	s.SetFormOpen("edit", false)
	assert.False(t, s.FormOpen("edit"))
}

func TestStatsLoaded(t *testing.T) {
	s := newServiceSlice()
	_, ok := s.Stats()
	require.False(t, ok)

	s.Begin(state.OpStats)
	s.StatsLoaded(models.ServiceStats{TotalServices: 12, ActiveServices: 9, PopularServices: 4})

	stats, ok := s.Stats()
	require.True(t, ok)
	assert.Equal(t, 12, stats.TotalServices)
	assert.False(t, s.Loading(state.OpStats))
}
