package manager_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/manager"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func listPayload(items []models.Service, page, totalPages int, total int64) any {
	return utils.SuccessResponse("Services fetched successfully", map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":       page,
			"totalPages": totalPages,
			"total":      total,
			"hasNext":    page < totalPages,
			"hasPrev":    page > 1,
			"limit":      10,
		},
	})
}

func newServiceManager(serverURL string) *manager.ServiceManager {
	return manager.NewStore(api.NewClient(serverURL)).Services
}

func TestGoToPageRefetchesWithMergedFilters(t *testing.T) {
	var lastQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query().Encode())
		writeJSON(t, w, http.StatusOK, listPayload(nil, 2, 5, 50))
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	m.SetFilters(manager.ServiceFilters{Category: "abc123", Sort: "title"})

	require.NoError(t, m.GoToPage(context.Background(), 2))

	query := lastQuery.Load().(string)
	assert.Contains(t, query, "page=2")
	assert.Contains(t, query, "category=abc123")
	assert.Contains(t, query, "sort=title")

	p := m.State().Pagination()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.TotalPages)
	assert.False(t, m.IsFirstPage())
	assert.False(t, m.IsLastPage())
}

func TestChangePageSizeResetsToFirstPage(t *testing.T) {
	var lastQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query().Encode())
		writeJSON(t, w, http.StatusOK, listPayload(nil, 1, 2, 50))
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	m.State().SetPage(4)

	require.NoError(t, m.ChangePageSize(context.Background(), 25))

	query := lastQuery.Load().(string)
	assert.Contains(t, query, "page=1")
	assert.Contains(t, query, "limit=25")
	assert.Equal(t, 25, m.State().Pagination().Limit)
}

func TestRejectedDeleteLeavesListIntact(t *testing.T) {
	seeded := []models.Service{
		{ID: primitive.NewObjectID(), Title: "A"},
		{ID: primitive.NewObjectID(), Title: "B"},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, listPayload(seeded, 1, 1, 2))
		case http.MethodDelete:
			writeJSON(t, w, http.StatusNotFound, utils.ErrorResponse("Not found"))
		}
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	require.NoError(t, m.List(context.Background()))
	require.Len(t, m.State().All(), 2)

	err := m.Delete(context.Background(), seeded[0].ID.Hex())
	require.Error(t, err)

	assert.Len(t, m.State().All(), 2)
	assert.Equal(t, "Not found", m.State().Err(state.OpDelete))
	assert.False(t, m.State().Loading(state.OpDelete))
}

func TestCreateValidationFailureNeverHitsNetwork(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	_, err := m.Create(context.Background(), models.Service{}) // missing title, category, pricing
	require.Error(t, err)

	assert.Equal(t, int64(0), atomic.LoadInt64(&requests))
	assert.False(t, m.State().Loading(state.OpCreate))
	assert.Empty(t, m.State().Err(state.OpCreate), "validation failures stay out of slice state")
}

func TestCreateUnshiftsIntoList(t *testing.T) {
	existing := models.Service{ID: primitive.NewObjectID(), Title: "existing"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, listPayload([]models.Service{existing}, 1, 1, 1))
		case http.MethodPost:
			var got models.Service
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			got.ID = primitive.NewObjectID()
			writeJSON(t, w, http.StatusCreated, utils.SuccessResponse("Service created successfully", map[string]any{
				"service": got,
			}))
		}
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	require.NoError(t, m.List(context.Background()))

	base := 50.0
	created, err := m.Create(context.Background(), models.Service{
		CategoryID: primitive.NewObjectID(),
		Title:      "fresh",
		Pricing:    models.Pricing{BasePrice: base, Currency: models.CurrencyUSD},
	})
	require.NoError(t, err)

	all := m.State().All()
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, existing.ID, all[1].ID)

	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Equal(t, created.ID, current.ID)
}

func TestOptimisticUpdateThenServerConfirmation(t *testing.T) {
	target := models.Service{ID: primitive.NewObjectID(), Title: "original", CategoryID: primitive.NewObjectID()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			writeJSON(t, w, http.StatusOK, listPayload([]models.Service{target}, 1, 1, 1))
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, target.ID.Hex()):
			confirmed := target
			confirmed.Title = "confirmed title"
			writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Service updated successfully", map[string]any{
				"service": confirmed,
			}))
		}
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	require.NoError(t, m.List(context.Background()))
	m.State().Fetched(state.OpFetch, target)

	optimistic := target
	optimistic.Title = "optimistic title"
	m.UpdateLocal(optimistic)
	assert.Equal(t, "optimistic title", m.State().All()[0].Title)

	updated, err := m.Update(context.Background(), target.ID.Hex(), models.UpdateServiceInput{
		Title:      "confirmed title",
		CategoryID: target.CategoryID,
		Pricing:    models.Pricing{BasePrice: 10, Currency: models.CurrencyUSD},
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed title", updated.Title)
	assert.Equal(t, "confirmed title", m.State().All()[0].Title)
	current, _ := m.State().Current()
	assert.Equal(t, "confirmed title", current.Title)
}

func TestErrorIsolationAcrossOperations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(t, w, http.StatusBadRequest, utils.ErrorResponse("create rejected"))
		default:
			writeJSON(t, w, http.StatusOK, listPayload(nil, 1, 0, 0))
		}
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	_, err := m.Create(context.Background(), models.Service{
		CategoryID: primitive.NewObjectID(),
		Title:      "valid enough",
		Pricing:    models.Pricing{BasePrice: 5, Currency: models.CurrencyUSD},
	})
	require.Error(t, err)

	assert.Equal(t, "create rejected", m.State().Err(state.OpCreate))
	assert.Empty(t, m.State().Err(state.OpUpdate))
	assert.Empty(t, m.State().Err(state.OpDelete))
	assert.Empty(t, m.State().Err(state.OpList))
}

func TestHasResultsAndHasFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listPayload([]models.Service{{ID: primitive.NewObjectID(), Title: "A"}}, 1, 1, 1))
	}))
	defer server.Close()

	m := newServiceManager(server.URL)
	assert.False(t, m.HasResults())
	assert.False(t, m.HasFilters())

	require.NoError(t, m.List(context.Background()))
	assert.True(t, m.HasResults())

	m.SetFilters(manager.ServiceFilters{Search: "clean"})
	assert.True(t, m.HasFilters())
	assert.Equal(t, 1, m.State().Pagination().Page, "filter change snaps back to the first page")
}
