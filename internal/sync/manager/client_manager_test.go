package manager_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/manager"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleClient() models.Client {
	return models.Client{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		FullName: "Ama Mensah",
	}
}

func clientListPayload(items []models.Client) any {
	return utils.SuccessResponse("Clients fetched successfully", map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page": 1, "totalPages": 1, "total": len(items), "hasNext": false, "hasPrev": false, "limit": 10,
		},
	})
}

func TestRejectedDeleteClientKeepsState(t *testing.T) {
	seeded := sampleClient()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, clientListPayload([]models.Client{seeded}))
		case http.MethodDelete:
			writeJSON(t, w, http.StatusNotFound, utils.ErrorResponse("Not found"))
		}
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Clients
	require.NoError(t, m.List(context.Background()))
	require.Empty(t, m.State().Err(state.OpDelete))

	err := m.Delete(context.Background(), "abc")
	require.Error(t, err)

	assert.False(t, m.State().Loading(state.OpDelete))
	assert.Equal(t, "Not found", m.State().Err(state.OpDelete))
	assert.Len(t, m.State().All(), 1, "failed delete leaves the client in the list")
}

func TestAddServiceRequestReplacesParentEntity(t *testing.T) {
	seeded := sampleClient()
	serviceID := primitive.NewObjectID()
	providerID := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, clientListPayload([]models.Client{seeded}))
		case http.MethodPost:
			updated := seeded
			updated.ServiceRequests = []models.ServiceRequest{{
				ID:         "req-1",
				ServiceID:  serviceID,
				ProviderID: providerID,
				Status:     models.RequestStatusPending,
				Date:       time.Now(),
			}}
			writeJSON(t, w, http.StatusCreated, utils.SuccessResponse("Service request created", map[string]any{
				"client": updated,
			}))
		}
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Clients
	require.NoError(t, m.List(context.Background()))

	updated, err := m.AddServiceRequest(context.Background(), seeded.ID.Hex(), models.AddServiceRequestInput{
		ServiceID:  serviceID,
		ProviderID: providerID,
		Date:       time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, updated.ServiceRequests, 1)
	assert.Equal(t, models.RequestStatusPending, updated.ServiceRequests[0].Status)

	all := m.State().All()
	require.Len(t, all, 1)
	assert.Len(t, all[0].ServiceRequests, 1)
	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Len(t, current.ServiceRequests, 1)
}

func TestUpdateRequestStatusHitsStatusRoute(t *testing.T) {
	seeded := sampleClient()
	seeded.ServiceRequests = []models.ServiceRequest{{ID: "req-9", Status: models.RequestStatusPending}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/requests/req-9/status"))

		updated := seeded
		updated.ServiceRequests = []models.ServiceRequest{{ID: "req-9", Status: models.RequestStatusCompleted}}
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Request status updated", map[string]any{
			"client": updated,
		}))
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Clients
	updated, err := m.UpdateRequestStatus(context.Background(), seeded.ID.Hex(), "req-9", models.RequestStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, updated.ServiceRequests[0].Status)
}

func TestRateProviderSettlesChildOperation(t *testing.T) {
	seeded := sampleClient()
	providerID := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/ratings/"+providerID.Hex()))
		updated := seeded
		updated.Ratings = []models.ClientRating{{ProviderID: providerID, Rating: 5, Comment: "great work"}}
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Rating submitted successfully", map[string]any{
			"client": updated,
		}))
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Clients
	updated, err := m.RateProvider(context.Background(), seeded.ID.Hex(), providerID.Hex(), models.RateProviderInput{
		Rating: 5, Comment: "great work",
	})
	require.NoError(t, err)
	require.Len(t, updated.Ratings, 1)
	assert.Equal(t, 5, updated.Ratings[0].Rating)
	assert.False(t, m.State().Loading(state.OpChild))
	assert.Empty(t, m.State().Err(state.OpChild))
}

func TestCategoryDeleteReportsCascade(t *testing.T) {
	category := models.Category{ID: primitive.NewObjectID(), Name: "Cleaning", ServiceCount: 3}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Categories fetched successfully", map[string]any{
				"items": []models.Category{category},
				"pagination": map[string]any{
					"page": 1, "totalPages": 1, "total": 1, "hasNext": false, "hasPrev": false, "limit": 10,
				},
			}))
		case http.MethodDelete:
			writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Category deleted along with 3 associated services", map[string]any{
				"deletedServices": 3,
			}))
		}
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Categories
	require.NoError(t, m.List(context.Background()))
	require.Len(t, m.State().All(), 1)

	deleted, err := m.Delete(context.Background(), category.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Empty(t, m.State().All(), "cascade delete removes the category from the list")
}
