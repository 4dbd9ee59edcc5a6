package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
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

func TestGetServiceDecodesEnvelope(t *testing.T) {
	id := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/services/"+id.Hex(), r.URL.Path)
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Service fetched successfully", map[string]any{
			"service": models.Service{ID: id, Title: "Plumbing"},
		}))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	service, err := client.GetService(context.Background(), id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, service.ID)
	assert.Equal(t, "Plumbing", service.Title)
}

func TestEnvelopeErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, utils.ErrorResponse("Service not found"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	_, err := client.GetService(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Service not found", apiErr.Message)
	assert.Equal(t, "Service not found", err.Error())
}

func TestSuccessFalseWithOKStatusIsStillAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, utils.ErrorResponse("something went sideways"))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	_, err := client.GetServiceStats(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "something went sideways", apiErr.Message)
}

func TestNetworkFailureIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := api.NewClient(server.URL)
	_, err := client.GetService(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)

	var apiErr *api.APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures must not masquerade as server rejections")
}

func TestListServicesSendsQueryAndDecodesPagination(t *testing.T) {
	popular := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "true", q.Get("popular"))
		assert.Equal(t, "clean", q.Get("search"))
		assert.Equal(t, "title", q.Get("sort"))

		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Services fetched successfully", map[string]any{
			"items": []models.Service{{ID: primitive.NewObjectID(), Title: "House Cleaning"}},
			"pagination": map[string]any{
				"page": 2, "totalPages": 4, "total": 80, "hasNext": true, "hasPrev": true, "limit": 25,
			},
		}))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	page, err := client.ListServices(context.Background(), api.ServiceListOptions{
		Page:    2,
		Limit:   25,
		Popular: &popular,
		Search:  "clean",
		Sort:    "title",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 4, page.Pagination.TotalPages)
	assert.Equal(t, int64(80), page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)
}

func TestTokenSourceAttachesBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("ok", map[string]any{
			"stats": models.ServiceStats{},
		}))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, api.WithTokenSource(func() string { return "test-token" }))
	_, err := client.GetServiceStats(context.Background())
	require.NoError(t, err)
}

func TestDeleteCategoryReportsCascadeCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Category deleted along with 3 associated services", map[string]any{
			"deletedServices": 3,
		}))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	deleted, err := client.DeleteCategory(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
}

func TestCreateClientPostsBody(t *testing.T) {
	userID := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got models.Client
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ama Mensah", got.FullName)
		assert.Equal(t, userID, got.UserID)

		got.ID = primitive.NewObjectID()
		writeJSON(t, w, http.StatusCreated, utils.SuccessResponse("Client profile created successfully", map[string]any{
			"client": got,
		}))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	created, err := client.CreateClient(context.Background(), models.Client{UserID: userID, FullName: "Ama Mensah"})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Ama Mensah", created.FullName)
}
