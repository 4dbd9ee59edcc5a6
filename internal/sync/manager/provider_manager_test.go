package manager_test

import (
	"context"
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

func sampleProvider() models.Provider {
	return models.Provider{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		FullName: "Kofi Boateng",
		Witnesses: []models.Witness{
			{ID: "w1", FullName: "Ama Mensah", Phone: "0241234567", IDType: "ghana-card", IDNumber: "GHA-1", Relationship: "sister"},
		},
	}
}

func providerListPayload(items []models.Provider) any {
	return utils.SuccessResponse("Providers fetched successfully", map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page": 1, "totalPages": 1, "total": len(items), "hasNext": false, "hasPrev": false, "limit": 10,
		},
	})
}

func TestRemoveLastWitnessRejected(t *testing.T) {
	provider := sampleProvider()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, provider.ID.Hex()):
			writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Provider fetched successfully", map[string]any{
				"provider": provider,
			}))
		case r.Method == http.MethodDelete:
			writeJSON(t, w, http.StatusBadRequest, utils.ErrorResponse("a provider must keep at least one witness on file"))
		}
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Providers
	_, err := m.Get(context.Background(), provider.ID.Hex())
	require.NoError(t, err)

	_, err = m.RemoveWitness(context.Background(), provider.ID.Hex(), "w1")
	require.Error(t, err)

	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Len(t, current.Witnesses, 1, "rejected removal leaves the witness list untouched")
	assert.Equal(t, "a provider must keep at least one witness on file", m.State().Err(state.OpChild))
}

func TestAddWitnessSyncsDetailAndList(t *testing.T) {
	provider := sampleProvider()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, providerListPayload([]models.Provider{provider}))
		case http.MethodPost:
			updated := provider
			updated.Witnesses = append(append([]models.Witness(nil), provider.Witnesses...), models.Witness{
				ID: "w2", FullName: "Yaw Darko", Phone: "0209876543", IDType: "passport", IDNumber: "P-7", Relationship: "friend",
			})
			writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Witness added successfully", map[string]any{
				"provider": updated,
			}))
		}
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Providers
	require.NoError(t, m.List(context.Background()))

	updated, err := m.AddWitness(context.Background(), provider.ID.Hex(), models.AddWitnessInput{
		FullName: "Yaw Darko", Phone: "0209876543", IDType: "passport", IDNumber: "P-7", Relationship: "friend",
	})
	require.NoError(t, err)
	assert.Len(t, updated.Witnesses, 2)

	all := m.State().All()
	require.Len(t, all, 1)
	assert.Len(t, all[0].Witnesses, 2, "list copy patched in the same pass")
	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Len(t, current.Witnesses, 2)
}

func TestAddWitnessValidationShortCircuits(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Providers
	_, err := m.AddWitness(context.Background(), primitive.NewObjectID().Hex(), models.AddWitnessInput{
		FullName: "only a name",
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), atomic.LoadInt64(&requests))
}

func TestDistrictFilterRoutesThroughLocationEndpoint(t *testing.T) {
	var lastPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath.Store(r.URL.Path + "?" + r.URL.Query().Encode())
		writeJSON(t, w, http.StatusOK, providerListPayload(nil))
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Providers

	m.SetFilters(manager.ProviderFilters{Region: "Greater Accra"})
	require.NoError(t, m.List(context.Background()))
	assert.Contains(t, lastPath.Load().(string), "/api/v1/providers?")

	m.SetFilters(manager.ProviderFilters{Region: "Greater Accra", District: "Osu"})
	require.NoError(t, m.List(context.Background()))
	got := lastPath.Load().(string)
	assert.Contains(t, got, "/api/v1/providers/location?")
	assert.Contains(t, got, "district=Osu")
}

func TestGetByUserSetsCurrent(t *testing.T) {
	provider := sampleProvider()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/user/"+provider.UserID.Hex())
		writeJSON(t, w, http.StatusOK, utils.SuccessResponse("Provider fetched successfully", map[string]any{
			"provider": provider,
		}))
	}))
	defer server.Close()

	m := manager.NewStore(api.NewClient(server.URL)).Providers
	got, err := m.GetByUser(context.Background(), provider.UserID.Hex())
	require.NoError(t, err)
	assert.Equal(t, provider.ID, got.ID)

	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Equal(t, provider.ID, current.ID)
	assert.False(t, m.State().Loading(state.OpFetchByUser))
}
