package manager

import (
	"context"
	"sync"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/go-playground/validator/v10"
)

type ClientFilters struct {
	Region string
	City   string
	Search string
}

func (f ClientFilters) active() bool {
	return f.Region != "" || f.City != "" || f.Search != ""
}

type ClientManager struct {
	api      *api.Client
	slice    *state.Slice[models.Client, state.None, models.ClientStats]
	validate *validator.Validate

	mu      sync.Mutex
	filters ClientFilters
}

func NewClientManager(client *api.Client, validate *validator.Validate) *ClientManager {
	return &ClientManager{
		api:      client,
		slice:    state.NewSlice[models.Client, state.None, models.ClientStats](func(c models.Client) string { return c.ID.Hex() }),
		validate: validate,
	}
}

func (m *ClientManager) State() *state.Slice[models.Client, state.None, models.ClientStats] {
	return m.slice
}

func (m *ClientManager) Create(ctx context.Context, client models.Client) (models.Client, error) {
	if err := m.validate.Struct(client); err != nil {
		return models.Client{}, err
	}
	m.slice.Begin(state.OpCreate)
	created, err := m.api.CreateClient(ctx, client)
	if err != nil {
		m.slice.Fail(state.OpCreate, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Created(created)
	return created, nil
}

func (m *ClientManager) Get(ctx context.Context, id string) (models.Client, error) {
	m.slice.Begin(state.OpFetch)
	client, err := m.api.GetClient(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpFetch, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Fetched(state.OpFetch, client)
	return client, nil
}

func (m *ClientManager) GetByUser(ctx context.Context, userID string) (models.Client, error) {
	m.slice.Begin(state.OpFetchByUser)
	client, err := m.api.GetClientByUser(ctx, userID)
	if err != nil {
		m.slice.Fail(state.OpFetchByUser, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Fetched(state.OpFetchByUser, client)
	return client, nil
}

func (m *ClientManager) List(ctx context.Context) error {
	m.mu.Lock()
	filters := m.filters
	m.mu.Unlock()
	p := m.slice.Pagination()

	m.slice.Begin(state.OpList)
	page, err := m.api.ListClients(ctx, api.ClientListOptions{
		Page:   p.Page,
		Limit:  p.Limit,
		Region: filters.Region,
		City:   filters.City,
		Search: filters.Search,
	})
	if err != nil {
		m.slice.Fail(state.OpList, errMessage(err))
		return err
	}
	m.slice.ListLoaded(page.Items, page.Pagination)
	return nil
}

func (m *ClientManager) Search(ctx context.Context, query string) ([]models.Client, error) {
	m.slice.Begin(state.OpSearch)
	items, err := m.api.SearchClients(ctx, query)
	if err != nil {
		m.slice.Fail(state.OpSearch, errMessage(err))
		return nil, err
	}
	m.slice.SearchLoaded(items)
	return items, nil
}

func (m *ClientManager) Update(ctx context.Context, id string, input models.UpdateClientInput) (models.Client, error) {
	m.slice.Begin(state.OpUpdate)
	updated, err := m.api.UpdateClient(ctx, id, input)
	if err != nil {
		m.slice.Fail(state.OpUpdate, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Updated(state.OpUpdate, updated)
	return updated, nil
}

func (m *ClientManager) Delete(ctx context.Context, id string) error {
	m.slice.Begin(state.OpDelete)
	if err := m.api.DeleteClient(ctx, id); err != nil {
		m.slice.Fail(state.OpDelete, errMessage(err))
		return err
	}
	m.slice.Deleted(id)
	return nil
}

// AddServiceRequest books a service; the server returns the whole updated
// client, which replaces both the detail slot and the list copy.
func (m *ClientManager) AddServiceRequest(ctx context.Context, clientID string, input models.AddServiceRequestInput) (models.Client, error) {
	m.slice.Begin(state.OpChild)
	updated, err := m.api.AddServiceRequest(ctx, clientID, input)
	if err != nil {
		m.slice.Fail(state.OpChild, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Updated(state.OpChild, updated)
	return updated, nil
}

func (m *ClientManager) UpdateRequestStatus(ctx context.Context, clientID, requestID string, status models.RequestStatus) (models.Client, error) {
	m.slice.Begin(state.OpChild)
	updated, err := m.api.UpdateServiceRequestStatus(ctx, clientID, requestID, status)
	if err != nil {
		m.slice.Fail(state.OpChild, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Updated(state.OpChild, updated)
	return updated, nil
}

func (m *ClientManager) RateProvider(ctx context.Context, clientID, providerID string, input models.RateProviderInput) (models.Client, error) {
	m.slice.Begin(state.OpChild)
	updated, err := m.api.RateProvider(ctx, clientID, providerID, input)
	if err != nil {
		m.slice.Fail(state.OpChild, errMessage(err))
		return models.Client{}, err
	}
	m.slice.Updated(state.OpChild, updated)
	return updated, nil
}

func (m *ClientManager) FetchStats(ctx context.Context) (models.ClientStats, error) {
	m.slice.Begin(state.OpStats)
	stats, err := m.api.GetClientStats(ctx)
	if err != nil {
		m.slice.Fail(state.OpStats, errMessage(err))
		return models.ClientStats{}, err
	}
	m.slice.StatsLoaded(stats)
	return stats, nil
}

func (m *ClientManager) UpdateLocal(client models.Client) {
	m.slice.ApplyLocal(client)
}

func (m *ClientManager) SetFilters(f ClientFilters) {
	m.mu.Lock()
	m.filters = f
	m.mu.Unlock()
	m.slice.SetPage(1)
}

func (m *ClientManager) Filters() ClientFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

func (m *ClientManager) GoToPage(ctx context.Context, n int) error {
	m.slice.SetPage(n)
	return m.List(ctx)
}

func (m *ClientManager) ChangePageSize(ctx context.Context, size int) error {
	m.slice.SetLimit(size)
	m.slice.SetPage(1)
	return m.List(ctx)
}

func (m *ClientManager) HasResults() bool {
	return len(m.slice.All()) > 0
}

func (m *ClientManager) IsFirstPage() bool {
	return m.slice.Pagination().Page <= 1
}

func (m *ClientManager) IsLastPage() bool {
	return !m.slice.Pagination().HasNext
}

func (m *ClientManager) HasFilters() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.active()
}
