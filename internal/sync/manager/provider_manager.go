package manager

import (
	"context"
	"sync"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/go-playground/validator/v10"
)

// ProviderFilters combines the directory filters with the location query.
// District is only honoured by the location endpoint, so List switches to it
// whenever District is set.
type ProviderFilters struct {
	Region    string
	City      string
	District  string
	ServiceID string
	MinRating float64
	Search    string
}

func (f ProviderFilters) active() bool {
	return f.Region != "" || f.City != "" || f.District != "" ||
		f.ServiceID != "" || f.MinRating > 0 || f.Search != ""
}

type ProviderManager struct {
	api      *api.Client
	slice    *state.Slice[models.Provider, state.None, models.ProviderStats]
	validate *validator.Validate

	mu      sync.Mutex
	filters ProviderFilters
}

func NewProviderManager(client *api.Client, validate *validator.Validate) *ProviderManager {
	return &ProviderManager{
		api:      client,
		slice:    state.NewSlice[models.Provider, state.None, models.ProviderStats](func(p models.Provider) string { return p.ID.Hex() }),
		validate: validate,
	}
}

func (m *ProviderManager) State() *state.Slice[models.Provider, state.None, models.ProviderStats] {
	return m.slice
}

func (m *ProviderManager) Create(ctx context.Context, provider models.Provider) (models.Provider, error) {
	if err := m.validate.Struct(provider); err != nil {
		return models.Provider{}, err
	}
	m.slice.Begin(state.OpCreate)
	created, err := m.api.CreateProvider(ctx, provider)
	if err != nil {
		m.slice.Fail(state.OpCreate, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Created(created)
	return created, nil
}

func (m *ProviderManager) Get(ctx context.Context, id string) (models.Provider, error) {
	m.slice.Begin(state.OpFetch)
	provider, err := m.api.GetProvider(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpFetch, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Fetched(state.OpFetch, provider)
	return provider, nil
}

func (m *ProviderManager) GetByUser(ctx context.Context, userID string) (models.Provider, error) {
	m.slice.Begin(state.OpFetchByUser)
	provider, err := m.api.GetProviderByUser(ctx, userID)
	if err != nil {
		m.slice.Fail(state.OpFetchByUser, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Fetched(state.OpFetchByUser, provider)
	return provider, nil
}

// List fetches the current page with the merged filters, routing through the
// location endpoint when a district is set.
func (m *ProviderManager) List(ctx context.Context) error {
	m.mu.Lock()
	filters := m.filters
	m.mu.Unlock()
	p := m.slice.Pagination()

	m.slice.Begin(state.OpList)

	var (
		page api.ProviderPage
		err  error
	)
	if filters.District != "" {
		page, err = m.api.GetProvidersByLocation(ctx, api.LocationQuery{
			Region:   filters.Region,
			City:     filters.City,
			District: filters.District,
			Page:     p.Page,
			Limit:    p.Limit,
		})
	} else {
		page, err = m.api.ListProviders(ctx, api.ProviderListOptions{
			Page:      p.Page,
			Limit:     p.Limit,
			Region:    filters.Region,
			City:      filters.City,
			ServiceID: filters.ServiceID,
			MinRating: filters.MinRating,
			Search:    filters.Search,
		})
	}
	if err != nil {
		m.slice.Fail(state.OpList, errMessage(err))
		return err
	}
	m.slice.ListLoaded(page.Items, page.Pagination)
	return nil
}

func (m *ProviderManager) Search(ctx context.Context, query string) ([]models.Provider, error) {
	m.slice.Begin(state.OpSearch)
	items, err := m.api.SearchProviders(ctx, query)
	if err != nil {
		m.slice.Fail(state.OpSearch, errMessage(err))
		return nil, err
	}
	m.slice.SearchLoaded(items)
	return items, nil
}

func (m *ProviderManager) Update(ctx context.Context, id string, input models.UpdateProviderInput) (models.Provider, error) {
	m.slice.Begin(state.OpUpdate)
	updated, err := m.api.UpdateProvider(ctx, id, input)
	if err != nil {
		m.slice.Fail(state.OpUpdate, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Updated(state.OpUpdate, updated)
	return updated, nil
}

func (m *ProviderManager) Delete(ctx context.Context, id string) error {
	m.slice.Begin(state.OpDelete)
	if err := m.api.DeleteProvider(ctx, id); err != nil {
		m.slice.Fail(state.OpDelete, errMessage(err))
		return err
	}
	m.slice.Deleted(id)
	return nil
}

// AddWitness appends a witness and syncs the updated provider into both the
// detail slot and the list.
func (m *ProviderManager) AddWitness(ctx context.Context, providerID string, input models.AddWitnessInput) (models.Provider, error) {
	if err := m.validate.Struct(&input); err != nil {
		return models.Provider{}, err
	}
	m.slice.Begin(state.OpChild)
	updated, err := m.api.AddWitness(ctx, providerID, input)
	if err != nil {
		m.slice.Fail(state.OpChild, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Updated(state.OpChild, updated)
	return updated, nil
}

// RemoveWitness drops a witness. The server refuses to empty the list, so a
// provider with one witness keeps it and the error lands in the child slot.
func (m *ProviderManager) RemoveWitness(ctx context.Context, providerID, witnessID string) (models.Provider, error) {
	m.slice.Begin(state.OpChild)
	updated, err := m.api.RemoveWitness(ctx, providerID, witnessID)
	if err != nil {
		m.slice.Fail(state.OpChild, errMessage(err))
		return models.Provider{}, err
	}
	m.slice.Updated(state.OpChild, updated)
	return updated, nil
}

func (m *ProviderManager) FetchStats(ctx context.Context) (models.ProviderStats, error) {
	m.slice.Begin(state.OpStats)
	stats, err := m.api.GetProviderStats(ctx)
	if err != nil {
		m.slice.Fail(state.OpStats, errMessage(err))
		return models.ProviderStats{}, err
	}
	m.slice.StatsLoaded(stats)
	return stats, nil
}

func (m *ProviderManager) UpdateLocal(provider models.Provider) {
	m.slice.ApplyLocal(provider)
}

func (m *ProviderManager) SetFilters(f ProviderFilters) {
	m.mu.Lock()
	m.filters = f
	m.mu.Unlock()
	m.slice.SetPage(1)
}

func (m *ProviderManager) Filters() ProviderFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

func (m *ProviderManager) GoToPage(ctx context.Context, n int) error {
	m.slice.SetPage(n)
	return m.List(ctx)
}

func (m *ProviderManager) ChangePageSize(ctx context.Context, size int) error {
	m.slice.SetLimit(size)
	m.slice.SetPage(1)
	return m.List(ctx)
}

func (m *ProviderManager) HasResults() bool {
	return len(m.slice.All()) > 0
}

func (m *ProviderManager) IsFirstPage() bool {
	return m.slice.Pagination().Page <= 1
}

func (m *ProviderManager) IsLastPage() bool {
	return !m.slice.Pagination().HasNext
}

func (m *ProviderManager) HasFilters() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.active()
}
