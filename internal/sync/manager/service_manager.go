package manager

import (
	"context"
	"sync"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/go-playground/validator/v10"
)

// ServiceFilters are the server-side list filters the catalog pages set.
type ServiceFilters struct {
	Category string
	Popular  *bool
	Search   string
	Sort     string
}

func (f ServiceFilters) active() bool {
	return f.Category != "" || f.Popular != nil || f.Search != "" || f.Sort != ""
}

type ServiceManager struct {
	api      *api.Client
	slice    *state.Slice[models.Service, state.None, models.ServiceStats]
	validate *validator.Validate

	mu      sync.Mutex
	filters ServiceFilters
}

func NewServiceManager(client *api.Client, validate *validator.Validate) *ServiceManager {
	return &ServiceManager{
		api:      client,
		slice:    state.NewSlice[models.Service, state.None, models.ServiceStats](func(s models.Service) string { return s.ID.Hex() }),
		validate: validate,
	}
}

// State exposes the underlying slice for reads and subscriptions.
func (m *ServiceManager) State() *state.Slice[models.Service, state.None, models.ServiceStats] {
	return m.slice
}

func (m *ServiceManager) Create(ctx context.Context, service models.Service) (models.Service, error) {
	if err := m.validate.Struct(service); err != nil {
		return models.Service{}, err
	}
	m.slice.Begin(state.OpCreate)
	created, err := m.api.CreateService(ctx, service)
	if err != nil {
		m.slice.Fail(state.OpCreate, errMessage(err))
		return models.Service{}, err
	}
	m.slice.Created(created)
	return created, nil
}

func (m *ServiceManager) Get(ctx context.Context, id string) (models.Service, error) {
	m.slice.Begin(state.OpFetch)
	service, err := m.api.GetService(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpFetch, errMessage(err))
		return models.Service{}, err
	}
	m.slice.Fetched(state.OpFetch, service)
	return service, nil
}

// List fetches the page the slice's pagination points at, merged with the
// currently held filters.
func (m *ServiceManager) List(ctx context.Context) error {
	m.mu.Lock()
	filters := m.filters
	m.mu.Unlock()
	p := m.slice.Pagination()

	m.slice.Begin(state.OpList)
	page, err := m.api.ListServices(ctx, api.ServiceListOptions{
		Page:     p.Page,
		Limit:    p.Limit,
		Category: filters.Category,
		Popular:  filters.Popular,
		Search:   filters.Search,
		Sort:     filters.Sort,
	})
	if err != nil {
		m.slice.Fail(state.OpList, errMessage(err))
		return err
	}
	m.slice.ListLoaded(page.Items, page.Pagination)
	return nil
}

func (m *ServiceManager) Search(ctx context.Context, query string) ([]models.Service, error) {
	m.slice.Begin(state.OpSearch)
	items, err := m.api.SearchServices(ctx, query)
	if err != nil {
		m.slice.Fail(state.OpSearch, errMessage(err))
		return nil, err
	}
	m.slice.SearchLoaded(items)
	return items, nil
}

func (m *ServiceManager) Update(ctx context.Context, id string, input models.UpdateServiceInput) (models.Service, error) {
	if err := m.validate.Struct(&input); err != nil {
		return models.Service{}, err
	}
	m.slice.Begin(state.OpUpdate)
	updated, err := m.api.UpdateService(ctx, id, input)
	if err != nil {
		m.slice.Fail(state.OpUpdate, errMessage(err))
		return models.Service{}, err
	}
	m.slice.Updated(state.OpUpdate, updated)
	return updated, nil
}

func (m *ServiceManager) Delete(ctx context.Context, id string) error {
	m.slice.Begin(state.OpDelete)
	if err := m.api.DeleteService(ctx, id); err != nil {
		m.slice.Fail(state.OpDelete, errMessage(err))
		return err
	}
	m.slice.Deleted(id)
	return nil
}

func (m *ServiceManager) FetchStats(ctx context.Context) (models.ServiceStats, error) {
	m.slice.Begin(state.OpStats)
	stats, err := m.api.GetServiceStats(ctx)
	if err != nil {
		m.slice.Fail(state.OpStats, errMessage(err))
		return models.ServiceStats{}, err
	}
	m.slice.StatsLoaded(stats)
	return stats, nil
}

// GenerateDescription drafts a description for the dashboard editor. It does
// not touch slice state; the caller decides what to do with the draft.
func (m *ServiceManager) GenerateDescription(ctx context.Context, id string) (string, error) {
	return m.api.GenerateServiceDescription(ctx, id)
}

// UpdateLocal applies an optimistic edit without server confirmation. A
// later confirmed update for the same service overwrites it.
func (m *ServiceManager) UpdateLocal(service models.Service) {
	m.slice.ApplyLocal(service)
}

// SetFilters replaces the held filters and resets to the first page. It does
// not fetch; call List (or GoToPage) to load the matching data.
func (m *ServiceManager) SetFilters(f ServiceFilters) {
	m.mu.Lock()
	m.filters = f
	m.mu.Unlock()
	m.slice.SetPage(1)
}

func (m *ServiceManager) Filters() ServiceFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

// GoToPage moves to page n and refetches with the merged filters, so the
// displayed list can never show a page from a previous filter set.
func (m *ServiceManager) GoToPage(ctx context.Context, n int) error {
	m.slice.SetPage(n)
	return m.List(ctx)
}

// ChangePageSize resets to the first page with the new size and refetches.
func (m *ServiceManager) ChangePageSize(ctx context.Context, size int) error {
	m.slice.SetLimit(size)
	m.slice.SetPage(1)
	return m.List(ctx)
}

// --- computed -------------------------------------------------------------

func (m *ServiceManager) HasResults() bool {
	return len(m.slice.All()) > 0
}

func (m *ServiceManager) IsFirstPage() bool {
	return m.slice.Pagination().Page <= 1
}

func (m *ServiceManager) IsLastPage() bool {
	return !m.slice.Pagination().HasNext
}

func (m *ServiceManager) HasFilters() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.active()
}
