package manager

import (
	"context"
	"sync"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/developia-II/servicehub-backend/internal/sync/state"
	"github.com/go-playground/validator/v10"
)

type CategoryFilters struct {
	Search string
}

type CategoryManager struct {
	api      *api.Client
	slice    *state.Slice[models.Category, models.CategoryWithServices, models.CategoryStats]
	validate *validator.Validate

	mu      sync.Mutex
	filters CategoryFilters
}

func NewCategoryManager(client *api.Client, validate *validator.Validate) *CategoryManager {
	return &CategoryManager{
		api:      client,
		slice:    state.NewSlice[models.Category, models.CategoryWithServices, models.CategoryStats](func(c models.Category) string { return c.ID.Hex() }),
		validate: validate,
	}
}

func (m *CategoryManager) State() *state.Slice[models.Category, models.CategoryWithServices, models.CategoryStats] {
	return m.slice
}

func (m *CategoryManager) Create(ctx context.Context, category models.Category) (models.Category, error) {
	if err := m.validate.Struct(category); err != nil {
		return models.Category{}, err
	}
	m.slice.Begin(state.OpCreate)
	created, err := m.api.CreateCategory(ctx, category)
	if err != nil {
		m.slice.Fail(state.OpCreate, errMessage(err))
		return models.Category{}, err
	}
	m.slice.Created(created)
	return created, nil
}

func (m *CategoryManager) Get(ctx context.Context, id string) (models.Category, error) {
	m.slice.Begin(state.OpFetch)
	category, err := m.api.GetCategory(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpFetch, errMessage(err))
		return models.Category{}, err
	}
	m.slice.Fetched(state.OpFetch, category)
	return category, nil
}

// GetWithServices loads the composite detail view into the related slot,
// leaving the plain current entity alone.
func (m *CategoryManager) GetWithServices(ctx context.Context, id string) (models.CategoryWithServices, error) {
	m.slice.Begin(state.OpFetchRelated)
	result, err := m.api.GetCategoryWithServices(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpFetchRelated, errMessage(err))
		return models.CategoryWithServices{}, err
	}
	m.slice.RelatedFetched(result)
	return result, nil
}

func (m *CategoryManager) List(ctx context.Context) error {
	m.mu.Lock()
	filters := m.filters
	m.mu.Unlock()
	p := m.slice.Pagination()

	m.slice.Begin(state.OpList)
	page, err := m.api.ListCategories(ctx, api.CategoryListOptions{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: filters.Search,
	})
	if err != nil {
		m.slice.Fail(state.OpList, errMessage(err))
		return err
	}
	m.slice.ListLoaded(page.Items, page.Pagination)
	return nil
}

func (m *CategoryManager) Update(ctx context.Context, id string, input models.UpdateCategoryInput) (models.Category, error) {
	m.slice.Begin(state.OpUpdate)
	updated, err := m.api.UpdateCategory(ctx, id, input)
	if err != nil {
		m.slice.Fail(state.OpUpdate, errMessage(err))
		return models.Category{}, err
	}
	m.slice.Updated(state.OpUpdate, updated)
	return updated, nil
}

// Delete removes the category and returns how many services were cascaded
// away with it, so the UI can report the damage it warned about.
func (m *CategoryManager) Delete(ctx context.Context, id string) (deletedServices int, err error) {
	m.slice.Begin(state.OpDelete)
	deleted, err := m.api.DeleteCategory(ctx, id)
	if err != nil {
		m.slice.Fail(state.OpDelete, errMessage(err))
		return 0, err
	}
	m.slice.Deleted(id)
	return deleted, nil
}

func (m *CategoryManager) FetchStats(ctx context.Context) (models.CategoryStats, error) {
	m.slice.Begin(state.OpStats)
	stats, err := m.api.GetCategoryStats(ctx)
	if err != nil {
		m.slice.Fail(state.OpStats, errMessage(err))
		return models.CategoryStats{}, err
	}
	m.slice.StatsLoaded(stats)
	return stats, nil
}

func (m *CategoryManager) UpdateLocal(category models.Category) {
	m.slice.ApplyLocal(category)
}

func (m *CategoryManager) SetFilters(f CategoryFilters) {
	m.mu.Lock()
	m.filters = f
	m.mu.Unlock()
	m.slice.SetPage(1)
}

func (m *CategoryManager) Filters() CategoryFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

func (m *CategoryManager) GoToPage(ctx context.Context, n int) error {
	m.slice.SetPage(n)
	return m.List(ctx)
}

func (m *CategoryManager) ChangePageSize(ctx context.Context, size int) error {
	m.slice.SetLimit(size)
	m.slice.SetPage(1)
	return m.List(ctx)
}

func (m *CategoryManager) HasResults() bool {
	return len(m.slice.All()) > 0
}

func (m *CategoryManager) IsFirstPage() bool {
	return m.slice.Pagination().Page <= 1
}

func (m *CategoryManager) IsLastPage() bool {
	return !m.slice.Pagination().HasNext
}

func (m *CategoryManager) HasFilters() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.Search != ""
}
