package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/developia-II/servicehub-backend/internal/models"
)

const categoriesPath = "/api/v1/categories"

type CategoryPage struct {
	Items      []models.Category `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

type CategoryListOptions struct {
	Page   int
	Limit  int
	Search string
}

func (o CategoryListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

func (c *Client) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	var out struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPost, categoriesPath, nil, category, &out); err != nil {
		return models.Category{}, err
	}
	return out.Category, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var out struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, categoriesPath+"/"+id, nil, nil, &out); err != nil {
		return models.Category{}, err
	}
	return out.Category, nil
}

// GetCategoryWithServices fetches the category detail view: the category and
// every service it owns in one round trip.
func (c *Client) GetCategoryWithServices(ctx context.Context, id string) (models.CategoryWithServices, error) {
	var out models.CategoryWithServices
	if err := c.do(ctx, http.MethodGet, categoriesPath+"/"+id+"/services", nil, nil, &out); err != nil {
		return models.CategoryWithServices{}, err
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context, opts CategoryListOptions) (CategoryPage, error) {
	var out CategoryPage
	if err := c.do(ctx, http.MethodGet, categoriesPath, opts.values(), nil, &out); err != nil {
		return CategoryPage{}, err
	}
	return out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, input models.UpdateCategoryInput) (models.Category, error) {
	var out struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPut, categoriesPath+"/"+id, nil, input, &out); err != nil {
		return models.Category{}, err
	}
	return out.Category, nil
}

// DeleteCategory removes a category and cascades to its services. The server
// reports how many services went with it.
func (c *Client) DeleteCategory(ctx context.Context, id string) (deletedServices int, err error) {
	var out struct {
		DeletedServices int `json:"deletedServices"`
	}
	if err := c.do(ctx, http.MethodDelete, categoriesPath+"/"+id, nil, nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedServices, nil
}

func (c *Client) GetCategoryStats(ctx context.Context) (models.CategoryStats, error) {
	var out struct {
		Stats models.CategoryStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, categoriesPath+"/stats", nil, nil, &out); err != nil {
		return models.CategoryStats{}, err
	}
	return out.Stats, nil
}
