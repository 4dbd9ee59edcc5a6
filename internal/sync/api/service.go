package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/developia-II/servicehub-backend/internal/models"
)

const servicesPath = "/api/v1/services"

// ServicePage is the decoded payload of a paginated service listing.
type ServicePage struct {
	Items      []models.Service `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// ServiceListOptions are the query parameters the service list endpoint
// understands. Zero values are omitted from the request.
type ServiceListOptions struct {
	Page     int
	Limit    int
	Category string
	Popular  *bool
	Search   string
	Sort     string
}

func (o ServiceListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Popular != nil {
		q.Set("popular", strconv.FormatBool(*o.Popular))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q
}

func (c *Client) CreateService(ctx context.Context, service models.Service) (models.Service, error) {
	var out struct {
		Service models.Service `json:"service"`
	}
	if err := c.do(ctx, http.MethodPost, servicesPath, nil, service, &out); err != nil {
		return models.Service{}, err
	}
	return out.Service, nil
}

func (c *Client) GetService(ctx context.Context, id string) (models.Service, error) {
	var out struct {
		Service models.Service `json:"service"`
	}
	if err := c.do(ctx, http.MethodGet, servicesPath+"/"+id, nil, nil, &out); err != nil {
		return models.Service{}, err
	}
	return out.Service, nil
}

func (c *Client) ListServices(ctx context.Context, opts ServiceListOptions) (ServicePage, error) {
	var out ServicePage
	if err := c.do(ctx, http.MethodGet, servicesPath, opts.values(), nil, &out); err != nil {
		return ServicePage{}, err
	}
	return out, nil
}

func (c *Client) SearchServices(ctx context.Context, query string) ([]models.Service, error) {
	q := url.Values{}
	q.Set("q", query)
	var out struct {
		Items []models.Service `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, servicesPath+"/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, input models.UpdateServiceInput) (models.Service, error) {
	var out struct {
		Service models.Service `json:"service"`
	}
	if err := c.do(ctx, http.MethodPut, servicesPath+"/"+id, nil, input, &out); err != nil {
		return models.Service{}, err
	}
	return out.Service, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, servicesPath+"/"+id, nil, nil, nil)
}

func (c *Client) GetServiceStats(ctx context.Context) (models.ServiceStats, error) {
	var out struct {
		Stats models.ServiceStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, servicesPath+"/stats", nil, nil, &out); err != nil {
		return models.ServiceStats{}, err
	}
	return out.Stats, nil
}

// GenerateServiceDescription asks the server to draft a description for the
// admin dashboard editor.
func (c *Client) GenerateServiceDescription(ctx context.Context, id string) (string, error) {
	var out struct {
		Description string `json:"description"`
	}
	if err := c.do(ctx, http.MethodPost, servicesPath+"/"+id+"/generate-description", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Description, nil
}
