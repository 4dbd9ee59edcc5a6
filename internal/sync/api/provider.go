package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/developia-II/servicehub-backend/internal/models"
)

const providersPath = "/api/v1/providers"

type ProviderPage struct {
	Items      []models.Provider `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

type ProviderListOptions struct {
	Page      int
	Limit     int
	Region    string
	City      string
	ServiceID string
	MinRating float64
	Search    string
}

func (o ProviderListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Region != "" {
		q.Set("region", o.Region)
	}
	if o.City != "" {
		q.Set("city", o.City)
	}
	if o.ServiceID != "" {
		q.Set("serviceId", o.ServiceID)
	}
	if o.MinRating > 0 {
		q.Set("minRating", strconv.FormatFloat(o.MinRating, 'f', -1, 64))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// LocationQuery narrows providers to an area. At least one field must be set
// or the server rejects the request.
type LocationQuery struct {
	Region   string
	City     string
	District string
	Page     int
	Limit    int
}

func (o LocationQuery) values() url.Values {
	q := url.Values{}
	if o.Region != "" {
		q.Set("region", o.Region)
	}
	if o.City != "" {
		q.Set("city", o.City)
	}
	if o.District != "" {
		q.Set("district", o.District)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *Client) CreateProvider(ctx context.Context, provider models.Provider) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPost, providersPath, nil, provider, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

func (c *Client) GetProvider(ctx context.Context, id string) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodGet, providersPath+"/"+id, nil, nil, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

func (c *Client) GetProviderByUser(ctx context.Context, userID string) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodGet, providersPath+"/user/"+userID, nil, nil, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

func (c *Client) ListProviders(ctx context.Context, opts ProviderListOptions) (ProviderPage, error) {
	var out ProviderPage
	if err := c.do(ctx, http.MethodGet, providersPath, opts.values(), nil, &out); err != nil {
		return ProviderPage{}, err
	}
	return out, nil
}

func (c *Client) GetProvidersByLocation(ctx context.Context, query LocationQuery) (ProviderPage, error) {
	var out ProviderPage
	if err := c.do(ctx, http.MethodGet, providersPath+"/location", query.values(), nil, &out); err != nil {
		return ProviderPage{}, err
	}
	return out, nil
}

func (c *Client) SearchProviders(ctx context.Context, query string) ([]models.Provider, error) {
	q := url.Values{}
	q.Set("q", query)
	var out struct {
		Items []models.Provider `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, providersPath+"/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) UpdateProvider(ctx context.Context, id string, input models.UpdateProviderInput) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPut, providersPath+"/"+id, nil, input, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

func (c *Client) DeleteProvider(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, providersPath+"/"+id, nil, nil, nil)
}

// AddWitness appends a witness record and returns the updated provider.
func (c *Client) AddWitness(ctx context.Context, providerID string, input models.AddWitnessInput) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodPost, providersPath+"/"+providerID+"/witnesses", nil, input, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

// RemoveWitness drops a witness record. The server rejects the call when it
// would leave the provider with no witnesses.
func (c *Client) RemoveWitness(ctx context.Context, providerID, witnessID string) (models.Provider, error) {
	var out struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodDelete, providersPath+"/"+providerID+"/witnesses/"+witnessID, nil, nil, &out); err != nil {
		return models.Provider{}, err
	}
	return out.Provider, nil
}

func (c *Client) GetProviderStats(ctx context.Context) (models.ProviderStats, error) {
	var out struct {
		Stats models.ProviderStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, providersPath+"/stats", nil, nil, &out); err != nil {
		return models.ProviderStats{}, err
	}
	return out.Stats, nil
}
