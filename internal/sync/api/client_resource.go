package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/developia-II/servicehub-backend/internal/models"
)

const clientsPath = "/api/v1/clients"

type ClientPage struct {
	Items      []models.Client `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

type ClientListOptions struct {
	Page   int
	Limit  int
	Region string
	City   string
	Search string
}

func (o ClientListOptions) values() url.Values {
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
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

func (c *Client) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodPost, clientsPath, nil, client, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodGet, clientsPath+"/"+id, nil, nil, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) GetClientByUser(ctx context.Context, userID string) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodGet, clientsPath+"/user/"+userID, nil, nil, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) ListClients(ctx context.Context, opts ClientListOptions) (ClientPage, error) {
	var out ClientPage
	if err := c.do(ctx, http.MethodGet, clientsPath, opts.values(), nil, &out); err != nil {
		return ClientPage{}, err
	}
	return out, nil
}

func (c *Client) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	q := url.Values{}
	q.Set("q", query)
	var out struct {
		Items []models.Client `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, clientsPath+"/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, input models.UpdateClientInput) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodPut, clientsPath+"/"+id, nil, input, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, clientsPath+"/"+id, nil, nil, nil)
}

// AddServiceRequest books a service and returns the updated client, whose
// request history now includes the new entry.
func (c *Client) AddServiceRequest(ctx context.Context, clientID string, input models.AddServiceRequestInput) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodPost, clientsPath+"/"+clientID+"/requests", nil, input, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) UpdateServiceRequestStatus(ctx context.Context, clientID, requestID string, status models.RequestStatus) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	body := models.UpdateRequestStatusInput{Status: status}
	if err := c.do(ctx, http.MethodPut, clientsPath+"/"+clientID+"/requests/"+requestID+"/status", nil, body, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) RateProvider(ctx context.Context, clientID, providerID string, input models.RateProviderInput) (models.Client, error) {
	var out struct {
		Client models.Client `json:"client"`
	}
	if err := c.do(ctx, http.MethodPost, clientsPath+"/"+clientID+"/ratings/"+providerID, nil, input, &out); err != nil {
		return models.Client{}, err
	}
	return out.Client, nil
}

func (c *Client) GetClientStats(ctx context.Context) (models.ClientStats, error) {
	var out struct {
		Stats models.ClientStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, clientsPath+"/stats", nil, nil, &out); err != nil {
		return models.ClientStats{}, err
	}
	return out.Stats, nil
}
