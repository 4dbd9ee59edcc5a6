// Package manager wraps the api client and state slices into an imperative
// surface for UI code: one method per server operation, synchronous setters
// for selection and filters, derived booleans recomputed on demand, and
// pagination helpers that refetch so the displayed list always matches the
// current filter and page.
//
// Every async method follows the same lifecycle: validate the input first
// (validation failures never reach slice state), mark the operation pending,
// run the request, then settle the slice with the payload or the error
// message. The method also returns the error so callers can branch on it
// directly instead of polling the slice.
package manager

import (
	"errors"

	"github.com/developia-II/servicehub-backend/internal/sync/api"
	"github.com/go-playground/validator/v10"
)

// Store owns one manager per resource and is meant to be created once at
// application start and passed down explicitly, never reached for as a
// global.
type Store struct {
	Categories *CategoryManager
	Services   *ServiceManager
	Providers  *ProviderManager
	Clients    *ClientManager
}

func NewStore(client *api.Client) *Store {
	validate := validator.New()
	return &Store{
		Categories: NewCategoryManager(client, validate),
		Services:   NewServiceManager(client, validate),
		Providers:  NewProviderManager(client, validate),
		Clients:    NewClientManager(client, validate),
	}
}

// errMessage extracts the string stored in the slice's error slot. Server
// rejections and transport failures are treated identically.
func errMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
