// Package state holds the client-side state containers the dashboard and
// browse pages read from. Each resource gets one Slice: the authoritative
// detail-view entity, the list collection, search results, pagination, stats
// and per-operation loading/error flags. All mutation goes through reducer
// methods guarded by one mutex, so every state transition is a single atomic
// pass and readers never observe a half-applied update.
package state

import (
	"sync"

	"github.com/developia-II/servicehub-backend/internal/sync/api"
)

// Op keys the loading and error maps. Keeping this an enum rather than free
// strings stops the state container and its consumers drifting apart.
type Op string

const (
	OpCreate       Op = "create"
	OpFetch        Op = "fetch"
	OpFetchByUser  Op = "fetchByUser"
	OpFetchRelated Op = "fetchRelated"
	OpList         Op = "list"
	OpSearch       Op = "search"
	OpUpdate       Op = "update"
	OpDelete       Op = "delete"
	OpStats        Op = "stats"
	// OpChild covers mutations of embedded sub-resources (witnesses,
	// service requests, ratings) that return the updated parent entity.
	OpChild Op = "child"
)

// None is the related-entity type for resources that have no composite
// detail view.
type None struct{}

// Slice is the state container for one resource type. T is the entity, R the
// composite detail payload (None when unused), S the stats payload.
//
// Two in-flight operations with different Op keys never touch each other's
// loading or error slots. Two with the same key share one slot and the last
// settled call wins. In-flight requests are not cancelled when a newer one
// starts, so a slow stale response can overwrite newer state; callers that
// need stronger ordering must serialize their own calls.
type Slice[T, R, S any] struct {
	mu   sync.Mutex
	idOf func(T) string

	current       *T
	related       *R
	all           []T
	searchResults []T
	pagination    api.Pagination
	stats         *S

	loading map[Op]bool
	errors  map[Op]string

	selectedID string
	formOpen   map[string]bool

	subs    map[int]func()
	nextSub int
}

const defaultPageSize = 10

// NewSlice builds an empty container. idOf extracts the identity used to
// match entities between the detail slot and the list collection.
func NewSlice[T, R, S any](idOf func(T) string) *Slice[T, R, S] {
	return &Slice[T, R, S]{
		idOf:       idOf,
		pagination: api.Pagination{Page: 1, Limit: defaultPageSize},
		loading:    make(map[Op]bool),
		errors:     make(map[Op]string),
		formOpen:   make(map[string]bool),
		subs:       make(map[int]func()),
	}
}

// Subscribe registers a callback invoked after every state transition. The
// returned function unregisters it.
func (s *Slice[T, R, S]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify runs outside the lock so a subscriber reading state back does not
// deadlock.
func (s *Slice[T, R, S]) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// --- reducers -------------------------------------------------------------

// Begin marks op as in flight and clears its previous error.
func (s *Slice[T, R, S]) Begin(op Op) {
	s.mu.Lock()
	s.loading[op] = true
	delete(s.errors, op)
	s.mu.Unlock()
	s.notify()
}

// Fail settles op with an error message. Entity state is left untouched, so
// a failed fetch keeps showing stale-but-valid data.
func (s *Slice[T, R, S]) Fail(op Op, message string) {
	s.mu.Lock()
	s.loading[op] = false
	s.errors[op] = message
	s.mu.Unlock()
	s.notify()
}

// Created settles a create: the new entity becomes current and is prepended
// to the list collection.
func (s *Slice[T, R, S]) Created(v T) {
	s.mu.Lock()
	s.loading[OpCreate] = false
	s.current = &v
	s.all = append([]T{v}, s.all...)
	s.mu.Unlock()
	s.notify()
}

// Fetched settles a detail fetch (by id or by user id).
func (s *Slice[T, R, S]) Fetched(op Op, v T) {
	s.mu.Lock()
	s.loading[op] = false
	s.current = &v
	s.mu.Unlock()
	s.notify()
}

// RelatedFetched settles a composite detail fetch.
func (s *Slice[T, R, S]) RelatedFetched(v R) {
	s.mu.Lock()
	s.loading[OpFetchRelated] = false
	s.related = &v
	s.mu.Unlock()
	s.notify()
}

// Updated settles an update or child mutation: the returned entity replaces
// the current slot and its copy in the list collection within the same pass,
// so the list is never left stale after a detail-level mutation.
func (s *Slice[T, R, S]) Updated(op Op, v T) {
	s.mu.Lock()
	s.loading[op] = false
	s.current = &v
	id := s.idOf(v)
	for i := range s.all {
		if s.idOf(s.all[i]) == id {
			s.all[i] = v
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Deleted settles a delete: the entity leaves the list collection and, if it
// was the current entity, the current slot is cleared.
func (s *Slice[T, R, S]) Deleted(id string) {
	s.mu.Lock()
	s.loading[OpDelete] = false
	kept := s.all[:0]
	for _, v := range s.all {
		if s.idOf(v) != id {
			kept = append(kept, v)
		}
	}
	s.all = kept
	if s.current != nil && s.idOf(*s.current) == id {
		s.current = nil
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()
	s.notify()
}

// ListLoaded settles a paginated fetch: the list collection is replaced, not
// appended to, and the server's pagination fields are taken verbatim except
// for the page size, which stays under local control.
func (s *Slice[T, R, S]) ListLoaded(items []T, p api.Pagination) {
	s.mu.Lock()
	s.loading[OpList] = false
	s.all = append([]T(nil), items...)
	limit := s.pagination.Limit
	s.pagination = p
	s.pagination.Limit = limit
	s.mu.Unlock()
	s.notify()
}

// SearchLoaded settles a search without disturbing the list collection.
func (s *Slice[T, R, S]) SearchLoaded(items []T) {
	s.mu.Lock()
	s.loading[OpSearch] = false
	s.searchResults = append([]T(nil), items...)
	s.mu.Unlock()
	s.notify()
}

// StatsLoaded settles a stats fetch.
func (s *Slice[T, R, S]) StatsLoaded(v S) {
	s.mu.Lock()
	s.loading[OpStats] = false
	s.stats = &v
	s.mu.Unlock()
	s.notify()
}

// ApplyLocal is the optimistic mutation path: it patches the current slot
// and the list copy without touching loading or error state, and without any
// server round trip. A later server-confirmed update for the same entity
// overwrites it (last write wins).
func (s *Slice[T, R, S]) ApplyLocal(v T) {
	s.mu.Lock()
	id := s.idOf(v)
	if s.current == nil || s.idOf(*s.current) == id {
		s.current = &v
	}
	for i := range s.all {
		if s.idOf(s.all[i]) == id {
			s.all[i] = v
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// SetPage patches local pagination state without fetching.
func (s *Slice[T, R, S]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.pagination.Page = page
	s.mu.Unlock()
	s.notify()
}

// SetLimit patches the page size without fetching.
func (s *Slice[T, R, S]) SetLimit(limit int) {
	if limit < 1 {
		limit = defaultPageSize
	}
	s.mu.Lock()
	s.pagination.Limit = limit
	s.mu.Unlock()
	s.notify()
}

// Select records which entity the UI currently has focused.
func (s *Slice[T, R, S]) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

// SetFormOpen toggles a named form flag (create dialog, edit drawer).
func (s *Slice[T, R, S]) SetFormOpen(name string, open bool) {
	s.mu.Lock()
	s.formOpen[name] = open
	s.mu.Unlock()
	s.notify()
}

// --- getters --------------------------------------------------------------

func (s *Slice[T, R, S]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

func (s *Slice[T, R, S]) Related() (R, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.related == nil {
		var zero R
		return zero, false
	}
	return *s.related, true
}

// All returns a copy of the list collection.
func (s *Slice[T, R, S]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.all...)
}

// SearchResults returns a copy of the last search payload.
func (s *Slice[T, R, S]) SearchResults() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.searchResults...)
}

func (s *Slice[T, R, S]) Pagination() api.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *Slice[T, R, S]) Stats() (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		var zero S
		return zero, false
	}
	return *s.stats, true
}

// Loading reports whether op is in flight.
func (s *Slice[T, R, S]) Loading(op Op) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[op]
}

// Err returns the last error recorded for op, or "" when it settled cleanly.
func (s *Slice[T, R, S]) Err(op Op) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[op]
}

func (s *Slice[T, R, S]) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

func (s *Slice[T, R, S]) FormOpen(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formOpen[name]
}
