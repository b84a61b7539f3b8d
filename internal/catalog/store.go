// Package catalog holds the client-side caches of store records and the
// read-only projections computed from them.
package catalog

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"eventcatalog/internal/domain"
)

// Snapshot is an immutable view of the cached collections at one point in time.
// Callers must not modify the slices it exposes.
type Snapshot struct {
	Events     []domain.Event
	Categories []domain.Category
	Users      []domain.User

	categoryNames map[domain.CategoryID]string
	usersByID     map[domain.UserID]domain.User
}

// NewSnapshot builds a Snapshot and its lookup indexes. It is exported for tests
// and for callers that project data they did not fetch through an EntityStore.
func NewSnapshot(events []domain.Event, categories []domain.Category, users []domain.User) Snapshot {
	s := Snapshot{Events: events, Categories: categories, Users: users}
	if categories != nil {
		s.categoryNames = make(map[domain.CategoryID]string, len(categories))
		for _, c := range categories {
			s.categoryNames[c.ID] = c.Name
		}
	}
	if users != nil {
		s.usersByID = make(map[domain.UserID]domain.User, len(users))
		for _, u := range users {
			s.usersByID[u.ID] = u
		}
	}
	return s
}

// CategoryNamesFor maps ids to category names in the given order. Ids with no
// matching category are dropped. Empty when ids is empty or categories are not loaded.
func (s Snapshot) CategoryNamesFor(ids []domain.CategoryID) []string {
	names := make([]string, 0, len(ids))
	if len(s.categoryNames) == 0 {
		return names
	}
	for _, id := range ids {
		if name, ok := s.categoryNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// UserByID returns the cached user with id.
func (s Snapshot) UserByID(id domain.UserID) (domain.User, bool) {
	u, ok := s.usersByID[id]
	return u, ok
}

// UserByName returns the first cached user whose name equals name exactly (case-sensitive).
func (s Snapshot) UserByName(name string) (domain.User, bool) {
	for _, u := range s.Users {
		if u.Name == name {
			return u, true
		}
	}
	return domain.User{}, false
}

// EntityStore caches the latest known events, categories and users fetched from
// a RemoteStore. Refreshes replace a collection wholesale; a failed refresh
// leaves the previous contents in place.
type EntityStore struct {
	remote domain.RemoteStore
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewEntityStore returns an empty store backed by remote.
func NewEntityStore(remote domain.RemoteStore, logger *slog.Logger) *EntityStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EntityStore{remote: remote, logger: logger}
}

// RefreshEvents replaces the cached events with the store's current list.
func (s *EntityStore) RefreshEvents(ctx context.Context) error {
	events, err := s.remote.ListEvents(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh failed, keeping cached events", "resource", "events", "err", err)
		return &domain.FetchError{Resource: "events", Err: err}
	}
	if events == nil {
		events = []domain.Event{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = NewSnapshot(events, s.snapshot.Categories, s.snapshot.Users)
	return nil
}

// RefreshCategories replaces the cached categories with the store's current list.
func (s *EntityStore) RefreshCategories(ctx context.Context) error {
	categories, err := s.remote.ListCategories(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh failed, keeping cached categories", "resource", "categories", "err", err)
		return &domain.FetchError{Resource: "categories", Err: err}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = NewSnapshot(s.snapshot.Events, categories, s.snapshot.Users)
	return nil
}

// RefreshUsers replaces the cached users with the store's current list.
func (s *EntityStore) RefreshUsers(ctx context.Context) error {
	users, err := s.remote.ListUsers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh failed, keeping cached users", "resource", "users", "err", err)
		return &domain.FetchError{Resource: "users", Err: err}
	}
	if users == nil {
		users = []domain.User{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = NewSnapshot(s.snapshot.Events, s.snapshot.Categories, users)
	return nil
}

// RefreshAll refreshes categories, users and events in that order. Every
// collection is attempted; the first failure is returned.
func (s *EntityStore) RefreshAll(ctx context.Context) error {
	var first error
	for _, refresh := range []func(context.Context) error{s.RefreshCategories, s.RefreshUsers, s.RefreshEvents} {
		if err := refresh(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Snapshot returns the current cached state.
func (s *EntityStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Events returns a copy of the cached events in fetch order.
func (s *EntityStore) Events() []domain.Event {
	return slices.Clone(s.Snapshot().Events)
}

// CategoryNamesFor is Snapshot().CategoryNamesFor over the current cache.
func (s *EntityStore) CategoryNamesFor(ids []domain.CategoryID) []string {
	return s.Snapshot().CategoryNamesFor(ids)
}

// UserByID looks up a cached user by id.
func (s *EntityStore) UserByID(id domain.UserID) (domain.User, bool) {
	return s.Snapshot().UserByID(id)
}

// UserByName looks up a cached user by exact name.
func (s *EntityStore) UserByName(name string) (domain.User, bool) {
	return s.Snapshot().UserByName(name)
}
