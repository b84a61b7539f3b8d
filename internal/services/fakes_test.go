package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"eventcatalog/internal/catalog"
	"eventcatalog/internal/domain"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeRemote is an in-memory RemoteStore that records every call.
type fakeRemote struct {
	events     []domain.Event
	categories []domain.Category
	users      []domain.User
	nextEvent  domain.EventID
	nextUser   domain.UserID
	calls      []string

	listEventsErr error
	getEventErr   error
	createErr     error
	replaceErr    error
	deleteErr     error
	findUsersErr  error
	createUserErr error
	getUserErr    error

	// beforeDelete runs inside DeleteEvent before the store is changed.
	beforeDelete func()

	lastReplaced *domain.Event
	lastCreated  *domain.Event
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{nextEvent: 100, nextUser: 100}
}

func (f *fakeRemote) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeRemote) ListEvents(ctx context.Context) ([]domain.Event, error) {
	f.record("GET /events")
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e.Clone())
	}
	return out, nil
}

func (f *fakeRemote) GetEvent(ctx context.Context, id domain.EventID) (*domain.Event, error) {
	f.record("GET /events/%d", id)
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	for _, e := range f.events {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return nil, &domain.StatusError{Method: "GET", Path: fmt.Sprintf("/events/%d", id), StatusCode: 404}
}

func (f *fakeRemote) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	f.record("POST /events")
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := e.Clone()
	stored.ID = f.nextEvent
	f.nextEvent++
	f.events = append(f.events, *stored)
	f.lastCreated = stored.Clone()
	return stored, nil
}

func (f *fakeRemote) ReplaceEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	f.record("PUT /events/%d", e.ID)
	f.lastReplaced = e.Clone()
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	for i := range f.events {
		if f.events[i].ID == e.ID {
			f.events[i] = *e.Clone()
			return e.Clone(), nil
		}
	}
	return nil, &domain.StatusError{Method: "PUT", Path: fmt.Sprintf("/events/%d", e.ID), StatusCode: 404}
}

func (f *fakeRemote) DeleteEvent(ctx context.Context, id domain.EventID) error {
	f.record("DELETE /events/%d", id)
	if f.beforeDelete != nil {
		f.beforeDelete()
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return &domain.StatusError{Method: "DELETE", Path: fmt.Sprintf("/events/%d", id), StatusCode: 404}
}

func (f *fakeRemote) ListCategories(ctx context.Context) ([]domain.Category, error) {
	f.record("GET /categories")
	return append([]domain.Category(nil), f.categories...), nil
}

func (f *fakeRemote) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.record("GET /users")
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeRemote) FindUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	f.record("GET /users?name=%s", name)
	if f.findUsersErr != nil {
		return nil, f.findUsersErr
	}
	var out []domain.User
	for _, u := range f.users {
		if u.Name == name {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRemote) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	f.record("GET /users/%d", id)
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, &domain.StatusError{Method: "GET", Path: fmt.Sprintf("/users/%d", id), StatusCode: 404}
}

func (f *fakeRemote) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.record("POST /users")
	if f.createUserErr != nil {
		return nil, f.createUserErr
	}
	stored := domain.User{ID: f.nextUser, Name: u.Name, Image: u.Image}
	f.nextUser++
	f.users = append(f.users, stored)
	return &stored, nil
}

func (f *fakeRemote) resetCalls() {
	f.calls = nil
}

// countCalls returns how many recorded calls equal call.
func (f *fakeRemote) countCalls(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// testHarness wires a controller over a fakeRemote.
type testHarness struct {
	remote     *fakeRemote
	entities   *catalog.EntityStore
	identity   *IdentityResolver
	notices    *Notices
	guard      *MutationGuard
	controller *EventLifecycleController
}

func newTestHarness(remote *fakeRemote) *testHarness {
	entities := catalog.NewEntityStore(remote, testLogger)
	identity := NewIdentityResolver(remote, entities, testLogger)
	notices := NewNotices(0, nil)
	guard := NewMutationGuard()
	return &testHarness{
		remote:     remote,
		entities:   entities,
		identity:   identity,
		notices:    notices,
		guard:      guard,
		controller: NewEventLifecycleController(remote, entities, identity, notices, guard, testLogger),
	}
}
