package domain

import "context"

// RemoteStore is the client-side view of the record store: an eventually
// responsive CRUD service for events, categories and users. Any non-success
// response is returned as an error.
type RemoteStore interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id EventID) (*Event, error)
	// CreateEvent posts event and returns the stored record with its assigned id.
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	// ReplaceEvent puts the full record at event.ID.
	ReplaceEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id EventID) error

	ListCategories(ctx context.Context) ([]Category, error)

	ListUsers(ctx context.Context) ([]User, error)
	// FindUsersByName returns the users the store matches for ?name=.
	FindUsersByName(ctx context.Context, name string) ([]User, error)
	GetUser(ctx context.Context, id UserID) (*User, error)
	// CreateUser posts {name, image} and returns the stored record with its assigned id.
	CreateUser(ctx context.Context, user *User) (*User, error)
}

// RecordService is the server-side business logic behind the record store HTTP API.
type RecordService interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id EventID) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	ReplaceEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id EventID) error

	ListCategories(ctx context.Context) ([]*Category, error)

	// ListUsers returns all users, or only exact matches when name is non-empty.
	ListUsers(ctx context.Context, name string) ([]*User, error)
	GetUser(ctx context.Context, id UserID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}
