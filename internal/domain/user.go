package domain

import "context"

// UserID identifies a user identity.
type UserID int64

// UserIDPtr returns a pointer to id, for Event.CreatedBy.
func UserIDPtr(id UserID) *UserID {
	return &id
}

// User is an author identity: a display name and an optional avatar URL.
// It is not a security principal.
// swagger:model User
type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// NewUser returns a new User. ID is set by the store on create.
func NewUser(name, image string) *User {
	return &User{Name: name, Image: image}
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	List(ctx context.Context) ([]*User, error)
	// ListByName returns users whose name equals name exactly.
	ListByName(ctx context.Context, name string) ([]*User, error)
	GetByID(ctx context.Context, id UserID) (*User, error)
	Create(ctx context.Context, user *User) error
	// Upsert inserts the user or overwrites the existing row with the same id.
	Upsert(ctx context.Context, user *User) error
}
