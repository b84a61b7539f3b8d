package domain

import "context"

// CategoryID identifies a category.
type CategoryID int64

// Category is a named tag shared across events. Read-only reference data for clients.
// swagger:model Category
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// CategoryRepository defines storage for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	// Upsert inserts the category or renames the existing row with the same id.
	Upsert(ctx context.Context, category *Category) error
}
