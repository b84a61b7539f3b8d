package domain

import (
	"context"
	"slices"
	"strings"
)

// EventID identifies an event in the record store.
type EventID int64

// Event is a scheduled happening with optional author and categories.
// swagger:model Event
type Event struct {
	ID          EventID      `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Location    string       `json:"location"`
	StartTime   Timestamp    `json:"startTime"`
	EndTime     Timestamp    `json:"endTime"`
	CategoryIDs []CategoryID `json:"categoryIds"`
	CreatedBy   *UserID      `json:"createdBy"`
}

// NewEvent returns a new Event with the given fields. ID is set by the store on create.
func NewEvent(title, description, image, location string, start, end Timestamp, categoryIDs []CategoryID, createdBy *UserID) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Image:       image,
		Location:    location,
		StartTime:   start,
		EndTime:     end,
		CategoryIDs: categoryIDs,
		CreatedBy:   createdBy,
	}
}

// HasCategory reports whether the event is tagged with id.
func (e *Event) HasCategory(id CategoryID) bool {
	return slices.Contains(e.CategoryIDs, id)
}

// Clone returns a deep copy of e.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	cp := *e
	if e.CategoryIDs != nil {
		cp.CategoryIDs = slices.Clone(e.CategoryIDs)
	}
	if e.CreatedBy != nil {
		id := *e.CreatedBy
		cp.CreatedBy = &id
	}
	return &cp
}

// Validate checks the rules the record store enforces on writes.
// The client core only uses it for advisory warnings.
func (e *Event) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(e.Title) == "" {
		verr.add("title", "title is required")
	}
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() && e.EndTime.Before(e.StartTime.Time) {
		verr.add("endTime", "endTime must not be before startTime")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id EventID) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Replace(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id EventID) error
	// Upsert inserts the event or overwrites the existing row with the same id.
	Upsert(ctx context.Context, event *Event) error
}
