// Package seed loads initial categories, users and events from a YAML file
// into the record store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"eventcatalog/internal/domain"

	"gopkg.in/yaml.v3"
)

// File is the on-disk seed document.
type File struct {
	Categories []Category `yaml:"categories"`
	Users      []User     `yaml:"users"`
	Events     []Event    `yaml:"events"`
}

type Category struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type User struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

// Event mirrors the record store's event JSON. Times use the same formats the
// API accepts.
type Event struct {
	ID          int64   `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Image       string  `yaml:"image"`
	Location    string  `yaml:"location"`
	StartTime   string  `yaml:"startTime"`
	EndTime     string  `yaml:"endTime"`
	CategoryIDs []int64 `yaml:"categoryIds"`
	CreatedBy   *int64  `yaml:"createdBy"`
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("seed path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a seed document and checks that every record has an id.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, c := range f.Categories {
		if c.ID <= 0 {
			return nil, fmt.Errorf("categories[%d]: id must be positive", i)
		}
	}
	for i, u := range f.Users {
		if u.ID <= 0 {
			return nil, fmt.Errorf("users[%d]: id must be positive", i)
		}
	}
	for i, e := range f.Events {
		if e.ID <= 0 {
			return nil, fmt.Errorf("events[%d]: id must be positive", i)
		}
	}
	return &f, nil
}

// Loader writes a seed File through the repositories. Applying the same file
// twice leaves the store unchanged.
type Loader struct {
	events     domain.EventRepository
	categories domain.CategoryRepository
	users      domain.UserRepository
	logger     *slog.Logger
}

func NewLoader(events domain.EventRepository, categories domain.CategoryRepository, users domain.UserRepository, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{events: events, categories: categories, users: users, logger: logger}
}

// Apply upserts categories, then users, then events.
func (l *Loader) Apply(ctx context.Context, f *File) error {
	for _, c := range f.Categories {
		if err := l.categories.Upsert(ctx, &domain.Category{ID: domain.CategoryID(c.ID), Name: c.Name}); err != nil {
			return fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}
	for _, u := range f.Users {
		if err := l.users.Upsert(ctx, &domain.User{ID: domain.UserID(u.ID), Name: u.Name, Image: u.Image}); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	for _, e := range f.Events {
		event, err := e.toDomain()
		if err != nil {
			return fmt.Errorf("seed event %d: %w", e.ID, err)
		}
		if err := l.events.Upsert(ctx, event); err != nil {
			return fmt.Errorf("seed event %d: %w", e.ID, err)
		}
	}
	l.logger.InfoContext(ctx, "seed applied",
		"categories", len(f.Categories), "users", len(f.Users), "events", len(f.Events))
	return nil
}

func (e Event) toDomain() (*domain.Event, error) {
	start, err := domain.ParseTimestamp(e.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := domain.ParseTimestamp(e.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}
	categoryIDs := make([]domain.CategoryID, len(e.CategoryIDs))
	for i, id := range e.CategoryIDs {
		categoryIDs[i] = domain.CategoryID(id)
	}
	var createdBy *domain.UserID
	if e.CreatedBy != nil {
		createdBy = domain.UserIDPtr(domain.UserID(*e.CreatedBy))
	}
	event := domain.NewEvent(e.Title, e.Description, e.Image, e.Location, start, end, categoryIDs, createdBy)
	event.ID = domain.EventID(e.ID)
	return event, nil
}
