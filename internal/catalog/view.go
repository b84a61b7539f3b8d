package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"eventcatalog/internal/domain"
)

// Query is the user's current search state.
type Query struct {
	// Search is matched case-insensitively as a substring of the title. Empty matches all.
	Search string
	// CategoryID restricts results to events tagged with it. Zero means no category filter.
	CategoryID domain.CategoryID
}

// EventCard is an event annotated for display.
type EventCard struct {
	Event         domain.Event
	CategoryNames []string
	Creator       *domain.User
}

// Filter returns the events matching q, in their original order.
func Filter(events []domain.Event, q Query) []domain.Event {
	// Casers carry state; one per call.
	lower := cases.Lower(language.Und)
	needle := lower.String(q.Search)

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if needle != "" && !strings.Contains(lower.String(e.Title), needle) {
			continue
		}
		if q.CategoryID != 0 && !e.HasCategory(q.CategoryID) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Project filters the snapshot's events by q and annotates each survivor with
// its category names and, when known, its creator.
func Project(s Snapshot, q Query) []EventCard {
	events := Filter(s.Events, q)
	cards := make([]EventCard, 0, len(events))
	for _, e := range events {
		card := EventCard{Event: e, CategoryNames: s.CategoryNamesFor(e.CategoryIDs)}
		if e.CreatedBy != nil {
			if u, ok := s.UserByID(*e.CreatedBy); ok {
				card.Creator = &u
			}
		}
		cards = append(cards, card)
	}
	return cards
}
