package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"eventcatalog/internal/catalog"
	"eventcatalog/internal/domain"
)

// LifecycleState is the controller's position in the view/edit/delete flow.
type LifecycleState int

const (
	StateViewing LifecycleState = iota
	StateCreatingOrEditing
	StateSaving
	StateConfirmingDelete
	StateDeleting
)

func (s LifecycleState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateCreatingOrEditing:
		return "creating_or_editing"
	case StateSaving:
		return "saving"
	case StateConfirmingDelete:
		return "confirming_delete"
	case StateDeleting:
		return "deleting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Notice messages.
const (
	msgEventAdded       = "Event added successfully"
	msgEventUpdated     = "Event updated successfully"
	msgEventDeleted     = "Event deleted successfully"
	msgAddFailed        = "Failed to add the event"
	msgUpdateFailed     = "Failed to update the event"
	msgDeleteFailed     = "Failed to delete the event"
	msgLoadFailed       = "Failed to load the event"
	msgIdentityFailed   = "Failed to resolve the author"
	msgMutationInFlight = "Another change to this event is still being saved"
)

// Author is the identity collected by the form step before authoring.
type Author struct {
	Name  string
	Image string
}

// EventForm holds the editable fields of an event.
type EventForm struct {
	Title       string
	Description string
	Image       string
	Location    string
	StartTime   domain.Timestamp
	EndTime     domain.Timestamp
	// CategoryIDs replaces the event's categories when non-nil.
	CategoryIDs []domain.CategoryID
}

// FormFromEvent pre-populates a form with e's current values.
func FormFromEvent(e *domain.Event) EventForm {
	return EventForm{
		Title:       e.Title,
		Description: e.Description,
		Image:       e.Image,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CategoryIDs: slices.Clone(e.CategoryIDs),
	}
}

// Draft is an open create or edit session.
type Draft struct {
	// EventID is zero when creating.
	EventID   domain.EventID
	Form      EventForm
	CreatedBy *domain.UserID
	// Author is the resolved identity, nil when none was supplied.
	Author *domain.User
}

// EventDetail is a single event denormalized for display.
type EventDetail struct {
	Event         domain.Event
	CategoryNames []string
	Creator       *domain.User
}

// MergeEventEdit builds the PUT payload for an edit: start from previous and
// overwrite each field whose new value is non-empty. A field cleared to empty
// keeps its previous value. CategoryIDs are replaced whenever the form carries
// them, even as an empty list.
func MergeEventEdit(previous *domain.Event, form EventForm, createdBy *domain.UserID) *domain.Event {
	merged := previous.Clone()
	if form.Title != "" {
		merged.Title = form.Title
	}
	if form.Description != "" {
		merged.Description = form.Description
	}
	if form.Image != "" {
		merged.Image = form.Image
	}
	if form.Location != "" {
		merged.Location = form.Location
	}
	if !form.StartTime.IsZero() {
		merged.StartTime = form.StartTime
	}
	if !form.EndTime.IsZero() {
		merged.EndTime = form.EndTime
	}
	if form.CategoryIDs != nil {
		merged.CategoryIDs = slices.Clone(form.CategoryIDs)
	}
	if createdBy != nil {
		id := *createdBy
		merged.CreatedBy = &id
	}
	return merged
}

// EventLifecycleController drives viewing, creating, editing and deleting events
// for one user session. Remote calls run without holding the controller's lock;
// the state field keeps a second operation on the same session out meanwhile.
type EventLifecycleController struct {
	remote   domain.RemoteStore
	entities *catalog.EntityStore
	identity *IdentityResolver
	notices  *Notices
	guard    *MutationGuard
	logger   *slog.Logger

	mu            sync.Mutex
	state         LifecycleState
	current       *domain.Event
	original      *domain.Event
	draft         *Draft
	pendingDelete domain.EventID
}

// NewEventLifecycleController wires a controller. guard may be nil to disable
// the per-event mutation lock.
func NewEventLifecycleController(
	remote domain.RemoteStore,
	entities *catalog.EntityStore,
	identity *IdentityResolver,
	notices *Notices,
	guard *MutationGuard,
	logger *slog.Logger,
) *EventLifecycleController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EventLifecycleController{
		remote:   remote,
		entities: entities,
		identity: identity,
		notices:  notices,
		guard:    guard,
		logger:   logger,
		state:    StateViewing,
	}
}

// State returns the current state.
func (c *EventLifecycleController) State() LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the event last shown in detail, or nil.
func (c *EventLifecycleController) Current() *domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// Draft returns the open create/edit session, if any.
func (c *EventLifecycleController) Draft() (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return Draft{}, false
	}
	d := *c.draft
	d.Form.CategoryIDs = slices.Clone(d.Form.CategoryIDs)
	return d, true
}

// Catalog projects the cached events through q.
func (c *EventLifecycleController) Catalog(q catalog.Query) []catalog.EventCard {
	return catalog.Project(c.entities.Snapshot(), q)
}

// View loads event id from the store and denormalizes it. A creator that
// cannot be loaded is left absent.
func (c *EventLifecycleController) View(ctx context.Context, id domain.EventID) (*EventDetail, error) {
	if err := c.expect(StateViewing); err != nil {
		return nil, err
	}
	event, err := c.remote.GetEvent(ctx, id)
	if err != nil {
		c.logger.ErrorContext(ctx, "fetch event failed", "event_id", id, "err", err)
		return nil, &domain.FetchError{Resource: fmt.Sprintf("event %d", id), Err: err}
	}

	detail := &EventDetail{
		Event:         *event.Clone(),
		CategoryNames: c.entities.CategoryNamesFor(event.CategoryIDs),
	}
	if event.CreatedBy != nil {
		detail.Creator = c.lookupCreator(ctx, *event.CreatedBy)
	}

	c.mu.Lock()
	c.current = event
	c.mu.Unlock()
	return detail, nil
}

func (c *EventLifecycleController) lookupCreator(ctx context.Context, id domain.UserID) *domain.User {
	if u, ok := c.entities.UserByID(id); ok {
		return &u
	}
	u, err := c.remote.GetUser(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch event creator failed", "user_id", id, "err", err)
		return nil
	}
	return u
}

// BeginCreate resolves author and opens a blank draft. With an empty author
// name the event will be created anonymously.
func (c *EventLifecycleController) BeginCreate(ctx context.Context, author Author) error {
	if err := c.expect(StateViewing); err != nil {
		return err
	}
	user, err := c.identity.ResolveOrCreateUser(ctx, author.Name, author.Image)
	if err != nil {
		c.notices.Error(msgIdentityFailed)
		return err
	}

	draft := &Draft{Form: EventForm{CategoryIDs: []domain.CategoryID{}}, Author: user}
	if user != nil {
		draft.CreatedBy = domain.UserIDPtr(user.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
	c.original = nil
	c.state = StateCreatingOrEditing
	return nil
}

// BeginEdit loads event id, resolves author when a name is supplied, and opens
// a draft pre-populated with the event's fields. Without an author name the
// event keeps its current creator. An event missing from the store is a SaveError.
func (c *EventLifecycleController) BeginEdit(ctx context.Context, id domain.EventID, author Author) error {
	if err := c.expect(StateViewing); err != nil {
		return err
	}
	event, err := c.remote.GetEvent(ctx, id)
	if err != nil {
		c.logger.ErrorContext(ctx, "load event for edit failed", "event_id", id, "err", err)
		c.notices.Error(msgLoadFailed)
		return &domain.SaveError{EventID: id, Op: "edit", Err: err}
	}
	user, err := c.identity.ResolveOrCreateUser(ctx, author.Name, author.Image)
	if err != nil {
		c.notices.Error(msgIdentityFailed)
		return err
	}

	draft := &Draft{EventID: id, Form: FormFromEvent(event), CreatedBy: event.Clone().CreatedBy, Author: user}
	if user != nil {
		draft.CreatedBy = domain.UserIDPtr(user.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
	c.original = event
	c.current = event.Clone()
	c.state = StateCreatingOrEditing
	return nil
}

// CancelEdit discards the draft and returns to viewing.
func (c *EventLifecycleController) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateCreatingOrEditing {
		return fmt.Errorf("cancel edit in state %s: %w", c.state, domain.ErrInvalidState)
	}
	c.draft = nil
	c.original = nil
	c.state = StateViewing
	return nil
}

// Submit saves form. Creates are POSTed; edits are merged onto the record
// loaded by BeginEdit and PUT in full. On failure the draft stays open with
// form so the caller can retry.
func (c *EventLifecycleController) Submit(ctx context.Context, form EventForm) (*domain.Event, error) {
	c.mu.Lock()
	if c.state != StateCreatingOrEditing || c.draft == nil {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("submit in state %s: %w", state, domain.ErrInvalidState)
	}
	c.draft.Form = form
	draft := *c.draft
	original := c.original
	editing := draft.EventID != 0
	if editing && !c.guard.TryAcquire(draft.EventID) {
		c.mu.Unlock()
		c.notices.Error(msgMutationInFlight)
		return nil, &domain.SaveError{EventID: draft.EventID, Op: "update", Err: domain.ErrMutationInProgress}
	}
	c.state = StateSaving
	c.mu.Unlock()

	var (
		saved *domain.Event
		err   error
		op    = "create"
	)
	if editing {
		op = "update"
		payload := MergeEventEdit(original, form, draft.CreatedBy)
		saved, err = c.remote.ReplaceEvent(ctx, payload)
		c.guard.Release(draft.EventID)
	} else {
		categoryIDs := form.CategoryIDs
		if categoryIDs == nil {
			categoryIDs = []domain.CategoryID{}
		}
		payload := domain.NewEvent(form.Title, form.Description, form.Image, form.Location, form.StartTime, form.EndTime, categoryIDs, draft.CreatedBy)
		if verr := payload.Validate(); verr != nil {
			c.logger.WarnContext(ctx, "saving event that fails validation", "err", verr)
		}
		saved, err = c.remote.CreateEvent(ctx, payload)
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "save event failed", "op", op, "event_id", draft.EventID, "err", err)
		c.mu.Lock()
		c.state = StateCreatingOrEditing
		c.mu.Unlock()
		if editing {
			c.notices.Error(msgUpdateFailed)
		} else {
			c.notices.Error(msgAddFailed)
		}
		return nil, &domain.SaveError{EventID: draft.EventID, Op: op, Err: err}
	}

	c.mu.Lock()
	c.state = StateViewing
	c.draft = nil
	c.original = nil
	c.current = saved.Clone()
	c.mu.Unlock()

	if editing {
		c.notices.Success(msgEventUpdated)
	} else {
		c.notices.Success(msgEventAdded)
	}
	c.logger.InfoContext(ctx, "event saved", "op", op, "event_id", saved.ID)

	if err := c.entities.RefreshEvents(ctx); err != nil {
		c.logger.WarnContext(ctx, "event list not refreshed after save", "event_id", saved.ID, "err", err)
	}
	return saved, nil
}

// RequestDelete asks for confirmation before deleting id. No store call is made.
func (c *EventLifecycleController) RequestDelete(id domain.EventID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateViewing {
		return fmt.Errorf("request delete in state %s: %w", c.state, domain.ErrInvalidState)
	}
	c.pendingDelete = id
	c.state = StateConfirmingDelete
	return nil
}

// CancelDelete abandons a pending delete with no side effect.
func (c *EventLifecycleController) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConfirmingDelete {
		return fmt.Errorf("cancel delete in state %s: %w", c.state, domain.ErrInvalidState)
	}
	c.pendingDelete = 0
	c.state = StateViewing
	return nil
}

// ConfirmDelete deletes the event named by RequestDelete. On success the
// deleted event is no longer current; on failure it is assumed to still exist.
func (c *EventLifecycleController) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateConfirmingDelete {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("confirm delete in state %s: %w", state, domain.ErrInvalidState)
	}
	id := c.pendingDelete
	c.pendingDelete = 0
	if !c.guard.TryAcquire(id) {
		c.state = StateViewing
		c.mu.Unlock()
		c.notices.Error(msgMutationInFlight)
		return &domain.DeleteError{EventID: id, Err: domain.ErrMutationInProgress}
	}
	c.state = StateDeleting
	c.mu.Unlock()

	err := c.remote.DeleteEvent(ctx, id)
	c.guard.Release(id)

	c.mu.Lock()
	c.state = StateViewing
	if err == nil && c.current != nil && c.current.ID == id {
		c.current = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.ErrorContext(ctx, "delete event failed", "event_id", id, "err", err)
		c.notices.Error(msgDeleteFailed)
		return &domain.DeleteError{EventID: id, Err: err}
	}

	c.notices.Success(msgEventDeleted)
	c.logger.InfoContext(ctx, "event deleted", "event_id", id)
	if err := c.entities.RefreshEvents(ctx); err != nil {
		c.logger.WarnContext(ctx, "event list not refreshed after delete", "event_id", id, "err", err)
	}
	return nil
}

func (c *EventLifecycleController) expect(want LifecycleState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != want {
		return fmt.Errorf("expected state %s, have %s: %w", want, c.state, domain.ErrInvalidState)
	}
	return nil
}
