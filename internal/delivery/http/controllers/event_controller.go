package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"eventcatalog/internal/delivery/http/helpers"
	"eventcatalog/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// PUT replaces the whole record, so omitted fields are stored empty.
type EventRequest struct {
	ID          domain.EventID      `json:"id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Location    string              `json:"location"`
	StartTime   domain.Timestamp    `json:"startTime" swaggertype:"string"`
	EndTime     domain.Timestamp    `json:"endTime" swaggertype:"string"`
	CategoryIDs []domain.CategoryID `json:"categoryIds"`
	CreatedBy   *domain.UserID      `json:"createdBy"`
}

// Validate implements Validator. Field rules on the record itself are checked
// by the service.
func (e EventRequest) Validate() []string {
	var errs []string
	for _, id := range e.CategoryIDs {
		if id <= 0 {
			errs = append(errs, fmt.Sprintf("categoryIds: invalid id %d", id))
		}
	}
	if e.CreatedBy != nil && *e.CreatedBy <= 0 {
		errs = append(errs, "createdBy must be a user id or null")
	}
	return errs
}

func (e EventRequest) toEvent(id domain.EventID) *domain.Event {
	event := domain.NewEvent(e.Title, e.Description, e.Image, e.Location, e.StartTime, e.EndTime, e.CategoryIDs, e.CreatedBy)
	event.ID = id
	return event
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.RecordService
}

func NewEventController(logger *slog.Logger, svc domain.RecordService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event in the store, ordered by id.
// @Tags events
// @Produce json
// @Success 200 {array} domain.Event
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), domain.EventID(id))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Stores a new event and assigns its id. createdBy is null for anonymous events.
// @Tags events
// @Accept json
// @Produce json
// @Param event body EventRequest true "Event record; id is ignored"
// @Success 201 {object} domain.Event "the stored event with its id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent(0)
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// ReplaceEvent godoc
// @Summary Replace an event
// @Description Overwrites the whole record at eventID with the request body.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param event body EventRequest true "Full event record"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) ReplaceEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.ID != 0 && req.ID != domain.EventID(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "body id does not match path")
		return
	}
	event := req.toEvent(domain.EventID(id))
	if err := c.Service.ReplaceEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]any "empty object"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), domain.EventID(id)); err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, struct{}{})
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *EventController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, categories)
}

// writeServiceError maps a service error to a status code. Unexpected errors
// are logged here once.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if notFoundMsg != "" && errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
