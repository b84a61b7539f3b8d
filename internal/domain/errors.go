package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors shared across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrMutationInProgress = errors.New("another change to this event is still in flight")
)

// StatusError is returned by the remote store client for any non-success response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: store returned status %d", e.Method, e.Path, e.StatusCode)
}

// Is reports a 404 as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// FetchError reports a failed read of a collection or record.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CreateUserError reports that the store rejected a new user identity.
type CreateUserError struct {
	Name string
	Err  error
}

func (e *CreateUserError) Error() string {
	return fmt.Sprintf("create user %q: %v", e.Name, e.Err)
}

func (e *CreateUserError) Unwrap() error { return e.Err }

// SaveError reports a failed create or update of an event. EventID is zero for creates.
type SaveError struct {
	EventID EventID
	Op      string
	Err     error
}

func (e *SaveError) Error() string {
	if e.EventID == 0 {
		return fmt.Sprintf("%s event: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s event %d: %v", e.Op, e.EventID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// DeleteError reports a failed delete of an event.
type DeleteError struct {
	EventID EventID
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete event %d: %v", e.EventID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// ValidationError collects field level problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is implements errors.Is support for ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// HasErrors reports whether any field problems were recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}
