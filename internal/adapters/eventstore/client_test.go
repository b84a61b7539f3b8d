package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventcatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake store server received.
type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
}

func newTestStore(t *testing.T, status int, response string) (domain.RemoteStore, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewHTTPStore(srv.Client(), srv.URL+"/"), &reqs
}

func TestHTTPStore_ListEvents(t *testing.T) {
	store, reqs := newTestStore(t, http.StatusOK, `[{"id":1,"title":"Jazz Night","categoryIds":[5],"createdBy":2}]`)

	events, err := store.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)
	assert.Equal(t, []domain.CategoryID{5}, events[0].CategoryIDs)
	require.NotNil(t, events[0].CreatedBy)
	assert.Equal(t, domain.UserID(2), *events[0].CreatedBy)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodGet, (*reqs)[0].method)
	assert.Equal(t, "/events", (*reqs)[0].path)
}

func TestHTTPStore_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		call       func(domain.RemoteStore) error
		isNotFound bool
	}{
		{
			name:   "list categories server error",
			status: http.StatusInternalServerError,
			call: func(s domain.RemoteStore) error {
				_, err := s.ListCategories(context.Background())
				return err
			},
		},
		{
			name:   "get missing event",
			status: http.StatusNotFound,
			call: func(s domain.RemoteStore) error {
				_, err := s.GetEvent(context.Background(), 42)
				return err
			},
			isNotFound: true,
		},
		{
			name:   "delete missing event",
			status: http.StatusNotFound,
			call: func(s domain.RemoteStore) error {
				return s.DeleteEvent(context.Background(), 42)
			},
			isNotFound: true,
		},
		{
			name:   "create user rejected",
			status: http.StatusBadRequest,
			call: func(s domain.RemoteStore) error {
				_, err := s.CreateUser(context.Background(), domain.NewUser("Alice", ""))
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t, tt.status, `{"data":null,"error":{"code":"x","message":"y"}}`)
			err := tt.call(store)
			require.Error(t, err)
			var serr *domain.StatusError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.status, serr.StatusCode)
			assert.Equal(t, tt.isNotFound, errors.Is(err, domain.ErrNotFound))
		})
	}
}

func TestHTTPStore_CreateUserBody(t *testing.T) {
	store, reqs := newTestStore(t, http.StatusCreated, `{"id":7,"name":"Alice","image":""}`)

	user, err := store.CreateUser(context.Background(), &domain.User{ID: 99, Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(7), user.ID)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPost, (*reqs)[0].method)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].body), &body))
	assert.Equal(t, map[string]any{"name": "Alice", "image": ""}, body)
}

func TestHTTPStore_FindUsersByNameEscapes(t *testing.T) {
	store, reqs := newTestStore(t, http.StatusOK, `[]`)

	users, err := store.FindUsersByName(context.Background(), "Ann & Bob")
	require.NoError(t, err)
	assert.Empty(t, users)
	require.Len(t, *reqs, 1)
	assert.Equal(t, "/users", (*reqs)[0].path)
	assert.Equal(t, "name=Ann+%26+Bob", (*reqs)[0].query)
}

func TestHTTPStore_ReplaceEvent(t *testing.T) {
	store, reqs := newTestStore(t, http.StatusOK, `{"id":3,"title":"New"}`)

	got, err := store.ReplaceEvent(context.Background(), &domain.Event{ID: 3, Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/events/3", (*reqs)[0].path)
	assert.Contains(t, (*reqs)[0].body, `"title":"New"`)
}

func TestHTTPStore_DecodeError(t *testing.T) {
	store, _ := newTestStore(t, http.StatusOK, `not json`)

	_, err := store.ListUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode store response")
}
