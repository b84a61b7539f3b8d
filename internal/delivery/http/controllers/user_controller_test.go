package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventcatalog/internal/delivery/http/helpers"
	"eventcatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_ListUsers(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantName string
	}{
		{name: "all users", url: "http://test/users", wantName: ""},
		{name: "by name", url: "http://test/users?name=Ann+%26+Bob", wantName: "Ann & Bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecordService{users: []*domain.User{}}
			ctrl := NewUserController(testLogger, fake)

			rr := httptest.NewRecorder()
			ctrl.ListUsers(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantName, fake.lastUserName)
			assert.JSONEq(t, `[]`, rr.Body.String())
		})
	}
}

func TestUserController_GetUser(t *testing.T) {
	fake := &fakeRecordService{users: []*domain.User{{ID: 3, Name: "Alice", Image: "alice.png"}}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{userID}", NewUserController(testLogger, fake).GetUser)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "found", path: "/users/3", wantStatus: http.StatusOK},
		{name: "not found", path: "/users/4", wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "negative id", path: "/users/-1", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test"+tt.path, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeEnvelope(t, rr.Body).Error.Code)
				return
			}
			assert.JSONEq(t, `{"id":3,"name":"Alice","image":"alice.png"}`, rr.Body.String())
		})
	}
}

func TestUserController_CreateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"name":"Alice","image":"alice.png"}`, wantStatus: http.StatusCreated},
		{name: "image optional", body: `{"name":"Bob"}`, wantStatus: http.StatusCreated},
		{name: "blank name", body: `{"name":"  "}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "service error", body: `{"name":"Alice"}`, serviceErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecordService{userErr: tt.serviceErr}
			ctrl := NewUserController(testLogger, fake)

			rr := httptest.NewRecorder()
			ctrl.CreateUser(rr, httptest.NewRequest(http.MethodPost, "http://test/users", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeEnvelope(t, rr.Body).Error.Code)
				return
			}
			var got domain.User
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, domain.UserID(9), got.ID)
			assert.Equal(t, fake.lastNewUser.Name, got.Name)
		})
	}
}
