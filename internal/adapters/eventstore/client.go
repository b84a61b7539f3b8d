package eventstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventcatalog/internal/domain"
)

type httpStore struct {
	client  *http.Client
	baseURL string
}

// NewHTTPStore returns a RemoteStore that talks to the record store at baseURL.
func NewHTTPStore(client *http.Client, baseURL string) domain.RemoteStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpStore{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *httpStore) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := s.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *httpStore) GetEvent(ctx context.Context, id domain.EventID) (*domain.Event, error) {
	var event domain.Event
	if err := s.do(ctx, http.MethodGet, eventPath(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *httpStore) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	var created domain.Event
	if err := s.do(ctx, http.MethodPost, "/events", event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *httpStore) ReplaceEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	var replaced domain.Event
	if err := s.do(ctx, http.MethodPut, eventPath(event.ID), event, &replaced); err != nil {
		return nil, err
	}
	return &replaced, nil
}

func (s *httpStore) DeleteEvent(ctx context.Context, id domain.EventID) error {
	return s.do(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

func (s *httpStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *httpStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *httpStore) FindUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	var users []domain.User
	path := "/users?" + url.Values{"name": {name}}.Encode()
	if err := s.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *httpStore) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := s.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(int64(id), 10), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// createUserRequest is the body the store expects for POST /users.
type createUserRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (s *httpStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created domain.User
	body := createUserRequest{Name: user.Name, Image: user.Image}
	if err := s.do(ctx, http.MethodPost, "/users", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func eventPath(id domain.EventID) string {
	return "/events/" + strconv.FormatInt(int64(id), 10)
}

// do sends one request. body, when non-nil, is sent as JSON; out, when non-nil,
// receives the decoded response. Any non-2xx status is a *domain.StatusError.
func (s *httpStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}
	return nil
}
