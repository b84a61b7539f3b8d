package services

import (
	"context"
	"io"
	"log/slog"

	"eventcatalog/internal/catalog"
	"eventcatalog/internal/domain"
)

// IdentityResolver maps a display name to a stable User, creating one on first use.
// Two people with the same name share one identity; there is no authentication
// layer to tell them apart.
type IdentityResolver struct {
	remote   domain.RemoteStore
	entities *catalog.EntityStore
	logger   *slog.Logger
}

// NewIdentityResolver returns a resolver that consults entities first and remote second.
func NewIdentityResolver(remote domain.RemoteStore, entities *catalog.EntityStore, logger *slog.Logger) *IdentityResolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IdentityResolver{remote: remote, entities: entities, logger: logger}
}

// ResolveOrCreateUser returns the user named name, creating it with image when
// no such user exists. An existing user is returned unchanged and image is ignored.
// An empty name resolves to (nil, nil): the caller authors anonymously.
// Names match exactly and case-sensitively.
func (r *IdentityResolver) ResolveOrCreateUser(ctx context.Context, name, image string) (*domain.User, error) {
	if name == "" {
		return nil, nil
	}

	if u, ok := r.entities.UserByName(name); ok {
		return &u, nil
	}

	// The cache may predate a user created by another client.
	found, err := r.remote.FindUsersByName(ctx, name)
	if err != nil {
		r.logger.ErrorContext(ctx, "user lookup failed", "name", name, "err", err)
		return nil, &domain.FetchError{Resource: "users", Err: err}
	}
	for _, u := range found {
		if u.Name == name {
			return &u, nil
		}
	}

	created, err := r.remote.CreateUser(ctx, domain.NewUser(name, image))
	if err != nil {
		r.logger.ErrorContext(ctx, "create user failed", "name", name, "err", err)
		return nil, &domain.CreateUserError{Name: name, Err: err}
	}
	r.logger.InfoContext(ctx, "created user", "name", name, "user_id", created.ID)

	if err := r.entities.RefreshUsers(ctx); err != nil {
		r.logger.WarnContext(ctx, "user cache not refreshed after create", "user_id", created.ID, "err", err)
	}
	return created, nil
}
