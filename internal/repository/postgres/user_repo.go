package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventcatalog/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Image); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, `SELECT id, name, image FROM users ORDER BY id`)
}

func (r *userRepository) ListByName(ctx context.Context, name string) ([]*domain.User, error) {
	return r.list(ctx, `SELECT id, name, image FROM users WHERE name = $1 ORDER BY id`, name)
}

func (r *userRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, image FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, image)
		VALUES ($1, $2)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, u.Name, u.Image).Scan(&u.ID)
}

func (r *userRepository) Upsert(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, image = EXCLUDED.image
	`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.Name, u.Image)
	return err
}
