package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"eventcatalog/internal/domain"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(name, image\)`).
		WithArgs("Alice", "alice.png").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	u := &domain.User{Name: "Alice", Image: "alice.png"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	assert.Equal(t, domain.UserID(7), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListByName(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantLen int
		wantErr bool
	}{
		{
			name: "exact match",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, image FROM users WHERE name = \$1`).
					WithArgs("Alice").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).AddRow(int64(1), "Alice", ""))
			},
			wantLen: 1,
		},
		{
			name: "no match is empty not nil",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, image FROM users WHERE name = \$1`).
					WithArgs("Alice").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}))
			},
			wantLen: 0,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, image FROM users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			users, err := NewUserRepository(db).ListByName(ctx, "Alice")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, users)
			assert.Len(t, users, tt.wantLen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, image FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).AddRow(int64(2), "Bob", "bob.png"))
	mock.ExpectQuery(`SELECT id, name, image FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	u, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob.png", u.Image)

	_, err = repo.GetByID(context.Background(), 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM categories ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(5), "Music").AddRow(int64(6), "Food"))
	mock.ExpectExec(`INSERT INTO categories \(id, name\)`).
		WithArgs(int64(7), "Art").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO categories \(id, name\)`).
		WithArgs(int64(8), "Music").
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewCategoryRepository(db)
	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, domain.CategoryID(6), categories[1].ID)

	require.NoError(t, repo.Upsert(ctx, &domain.Category{ID: 7, Name: "Art"}))
	err = repo.Upsert(ctx, &domain.Category{ID: 8, Name: "Music"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaAndSyncSequences(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS categories`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS users_name_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS events`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(ctx, db))

	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('categories'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('users'`).WillReturnError(sql.ErrConnDone)
	err = SyncSequences(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
	require.NoError(t, mock.ExpectationsWereMet())
}
