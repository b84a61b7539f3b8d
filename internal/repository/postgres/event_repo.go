package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventcatalog/internal/domain"

	"github.com/lib/pq"
)

const eventColumns = `id, title, description, image, location, start_time, end_time, category_ids, created_by`

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		startNull, endNull sql.NullTime
		categoryIDs        []int64
		createdByNull      sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Image, &e.Location,
		&startNull, &endNull, pq.Array(&categoryIDs), &createdByNull)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		e.StartTime = domain.NewTimestamp(startNull.Time)
	}
	if endNull.Valid {
		e.EndTime = domain.NewTimestamp(endNull.Time)
	}
	e.CategoryIDs = make([]domain.CategoryID, len(categoryIDs))
	for i, id := range categoryIDs {
		e.CategoryIDs[i] = domain.CategoryID(id)
	}
	if createdByNull.Valid {
		e.CreatedBy = domain.UserIDPtr(domain.UserID(createdByNull.Int64))
	}
	return e, nil
}

// eventArgs returns the column values after id, in eventColumns order.
func eventArgs(e *domain.Event) []any {
	categoryIDs := make([]int64, len(e.CategoryIDs))
	for i, id := range e.CategoryIDs {
		categoryIDs[i] = int64(id)
	}
	var createdBy sql.NullInt64
	if e.CreatedBy != nil {
		createdBy = sql.NullInt64{Int64: int64(*e.CreatedBy), Valid: true}
	}
	return []any{
		e.Title, e.Description, e.Image, e.Location,
		nullTime(e.StartTime), nullTime(e.EndTime),
		pq.Array(categoryIDs), createdBy,
	}
}

func nullTime(t domain.Timestamp) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.Time.UTC().Truncate(time.Microsecond), Valid: true}
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetByID(ctx context.Context, id domain.EventID) (*domain.Event, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, image, location, start_time, end_time, category_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, eventArgs(e)...).Scan(&e.ID)
}

func (r *eventRepository) Replace(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, image = $3, location = $4,
		    start_time = $5, end_time = $6, category_ids = $7, created_by = $8
		WHERE id = $9
	`
	args := append(eventArgs(e), e.ID)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id domain.EventID) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Upsert(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, image, location, start_time, end_time, category_ids, created_by, id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description, image = EXCLUDED.image,
			location = EXCLUDED.location, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			category_ids = EXCLUDED.category_ids, created_by = EXCLUDED.created_by
	`
	args := append(eventArgs(e), e.ID)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}
