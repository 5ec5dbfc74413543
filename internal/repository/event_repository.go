package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Description *string         `db:"description"`
	Location    *string         `db:"location"`
	StartsAt    time.Time       `db:"starts_at"`
	EndsAt      *time.Time      `db:"ends_at"`
	Fee         decimal.Decimal `db:"fee"`
	CreatedBy   string          `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	FindUpcoming(ctx context.Context) ([]*Event, error)
	FindAll(ctx context.Context) ([]*Event, error)
	FindStartingWithin(ctx context.Context, window time.Duration) ([]*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

type sqlEventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &sqlEventRepository{db: db}
}

func (r *sqlEventRepository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (title, description, location, starts_at, ends_at, fee, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Fee, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *sqlEventRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	e := &Event{}
	err := r.db.GetContext(ctx, e, `SELECT * FROM events WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *sqlEventRepository) FindUpcoming(ctx context.Context) ([]*Event, error) {
	var events []*Event
	err := r.db.SelectContext(ctx, &events,
		`SELECT * FROM events WHERE starts_at >= NOW() ORDER BY starts_at`)
	return events, err
}

func (r *sqlEventRepository) FindAll(ctx context.Context) ([]*Event, error) {
	var events []*Event
	err := r.db.SelectContext(ctx, &events, `SELECT * FROM events ORDER BY starts_at DESC`)
	return events, err
}

func (r *sqlEventRepository) FindStartingWithin(ctx context.Context, window time.Duration) ([]*Event, error) {
	var events []*Event
	err := r.db.SelectContext(ctx, &events,
		`SELECT * FROM events WHERE starts_at BETWEEN NOW() AND $1 ORDER BY starts_at`,
		time.Now().Add(window))
	return events, err
}

func (r *sqlEventRepository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events SET title = $2, description = $3, location = $4,
			starts_at = $5, ends_at = $6, fee = $7, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Fee)
	return err
}

func (r *sqlEventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
