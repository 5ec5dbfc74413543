package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Setting struct {
	Key       string
	Value     string
	UpdatedBy *string
	UpdatedAt time.Time
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	GetAll(ctx context.Context) ([]*Setting, error)
	Set(ctx context.Context, key, value, updatedBy string) error
}

type pgSettingRepository struct {
	pool *pgxpool.Pool
}

func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &pgSettingRepository{pool: pool}
}

func (r *pgSettingRepository) Get(ctx context.Context, key string) (*Setting, error) {
	s := &Setting{}
	err := r.pool.QueryRow(ctx,
		`SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgSettingRepository) GetAll(ctx context.Context) ([]*Setting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_by, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*Setting
	for rows.Next() {
		s := &Setting{}
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *pgSettingRepository) Set(ctx context.Context, key, value, updatedBy string) error {
	query := `
		INSERT INTO settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, key, value, updatedBy)
	return err
}
