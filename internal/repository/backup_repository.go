package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Backup struct {
	ID          string
	ObjectKey   string
	SizeBytes   int64
	MemberCount int
	CreatedBy   *string
	CreatedAt   time.Time
}

type BackupRepository interface {
	Create(ctx context.Context, b *Backup) error
	FindByID(ctx context.Context, id string) (*Backup, error)
	FindAll(ctx context.Context) ([]*Backup, error)
}

type pgBackupRepository struct {
	pool *pgxpool.Pool
}

func NewBackupRepository(pool *pgxpool.Pool) BackupRepository {
	return &pgBackupRepository{pool: pool}
}

func (r *pgBackupRepository) Create(ctx context.Context, b *Backup) error {
	query := `
		INSERT INTO backups (object_key, size_bytes, member_count, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, b.ObjectKey, b.SizeBytes, b.MemberCount, b.CreatedBy).
		Scan(&b.ID, &b.CreatedAt)
}

func (r *pgBackupRepository) FindByID(ctx context.Context, id string) (*Backup, error) {
	b := &Backup{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, object_key, size_bytes, member_count, created_by, created_at FROM backups WHERE id = $1`, id,
	).Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.MemberCount, &b.CreatedBy, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgBackupRepository) FindAll(ctx context.Context) ([]*Backup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, object_key, size_bytes, member_count, created_by, created_at FROM backups ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []*Backup
	for rows.Next() {
		b := &Backup{}
		if err := rows.Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.MemberCount, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}
