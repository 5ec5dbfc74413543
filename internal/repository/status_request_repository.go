package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ErrRequestAlreadyResolved is returned when an accept or reject races with a
// prior resolution. The request row is terminal once resolved; the guard is
// the WHERE status = 'pending' clause, not an application-level check.
var ErrRequestAlreadyResolved = errors.New("status change request already resolved")

type StatusChangeRequest struct {
	ID            string
	TargetID      string
	InitiatorID   string
	FromStatus    string
	ToStatus      string
	Status        string
	ResolverID    *string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TargetName    string
	InitiatorName string
}

type StatusRequestRepository interface {
	Create(ctx context.Context, req *StatusChangeRequest) error
	FindByID(ctx context.Context, id string) (*StatusChangeRequest, error)
	FindPendingByTarget(ctx context.Context, targetID string) ([]*StatusChangeRequest, error)
	FindByInitiator(ctx context.Context, initiatorID string) ([]*StatusChangeRequest, error)
	ExistsPending(ctx context.Context, targetID, toStatus string) (bool, error)
	FindPendingOlderThan(ctx context.Context, age time.Duration) ([]*StatusChangeRequest, error)
	Accept(ctx context.Context, id, resolverID string) (*StatusChangeRequest, error)
	Reject(ctx context.Context, id, resolverID string) (*StatusChangeRequest, error)
}

type pgStatusRequestRepository struct {
	pool *pgxpool.Pool
}

func NewStatusRequestRepository(pool *pgxpool.Pool) StatusRequestRepository {
	return &pgStatusRequestRepository{pool: pool}
}

const requestColumns = `r.id, r.target_id, r.initiator_id, r.from_status, r.to_status,
	r.status, r.resolver_id, r.resolved_at, r.created_at, r.updated_at,
	t.name, i.name`

const requestJoins = `
	FROM status_change_requests r
	JOIN members t ON t.id = r.target_id
	JOIN members i ON i.id = r.initiator_id`

func scanRequest(row pgx.Row) (*StatusChangeRequest, error) {
	req := &StatusChangeRequest{}
	err := row.Scan(
		&req.ID, &req.TargetID, &req.InitiatorID, &req.FromStatus, &req.ToStatus,
		&req.Status, &req.ResolverID, &req.ResolvedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.TargetName, &req.InitiatorName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *pgStatusRequestRepository) Create(ctx context.Context, req *StatusChangeRequest) error {
	query := `
		INSERT INTO status_change_requests (target_id, initiator_id, from_status, to_status, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if req.Status == "" {
		req.Status = types.RequestPending
	}
	return r.pool.QueryRow(ctx, query,
		req.TargetID, req.InitiatorID, req.FromStatus, req.ToStatus, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *pgStatusRequestRepository) FindByID(ctx context.Context, id string) (*StatusChangeRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + ` WHERE r.id = $1`
	return scanRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *pgStatusRequestRepository) FindPendingByTarget(ctx context.Context, targetID string) ([]*StatusChangeRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE r.target_id = $1 AND r.status = 'pending'
		ORDER BY r.created_at DESC`
	return r.findMany(ctx, query, targetID)
}

func (r *pgStatusRequestRepository) FindByInitiator(ctx context.Context, initiatorID string) ([]*StatusChangeRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE r.initiator_id = $1
		ORDER BY r.created_at DESC LIMIT 100`
	return r.findMany(ctx, query, initiatorID)
}

func (r *pgStatusRequestRepository) ExistsPending(ctx context.Context, targetID, toStatus string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM status_change_requests
			WHERE target_id = $1 AND to_status = $2 AND status = 'pending'
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, targetID, toStatus).Scan(&exists)
	return exists, err
}

func (r *pgStatusRequestRepository) FindPendingOlderThan(ctx context.Context, age time.Duration) ([]*StatusChangeRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE r.status = 'pending' AND r.created_at < $1
		ORDER BY r.created_at`
	return r.findMany(ctx, query, time.Now().Add(-age))
}

func (r *pgStatusRequestRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]*StatusChangeRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*StatusChangeRequest
	for rows.Next() {
		req := &StatusChangeRequest{}
		if err := rows.Scan(
			&req.ID, &req.TargetID, &req.InitiatorID, &req.FromStatus, &req.ToStatus,
			&req.Status, &req.ResolverID, &req.ResolvedAt, &req.CreatedAt, &req.UpdatedAt,
			&req.TargetName, &req.InitiatorName,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Accept marks the request accepted and applies the status change to the
// target member in one transaction. Either both rows change or neither does,
// so the member list and the request list can never disagree.
func (r *pgStatusRequestRepository) Accept(ctx context.Context, id, resolverID string) (*StatusChangeRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req, err := r.resolve(ctx, tx, id, resolverID, types.RequestAccepted)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE members SET status = $2, updated_at = NOW() WHERE id = $1`,
		req.TargetID, req.ToStatus,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

// Reject marks the request rejected; the target member is left untouched.
func (r *pgStatusRequestRepository) Reject(ctx context.Context, id, resolverID string) (*StatusChangeRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req, err := r.resolve(ctx, tx, id, resolverID, types.RequestRejected)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *pgStatusRequestRepository) resolve(ctx context.Context, tx pgx.Tx, id, resolverID, outcome string) (*StatusChangeRequest, error) {
	query := `
		UPDATE status_change_requests
		SET status = $3, resolver_id = $2, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, target_id, initiator_id, from_status, to_status, status,
			resolver_id, resolved_at, created_at, updated_at
	`
	req := &StatusChangeRequest{}
	err := tx.QueryRow(ctx, query, id, resolverID, outcome).Scan(
		&req.ID, &req.TargetID, &req.InitiatorID, &req.FromStatus, &req.ToStatus,
		&req.Status, &req.ResolverID, &req.ResolvedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		// Row exists but is terminal, or it never existed. Distinguish so the
		// handler can answer 409 versus 404.
		var found bool
		if checkErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM status_change_requests WHERE id = $1)`, id,
		).Scan(&found); checkErr != nil {
			return nil, checkErr
		}
		if found {
			return nil, ErrRequestAlreadyResolved
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}
