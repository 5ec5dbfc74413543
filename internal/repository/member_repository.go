package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Member struct {
	ID               string
	Name             string
	RegistrationNo   string
	Email            string
	Password         string
	Phone            *string
	Department       *string
	Cohort           *int
	Status           string
	ConfirmationDate *time.Time
	PhotoURL         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	MemberID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MemberUpdate carries the field changes a service decided to apply. Nil
// pointers mean "leave unchanged" so the policy layer can strip disallowed
// fields before the write.
type MemberUpdate struct {
	Name             *string
	RegistrationNo   *string
	Email            *string
	Phone            *string
	Department       *string
	Cohort           *int
	Status           *string
	ConfirmationDate *time.Time
	PhotoURL         *string
}

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id string) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByRegistrationNo(ctx context.Context, regNo string) (*Member, error)
	FindAll(ctx context.Context) ([]*Member, error)
	FindByStatus(ctx context.Context, status string) ([]*Member, error)
	Update(ctx context.Context, id string, upd *MemberUpdate) (*Member, error)
	Delete(ctx context.Context, id string) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteMemberRefreshTokens(ctx context.Context, memberID string) error
}

type pgMemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgMemberRepository{pool: pool}
}

const memberColumns = `id, name, registration_no, email, password, phone, department,
	cohort, status, confirmation_date, photo_url, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID, &m.Name, &m.RegistrationNo, &m.Email, &m.Password, &m.Phone,
		&m.Department, &m.Cohort, &m.Status, &m.ConfirmationDate, &m.PhotoURL,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (name, registration_no, email, password, phone, department, cohort, status, confirmation_date, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		m.Name, m.RegistrationNo, m.Email, m.Password, m.Phone, m.Department,
		m.Cohort, m.Status, m.ConfirmationDate, m.PhotoURL,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *pgMemberRepository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE LOWER(email) = LOWER($1)`
	return scanMember(r.pool.QueryRow(ctx, query, email))
}

func (r *pgMemberRepository) FindByRegistrationNo(ctx context.Context, regNo string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE registration_no = $1`
	return scanMember(r.pool.QueryRow(ctx, query, regNo))
}

func (r *pgMemberRepository) FindAll(ctx context.Context) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name`
	return r.findMany(ctx, query)
}

func (r *pgMemberRepository) FindByStatus(ctx context.Context, status string) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE status = $1 ORDER BY name`
	return r.findMany(ctx, query, status)
}

func (r *pgMemberRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]*Member, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(
			&m.ID, &m.Name, &m.RegistrationNo, &m.Email, &m.Password, &m.Phone,
			&m.Department, &m.Cohort, &m.Status, &m.ConfirmationDate, &m.PhotoURL,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) Update(ctx context.Context, id string, upd *MemberUpdate) (*Member, error) {
	query := `
		UPDATE members SET
			name              = COALESCE($2, name),
			registration_no   = COALESCE($3, registration_no),
			email             = COALESCE($4, email),
			phone             = COALESCE($5, phone),
			department        = COALESCE($6, department),
			cohort            = COALESCE($7, cohort),
			status            = COALESCE($8, status),
			confirmation_date = COALESCE($9, confirmation_date),
			photo_url         = COALESCE($10, photo_url),
			updated_at        = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns
	return scanMember(r.pool.QueryRow(ctx, query, id,
		upd.Name, upd.RegistrationNo, upd.Email, upd.Phone, upd.Department,
		upd.Cohort, upd.Status, upd.ConfirmationDate, upd.PhotoURL,
	))
}

func (r *pgMemberRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	return err
}

func (r *pgMemberRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, member_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, token.Token, token.MemberID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *pgMemberRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `SELECT id, token, member_id, expires_at, created_at FROM refresh_tokens WHERE token = $1`
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.MemberID, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgMemberRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}

func (r *pgMemberRepository) DeleteMemberRefreshTokens(ctx context.Context, memberID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE member_id = $1`, memberID)
	return err
}
