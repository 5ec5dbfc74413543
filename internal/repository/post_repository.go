package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type Post struct {
	ID         string    `db:"id"`
	AuthorID   string    `db:"author_id"`
	Title      string    `db:"title"`
	Body       string    `db:"body"`
	Pinned     bool      `db:"pinned"`
	AuthorName string    `db:"author_name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	FindAll(ctx context.Context, limit, offset int) ([]*Post, int, error)
	Update(ctx context.Context, p *Post) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
}

type sqlPostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &sqlPostRepository{db: db}
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.body, p.pinned, p.created_at, p.updated_at,
		m.name AS author_name
	FROM posts p
	JOIN members m ON m.id = p.author_id`

func (r *sqlPostRepository) Create(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (author_id, title, body, pinned)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query, p.AuthorID, p.Title, p.Body, p.Pinned).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *sqlPostRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	p := &Post{}
	err := r.db.GetContext(ctx, p, postSelect+` WHERE p.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqlPostRepository) FindAll(ctx context.Context, limit, offset int) ([]*Post, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, err
	}

	var posts []*Post
	err := r.db.SelectContext(ctx, &posts,
		postSelect+` ORDER BY p.pinned DESC, p.created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	return posts, total, err
}

func (r *sqlPostRepository) Update(ctx context.Context, p *Post) error {
	query := `UPDATE posts SET title = $2, body = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Body)
	return err
}

func (r *sqlPostRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET pinned = $2, updated_at = NOW() WHERE id = $1`, id, pinned)
	return err
}

func (r *sqlPostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}
