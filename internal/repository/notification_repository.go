package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Notification struct {
	ID        string
	MemberID  string
	Type      string
	Title     string
	Message   string
	Read      bool
	ReadAt    *time.Time
	Data      map[string]interface{}
	CreatedAt time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]*Notification, error)
	CountByMemberID(ctx context.Context, memberID string) (total int, unread int, err error)
	ExistsEventReminder(ctx context.Context, eventID string) (bool, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, memberID string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, memberID string) error
	DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error)
}

type pgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &pgNotificationRepository{pool: pool}
}

func (r *pgNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	dataJSON, err := json.Marshal(notification.Data)
	if err != nil {
		log.Printf("[NotificationRepo] Failed to marshal data payload: %v", err)
		dataJSON = []byte("{}")
	}
	if notification.Data == nil {
		dataJSON = []byte("{}")
	}
	query := `
		INSERT INTO notifications (member_id, type, title, message, read, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		notification.MemberID, notification.Type, notification.Title,
		notification.Message, notification.Read, dataJSON,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *pgNotificationRepository) FindByID(ctx context.Context, id string) (*Notification, error) {
	query := `SELECT id, member_id, type, title, message, read, read_at, data, created_at FROM notifications WHERE id = $1`
	n := &Notification{}
	var dataJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.MemberID, &n.Type, &n.Title, &n.Message, &n.Read, &n.ReadAt, &dataJSON, &n.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
		log.Printf("[NotificationRepo] Corrupt data payload on notification %s: %v", n.ID, err)
	}
	return n, nil
}

func (r *pgNotificationRepository) FindByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]*Notification, error) {
	query := `
		SELECT id, member_id, type, title, message, read, read_at, data, created_at
		FROM notifications WHERE member_id = $1
	`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		var dataJSON []byte
		if err := rows.Scan(
			&n.ID, &n.MemberID, &n.Type, &n.Title, &n.Message, &n.Read, &n.ReadAt, &dataJSON, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			log.Printf("[NotificationRepo] Corrupt data payload on notification %s: %v", n.ID, err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *pgNotificationRepository) CountByMemberID(ctx context.Context, memberID string) (total int, unread int, err error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE read = FALSE) as unread
		FROM notifications WHERE member_id = $1
	`
	err = r.pool.QueryRow(ctx, query, memberID).Scan(&total, &unread)
	return
}

// ExistsEventReminder reports whether a reminder for the event has already
// gone out to anyone. Reminders fan out to all members in one pass, so a
// single row is proof the event was handled.
func (r *pgNotificationRepository) ExistsEventReminder(ctx context.Context, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = 'EVENT_REMINDER' AND data->>'eventId' = $1
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&exists)
	return exists, err
}

func (r *pgNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET read = TRUE, read_at = NOW() WHERE id = $1 AND read = FALSE`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgNotificationRepository) MarkAllAsRead(ctx context.Context, memberID string) error {
	query := `UPDATE notifications SET read = TRUE, read_at = NOW() WHERE member_id = $1 AND read = FALSE`
	_, err := r.pool.Exec(ctx, query, memberID)
	return err
}

func (r *pgNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *pgNotificationRepository) DeleteAll(ctx context.Context, memberID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE member_id = $1`, memberID)
	return err
}

func (r *pgNotificationRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error) {
	query := `DELETE FROM notifications WHERE created_at < $1`
	if readOnly {
		query += ` AND read = TRUE`
	}
	result, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
