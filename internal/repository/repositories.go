package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	// Core repositories (pgxpool)
	MemberRepo        MemberRepository
	StatusRequestRepo StatusRequestRepository
	NotificationRepo  NotificationRepository
	SettingRepo       SettingRepository
	BackupRepo        BackupRepository

	// Content repositories (sqlx)
	EventRepo EventRepository
	PostRepo  PostRepository
}

func NewRepositories(pool *pgxpool.Pool, db *sqlx.DB) *Repositories {
	return &Repositories{
		MemberRepo:        NewMemberRepository(pool),
		StatusRequestRepo: NewStatusRequestRepository(pool),
		NotificationRepo:  NewNotificationRepository(pool),
		SettingRepo:       NewSettingRepository(pool),
		BackupRepo:        NewBackupRepository(pool),

		EventRepo: NewEventRepository(db),
		PostRepo:  NewPostRepository(db),
	}
}
