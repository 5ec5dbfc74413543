package service

import (
	"errors"

	"github.com/orkestra-labs/roster-backend/internal/config"
	"github.com/orkestra-labs/roster-backend/internal/db"
	"github.com/orkestra-labs/roster-backend/internal/email"
	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/socket"
	"github.com/orkestra-labs/roster-backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMemberExists       = errors.New("member already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("unknown membership status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrFieldNotEditable   = errors.New("field not editable by viewer")
	ErrRequestResolved    = errors.New("status change request already resolved")
	ErrDuplicateRequest   = errors.New("a pending request for this change already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("object storage not configured")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth          AuthService
	Member        MemberService
	StatusRequest StatusRequestService
	Notification  NotificationService
	Event         EventService
	Post          PostService
	Setting       SettingService
	Export        ExportService
	Broadcaster   *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	NotifSvc    *notification.Service
	Feed        *notification.Feed
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
	Redis       *db.RedisDB
	Storage     *storage.Client
}

func NewServices(deps *ServiceDeps) *Services {
	statusRequestService := NewStatusRequestService(
		deps.Repos.StatusRequestRepo,
		deps.Repos.MemberRepo,
		deps.NotifSvc,
		deps.EmailSvc,
		deps.Broadcaster,
		deps.Redis,
	)

	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.MemberRepo),
		Member: NewMemberService(
			deps.Repos.MemberRepo,
			statusRequestService,
			deps.NotifSvc,
			deps.Broadcaster,
			deps.Redis,
			deps.Storage,
		),
		StatusRequest: statusRequestService,
		Notification:  NewNotificationService(deps.Repos.NotificationRepo, deps.NotifSvc, deps.Feed),
		Event:         NewEventService(deps.Repos.EventRepo, deps.Repos.MemberRepo, deps.NotifSvc, deps.Broadcaster),
		Post:          NewPostService(deps.Repos.PostRepo, deps.Repos.MemberRepo, deps.NotifSvc, deps.Broadcaster),
		Setting:       NewSettingService(deps.Repos.SettingRepo, deps.Repos.MemberRepo),
		Export:        NewExportService(deps.Repos.MemberRepo, deps.Repos.BackupRepo, deps.Storage),
		Broadcaster:   deps.Broadcaster,
	}
}
