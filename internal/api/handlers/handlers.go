package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orkestra-labs/roster-backend/internal/models"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth          *AuthHandler
	Member        *MemberHandler
	StatusRequest *StatusRequestHandler
	Notification  *NotificationHandler
	Event         *EventHandler
	Post          *PostHandler
	Setting       *SettingHandler
	Export        *ExportHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:          &AuthHandler{authService: services.Auth, memberService: services.Member},
		Member:        &MemberHandler{memberService: services.Member},
		StatusRequest: &StatusRequestHandler{requestService: services.StatusRequest},
		Notification:  &NotificationHandler{notificationService: services.Notification},
		Event:         &EventHandler{eventService: services.Event},
		Post:          &PostHandler{postService: services.Post},
		Setting:       &SettingHandler{settingService: services.Setting},
		Export:        &ExportHandler{exportService: services.Export},
	}
}

// respondError maps service sentinel errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrFieldNotEditable):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRequestResolved),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrMemberExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toMemberResponse(m *repository.Member) models.MemberResponse {
	return models.MemberResponse{
		ID:               m.ID,
		Name:             m.Name,
		RegistrationNo:   m.RegistrationNo,
		Email:            m.Email,
		Phone:            m.Phone,
		Department:       m.Department,
		Cohort:           m.Cohort,
		Status:           m.Status,
		ConfirmationDate: m.ConfirmationDate,
		PhotoURL:         m.PhotoURL,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toStatusRequestResponse(r *repository.StatusChangeRequest) models.StatusRequestResponse {
	return models.StatusRequestResponse{
		ID:            r.ID,
		TargetID:      r.TargetID,
		TargetName:    r.TargetName,
		InitiatorID:   r.InitiatorID,
		InitiatorName: r.InitiatorName,
		FromStatus:    r.FromStatus,
		ToStatus:      r.ToStatus,
		Status:        r.Status,
		ResolvedAt:    r.ResolvedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}

func toEventResponse(e *repository.Event) models.EventResponse {
	return models.EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Fee:         e.Fee,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toPostResponse(p *repository.Post) models.PostResponse {
	return models.PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Body,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Pinned:     p.Pinned,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toSettingResponse(s *repository.Setting) models.SettingResponse {
	return models.SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}

func toBackupResponse(b *repository.Backup) models.BackupResponse {
	resp := models.BackupResponse{
		ID:          b.ID,
		ObjectKey:   b.ObjectKey,
		SizeBytes:   b.SizeBytes,
		MemberCount: b.MemberCount,
		CreatedAt:   b.CreatedAt,
	}
	if b.CreatedBy != nil {
		resp.CreatedBy = *b.CreatedBy
	}
	return resp
}
