package service

import (
	"context"
	"log"

	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/socket"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ============================================
// Event Service
// ============================================

type EventService interface {
	Create(ctx context.Context, creatorID string, e *repository.Event) (*repository.Event, error)
	GetByID(ctx context.Context, id string) (*repository.Event, error)
	List(ctx context.Context) ([]*repository.Event, error)
	ListUpcoming(ctx context.Context) ([]*repository.Event, error)
	Update(ctx context.Context, viewerID string, e *repository.Event) (*repository.Event, error)
	Delete(ctx context.Context, viewerID, id string) error
}

type eventService struct {
	eventRepo   repository.EventRepository
	memberRepo  repository.MemberRepository
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

func NewEventService(
	eventRepo repository.EventRepository,
	memberRepo repository.MemberRepository,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		memberRepo:  memberRepo,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

func (s *eventService) Create(ctx context.Context, creatorID string, e *repository.Event) (*repository.Event, error) {
	if err := s.requireAdmin(ctx, creatorID); err != nil {
		return nil, err
	}

	e.CreatedBy = creatorID
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		members, err := s.memberRepo.FindAll(ctx)
		if err == nil {
			ids := make([]string, 0, len(members))
			for _, m := range members {
				ids = append(ids, m.ID)
			}
			if err := s.notifSvc.SendEventCreated(ctx, ids, creatorID, e.Title, e.ID); err != nil {
				log.Printf("[EventService] Failed to notify members: %v", err)
			}
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEventCreated(map[string]interface{}{
			"id":       e.ID,
			"title":    e.Title,
			"startsAt": e.StartsAt,
		}, creatorID)
	}

	return e, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*repository.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*repository.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*repository.Event, error) {
	return s.eventRepo.FindUpcoming(ctx)
}

func (s *eventService) Update(ctx context.Context, viewerID string, e *repository.Event) (*repository.Event, error) {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return nil, err
	}

	existing, err := s.eventRepo.FindByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEventUpdated(map[string]interface{}{
			"id":    e.ID,
			"title": e.Title,
		}, viewerID)
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, viewerID, id string) error {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return err
	}

	existing, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEventDeleted(id, viewerID)
	}
	return nil
}

func (s *eventService) requireAdmin(ctx context.Context, memberID string) error {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrUnauthorized
	}
	if !types.IsAdminStatus(member.Status) {
		return ErrForbidden
	}
	return nil
}
