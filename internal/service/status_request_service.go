package service

import (
	"context"
	"errors"
	"log"

	"github.com/orkestra-labs/roster-backend/internal/db"
	"github.com/orkestra-labs/roster-backend/internal/email"
	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/policy"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/socket"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ============================================
// Status Request Service
// ============================================

type StatusRequestService interface {
	Create(ctx context.Context, initiatorID, targetID, toStatus string) (*repository.StatusChangeRequest, error)
	GetByID(ctx context.Context, viewerID, id string) (*repository.StatusChangeRequest, error)
	ListPendingForMember(ctx context.Context, memberID string) ([]*repository.StatusChangeRequest, error)
	ListInitiatedBy(ctx context.Context, memberID string) ([]*repository.StatusChangeRequest, error)
	Accept(ctx context.Context, resolverID, requestID string) (*repository.StatusChangeRequest, error)
	Reject(ctx context.Context, resolverID, requestID string) (*repository.StatusChangeRequest, error)
}

type statusRequestService struct {
	requestRepo repository.StatusRequestRepository
	memberRepo  repository.MemberRepository
	notifSvc    *notification.Service
	emailSvc    *email.Service
	broadcaster *socket.Broadcaster
	redis       *db.RedisDB
}

func NewStatusRequestService(
	requestRepo repository.StatusRequestRepository,
	memberRepo repository.MemberRepository,
	notifSvc *notification.Service,
	emailSvc *email.Service,
	broadcaster *socket.Broadcaster,
	redis *db.RedisDB,
) StatusRequestService {
	return &statusRequestService{
		requestRepo: requestRepo,
		memberRepo:  memberRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		broadcaster: broadcaster,
		redis:       redis,
	}
}

func (s *statusRequestService) Create(ctx context.Context, initiatorID, targetID, toStatus string) (*repository.StatusChangeRequest, error) {
	initiator, err := s.memberRepo.FindByID(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	if initiator == nil {
		return nil, ErrUnauthorized
	}

	target, err := s.memberRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	// Same gate as a direct edit: a request is just a deferred status write,
	// so the initiator must be allowed to edit the target's status field.
	// Blocks self-initiated requests, non-admin initiators and founder
	// targets in one check.
	initiatorSubject := policy.Subject{ID: initiator.ID, Status: initiator.Status}
	targetSubject := policy.Subject{ID: target.ID, Status: target.Status}
	if !policy.CanEditField(initiatorSubject, targetSubject, types.FieldStatus) {
		return nil, ErrFieldNotEditable
	}

	if !types.IsValidMembershipStatus(toStatus) {
		return nil, ErrInvalidStatus
	}
	if !policy.CanTransition(target.Status, toStatus) {
		return nil, ErrInvalidTransition
	}

	exists, err := s.requestRepo.ExistsPending(ctx, targetID, toStatus)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	req := &repository.StatusChangeRequest{
		TargetID:    targetID,
		InitiatorID: initiatorID,
		FromStatus:  target.Status,
		ToStatus:    toStatus,
		Status:      types.RequestPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	req.TargetName = target.Name
	req.InitiatorName = initiator.Name

	if s.notifSvc != nil {
		s.notifSvc.SendStatusChangeRequested(ctx, targetID, initiator.Name, target.Status, toStatus, req.ID)
	}
	if s.emailSvc != nil {
		if err := s.emailSvc.SendStatusChangeRequest(target.Email, target.Name, initiator.Name, target.Status, toStatus, req.ID); err != nil {
			log.Printf("[StatusRequest] Failed to send request email: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.SendStatusRequestCreated(targetID, map[string]interface{}{
			"id":         req.ID,
			"fromStatus": req.FromStatus,
			"toStatus":   req.ToStatus,
			"initiator":  initiator.Name,
		})
	}

	return req, nil
}

func (s *statusRequestService) GetByID(ctx context.Context, viewerID, id string) (*repository.StatusChangeRequest, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	if err := s.authorizeView(ctx, viewerID, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *statusRequestService) ListPendingForMember(ctx context.Context, memberID string) ([]*repository.StatusChangeRequest, error) {
	return s.requestRepo.FindPendingByTarget(ctx, memberID)
}

func (s *statusRequestService) ListInitiatedBy(ctx context.Context, memberID string) ([]*repository.StatusChangeRequest, error) {
	return s.requestRepo.FindByInitiator(ctx, memberID)
}

// Accept resolves a pending request and applies the status change in the
// same transaction. A request that already left the pending state is a
// conflict, not a repeat success.
func (s *statusRequestService) Accept(ctx context.Context, resolverID, requestID string) (*repository.StatusChangeRequest, error) {
	req, err := s.loadForResolution(ctx, resolverID, requestID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.requestRepo.Accept(ctx, requestID, resolverID)
	if errors.Is(err, repository.ErrRequestAlreadyResolved) {
		return nil, ErrRequestResolved
	}
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, ErrNotFound
	}

	// The UPDATE ... RETURNING row carries no member names; reuse the ones
	// from the joined read above so notifications and emails stay named.
	resolved.TargetName = req.TargetName
	resolved.InitiatorName = req.InitiatorName

	s.afterResolution(ctx, resolved, true)
	return resolved, nil
}

// Reject resolves a pending request without touching the member record.
func (s *statusRequestService) Reject(ctx context.Context, resolverID, requestID string) (*repository.StatusChangeRequest, error) {
	req, err := s.loadForResolution(ctx, resolverID, requestID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.requestRepo.Reject(ctx, requestID, resolverID)
	if errors.Is(err, repository.ErrRequestAlreadyResolved) {
		return nil, ErrRequestResolved
	}
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, ErrNotFound
	}

	resolved.TargetName = req.TargetName
	resolved.InitiatorName = req.InitiatorName

	s.afterResolution(ctx, resolved, false)
	return resolved, nil
}

// loadForResolution fetches the request and checks that the resolver is the
// target of the request or an admin.
func (s *statusRequestService) loadForResolution(ctx context.Context, resolverID, requestID string) (*repository.StatusChangeRequest, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	if req.TargetID != resolverID {
		resolver, err := s.memberRepo.FindByID(ctx, resolverID)
		if err != nil {
			return nil, err
		}
		if resolver == nil || !types.IsAdminStatus(resolver.Status) {
			return nil, ErrForbidden
		}
	}
	return req, nil
}

func (s *statusRequestService) authorizeView(ctx context.Context, viewerID string, req *repository.StatusChangeRequest) error {
	if req.TargetID == viewerID || req.InitiatorID == viewerID {
		return nil
	}
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer == nil || !types.IsAdminStatus(viewer.Status) {
		return ErrForbidden
	}
	return nil
}

func (s *statusRequestService) afterResolution(ctx context.Context, req *repository.StatusChangeRequest, accepted bool) {
	if s.redis != nil {
		if err := s.redis.InvalidateMembers(ctx); err != nil {
			log.Printf("[StatusRequest] Failed to invalidate member cache: %v", err)
		}
	}

	if s.notifSvc != nil {
		if accepted {
			s.notifSvc.SendStatusChangeAccepted(ctx, req.InitiatorID, req.TargetName, req.ToStatus, req.ID)
		} else {
			s.notifSvc.SendStatusChangeRejected(ctx, req.InitiatorID, req.TargetName, req.ToStatus, req.ID)
		}
	}

	if s.emailSvc != nil {
		initiator, err := s.memberRepo.FindByID(ctx, req.InitiatorID)
		if err == nil && initiator != nil {
			if err := s.emailSvc.SendStatusChangeResolved(initiator.Email, initiator.Name, req.TargetName, req.ToStatus, accepted); err != nil {
				log.Printf("[StatusRequest] Failed to send resolution email: %v", err)
			}
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.SendStatusRequestResolved(req.InitiatorID, map[string]interface{}{
			"id":       req.ID,
			"status":   req.Status,
			"toStatus": req.ToStatus,
		})
		if accepted {
			s.broadcaster.BroadcastMemberUpdated(map[string]interface{}{
				"id":     req.TargetID,
				"status": req.ToStatus,
			}, []string{types.FieldStatus}, req.TargetID)
		}
	}
}
