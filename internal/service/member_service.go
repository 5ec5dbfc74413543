package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/orkestra-labs/roster-backend/internal/db"
	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/policy"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/socket"
	"github.com/orkestra-labs/roster-backend/internal/storage"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ============================================
// Member Service
// ============================================

// PhotoUpload carries an uploaded profile photo stream.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MemberUpdateInput is the field set a viewer asks to change. Nil means
// "leave unchanged". Status changes may be deferred into a status change
// request instead of applied directly.
type MemberUpdateInput struct {
	Name             *string
	RegistrationNo   *string
	Email            *string
	Phone            *string
	Department       *string
	Cohort           *int
	Status           *string
	ConfirmationDate *time.Time
	Photo            *PhotoUpload
}

// UpdateResult reports what an update did: the written member row, and the
// status change request created when the status edit required approval.
type UpdateResult struct {
	Member  *repository.Member
	Request *repository.StatusChangeRequest
}

type MemberService interface {
	Create(ctx context.Context, viewerID string, m *repository.Member, plainPassword string) (*repository.Member, error)
	GetByID(ctx context.Context, id string) (*repository.Member, error)
	List(ctx context.Context) ([]*repository.Member, error)
	Update(ctx context.Context, viewerID, targetID string, input *MemberUpdateInput) (*UpdateResult, error)
	Delete(ctx context.Context, viewerID, targetID string) error
	EditableFields(ctx context.Context, viewerID, targetID string) (map[string]bool, error)
}

type memberService struct {
	memberRepo  repository.MemberRepository
	requests    StatusRequestService
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
	redis       *db.RedisDB
	storage     *storage.Client
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	requests StatusRequestService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
	redis *db.RedisDB,
	store *storage.Client,
) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		requests:    requests,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
		redis:       redis,
		storage:     store,
	}
}

func (s *memberService) Create(ctx context.Context, viewerID string, m *repository.Member, plainPassword string) (*repository.Member, error) {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil || !types.IsAdminStatus(viewer.Status) {
		return nil, ErrForbidden
	}

	if m.Status == "" {
		m.Status = types.StatusMember
	}
	if !types.IsValidMembershipStatus(m.Status) {
		return nil, ErrInvalidStatus
	}

	if existing, _ := s.memberRepo.FindByEmail(ctx, m.Email); existing != nil {
		return nil, ErrMemberExists
	}
	if existing, _ := s.memberRepo.FindByRegistrationNo(ctx, m.RegistrationNo); existing != nil {
		return nil, ErrMemberExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	m.Password = string(hashed)

	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.invalidateListCache(ctx)

	if s.notifSvc != nil {
		s.notifSvc.SendWelcome(ctx, m.ID, m.Name)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberCreated(map[string]interface{}{
			"id":     m.ID,
			"name":   m.Name,
			"status": m.Status,
		}, viewerID)
	}

	return m, nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*repository.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *memberService) List(ctx context.Context) ([]*repository.Member, error) {
	if s.redis != nil {
		var cached []*repository.Member
		if err := s.redis.GetMemberList(ctx, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.CacheMemberList(ctx, members); err != nil {
			log.Printf("[MemberService] Failed to cache member list: %v", err)
		}
	}

	return members, nil
}

// Update applies the field edits the viewer is allowed to make. A status
// edit that the role policy routes through approval becomes a pending
// status change request instead of a direct write.
func (s *memberService) Update(ctx context.Context, viewerID, targetID string, input *MemberUpdateInput) (*UpdateResult, error) {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUnauthorized
	}

	target, err := s.memberRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	viewerSub := policy.Subject{ID: viewer.ID, Status: viewer.Status}
	targetSub := policy.Subject{ID: target.ID, Status: target.Status}

	upd := &repository.MemberUpdate{}
	var changed []string

	check := func(field string) error {
		if !policy.CanEditField(viewerSub, targetSub, field) {
			return fmt.Errorf("%w: %s", ErrFieldNotEditable, field)
		}
		changed = append(changed, field)
		return nil
	}

	if input.Name != nil {
		if err := check(types.FieldName); err != nil {
			return nil, err
		}
		upd.Name = input.Name
	}
	if input.RegistrationNo != nil {
		if err := check(types.FieldRegistrationNo); err != nil {
			return nil, err
		}
		upd.RegistrationNo = input.RegistrationNo
	}
	if input.Email != nil {
		if err := check(types.FieldEmail); err != nil {
			return nil, err
		}
		upd.Email = input.Email
	}
	if input.Phone != nil {
		if err := check(types.FieldPhone); err != nil {
			return nil, err
		}
		upd.Phone = input.Phone
	}
	if input.Department != nil {
		if err := check(types.FieldDepartment); err != nil {
			return nil, err
		}
		upd.Department = input.Department
	}
	if input.Cohort != nil {
		if err := check(types.FieldCohort); err != nil {
			return nil, err
		}
		upd.Cohort = input.Cohort
	}
	if input.ConfirmationDate != nil {
		if err := check(types.FieldConfirmationDate); err != nil {
			return nil, err
		}
		upd.ConfirmationDate = input.ConfirmationDate
	}

	if input.Photo != nil {
		if err := check(types.FieldPhoto); err != nil {
			return nil, err
		}
		if s.storage == nil {
			return nil, ErrStorageUnavailable
		}
		url, err := s.storage.UploadPhoto(ctx, target.ID,
			input.Photo.Filename, input.Photo.ContentType, input.Photo.Body, input.Photo.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		upd.PhotoURL = &url
	}

	var request *repository.StatusChangeRequest

	if input.Status != nil && *input.Status != target.Status {
		if err := check(types.FieldStatus); err != nil {
			return nil, err
		}
		if !types.IsValidMembershipStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		if !policy.CanTransition(target.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, target.Status, *input.Status)
		}

		if policy.NeedsApproval(viewer.Status, target.Status, viewer.ID == target.ID) {
			request, err = s.requests.Create(ctx, viewerID, targetID, *input.Status)
			if err != nil {
				return nil, err
			}
		} else {
			upd.Status = input.Status
		}
	}

	member := target
	if *upd != (repository.MemberUpdate{}) {
		member, err = s.memberRepo.Update(ctx, targetID, upd)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrNotFound
		}
	}

	s.invalidateListCache(ctx)

	if upd.Status != nil && s.notifSvc != nil && viewer.ID != target.ID {
		s.notifSvc.SendStatusChanged(ctx, target.ID, viewer.Name, target.Status, *upd.Status)
	}
	if len(changed) > 0 && s.broadcaster != nil {
		s.broadcaster.BroadcastMemberUpdated(map[string]interface{}{
			"id":     member.ID,
			"name":   member.Name,
			"status": member.Status,
		}, changed, viewerID)
	}

	return &UpdateResult{Member: member, Request: request}, nil
}

func (s *memberService) Delete(ctx context.Context, viewerID, targetID string) error {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer == nil || !types.IsAdminStatus(viewer.Status) {
		return ErrForbidden
	}

	target, err := s.memberRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	// Founder records are never removed.
	if target.Status == types.StatusFounder {
		return ErrForbidden
	}

	if err := s.memberRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	s.invalidateListCache(ctx)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberDeleted(targetID, viewerID)
	}
	return nil
}

// EditableFields returns the role policy's field map for the viewer against
// the target record.
func (s *memberService) EditableFields(ctx context.Context, viewerID, targetID string) (map[string]bool, error) {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUnauthorized
	}

	target, err := s.memberRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	return policy.EditableFields(
		policy.Subject{ID: viewer.ID, Status: viewer.Status},
		policy.Subject{ID: target.ID, Status: target.Status},
	), nil
}

func (s *memberService) invalidateListCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateMembers(ctx); err != nil {
		log.Printf("[MemberService] Failed to invalidate member cache: %v", err)
	}
}
