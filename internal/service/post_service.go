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
// Forum Post Service
// ============================================

type PostService interface {
	Create(ctx context.Context, authorID string, p *repository.Post) (*repository.Post, error)
	GetByID(ctx context.Context, id string) (*repository.Post, error)
	List(ctx context.Context, page, perPage int) ([]*repository.Post, int, error)
	Update(ctx context.Context, viewerID string, p *repository.Post) (*repository.Post, error)
	SetPinned(ctx context.Context, viewerID, id string, pinned bool) error
	Delete(ctx context.Context, viewerID, id string) error
}

type postService struct {
	postRepo    repository.PostRepository
	memberRepo  repository.MemberRepository
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

func NewPostService(
	postRepo repository.PostRepository,
	memberRepo repository.MemberRepository,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) PostService {
	return &postService{
		postRepo:    postRepo,
		memberRepo:  memberRepo,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

func (s *postService) Create(ctx context.Context, authorID string, p *repository.Post) (*repository.Post, error) {
	author, err := s.memberRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUnauthorized
	}

	p.AuthorID = authorID
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.AuthorName = author.Name

	if s.notifSvc != nil {
		members, err := s.memberRepo.FindAll(ctx)
		if err == nil {
			ids := make([]string, 0, len(members))
			for _, m := range members {
				ids = append(ids, m.ID)
			}
			if err := s.notifSvc.SendPostCreated(ctx, ids, authorID, author.Name, p.Title, p.ID); err != nil {
				log.Printf("[PostService] Failed to notify members: %v", err)
			}
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPostCreated(map[string]interface{}{
			"id":     p.ID,
			"title":  p.Title,
			"author": author.Name,
		}, authorID)
	}

	return p, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*repository.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, page, perPage int) ([]*repository.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.postRepo.FindAll(ctx, perPage, (page-1)*perPage)
}

// Update allows the author or an admin to edit a post.
func (s *postService) Update(ctx context.Context, viewerID string, p *repository.Post) (*repository.Post, error) {
	existing, err := s.postRepo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if err := s.authorizeWrite(ctx, viewerID, existing); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPostUpdated(map[string]interface{}{
			"id":    p.ID,
			"title": p.Title,
		}, viewerID)
	}
	return p, nil
}

// SetPinned is admin-only.
func (s *postService) SetPinned(ctx context.Context, viewerID, id string, pinned bool) error {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer == nil || !types.IsAdminStatus(viewer.Status) {
		return ErrForbidden
	}

	existing, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	return s.postRepo.SetPinned(ctx, id, pinned)
}

func (s *postService) Delete(ctx context.Context, viewerID, id string) error {
	existing, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.authorizeWrite(ctx, viewerID, existing); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPostDeleted(id, viewerID)
	}
	return nil
}

func (s *postService) authorizeWrite(ctx context.Context, viewerID string, post *repository.Post) error {
	if post.AuthorID == viewerID {
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
