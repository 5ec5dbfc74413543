package service

import (
	"context"

	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ============================================
// Setting Service
// ============================================

type SettingService interface {
	Get(ctx context.Context, key string) (*repository.Setting, error)
	GetAll(ctx context.Context) ([]*repository.Setting, error)
	Set(ctx context.Context, viewerID string, settings map[string]string) error
}

type settingService struct {
	settingRepo repository.SettingRepository
	memberRepo  repository.MemberRepository
}

func NewSettingService(settingRepo repository.SettingRepository, memberRepo repository.MemberRepository) SettingService {
	return &settingService{settingRepo: settingRepo, memberRepo: memberRepo}
}

func (s *settingService) Get(ctx context.Context, key string) (*repository.Setting, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrNotFound
	}
	return setting, nil
}

func (s *settingService) GetAll(ctx context.Context) ([]*repository.Setting, error) {
	return s.settingRepo.GetAll(ctx)
}

// Set writes settings; admin only.
func (s *settingService) Set(ctx context.Context, viewerID string, settings map[string]string) error {
	viewer, err := s.memberRepo.FindByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer == nil || !types.IsAdminStatus(viewer.Status) {
		return ErrForbidden
	}

	for key, value := range settings {
		if key == "" {
			return ErrInvalidInput
		}
		if err := s.settingRepo.Set(ctx, key, value, viewerID); err != nil {
			return err
		}
	}
	return nil
}
