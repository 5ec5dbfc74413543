package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/storage"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// ============================================
// Export / Backup Service
// ============================================

// ExportedMember is the wire form of one member in export and backup files.
// StatusLegacy mirrors the form key the historical dashboard wrote; on
// import either key is accepted, with Status winning when both are set.
type ExportedMember struct {
	Name             string  `json:"name"`
	RegistrationNo   string  `json:"registration_no"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	Department       *string `json:"department,omitempty"`
	Cohort           *int    `json:"cohort,omitempty"`
	Status           string  `json:"status,omitempty"`
	StatusLegacy     string  `json:"status_keanggotaan,omitempty"`
	ConfirmationDate string  `json:"confirmation_date,omitempty"`
}

// ImportResult reports how an import run went.
type ImportResult struct {
	Imported int
	Skipped  int
}

type ExportService interface {
	ExportCSV(ctx context.Context) ([]byte, error)
	ExportJSON(ctx context.Context) ([]byte, error)
	CreateBackup(ctx context.Context, viewerID string) (*repository.Backup, error)
	ListBackups(ctx context.Context, viewerID string) ([]*repository.Backup, error)
	Import(ctx context.Context, viewerID string, payload []byte) (*ImportResult, error)
}

type exportService struct {
	memberRepo repository.MemberRepository
	backupRepo repository.BackupRepository
	storage    *storage.Client
}

func NewExportService(
	memberRepo repository.MemberRepository,
	backupRepo repository.BackupRepository,
	store *storage.Client,
) ExportService {
	return &exportService{
		memberRepo: memberRepo,
		backupRepo: backupRepo,
		storage:    store,
	}
}

var csvHeader = []string{
	"name", "registration_no", "email", "phone", "department",
	"cohort", "status", "confirmation_date",
}

func (s *exportService) ExportCSV(ctx context.Context) ([]byte, error) {
	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, m := range members {
		row := []string{m.Name, m.RegistrationNo, m.Email, "", "", "", m.Status, ""}
		if m.Phone != nil {
			row[3] = *m.Phone
		}
		if m.Department != nil {
			row[4] = *m.Department
		}
		if m.Cohort != nil {
			row[5] = strconv.Itoa(*m.Cohort)
		}
		if m.ConfirmationDate != nil {
			row[7] = m.ConfirmationDate.Format("2006-01-02")
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportJSON(ctx context.Context) ([]byte, error) {
	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(toExported(members), "", "  ")
}

// CreateBackup snapshots the member roster to object storage and records it.
func (s *exportService) CreateBackup(ctx context.Context, viewerID string) (*repository.Backup, error) {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"success":     true,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"data":        toExported(members),
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	key, err := s.storage.UploadBackup(ctx, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	backup := &repository.Backup{
		ObjectKey:   key,
		SizeBytes:   int64(len(payload)),
		MemberCount: len(members),
		CreatedBy:   &viewerID,
	}
	if err := s.backupRepo.Create(ctx, backup); err != nil {
		return nil, err
	}
	return backup, nil
}

func (s *exportService) ListBackups(ctx context.Context, viewerID string) ([]*repository.Backup, error) {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return nil, err
	}
	return s.backupRepo.FindAll(ctx)
}

// Import reads a legacy export file and creates every member that does not
// already exist. Members matching on registration number or email are
// skipped, never overwritten.
func (s *exportService) Import(ctx context.Context, viewerID string, payload []byte) (*ImportResult, error) {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return nil, err
	}

	entries := DecodeMemberEnvelope(payload)
	result := &ImportResult{}

	for _, e := range entries {
		if e.RegistrationNo == "" || e.Email == "" {
			result.Skipped++
			continue
		}

		status := e.Status
		if status == "" {
			status = e.StatusLegacy
		}
		if status == "" {
			status = types.StatusMember
		}
		if !types.IsValidMembershipStatus(status) {
			result.Skipped++
			continue
		}

		if existing, _ := s.memberRepo.FindByRegistrationNo(ctx, e.RegistrationNo); existing != nil {
			result.Skipped++
			continue
		}
		if existing, _ := s.memberRepo.FindByEmail(ctx, e.Email); existing != nil {
			result.Skipped++
			continue
		}

		member := &repository.Member{
			Name:           e.Name,
			RegistrationNo: e.RegistrationNo,
			Email:          e.Email,
			Phone:          e.Phone,
			Department:     e.Department,
			Cohort:         e.Cohort,
			Status:         status,
		}
		if e.ConfirmationDate != "" {
			if t, err := time.Parse("2006-01-02", e.ConfirmationDate); err == nil {
				member.ConfirmationDate = &t
			}
		}

		// Imported members get a random password and must reset it.
		hashed, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("import-%d", time.Now().UnixNano())), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		member.Password = string(hashed)

		if err := s.memberRepo.Create(ctx, member); err != nil {
			result.Skipped++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// DecodeMemberEnvelope parses the member list out of any of the envelope
// shapes legacy dashboard exports used: a bare array, {"success":..,"data":[..]},
// {"data":[..]} or {"members":[..]}. Anything unrecognized decodes to an
// empty list rather than an error.
func DecodeMemberEnvelope(payload []byte) []ExportedMember {
	var bare []ExportedMember
	if err := json.Unmarshal(payload, &bare); err == nil {
		return bare
	}

	var wrapped struct {
		Data    json.RawMessage `json:"data"`
		Members json.RawMessage `json:"members"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil
	}

	for _, raw := range [][]byte{wrapped.Data, wrapped.Members} {
		if len(raw) == 0 {
			continue
		}
		var list []ExportedMember
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	return nil
}

func toExported(members []*repository.Member) []ExportedMember {
	out := make([]ExportedMember, 0, len(members))
	for _, m := range members {
		e := ExportedMember{
			Name:           m.Name,
			RegistrationNo: m.RegistrationNo,
			Email:          m.Email,
			Phone:          m.Phone,
			Department:     m.Department,
			Cohort:         m.Cohort,
			Status:         m.Status,
		}
		if m.ConfirmationDate != nil {
			e.ConfirmationDate = m.ConfirmationDate.Format("2006-01-02")
		}
		out = append(out, e)
	}
	return out
}

func (s *exportService) requireAdmin(ctx context.Context, memberID string) error {
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
