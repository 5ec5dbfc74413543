package models

import "time"

// ============================================
// Member DTOs
// ============================================

type MemberResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	RegistrationNo   string     `json:"registrationNo"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone,omitempty"`
	Department       *string    `json:"department,omitempty"`
	Cohort           *int       `json:"cohort,omitempty"`
	Status           string     `json:"status"`
	ConfirmationDate *time.Time `json:"confirmationDate,omitempty"`
	PhotoURL         *string    `json:"photoUrl,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type CreateMemberRequest struct {
	Name           string  `json:"name" binding:"required,min=2"`
	RegistrationNo string  `json:"registrationNo" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	Phone          *string `json:"phone"`
	Department     *string `json:"department"`
	Cohort         *int    `json:"cohort"`
	Status         string  `json:"status"`
}

// UpdateMemberRequest binds the multipart form the dashboard sends.
// StatusLegacy carries the historical form key the deployed client still
// uses; Status is the canonical key. When both are present Status wins.
type UpdateMemberRequest struct {
	Name             *string `form:"name"`
	RegistrationNo   *string `form:"registration_no"`
	Email            *string `form:"email"`
	Phone            *string `form:"phone"`
	Department       *string `form:"department"`
	Cohort           *int    `form:"cohort"`
	Status           *string `form:"status"`
	StatusLegacy     *string `form:"status_keanggotaan"`
	ConfirmationDate *string `form:"confirmation_date"`
}

// EffectiveStatus resolves the canonical and legacy status form keys.
func (r *UpdateMemberRequest) EffectiveStatus() *string {
	if r.Status != nil {
		return r.Status
	}
	return r.StatusLegacy
}

// EditableFieldsResponse maps field name to whether the viewer may edit it.
type EditableFieldsResponse struct {
	MemberID string          `json:"memberId"`
	Fields   map[string]bool `json:"fields"`
}

// ============================================
// Status Change Request DTOs
// ============================================

type CreateStatusRequestRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	ToStatus string `json:"toStatus" binding:"required"`
}

type StatusRequestResponse struct {
	ID            string     `json:"id"`
	TargetID      string     `json:"targetId"`
	TargetName    string     `json:"targetName,omitempty"`
	InitiatorID   string     `json:"initiatorId"`
	InitiatorName string     `json:"initiatorName,omitempty"`
	FromStatus    string     `json:"fromStatus"`
	ToStatus      string     `json:"toStatus"`
	Status        string     `json:"status"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
