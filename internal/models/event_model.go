package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Event DTOs
// ============================================

type CreateEventRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description"`
	Location    *string         `json:"location"`
	Fee         decimal.Decimal `json:"fee"`
	StartsAt    time.Time       `json:"startsAt" binding:"required"`
	EndsAt      *time.Time      `json:"endsAt"`
}

type UpdateEventRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Fee         *decimal.Decimal `json:"fee"`
	StartsAt    *time.Time       `json:"startsAt"`
	EndsAt      *time.Time       `json:"endsAt"`
}

type EventResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
	StartsAt    time.Time       `json:"startsAt"`
	EndsAt      *time.Time      `json:"endsAt,omitempty"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
