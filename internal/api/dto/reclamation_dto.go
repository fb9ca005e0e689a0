package dto

import (
	"time"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// CreateReclamationRequest payload.
type CreateReclamationRequest struct {
	Title       string          `json:"title" validate:"required"`
	Content     string          `json:"content" validate:"required"`
	Priority    domain.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	ApartmentID string          `json:"apartment_id"`
}

// UpdateReclamationRequest payload. Absent fields are left untouched.
type UpdateReclamationRequest struct {
	Title             *string          `json:"title"`
	Content           *string          `json:"content"`
	Priority          *domain.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	ExpectedUpdatedAt *time.Time       `json:"expected_updated_at"`
}

// TransitionRequest payload.
type TransitionRequest struct {
	Status  domain.ReclamationStatus `json:"status" validate:"required"`
	Comment string                   `json:"comment" validate:"max=1000"`
}

// RespondRequest payload.
type RespondRequest struct {
	Text   string                    `json:"text"`
	Status *domain.ReclamationStatus `json:"status"`
}

// ReclamationResponse is the full reclamation record.
type ReclamationResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Content         string                   `json:"content"`
	Priority        domain.Priority          `json:"priority"`
	Status          domain.ReclamationStatus `json:"status"`
	Response        *string                  `json:"response"`
	SubmitterID     string                   `json:"submitter_id"`
	SubmitterName   string                   `json:"submitter_name"`
	ApartmentID     string                   `json:"apartment_id"`
	ApartmentNumber string                   `json:"apartment_number"`
	BuildingID      string                   `json:"building_id"`
	BuildingName    string                   `json:"building_name"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ReclamationListResponse wraps one page of results.
type ReclamationListResponse struct {
	Data   []ReclamationResponse `json:"data"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// HistoryEntryResponse is one audit trail line.
type HistoryEntryResponse struct {
	ID        string    `json:"id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment,omitempty"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// StatisticsResponse aggregates reclamation counts.
type StatisticsResponse struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"in_progress"`
	Resolved   int            `json:"resolved"`
	Rejected   int            `json:"rejected"`
	ByPriority map[string]int `json:"by_priority"`
}
