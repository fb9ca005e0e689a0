package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// BulkChargesRequest payload. DueDate is a calendar day, YYYY-MM-DD.
type BulkChargesRequest struct {
	BuildingID  string          `json:"building_id" validate:"required"`
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" validate:"required"`
}

// ChargeResponse is the full charge record.
type ChargeResponse struct {
	ID              string              `json:"id"`
	ApartmentID     string              `json:"apartment_id"`
	ApartmentNumber string              `json:"apartment_number"`
	BuildingID      string              `json:"building_id"`
	Description     string              `json:"description"`
	Amount          decimal.Decimal     `json:"amount"`
	DueDate         string              `json:"due_date"`
	Status          domain.ChargeStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreatePaymentRequest payload. Amount may be omitted to pay the full charge.
type CreatePaymentRequest struct {
	ChargeID string          `json:"charge_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method" validate:"required,max=50"`
}

// RejectPaymentRequest payload.
type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// PaymentResponse is the full payment record.
type PaymentResponse struct {
	ID              string               `json:"id"`
	ChargeID        string               `json:"charge_id"`
	ApartmentID     string               `json:"apartment_id"`
	PayerID         string               `json:"payer_id"`
	Amount          decimal.Decimal      `json:"amount"`
	Method          string               `json:"method"`
	Status          domain.PaymentStatus `json:"status"`
	RejectionReason *string              `json:"rejection_reason"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
