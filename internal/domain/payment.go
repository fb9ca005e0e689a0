package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates payment confirmation states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// Valid reports whether s belongs to the vocabulary.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusRejected:
		return true
	}
	return false
}

// Payment is a resident's declared settlement of a charge awaiting syndic review.
type Payment struct {
	ID              string
	ChargeID        string
	ApartmentID     string
	PayerID         string
	Amount          decimal.Decimal
	Method          string
	Status          PaymentStatus
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
