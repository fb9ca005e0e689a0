package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeStatus tracks whether a charge has been settled.
type ChargeStatus string

const (
	ChargeStatusUnpaid ChargeStatus = "UNPAID"
	ChargeStatusPaid   ChargeStatus = "PAID"
)

// Charge is a monthly billing record for one apartment.
type Charge struct {
	ID              string
	ApartmentID     string
	ApartmentNumber string
	BuildingID      string
	Description     string
	Amount          decimal.Decimal
	DueDate         time.Time
	Status          ChargeStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
