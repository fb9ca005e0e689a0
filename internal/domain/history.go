package domain

import "time"

// EntityType tags which record a history entry belongs to.
type EntityType string

const (
	EntityReclamation EntityType = "RECLAMATION"
	EntityPayment     EntityType = "PAYMENT"
)

// HistoryEntry is an immutable audit trail entry for a status change.
// OldStatus is nil for the creation entry.
type HistoryEntry struct {
	ID         string
	EntityType EntityType
	EntityID   string
	OldStatus  *string
	NewStatus  string
	Comment    string
	ChangedBy  string
	ChangedAt  time.Time
}
