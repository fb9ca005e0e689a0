package domain

import "time"

// ReclamationStatus enumerates lifecycle states for resident complaints.
type ReclamationStatus string

const (
	ReclamationStatusPending    ReclamationStatus = "PENDING"
	ReclamationStatusInProgress ReclamationStatus = "IN_PROGRESS"
	ReclamationStatusResolved   ReclamationStatus = "RESOLVED"
	ReclamationStatusRejected   ReclamationStatus = "REJECTED"
)

// ReclamationStatuses lists the status vocabulary in display order.
var ReclamationStatuses = []ReclamationStatus{
	ReclamationStatusPending,
	ReclamationStatusInProgress,
	ReclamationStatusResolved,
	ReclamationStatusRejected,
}

// Valid reports whether s belongs to the vocabulary.
func (s ReclamationStatus) Valid() bool {
	for _, candidate := range ReclamationStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Priority enumerates urgency levels.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	// PriorityUrgent is reserved for management.
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists the priority vocabulary in ascending urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p belongs to the vocabulary.
func (p Priority) Valid() bool {
	for _, candidate := range Priorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Reclamation is a complaint filed by a resident about an apartment or building.
type Reclamation struct {
	ID              string
	Title           string
	Content         string
	Priority        Priority
	Status          ReclamationStatus
	Response        *string
	SubmitterID     string
	SubmitterName   string
	ApartmentID     string
	ApartmentNumber string
	BuildingID      string
	BuildingName    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReclamationPatch carries the editable fields of a reclamation. Nil fields are left untouched.
type ReclamationPatch struct {
	Title             *string
	Content           *string
	Priority          *Priority
	ExpectedUpdatedAt *time.Time
}

// TouchesProtected reports whether the patch edits fields frozen on closed reclamations.
func (p ReclamationPatch) TouchesProtected() bool {
	return p.Priority != nil
}

// Empty reports whether the patch changes nothing.
func (p ReclamationPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Priority == nil
}
