package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReclamationCreated       EventType = "reclamation_created"
	EventReclamationUpdated       EventType = "reclamation_updated"
	EventReclamationDeleted       EventType = "reclamation_deleted"
	EventReclamationStatusChanged EventType = "reclamation_status_changed"
	EventReclamationResponded     EventType = "reclamation_responded"
	EventChargesGenerated         EventType = "charges_generated"
	EventPaymentCreated           EventType = "payment_created"
	EventPaymentConfirmed         EventType = "payment_confirmed"
	EventPaymentRejected          EventType = "payment_rejected"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// ActorFrom converts a domain actor.
func ActorFrom(a domain.Actor) Actor {
	return Actor{ID: a.ID, Role: a.Role}
}

// Event represents a domain event emitted after a unit of work commits.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ReclamationCreatedPayload payload.
type ReclamationCreatedPayload struct {
	BuildingID  string          `json:"building_id"`
	ApartmentID string          `json:"apartment_id"`
	Priority    domain.Priority `json:"priority"`
	Title       string          `json:"title"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Comment   string `json:"comment,omitempty"`
}

// RespondedPayload payload.
type RespondedPayload struct {
	Preview   string  `json:"preview"`
	NewStatus *string `json:"new_status,omitempty"`
}

// ChargesGeneratedPayload payload.
type ChargesGeneratedPayload struct {
	BuildingID string          `json:"building_id"`
	Count      int             `json:"count"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"due_date"`
}

// PaymentPayload payload.
type PaymentPayload struct {
	ChargeID string          `json:"charge_id"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason,omitempty"`
}

// AllTypes lists every event the services emit.
var AllTypes = []EventType{
	EventReclamationCreated,
	EventReclamationUpdated,
	EventReclamationDeleted,
	EventReclamationStatusChanged,
	EventReclamationResponded,
	EventChargesGenerated,
	EventPaymentCreated,
	EventPaymentConfirmed,
	EventPaymentRejected,
}
