package dto

import (
	"time"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// Reclamation maps a domain record.
func Reclamation(r *domain.Reclamation) ReclamationResponse {
	return ReclamationResponse{
		ID:              r.ID,
		Title:           r.Title,
		Content:         r.Content,
		Priority:        r.Priority,
		Status:          r.Status,
		Response:        r.Response,
		SubmitterID:     r.SubmitterID,
		SubmitterName:   r.SubmitterName,
		ApartmentID:     r.ApartmentID,
		ApartmentNumber: r.ApartmentNumber,
		BuildingID:      r.BuildingID,
		BuildingName:    r.BuildingName,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Reclamations maps a slice.
func Reclamations(items []domain.Reclamation) []ReclamationResponse {
	out := make([]ReclamationResponse, 0, len(items))
	for i := range items {
		out = append(out, Reclamation(&items[i]))
	}
	return out
}

// History maps audit entries.
func History(entries []domain.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:        e.ID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Comment:   e.Comment,
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt,
		})
	}
	return out
}

// Statistics maps an aggregate. Priority keys are lower-cased.
func Statistics(s domain.ReclamationStatistics) StatisticsResponse {
	byPriority := make(map[string]int, len(domain.Priorities))
	for _, p := range domain.Priorities {
		byPriority[priorityKey(p)] = s.ByPriority[p]
	}
	return StatisticsResponse{
		Total:      s.Total,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		Resolved:   s.Resolved,
		Rejected:   s.Rejected,
		ByPriority: byPriority,
	}
}

// Charge maps a charge.
func Charge(c *domain.Charge) ChargeResponse {
	return ChargeResponse{
		ID:              c.ID,
		ApartmentID:     c.ApartmentID,
		ApartmentNumber: c.ApartmentNumber,
		BuildingID:      c.BuildingID,
		Description:     c.Description,
		Amount:          c.Amount,
		DueDate:         c.DueDate.Format(time.DateOnly),
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// Charges maps a slice.
func Charges(items []domain.Charge) []ChargeResponse {
	out := make([]ChargeResponse, 0, len(items))
	for i := range items {
		out = append(out, Charge(&items[i]))
	}
	return out
}

// Payment maps a payment.
func Payment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		ChargeID:        p.ChargeID,
		ApartmentID:     p.ApartmentID,
		PayerID:         p.PayerID,
		Amount:          p.Amount,
		Method:          p.Method,
		Status:          p.Status,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Payments maps a slice.
func Payments(items []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(items))
	for i := range items {
		out = append(out, Payment(&items[i]))
	}
	return out
}

func priorityKey(p domain.Priority) string {
	switch p {
	case domain.PriorityLow:
		return "low"
	case domain.PriorityMedium:
		return "medium"
	case domain.PriorityHigh:
		return "high"
	case domain.PriorityUrgent:
		return "urgent"
	}
	return string(p)
}
