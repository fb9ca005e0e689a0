// Package stats computes dashboard counters over reclamation sets.
package stats

import "github.com/syndic-console/reclamation-service/internal/domain"

// Aggregate counts reclamations per status and per priority.
// ByPriority always carries every priority key, zero when absent.
func Aggregate(items []domain.Reclamation) domain.ReclamationStatistics {
	out := domain.ReclamationStatistics{ByPriority: make(map[domain.Priority]int, len(domain.Priorities))}
	for _, p := range domain.Priorities {
		out.ByPriority[p] = 0
	}
	for i := range items {
		out.Total++
		switch items[i].Status {
		case domain.ReclamationStatusPending:
			out.Pending++
		case domain.ReclamationStatusInProgress:
			out.InProgress++
		case domain.ReclamationStatusResolved:
			out.Resolved++
		case domain.ReclamationStatusRejected:
			out.Rejected++
		}
		out.ByPriority[items[i].Priority]++
	}
	return out
}
