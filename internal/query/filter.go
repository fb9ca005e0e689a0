// Package query evaluates reclamation filters in memory.
// The Postgres repository translates the same Filter into SQL.
package query

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// All is the "no filter" sentinel accepted for status and priority.
const All = "all"

// Order selects the sort applied to filtered results.
type Order string

const (
	OrderCreatedAsc  Order = ""
	OrderCreatedDesc Order = "created_desc"
	OrderUpdatedDesc Order = "updated_desc"
)

// Filter combines reclamation predicates with logical AND. Zero-valued fields are pass-through.
type Filter struct {
	SearchTerm  string
	Status      domain.ReclamationStatus
	Priority    domain.Priority
	BuildingID  string
	ApartmentID string
	SubmitterID string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// IsZero reports whether the filter has no active predicate.
func (f Filter) IsZero() bool {
	return f.normalizedSearch() == "" && !f.hasStatus() && !f.hasPriority() &&
		f.BuildingID == "" && f.ApartmentID == "" && f.SubmitterID == "" &&
		f.CreatedFrom == nil && f.CreatedTo == nil
}

// Matches reports whether r satisfies every active predicate.
func (f Filter) Matches(r *domain.Reclamation) bool {
	if f.hasStatus() && r.Status != f.Status {
		return false
	}
	if f.hasPriority() && r.Priority != f.Priority {
		return false
	}
	if f.BuildingID != "" && r.BuildingID != f.BuildingID {
		return false
	}
	if f.ApartmentID != "" && r.ApartmentID != f.ApartmentID {
		return false
	}
	if f.SubmitterID != "" && r.SubmitterID != f.SubmitterID {
		return false
	}
	if f.CreatedFrom != nil && r.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && r.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if term := f.normalizedSearch(); term != "" {
		return containsFold(term, r.Title, r.Content, r.SubmitterName, r.SubmitterID, r.ApartmentNumber)
	}
	return true
}

// Seq lazily yields the reclamations matching f, preserving input order.
func (f Filter) Seq(items []domain.Reclamation) iter.Seq[domain.Reclamation] {
	return func(yield func(domain.Reclamation) bool) {
		for i := range items {
			if f.Matches(&items[i]) && !yield(items[i]) {
				return
			}
		}
	}
}

// Apply returns the matching subset in input order.
func (f Filter) Apply(items []domain.Reclamation) []domain.Reclamation {
	if f.IsZero() {
		return items
	}
	out := make([]domain.Reclamation, 0, len(items))
	for r := range f.Seq(items) {
		out = append(out, r)
	}
	return out
}

// Sort orders items in place. The default order is left untouched so insertion order survives.
func Sort(items []domain.Reclamation, order Order) {
	switch order {
	case OrderCreatedDesc:
		slices.SortStableFunc(items, func(a, b domain.Reclamation) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case OrderUpdatedDesc:
		slices.SortStableFunc(items, func(a, b domain.Reclamation) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	}
}

// Page slices items for the given window. Non-positive limit returns everything after offset.
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (f Filter) hasStatus() bool {
	return f.Status != "" && !strings.EqualFold(string(f.Status), All)
}

func (f Filter) hasPriority() bool {
	return f.Priority != "" && !strings.EqualFold(string(f.Priority), All)
}

func (f Filter) normalizedSearch() string {
	return strings.ToLower(strings.TrimSpace(f.SearchTerm))
}

// ActiveStatus returns the status predicate, or "" when it is a pass-through.
func (f Filter) ActiveStatus() domain.ReclamationStatus {
	if f.hasStatus() {
		return f.Status
	}
	return ""
}

// ActivePriority returns the priority predicate, or "" when it is a pass-through.
func (f Filter) ActivePriority() domain.Priority {
	if f.hasPriority() {
		return f.Priority
	}
	return ""
}

// ActiveSearch returns the lowercased trimmed search term.
func (f Filter) ActiveSearch() string {
	return f.normalizedSearch()
}

func containsFold(term string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
