package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/stats"
)

func sumPriorities(s domain.ReclamationStatistics) int {
	total := 0
	for _, n := range s.ByPriority {
		total += n
	}
	return total
}

func TestAggregateEmpty(t *testing.T) {
	got := stats.Aggregate(nil)

	assert.Zero(t, got.Total)
	assert.Len(t, got.ByPriority, len(domain.Priorities))
	assert.Equal(t, got.Total, sumPriorities(got))
}

func TestAggregateCountsAddUp(t *testing.T) {
	items := []domain.Reclamation{
		{Status: domain.ReclamationStatusPending, Priority: domain.PriorityHigh},
		{Status: domain.ReclamationStatusPending, Priority: domain.PriorityLow},
		{Status: domain.ReclamationStatusInProgress, Priority: domain.PriorityHigh},
		{Status: domain.ReclamationStatusResolved, Priority: domain.PriorityUrgent},
		{Status: domain.ReclamationStatusRejected, Priority: domain.PriorityMedium},
		{Status: domain.ReclamationStatusRejected, Priority: domain.PriorityMedium},
	}

	got := stats.Aggregate(items)

	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 1, got.InProgress)
	assert.Equal(t, 1, got.Resolved)
	assert.Equal(t, 2, got.Rejected)
	assert.Equal(t, got.Total, got.Pending+got.InProgress+got.Resolved+got.Rejected)
	assert.Equal(t, got.Total, sumPriorities(got))
	assert.Equal(t, map[domain.Priority]int{
		domain.PriorityLow:    1,
		domain.PriorityMedium: 2,
		domain.PriorityHigh:   2,
		domain.PriorityUrgent: 1,
	}, got.ByPriority)
}
