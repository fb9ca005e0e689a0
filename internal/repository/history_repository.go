package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	const q = `
        INSERT INTO status_history (id, entity_type, entity_id, old_status, new_status, comment, changed_by, changed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := getQuerier(ctx, r.pool).Exec(ctx, q,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Comment,
		entry.ChangedBy,
		entry.ChangedAt,
	)
	return storageError(err, "history entry", entry.ID)
}

func (r *historyRepository) ListByEntity(ctx context.Context, entity domain.EntityType, id string) ([]domain.HistoryEntry, error) {
	const q = `
        SELECT id, entity_type, entity_id, old_status, new_status, comment, changed_by, changed_at
        FROM status_history WHERE entity_type=$1 AND entity_id=$2 ORDER BY seq ASC`
	rows, err := getQuerier(ctx, r.pool).Query(ctx, q, entity, id)
	if err != nil {
		return nil, storageError(err, "history", id)
	}
	defer rows.Close()

	result := []domain.HistoryEntry{}
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Comment,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, storageError(err, "history", id)
		}
		result = append(result, entry)
	}
	return result, storageError(rows.Err(), "history", id)
}

func (r *historyRepository) DeleteByEntity(ctx context.Context, entity domain.EntityType, id string) error {
	_, err := getQuerier(ctx, r.pool).Exec(ctx, `DELETE FROM status_history WHERE entity_type=$1 AND entity_id=$2`, entity, id)
	return storageError(err, "history", id)
}
