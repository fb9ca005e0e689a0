package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/query"
)

const reclamationColumns = `id, title, content, priority, status, response, submitter_id, submitter_name,
               apartment_id, apartment_number, building_id, building_name, created_at, updated_at`

type reclamationRepository struct {
	pool *pgxpool.Pool
}

// NewReclamationRepository instantiates repository.
func NewReclamationRepository(pool *pgxpool.Pool) ReclamationRepository {
	return &reclamationRepository{pool: pool}
}

func (r *reclamationRepository) Create(ctx context.Context, rec *domain.Reclamation) error {
	const q = `
        INSERT INTO reclamations (id, title, content, priority, status, response, submitter_id, submitter_name,
            apartment_id, apartment_number, building_id, building_name, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := getQuerier(ctx, r.pool).Exec(ctx, q,
		rec.ID,
		rec.Title,
		rec.Content,
		rec.Priority,
		rec.Status,
		rec.Response,
		rec.SubmitterID,
		rec.SubmitterName,
		rec.ApartmentID,
		rec.ApartmentNumber,
		rec.BuildingID,
		rec.BuildingName,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return storageError(err, "reclamation", rec.ID)
}

func (r *reclamationRepository) Update(ctx context.Context, rec *domain.Reclamation) error {
	const q = `
        UPDATE reclamations SET title=$1, content=$2, priority=$3, status=$4, response=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := getQuerier(ctx, r.pool).Exec(ctx, q,
		rec.Title,
		rec.Content,
		rec.Priority,
		rec.Status,
		rec.Response,
		rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		return storageError(err, "reclamation", rec.ID)
	}
	if cmd.RowsAffected() == 0 {
		return storageError(pgx.ErrNoRows, "reclamation", rec.ID)
	}
	return nil
}

func (r *reclamationRepository) GetByID(ctx context.Context, id string) (*domain.Reclamation, error) {
	q := `SELECT ` + reclamationColumns + ` FROM reclamations WHERE id=$1`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	rec, err := scanReclamation(getQuerier(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, storageError(err, "reclamation", id)
	}
	return rec, nil
}

func (r *reclamationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := getQuerier(ctx, r.pool).Exec(ctx, `DELETE FROM reclamations WHERE id=$1`, id)
	if err != nil {
		return storageError(err, "reclamation", id)
	}
	if cmd.RowsAffected() == 0 {
		return storageError(pgx.ErrNoRows, "reclamation", id)
	}
	return nil
}

func (r *reclamationRepository) List(ctx context.Context, filter query.Filter, opts ListOptions) ([]domain.Reclamation, int, error) {
	where, args := reclamationWhere(filter)

	order := "created_at ASC, seq ASC"
	switch opts.Order {
	case query.OrderCreatedDesc:
		order = "created_at DESC, seq DESC"
	case query.OrderUpdatedDesc:
		order = "updated_at DESC, seq DESC"
	}

	q := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM reclamations WHERE %s ORDER BY %s`,
		reclamationColumns, where, order)
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		q += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := getQuerier(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, storageError(err, "reclamation", "")
	}
	defer rows.Close()

	result := []domain.Reclamation{}
	total := 0
	for rows.Next() {
		var rec domain.Reclamation
		if err := rows.Scan(reclamationFields(&rec, &total)...); err != nil {
			return nil, 0, storageError(err, "reclamation", "")
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError(err, "reclamation", "")
	}
	if len(result) == 0 && opts.Offset > 0 {
		// the window was past the end; COUNT(*) OVER() produced no row to read the total from
		var n int
		countQ := fmt.Sprintf(`SELECT COUNT(*) FROM reclamations WHERE %s`, where)
		if err := getQuerier(ctx, r.pool).QueryRow(ctx, countQ, args...).Scan(&n); err != nil {
			return nil, 0, storageError(err, "reclamation", "")
		}
		total = n
	}
	return result, total, nil
}

// reclamationWhere renders filter as a WHERE body with positional arguments.
func reclamationWhere(filter query.Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if status := filter.ActiveStatus(); status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if priority := filter.ActivePriority(); priority != "" {
		args = append(args, priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.BuildingID != "" {
		args = append(args, filter.BuildingID)
		clauses = append(clauses, fmt.Sprintf("building_id=$%d", len(args)))
	}
	if filter.ApartmentID != "" {
		args = append(args, filter.ApartmentID)
		clauses = append(clauses, fmt.Sprintf("apartment_id=$%d", len(args)))
	}
	if filter.SubmitterID != "" {
		args = append(args, filter.SubmitterID)
		clauses = append(clauses, fmt.Sprintf("submitter_id=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if term := filter.ActiveSearch(); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %[1]s OR LOWER(content) LIKE %[1]s OR LOWER(submitter_name) LIKE %[1]s OR LOWER(submitter_id) LIKE %[1]s OR LOWER(apartment_number) LIKE %[1]s)", p))
	}
	return strings.Join(clauses, " AND "), args
}

func scanReclamation(row pgx.Row) (*domain.Reclamation, error) {
	var rec domain.Reclamation
	if err := row.Scan(reclamationFields(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func reclamationFields(rec *domain.Reclamation, extra ...any) []any {
	fields := []any{
		&rec.ID,
		&rec.Title,
		&rec.Content,
		&rec.Priority,
		&rec.Status,
		&rec.Response,
		&rec.SubmitterID,
		&rec.SubmitterName,
		&rec.ApartmentID,
		&rec.ApartmentNumber,
		&rec.BuildingID,
		&rec.BuildingName,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
	return append(fields, extra...)
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
