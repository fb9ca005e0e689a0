package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

const chargeColumns = `id, apartment_id, apartment_number, building_id, description, amount::text, due_date, status, created_at, updated_at`

type chargeRepository struct {
	pool *pgxpool.Pool
}

// NewChargeRepository instantiates repository.
func NewChargeRepository(pool *pgxpool.Pool) ChargeRepository {
	return &chargeRepository{pool: pool}
}

func (r *chargeRepository) Create(ctx context.Context, c *domain.Charge) error {
	const q = `
        INSERT INTO charges (id, apartment_id, apartment_number, building_id, description, amount, due_date, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6::numeric,$7,$8,$9,$10)`
	_, err := getQuerier(ctx, r.pool).Exec(ctx, q,
		c.ID,
		c.ApartmentID,
		c.ApartmentNumber,
		c.BuildingID,
		c.Description,
		c.Amount.String(),
		c.DueDate,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return storageError(err, "charge", c.ID)
}

func (r *chargeRepository) Update(ctx context.Context, c *domain.Charge) error {
	const q = `UPDATE charges SET description=$1, amount=$2::numeric, due_date=$3, status=$4, updated_at=$5 WHERE id=$6`
	cmd, err := getQuerier(ctx, r.pool).Exec(ctx, q, c.Description, c.Amount.String(), c.DueDate, c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		return storageError(err, "charge", c.ID)
	}
	if cmd.RowsAffected() == 0 {
		return storageError(pgx.ErrNoRows, "charge", c.ID)
	}
	return nil
}

func (r *chargeRepository) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	q := `SELECT ` + chargeColumns + ` FROM charges WHERE id=$1`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	c, err := scanCharge(getQuerier(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, storageError(err, "charge", id)
	}
	return c, nil
}

func (r *chargeRepository) List(ctx context.Context, filter ChargeFilter) ([]domain.Charge, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.BuildingID != "" {
		args = append(args, filter.BuildingID)
		clauses = append(clauses, fmt.Sprintf("building_id=$%d", len(args)))
	}
	if filter.ApartmentID != "" {
		args = append(args, filter.ApartmentID)
		clauses = append(clauses, fmt.Sprintf("apartment_id=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	q := fmt.Sprintf(`SELECT %s FROM charges WHERE %s ORDER BY due_date ASC, seq ASC`, chargeColumns, strings.Join(clauses, " AND "))

	rows, err := getQuerier(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, storageError(err, "charge", "")
	}
	defer rows.Close()

	result := []domain.Charge{}
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, storageError(err, "charge", "")
		}
		result = append(result, *c)
	}
	return result, storageError(rows.Err(), "charge", "")
}

func scanCharge(row pgx.Row) (*domain.Charge, error) {
	var (
		c      domain.Charge
		amount string
	)
	if err := row.Scan(
		&c.ID,
		&c.ApartmentID,
		&c.ApartmentNumber,
		&c.BuildingID,
		&c.Description,
		&amount,
		&c.DueDate,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	c.Amount = parsed
	return &c, nil
}
