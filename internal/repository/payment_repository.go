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

const paymentColumns = `id, charge_id, apartment_id, payer_id, amount::text, method, status, rejection_reason, created_at, updated_at`

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	const q = `
        INSERT INTO payments (id, charge_id, apartment_id, payer_id, amount, method, status, rejection_reason, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10)`
	_, err := getQuerier(ctx, r.pool).Exec(ctx, q,
		p.ID,
		p.ChargeID,
		p.ApartmentID,
		p.PayerID,
		p.Amount.String(),
		p.Method,
		p.Status,
		p.RejectionReason,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return storageError(err, "payment", p.ID)
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	const q = `UPDATE payments SET status=$1, rejection_reason=$2, updated_at=$3 WHERE id=$4`
	cmd, err := getQuerier(ctx, r.pool).Exec(ctx, q, p.Status, p.RejectionReason, p.UpdatedAt, p.ID)
	if err != nil {
		return storageError(err, "payment", p.ID)
	}
	if cmd.RowsAffected() == 0 {
		return storageError(pgx.ErrNoRows, "payment", p.ID)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	p, err := scanPayment(getQuerier(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		return nil, storageError(err, "payment", id)
	}
	return p, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ApartmentID != "" {
		args = append(args, filter.ApartmentID)
		clauses = append(clauses, fmt.Sprintf("apartment_id=$%d", len(args)))
	}
	if filter.PayerID != "" {
		args = append(args, filter.PayerID)
		clauses = append(clauses, fmt.Sprintf("payer_id=$%d", len(args)))
	}
	q := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY created_at ASC, seq ASC`, paymentColumns, strings.Join(clauses, " AND "))

	rows, err := getQuerier(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, storageError(err, "payment", "")
	}
	defer rows.Close()

	result := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storageError(err, "payment", "")
		}
		result = append(result, *p)
	}
	return result, storageError(rows.Err(), "payment", "")
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		amount string
	)
	if err := row.Scan(
		&p.ID,
		&p.ChargeID,
		&p.ApartmentID,
		&p.PayerID,
		&amount,
		&p.Method,
		&p.Status,
		&p.RejectionReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	p.Amount = parsed
	return &p, nil
}
