// Package repository defines persistence contracts and their Postgres implementations.
package repository

import (
	"context"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/query"
)

// ListOptions controls ordering and pagination of list queries.
type ListOptions struct {
	Order  query.Order
	Limit  int
	Offset int
}

// ReclamationRepository encapsulates reclamation persistence. Update replaces the whole record.
type ReclamationRepository interface {
	Create(ctx context.Context, r *domain.Reclamation) error
	Update(ctx context.Context, r *domain.Reclamation) error
	GetByID(ctx context.Context, id string) (*domain.Reclamation, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of matches and the total number of matches.
	List(ctx context.Context, filter query.Filter, opts ListOptions) ([]domain.Reclamation, int, error)
}

// HistoryRepository stores the append-only audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	ListByEntity(ctx context.Context, entity domain.EntityType, id string) ([]domain.HistoryEntry, error)
	DeleteByEntity(ctx context.Context, entity domain.EntityType, id string) error
}

// DirectoryRepository exposes read-only building and apartment data.
type DirectoryRepository interface {
	GetBuilding(ctx context.Context, id string) (*domain.Building, error)
	GetApartment(ctx context.Context, id string) (*domain.Apartment, error)
	ListApartmentsByBuilding(ctx context.Context, buildingID string) ([]domain.Apartment, error)
}

// ChargeFilter narrows charge listings.
type ChargeFilter struct {
	BuildingID  string
	ApartmentID string
	Status      domain.ChargeStatus
}

// ChargeRepository encapsulates billing records.
type ChargeRepository interface {
	Create(ctx context.Context, c *domain.Charge) error
	Update(ctx context.Context, c *domain.Charge) error
	GetByID(ctx context.Context, id string) (*domain.Charge, error)
	List(ctx context.Context, filter ChargeFilter) ([]domain.Charge, error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Status      domain.PaymentStatus
	ApartmentID string
	PayerID     string
}

// PaymentRepository encapsulates payment records.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	Update(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
}

// TransactionManager runs fn as one unit of work. Repositories called with the
// context passed to fn join the transaction; nested calls reuse the outer one.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
