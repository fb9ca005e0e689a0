// Package memory is an in-process implementation of the repository contracts.
// It backs the service when no Postgres DSN is configured and doubles as the test store.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/repository"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

type txKey struct{}

// FaultFunc is consulted before every write; a non-nil error aborts the write.
// op is "<collection>.<verb>", e.g. "charges.create".
type FaultFunc func(op string) error

// Store keeps every collection in memory. Transactions hold the write lock for
// their whole duration and restore a snapshot when fn fails.
type Store struct {
	mu    sync.RWMutex
	fault FaultFunc
	data  snapshot
}

type snapshot struct {
	reclamations map[string]domain.Reclamation
	reclOrder    []string
	history      map[string][]domain.HistoryEntry
	buildings    map[string]domain.Building
	apartments   map[string]domain.Apartment
	charges      map[string]domain.Charge
	chargeOrder  []string
	payments     map[string]domain.Payment
	paymentOrder []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: snapshot{
		reclamations: map[string]domain.Reclamation{},
		history:      map[string][]domain.HistoryEntry{},
		buildings:    map[string]domain.Building{},
		apartments:   map[string]domain.Apartment{},
		charges:      map[string]domain.Charge{},
		payments:     map[string]domain.Payment{},
	}}
}

// SetFault installs a write fault hook. Pass nil to clear it.
func (s *Store) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// AddBuilding seeds a building.
func (s *Store) AddBuilding(b domain.Building) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.buildings[b.ID] = b
}

// AddApartment seeds an apartment. BuildingName is filled from the building when empty.
func (s *Store) AddApartment(a domain.Apartment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.data.buildings[a.BuildingID]; ok && a.BuildingName == "" {
		a.BuildingName = b.Name
	}
	s.data.apartments[a.ID] = a
}

// RunInTx implements repository.TransactionManager.
func (s *Store) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = saved
		return err
	}
	return nil
}

// Reclamations returns the reclamation repository view.
func (s *Store) Reclamations() repository.ReclamationRepository { return reclamationRepo{s} }

// History returns the history repository view.
func (s *Store) History() repository.HistoryRepository { return historyRepo{s} }

// Directory returns the directory repository view.
func (s *Store) Directory() repository.DirectoryRepository { return directoryRepo{s} }

// Charges returns the charge repository view.
func (s *Store) Charges() repository.ChargeRepository { return chargeRepo{s} }

// Payments returns the payment repository view.
func (s *Store) Payments() repository.PaymentRepository { return paymentRepo{s} }

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*Store)
	return ok
}

// read acquires the read lock unless ctx already holds the write lock.
func (s *Store) read(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) checkFault(op string) error {
	if s.fault == nil {
		return nil
	}
	if err := s.fault(op); err != nil {
		return apperrors.NewServiceUnavailable(err)
	}
	return nil
}

func (d snapshot) clone() snapshot {
	history := make(map[string][]domain.HistoryEntry, len(d.history))
	for k, v := range d.history {
		history[k] = slices.Clone(v)
	}
	return snapshot{
		reclamations: maps.Clone(d.reclamations),
		reclOrder:    slices.Clone(d.reclOrder),
		history:      history,
		buildings:    maps.Clone(d.buildings),
		apartments:   maps.Clone(d.apartments),
		charges:      maps.Clone(d.charges),
		chargeOrder:  slices.Clone(d.chargeOrder),
		payments:     maps.Clone(d.payments),
		paymentOrder: slices.Clone(d.paymentOrder),
	}
}

func historyKey(entity domain.EntityType, id string) string {
	return string(entity) + "/" + id
}

var (
	_ repository.TransactionManager = (*Store)(nil)
)
