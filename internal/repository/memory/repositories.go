package memory

import (
	"context"
	"slices"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/query"
	"github.com/syndic-console/reclamation-service/internal/repository"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

type reclamationRepo struct{ s *Store }

func (r reclamationRepo) Create(ctx context.Context, rec *domain.Reclamation) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("reclamations.create"); err != nil {
		return err
	}
	if _, exists := r.s.data.reclamations[rec.ID]; exists {
		return apperrors.NewConflict("reclamation already exists", map[string]any{"id": rec.ID})
	}
	r.s.data.reclamations[rec.ID] = *rec
	r.s.data.reclOrder = append(r.s.data.reclOrder, rec.ID)
	return nil
}

func (r reclamationRepo) Update(ctx context.Context, rec *domain.Reclamation) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("reclamations.update"); err != nil {
		return err
	}
	stored, ok := r.s.data.reclamations[rec.ID]
	if !ok {
		return apperrors.NewNotFound("reclamation", map[string]any{"id": rec.ID})
	}
	stored.Title = rec.Title
	stored.Content = rec.Content
	stored.Priority = rec.Priority
	stored.Status = rec.Status
	stored.Response = rec.Response
	stored.UpdatedAt = rec.UpdatedAt
	r.s.data.reclamations[rec.ID] = stored
	return nil
}

func (r reclamationRepo) GetByID(ctx context.Context, id string) (*domain.Reclamation, error) {
	defer r.s.read(ctx)()
	rec, ok := r.s.data.reclamations[id]
	if !ok {
		return nil, apperrors.NewNotFound("reclamation", map[string]any{"id": id})
	}
	return &rec, nil
}

func (r reclamationRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("reclamations.delete"); err != nil {
		return err
	}
	if _, ok := r.s.data.reclamations[id]; !ok {
		return apperrors.NewNotFound("reclamation", map[string]any{"id": id})
	}
	delete(r.s.data.reclamations, id)
	r.s.data.reclOrder = slices.DeleteFunc(r.s.data.reclOrder, func(v string) bool { return v == id })
	return nil
}

func (r reclamationRepo) List(ctx context.Context, filter query.Filter, opts repository.ListOptions) ([]domain.Reclamation, int, error) {
	defer r.s.read(ctx)()
	all := make([]domain.Reclamation, 0, len(r.s.data.reclOrder))
	for _, id := range r.s.data.reclOrder {
		all = append(all, r.s.data.reclamations[id])
	}
	matched := filter.Apply(all)
	query.Sort(matched, opts.Order)
	return slices.Clone(query.Page(matched, opts.Limit, opts.Offset)), len(matched), nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("history.append"); err != nil {
		return err
	}
	key := historyKey(entry.EntityType, entry.EntityID)
	r.s.data.history[key] = append(r.s.data.history[key], *entry)
	return nil
}

func (r historyRepo) ListByEntity(ctx context.Context, entity domain.EntityType, id string) ([]domain.HistoryEntry, error) {
	defer r.s.read(ctx)()
	entries := slices.Clone(r.s.data.history[historyKey(entity, id)])
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (r historyRepo) DeleteByEntity(ctx context.Context, entity domain.EntityType, id string) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("history.delete"); err != nil {
		return err
	}
	delete(r.s.data.history, historyKey(entity, id))
	return nil
}

type directoryRepo struct{ s *Store }

func (r directoryRepo) GetBuilding(ctx context.Context, id string) (*domain.Building, error) {
	defer r.s.read(ctx)()
	b, ok := r.s.data.buildings[id]
	if !ok {
		return nil, apperrors.NewNotFound("building", map[string]any{"id": id})
	}
	return &b, nil
}

func (r directoryRepo) GetApartment(ctx context.Context, id string) (*domain.Apartment, error) {
	defer r.s.read(ctx)()
	a, ok := r.s.data.apartments[id]
	if !ok {
		return nil, apperrors.NewNotFound("apartment", map[string]any{"id": id})
	}
	return &a, nil
}

func (r directoryRepo) ListApartmentsByBuilding(ctx context.Context, buildingID string) ([]domain.Apartment, error) {
	defer r.s.read(ctx)()
	result := []domain.Apartment{}
	for _, a := range r.s.data.apartments {
		if a.BuildingID == buildingID {
			result = append(result, a)
		}
	}
	slices.SortFunc(result, func(a, b domain.Apartment) int {
		if a.Number < b.Number {
			return -1
		}
		if a.Number > b.Number {
			return 1
		}
		return 0
	})
	return result, nil
}

type chargeRepo struct{ s *Store }

func (r chargeRepo) Create(ctx context.Context, c *domain.Charge) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("charges.create"); err != nil {
		return err
	}
	r.s.data.charges[c.ID] = *c
	r.s.data.chargeOrder = append(r.s.data.chargeOrder, c.ID)
	return nil
}

func (r chargeRepo) Update(ctx context.Context, c *domain.Charge) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("charges.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.charges[c.ID]; !ok {
		return apperrors.NewNotFound("charge", map[string]any{"id": c.ID})
	}
	r.s.data.charges[c.ID] = *c
	return nil
}

func (r chargeRepo) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	defer r.s.read(ctx)()
	c, ok := r.s.data.charges[id]
	if !ok {
		return nil, apperrors.NewNotFound("charge", map[string]any{"id": id})
	}
	return &c, nil
}

func (r chargeRepo) List(ctx context.Context, filter repository.ChargeFilter) ([]domain.Charge, error) {
	defer r.s.read(ctx)()
	result := []domain.Charge{}
	for _, id := range r.s.data.chargeOrder {
		c := r.s.data.charges[id]
		if filter.BuildingID != "" && c.BuildingID != filter.BuildingID {
			continue
		}
		if filter.ApartmentID != "" && c.ApartmentID != filter.ApartmentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		result = append(result, c)
	}
	slices.SortStableFunc(result, func(a, b domain.Charge) int { return a.DueDate.Compare(b.DueDate) })
	return result, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("payments.create"); err != nil {
		return err
	}
	r.s.data.payments[p.ID] = *p
	r.s.data.paymentOrder = append(r.s.data.paymentOrder, p.ID)
	return nil
}

func (r paymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	defer r.s.write(ctx)()
	if err := r.s.checkFault("payments.update"); err != nil {
		return err
	}
	if _, ok := r.s.data.payments[p.ID]; !ok {
		return apperrors.NewNotFound("payment", map[string]any{"id": p.ID})
	}
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	defer r.s.read(ctx)()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, apperrors.NewNotFound("payment", map[string]any{"id": id})
	}
	return &p, nil
}

func (r paymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, error) {
	defer r.s.read(ctx)()
	result := []domain.Payment{}
	for _, id := range r.s.data.paymentOrder {
		p := r.s.data.payments[id]
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ApartmentID != "" && p.ApartmentID != filter.ApartmentID {
			continue
		}
		if filter.PayerID != "" && p.PayerID != filter.PayerID {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}
