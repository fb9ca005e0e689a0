package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/repository/memory"
	"github.com/syndic-console/reclamation-service/internal/service"
)

var (
	aptA = "apt-a"
	aptB = "apt-b"

	resident = domain.Actor{ID: "res-1", Name: "Salma", Role: domain.RoleResident, ApartmentID: &aptA}
	neighbor = domain.Actor{ID: "res-2", Name: "Youssef", Role: domain.RoleResident, ApartmentID: &aptB}
	syndic   = domain.Actor{ID: "syn-1", Name: "Manager", Role: domain.RoleSyndic}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type guardMock struct {
	mock.Mock
}

func (g *guardMock) Acquire(ctx context.Context, scope, key string) error {
	return g.Called(ctx, scope, key).Error(0)
}

func (g *guardMock) Release(ctx context.Context, scope, key string) error {
	return g.Called(ctx, scope, key).Error(0)
}

type harness struct {
	store        *memory.Store
	clock        *fakeClock
	events       *recorder
	reclamations *service.ReclamationService
	billing      *service.BillingService
	payments     *service.PaymentService
}

func newHarness(guard *guardMock) *harness {
	store := memory.NewStore()
	store.AddBuilding(domain.Building{ID: "bld-1", Name: "Residence Atlas"})
	store.AddBuilding(domain.Building{ID: "bld-empty", Name: "Plot 9"})
	store.AddApartment(domain.Apartment{ID: aptA, Number: "1A", BuildingID: "bld-1", ResidentID: &resident.ID})
	store.AddApartment(domain.Apartment{ID: aptB, Number: "1B", BuildingID: "bld-1", ResidentID: &neighbor.ID})
	store.AddApartment(domain.Apartment{ID: "apt-c", Number: "2A", BuildingID: "bld-1"})

	clock := newFakeClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, t := range events.AllTypes {
		dispatcher.Subscribe(t, rec.handle)
	}

	h := &harness{store: store, clock: clock, events: rec}
	h.reclamations = service.NewReclamationService(service.ReclamationDependencies{
		ReclamationRepo: store.Reclamations(),
		HistoryRepo:     store.History(),
		DirectoryRepo:   store.Directory(),
		TxManager:       store,
		Dispatcher:      dispatcher,
		Clock:           clock.Now,
	})
	billingDeps := service.BillingDependencies{
		ChargeRepo:    store.Charges(),
		DirectoryRepo: store.Directory(),
		TxManager:     store,
		Dispatcher:    dispatcher,
		Clock:         clock.Now,
	}
	paymentDeps := service.PaymentDependencies{
		PaymentRepo: store.Payments(),
		ChargeRepo:  store.Charges(),
		HistoryRepo: store.History(),
		TxManager:   store,
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	}
	if guard != nil {
		billingDeps.Guard = guard
		paymentDeps.Guard = guard
	}
	h.billing = service.NewBillingService(billingDeps)
	h.payments = service.NewPaymentService(paymentDeps)
	return h
}
