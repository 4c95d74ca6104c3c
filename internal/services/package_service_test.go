package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type fakePackageStore struct {
	rows    map[int64]*models.Package
	nextID  int64
	deleted []int64
}

func newFakePackageStore() *fakePackageStore {
	return &fakePackageStore{rows: map[int64]*models.Package{}, nextID: 1}
}

func (f *fakePackageStore) Insert(p models.Package) (int64, error) {
	id := f.nextID
	f.nextID++
	p.ID = id
	f.rows[id] = &p
	return id, nil
}

func (f *fakePackageStore) GetByID(id int64) (models.Package, error) {
	p, ok := f.rows[id]
	if !ok {
		return models.Package{}, errors.New("no rows")
	}
	return *p, nil
}

func (f *fakePackageStore) UpdateStatus(id int64, status string) error {
	p, ok := f.rows[id]
	if !ok {
		return errors.New("no rows")
	}
	p.Status = status
	return nil
}

func (f *fakePackageStore) UpdatePaymentStatus(id int64, status string) error {
	p, ok := f.rows[id]
	if !ok {
		return errors.New("no rows")
	}
	p.PaymentStatus = status
	return nil
}

func (f *fakePackageStore) Delete(id int64) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPackageCreateWithSeat(t *testing.T) {
	store := newFakePackageStore()
	prop := &fakePropagator{}
	cash := &fakeCashbox{}
	svc := PackageService{Packages: store, Seats: prop, Cashbox: cash}

	pkg, err := svc.Create(PackageInput{
		TripID:       3,
		SenderName:   "María",
		ReceiverName: "Pedro",
		SeatCount:    1,
		Price:        80,
		Paid:         true,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !strings.HasPrefix(pkg.TrackingCode, "PKG-") {
		t.Errorf("tracking code = %q", pkg.TrackingCode)
	}
	if pkg.PaymentStatus != "paid" {
		t.Errorf("payment status = %q", pkg.PaymentStatus)
	}
	if len(prop.calls) != 1 || prop.calls[0].delta != -1 {
		t.Errorf("unexpected propagation: %+v", prop.calls)
	}
	if len(cash.incomes) != 1 || cash.incomes[0] != 80 {
		t.Errorf("cashbox incomes = %v", cash.incomes)
	}
}

func TestPackageCreateLuggageBaySkipsPropagation(t *testing.T) {
	store := newFakePackageStore()
	prop := &fakePropagator{}
	svc := PackageService{Packages: store, Seats: prop}

	_, err := svc.Create(PackageInput{TripID: 3, SenderName: "A", ReceiverName: "B", SeatCount: 0})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if len(prop.calls) != 0 {
		t.Errorf("zero-seat package must not touch seats: %+v", prop.calls)
	}
}

func TestPackageCreateRollsBackOnMissingTrip(t *testing.T) {
	store := newFakePackageStore()
	prop := &fakePropagator{err: domain.NotFoundError{Resource: "trip"}}
	svc := PackageService{Packages: store, Seats: prop}

	_, err := svc.Create(PackageInput{TripID: 99, SenderName: "A", ReceiverName: "B", SeatCount: 2})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(store.deleted) != 1 || len(store.rows) != 0 {
		t.Errorf("package row not rolled back")
	}
}

func TestPackageCancelReleasesSeats(t *testing.T) {
	store := newFakePackageStore()
	id, _ := store.Insert(models.Package{TripID: 3, SeatCount: 2, Status: "registered"})
	prop := &fakePropagator{}
	svc := PackageService{Packages: store, Seats: prop}

	if err := svc.Cancel(id); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if store.rows[id].Status != "cancelled" {
		t.Errorf("status = %q", store.rows[id].Status)
	}
	if len(prop.calls) != 1 || prop.calls[0].delta != 2 {
		t.Errorf("unexpected propagation: %+v", prop.calls)
	}

	if err := svc.Cancel(id); !domain.IsConflict(err) {
		t.Errorf("expected ConflictError, got %v", err)
	}
}

func TestPackageMarkDelivered(t *testing.T) {
	store := newFakePackageStore()
	id, _ := store.Insert(models.Package{TripID: 3, Status: "registered"})
	svc := PackageService{Packages: store, Seats: &fakePropagator{}}

	if err := svc.MarkDelivered(id); err != nil {
		t.Fatalf("deliver error: %v", err)
	}
	if store.rows[id].Status != "delivered" {
		t.Errorf("status = %q", store.rows[id].Status)
	}

	_ = store.UpdateStatus(id, "cancelled")
	if err := svc.MarkDelivered(id); !domain.IsConflict(err) {
		t.Errorf("expected ConflictError for cancelled package, got %v", err)
	}
}
