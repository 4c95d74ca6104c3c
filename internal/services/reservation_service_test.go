package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type fakeReservationStore struct {
	rows    map[int64]*models.Reservation
	nextID  int64
	deleted []int64
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: map[int64]*models.Reservation{}, nextID: 1}
}

func (f *fakeReservationStore) Insert(res models.Reservation) (int64, error) {
	id := f.nextID
	f.nextID++
	res.ID = id
	f.rows[id] = &res
	return id, nil
}

func (f *fakeReservationStore) GetByID(id int64) (models.Reservation, error) {
	r, ok := f.rows[id]
	if !ok {
		return models.Reservation{}, errors.New("no rows")
	}
	return *r, nil
}

func (f *fakeReservationStore) UpdateSeatCount(id int64, seatCount int) error {
	r, ok := f.rows[id]
	if !ok {
		return errors.New("no rows")
	}
	r.SeatCount = seatCount
	return nil
}

func (f *fakeReservationStore) UpdateStatus(id int64, status string) error {
	r, ok := f.rows[id]
	if !ok {
		return errors.New("no rows")
	}
	r.Status = status
	return nil
}

func (f *fakeReservationStore) Delete(id int64) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type propagateCall struct {
	tripID int64
	delta  int
}

type fakePropagator struct {
	calls []propagateCall
	err   error
}

func (f *fakePropagator) PropagateSeatChange(tripID int64, seatDelta int) error {
	f.calls = append(f.calls, propagateCall{tripID: tripID, delta: seatDelta})
	return f.err
}

type fakeCashbox struct {
	incomes []float64
}

func (f *fakeCashbox) RecordIncome(userID int64, concept string, amount float64, method, refType string, refID int64) error {
	f.incomes = append(f.incomes, amount)
	return nil
}

func TestReservationCreateConsumesSeats(t *testing.T) {
	store := newFakeReservationStore()
	prop := &fakePropagator{}
	cash := &fakeCashbox{}
	svc := ReservationService{Reservations: store, Seats: prop, Cashbox: cash}

	res, err := svc.Create(ReservationInput{
		TripID:        5,
		PassengerName: "Juan Pérez",
		SeatCount:     3,
		AmountPaid:    540,
		PaymentMethod: "efectivo",
		CreatedBy:     2,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !strings.HasPrefix(res.Folio, "RES-") {
		t.Errorf("folio = %q, want RES- prefix", res.Folio)
	}
	if res.Status != models.ReservationConfirmed {
		t.Errorf("status = %q", res.Status)
	}
	if len(prop.calls) != 1 || prop.calls[0].tripID != 5 || prop.calls[0].delta != -3 {
		t.Errorf("unexpected propagation calls: %+v", prop.calls)
	}
	if len(cash.incomes) != 1 || cash.incomes[0] != 540 {
		t.Errorf("cashbox incomes = %v", cash.incomes)
	}
}

func TestReservationCreateRollsBackOnMissingTrip(t *testing.T) {
	store := newFakeReservationStore()
	prop := &fakePropagator{err: domain.NotFoundError{Resource: "trip"}}
	svc := ReservationService{Reservations: store, Seats: prop}

	_, err := svc.Create(ReservationInput{TripID: 99, PassengerName: "Ana", SeatCount: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %T", err)
	}
	if len(store.deleted) != 1 {
		t.Errorf("reservation row not rolled back: deleted=%v", store.deleted)
	}
	if len(store.rows) != 0 {
		t.Errorf("reservation rows remain: %d", len(store.rows))
	}
}

func TestReservationCreateValidation(t *testing.T) {
	svc := ReservationService{Reservations: newFakeReservationStore(), Seats: &fakePropagator{}}

	cases := []ReservationInput{
		{TripID: 0, PassengerName: "X", SeatCount: 1},
		{TripID: 1, PassengerName: "  ", SeatCount: 1},
		{TripID: 1, PassengerName: "X", SeatCount: 0},
	}
	for i, in := range cases {
		if _, err := svc.Create(in); !domain.IsValidation(err) {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestReservationChangeSeatCountPropagatesDifference(t *testing.T) {
	store := newFakeReservationStore()
	id, _ := store.Insert(models.Reservation{TripID: 7, SeatCount: 2, Status: models.ReservationConfirmed})
	prop := &fakePropagator{}
	svc := ReservationService{Reservations: store, Seats: prop}

	// De 2 a 5 asientos: se consumen 3 más (delta -3).
	if err := svc.ChangeSeatCount(id, 5); err != nil {
		t.Fatalf("change error: %v", err)
	}
	if len(prop.calls) != 1 || prop.calls[0].delta != -3 {
		t.Errorf("unexpected calls: %+v", prop.calls)
	}
	if store.rows[id].SeatCount != 5 {
		t.Errorf("seat count = %d", store.rows[id].SeatCount)
	}

	// Mismo valor: sin propagación.
	prop.calls = nil
	if err := svc.ChangeSeatCount(id, 5); err != nil {
		t.Fatalf("noop change error: %v", err)
	}
	if len(prop.calls) != 0 {
		t.Errorf("noop change must not propagate: %+v", prop.calls)
	}
}

func TestReservationChangeSeatCountRevertsOnMissingTrip(t *testing.T) {
	store := newFakeReservationStore()
	id, _ := store.Insert(models.Reservation{TripID: 7, SeatCount: 2, Status: models.ReservationConfirmed})
	prop := &fakePropagator{err: domain.NotFoundError{Resource: "trip"}}
	svc := ReservationService{Reservations: store, Seats: prop}

	if err := svc.ChangeSeatCount(id, 4); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if store.rows[id].SeatCount != 2 {
		t.Errorf("seat count = %d, want original 2", store.rows[id].SeatCount)
	}
}

func TestReservationCancelReleasesSeats(t *testing.T) {
	store := newFakeReservationStore()
	id, _ := store.Insert(models.Reservation{TripID: 7, SeatCount: 4, Status: models.ReservationConfirmed})
	prop := &fakePropagator{}
	svc := ReservationService{Reservations: store, Seats: prop}

	if err := svc.Cancel(id); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if store.rows[id].Status != models.ReservationCancelled {
		t.Errorf("status = %q", store.rows[id].Status)
	}
	if len(prop.calls) != 1 || prop.calls[0].delta != 4 {
		t.Errorf("unexpected calls: %+v", prop.calls)
	}

	// Doble cancelación: conflicto, sin segunda liberación.
	if err := svc.Cancel(id); !domain.IsConflict(err) {
		t.Errorf("expected ConflictError, got %v", err)
	}
	if len(prop.calls) != 1 {
		t.Errorf("seats released twice: %+v", prop.calls)
	}
}
