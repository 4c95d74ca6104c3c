package services

import (
	"errors"
	"testing"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type fakeTripStore struct {
	trips map[int64]*models.Trip
}

func (f *fakeTripStore) Get(tripID int64) (models.Trip, error) {
	t, ok := f.trips[tripID]
	if !ok {
		return models.Trip{}, errors.New("no rows")
	}
	return *t, nil
}

func (f *fakeTripStore) UpdateAvailableSeats(tripID int64, seats int) error {
	t, ok := f.trips[tripID]
	if !ok {
		return errors.New("no rows")
	}
	t.AvailableSeats = seats
	return nil
}

func (f *fakeTripStore) SiblingSubTrips(parentTripID, excludeTripID int64) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range f.trips {
		if t.IsSubTrip && t.ParentTripID == parentTripID && t.ID != excludeTripID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTripStore) MainTripsByRouteAndDate(routeID int64, departureDate string, excludeTripID int64) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range f.trips {
		if !t.IsSubTrip && t.RouteID == routeID && t.DepartureDate == departureDate && t.ID != excludeTripID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTripStore) SubTrips(parentTripID int64) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range f.trips {
		if t.IsSubTrip && t.ParentTripID == parentTripID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTripStore) seats(tripID int64) int {
	return f.trips[tripID].AvailableSeats
}

type fakeRouteStore struct {
	topo models.RouteTopology
	err  error
}

func (f fakeRouteStore) GetTopology(routeID int64) (models.RouteTopology, error) {
	if f.err != nil {
		return models.RouteTopology{}, f.err
	}
	return f.topo, nil
}

// Ruta A-B-C-D: el viaje principal 1 cubre A->D, los sub-viajes 2..7 cubren
// cada par de paradas.
func buildFleet(capacity int) *fakeTripStore {
	mk := func(id int64, origin, destination string, sub bool, parent int64) *models.Trip {
		return &models.Trip{
			ID:                 id,
			RouteID:            10,
			Capacity:           capacity,
			AvailableSeats:     capacity,
			DepartureDate:      "2026-09-01",
			IsSubTrip:          sub,
			ParentTripID:       parent,
			SegmentOrigin:      origin,
			SegmentDestination: destination,
		}
	}
	return &fakeTripStore{trips: map[int64]*models.Trip{
		1: mk(1, "", "", false, 0),
		2: mk(2, "A - T", "B - T", true, 1),
		3: mk(3, "A - T", "C - T", true, 1),
		4: mk(4, "A - T", "D - T", true, 1),
		5: mk(5, "B - T", "C - T", true, 1),
		6: mk(6, "B - T", "D - T", true, 1),
		7: mk(7, "C - T", "D - T", true, 1),
	}}
}

func testTopology() models.RouteTopology {
	return models.RouteTopology{
		ID:          10,
		Origin:      "A - T",
		Stops:       []string{"B - T", "C - T"},
		Destination: "D - T",
	}
}

func TestPropagateSeatChangeFromSubTrip(t *testing.T) {
	store := buildFleet(40)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	// Venta de 4 asientos en B->C.
	if err := svc.PropagateSeatChange(5, -4); err != nil {
		t.Fatalf("propagate error: %v", err)
	}

	// B->C, su padre y todo tramo que cruza la arista B->C bajan a 36.
	for _, id := range []int64{1, 3, 4, 5, 6} {
		if got := store.seats(id); got != 36 {
			t.Errorf("trip %d seats = %d, want 36", id, got)
		}
	}
	// A->B y C->D no comparten aristas con B->C.
	for _, id := range []int64{2, 7} {
		if got := store.seats(id); got != 40 {
			t.Errorf("trip %d seats = %d, want 40 (untouched)", id, got)
		}
	}
}

func TestPropagateSeatChangeReverseRestores(t *testing.T) {
	store := buildFleet(40)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	if err := svc.PropagateSeatChange(5, -4); err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if err := svc.PropagateSeatChange(5, 4); err != nil {
		t.Fatalf("release error: %v", err)
	}

	for id := int64(1); id <= 7; id++ {
		if got := store.seats(id); got != 40 {
			t.Errorf("trip %d seats = %d after reverse, want 40", id, got)
		}
	}
}

func TestPropagateSeatChangeClampsToZero(t *testing.T) {
	store := buildFleet(3)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	if err := svc.PropagateSeatChange(5, -10); err != nil {
		t.Fatalf("propagate error: %v", err)
	}
	// El delta aplicado tras el recorte es -3; nadie baja de cero.
	for _, id := range []int64{1, 3, 4, 5, 6} {
		if got := store.seats(id); got != 0 {
			t.Errorf("trip %d seats = %d, want 0", id, got)
		}
	}
}

func TestPropagateSeatChangeClampsToCapacity(t *testing.T) {
	store := buildFleet(40)
	store.trips[5].AvailableSeats = 38
	store.trips[1].AvailableSeats = 38
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	if err := svc.PropagateSeatChange(5, 10); err != nil {
		t.Fatalf("propagate error: %v", err)
	}
	if got := store.seats(5); got != 40 {
		t.Errorf("target seats = %d, want capacity 40", got)
	}
	if got := store.seats(1); got != 40 {
		t.Errorf("parent seats = %d, want capacity 40", got)
	}
	// Los demás ya estaban al tope y ahí se quedan.
	for _, id := range []int64{2, 3, 4, 6, 7} {
		if got := store.seats(id); got != 40 {
			t.Errorf("trip %d seats = %d, want 40", id, got)
		}
	}
}

func TestPropagateSeatChangeNoopWhenClampedOut(t *testing.T) {
	store := buildFleet(40)
	store.trips[5].AvailableSeats = 0
	store.trips[1].AvailableSeats = 10
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	// Sin asientos que consumir: el delta aplicado es cero y nada se propaga.
	if err := svc.PropagateSeatChange(5, -4); err != nil {
		t.Fatalf("propagate error: %v", err)
	}
	if got := store.seats(1); got != 10 {
		t.Errorf("parent seats = %d, want 10 (untouched)", got)
	}
}

func TestPropagateSeatChangeMissingTrip(t *testing.T) {
	store := buildFleet(40)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	err := svc.PropagateSeatChange(99, -1)
	if err == nil {
		t.Fatal("expected error for missing trip")
	}
	if !domain.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestPropagateSeatChangeFromMainTrip(t *testing.T) {
	store := buildFleet(40)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}

	// Un ajuste al viaje principal alcanza todos los sub-viajes sin revisar traslapes.
	if err := svc.PropagateSeatChange(1, -2); err != nil {
		t.Fatalf("propagate error: %v", err)
	}
	for id := int64(1); id <= 7; id++ {
		if got := store.seats(id); got != 38 {
			t.Errorf("trip %d seats = %d, want 38", id, got)
		}
	}
}

func TestPropagateSeatChangeTopologyMissing(t *testing.T) {
	store := buildFleet(40)
	svc := SeatService{Trips: store, Routes: fakeRouteStore{err: errors.New("route gone")}}

	if err := svc.PropagateSeatChange(5, -4); err != nil {
		t.Fatalf("propagate error: %v", err)
	}
	// Objetivo y padre sí se actualizan; los hermanos quedan intactos porque el
	// traslape no se puede resolver.
	if got := store.seats(5); got != 36 {
		t.Errorf("target seats = %d, want 36", got)
	}
	if got := store.seats(1); got != 36 {
		t.Errorf("parent seats = %d, want 36", got)
	}
	for _, id := range []int64{2, 3, 4, 6, 7} {
		if got := store.seats(id); got != 40 {
			t.Errorf("sibling %d seats = %d, want 40 (skipped)", id, got)
		}
	}
}

func TestPropagateReachesOtherMainTrips(t *testing.T) {
	store := buildFleet(40)
	// Segunda salida de la misma ruta y fecha, con un sub-viaje traslapado y otro no.
	store.trips[20] = &models.Trip{ID: 20, RouteID: 10, Capacity: 40, AvailableSeats: 40,
		DepartureDate: "2026-09-01"}
	store.trips[21] = &models.Trip{ID: 21, RouteID: 10, Capacity: 40, AvailableSeats: 40,
		DepartureDate: "2026-09-01", IsSubTrip: true, ParentTripID: 20,
		SegmentOrigin: "B - T", SegmentDestination: "D - T"}
	store.trips[22] = &models.Trip{ID: 22, RouteID: 10, Capacity: 40, AvailableSeats: 40,
		DepartureDate: "2026-09-01", IsSubTrip: true, ParentTripID: 20,
		SegmentOrigin: "A - T", SegmentDestination: "B - T"}

	svc := SeatService{Trips: store, Routes: fakeRouteStore{topo: testTopology()}}
	if err := svc.PropagateSeatChange(5, -4); err != nil {
		t.Fatalf("propagate error: %v", err)
	}

	if got := store.seats(20); got != 36 {
		t.Errorf("other main seats = %d, want 36", got)
	}
	if got := store.seats(21); got != 36 {
		t.Errorf("overlapping sub of other main = %d, want 36", got)
	}
	if got := store.seats(22); got != 40 {
		t.Errorf("non-overlapping sub of other main = %d, want 40", got)
	}
}
