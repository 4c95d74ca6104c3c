package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
)

func newTripService(t *testing.T) (TripService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := TripService{
		Trips:  repositories.TripRepo{DB: db},
		Routes: repositories.RouteRepo{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func expectRoute(mock sqlmock.Sqlmock, id int64, origin, stopsJSON, destination string) {
	mock.ExpectQuery("FROM routes WHERE id = ?").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "origin", "destination", "stops", "company_id"}).
			AddRow(id, "Ruta de prueba", origin, destination, stopsJSON, 1))
}

func TestTripPublishCreatesMainAndSubTrips(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	expectRoute(mock, 10, "CDMX - TAPO", `["Puebla - CAPU"]`, "Córdoba - Terminal")

	// Viaje principal + 3 sub-viajes (3 pares de ciudades distintas).
	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(4, 1))

	main, subs, err := svc.Publish(TripPublishInput{
		RouteID:       10,
		CompanyID:     1,
		DepartureDate: "2026-09-01",
		Capacity:      40,
		BasePrice:     200,
		StopTimes: []models.StopTime{
			{Hour: 8, Minute: 0, AMPM: "AM", Location: "CDMX - TAPO"},
			{Hour: 10, Minute: 30, AMPM: "AM", Location: "Puebla - CAPU"},
			{Hour: 1, Minute: 0, AMPM: "PM", Location: "Córdoba - Terminal"},
		},
	})
	if err != nil {
		t.Fatalf("publish error: %v", err)
	}
	if main.ID != 1 || main.AvailableSeats != 40 || main.IsSubTrip {
		t.Errorf("unexpected main trip: %+v", main)
	}
	if main.DepartureTime != "8:00 AM" || main.ArrivalTime != "1:00 PM" {
		t.Errorf("main trip times = %q -> %q", main.DepartureTime, main.ArrivalTime)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 sub-trips, got %d", len(subs))
	}
	for _, sub := range subs {
		if !sub.IsSubTrip || sub.ParentTripID != 1 {
			t.Errorf("sub-trip badly linked: %+v", sub)
		}
		if sub.Price != 200 {
			t.Errorf("sub-trip price = %v", sub.Price)
		}
	}
	if subs[0].DepartureTime != "8:00 AM" || subs[0].ArrivalTime != "10:30 AM" {
		t.Errorf("first sub times = %q -> %q", subs[0].DepartureTime, subs[0].ArrivalTime)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripPublishValidatesStopTimeCount(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	expectRoute(mock, 10, "CDMX - TAPO", `[]`, "Puebla - CAPU")

	_, _, err := svc.Publish(TripPublishInput{
		RouteID:       10,
		DepartureDate: "2026-09-01",
		Capacity:      40,
		StopTimes: []models.StopTime{
			{Hour: 8, Minute: 0, AMPM: "AM", Location: "CDMX - TAPO"},
		},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTripPublishRollsBackOnSubInsertFailure(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	expectRoute(mock, 10, "CDMX - TAPO", `[]`, "Puebla - CAPU")

	mock.ExpectExec("INSERT INTO trips").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trips").WillReturnError(errors.New("insert failed"))

	// Reversa del paquete completo.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM trips WHERE parent_trip_id = \\?").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM trips WHERE id = \\?").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, _, err := svc.Publish(TripPublishInput{
		RouteID:       10,
		DepartureDate: "2026-09-01",
		Capacity:      40,
		BasePrice:     150,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripSetVisibilityRejectsUnknownValue(t *testing.T) {
	svc, _, closeDB := newTripService(t)
	defer closeDB()

	if err := svc.SetVisibility(1, "archived"); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTripUpdateCityPairPrice(t *testing.T) {
	svc, mock, closeDB := newTripService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trips WHERE id = ?").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(tripTestRows).
			AddRow(1, 10, 1, 40, 40, 300.0, "2026-09-01", "", "", 0, 0,
				"published", false, 0, "", ""))
	mock.ExpectQuery("WHERE parent_trip_id = \\? AND is_sub_trip = 1").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(tripTestRows).
			AddRow(2, 10, 1, 40, 40, 300.0, "2026-09-01", "", "", 0, 0,
				"published", true, 1, "CDMX - TAPO", "Puebla - CAPU").
			AddRow(3, 10, 1, 40, 40, 300.0, "2026-09-01", "", "", 0, 0,
				"published", true, 1, "CDMX - Norte", "Puebla - CAPU").
			AddRow(4, 10, 1, 40, 40, 300.0, "2026-09-01", "", "", 0, 0,
				"published", true, 1, "Puebla - CAPU", "Córdoba - Terminal"))

	mock.ExpectExec("UPDATE trips SET price = \\?").WithArgs(250.0, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET price = \\?").WithArgs(250.0, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := svc.UpdateCityPairPrice(1, "CDMX", "Puebla", 250)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var tripTestRows = []string{"id", "route_id", "company_id", "capacity", "available_seats", "price",
	"departure_date", "departure_time", "arrival_time", "vehicle_id", "driver_id",
	"visibility", "is_sub_trip", "parent_trip_id", "segment_origin", "segment_destination"}
