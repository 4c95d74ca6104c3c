package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var tripRows = []string{"id", "route_id", "company_id", "capacity", "available_seats", "price",
	"departure_date", "departure_time", "arrival_time", "vehicle_id", "driver_id",
	"visibility", "is_sub_trip", "parent_trip_id", "segment_origin", "segment_destination"}

func TestTripRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = ?").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(tripRows).
			AddRow(5, 10, 1, 40, 36, 180.0, "2026-09-01", "8:00 AM", "11:30 AM", 0, 0,
				"published", true, 1, "CDMX - TAPO", "Puebla - CAPU"))

	repo := TripRepo{DB: db}
	trip, err := repo.Get(5)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if trip.ID != 5 || trip.AvailableSeats != 36 || !trip.IsSubTrip || trip.ParentTripID != 1 {
		t.Errorf("unexpected trip: %+v", trip)
	}
	if trip.SegmentOrigin != "CDMX - TAPO" {
		t.Errorf("segment origin = %q", trip.SegmentOrigin)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepoUpdateVisibilityCascades(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET visibility = \\? WHERE id = \\?").
		WithArgs("hidden", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET visibility = \\? WHERE parent_trip_id = \\?").
		WithArgs("hidden", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 6))

	repo := TripRepo{DB: db}
	if err := repo.UpdateVisibility(1, "hidden"); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepoDeleteWithSubTripsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM trips WHERE parent_trip_id = \\?").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec("DELETE FROM trips WHERE id = \\?").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := TripRepo{DB: db}
	if err := repo.DeleteWithSubTrips(1); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepoListMainTripsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trips WHERE is_sub_trip = 0 AND route_id = \\? AND departure_date = \\?").
		WithArgs(int64(10), "2026-09-01").
		WillReturnRows(sqlmock.NewRows(tripRows).
			AddRow(1, 10, 1, 40, 40, 300.0, "2026-09-01", "8:00 AM", "2:00 PM", 0, 0,
				"published", false, 0, "", ""))

	repo := TripRepo{DB: db}
	trips, err := repo.ListMainTrips(10, "2026-09-01")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != 1 {
		t.Errorf("unexpected trips: %+v", trips)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
