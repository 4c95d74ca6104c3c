package repositories

import (
	"database/sql"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, route_id, company_id, capacity, available_seats, price,
	departure_date, departure_time, arrival_time, vehicle_id, driver_id,
	visibility, is_sub_trip, parent_trip_id, segment_origin, segment_destination`

// EnsureSchema creates the trips table on first run (best effort).
func (r TripRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	ddl := `
CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	company_id BIGINT NOT NULL DEFAULT 0,
	capacity INT NOT NULL,
	available_seats INT NOT NULL,
	price DECIMAL(10,2) NOT NULL DEFAULT 0,
	departure_date VARCHAR(10) NOT NULL,
	departure_time VARCHAR(20) NOT NULL DEFAULT '',
	arrival_time VARCHAR(20) NOT NULL DEFAULT '',
	vehicle_id BIGINT NOT NULL DEFAULT 0,
	driver_id BIGINT NOT NULL DEFAULT 0,
	visibility VARCHAR(20) NOT NULL DEFAULT 'published',
	is_sub_trip TINYINT(1) NOT NULL DEFAULT 0,
	parent_trip_id BIGINT NOT NULL DEFAULT 0,
	segment_origin VARCHAR(255) NOT NULL DEFAULT '',
	segment_destination VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_route_date (route_id, departure_date),
	KEY idx_parent (parent_trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

func scanTrip(row interface{ Scan(dest ...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.RouteID, &t.CompanyID, &t.Capacity, &t.AvailableSeats, &t.Price,
		&t.DepartureDate, &t.DepartureTime, &t.ArrivalTime, &t.VehicleID, &t.DriverID,
		&t.Visibility, &t.IsSubTrip, &t.ParentTripID, &t.SegmentOrigin, &t.SegmentDestination,
	)
	return t, err
}

func (r TripRepo) Get(tripID int64) (models.Trip, error) {
	row := r.db().QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ?`, tripID)
	return scanTrip(row)
}

func (r TripRepo) Insert(t models.Trip) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO trips (route_id, company_id, capacity, available_seats, price,
			departure_date, departure_time, arrival_time, vehicle_id, driver_id,
			visibility, is_sub_trip, parent_trip_id, segment_origin, segment_destination)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.RouteID, t.CompanyID, t.Capacity, t.AvailableSeats, t.Price,
		t.DepartureDate, t.DepartureTime, t.ArrivalTime, t.VehicleID, t.DriverID,
		t.Visibility, t.IsSubTrip, t.ParentTripID, t.SegmentOrigin, t.SegmentDestination)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepo) UpdateAvailableSeats(tripID int64, seats int) error {
	_, err := r.db().Exec(`UPDATE trips SET available_seats = ? WHERE id = ?`, seats, tripID)
	return err
}

func (r TripRepo) UpdatePrice(tripID int64, price float64) error {
	_, err := r.db().Exec(`UPDATE trips SET price = ? WHERE id = ?`, price, tripID)
	return err
}

func (r TripRepo) UpdateVisibility(tripID int64, visibility string) error {
	// La visibilidad se hereda a los sub-viajes para que el buscador los filtre igual.
	if _, err := r.db().Exec(`UPDATE trips SET visibility = ? WHERE id = ?`, visibility, tripID); err != nil {
		return err
	}
	_, err := r.db().Exec(`UPDATE trips SET visibility = ? WHERE parent_trip_id = ?`, visibility, tripID)
	return err
}

func (r TripRepo) SiblingSubTrips(parentTripID, excludeTripID int64) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE parent_trip_id = ? AND id <> ? AND is_sub_trip = 1
		ORDER BY id ASC
	`, parentTripID, excludeTripID)
}

func (r TripRepo) MainTripsByRouteAndDate(routeID int64, departureDate string, excludeTripID int64) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE route_id = ? AND departure_date = ? AND id <> ? AND is_sub_trip = 0
		ORDER BY id ASC
	`, routeID, departureDate, excludeTripID)
}

func (r TripRepo) SubTrips(parentTripID int64) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE parent_trip_id = ? AND is_sub_trip = 1
		ORDER BY id ASC
	`, parentTripID)
}

// ListMainTrips returns main trips, optionally filtered by route and/or date.
func (r TripRepo) ListMainTrips(routeID int64, departureDate string) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE is_sub_trip = 0`
	args := []any{}
	if routeID > 0 {
		query += ` AND route_id = ?`
		args = append(args, routeID)
	}
	if departureDate != "" {
		query += ` AND departure_date = ?`
		args = append(args, departureDate)
	}
	query += ` ORDER BY departure_date ASC, id ASC`
	return r.queryTrips(query, args...)
}

// DeleteWithSubTrips removes a main trip and its sub-trips in one transaction.
func (r TripRepo) DeleteWithSubTrips(tripID int64) error {
	db := r.db()
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM trips WHERE parent_trip_id = ?`, tripID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM trips WHERE id = ?`, tripID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r TripRepo) queryTrips(query string, args ...any) ([]models.Trip, error) {
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
