package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type ReservationRepo struct {
	DB *sql.DB
}

func (r ReservationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates the reservations table on first run (best effort).
func (r ReservationRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	ddl := `
CREATE TABLE IF NOT EXISTS reservations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	folio VARCHAR(64) NOT NULL,
	trip_id BIGINT NOT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	passenger_phone VARCHAR(100) NOT NULL DEFAULT '',
	seat_count INT NOT NULL,
	amount_paid DECIMAL(10,2) NOT NULL DEFAULT 0,
	payment_method VARCHAR(50) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	created_by BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_folio (folio),
	KEY idx_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

func (r ReservationRepo) Insert(res models.Reservation) (int64, error) {
	out, err := r.db().Exec(`
		INSERT INTO reservations (folio, trip_id, passenger_name, passenger_phone,
			seat_count, amount_paid, payment_method, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.Folio, res.TripID, strings.TrimSpace(res.PassengerName),
		strings.TrimSpace(res.PassengerPhone), res.SeatCount, res.AmountPaid,
		strings.TrimSpace(res.PaymentMethod), res.Status, res.CreatedBy)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func (r ReservationRepo) GetByID(id int64) (models.Reservation, error) {
	var out models.Reservation
	err := r.db().QueryRow(`
		SELECT id, folio, trip_id, passenger_name, passenger_phone, seat_count,
			amount_paid, payment_method, status, created_by
		FROM reservations WHERE id = ?
	`, id).Scan(&out.ID, &out.Folio, &out.TripID, &out.PassengerName, &out.PassengerPhone,
		&out.SeatCount, &out.AmountPaid, &out.PaymentMethod, &out.Status, &out.CreatedBy)
	return out, err
}

func (r ReservationRepo) ListByTrip(tripID int64) ([]models.Reservation, error) {
	rows, err := r.db().Query(`
		SELECT id, folio, trip_id, passenger_name, passenger_phone, seat_count,
			amount_paid, payment_method, status, created_by
		FROM reservations WHERE trip_id = ? ORDER BY id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Reservation{}
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.Folio, &res.TripID, &res.PassengerName,
			&res.PassengerPhone, &res.SeatCount, &res.AmountPaid, &res.PaymentMethod,
			&res.Status, &res.CreatedBy); err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r ReservationRepo) UpdateSeatCount(id int64, seatCount int) error {
	_, err := r.db().Exec(`UPDATE reservations SET seat_count = ? WHERE id = ?`, seatCount, id)
	return err
}

func (r ReservationRepo) UpdateStatus(id int64, status string) error {
	_, err := r.db().Exec(`UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r ReservationRepo) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM reservations WHERE id = ?`, id)
	return err
}
