package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	intdb "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/db"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type PackageRepo struct {
	DB *sql.DB
}

func (r PackageRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates the packages table on first run (best effort).
func (r PackageRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	ddl := `
CREATE TABLE IF NOT EXISTS packages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	tracking_code VARCHAR(64) NOT NULL,
	trip_id BIGINT NOT NULL,
	sender_name VARCHAR(255) NOT NULL,
	sender_phone VARCHAR(100) NOT NULL DEFAULT '',
	receiver_name VARCHAR(255) NOT NULL,
	receiver_phone VARCHAR(100) NOT NULL DEFAULT '',
	description TEXT,
	seat_count INT NOT NULL DEFAULT 0,
	price DECIMAL(10,2) NOT NULL DEFAULT 0,
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	status VARCHAR(20) NOT NULL DEFAULT 'registered',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_tracking (tracking_code),
	KEY idx_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

func (r PackageRepo) Insert(p models.Package) (int64, error) {
	out, err := r.db().Exec(`
		INSERT INTO packages (tracking_code, trip_id, sender_name, sender_phone,
			receiver_name, receiver_phone, description, seat_count, price,
			payment_status, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.TrackingCode, p.TripID, strings.TrimSpace(p.SenderName), strings.TrimSpace(p.SenderPhone),
		strings.TrimSpace(p.ReceiverName), strings.TrimSpace(p.ReceiverPhone),
		intdb.NullIfEmpty(strings.TrimSpace(p.Description)), p.SeatCount, p.Price, p.PaymentStatus, p.Status)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func (r PackageRepo) GetByID(id int64) (models.Package, error) {
	var (
		out  models.Package
		desc sql.NullString
	)
	err := r.db().QueryRow(`
		SELECT id, tracking_code, trip_id, sender_name, sender_phone, receiver_name,
			receiver_phone, description, seat_count, price, payment_status, status
		FROM packages WHERE id = ?
	`, id).Scan(&out.ID, &out.TrackingCode, &out.TripID, &out.SenderName, &out.SenderPhone,
		&out.ReceiverName, &out.ReceiverPhone, &desc, &out.SeatCount,
		&out.Price, &out.PaymentStatus, &out.Status)
	out.Description = desc.String
	return out, err
}

func (r PackageRepo) ListByTrip(tripID int64) ([]models.Package, error) {
	rows, err := r.db().Query(`
		SELECT id, tracking_code, trip_id, sender_name, sender_phone, receiver_name,
			receiver_phone, description, seat_count, price, payment_status, status
		FROM packages WHERE trip_id = ? ORDER BY id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Package{}
	for rows.Next() {
		var (
			p    models.Package
			desc sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.TrackingCode, &p.TripID, &p.SenderName, &p.SenderPhone,
			&p.ReceiverName, &p.ReceiverPhone, &desc, &p.SeatCount,
			&p.Price, &p.PaymentStatus, &p.Status); err != nil {
			return out, err
		}
		p.Description = desc.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PackageRepo) UpdateStatus(id int64, status string) error {
	_, err := r.db().Exec(`UPDATE packages SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r PackageRepo) UpdatePaymentStatus(id int64, status string) error {
	_, err := r.db().Exec(`UPDATE packages SET payment_status = ? WHERE id = ?`, status, id)
	return err
}

func (r PackageRepo) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM packages WHERE id = ?`, id)
	return err
}
