package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

// FleetRepo persists the vehicles and drivers catalog.
type FleetRepo struct {
	DB *sql.DB
}

func (r FleetRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r FleetRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	ddls := []string{`
CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL DEFAULT 0,
	plate VARCHAR(32) NOT NULL,
	brand VARCHAR(64) NOT NULL DEFAULT '',
	model VARCHAR(64) NOT NULL DEFAULT '',
	capacity INT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_plate (plate)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS drivers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL DEFAULT 0,
	name VARCHAR(255) NOT NULL,
	phone VARCHAR(32) NOT NULL DEFAULT '',
	license VARCHAR(64) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// CreateVehicle inserts by plate; re-registering a known plate refreshes the unit
// instead of failing against the unique key.
func (r FleetRepo) CreateVehicle(v models.Vehicle) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (company_id, plate, brand, model, capacity, status)
		VALUES (?, ?, ?, ?, ?, 'active')
		ON DUPLICATE KEY UPDATE
			brand = VALUES(brand),
			model = VALUES(model),
			capacity = VALUES(capacity),
			status = 'active'
	`, v.CompanyID, strings.TrimSpace(v.Plate), strings.TrimSpace(v.Brand),
		strings.TrimSpace(v.Model), v.Capacity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r FleetRepo) GetVehicle(id int64) (models.Vehicle, error) {
	var v models.Vehicle
	err := r.db().QueryRow(`
		SELECT id, company_id, plate, brand, model, capacity, status
		FROM vehicles WHERE id = ?
	`, id).Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Brand, &v.Model, &v.Capacity, &v.Status)
	return v, err
}

func (r FleetRepo) ListVehicles() ([]models.Vehicle, error) {
	rows, err := r.db().Query(`
		SELECT id, company_id, plate, brand, model, capacity, status
		FROM vehicles ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Brand, &v.Model, &v.Capacity, &v.Status); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r FleetRepo) UpdateVehicle(id int64, v models.Vehicle) error {
	_, err := r.db().Exec(`
		UPDATE vehicles SET plate=?, brand=?, model=?, capacity=?, status=? WHERE id=?
	`, strings.TrimSpace(v.Plate), strings.TrimSpace(v.Brand), strings.TrimSpace(v.Model),
		v.Capacity, v.Status, id)
	return err
}

func (r FleetRepo) DeleteVehicle(id int64) error {
	_, err := r.db().Exec(`DELETE FROM vehicles WHERE id=?`, id)
	return err
}

func (r FleetRepo) CreateDriver(d models.Driver) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO drivers (company_id, name, phone, license, status)
		VALUES (?, ?, ?, ?, 'active')
	`, d.CompanyID, strings.TrimSpace(d.Name), strings.TrimSpace(d.Phone), strings.TrimSpace(d.License))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r FleetRepo) GetDriver(id int64) (models.Driver, error) {
	var d models.Driver
	err := r.db().QueryRow(`
		SELECT id, company_id, name, phone, license, status
		FROM drivers WHERE id = ?
	`, id).Scan(&d.ID, &d.CompanyID, &d.Name, &d.Phone, &d.License, &d.Status)
	return d, err
}

func (r FleetRepo) ListDrivers() ([]models.Driver, error) {
	rows, err := r.db().Query(`
		SELECT id, company_id, name, phone, license, status
		FROM drivers ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Phone, &d.License, &d.Status); err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r FleetRepo) UpdateDriver(id int64, d models.Driver) error {
	_, err := r.db().Exec(`
		UPDATE drivers SET name=?, phone=?, license=?, status=? WHERE id=?
	`, strings.TrimSpace(d.Name), strings.TrimSpace(d.Phone), strings.TrimSpace(d.License), d.Status, id)
	return err
}

func (r FleetRepo) DeleteDriver(id int64) error {
	_, err := r.db().Exec(`DELETE FROM drivers WHERE id=?`, id)
	return err
}
