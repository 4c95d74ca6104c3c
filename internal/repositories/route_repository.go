package repositories

import (
	"database/sql"
	"encoding/json"
	"strings"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

type RouteRepo struct {
	DB *sql.DB
}

func (r RouteRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates the routes table on first run (best effort).
func (r RouteRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	ddl := `
CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	origin VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	stops JSON NOT NULL,
	company_id BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

func (r RouteRepo) Create(route models.Route) (int64, error) {
	// Los tramos se comparan por cadena exacta; se normaliza el espaciado al guardar.
	stops, err := json.Marshal(normalizeLocations(route.Stops))
	if err != nil {
		return 0, err
	}
	res, err := r.db().Exec(`
		INSERT INTO routes (name, origin, destination, stops, company_id)
		VALUES (?, ?, ?, ?, ?)
	`, utils.NormalizeSpace(route.Name), utils.NormalizeSpace(route.Origin),
		utils.NormalizeSpace(route.Destination), string(stops), route.CompanyID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r RouteRepo) GetByID(routeID int64) (models.Route, error) {
	var (
		out      models.Route
		stopsRaw string
	)
	err := r.db().QueryRow(`
		SELECT id, name, origin, destination, stops, company_id
		FROM routes WHERE id = ?
	`, routeID).Scan(&out.ID, &out.Name, &out.Origin, &out.Destination, &stopsRaw, &out.CompanyID)
	if err != nil {
		return out, err
	}
	out.Stops = decodeStops(stopsRaw)
	return out, nil
}

// GetTopology returns just the stop ordering the seat propagator works with.
func (r RouteRepo) GetTopology(routeID int64) (models.RouteTopology, error) {
	route, err := r.GetByID(routeID)
	if err != nil {
		return models.RouteTopology{}, err
	}
	return models.RouteTopology{
		ID:          route.ID,
		Origin:      route.Origin,
		Stops:       route.Stops,
		Destination: route.Destination,
	}, nil
}

func (r RouteRepo) List() ([]models.Route, error) {
	rows, err := r.db().Query(`
		SELECT id, name, origin, destination, stops, company_id
		FROM routes ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var (
			route    models.Route
			stopsRaw string
		)
		if err := rows.Scan(&route.ID, &route.Name, &route.Origin, &route.Destination, &stopsRaw, &route.CompanyID); err != nil {
			return out, err
		}
		route.Stops = decodeStops(stopsRaw)
		out = append(out, route)
	}
	return out, rows.Err()
}

func (r RouteRepo) Update(routeID int64, route models.Route) error {
	stops, err := json.Marshal(normalizeLocations(route.Stops))
	if err != nil {
		return err
	}
	_, err = r.db().Exec(`
		UPDATE routes SET name=?, origin=?, destination=?, stops=? WHERE id=?
	`, utils.NormalizeSpace(route.Name), utils.NormalizeSpace(route.Origin),
		utils.NormalizeSpace(route.Destination), string(stops), routeID)
	return err
}

func normalizeLocations(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, utils.NormalizeSpace(s))
	}
	return out
}

func (r RouteRepo) Delete(routeID int64) error {
	_, err := r.db().Exec(`DELETE FROM routes WHERE id=?`, routeID)
	return err
}

func decodeStops(raw string) []string {
	stops := []string{}
	if strings.TrimSpace(raw) == "" {
		return stops
	}
	if err := json.Unmarshal([]byte(raw), &stops); err != nil {
		return []string{}
	}
	return stops
}
