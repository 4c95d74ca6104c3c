package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/services"
)

// GET /api/routes
func GetRoutes(c *gin.Context) {
	repo := repositories.RouteRepo{}
	routes, err := repo.List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de rutas", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// GET /api/routes/:id
func GetRouteByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.RouteRepo{}
	route, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "ruta no encontrada", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de ruta", err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// GET /api/routes/:id/segments
// Vista previa de los tramos vendibles de una ruta, en el orden del tablero.
func GetRouteSegments(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.RouteRepo{}
	topo, err := repo.GetTopology(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "ruta no encontrada", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de ruta", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"route_id": id,
		"segments": services.GenerateSegments(topo),
	})
}

type routeRequest struct {
	Name        string   `json:"name"`
	Origin      string   `json:"origin"`
	Stops       []string `json:"stops"`
	Destination string   `json:"destination"`
	CompanyID   int64    `json:"company_id"`
}

func (r routeRequest) validate() string {
	if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
		return "origen y destino requeridos"
	}
	for _, s := range r.Stops {
		if strings.TrimSpace(s) == strings.TrimSpace(r.Origin) ||
			strings.TrimSpace(s) == strings.TrimSpace(r.Destination) {
			return "las paradas no pueden repetir el origen ni el destino"
		}
	}
	return ""
}

// POST /api/routes
func CreateRoute(c *gin.Context) {
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}
	repo := repositories.RouteRepo{}
	id, err := repo.Create(models.Route{
		Name:        req.Name,
		Origin:      req.Origin,
		Stops:       req.Stops,
		Destination: req.Destination,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo crear la ruta", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "ruta creada"})
}

// PUT /api/routes/:id
func UpdateRoute(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	// Una ruta con corridas publicadas no se edita: los sub-viajes dependen de sus
	// paradas tal cual se publicaron.
	var published int
	if err := countTripsForRoute(id, &published); err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la verificación de viajes", err)
		return
	}
	if published > 0 {
		RespondError(c, http.StatusConflict, "la ruta tiene viajes publicados; elimínelos antes de editarla", nil)
		return
	}

	repo := repositories.RouteRepo{}
	if err := repo.Update(id, models.Route{
		Name:        req.Name,
		Origin:      req.Origin,
		Stops:       req.Stops,
		Destination: req.Destination,
	}); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo actualizar la ruta", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ruta actualizada"})
}

// DELETE /api/routes/:id
func DeleteRoute(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var published int
	if err := countTripsForRoute(id, &published); err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la verificación de viajes", err)
		return
	}
	if published > 0 {
		RespondError(c, http.StatusConflict, "la ruta tiene viajes publicados", nil)
		return
	}
	repo := repositories.RouteRepo{}
	if err := repo.Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar la ruta", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ruta eliminada"})
}

func countTripsForRoute(routeID int64, out *int) error {
	return intconfig.DB.QueryRow(`SELECT COUNT(*) FROM trips WHERE route_id = ?`, routeID).Scan(out)
}
