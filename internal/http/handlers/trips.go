package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/middleware"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/services"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{
		Trips:     repositories.TripRepo{},
		Routes:    repositories.RouteRepo{},
		RequestID: middleware.GetRequestID(c),
	}
}

func seatService(c *gin.Context) services.SeatService {
	return services.SeatService{
		Trips:     repositories.TripRepo{},
		Routes:    repositories.RouteRepo{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/trips?route_id=&date=
// Lista solo viajes principales; los sub-viajes se consultan por viaje.
func GetTrips(c *gin.Context) {
	routeID, ok := QueryID(c, "route_id")
	if !ok {
		return
	}
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		RespondError(c, http.StatusBadRequest, "parámetro date requerido (YYYY-MM-DD)", nil)
		return
	}
	repo := repositories.TripRepo{}
	trips, err := repo.ListMainTrips(routeID, date)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de viajes", err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.TripRepo{}
	trip, err := repo.Get(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "viaje no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de viaje", err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/trips/:id/subtrips
func GetSubTrips(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.TripRepo{}
	trip, err := repo.Get(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "viaje no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de viaje", err)
		return
	}
	if trip.IsSubTrip {
		id = trip.ParentTripID
	}
	subs, err := repo.SubTrips(id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de sub-viajes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "subtrips": subs})
}

// POST /api/trips
func PublishTrip(c *gin.Context) {
	var in services.TripPublishInput
	if !BindJSONOrError(c, &in) {
		return
	}
	main, subs, err := tripService(c).Publish(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "viaje publicado",
		"trip":     main,
		"subtrips": subs,
	})
}

type visibilityRequest struct {
	Visibility string `json:"visibility"`
}

// PUT /api/trips/:id/visibility
func SetTripVisibility(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req visibilityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := tripService(c).SetVisibility(id, strings.TrimSpace(req.Visibility)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "visibilidad actualizada"})
}

type cityPairPriceRequest struct {
	CityA string  `json:"city_a"`
	CityB string  `json:"city_b"`
	Price float64 `json:"price"`
}

// PUT /api/trips/:id/prices
// "Editar por ciudad": un precio para todos los tramos entre dos ciudades.
func UpdateTripCityPairPrice(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req cityPairPriceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.CityA) == "" || strings.TrimSpace(req.CityB) == "" {
		RespondError(c, http.StatusBadRequest, "city_a y city_b requeridos", nil)
		return
	}
	if req.Price < 0 {
		RespondError(c, http.StatusBadRequest, "el precio no puede ser negativo", nil)
		return
	}
	updated, err := tripService(c).UpdateCityPairPrice(id, strings.TrimSpace(req.CityA), strings.TrimSpace(req.CityB), req.Price)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "precios actualizados", "updated": updated})
}

type seatAdjustRequest struct {
	Delta int `json:"delta"`
}

// POST /api/trips/:id/seats
// Ajuste manual de asientos (delta con signo); propaga igual que una venta.
func AdjustTripSeats(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req seatAdjustRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Delta == 0 {
		RespondError(c, http.StatusBadRequest, "delta no puede ser cero", nil)
		return
	}
	if err := seatService(c).PropagateSeatChange(id, req.Delta); err != nil {
		RespondDomainError(c, err)
		return
	}
	trip, err := repositories.TripRepo{}.Get(id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la lectura del viaje", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asientos ajustados", "trip": trip})
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := tripService(c).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "viaje eliminado junto con sus sub-viajes"})
}
