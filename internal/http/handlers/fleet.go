package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
)

// GET /api/vehicles
func GetVehicles(c *gin.Context) {
	repo := repositories.FleetRepo{}
	out, err := repo.ListVehicles()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de unidades", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.FleetRepo{}
	v, err := repo.GetVehicle(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "unidad no encontrada", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de unidad", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type vehicleRequest struct {
	CompanyID int64  `json:"company_id"`
	Plate     string `json:"plate"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Plate) == "" {
		RespondError(c, http.StatusBadRequest, "placa requerida", nil)
		return
	}
	if req.Capacity <= 0 {
		RespondError(c, http.StatusBadRequest, "la capacidad debe ser mayor a cero", nil)
		return
	}
	repo := repositories.FleetRepo{}
	id, err := repo.CreateVehicle(models.Vehicle{
		CompanyID: req.CompanyID,
		Plate:     req.Plate,
		Brand:     req.Brand,
		Model:     req.Model,
		Capacity:  req.Capacity,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo registrar la unidad", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "unidad registrada"})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "active"
	}
	repo := repositories.FleetRepo{}
	if err := repo.UpdateVehicle(id, models.Vehicle{
		Plate:    req.Plate,
		Brand:    req.Brand,
		Model:    req.Model,
		Capacity: req.Capacity,
		Status:   status,
	}); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo actualizar la unidad", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unidad actualizada"})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.FleetRepo{}
	if err := repo.DeleteVehicle(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar la unidad", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unidad eliminada"})
}

// GET /api/drivers
func GetDrivers(c *gin.Context) {
	repo := repositories.FleetRepo{}
	out, err := repo.ListDrivers()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de operadores", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/drivers/:id
func GetDriverByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.FleetRepo{}
	d, err := repo.GetDriver(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "operador no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de operador", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type driverRequest struct {
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	License   string `json:"license"`
	Status    string `json:"status"`
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		RespondError(c, http.StatusBadRequest, "nombre requerido", nil)
		return
	}
	repo := repositories.FleetRepo{}
	id, err := repo.CreateDriver(models.Driver{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Phone:     req.Phone,
		License:   req.License,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo registrar al operador", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "operador registrado"})
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "active"
	}
	repo := repositories.FleetRepo{}
	if err := repo.UpdateDriver(id, models.Driver{
		Name:    req.Name,
		Phone:   req.Phone,
		License: req.License,
		Status:  status,
	}); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo actualizar al operador", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "operador actualizado"})
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.FleetRepo{}
	if err := repo.DeleteDriver(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar al operador", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "operador eliminado"})
}
