package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/middleware"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/services"
)

func packageService(c *gin.Context) services.PackageService {
	reqID := middleware.GetRequestID(c)
	return services.PackageService{
		Packages:  repositories.PackageRepo{},
		Seats:     seatService(c),
		Cashbox:   services.CashboxService{Repo: repositories.CashboxRepo{}, RequestID: reqID},
		RequestID: reqID,
	}
}

// GET /api/packages?trip_id=
func GetPackages(c *gin.Context) {
	tripID, ok := QueryID(c, "trip_id")
	if !ok {
		return
	}
	repo := repositories.PackageRepo{}
	out, err := repo.ListByTrip(tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de paquetes", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/packages/:id
func GetPackageByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.PackageRepo{}
	pkg, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "paquete no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de paquete", err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// POST /api/packages
func CreatePackage(c *gin.Context) {
	var in services.PackageInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.CreatedBy = middleware.GetUserID(c)
	pkg, err := packageService(c).Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "paquete registrado", "package": pkg})
}

// POST /api/packages/:id/cancel
func CancelPackage(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := packageService(c).Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "paquete cancelado"})
}

// POST /api/packages/:id/deliver
func DeliverPackage(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := packageService(c).MarkDelivered(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "paquete entregado"})
}

// GET /api/packages/:id/guia
// Descarga la guía de paquetería en PDF.
func DownloadGuia(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.TicketService{
		Reservations: repositories.ReservationRepo{},
		Packages:     repositories.PackageRepo{},
		Trips:        repositories.TripRepo{},
		RequestID:    middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateGuia(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "paquete no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo generar la guía", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
