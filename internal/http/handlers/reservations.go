package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/middleware"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/services"
)

func reservationService(c *gin.Context) services.ReservationService {
	reqID := middleware.GetRequestID(c)
	return services.ReservationService{
		Reservations: repositories.ReservationRepo{},
		Seats:        seatService(c),
		Cashbox:      services.CashboxService{Repo: repositories.CashboxRepo{}, RequestID: reqID},
		RequestID:    reqID,
	}
}

// GET /api/reservations?trip_id=
func GetReservations(c *gin.Context) {
	tripID, ok := QueryID(c, "trip_id")
	if !ok {
		return
	}
	repo := repositories.ReservationRepo{}
	out, err := repo.ListByTrip(tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de reservaciones", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/reservations/:id
func GetReservationByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.ReservationRepo{}
	res, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "reservación no encontrada", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de reservación", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations
func CreateReservation(c *gin.Context) {
	var in services.ReservationInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.CreatedBy = middleware.GetUserID(c)
	res, err := reservationService(c).Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "reservación creada", "reservation": res})
}

type seatCountRequest struct {
	SeatCount int `json:"seat_count"`
}

// PUT /api/reservations/:id/seats
func ChangeReservationSeats(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req seatCountRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := reservationService(c).ChangeSeatCount(id, req.SeatCount); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asientos de la reservación actualizados"})
}

// POST /api/reservations/:id/cancel
func CancelReservation(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := reservationService(c).Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservación cancelada; asientos liberados"})
}

// GET /api/reservations/:id/boleto
// Descarga el boleto en PDF.
func DownloadBoleto(c *gin.Context) {
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
	pdf, filename, err := svc.GenerateBoleto(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "reservación no encontrada", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo generar el boleto", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
