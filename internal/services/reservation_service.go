package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// ReservationStore is the slice of the reservation repository the service needs.
type ReservationStore interface {
	Insert(res models.Reservation) (int64, error)
	GetByID(id int64) (models.Reservation, error)
	UpdateSeatCount(id int64, seatCount int) error
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
}

// SeatPropagator is how seat consumers reach the propagation core.
type SeatPropagator interface {
	PropagateSeatChange(tripID int64, seatDelta int) error
}

// CashboxRecorder lets sales drop a movement into the operator's cash box.
type CashboxRecorder interface {
	RecordIncome(userID int64, concept string, amount float64, method, refType string, refID int64) error
}

// ReservationService crea, ajusta y cancela reservaciones. Nunca toca
// available_seats directamente: todo pasa por el propagador.
type ReservationService struct {
	Reservations ReservationStore
	Seats        SeatPropagator
	Cashbox      CashboxRecorder
	RequestID    string
}

type ReservationInput struct {
	TripID         int64   `json:"trip_id"`
	PassengerName  string  `json:"passenger_name"`
	PassengerPhone string  `json:"passenger_phone"`
	SeatCount      int     `json:"seat_count"`
	AmountPaid     float64 `json:"amount_paid"`
	PaymentMethod  string  `json:"payment_method"`
	CreatedBy      int64   `json:"-"`
}

// Create inserts the reservation and consumes its seats. If the propagator reports
// the target trip missing the row is rolled back; any other propagation detail is
// already logged by the propagator itself.
func (s ReservationService) Create(in ReservationInput) (models.Reservation, error) {
	if in.TripID <= 0 {
		return models.Reservation{}, domain.ValidationError{Field: "trip_id", Msg: "id inválido"}
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		return models.Reservation{}, domain.ValidationError{Field: "passenger_name", Msg: "nombre requerido"}
	}
	if in.SeatCount <= 0 {
		return models.Reservation{}, domain.ValidationError{Field: "seat_count", Msg: "debe ser mayor a cero"}
	}

	res := models.Reservation{
		Folio:          "RES-" + strings.ToUpper(uuid.NewString()[:8]),
		TripID:         in.TripID,
		PassengerName:  strings.TrimSpace(in.PassengerName),
		PassengerPhone: strings.TrimSpace(in.PassengerPhone),
		SeatCount:      in.SeatCount,
		AmountPaid:     in.AmountPaid,
		PaymentMethod:  strings.TrimSpace(in.PaymentMethod),
		Status:         models.ReservationConfirmed,
		CreatedBy:      in.CreatedBy,
	}
	id, err := s.Reservations.Insert(res)
	if err != nil {
		return models.Reservation{}, domain.InternalError{Msg: "no se pudo guardar la reservación", Err: err}
	}
	res.ID = id

	if err := s.Seats.PropagateSeatChange(in.TripID, -in.SeatCount); err != nil {
		if domain.IsNotFound(err) {
			// Sin viaje no hay venta: se revierte la fila recién creada.
			_ = s.Reservations.Delete(id)
			return models.Reservation{}, err
		}
		utils.LogEvent(s.RequestID, "reservations", "propagate_warn",
			fmt.Sprintf("reservation_id=%d err=%v", id, err))
	}

	if s.Cashbox != nil && in.AmountPaid > 0 {
		concept := "Venta de boletos folio " + res.Folio
		if err := s.Cashbox.RecordIncome(in.CreatedBy, concept, in.AmountPaid, in.PaymentMethod, "reservation", id); err != nil {
			utils.LogEvent(s.RequestID, "reservations", "cashbox_warn",
				fmt.Sprintf("reservation_id=%d err=%v", id, err))
		}
	}

	utils.LogEvent(s.RequestID, "reservations", "create",
		fmt.Sprintf("reservation_id=%d trip_id=%d seats=%d", id, in.TripID, in.SeatCount))
	return res, nil
}

// ChangeSeatCount adjusts a reservation's seat count and propagates only the
// difference (negativo cuando crece la reservación).
func (s ReservationService) ChangeSeatCount(id int64, newCount int) error {
	if newCount <= 0 {
		return domain.ValidationError{Field: "seat_count", Msg: "debe ser mayor a cero"}
	}
	res, err := s.Reservations.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "reservation", Err: err}
	}
	if res.Status == models.ReservationCancelled {
		return domain.ConflictError{Resource: "reservation", Msg: "la reservación está cancelada"}
	}
	if newCount == res.SeatCount {
		return nil
	}
	if err := s.Reservations.UpdateSeatCount(id, newCount); err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.Seats.PropagateSeatChange(res.TripID, res.SeatCount-newCount); err != nil {
		if domain.IsNotFound(err) {
			_ = s.Reservations.UpdateSeatCount(id, res.SeatCount)
			return err
		}
		utils.LogEvent(s.RequestID, "reservations", "propagate_warn",
			fmt.Sprintf("reservation_id=%d err=%v", id, err))
	}
	utils.LogEvent(s.RequestID, "reservations", "change_seats",
		fmt.Sprintf("reservation_id=%d from=%d to=%d", id, res.SeatCount, newCount))
	return nil
}

// Cancel releases the reservation's seats back into the pool.
func (s ReservationService) Cancel(id int64) error {
	res, err := s.Reservations.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "reservation", Err: err}
	}
	if res.Status == models.ReservationCancelled {
		return domain.ConflictError{Resource: "reservation", Msg: "ya estaba cancelada"}
	}
	if err := s.Reservations.UpdateStatus(id, models.ReservationCancelled); err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.Seats.PropagateSeatChange(res.TripID, res.SeatCount); err != nil && !domain.IsNotFound(err) {
		utils.LogEvent(s.RequestID, "reservations", "propagate_warn",
			fmt.Sprintf("reservation_id=%d err=%v", id, err))
	}
	utils.LogEvent(s.RequestID, "reservations", "cancel",
		fmt.Sprintf("reservation_id=%d seats=%d", id, res.SeatCount))
	return nil
}
