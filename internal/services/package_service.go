package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// PackageStore is the slice of the package repository the service needs.
type PackageStore interface {
	Insert(p models.Package) (int64, error)
	GetByID(id int64) (models.Package, error)
	UpdateStatus(id int64, status string) error
	UpdatePaymentStatus(id int64, status string) error
	Delete(id int64) error
}

// PackageService registra paquetería sobre un viaje. Un paquete que ocupa asiento
// consume capacidad igual que una reservación.
type PackageService struct {
	Packages  PackageStore
	Seats     SeatPropagator
	Cashbox   CashboxRecorder
	RequestID string
}

type PackageInput struct {
	TripID        int64   `json:"trip_id"`
	SenderName    string  `json:"sender_name"`
	SenderPhone   string  `json:"sender_phone"`
	ReceiverName  string  `json:"receiver_name"`
	ReceiverPhone string  `json:"receiver_phone"`
	Description   string  `json:"description"`
	SeatCount     int     `json:"seat_count"`
	Price         float64 `json:"price"`
	Paid          bool    `json:"paid"`
	PaymentMethod string  `json:"payment_method"`
	CreatedBy     int64   `json:"-"`
}

// Create registers the package and, when it occupies seats, consumes them through
// the propagator with the same rollback contract as reservations.
func (s PackageService) Create(in PackageInput) (models.Package, error) {
	if in.TripID <= 0 {
		return models.Package{}, domain.ValidationError{Field: "trip_id", Msg: "id inválido"}
	}
	if strings.TrimSpace(in.SenderName) == "" || strings.TrimSpace(in.ReceiverName) == "" {
		return models.Package{}, domain.ValidationError{Field: "sender_name", Msg: "remitente y destinatario requeridos"}
	}
	if in.SeatCount < 0 {
		return models.Package{}, domain.ValidationError{Field: "seat_count", Msg: "no puede ser negativo"}
	}

	paymentStatus := "pending"
	if in.Paid {
		paymentStatus = "paid"
	}
	pkg := models.Package{
		TrackingCode:  "PKG-" + strings.ToUpper(uuid.NewString()[:8]),
		TripID:        in.TripID,
		SenderName:    strings.TrimSpace(in.SenderName),
		SenderPhone:   strings.TrimSpace(in.SenderPhone),
		ReceiverName:  strings.TrimSpace(in.ReceiverName),
		ReceiverPhone: strings.TrimSpace(in.ReceiverPhone),
		Description:   strings.TrimSpace(in.Description),
		SeatCount:     in.SeatCount,
		Price:         in.Price,
		PaymentStatus: paymentStatus,
		Status:        "registered",
	}
	id, err := s.Packages.Insert(pkg)
	if err != nil {
		return models.Package{}, domain.InternalError{Msg: "no se pudo guardar el paquete", Err: err}
	}
	pkg.ID = id

	if in.SeatCount > 0 {
		if err := s.Seats.PropagateSeatChange(in.TripID, -in.SeatCount); err != nil {
			if domain.IsNotFound(err) {
				_ = s.Packages.Delete(id)
				return models.Package{}, err
			}
			utils.LogEvent(s.RequestID, "packages", "propagate_warn",
				fmt.Sprintf("package_id=%d err=%v", id, err))
		}
	}

	if s.Cashbox != nil && in.Paid && in.Price > 0 {
		concept := "Envío de paquete guía " + pkg.TrackingCode
		if err := s.Cashbox.RecordIncome(in.CreatedBy, concept, in.Price, in.PaymentMethod, "package", id); err != nil {
			utils.LogEvent(s.RequestID, "packages", "cashbox_warn",
				fmt.Sprintf("package_id=%d err=%v", id, err))
		}
	}

	utils.LogEvent(s.RequestID, "packages", "create",
		fmt.Sprintf("package_id=%d trip_id=%d seats=%d", id, in.TripID, in.SeatCount))
	return pkg, nil
}

// Cancel releases any seats the package occupied and marks it cancelled.
func (s PackageService) Cancel(id int64) error {
	pkg, err := s.Packages.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "package", Err: err}
	}
	if pkg.Status == "cancelled" {
		return domain.ConflictError{Resource: "package", Msg: "ya estaba cancelado"}
	}
	if err := s.Packages.UpdateStatus(id, "cancelled"); err != nil {
		return domain.InternalError{Err: err}
	}
	if pkg.SeatCount > 0 {
		if err := s.Seats.PropagateSeatChange(pkg.TripID, pkg.SeatCount); err != nil && !domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "packages", "propagate_warn",
				fmt.Sprintf("package_id=%d err=%v", id, err))
		}
	}
	utils.LogEvent(s.RequestID, "packages", "cancel", fmt.Sprintf("package_id=%d", id))
	return nil
}

// MarkDelivered closes out a package at destination.
func (s PackageService) MarkDelivered(id int64) error {
	pkg, err := s.Packages.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "package", Err: err}
	}
	if pkg.Status == "cancelled" {
		return domain.ConflictError{Resource: "package", Msg: "el paquete está cancelado"}
	}
	return s.Packages.UpdateStatus(id, "delivered")
}
