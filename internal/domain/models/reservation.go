package models

// Reservation states.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation consumes seats on exactly one trip (main or sub).
type Reservation struct {
	ID             int64   `json:"id"`
	Folio          string  `json:"folio"`
	TripID         int64   `json:"trip_id"`
	PassengerName  string  `json:"passenger_name"`
	PassengerPhone string  `json:"passenger_phone"`
	SeatCount      int     `json:"seat_count"`
	AmountPaid     float64 `json:"amount_paid"`
	PaymentMethod  string  `json:"payment_method"`
	Status         string  `json:"status"`
	CreatedBy      int64   `json:"created_by,omitempty"`
}

// Package is a shipped parcel riding on a trip. SeatCount may be zero when the parcel
// travels in the luggage bay.
type Package struct {
	ID            int64   `json:"id"`
	TrackingCode  string  `json:"tracking_code"`
	TripID        int64   `json:"trip_id"`
	SenderName    string  `json:"sender_name"`
	SenderPhone   string  `json:"sender_phone"`
	ReceiverName  string  `json:"receiver_name"`
	ReceiverPhone string  `json:"receiver_phone"`
	Description   string  `json:"description"`
	SeatCount     int     `json:"seat_count"`
	Price         float64 `json:"price"`
	PaymentStatus string  `json:"payment_status"`
	Status        string  `json:"status"`
}
