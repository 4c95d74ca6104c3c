package models

// Trip visibility states.
const (
	VisibilityPublished = "published"
	VisibilityHidden    = "hidden"
	VisibilityCancelled = "cancelled"
)

// Trip is the scheduling unit. A main trip (IsSubTrip=false) is the full route run for
// one departure; a sub-trip mirrors one segment of that run and keeps its own seat
// counter. AvailableSeats is mutated only by the seat propagator.
type Trip struct {
	ID                 int64   `json:"id"`
	RouteID            int64   `json:"route_id"`
	CompanyID          int64   `json:"company_id"`
	Capacity           int     `json:"capacity"`
	AvailableSeats     int     `json:"available_seats"`
	Price              float64 `json:"price"`
	DepartureDate      string  `json:"departure_date"`
	DepartureTime      string  `json:"departure_time"`
	ArrivalTime        string  `json:"arrival_time"`
	VehicleID          int64   `json:"vehicle_id,omitempty"`
	DriverID           int64   `json:"driver_id,omitempty"`
	Visibility         string  `json:"visibility"`
	IsSubTrip          bool    `json:"is_sub_trip"`
	ParentTripID       int64   `json:"parent_trip_id,omitempty"`
	SegmentOrigin      string  `json:"segment_origin,omitempty"`
	SegmentDestination string  `json:"segment_destination,omitempty"`
}
