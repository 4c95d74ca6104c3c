package models

// Route is the published line: origin, ordered intermediate stops, destination.
// Stops never repeat origin/destination; locations use the "Ciudad - Terminal" convention.
type Route struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Origin      string   `json:"origin"`
	Stops       []string `json:"stops"`
	Destination string   `json:"destination"`
	CompanyID   int64    `json:"company_id"`
}

// RouteTopology is the minimal stop ordering the seat propagator needs.
type RouteTopology struct {
	ID          int64
	Origin      string
	Stops       []string
	Destination string
}

// AllPoints flattens the route into [origin, stops..., destination].
func (r RouteTopology) AllPoints() []string {
	points := make([]string, 0, len(r.Stops)+2)
	points = append(points, r.Origin)
	points = append(points, r.Stops...)
	points = append(points, r.Destination)
	return points
}

// Segment is a purchasable origin->destination pair of a route. Derived, never stored
// on its own; sub-trips carry the same pair.
type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// SegmentPrice is the authoring-time row of the price/time table shown to the operator.
type SegmentPrice struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Price         float64 `json:"price"`
	DepartureTime string  `json:"departure_time,omitempty"`
	ArrivalTime   string  `json:"arrival_time,omitempty"`
}

// StopTime is one row of the publish form: a 12-hour clock reading per stop position,
// including origin and destination.
type StopTime struct {
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	AMPM     string `json:"ampm"`
	Location string `json:"location"`
}
