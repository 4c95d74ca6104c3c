package services

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// TripStore is the slice of the trip repository the propagator needs.
type TripStore interface {
	Get(tripID int64) (models.Trip, error)
	UpdateAvailableSeats(tripID int64, seats int) error
	SiblingSubTrips(parentTripID, excludeTripID int64) ([]models.Trip, error)
	MainTripsByRouteAndDate(routeID int64, departureDate string, excludeTripID int64) ([]models.Trip, error)
	SubTrips(parentTripID int64) ([]models.Trip, error)
}

// RouteStore resolves the stop topology the overlap checks run against.
type RouteStore interface {
	GetTopology(routeID int64) (models.RouteTopology, error)
}

// SeatService propaga cambios de asientos entre viajes que comparten tramo.
//
// Un delta sobre un sub-viaje alcanza a su viaje principal, a los hermanos cuyo tramo
// se traslapa y a los demás viajes principales de la misma ruta y fecha (con sus
// sub-viajes traslapados). El contador del viaje principal sigue el mismo delta
// aditivo que los sub-viajes, no el mínimo de sus tramos; así se comporta el resto
// del sistema y así lo esperan las reservaciones.
type SeatService struct {
	Trips     TripStore
	Routes    RouteStore
	RequestID string
}

// Escrituras fila por fila sin transacción global: se serializa por ruta+fecha para
// que dos reservaciones simultáneas sobre tramos traslapados no se pierdan
// actualizaciones entre lectura y escritura.
var (
	propagationMu    sync.Mutex
	propagationLocks = map[string]*sync.Mutex{}
)

func lockRouteDate(routeID int64, departureDate string) func() {
	key := strconv.FormatInt(routeID, 10) + "|" + departureDate
	propagationMu.Lock()
	mu, ok := propagationLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		propagationLocks[key] = mu
	}
	propagationMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func clampSeats(seats, capacity int) int {
	if seats < 0 {
		return 0
	}
	if seats > capacity {
		return capacity
	}
	return seats
}

// PropagateSeatChange applies a signed seat delta (negative = seats consumed) to the
// target trip and to every related trip whose capacity it affects, keeping
// 0 <= availableSeats <= capacity everywhere.
//
// Only a missing target trip aborts the call. Failures on related trips are logged
// and skipped so one stale row does not block the rest of the fan-out.
func (s SeatService) PropagateSeatChange(tripID int64, seatDelta int) error {
	trip, err := s.Trips.Get(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}

	unlock := lockRouteDate(trip.RouteID, trip.DepartureDate)
	defer unlock()

	// Releer bajo el candado: otra propagación pudo tocar el contador.
	trip, err = s.Trips.Get(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}

	newSeats := clampSeats(trip.AvailableSeats+seatDelta, trip.Capacity)
	applied := newSeats - trip.AvailableSeats
	if applied == 0 {
		return nil
	}
	if err := s.Trips.UpdateAvailableSeats(trip.ID, newSeats); err != nil {
		return domain.InternalError{Msg: "no se pudo actualizar los asientos del viaje", Err: err}
	}
	utils.LogEvent(s.RequestID, "seats", "apply",
		fmt.Sprintf("trip_id=%d delta=%d seats=%d", trip.ID, applied, newSeats))

	if trip.IsSubTrip {
		s.propagateFromSubTrip(trip, applied)
	} else {
		s.propagateFromMainTrip(trip, applied)
	}
	return nil
}

// applyDelta clamps and persists the delta on one related trip. Errors never abort
// the propagation; they only get logged.
func (s SeatService) applyDelta(trip models.Trip, delta int) {
	newSeats := clampSeats(trip.AvailableSeats+delta, trip.Capacity)
	if newSeats == trip.AvailableSeats {
		return
	}
	if err := s.Trips.UpdateAvailableSeats(trip.ID, newSeats); err != nil {
		utils.LogEvent(s.RequestID, "seats", "apply_error",
			fmt.Sprintf("trip_id=%d err=%v", trip.ID, err))
	}
}

// topologyPoints loads the route's flattened stop list; nil means the topology is
// unavailable and overlap propagation must be skipped.
func (s SeatService) topologyPoints(routeID int64) []string {
	if s.Routes == nil {
		return nil
	}
	topo, err := s.Routes.GetTopology(routeID)
	if err != nil {
		utils.LogEvent(s.RequestID, "seats", "topology_missing",
			fmt.Sprintf("route_id=%d err=%v", routeID, err))
		return nil
	}
	return topo.AllPoints()
}

func (s SeatService) propagateFromSubTrip(trip models.Trip, applied int) {
	// Padre primero: el viaje principal absorbe el mismo delta.
	parent, err := s.Trips.Get(trip.ParentTripID)
	if err != nil {
		utils.LogEvent(s.RequestID, "seats", "parent_missing",
			fmt.Sprintf("trip_id=%d parent_id=%d", trip.ID, trip.ParentTripID))
	} else {
		s.applyDelta(parent, applied)
	}

	points := s.topologyPoints(trip.RouteID)
	target := models.Segment{Origin: trip.SegmentOrigin, Destination: trip.SegmentDestination}
	targetRange, rangeOK := segmentRangeOf(points, target)
	if !rangeOK {
		utils.LogEvent(s.RequestID, "seats", "segment_unresolved",
			fmt.Sprintf("trip_id=%d segment=%s->%s", trip.ID, trip.SegmentOrigin, trip.SegmentDestination))
	}

	// Hermanos con tramo traslapado.
	if rangeOK {
		siblings, err := s.Trips.SiblingSubTrips(trip.ParentTripID, trip.ID)
		if err != nil {
			utils.LogEvent(s.RequestID, "seats", "siblings_error", err.Error())
		} else {
			for _, sib := range siblings {
				if s.subTripOverlaps(points, targetRange, sib) {
					s.applyDelta(sib, applied)
				}
			}
		}
	}

	// Otros viajes principales de la misma ruta y fecha, con sus sub-viajes.
	mains, err := s.Trips.MainTripsByRouteAndDate(trip.RouteID, trip.DepartureDate, trip.ParentTripID)
	if err != nil {
		utils.LogEvent(s.RequestID, "seats", "mains_error", err.Error())
		return
	}
	for _, main := range mains {
		s.applyDelta(main, applied)
		if !rangeOK {
			continue
		}
		subs, err := s.Trips.SubTrips(main.ID)
		if err != nil {
			utils.LogEvent(s.RequestID, "seats", "subtrips_error",
				fmt.Sprintf("parent_id=%d err=%v", main.ID, err))
			continue
		}
		for _, sub := range subs {
			if s.subTripOverlaps(points, targetRange, sub) {
				s.applyDelta(sub, applied)
			}
		}
	}
}

func (s SeatService) propagateFromMainTrip(trip models.Trip, applied int) {
	// Un cambio a nivel de viaje principal afecta la ruta completa: todos los
	// sub-viajes reciben el delta sin revisar traslapes.
	subs, err := s.Trips.SubTrips(trip.ID)
	if err != nil {
		utils.LogEvent(s.RequestID, "seats", "subtrips_error",
			fmt.Sprintf("parent_id=%d err=%v", trip.ID, err))
	} else {
		for _, sub := range subs {
			s.applyDelta(sub, applied)
		}
	}

	mains, err := s.Trips.MainTripsByRouteAndDate(trip.RouteID, trip.DepartureDate, trip.ID)
	if err != nil {
		utils.LogEvent(s.RequestID, "seats", "mains_error", err.Error())
		return
	}
	for _, main := range mains {
		s.applyDelta(main, applied)
		subs, err := s.Trips.SubTrips(main.ID)
		if err != nil {
			utils.LogEvent(s.RequestID, "seats", "subtrips_error",
				fmt.Sprintf("parent_id=%d err=%v", main.ID, err))
			continue
		}
		for _, sub := range subs {
			s.applyDelta(sub, applied)
		}
	}
}

// subTripOverlaps resolves a sibling's segment and checks it against the target
// range. Sub-trips whose segment strings no longer match the route count as
// non-overlapping.
func (s SeatService) subTripOverlaps(points []string, target segmentRange, sub models.Trip) bool {
	r, ok := resolveRange(points, sub.SegmentOrigin, sub.SegmentDestination)
	if !ok {
		utils.LogEvent(s.RequestID, "seats", "segment_unresolved",
			fmt.Sprintf("trip_id=%d segment=%s->%s", sub.ID, sub.SegmentOrigin, sub.SegmentDestination))
		return false
	}
	return rangesOverlap(target, r)
}

func segmentRangeOf(points []string, seg models.Segment) (segmentRange, bool) {
	if len(points) == 0 {
		return segmentRange{}, false
	}
	return resolveRange(points, seg.Origin, seg.Destination)
}
