package services

import (
	"fmt"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// TripService publica y edita corridas: un viaje principal por fecha más un
// sub-viaje por cada tramo vendible de la ruta.
type TripService struct {
	Trips     repositories.TripRepo
	Routes    repositories.RouteRepo
	RequestID string
}

// CityPairPrice is one "edit by city" row of the publish form.
type CityPairPrice struct {
	CityA string  `json:"city_a"`
	CityB string  `json:"city_b"`
	Price float64 `json:"price"`
}

// TripPublishInput carries everything the publish form captures for one departure.
type TripPublishInput struct {
	RouteID        int64                 `json:"route_id"`
	CompanyID      int64                 `json:"company_id"`
	DepartureDate  string                `json:"departure_date"`
	Capacity       int                   `json:"capacity"`
	BasePrice      float64               `json:"base_price"`
	VehicleID      int64                 `json:"vehicle_id"`
	DriverID       int64                 `json:"driver_id"`
	Visibility     string                `json:"visibility"`
	StopTimes      []models.StopTime     `json:"stop_times"`
	SegmentPrices  []models.SegmentPrice `json:"segment_prices"`
	CityPairPrices []CityPairPrice       `json:"city_pair_prices"`
}

// Publish creates the main trip plus its full sub-trip set. The segment table is
// regenerated from the route, reconciled against the stop-time table, and only then
// persisted, so every sub-trip row already carries its final price and times.
func (s TripService) Publish(in TripPublishInput) (models.Trip, []models.Trip, error) {
	topo, err := s.Routes.GetTopology(in.RouteID)
	if err != nil {
		return models.Trip{}, nil, domain.NotFoundError{Resource: "route", Err: err}
	}
	if in.Capacity <= 0 {
		return models.Trip{}, nil, domain.ValidationError{Field: "capacity", Msg: "debe ser mayor a cero"}
	}
	if _, err := utils.ParseDate(in.DepartureDate); err != nil {
		return models.Trip{}, nil, domain.ValidationError{Field: "departure_date", Msg: "fecha inválida", Err: err}
	}
	points := topo.AllPoints()
	if len(in.StopTimes) > 0 && len(in.StopTimes) != len(points) {
		return models.Trip{}, nil, domain.ValidationError{
			Field: "stop_times",
			Msg:   fmt.Sprintf("se esperaban %d horarios, llegaron %d", len(points), len(in.StopTimes)),
		}
	}
	visibility := utils.FirstNonEmpty(in.Visibility, models.VisibilityPublished)

	segments := GenerateSegments(topo)
	prices := BuildSegmentPrices(segments, in.BasePrice)
	prices = mergeSegmentPrices(prices, in.SegmentPrices)
	if len(in.StopTimes) > 0 {
		prices = ReconcileStopTimes(in.StopTimes, prices)
	}
	for _, cp := range in.CityPairPrices {
		prices = ApplyCityPairPrice(prices, cp.CityA, cp.CityB, cp.Price)
	}

	main := models.Trip{
		RouteID:        in.RouteID,
		CompanyID:      in.CompanyID,
		Capacity:       in.Capacity,
		AvailableSeats: in.Capacity,
		Price:          in.BasePrice,
		DepartureDate:  in.DepartureDate,
		VehicleID:      in.VehicleID,
		DriverID:       in.DriverID,
		Visibility:     visibility,
	}
	if len(in.StopTimes) > 0 {
		offsets := stopDayOffsets(in.StopTimes)
		main.DepartureTime = formatStopTime(in.StopTimes[0], offsets[0])
		main.ArrivalTime = formatStopTime(in.StopTimes[len(in.StopTimes)-1], offsets[len(in.StopTimes)-1])
	}

	mainID, err := s.Trips.Insert(main)
	if err != nil {
		return models.Trip{}, nil, domain.InternalError{Msg: "no se pudo crear el viaje", Err: err}
	}
	main.ID = mainID

	subs := make([]models.Trip, 0, len(prices))
	for _, p := range prices {
		sub := models.Trip{
			RouteID:            in.RouteID,
			CompanyID:          in.CompanyID,
			Capacity:           in.Capacity,
			AvailableSeats:     in.Capacity,
			Price:              p.Price,
			DepartureDate:      in.DepartureDate,
			DepartureTime:      p.DepartureTime,
			ArrivalTime:        p.ArrivalTime,
			VehicleID:          in.VehicleID,
			DriverID:           in.DriverID,
			Visibility:         visibility,
			IsSubTrip:          true,
			ParentTripID:       mainID,
			SegmentOrigin:      p.Origin,
			SegmentDestination: p.Destination,
		}
		subID, err := s.Trips.Insert(sub)
		if err != nil {
			// Publicación a medias no sirve: se revierte todo el paquete.
			_ = s.Trips.DeleteWithSubTrips(mainID)
			return models.Trip{}, nil, domain.InternalError{Msg: "no se pudo crear el sub-viaje", Err: err}
		}
		sub.ID = subID
		subs = append(subs, sub)
	}

	utils.LogEvent(s.RequestID, "trips", "publish",
		fmt.Sprintf("trip_id=%d route_id=%d subtrips=%d", mainID, in.RouteID, len(subs)))
	return main, subs, nil
}

// Delete removes a main trip and cascades to its sub-trips.
func (s TripService) Delete(tripID int64) error {
	trip, err := s.Trips.Get(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if trip.IsSubTrip {
		return domain.ValidationError{Field: "trip_id", Msg: "los sub-viajes se eliminan junto con su viaje principal"}
	}
	if err := s.Trips.DeleteWithSubTrips(tripID); err != nil {
		return domain.InternalError{Msg: "no se pudo eliminar el viaje", Err: err}
	}
	utils.LogEvent(s.RequestID, "trips", "delete", fmt.Sprintf("trip_id=%d", tripID))
	return nil
}

// SetVisibility flips a main trip between published/hidden/cancelled.
func (s TripService) SetVisibility(tripID int64, visibility string) error {
	switch visibility {
	case models.VisibilityPublished, models.VisibilityHidden, models.VisibilityCancelled:
	default:
		return domain.ValidationError{Field: "visibility", Msg: "valor no reconocido"}
	}
	if _, err := s.Trips.Get(tripID); err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	return s.Trips.UpdateVisibility(tripID, visibility)
}

// UpdateCityPairPrice fans one price out to every sub-trip of a published trip whose
// segment maps to the given city pair. Returns how many sub-trips changed.
func (s TripService) UpdateCityPairPrice(tripID int64, cityA, cityB string, price float64) (int, error) {
	trip, err := s.Trips.Get(tripID)
	if err != nil {
		return 0, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if trip.IsSubTrip {
		tripID = trip.ParentTripID
	}
	subs, err := s.Trips.SubTrips(tripID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	updated := 0
	for _, sub := range subs {
		if CityOf(sub.SegmentOrigin) != cityA || CityOf(sub.SegmentDestination) != cityB {
			continue
		}
		if err := s.Trips.UpdatePrice(sub.ID, price); err != nil {
			utils.LogEvent(s.RequestID, "trips", "price_error",
				fmt.Sprintf("trip_id=%d err=%v", sub.ID, err))
			continue
		}
		updated++
	}
	utils.LogEvent(s.RequestID, "trips", "city_pair_price",
		fmt.Sprintf("trip_id=%d pair=%s/%s updated=%d", tripID, cityA, cityB, updated))
	return updated, nil
}

// mergeSegmentPrices overlays form-provided rows onto the generated table, matching
// by exact origin/destination pair. Unknown pairs from the form are ignored.
func mergeSegmentPrices(base, overrides []models.SegmentPrice) []models.SegmentPrice {
	if len(overrides) == 0 {
		return base
	}
	byPair := make(map[string]models.SegmentPrice, len(overrides))
	for _, o := range overrides {
		byPair[o.Origin+"|"+o.Destination] = o
	}
	out := make([]models.SegmentPrice, len(base))
	copy(out, base)
	for i := range out {
		if o, ok := byPair[out[i].Origin+"|"+out[i].Destination]; ok {
			out[i].Price = o.Price
			if o.DepartureTime != "" {
				out[i].DepartureTime = o.DepartureTime
			}
			if o.ArrivalTime != "" {
				out[i].ArrivalTime = o.ArrivalTime
			}
		}
	}
	return out
}
