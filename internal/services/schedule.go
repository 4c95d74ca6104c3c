package services

import (
	"fmt"
	"strings"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// stopTimeValue converts a 12-hour reading into a decimal 24-hour value, used only to
// detect midnight crossings between consecutive stops.
func stopTimeValue(st models.StopTime) float64 {
	h := st.Hour % 12
	if strings.EqualFold(strings.TrimSpace(st.AMPM), "PM") {
		h += 12
	}
	return float64(h) + float64(st.Minute)/60.0
}

// stopDayOffsets walks the stop table in order and accumulates a day offset per stop:
// whenever the clock value decreases versus the previous stop the run crossed
// midnight and the offset grows by one.
func stopDayOffsets(stops []models.StopTime) []int {
	offsets := make([]int, len(stops))
	prev := 0.0
	for i, st := range stops {
		v := stopTimeValue(st)
		if i > 0 {
			offsets[i] = offsets[i-1]
			if v < prev {
				offsets[i]++
			}
		}
		prev = v
	}
	return offsets
}

// formatStopTime renders "H:MM AM/PM" plus a "+Nd" suffix when the stop falls on a
// later day than the trip's departure.
func formatStopTime(st models.StopTime, dayOffset int) string {
	out := fmt.Sprintf("%d:%02d %s", st.Hour, st.Minute, strings.ToUpper(strings.TrimSpace(st.AMPM)))
	if dayOffset > 0 {
		out += fmt.Sprintf(" +%dd", dayOffset)
	}
	return out
}

// BuildSegmentPrices seeds the authoring price table from the generated segment list,
// one row per pair, all at the same starting price.
func BuildSegmentPrices(segments []models.Segment, basePrice float64) []models.SegmentPrice {
	out := make([]models.SegmentPrice, 0, len(segments))
	for _, seg := range segments {
		out = append(out, models.SegmentPrice{
			Origin:      seg.Origin,
			Destination: seg.Destination,
			Price:       basePrice,
		})
	}
	return out
}

// ReconcileStopTimes derives each segment's departure and arrival from the per-stop
// time table. Segments whose endpoints are not in the table keep their previous
// times (se registra y se continúa).
func ReconcileStopTimes(stopTimes []models.StopTime, segments []models.SegmentPrice) []models.SegmentPrice {
	offsets := stopDayOffsets(stopTimes)

	index := make(map[string]int, len(stopTimes))
	for i, st := range stopTimes {
		loc := strings.TrimSpace(st.Location)
		if _, ok := index[loc]; !ok {
			index[loc] = i
		}
	}

	out := make([]models.SegmentPrice, len(segments))
	copy(out, segments)
	for i := range out {
		oi, okO := index[strings.TrimSpace(out[i].Origin)]
		di, okD := index[strings.TrimSpace(out[i].Destination)]
		if !okO || !okD {
			utils.LogEvent("", "schedule", "reconcile_skip",
				"parada sin horario: "+out[i].Origin+" -> "+out[i].Destination)
			continue
		}
		out[i].DepartureTime = formatStopTime(stopTimes[oi], offsets[oi])
		out[i].ArrivalTime = formatStopTime(stopTimes[di], offsets[di])
	}
	return out
}

// ApplyCityPairPrice sets the price on every segment whose endpoints map to the given
// city pair. Editing "by city" is a one-to-many fan-out: all terminal combinations
// between the two cities receive the identical price.
func ApplyCityPairPrice(segments []models.SegmentPrice, cityA, cityB string, price float64) []models.SegmentPrice {
	out := make([]models.SegmentPrice, len(segments))
	copy(out, segments)
	for i := range out {
		if CityOf(out[i].Origin) == cityA && CityOf(out[i].Destination) == cityB {
			out[i].Price = price
		}
	}
	return out
}

// GroupSegmentsByCityPair collapses the segment table into the per-city-pair summary
// shown to the operator; the first segment of each pair carries the group's price.
func GroupSegmentsByCityPair(segments []models.SegmentPrice) []models.SegmentPrice {
	seen := map[string]bool{}
	out := []models.SegmentPrice{}
	for _, seg := range segments {
		key := CityOf(seg.Origin) + "|" + CityOf(seg.Destination)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.SegmentPrice{
			Origin:        CityOf(seg.Origin),
			Destination:   CityOf(seg.Destination),
			Price:         seg.Price,
			DepartureTime: seg.DepartureTime,
			ArrivalTime:   seg.ArrivalTime,
		})
	}
	return out
}
