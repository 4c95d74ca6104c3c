package services

import (
	"strings"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// Las ubicaciones siguen la convención "Ciudad - Terminal"; el prefijo antes del
// separador identifica la ciudad.
const citySeparator = " - "

// CityOf returns the city prefix of a location, or the whole string when the
// separator is absent.
func CityOf(location string) string {
	location = strings.TrimSpace(location)
	if i := strings.Index(location, citySeparator); i >= 0 {
		return location[:i]
	}
	return location
}

// SameCity reports whether two locations share the same city prefix (case-sensitive).
func SameCity(a, b string) bool {
	return CityOf(a) == CityOf(b)
}

// GenerateSegments enumerates every origin->destination pair over the flattened stop
// list, skipping pairs inside the same city. Order is stable (ascending i, then j)
// because the price table downstream is rendered in this order.
//
// A degenerate route where every point shares one city still gets the direct
// origin->destination pair, so there is always something to sell.
func GenerateSegments(route models.RouteTopology) []models.Segment {
	points := route.AllPoints()
	out := []models.Segment{}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if SameCity(points[i], points[j]) {
				continue
			}
			out = append(out, models.Segment{Origin: points[i], Destination: points[j]})
		}
	}
	if len(out) == 0 {
		out = append(out, models.Segment{Origin: route.Origin, Destination: route.Destination})
	}
	return out
}

// segmentRange is a segment resolved to half-open stop indices within one AllPoints
// ordering: the bus occupies positions [origin, destination).
type segmentRange struct {
	origin      int
	destination int
}

func stopIndex(points []string, location string) int {
	for i, p := range points {
		if p == location {
			return i
		}
	}
	return -1
}

// resolveRange locates a segment's endpoints in the stop list by exact string match.
// ok=false means the segment no longer matches the route topology (stale data); the
// caller must treat it as non-overlapping.
func resolveRange(points []string, origin, destination string) (segmentRange, bool) {
	o := stopIndex(points, origin)
	d := stopIndex(points, destination)
	if o < 0 || d < 0 || o >= d {
		return segmentRange{}, false
	}
	return segmentRange{origin: o, destination: d}, true
}

// rangesOverlap is strict interval overlap on half-open ranges: segments that only
// touch at a boundary stop do not share a traversed edge.
func rangesOverlap(a, b segmentRange) bool {
	return a.origin < b.destination && a.destination > b.origin
}

// Overlaps reports whether two segments of the same route share at least one edge.
// Unresolvable locations count as non-overlap (falla segura, solo se registra).
func Overlaps(points []string, a, b models.Segment) bool {
	ra, ok := resolveRange(points, a.Origin, a.Destination)
	if !ok {
		utils.LogEvent("", "segments", "overlap_skip", "origen/destino fuera de la ruta: "+a.Origin+" -> "+a.Destination)
		return false
	}
	rb, ok := resolveRange(points, b.Origin, b.Destination)
	if !ok {
		utils.LogEvent("", "segments", "overlap_skip", "origen/destino fuera de la ruta: "+b.Origin+" -> "+b.Destination)
		return false
	}
	return rangesOverlap(ra, rb)
}
