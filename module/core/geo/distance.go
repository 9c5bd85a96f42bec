// Package geo provides great-circle distance between WGS84 coordinates.
package geo

import (
	"math"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

const earthRadiusMeters = 6371000

// DistanceMeters returns the haversine distance between a and b. It is
// symmetric, never negative, and zero only for identical points. Callers
// are expected to reject out-of-range latitude/longitude before use.
func DistanceMeters(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
