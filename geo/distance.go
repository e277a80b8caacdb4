// Package geo provides great-circle distance calculations between WGS84
// coordinates. Distances are whole meters, rounded before any comparison,
// and all range checks are inclusive at both bounds.
package geo

import (
	"math"

	"cityrace/models"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates, rounded to the nearest integer.
func Distance(origin, destination models.Coordinate) int {
	lat1 := radians(origin.Latitude)
	lat2 := radians(destination.Latitude)
	dLat := radians(destination.Latitude - origin.Latitude)
	dLon := radians(destination.Longitude - origin.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusMeters * c))
}

// IsWithin reports whether the distance between origin and destination is in
// the inclusive range [minDist, maxDist] meters.
func IsWithin(origin, destination models.Coordinate, maxDist, minDist int) bool {
	dist := Distance(origin, destination)
	return minDist <= dist && dist <= maxDist
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
