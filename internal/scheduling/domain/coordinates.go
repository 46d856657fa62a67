package domain

import (
	"errors"
	"math"
)

var ErrInvalidCoordinates = errors.New("coordinates out of range")

// Travel estimation constants. The estimate is a deliberately simplified
// straight-line heuristic, not a routing result.
const (
	// kmPerLatDegree is the approximate north-south span of one degree.
	kmPerLatDegree = 111.32

	// UrbanSpeedKmh is the assumed average city travel speed.
	UrbanSpeedKmh = 30.0

	// MinTravelMinutes is the floor applied to every non-zero estimate.
	MinTravelMinutes = 10
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates and creates a coordinate pair.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, ErrInvalidCoordinates
	}
	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

// DistanceKm returns the straight-line distance to other in kilometres,
// using an equirectangular approximation. Good enough at city scale.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	meanLat := (c.Latitude + other.Latitude) / 2 * math.Pi / 180
	dLat := (other.Latitude - c.Latitude) * kmPerLatDegree
	dLng := (other.Longitude - c.Longitude) * kmPerLatDegree * math.Cos(meanLat)
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// EstimateTravelMinutes converts a straight-line distance into travel minutes
// at the assumed urban speed, clamped to the minimum floor.
func EstimateTravelMinutes(distanceKm float64) int {
	minutes := int(math.Ceil(distanceKm / UrbanSpeedKmh * 60))
	if minutes < MinTravelMinutes {
		return MinTravelMinutes
	}
	return minutes
}

// TravelMinutesBetween estimates door-to-door travel minutes between two points.
func TravelMinutesBetween(from, to Coordinates) int {
	return EstimateTravelMinutes(from.DistanceKm(to))
}
