// Package geo provides geographic value objects.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	lat float64
	lon float64
}

// NewCoordinate creates a validated coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return Coordinate{}, fmt.Errorf("coordinate must not be NaN")
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return Coordinate{lat: lat, lon: lon}, nil
}

// Lat returns the latitude in decimal degrees.
func (c Coordinate) Lat() float64 { return c.lat }

// Lon returns the longitude in decimal degrees.
func (c Coordinate) Lon() float64 { return c.lon }

// DistanceKm computes the great-circle distance to another coordinate
// using the haversine formula.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := toRadians(c.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - c.lat)
	dLon := toRadians(other.lon - c.lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * h
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.lat, c.lon)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
