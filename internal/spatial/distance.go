package spatial

import (
	"github.com/golang/geo/s2"
)

// Position is a WGS84 latitude/longitude pair in degrees
type Position struct {
	Lat float64
	Lon float64
}

// Distance calculates the great-circle distance between two positions in
// meters using the Haversine formula. Symmetric, and zero only when the
// positions are identical.
func Distance(a, b Position) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// HaversineDistance calculates the great-circle distance between two points
// in meters from raw coordinates
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(Position{Lat: lat1, Lon: lon1}, Position{Lat: lat2, Lon: lon2})
}

// ValidLatLng reports whether the coordinates are within WGS84 range
func ValidLatLng(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)
