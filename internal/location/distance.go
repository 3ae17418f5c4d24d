package location

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0 // mean Earth radius

// GeoPoint is an immutable latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewGeoPoint builds a point. Ranges are not checked here; see the validator.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Latitude: lat, Longitude: lon}
}

// DistanceMeters returns the great-circle distance between a and b using
// the Haversine formula. NaN in either point propagates to the result.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// asin is undefined above 1; rounding can push h there near antipodes.
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// FormatDistance renders meters as "250m" below one kilometre and "2.5km"
// otherwise. Metric only.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
