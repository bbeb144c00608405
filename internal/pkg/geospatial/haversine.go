package geospatial

import (
	"math"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Distance calculates the great-circle distance in meters between two points.
func Distance(a, b domain.GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c * 1000 // meters
}

// Within reports whether p lies within radiusMeters of center. A bounding box
// check runs first to skip the trigonometry for far away points.
func Within(center, p domain.GeoPoint, radiusMeters float64) bool {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(center.Lat)))
	if math.Abs(p.Lat-center.Lat) > latDelta || math.Abs(p.Lon-center.Lon) > lonDelta {
		return false
	}
	return Distance(center, p) <= radiusMeters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
