package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PointGeometry is the GeoJSON point attached to a monitor's stop.
// Coordinates are ordered [lon, lat].
type PointGeometry struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// Location returns the stop position of the monitor.
func (m *Monitor) Location() (GeoPoint, bool) {
	if m == nil || m.LocationStop == nil || m.LocationStop.Geometry == nil {
		return GeoPoint{}, false
	}
	c := m.LocationStop.Geometry.Coordinates
	if len(c) < 2 {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: c[1], Lon: c[0]}, true
}
