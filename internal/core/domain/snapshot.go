package domain

import "time"

// DepartureSnapshot is the derived state of one sensor. Fields stay at their
// previous value when a poll does not provide them.
type DepartureSnapshot struct {
	Timestamp   *string `json:"timestamp,omitempty"` // raw ISO-8601 from the API
	Destination *string `json:"destination,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	Direction   *string `json:"direction,omitempty"`
	LineName    *string `json:"name,omitempty"`
	VehicleType *string `json:"vehicle_type,omitempty"`
	Countdown   *int    `json:"countdown,omitempty"`
	BarrierFree *bool   `json:"barrier_free,omitempty"`
	TrafficJam  *bool   `json:"trafficjam,omitempty"`
	LineID      *int    `json:"line_id,omitempty"`
	StopID      *int    `json:"stop_id,omitempty"`

	Location *GeoPoint `json:"location,omitempty"`
}

// Attributes returns the populated fields keyed the way the host exposes them.
func (s DepartureSnapshot) Attributes() map[string]any {
	attrs := make(map[string]any)
	putString(attrs, "destination", s.Destination)
	putString(attrs, "platform", s.Platform)
	putString(attrs, "direction", s.Direction)
	putString(attrs, "name", s.LineName)
	putString(attrs, "vehicle_type", s.VehicleType)
	if s.Countdown != nil {
		attrs["countdown"] = *s.Countdown
	}
	if s.BarrierFree != nil {
		attrs["barrier_free"] = *s.BarrierFree
	}
	if s.TrafficJam != nil {
		attrs["trafficjam"] = *s.TrafficJam
	}
	if s.LineID != nil {
		attrs["line_id"] = *s.LineID
	}
	if s.StopID != nil {
		attrs["stop_id"] = *s.StopID
	}
	if s.Location != nil {
		attrs["latitude"] = s.Location.Lat
		attrs["longitude"] = s.Location.Lon
	}
	return attrs
}

// Imminent is true when the departure is at most one minute away.
func (s DepartureSnapshot) Imminent() bool {
	return s.Countdown != nil && *s.Countdown <= 1
}

func putString(attrs map[string]any, key string, v *string) {
	if v != nil {
		attrs[key] = *v
	}
}

// SensorState is what the host platform sees of a sensor after an update.
type SensorState struct {
	UniqueID   string         `json:"unique_id"`
	Name       string         `json:"name"`
	StopID     int            `json:"stop_id"`
	Mode       Mode           `json:"mode"`
	State      *string        `json:"state"`
	Attributes map[string]any `json:"attributes"`
	Imminent   bool           `json:"imminent"`
	UpdatedAt  time.Time      `json:"updated_at,omitempty"`
}
