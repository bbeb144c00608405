package domain

import "strings"

// MonitorDocument is the decoded body of the realtime monitor endpoint.
// Every field is optional; absence is an expected state, not an error.
type MonitorDocument struct {
	Data    *MonitorData `json:"data,omitempty"`
	Message *APIMessage  `json:"message,omitempty"`
}

// MonitorData holds the ordered monitor list. The API does not guarantee the
// order is stable between polls.
type MonitorData struct {
	Monitors []Monitor `json:"monitors,omitempty"`
}

// APIMessage is the status block the API attaches to every response.
type APIMessage struct {
	Value       *string `json:"value,omitempty"`
	MessageCode *int    `json:"messageCode,omitempty"`
	ServerTime  *string `json:"serverTime,omitempty"`
}

// Monitor is one line/direction at a physical stop.
type Monitor struct {
	LocationStop *LocationStop `json:"locationStop,omitempty"`
	Lines        []Line        `json:"lines,omitempty"`
}

type LocationStop struct {
	Geometry   *PointGeometry  `json:"geometry,omitempty"`
	Properties *StopProperties `json:"properties,omitempty"`
}

type StopProperties struct {
	Name       *string         `json:"name,omitempty"`
	Title      *string         `json:"title,omitempty"`
	Attributes *StopAttributes `json:"attributes,omitempty"`
}

type StopAttributes struct {
	RBL *int `json:"rbl,omitempty"`
}

// Line describes the vehicle line served by a monitor.
type Line struct {
	Name              *string     `json:"name,omitempty"`
	Towards           *string     `json:"towards,omitempty"`
	Direction         *string     `json:"direction,omitempty"` // H = outward, R = return
	Platform          *string     `json:"platform,omitempty"`
	VehicleType       *string     `json:"type,omitempty"`
	LineID            *int        `json:"lineId,omitempty"`
	BarrierFree       *bool       `json:"barrierFree,omitempty"`
	RealtimeSupported *bool       `json:"realtimeSupported,omitempty"`
	TrafficJam        *bool       `json:"trafficjam,omitempty"`
	Departures        *Departures `json:"departures,omitempty"`
}

type Departures struct {
	Departure []DepartureInfo `json:"departure,omitempty"`
}

// DepartureInfo is a single upcoming departure.
type DepartureInfo struct {
	DepartureTime *DepartureTime `json:"departureTime,omitempty"`
}

type DepartureTime struct {
	TimePlanned *string `json:"timePlanned,omitempty"`
	TimeReal    *string `json:"timeReal,omitempty"`
	Countdown   *int    `json:"countdown,omitempty"`
}

// Monitors returns the monitor list, or nil when the document has none.
func (d *MonitorDocument) Monitors() []Monitor {
	if d == nil || d.Data == nil {
		return nil
	}
	return d.Data.Monitors
}

// MonitorAt returns the monitor at index i.
func (d *MonitorDocument) MonitorAt(i int) (*Monitor, bool) {
	monitors := d.Monitors()
	if i < 0 || i >= len(monitors) {
		return nil, false
	}
	return &monitors[i], true
}

// Title returns the trimmed stop title.
func (m *Monitor) Title() (string, bool) {
	if m == nil || m.LocationStop == nil || m.LocationStop.Properties == nil || m.LocationStop.Properties.Title == nil {
		return "", false
	}
	return strings.TrimSpace(*m.LocationStop.Properties.Title), true
}

// StopID returns the RBL number of the stop the monitor belongs to.
func (m *Monitor) StopID() (int, bool) {
	if m == nil || m.LocationStop == nil || m.LocationStop.Properties == nil ||
		m.LocationStop.Properties.Attributes == nil || m.LocationStop.Properties.Attributes.RBL == nil {
		return 0, false
	}
	return *m.LocationStop.Properties.Attributes.RBL, true
}

// FirstLine returns lines[0]. Monitors carry one line in practice.
func (m *Monitor) FirstLine() (*Line, bool) {
	if m == nil || len(m.Lines) == 0 {
		return nil, false
	}
	return &m.Lines[0], true
}

// DepartureAt returns the departure time block of departure i.
func (l *Line) DepartureAt(i int) (*DepartureTime, bool) {
	if l == nil || l.Departures == nil || i < 0 || i >= len(l.Departures.Departure) {
		return nil, false
	}
	dt := l.Departures.Departure[i].DepartureTime
	if dt == nil {
		return nil, false
	}
	return dt, true
}

// Time prefers the realtime prediction over the planned time.
func (t *DepartureTime) Time() (string, bool) {
	if t == nil {
		return "", false
	}
	if t.TimeReal != nil {
		return *t.TimeReal, true
	}
	if t.TimePlanned != nil {
		return *t.TimePlanned, true
	}
	return "", false
}

func trimmed(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return strings.TrimSpace(*s), true
}

// LineName returns the trimmed line name (e.g. "U1", "40A").
func (l *Line) LineName() (string, bool) {
	if l == nil {
		return "", false
	}
	return trimmed(l.Name)
}

// Destination returns the trimmed final destination.
func (l *Line) Destination() (string, bool) {
	if l == nil {
		return "", false
	}
	return trimmed(l.Towards)
}
