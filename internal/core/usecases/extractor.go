package usecases

import (
	"log/slog"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// The API sends timestamps like 2024-05-01T08:15:00.000+0200. The display
// form inserts a colon into the offset by fixed-width slicing, so anything of
// a different width comes out malformed.
const (
	stateOffset = 26
	stateWidth  = 28
)

// Extract derives the snapshot for the monitor at index from doc. It never
// fails: whatever doc does not provide keeps its value from prev.
func Extract(doc *domain.MonitorDocument, index int, mode domain.Mode, prev domain.DepartureSnapshot) domain.DepartureSnapshot {
	next, _ := extract(doc, index, mode, prev)
	return next
}

// extract additionally reports whether a departure time was found in doc.
func extract(doc *domain.MonitorDocument, index int, mode domain.Mode, prev domain.DepartureSnapshot) (domain.DepartureSnapshot, bool) {
	next := prev

	monitor, ok := doc.MonitorAt(index)
	if !ok {
		return prev, false
	}
	if stopID, ok := monitor.StopID(); ok {
		next.StopID = &stopID
	}
	if loc, ok := monitor.Location(); ok {
		next.Location = &loc
	}

	line, ok := monitor.FirstLine()
	if !ok {
		return next, false
	}
	setString(&next.Destination, line.Towards)
	setString(&next.Platform, line.Platform)
	setString(&next.Direction, line.Direction)
	setString(&next.LineName, line.Name)
	setString(&next.VehicleType, line.VehicleType)
	if line.BarrierFree != nil {
		v := *line.BarrierFree
		next.BarrierFree = &v
	}
	if line.TrafficJam != nil {
		v := *line.TrafficJam
		next.TrafficJam = &v
	}
	if line.LineID != nil {
		v := *line.LineID
		next.LineID = &v
	}

	departure, ok := line.DepartureAt(mode.DepartureIndex())
	if !ok {
		return next, false
	}
	if departure.Countdown != nil {
		v := *departure.Countdown
		next.Countdown = &v
	}

	ts, ok := departure.Time()
	if !ok {
		return next, false
	}
	if len(ts) != stateWidth {
		slog.Warn("unexpected timestamp width, state will be malformed",
			"timestamp", ts, "width", len(ts), "expected", stateWidth)
	}
	next.Timestamp = &ts
	return next, true
}

// FormatState turns the raw API timestamp into the sensor state: everything
// but the last two characters, a colon, then the tail from stateOffset.
func FormatState(raw string) string {
	head := ""
	if len(raw) > 2 {
		head = raw[:len(raw)-2]
	}
	tail := ""
	if len(raw) > stateOffset {
		tail = raw[stateOffset:]
	}
	return head + ":" + tail
}

func setString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
