package usecases_test

import (
	"reflect"
	"testing"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
)

func TestExtract_FirstDeparture(t *testing.T) {
	d := doc(monitor("Kagran", "U1", "Leopoldau", 301,
		departure("2024-05-01T08:16:10.000+0200", "2024-05-01T08:15:00.000+0200", 3),
	))

	s := usecases.Extract(d, 0, domain.ModeFirst, domain.DepartureSnapshot{})

	if s.Destination == nil || *s.Destination != "Leopoldau" {
		t.Errorf("expected destination Leopoldau, got %v", s.Destination)
	}
	if s.Countdown == nil || *s.Countdown != 3 {
		t.Errorf("expected countdown 3, got %v", s.Countdown)
	}
	if s.Timestamp == nil || *s.Timestamp != "2024-05-01T08:16:10.000+0200" {
		t.Fatalf("expected realtime timestamp, got %v", s.Timestamp)
	}
	if got := usecases.FormatState(*s.Timestamp); got != "2024-05-01T08:16:10.000+02:00" {
		t.Errorf("unexpected state %s", got)
	}
	if s.LineName == nil || *s.LineName != "U1" {
		t.Errorf("expected line U1, got %v", s.LineName)
	}
	if s.StopID == nil || *s.StopID != 4640 {
		t.Errorf("expected stop 4640, got %v", s.StopID)
	}
	if s.Location == nil || s.Location.Lat != 48.2431297 || s.Location.Lon != 16.4513932 {
		t.Errorf("unexpected location %v", s.Location)
	}
	if s.Imminent() {
		t.Error("countdown 3 is not imminent")
	}
}

func TestExtract_PlannedFallback(t *testing.T) {
	d := doc(monitor("Kagran", "U1", "Oberlaa", 301,
		departure("", "2024-05-01T08:14:00.000+0200", 1),
	))

	s := usecases.Extract(d, 0, domain.ModeFirst, domain.DepartureSnapshot{})
	if s.Timestamp == nil || *s.Timestamp != "2024-05-01T08:14:00.000+0200" {
		t.Fatalf("expected planned timestamp, got %v", s.Timestamp)
	}
	if !s.Imminent() {
		t.Error("countdown 1 is imminent")
	}
}

func TestExtract_NextDeparture(t *testing.T) {
	d := doc(monitor("Kagran", "26", "Strebersdorf", 126,
		departure("2024-05-01T08:19:00.000+0200", "", 5),
		departure("", "2024-05-01T08:28:00.000+0200", 15),
	))

	s := usecases.Extract(d, 0, domain.ModeNext, domain.DepartureSnapshot{})
	if s.Countdown == nil || *s.Countdown != 15 {
		t.Errorf("expected countdown 15, got %v", s.Countdown)
	}
	if s.Timestamp == nil || *s.Timestamp != "2024-05-01T08:28:00.000+0200" {
		t.Errorf("expected second departure, got %v", s.Timestamp)
	}
}

func TestExtract_StickyTimestamp(t *testing.T) {
	prev := usecases.Extract(
		doc(monitor("Kagran", "U1", "Leopoldau", 301, departure("2024-05-01T08:16:10.000+0200", "", 3))),
		0, domain.ModeFirst, domain.DepartureSnapshot{},
	)

	// Only one departure left, next mode has nothing to show.
	d := doc(monitor("Kagran", "U1", "Leopoldau", 301, departure("2024-05-01T08:21:00.000+0200", "", 2)))
	d.Data.Monitors[0].Lines[0].Platform = ptr("2")

	s := usecases.Extract(d, 0, domain.ModeNext, prev)
	if s.Timestamp == nil || *s.Timestamp != "2024-05-01T08:16:10.000+0200" {
		t.Errorf("expected previous timestamp to stick, got %v", s.Timestamp)
	}
	if s.Countdown == nil || *s.Countdown != 3 {
		t.Errorf("expected previous countdown to stick, got %v", s.Countdown)
	}
	if s.Platform == nil || *s.Platform != "2" {
		t.Errorf("expected line attributes to update, got %v", s.Platform)
	}
}

func TestExtract_MissingMonitorKeepsPrevious(t *testing.T) {
	prev := domain.DepartureSnapshot{Timestamp: ptr("2024-05-01T08:16:10.000+0200"), Destination: ptr("Leopoldau")}

	for name, d := range map[string]*domain.MonitorDocument{
		"empty":        doc(),
		"out of range": doc(monitor("Kagran", "U1", "Leopoldau", 301)),
	} {
		index := 0
		if name == "out of range" {
			index = 4
		}
		s := usecases.Extract(d, index, domain.ModeFirst, prev)
		if !reflect.DeepEqual(s, prev) {
			t.Errorf("%s: expected previous snapshot, got %+v", name, s)
		}
	}
}

func TestExtract_NoLines(t *testing.T) {
	d := doc(domain.Monitor{LocationStop: &domain.LocationStop{Properties: &domain.StopProperties{
		Attributes: &domain.StopAttributes{RBL: ptr(252)},
	}}})
	prev := domain.DepartureSnapshot{Destination: ptr("Heiligenstadt")}

	s := usecases.Extract(d, 0, domain.ModeFirst, prev)
	if s.Destination == nil || *s.Destination != "Heiligenstadt" {
		t.Errorf("expected destination to stick, got %v", s.Destination)
	}
	if s.StopID == nil || *s.StopID != 252 {
		t.Errorf("expected stop id from document, got %v", s.StopID)
	}
}

func TestExtract_DoesNotAliasPrevious(t *testing.T) {
	prev := domain.DepartureSnapshot{Countdown: ptr(9)}
	d := doc(monitor("Kagran", "U1", "Leopoldau", 301, departure("2024-05-01T08:16:10.000+0200", "", 3)))

	_ = usecases.Extract(d, 0, domain.ModeFirst, prev)
	if *prev.Countdown != 9 {
		t.Errorf("previous snapshot was mutated: %d", *prev.Countdown)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	d := doc(monitor("Kagran", "U1", "Leopoldau", 301, departure("2024-05-01T08:16:10.000+0200", "", 3)))
	a := usecases.Extract(d, 0, domain.ModeFirst, domain.DepartureSnapshot{})
	b := usecases.Extract(d, 0, domain.ModeFirst, domain.DepartureSnapshot{})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical snapshots, got %+v and %+v", a, b)
	}
}

func TestFormatState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-05-01T08:15:00.000+0200", "2024-05-01T08:15:00.000+02:00"},
		{"2024-12-24T23:59:59.000+0100", "2024-12-24T23:59:59.000+01:00"},
		// Other widths are sliced the same way and come out malformed.
		{"2024-05-01T08:15:00+0200", "2024-05-01T08:15:00+02:"},
		{"", ":"},
	}
	for _, tt := range tests {
		if got := usecases.FormatState(tt.in); got != tt.want {
			t.Errorf("FormatState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
