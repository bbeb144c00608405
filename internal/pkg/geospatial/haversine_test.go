package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/pkg/geospatial"
)

var (
	stephansplatz = domain.GeoPoint{Lat: 48.2084, Lon: 16.3731}
	karlsplatz    = domain.GeoPoint{Lat: 48.2003, Lon: 16.3697}
)

func TestDistance(t *testing.T) {
	d := geospatial.Distance(stephansplatz, karlsplatz)
	// roughly 940 m apart
	if d < 850 || d > 1000 {
		t.Errorf("expected ~940m, got %.0f", d)
	}
	if geospatial.Distance(karlsplatz, karlsplatz) != 0 {
		t.Error("expected zero distance for identical points")
	}
	if math.Abs(geospatial.Distance(stephansplatz, karlsplatz)-geospatial.Distance(karlsplatz, stephansplatz)) > 1e-6 {
		t.Error("distance should be symmetric")
	}
}

func TestWithin(t *testing.T) {
	if !geospatial.Within(stephansplatz, karlsplatz, 1500) {
		t.Error("expected karlsplatz within 1500m")
	}
	if geospatial.Within(stephansplatz, karlsplatz, 500) {
		t.Error("expected karlsplatz outside 500m")
	}
}
