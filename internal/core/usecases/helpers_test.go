package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func doc(monitors ...domain.Monitor) *domain.MonitorDocument {
	return &domain.MonitorDocument{Data: &domain.MonitorData{Monitors: monitors}}
}

func monitor(title, line, towards string, lineID int, departures ...domain.DepartureInfo) domain.Monitor {
	return domain.Monitor{
		LocationStop: &domain.LocationStop{
			Geometry: &domain.PointGeometry{Type: "Point", Coordinates: []float64{16.4513932, 48.2431297}},
			Properties: &domain.StopProperties{
				Title:      ptr(title),
				Attributes: &domain.StopAttributes{RBL: ptr(4640)},
			},
		},
		Lines: []domain.Line{{
			Name:        ptr(line),
			Towards:     ptr(towards),
			Direction:   ptr("H"),
			Platform:    ptr("1"),
			VehicleType: ptr("ptMetro"),
			LineID:      ptr(lineID),
			BarrierFree: ptr(true),
			TrafficJam:  ptr(false),
			Departures:  &domain.Departures{Departure: departures},
		}},
	}
}

func departure(timeReal, timePlanned string, countdown int) domain.DepartureInfo {
	dt := &domain.DepartureTime{Countdown: ptr(countdown)}
	if timeReal != "" {
		dt.TimeReal = ptr(timeReal)
	}
	if timePlanned != "" {
		dt.TimePlanned = ptr(timePlanned)
	}
	return domain.DepartureInfo{DepartureTime: dt}
}

// --- Mock MonitorClient ---

type mockMonitorClient struct {
	fetchFn func(ctx context.Context, stopID int) (*domain.MonitorDocument, error)

	mu    sync.Mutex
	calls map[int]int
}

func (m *mockMonitorClient) FetchMonitors(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[int]int)
	}
	m.calls[stopID]++
	m.mu.Unlock()

	if m.fetchFn != nil {
		return m.fetchFn(ctx, stopID)
	}
	return doc(), nil
}

func (m *mockMonitorClient) callsFor(stopID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[stopID]
}

func staticClient(d *domain.MonitorDocument) *mockMonitorClient {
	return &mockMonitorClient{
		fetchFn: func(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
			return d, nil
		},
	}
}
