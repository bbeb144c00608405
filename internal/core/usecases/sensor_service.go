package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/ports"
	"github.com/samirrijal/wienermonitor/internal/pkg/geospatial"
	"github.com/samirrijal/wienermonitor/internal/pkg/metrics"
)

// ErrSensorNotFound is returned for unknown unique ids.
var ErrSensorNotFound = errors.New("sensor not found")

// SensorService owns the sensors created during setup and forwards every
// update to the configured state sinks.
type SensorService struct {
	sensors   []*Sensor
	byID      map[string]*Sensor
	publisher ports.StatePublisher
	cache     ports.CacheService
	cacheTTL  int
}

// NewSensorService creates a SensorService. publisher and cache may be nil.
func NewSensorService(sensors []*Sensor, publisher ports.StatePublisher, cache ports.CacheService, cacheTTLSeconds int) *SensorService {
	svc := &SensorService{
		byID:      make(map[string]*Sensor, len(sensors)),
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cacheTTLSeconds,
	}
	for _, s := range sensors {
		if _, exists := svc.byID[s.UniqueID()]; exists {
			slog.Warn("duplicate sensor id, keeping first", "unique_id", s.UniqueID())
			continue
		}
		svc.byID[s.UniqueID()] = s
		svc.sensors = append(svc.sensors, s)
	}
	metrics.Sensors.Set(float64(len(svc.sensors)))
	return svc
}

// Sensors returns the managed sensors in configuration order.
func (s *SensorService) Sensors() []*Sensor {
	return s.sensors
}

// List returns the current view of every sensor.
func (s *SensorService) List() []domain.SensorState {
	states := make([]domain.SensorState, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		states = append(states, sensor.View())
	}
	return states
}

// Nearby returns the sensors whose stop lies within radiusMeters of center,
// closest first. Sensors without a known location are skipped.
func (s *SensorService) Nearby(center domain.GeoPoint, radiusMeters float64) []domain.SensorState {
	type hit struct {
		state    domain.SensorState
		distance float64
	}
	var hits []hit
	for _, sensor := range s.sensors {
		loc := sensor.Snapshot().Location
		if loc == nil || !geospatial.Within(center, *loc, radiusMeters) {
			continue
		}
		hits = append(hits, hit{state: sensor.View(), distance: geospatial.Distance(center, *loc)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	states := make([]domain.SensorState, len(hits))
	for i, h := range hits {
		states[i] = h.state
	}
	return states
}

// Get returns the current view of one sensor.
func (s *SensorService) Get(uniqueID string) (*domain.SensorState, error) {
	sensor, ok := s.byID[uniqueID]
	if !ok {
		return nil, ErrSensorNotFound
	}
	view := sensor.View()
	return &view, nil
}

// Refresh updates one sensor and publishes its new state.
func (s *SensorService) Refresh(ctx context.Context, uniqueID string) (*domain.SensorState, error) {
	sensor, ok := s.byID[uniqueID]
	if !ok {
		return nil, ErrSensorNotFound
	}
	sensor.Update(ctx)
	view := sensor.View()
	s.publish(ctx, &view)
	return &view, nil
}

// publish is best-effort; sink failures never affect the sensor state.
func (s *SensorService) publish(ctx context.Context, state *domain.SensorState) {
	if s.publisher != nil {
		if err := s.publisher.PublishState(ctx, state); err != nil {
			metrics.PublishErrors.WithLabelValues("nats").Inc()
			slog.Warn("publish state failed", "unique_id", state.UniqueID, "error", err)
		}
	}

	if s.cache != nil {
		data, err := json.Marshal(state)
		if err != nil {
			return
		}
		if err := s.cache.Set(ctx, stateCacheKey(state.UniqueID), data, s.cacheTTL); err != nil {
			metrics.PublishErrors.WithLabelValues("valkey").Inc()
			slog.Warn("cache state failed", "unique_id", state.UniqueID, "error", err)
		}
	}
}

func stateCacheKey(uniqueID string) string {
	return "sensors:state:" + uniqueID
}
