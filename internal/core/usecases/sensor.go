package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/ports"
	"github.com/samirrijal/wienermonitor/internal/pkg/metrics"
)

// Sensor follows one departure slot of one monitor. Update is driven by the
// host scheduler and by forced refreshes; the accessors may be called
// concurrently with it. At most one update cycle runs at a time.
type Sensor struct {
	client ports.MonitorClient
	query  domain.StopQuery

	updateMu sync.Mutex

	mu        sync.RWMutex
	resolved  domain.ResolvedMonitor
	snapshot  domain.DepartureSnapshot
	updatedAt time.Time
}

// NewSensor creates a sensor for a monitor resolved during setup.
func NewSensor(client ports.MonitorClient, query domain.StopQuery, resolved domain.ResolvedMonitor) *Sensor {
	return &Sensor{client: client, query: query, resolved: resolved}
}

// Update fetches the stop, re-resolves line-based queries and extracts a new
// snapshot. Failures leave the previous state in place. Concurrent calls
// are serialized so an older document never replaces a newer snapshot.
func (s *Sensor) Update(ctx context.Context) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	stop := fmt.Sprint(s.query.StopID)
	start := time.Now()
	doc, err := s.client.FetchMonitors(ctx, s.query.StopID)
	metrics.PollDuration.WithLabelValues(stop).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrors.WithLabelValues(stop).Inc()
		slog.Debug("could not get new state", "sensor", s.UniqueID(), "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.resolved.Index
	if s.query.Rescan() {
		if i, err := Locate(doc, s.query); err == nil {
			if i != index {
				slog.Debug("monitor moved", "sensor", s.query.UniqueID(), "from", index, "to", i)
			}
			index = i
		}
	}

	next, fresh := extract(doc, index, s.query.Mode, s.snapshot)
	if !fresh {
		metrics.StickyUpdates.WithLabelValues(s.query.UniqueID()).Inc()
	}
	s.resolved.Index = index
	s.snapshot = next
	s.updatedAt = time.Now()
}

// UniqueID identifies the sensor towards the host.
func (s *Sensor) UniqueID() string {
	return s.query.UniqueID()
}

// Name is "<custom or display name> first|next departure". A custom name is
// prefixed with "<line>, " once the line name is known; the display name
// already carries it.
func (s *Sensor) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := fmt.Sprintf("%s %s departure", s.resolved.DisplayName, s.query.Mode)
	if s.query.Name == "" {
		return name
	}
	name = fmt.Sprintf("%s %s departure", s.query.Name, s.query.Mode)
	if line := s.snapshot.LineName; line != nil && *line != "" {
		name = *line + ", " + name
	}
	return name
}

// State returns the formatted departure time, or nil before the first good poll.
func (s *Sensor) State() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Timestamp == nil {
		return nil
	}
	state := FormatState(*s.snapshot.Timestamp)
	return &state
}

// Attributes returns the auxiliary departure data.
func (s *Sensor) Attributes() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Attributes()
}

// Snapshot returns a copy of the current snapshot.
func (s *Sensor) Snapshot() domain.DepartureSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// View bundles everything the host shows for this sensor.
func (s *Sensor) View() domain.SensorState {
	s.mu.RLock()
	snapshot := s.snapshot
	updatedAt := s.updatedAt
	s.mu.RUnlock()

	view := domain.SensorState{
		UniqueID:   s.UniqueID(),
		Name:       s.Name(),
		StopID:     s.query.StopID,
		Mode:       s.query.Mode,
		Attributes: snapshot.Attributes(),
		Imminent:   snapshot.Imminent(),
		UpdatedAt:  updatedAt,
	}
	if snapshot.Timestamp != nil {
		state := FormatState(*snapshot.Timestamp)
		view.State = &state
	}
	return view
}
