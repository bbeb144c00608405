package usecases

import (
	"fmt"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// MonitorResolver finds the monitor a StopQuery refers to.
type MonitorResolver struct {
	registry *Registry
}

// NewMonitorResolver creates a resolver that deduplicates through registry.
func NewMonitorResolver(registry *Registry) *MonitorResolver {
	return &MonitorResolver{registry: registry}
}

// Resolve locates the monitor for q and claims its identity in the registry.
// A second query resolving to the same (display name, mode) gets
// ErrDuplicateMonitor.
func (r *MonitorResolver) Resolve(doc *domain.MonitorDocument, q domain.StopQuery) (*domain.ResolvedMonitor, error) {
	index, err := Locate(doc, q)
	if err != nil {
		return nil, err
	}

	resolved := &domain.ResolvedMonitor{
		Index:       index,
		DisplayName: DisplayName(doc, index),
	}

	id := domain.MonitorIdentity{DisplayName: resolved.DisplayName, Mode: q.Mode}
	if !r.registry.Register(id) {
		return nil, fmt.Errorf("%q (%s): %w", id.DisplayName, id.Mode, domain.ErrDuplicateMonitor)
	}
	return resolved, nil
}

// Locate returns the monitor index for q without touching any registry.
// With a line id the last matching monitor wins and index 0 is the fallback;
// q.Index is not consulted.
func Locate(doc *domain.MonitorDocument, q domain.StopQuery) (int, error) {
	monitors := doc.Monitors()
	if len(monitors) == 0 {
		return 0, fmt.Errorf("stop %d: %w", q.StopID, domain.ErrNoMonitors)
	}

	if q.LineID != nil {
		index := 0
		for i := range monitors {
			line, ok := monitors[i].FirstLine()
			if !ok || line.LineID == nil {
				continue
			}
			if *line.LineID == *q.LineID {
				index = i
			}
		}
		return index, nil
	}

	if q.Index != nil {
		if *q.Index < 0 || *q.Index >= len(monitors) {
			return 0, fmt.Errorf("stop %d index %d of %d: %w", q.StopID, *q.Index, len(monitors), domain.ErrIndexOutOfRange)
		}
		return *q.Index, nil
	}

	return 0, nil
}

// DisplayName builds "<title> <line> -> <destination>" from the monitor at
// index. Missing parts are left out.
func DisplayName(doc *domain.MonitorDocument, index int) string {
	monitor, ok := doc.MonitorAt(index)
	if !ok {
		return ""
	}

	name, _ := monitor.Title()
	line, ok := monitor.FirstLine()
	if !ok {
		return name
	}
	if lineName, ok := line.LineName(); ok && lineName != "" {
		name = joinNonEmpty(name, lineName, " ")
	}
	if towards, ok := line.Destination(); ok && towards != "" {
		name = joinNonEmpty(name, towards, " -> ")
	}
	return name
}

func joinNonEmpty(a, b, sep string) string {
	if a == "" {
		return b
	}
	return a + sep + b
}
