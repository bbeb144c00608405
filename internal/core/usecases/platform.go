package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/ports"
	"github.com/samirrijal/wienermonitor/internal/pkg/metrics"
)

// SetupPlatform builds one sensor per configured query. Each distinct stop is
// fetched once. If any stop cannot be fetched or resolved the whole pass fails
// with ErrPlatformNotReady before a single identity is registered, so the host
// can retry later with a clean registry. Queries resolving to an already known
// monitor are skipped with a warning.
func SetupPlatform(ctx context.Context, client ports.MonitorClient, resolver *MonitorResolver, queries []domain.StopQuery) ([]*Sensor, error) {
	docs := make(map[int]*domain.MonitorDocument)
	for _, q := range queries {
		if _, ok := docs[q.StopID]; ok {
			continue
		}
		doc, err := client.FetchMonitors(ctx, q.StopID)
		if err != nil {
			return nil, fmt.Errorf("%w: stop %d: %w", domain.ErrPlatformNotReady, q.StopID, err)
		}
		docs[q.StopID] = doc
	}

	for _, q := range queries {
		if _, err := Locate(docs[q.StopID], q); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPlatformNotReady, err)
		}
	}

	var sensors []*Sensor
	for _, q := range queries {
		resolved, err := resolver.Resolve(docs[q.StopID], q)
		if errors.Is(err, domain.ErrDuplicateMonitor) {
			metrics.DuplicateMonitors.Inc()
			slog.Warn("skipping duplicate monitor", "stop_id", q.StopID, "unique_id", q.UniqueID(), "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPlatformNotReady, err)
		}

		slog.Info("monitor resolved",
			"stop_id", q.StopID,
			"index", resolved.Index,
			"display_name", resolved.DisplayName,
			"mode", q.Mode,
		)
		sensors = append(sensors, NewSensor(client, q, *resolved))
	}

	return sensors, nil
}
