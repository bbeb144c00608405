package ports

import (
	"context"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// MonitorClient fetches the realtime monitor document for a stop.
// Implementations must be safe for concurrent use.
type MonitorClient interface {
	FetchMonitors(ctx context.Context, stopID int) (*domain.MonitorDocument, error)
}

// StatePublisher pushes sensor states to a message broker.
type StatePublisher interface {
	PublishState(ctx context.Context, state *domain.SensorState) error
}

// CacheService stores values that expire after ttlSeconds.
type CacheService interface {
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
