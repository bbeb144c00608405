package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/wienermonitor/internal/adapters/valkey"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
)

// StateFeed streams published sensor states for the WebSocket relay.
type StateFeed interface {
	Follow(filter string, handler func(data []byte)) (func(), error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sensors *usecases.SensorService
	Feed    StateFeed
	NATS    *nats.Conn
	Cache   *valkey.Cache

	// StateMaxAge is the Cache-Control max-age for sensor responses.
	StateMaxAge int
	// DocsPath is the OpenAPI document served at /docs/openapi.yaml.
	DocsPath string
}
