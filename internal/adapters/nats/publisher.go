package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

const (
	// StateStream keeps the latest state per sensor subject.
	StateStream = "SENSOR_STATES"

	stateSubjectPrefix = "wienerlinien.state."
)

// StateSubject is the subject a sensor's state is published on.
func StateSubject(stopID int, uniqueID string) string {
	return stateSubjectPrefix + strconv.Itoa(stopID) + "." + uniqueID
}

// StateFilter returns the wildcard subject for one stop, or all stops when
// stopID is zero.
func StateFilter(stopID int) string {
	if stopID == 0 {
		return stateSubjectPrefix + ">"
	}
	return stateSubjectPrefix + strconv.Itoa(stopID) + ".*"
}

// Publisher implements ports.StatePublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the state stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:              StateStream,
		Subjects:          []string{stateSubjectPrefix + ">"},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		MaxAge:            24 * time.Hour,
		Storage:           nats.MemoryStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishState publishes the sensor state, replacing the previous one.
func (p *Publisher) PublishState(ctx context.Context, state *domain.SensorState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(StateSubject(state.StopID, state.UniqueID), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("wienermonitor"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
