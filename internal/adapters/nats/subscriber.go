package natsadapter

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subscriber replays and follows sensor states from the state stream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewSubscriber creates a subscriber on an existing connection.
func NewSubscriber(conn *nats.Conn) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// Follow delivers the last stored state of every subject matching filter,
// then every new one. The returned func stops the subscription.
func (s *Subscriber) Follow(filter string, handler func(data []byte)) (func(), error) {
	sub, err := s.js.Subscribe(filter, func(msg *nats.Msg) {
		handler(msg.Data)
	},
		nats.BindStream(StateStream),
		nats.OrderedConsumer(),
		nats.DeliverLastPerSubject(),
	)
	if err != nil {
		return nil, fmt.Errorf("follow %s: %w", filter, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
