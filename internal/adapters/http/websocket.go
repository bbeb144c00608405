package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	natsadapter "github.com/samirrijal/wienermonitor/internal/adapters/nats"
	"github.com/samirrijal/wienermonitor/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to sensor states.
type wsMessage struct {
	Action string `json:"action"`  // "subscribe" | "unsubscribe"
	StopID int    `json:"stop_id"` // stop filter (optional, 0 = all)
}

// WebSocketHandler upgrades to WebSocket and relays sensor states. Every
// subscription first replays the latest state of each matching sensor.
// Clients send JSON: {"action":"subscribe","stop_id":4640}
// A client that sends nothing receives all stops.
func WebSocketHandler(feed StateFeed) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]func()) // subject filter -> stop

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		follow := func(filter string) error {
			stop, err := feed.Follow(filter, func(data []byte) {
				_ = writeJSON(json.RawMessage(data))
			})
			if err != nil {
				return err
			}
			subs[filter] = stop
			return nil
		}

		if feed == nil {
			_ = writeJSON(map[string]string{"error": "state feed not available"})
			return
		}

		allStops := natsadapter.StateFilter(0)
		if err := follow(allStops); err != nil {
			slog.Error("ws default subscribe", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if m.StopID < 0 {
				_ = writeJSON(map[string]string{"error": "stop_id must not be negative"})
				continue
			}
			subject := natsadapter.StateFilter(m.StopID)

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				// A stop filter replaces the catch-all default.
				if subject != allStops {
					if stop, ok := subs[allStops]; ok {
						stop()
						delete(subs, allStops)
					}
				}
				if err := follow(subject); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if stop, exists := subs[subject]; exists {
					stop()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, stop := range subs {
			stop()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
