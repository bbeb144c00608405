package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Poller refreshes every sensor on a fixed interval. Each sensor runs in its
// own loop, so polls of one sensor never overlap while a slow stop cannot
// delay the others.
type Poller struct {
	sensors  *SensorService
	interval time.Duration
}

// NewPoller creates a Poller.
func NewPoller(sensors *SensorService, interval time.Duration) *Poller {
	return &Poller{sensors: sensors, interval: interval}
}

// Run updates every sensor once right away and then on each tick until ctx
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	slog.Info("polling sensors", "count", len(p.sensors.Sensors()), "interval", p.interval.String())

	var wg sync.WaitGroup
	for _, sensor := range p.sensors.Sensors() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			p.loop(ctx, id)
		}(sensor.UniqueID())
	}
	wg.Wait()
}

func (p *Poller) loop(ctx context.Context, uniqueID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.sensors.Refresh(ctx, uniqueID); err != nil {
			slog.Error("refresh sensor", "unique_id", uniqueID, "error", err)
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
