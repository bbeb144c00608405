package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/wienermonitor/internal/adapters/http"
	natsadapter "github.com/samirrijal/wienermonitor/internal/adapters/nats"
	"github.com/samirrijal/wienermonitor/internal/adapters/valkey"
	"github.com/samirrijal/wienermonitor/internal/adapters/wienerlinien"
	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/ports"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
	"github.com/samirrijal/wienermonitor/internal/pkg/config"
	"github.com/samirrijal/wienermonitor/internal/pkg/logging"
	"github.com/samirrijal/wienermonitor/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("wienermonitor")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var stateCache ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		stateCache = cache
	}

	// NATS
	var publisher ports.StatePublisher
	var feed http.StateFeed
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		if sub, err := natsadapter.NewSubscriber(pub.Conn()); err != nil {
			slog.Warn("nats state feed unavailable", "error", err)
		} else {
			feed = sub
		}
	}

	client := wienerlinien.NewClient(cfg.WienerLinien)
	resolver := usecases.NewMonitorResolver(usecases.NewRegistry())

	sensors, err := setupSensors(ctx, client, resolver, cfg.Queries())
	if errors.Is(err, context.Canceled) {
		slog.Info("shutdown during setup")
		return
	}
	if err != nil {
		log.Fatalf("setup sensors: %v", err)
	}

	interval := cfg.WienerLinien.ScanIntervalDuration()
	svc := usecases.NewSensorService(sensors, publisher, stateCache, 2*cfg.WienerLinien.ScanInterval)

	pollDone := make(chan struct{})
	go func() {
		usecases.NewPoller(svc, interval).Run(ctx)
		close(pollDone)
	}()

	deps := &http.Dependencies{
		Sensors:     svc,
		Feed:        feed,
		StateMaxAge: cfg.WienerLinien.ScanInterval,
	}
	if pub != nil {
		deps.NATS = pub.Conn()
	}
	if cache != nil {
		deps.Cache = cache
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "Wiener Linien Monitor",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining connections...")

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	<-pollDone

	slog.Info("server stopped")
}

// setupSensors runs platform setup until it succeeds. A not-ready platform is
// retried with exponential backoff; anything else is fatal. Cancelling ctx
// stops the retries with context.Canceled.
func setupSensors(ctx context.Context, client ports.MonitorClient, resolver *usecases.MonitorResolver, queries []domain.StopQuery) ([]*usecases.Sensor, error) {
	var sensors []*usecases.Sensor

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Second
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0

	op := func() error {
		var err error
		sensors, err = usecases.SetupPlatform(ctx, client, resolver, queries)
		if err != nil && !errors.Is(err, domain.ErrPlatformNotReady) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		slog.Warn("platform not ready, retrying", "error", err, "retry_in", next.String())
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	slog.Info("sensors set up", "count", len(sensors), "configured", len(queries))
	return sensors, nil
}

