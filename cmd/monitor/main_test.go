package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
)

type fetchFunc func(ctx context.Context, stopID int) (*domain.MonitorDocument, error)

func (f fetchFunc) FetchMonitors(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
	return f(ctx, stopID)
}

func TestSetupSensors_CanceledWhileRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	client := fetchFunc(func(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
		attempts++
		cancel()
		return nil, fmt.Errorf("%w: stop %d: HTTP 503", domain.ErrFetch, stopID)
	})

	queries := []domain.StopQuery{{StopID: 4640, Mode: domain.ModeFirst}}
	_, err := setupSensors(ctx, client, usecases.NewMonitorResolver(usecases.NewRegistry()), queries)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}
