package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
)

func TestSetupPlatform(t *testing.T) {
	client := staticClient(kagran())
	registry := usecases.NewRegistry()

	queries := []domain.StopQuery{
		{StopID: 4640, Mode: domain.ModeFirst},
		{StopID: 4640, LineID: ptr(126), Mode: domain.ModeFirst},
		{StopID: 4640, LineID: ptr(126), Mode: domain.ModeNext},
	}
	sensors, err := usecases.SetupPlatform(context.Background(), client, usecases.NewMonitorResolver(registry), queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sensors) != 3 {
		t.Fatalf("expected 3 sensors, got %d", len(sensors))
	}
	if client.callsFor(4640) != 1 {
		t.Errorf("expected one fetch per stop, got %d", client.callsFor(4640))
	}
	if sensors[1].Name() != "Kagran 26 -> Strebersdorf first departure" {
		t.Errorf("unexpected name %q", sensors[1].Name())
	}
	if registry.Len() != 3 {
		t.Errorf("expected 3 identities, got %d", registry.Len())
	}
}

func TestSetupPlatform_SkipsDuplicates(t *testing.T) {
	client := staticClient(kagran())
	queries := []domain.StopQuery{
		{StopID: 4640, Mode: domain.ModeFirst},
		{StopID: 4640, Index: ptr(0), Mode: domain.ModeFirst},
		{StopID: 4640, Index: ptr(2), Mode: domain.ModeFirst},
	}

	sensors, err := usecases.SetupPlatform(context.Background(), client, usecases.NewMonitorResolver(usecases.NewRegistry()), queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sensors) != 2 {
		t.Fatalf("expected duplicate to be skipped, got %d sensors", len(sensors))
	}
	if sensors[1].UniqueID() != "wienerlinien_4640_i2_first" {
		t.Errorf("unexpected unique id %q", sensors[1].UniqueID())
	}
}

func TestSetupPlatform_NotReady(t *testing.T) {
	tests := []struct {
		name   string
		client *mockMonitorClient
		query  domain.StopQuery
		cause  error
	}{
		{
			name: "fetch failure",
			client: &mockMonitorClient{fetchFn: func(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
				return nil, fmt.Errorf("%w: timeout", domain.ErrFetch)
			}},
			query: domain.StopQuery{StopID: 4640, Mode: domain.ModeFirst},
			cause: domain.ErrFetch,
		},
		{
			name:   "no monitors",
			client: staticClient(doc()),
			query:  domain.StopQuery{StopID: 4640, Mode: domain.ModeFirst},
			cause:  domain.ErrNoMonitors,
		},
		{
			name:   "index out of range",
			client: staticClient(kagran()),
			query:  domain.StopQuery{StopID: 4640, Index: ptr(5), Mode: domain.ModeFirst},
			cause:  domain.ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecases.SetupPlatform(context.Background(), tt.client, usecases.NewMonitorResolver(usecases.NewRegistry()), []domain.StopQuery{tt.query})
			if !errors.Is(err, domain.ErrPlatformNotReady) {
				t.Fatalf("expected ErrPlatformNotReady, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestSetupPlatform_RetryAfterNotReady(t *testing.T) {
	down := true
	client := &mockMonitorClient{
		fetchFn: func(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
			if down && stopID == 252 {
				return nil, domain.ErrFetch
			}
			return kagran(), nil
		},
	}
	registry := usecases.NewRegistry()
	resolver := usecases.NewMonitorResolver(registry)
	queries := []domain.StopQuery{
		{StopID: 4640, Mode: domain.ModeFirst},
		{StopID: 252, Index: ptr(1), Mode: domain.ModeFirst},
	}

	if _, err := usecases.SetupPlatform(context.Background(), client, resolver, queries); !errors.Is(err, domain.ErrPlatformNotReady) {
		t.Fatalf("expected ErrPlatformNotReady, got %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("failed setup left %d identities behind", registry.Len())
	}

	down = false
	sensors, err := usecases.SetupPlatform(context.Background(), client, resolver, queries)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if len(sensors) != 2 {
		t.Errorf("expected 2 sensors on retry, got %d", len(sensors))
	}
}
