package wienerlinien

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/pkg/config"
	"github.com/samirrijal/wienermonitor/internal/pkg/telemetry"
)

const userAgent = "wienermonitor/1.0 (+https://github.com/samirrijal/wienermonitor)"

// maxBody caps the response size; a busy interchange is well under 1 MiB.
const maxBody = 4 << 20

// Client implements ports.MonitorClient against the OGD realtime monitor
// endpoint. It is safe for concurrent use.
type Client struct {
	endpoint   string
	stopParam  string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a client from the wienerlinien config section.
func NewClient(cfg config.WienerLinienConfig) *Client {
	timeout := cfg.TimeoutDuration()
	stopParam := cfg.StopParam
	if stopParam == "" {
		stopParam = "stopid"
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		stopParam:  stopParam,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer(telemetry.TracerName),
	}
}

// URL builds the monitor request URL for a stop.
func (c *Client) URL(stopID int) string {
	q := url.Values{}
	q.Set(c.stopParam, strconv.Itoa(stopID))
	if c.apiKey != "" {
		q.Set("sender", c.apiKey)
	}
	return c.endpoint + "?" + q.Encode()
}

// FetchMonitors retrieves and decodes the monitor document for one stop.
// Every failure wraps domain.ErrFetch.
func (c *Client) FetchMonitors(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanFetchMonitor,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int(telemetry.AttrStopID, stopID)),
	)
	defer span.End()

	doc, err := c.fetch(ctx, stopID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(telemetry.AttrMonitorCount, len(doc.Monitors())))
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, stopID int) (*domain.MonitorDocument, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(stopID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: stop %d: %w", domain.ErrFetch, stopID, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: stop %d: %w", domain.ErrFetch, stopID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: stop %d: HTTP %d", domain.ErrFetch, stopID, resp.StatusCode)
	}

	var doc domain.MonitorDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: stop %d: decode: %w", domain.ErrFetch, stopID, err)
	}
	return &doc, nil
}
