package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerName       = "github.com/samirrijal/wienermonitor"
	SpanFetchMonitor = "wienerlinien.fetch_monitor"
	AttrStopID       = "stop.id"
	AttrMonitorCount = "monitor.count"
)
