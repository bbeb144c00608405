package domain

import "errors"

var (
	// ErrFetch covers timeouts, transport failures, bad status codes and
	// undecodable bodies alike.
	ErrFetch = errors.New("fetch failed")

	ErrNoMonitors       = errors.New("no monitors in document")
	ErrIndexOutOfRange  = errors.New("monitor index out of range")
	ErrDuplicateMonitor = errors.New("monitor already registered")

	// ErrPlatformNotReady tells the host to retry platform setup later.
	ErrPlatformNotReady = errors.New("platform not ready")
)
