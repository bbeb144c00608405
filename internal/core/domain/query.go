package domain

import (
	"fmt"
	"strings"
)

// Mode selects which upcoming departure a sensor follows.
type Mode string

const (
	ModeFirst Mode = "first"
	ModeNext  Mode = "next"
)

// ParseMode accepts "first" or "next" in any case. Empty input means first.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFirst:
		return ModeFirst, nil
	case ModeNext:
		return ModeNext, nil
	default:
		return "", fmt.Errorf("unknown departure mode %q (want first or next)", s)
	}
}

// DepartureIndex is the slot in a line's departure list for this mode.
func (m Mode) DepartureIndex() int {
	if m == ModeNext {
		return 1
	}
	return 0
}

// StopQuery identifies what a sensor monitors. It is built once from
// configuration and never changes.
type StopQuery struct {
	StopID int
	LineID *int // match monitors by line; re-resolved on every poll
	Index  *int // trusted fixed position in the monitor list
	Mode   Mode
	Name   string // optional custom sensor name
}

// Rescan reports whether the monitor index must be looked up again on each
// poll because the API may reorder its monitors.
func (q StopQuery) Rescan() bool {
	return q.LineID != nil
}

// UniqueID is the stable identifier exposed to the host platform.
func (q StopQuery) UniqueID() string {
	switch {
	case q.LineID != nil:
		return fmt.Sprintf("wienerlinien_%d_%d_%s", q.StopID, *q.LineID, q.Mode)
	case q.Index != nil && *q.Index > 0:
		return fmt.Sprintf("wienerlinien_%d_i%d_%s", q.StopID, *q.Index, q.Mode)
	default:
		return fmt.Sprintf("wienerlinien_%d_%s", q.StopID, q.Mode)
	}
}

// ResolvedMonitor points at one entry of a document's monitor list. The index
// is only valid for the document it was resolved against.
type ResolvedMonitor struct {
	Index       int    `json:"index"`
	DisplayName string `json:"display_name"`
}

// MonitorIdentity is the deduplication key of the monitor registry.
type MonitorIdentity struct {
	DisplayName string
	Mode        Mode
}
