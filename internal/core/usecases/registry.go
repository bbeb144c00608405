package usecases

import (
	"sync"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// Registry is the append-only set of monitor identities that already back a
// sensor. One instance lives for the lifetime of the integration and is shared
// by every setup pass.
type Registry struct {
	mu    sync.Mutex
	items map[domain.MonitorIdentity]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[domain.MonitorIdentity]struct{})}
}

// Register inserts id and reports whether it was new. Check and insert happen
// under one lock.
func (r *Registry) Register(id domain.MonitorIdentity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; exists {
		return false
	}
	r.items[id] = struct{}{}
	return true
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
