// Package registry maps stable task IDs to their currently outstanding
// wheel handle, so that re-submitting a task under the same ID cancels
// whatever was previously scheduled for it instead of leaving two copies
// racing to fire.
package registry

import (
	"sync"

	"github.com/hzerrad/chronowheel/internal/wheel"
)

// Registry tracks the live wheel.Handle for each task ID.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*wheel.Handle
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handles: make(map[string]*wheel.Handle)}
}

// Put installs h as the current handle for id, cancelling whatever handle
// was previously registered under the same id. The displaced handle's
// Cancel return value is discarded: it may already have fired, in which
// case cancellation is simply a no-op.
func (r *Registry) Put(id string, h *wheel.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.handles[id]; ok {
		old.Cancel()
	}
	r.handles[id] = h
}

// Get returns the handle currently registered under id, if any.
func (r *Registry) Get(id string) (*wheel.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[id]
	return h, ok
}

// Remove cancels and forgets the handle registered under id. It mirrors the
// get-then-cancel contract: an id with no registered handle is treated as
// already cancelled and returns true (idempotent, no-op), matching
// Handle.Cancel's own idempotence once the handle has been forgotten here.
// It returns false only when the handle was found but had already fired.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[id]
	if !ok {
		return true
	}
	delete(r.handles, id)
	return h.Cancel()
}

// Len reports how many task IDs are currently tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Range calls fn for every id/handle pair currently tracked. fn must not
// call back into the Registry: Range holds the lock for its duration.
func (r *Registry) Range(fn func(id string, h *wheel.Handle)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.handles {
		fn(id, h)
	}
}

// Forget removes id from the registry without cancelling its handle, so a
// later Put for the same id does not try to cancel an already-expired
// handle. The dispatch package does not call it.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}
