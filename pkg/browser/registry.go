package browser

import (
	"errors"
	"fmt"
	"sync"
)

// Launcher starts a live browser and returns the page surface to drive it
// plus a function that releases all native resources.
type Launcher interface {
	Launch(kind Kind, opts LaunchOptions) (Page, func() error, error)
}

// Registry owns session lifecycle, keyed by worker id. It guarantees at
// most one live Session per worker and never serializes unrelated workers:
// the registry-wide lock only guards the map, while session creation and
// teardown hold a per-worker lock.
type Registry struct {
	launcher Launcher

	mu      sync.Mutex
	workers map[string]*workerSlot
}

type workerSlot struct {
	mu      sync.Mutex
	session *Session
}

// NewRegistry creates an empty registry backed by the given launcher.
func NewRegistry(launcher Launcher) *Registry {
	return &Registry{
		launcher: launcher,
		workers:  make(map[string]*workerSlot),
	}
}

// slot returns the worker's slot, creating it if needed. Only this map
// access takes the registry-wide lock.
func (r *Registry) slot(workerID string) *workerSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.workers[workerID]
	if !ok {
		slot = &workerSlot{}
		r.workers[workerID] = slot
	}
	return slot
}

// Acquire returns the worker's live session, creating one on first use.
// A worker that already owns a Ready session gets it back unchanged.
// Launch failures surface as FailureSessionStart and leave no partial
// registration, so a later Acquire starts clean.
func (r *Registry) Acquire(workerID string, kind Kind, opts LaunchOptions) (*Session, error) {
	if !kind.Valid() {
		return nil, newFailure(FailureSessionStart, fmt.Errorf("unsupported browser kind %q", kind))
	}

	slot := r.slot(workerID)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.session != nil && slot.session.State() == StateReady {
		return slot.session, nil
	}

	page, closeFn, err := r.launcher.Launch(kind, opts)
	if err != nil {
		return nil, newFailure(FailureSessionStart, fmt.Errorf("failed to launch %s: %w", kind, err))
	}

	session := newSession(workerID, kind, opts, page, closeFn)
	session.markReady()
	slot.session = session
	return session, nil
}

// Current returns the worker's session without creating one.
func (r *Registry) Current(workerID string) (*Session, bool) {
	r.mu.Lock()
	slot, ok := r.workers[workerID]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.session == nil {
		return nil, false
	}
	return slot.session, true
}

// Release closes the worker's session and removes the registry entry.
// Idempotent: releasing an unknown worker or an already-closed session is
// a no-op. Callers must invoke this on every exit path, typically via
// defer right after Acquire.
func (r *Registry) Release(workerID string) error {
	r.mu.Lock()
	slot, ok := r.workers[workerID]
	if ok {
		delete(r.workers, workerID)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	slot.mu.Lock()
	session := slot.session
	slot.session = nil
	slot.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}

// ReleaseAll releases every still-registered session at suite teardown.
// Individual close failures are collected rather than raised one at a
// time, so one stuck session cannot block cleanup of the rest.
func (r *Registry) ReleaseAll() error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workers))
	for id := range r.workers {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := r.Release(id); err != nil {
			errs = append(errs, fmt.Errorf("worker %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of registered workers.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}
