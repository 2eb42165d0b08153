package browser

import (
	"fmt"
	"sync"
	"time"
)

// Session is one live browser connection, exclusively owned by the worker
// that acquired it. The only operations that are safe to call from another
// goroutine are State and Close; suite teardown uses that to force-close a
// session mid-wait, after which any in-flight poll observes
// ErrSessionUnavailable instead of hanging.
type Session struct {
	// WorkerID is the logical worker that owns this session
	WorkerID string

	// Kind is the browser engine the session runs on
	Kind Kind

	// Headless reports whether the browser runs without a window
	Headless bool

	// CreatedAt is when the session was launched
	CreatedAt time.Time

	page    Page
	closeFn func() error

	mu    sync.Mutex
	state State
}

func newSession(workerID string, kind Kind, opts LaunchOptions, page Page, closeFn func() error) *Session {
	return &Session{
		WorkerID:  workerID,
		Kind:      kind,
		Headless:  opts.Headless,
		CreatedAt: time.Now(),
		page:      page,
		closeFn:   closeFn,
		state:     StateInitializing,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Page returns the live page surface, or ErrSessionUnavailable once the
// session has started closing. The poll loop calls this on every iteration
// so a concurrent Close is observed promptly.
func (s *Session) Page() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, fmt.Errorf("%w: session for worker %q is %s", ErrSessionUnavailable, s.WorkerID, s.state)
	}
	return s.page, nil
}

// markReady transitions Initializing -> Ready.
func (s *Session) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInitializing {
		s.state = StateReady
	}
}

// Close transitions the session to Closed and releases native resources.
// Idempotent; closing an already-closed session is a no-op. Safe to call
// concurrently with in-flight operations on the same session.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosing || s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosing
	closeFn := s.closeFn
	s.mu.Unlock()

	var err error
	if closeFn != nil {
		err = closeFn()
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to close session for worker %q: %w", s.WorkerID, err)
	}
	return nil
}
