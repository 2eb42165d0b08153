package report

import "time"

// EventKind identifies the type of a trace event.
type EventKind string

const (
	// EventWaitStarted is emitted when a poll loop begins waiting on a condition
	EventWaitStarted EventKind = "wait_started"

	// EventWaitSatisfied is emitted when a condition is satisfied
	EventWaitSatisfied EventKind = "wait_satisfied"

	// EventWaitTimedOut is emitted when a condition never became true within budget
	EventWaitTimedOut EventKind = "wait_timed_out"

	// EventActionAttempt is emitted before each action attempt
	EventActionAttempt EventKind = "action_attempt"

	// EventActionRetry is emitted when a transient failure triggers another attempt
	EventActionRetry EventKind = "action_retry"

	// EventActionFallback is emitted when a click falls back to a dispatched event
	EventActionFallback EventKind = "action_fallback"

	// EventFailure is emitted when an operation surfaces a classified failure
	EventFailure EventKind = "failure"

	// EventScreenshot is emitted after a screenshot capture request completes
	EventScreenshot EventKind = "screenshot"
)

// Event is a single structured trace record. Events are a pure diagnostic
// output; nothing in the engine reads them back.
type Event struct {
	Time        time.Time `json:"time"`
	Kind        EventKind `json:"kind"`
	Worker      string    `json:"worker,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Selector    string    `json:"selector,omitempty"`
	Action      string    `json:"action,omitempty"`
	Attempt     int       `json:"attempt,omitempty"`
	MaxAttempts int       `json:"max_attempts,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// Sink receives trace events and screenshot requests. Implementations must
// never return errors to callers: a broken reporter cannot be allowed to
// change the outcome of the run it is reporting on.
type Sink interface {
	// Emit records a single event.
	Emit(event Event)

	// Screenshot asks the sink to pick a destination for a capture titled
	// title and invoke capture with it. Capture failures are swallowed.
	Screenshot(title string, capture func(path string) error)
}

// NopSink discards everything. Useful as a default when no reporting is wired.
type NopSink struct{}

func (NopSink) Emit(Event)                                 {}
func (NopSink) Screenshot(string, func(path string) error) {}

// MultiSink fans events out to several sinks.
type MultiSink []Sink

func (m MultiSink) Emit(event Event) {
	for _, s := range m {
		s.Emit(event)
	}
}

func (m MultiSink) Screenshot(title string, capture func(path string) error) {
	for _, s := range m {
		s.Screenshot(title, capture)
	}
}
