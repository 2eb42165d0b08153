package browser

import (
	"time"

	"github.com/entrhq/flowcheck/pkg/report"
)

// OutcomeState is the result category of a poll loop.
type OutcomeState int

const (
	Satisfied OutcomeState = iota
	TimedOut
	Fatal
)

func (s OutcomeState) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case TimedOut:
		return "timed_out"
	}
	return "fatal"
}

// WaitOutcome is the result of a single Wait call. It is consumed
// immediately by the caller; the Element handle inside must not outlive
// the action it was resolved for.
type WaitOutcome struct {
	State OutcomeState

	// Element is the matched handle for Satisfied outcomes of element
	// conditions; nil for document-level and negated conditions.
	Element Element

	// Err carries the last observed transient error for TimedOut, or the
	// cause for Fatal.
	Err error

	// Polls is the number of condition evaluations performed.
	Polls int
}

// Poller repeatedly evaluates conditions against a session's live DOM.
// The sleep between polls blocks only the calling worker.
type Poller struct {
	// Interval between evaluations; <= 0 falls back to DefaultPollInterval
	Interval time.Duration

	// Sink receives wait trace events; nil discards them
	Sink report.Sink

	// sleep is a seam for tests
	sleep func(time.Duration)
}

// NewPoller creates a poller with the given interval and sink.
func NewPoller(interval time.Duration, sink report.Sink) *Poller {
	return &Poller{Interval: interval, Sink: sink}
}

// Wait evaluates cond against session until it is satisfied, the timeout
// elapses, or a fatal error occurs.
//
// The success fast-path returns immediately without sleeping, so an
// already-true condition costs one evaluation. Expected-during-polling
// errors (element not yet present, stale, not yet visible) are recorded
// and polled through; anything fatal aborts at once rather than burning
// the remaining budget. A timeout of zero or less performs exactly one
// evaluation with no sleep.
func (p *Poller) Wait(session *Session, cond Condition, timeout time.Duration) WaitOutcome {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	p.emit(report.Event{
		Kind:      report.EventWaitStarted,
		Worker:    session.WorkerID,
		Condition: cond.Name,
		Detail:    timeout.String(),
	})

	deadline := time.Now().Add(timeout)
	var lastErr error
	polls := 0

	for {
		page, err := session.Page()
		if err != nil {
			return p.finish(session, cond, WaitOutcome{State: Fatal, Err: err, Polls: polls})
		}

		el, err := cond.Evaluate(page)
		polls++

		if err == nil {
			p.emit(report.Event{
				Kind:      report.EventWaitSatisfied,
				Worker:    session.WorkerID,
				Condition: cond.Name,
			})
			return WaitOutcome{State: Satisfied, Element: el, Polls: polls}
		}

		if Classify(err) == ClassFatal {
			return p.finish(session, cond, WaitOutcome{State: Fatal, Err: err, Polls: polls})
		}

		lastErr = err
		if timeout <= 0 || !time.Now().Before(deadline) {
			return p.finish(session, cond, WaitOutcome{State: TimedOut, Err: lastErr, Polls: polls})
		}
		sleep(interval)
	}
}

func (p *Poller) finish(session *Session, cond Condition, out WaitOutcome) WaitOutcome {
	kind := report.EventWaitTimedOut
	detail := ""
	if out.Err != nil {
		detail = out.Err.Error()
	}
	if out.State == Fatal {
		kind = report.EventFailure
	}
	p.emit(report.Event{
		Kind:      kind,
		Worker:    session.WorkerID,
		Condition: cond.Name,
		Detail:    detail,
	})
	return out
}

func (p *Poller) emit(event report.Event) {
	if p.Sink == nil {
		return
	}
	event.Time = time.Now()
	p.Sink.Emit(event)
}
