package browser

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/entrhq/flowcheck/pkg/report"
)

// ActionKind names a single logical UI action.
type ActionKind string

const (
	// ActionClick clicks the element
	ActionClick ActionKind = "click"

	// ActionType fills the element with the payload text
	ActionType ActionKind = "type"

	// ActionRead returns the element's text content
	ActionRead ActionKind = "read"

	// ActionReadAttribute returns the attribute named by the payload
	ActionReadAttribute ActionKind = "read_attribute"

	// ActionToggle sets a checkbox; payload "true"/"false", default true
	ActionToggle ActionKind = "toggle"
)

// RetryPolicy bounds how an action is retried over transient failures.
// Policies are immutable values and freely copied.
type RetryPolicy struct {
	// MaxAttempts includes the first try; values below 1 are treated as 1
	MaxAttempts int

	// Delay between attempts
	Delay time.Duration

	// Classify overrides the package-level classification; nil uses Classify
	Classify func(error) Class
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) classify(err error) Class {
	if p.Classify != nil {
		return p.Classify(err)
	}
	return Classify(err)
}

// ActionOutcome is the result of a Perform call.
type ActionOutcome struct {
	// Value is the read result for read actions, empty otherwise
	Value string

	// Attempts is how many times the action was tried, first try included
	Attempts int

	// Err is nil on success, otherwise a *Failure
	Err error
}

// OK reports whether the action succeeded.
func (o ActionOutcome) OK() bool {
	return o.Err == nil
}

// Executor performs single UI actions with built-in readiness waiting and
// bounded retry, so page-object code never handles synchronization itself.
type Executor struct {
	// Poller drives the readiness waits
	Poller *Poller

	// Timeout is the readiness budget for each attempt
	Timeout time.Duration

	// Sink receives attempt/retry/failure events; nil discards them
	Sink report.Sink

	// sleep is a seam for tests
	sleep func(time.Duration)
}

// NewExecutor creates an executor on top of the given poller.
func NewExecutor(poller *Poller, timeout time.Duration, sink report.Sink) *Executor {
	return &Executor{Poller: poller, Timeout: timeout, Sink: sink}
}

// Perform executes one logical action against the element matching
// selector, waiting for the readiness condition appropriate to the action
// kind first.
//
// A transient failure between wait success and action execution (the
// element went stale or became non-interactable, a race inherent to live
// UIs) triggers another attempt from the top: the selector is re-resolved
// fresh, never a stale handle reused. Attempts stop at the policy bound.
// A standard click that fails as not-interactable after a successful
// clickability wait gets exactly one fallback through the event-dispatch
// path; the fallback does not consume retry budget.
func (e *Executor) Perform(session *Session, selector string, kind ActionKind, payload string, policy RetryPolicy) ActionOutcome {
	sleep := e.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	maxAttempts := policy.attempts()
	attempts := 0
	fellBack := false

	for {
		attempts++
		e.emit(report.Event{
			Kind:        report.EventActionAttempt,
			Worker:      session.WorkerID,
			Selector:    selector,
			Action:      string(kind),
			Attempt:     attempts,
			MaxAttempts: maxAttempts,
			Detail:      attemptDetail(kind, payload),
		})

		out := e.Poller.Wait(session, readiness(kind, selector), e.Timeout)
		switch out.State {
		case TimedOut:
			return e.fail(session, selector, kind, attempts, newFailure(FailureElementTimeout,
				fmt.Errorf("element %s never became ready for %s: %w", selector, kind, out.Err)))
		case Fatal:
			return e.fail(session, selector, kind, attempts, newFailure(fatalKind(out.Err), out.Err))
		}

		value, err := apply(out.Element, kind, payload)
		if err == nil {
			return ActionOutcome{Value: value, Attempts: attempts}
		}

		// One-shot escape for clicks intercepted by an overlapping element
		// even though the clickability wait passed.
		if kind == ActionClick && !fellBack && errors.Is(err, ErrNotInteractable) {
			fellBack = true
			e.emit(report.Event{
				Kind:     report.EventActionFallback,
				Worker:   session.WorkerID,
				Selector: selector,
				Action:   string(kind),
				Detail:   err.Error(),
			})
			if page, pageErr := session.Page(); pageErr == nil {
				if dispatchErr := page.DispatchClick(selector); dispatchErr == nil {
					return ActionOutcome{Attempts: attempts}
				} else {
					err = dispatchErr
				}
			}
		}

		if policy.classify(err) == ClassFatal {
			return e.fail(session, selector, kind, attempts, newFailure(fatalKind(err), err))
		}

		if attempts >= maxAttempts {
			return e.fail(session, selector, kind, attempts, newFailure(FailureActionTransient,
				fmt.Errorf("%s on %s failed after %d attempts: %w", kind, selector, attempts, err)))
		}

		e.emit(report.Event{
			Kind:        report.EventActionRetry,
			Worker:      session.WorkerID,
			Selector:    selector,
			Action:      string(kind),
			Attempt:     attempts,
			MaxAttempts: maxAttempts,
			Detail:      err.Error(),
		})
		sleep(policy.Delay)
	}
}

// readiness picks the wait condition appropriate to the action kind:
// clicks and toggles need clickability, everything else visibility.
func readiness(kind ActionKind, selector string) Condition {
	switch kind {
	case ActionClick, ActionToggle:
		return Clickable(selector)
	default:
		return Visible(selector)
	}
}

// apply executes the action against a freshly resolved element.
func apply(el Element, kind ActionKind, payload string) (string, error) {
	switch kind {
	case ActionClick:
		return "", el.Click()
	case ActionType:
		return "", el.Fill(payload)
	case ActionRead:
		return el.Text()
	case ActionReadAttribute:
		return el.Attribute(payload)
	case ActionToggle:
		checked := true
		if payload != "" {
			parsed, err := strconv.ParseBool(payload)
			if err != nil {
				return "", fmt.Errorf("invalid toggle payload %q: %w", payload, err)
			}
			checked = parsed
		}
		return "", el.SetChecked(checked)
	default:
		return "", fmt.Errorf("unknown action kind %q", kind)
	}
}

// fatalKind distinguishes a dead session from other fatal action errors.
func fatalKind(err error) FailureKind {
	if errors.Is(err, ErrSessionUnavailable) {
		return FailureSessionUnavailable
	}
	return FailureActionFatal
}

func (e *Executor) fail(session *Session, selector string, kind ActionKind, attempts int, failure *Failure) ActionOutcome {
	e.emit(report.Event{
		Kind:     report.EventFailure,
		Worker:   session.WorkerID,
		Selector: selector,
		Action:   string(kind),
		Attempt:  attempts,
		Detail:   failure.Error(),
	})

	// Best-effort screenshot for postmortem diagnosis; capture failures
	// must not mask the original failure.
	if e.Sink != nil {
		if page, err := session.Page(); err == nil {
			title := fmt.Sprintf("%s-%s-%s", session.WorkerID, kind, selector)
			e.Sink.Screenshot(title, page.Screenshot)
		}
	}

	return ActionOutcome{Attempts: attempts, Err: failure}
}

// attemptDetail exposes the typed payload in trace events so reporters can
// redact sensitive fields by selector pattern.
func attemptDetail(kind ActionKind, payload string) string {
	if kind == ActionType {
		return payload
	}
	return ""
}

func (e *Executor) emit(event report.Event) {
	if e.Sink == nil {
		return
	}
	event.Time = time.Now()
	e.Sink.Emit(event)
}
