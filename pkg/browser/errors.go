package browser

import (
	"errors"
	"fmt"
)

// Sentinel errors every transport error is mapped onto. Callers match with
// errors.Is and never see engine-native error types.
var (
	// ErrNoSuchElement means the selector currently matches nothing.
	ErrNoSuchElement = errors.New("no element matches selector")

	// ErrStaleElement means an element handle is detached from the DOM,
	// typically because the page re-rendered.
	ErrStaleElement = errors.New("element is stale or detached")

	// ErrNotVisible means the element exists but has no rendered box.
	ErrNotVisible = errors.New("element is not visible")

	// ErrNotInteractable means the element is visible but cannot receive
	// the interaction, e.g. disabled or covered by another element.
	ErrNotInteractable = errors.New("element is not interactable")

	// ErrStillVisible means an element expected to disappear is still shown.
	ErrStillVisible = errors.New("element is still visible")

	// ErrPageLoading means the document has not finished loading.
	ErrPageLoading = errors.New("page is still loading")

	// ErrInvalidSelector means the selector string itself is malformed.
	ErrInvalidSelector = errors.New("invalid selector syntax")

	// ErrSessionUnavailable means the session is dead, closed, or closing.
	ErrSessionUnavailable = errors.New("session is unavailable")
)

// Class separates errors that are expected to resolve themselves shortly
// from errors that waiting cannot fix.
type Class int

const (
	ClassTransient Class = iota
	ClassFatal
)

func (c Class) String() string {
	if c == ClassTransient {
		return "transient"
	}
	return "fatal"
}

// Classify maps an error to its retry class. Only the enumerated
// expected-during-polling sentinels are transient; anything unrecognized is
// fatal so unknown failure modes surface immediately instead of burning a
// full timeout.
func Classify(err error) Class {
	switch {
	case errors.Is(err, ErrNoSuchElement),
		errors.Is(err, ErrStaleElement),
		errors.Is(err, ErrNotVisible),
		errors.Is(err, ErrNotInteractable),
		errors.Is(err, ErrStillVisible),
		errors.Is(err, ErrPageLoading):
		return ClassTransient
	default:
		return ClassFatal
	}
}

// FailureKind is the closed set of failure categories surfaced to callers.
type FailureKind string

const (
	// FailureSessionStart: browser engine unavailable or failed to launch.
	FailureSessionStart FailureKind = "session_start"

	// FailureElementTimeout: readiness condition never satisfied in budget.
	FailureElementTimeout FailureKind = "element_timeout"

	// FailureActionTransient: transient action errors exhausted the retry
	// policy.
	FailureActionTransient FailureKind = "action_transient"

	// FailureActionFatal: action-level error outside the transient set.
	FailureActionFatal FailureKind = "action_fatal"

	// FailureSessionUnavailable: session died during an in-flight operation.
	FailureSessionUnavailable FailureKind = "session_unavailable"
)

// Failure is a classified error with its cause chain preserved.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// FailureKindOf extracts the failure kind from an error chain. ok is false
// when the error does not carry one.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
