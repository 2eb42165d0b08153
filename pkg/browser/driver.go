package browser

import (
	"fmt"
	"time"
)

// Driver binds an Executor to one worker's session and retry policy, giving
// page objects a surface that never deals with synchronization. It is a
// thin convenience layer; the contract lives in Executor and Poller.
type Driver struct {
	exec    *Executor
	session *Session
	policy  RetryPolicy

	// NavigationTimeout bounds the page-ready wait after Navigate
	NavigationTimeout time.Duration
}

// NewDriver creates a driver for the given session.
func NewDriver(exec *Executor, session *Session, policy RetryPolicy) *Driver {
	return &Driver{
		exec:              exec,
		session:           session,
		policy:            policy,
		NavigationTimeout: DefaultTimeout,
	}
}

// Session returns the bound session.
func (d *Driver) Session() *Session {
	return d.session
}

// Navigate loads url and waits for the document to report load-complete
// before any element condition is evaluated against the new page.
func (d *Driver) Navigate(url string) error {
	page, err := d.session.Page()
	if err != nil {
		return newFailure(FailureSessionUnavailable, err)
	}
	if err := page.Navigate(url); err != nil {
		return newFailure(fatalKind(err), err)
	}

	out := d.exec.Poller.Wait(d.session, PageReady(), d.NavigationTimeout)
	switch out.State {
	case TimedOut:
		return newFailure(FailureElementTimeout, fmt.Errorf("page %s never finished loading: %w", url, out.Err))
	case Fatal:
		return newFailure(fatalKind(out.Err), out.Err)
	}
	return nil
}

// Perform runs one action through the bound session and policy.
func (d *Driver) Perform(selector string, kind ActionKind, payload string) ActionOutcome {
	return d.exec.Perform(d.session, selector, kind, payload, d.policy)
}

// WaitHidden waits for the element matching selector to be gone or
// invisible, e.g. a loading indicator.
func (d *Driver) WaitHidden(selector string, timeout time.Duration) error {
	out := d.exec.Poller.Wait(d.session, Hidden(selector), timeout)
	switch out.State {
	case TimedOut:
		return newFailure(FailureElementTimeout, fmt.Errorf("element %s never disappeared: %w", selector, out.Err))
	case Fatal:
		return newFailure(fatalKind(out.Err), out.Err)
	}
	return nil
}

// WaitVisible waits for the element matching selector to be rendered.
func (d *Driver) WaitVisible(selector string, timeout time.Duration) error {
	out := d.exec.Poller.Wait(d.session, Visible(selector), timeout)
	switch out.State {
	case TimedOut:
		return newFailure(FailureElementTimeout, fmt.Errorf("element %s never became visible: %w", selector, out.Err))
	case Fatal:
		return newFailure(fatalKind(out.Err), out.Err)
	}
	return nil
}
