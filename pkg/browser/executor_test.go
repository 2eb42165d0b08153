package browser

import (
	"fmt"
	"testing"
	"time"

	"github.com/entrhq/flowcheck/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(sink report.Sink) *Executor {
	poller := NewPoller(time.Millisecond, nil)
	exec := NewExecutor(poller, 50*time.Millisecond, sink)
	exec.sleep = func(time.Duration) {}
	return exec
}

func TestExecutor_ClickImmediatelyClickable(t *testing.T) {
	page := newFakePage()
	button := newFakeElement()
	page.elements["#submit"] = button
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)
	exec.Poller.Sink = recorder

	out := exec.Perform(session, "#submit", ActionClick, "", RetryPolicy{MaxAttempts: 3})

	require.True(t, out.OK())
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, 1, button.clicks)
	assert.Equal(t, 1, recorder.Count(report.EventWaitStarted), "exactly one readiness check")
	assert.Equal(t, 0, recorder.Count(report.EventActionRetry), "no retry entries on the happy path")
}

func TestExecutor_AlwaysTransientExhaustsBudget(t *testing.T) {
	page := newFakePage()
	button := newFakeElement()
	button.clickErrs = []error{
		fmt.Errorf("%w: detached", ErrStaleElement),
		fmt.Errorf("%w: detached", ErrStaleElement),
		fmt.Errorf("%w: detached", ErrStaleElement),
		fmt.Errorf("%w: detached", ErrStaleElement),
	}
	page.elements["#flaky"] = button
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)

	out := exec.Perform(session, "#flaky", ActionClick, "", RetryPolicy{MaxAttempts: 3})

	require.False(t, out.OK())
	assert.Equal(t, 3, out.Attempts, "attempt counting includes the first try")
	assert.Equal(t, 3, button.clicks)
	kind, ok := FailureKindOf(out.Err)
	require.True(t, ok)
	assert.Equal(t, FailureActionTransient, kind)
	assert.Equal(t, 2, recorder.Count(report.EventActionRetry))
}

func TestExecutor_FatalErrorSingleAttempt(t *testing.T) {
	page := newFakePage()
	button := newFakeElement()
	button.clickErrs = []error{errBoom}
	page.elements["#btn"] = button
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#btn", ActionClick, "", RetryPolicy{MaxAttempts: 5})

	require.False(t, out.OK())
	assert.Equal(t, 1, out.Attempts, "fatal errors are never retried")
	kind, ok := FailureKindOf(out.Err)
	require.True(t, ok)
	assert.Equal(t, FailureActionFatal, kind)
	assert.ErrorIs(t, out.Err, errBoom)
}

func TestExecutor_StaleOnFirstResolveThenSuccess(t *testing.T) {
	page := newFakePage()
	field := newFakeElement()
	field.fillErrs = []error{fmt.Errorf("%w: re-rendered", ErrStaleElement)}
	page.elements["#email"] = field
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)
	exec.Poller.Sink = recorder

	out := exec.Perform(session, "#email", ActionType, "user@example.com", RetryPolicy{MaxAttempts: 3})

	require.True(t, out.OK())
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, []string{"user@example.com"}, field.fills)
	assert.Equal(t, 2, recorder.Count(report.EventWaitStarted), "retry re-resolves through a fresh readiness check")
	assert.Equal(t, 1, recorder.Count(report.EventActionRetry))
}

func TestExecutor_ReadinessTimeoutStopsBeforeAction(t *testing.T) {
	page := newFakePage() // element never appears
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#ghost", ActionClick, "", RetryPolicy{MaxAttempts: 3})

	require.False(t, out.OK())
	assert.Equal(t, 1, out.Attempts)
	kind, ok := FailureKindOf(out.Err)
	require.True(t, ok)
	assert.Equal(t, FailureElementTimeout, kind)
	assert.ErrorIs(t, out.Err, ErrNoSuchElement, "timeout carries the last observed error")
	assert.Equal(t, 0, page.dispatchCalls)
}

func TestExecutor_SessionDeadSurfacesSessionUnavailable(t *testing.T) {
	page := newFakePage()
	session := newTestSession("w1", page)
	require.NoError(t, session.Close())

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#btn", ActionClick, "", RetryPolicy{MaxAttempts: 3})

	require.False(t, out.OK())
	kind, ok := FailureKindOf(out.Err)
	require.True(t, ok)
	assert.Equal(t, FailureSessionUnavailable, kind)
}

func TestExecutor_NotInteractableFallbackOutsideBudget(t *testing.T) {
	page := newFakePage()
	button := newFakeElement()
	// Clickability passed but the click is intercepted by an overlay.
	button.clickErrs = []error{fmt.Errorf("%w: intercepted", ErrNotInteractable)}
	page.elements["#covered"] = button
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)

	out := exec.Perform(session, "#covered", ActionClick, "", RetryPolicy{MaxAttempts: 1})

	require.True(t, out.OK(), "dispatch fallback rescues the occluded click")
	assert.Equal(t, 1, out.Attempts, "fallback does not consume retry budget")
	assert.Equal(t, 1, page.dispatchCalls)
	assert.Equal(t, 1, recorder.Count(report.EventActionFallback))
}

func TestExecutor_FallbackHappensOnlyOnce(t *testing.T) {
	page := newFakePage()
	page.dispatchErr = fmt.Errorf("%w: still covered", ErrNotInteractable)
	button := newFakeElement()
	button.clickErrs = []error{
		fmt.Errorf("%w: intercepted", ErrNotInteractable),
		fmt.Errorf("%w: intercepted", ErrNotInteractable),
	}
	page.elements["#covered"] = button
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#covered", ActionClick, "", RetryPolicy{MaxAttempts: 2})

	require.False(t, out.OK())
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, 1, page.dispatchCalls, "the dispatch escape is one-shot")
	kind, _ := FailureKindOf(out.Err)
	assert.Equal(t, FailureActionTransient, kind)
}

func TestExecutor_ReadActions(t *testing.T) {
	page := newFakePage()
	heading := newFakeElement()
	heading.text = "Welcome aboard"
	heading.attrs["data-state"] = "done"
	page.elements["#confirmation"] = heading
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)

	out := exec.Perform(session, "#confirmation", ActionRead, "", RetryPolicy{})
	require.True(t, out.OK())
	assert.Equal(t, "Welcome aboard", out.Value)

	out = exec.Perform(session, "#confirmation", ActionReadAttribute, "data-state", RetryPolicy{})
	require.True(t, out.OK())
	assert.Equal(t, "done", out.Value)
}

func TestExecutor_ToggleUsesClickability(t *testing.T) {
	page := newFakePage()
	box := newFakeElement()
	page.elements["#terms"] = box
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#terms", ActionToggle, "true", RetryPolicy{})

	require.True(t, out.OK())
	require.NotNil(t, box.checked)
	assert.True(t, *box.checked)

	// A disabled checkbox never becomes clickable.
	box.mu.Lock()
	box.enabled = false
	box.mu.Unlock()
	out = exec.Perform(session, "#terms", ActionToggle, "false", RetryPolicy{})
	require.False(t, out.OK())
	kind, _ := FailureKindOf(out.Err)
	assert.Equal(t, FailureElementTimeout, kind)
}

func TestExecutor_TypeWaitsForVisibilityOnly(t *testing.T) {
	page := newFakePage()
	field := newFakeElement()
	field.enabled = false // visible but disabled: typing readiness is visibility
	page.elements["#notes"] = field
	session := newTestSession("w1", page)

	exec := newTestExecutor(nil)
	out := exec.Perform(session, "#notes", ActionType, "hello", RetryPolicy{})

	require.True(t, out.OK())
	assert.Equal(t, []string{"hello"}, field.fills)
}

func TestExecutor_FailureRequestsScreenshot(t *testing.T) {
	page := newFakePage()
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)

	out := exec.Perform(session, "#ghost", ActionClick, "", RetryPolicy{MaxAttempts: 1})
	require.False(t, out.OK())

	shots := recorder.Screenshots()
	require.Len(t, shots, 1)
	assert.Contains(t, shots[0], "w1")
	assert.Contains(t, shots[0], "#ghost")
}

func TestExecutor_TypePayloadInAttemptDetail(t *testing.T) {
	page := newFakePage()
	field := newFakeElement()
	page.elements["#password"] = field
	session := newTestSession("w1", page)

	recorder := report.NewRecorder()
	exec := newTestExecutor(recorder)

	out := exec.Perform(session, "#password", ActionType, "hunter2", RetryPolicy{})
	require.True(t, out.OK())

	events := recorder.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, report.EventActionAttempt, events[0].Kind)
	assert.Equal(t, "hunter2", events[0].Detail, "payload is exposed so reporters can redact it by pattern")
}

func TestRetryPolicy_MinimumOneAttempt(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.attempts())
	assert.Equal(t, 1, RetryPolicy{MaxAttempts: -2}.attempts())
	assert.Equal(t, 4, RetryPolicy{MaxAttempts: 4}.attempts())
}
