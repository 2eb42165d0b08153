package browser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	page := newFakePage()
	page.elements["#field"] = newFakeElement()

	el, err := Present("#field").Evaluate(page)
	require.NoError(t, err)
	assert.NotNil(t, el)

	_, err = Present("#missing").Evaluate(page)
	assert.ErrorIs(t, err, ErrNoSuchElement)
}

func TestPresent_DoesNotRequireVisibility(t *testing.T) {
	page := newFakePage()
	hidden := newFakeElement()
	hidden.visible = false
	page.elements["#hidden"] = hidden

	el, err := Present("#hidden").Evaluate(page)
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestVisible(t *testing.T) {
	page := newFakePage()
	shown := newFakeElement()
	hidden := newFakeElement()
	hidden.visible = false
	page.elements["#shown"] = shown
	page.elements["#hidden"] = hidden

	el, err := Visible("#shown").Evaluate(page)
	require.NoError(t, err)
	assert.NotNil(t, el)

	_, err = Visible("#hidden").Evaluate(page)
	assert.ErrorIs(t, err, ErrNotVisible)

	_, err = Visible("#missing").Evaluate(page)
	assert.ErrorIs(t, err, ErrNoSuchElement)
}

func TestClickable(t *testing.T) {
	page := newFakePage()
	ready := newFakeElement()
	disabled := newFakeElement()
	disabled.enabled = false
	invisible := newFakeElement()
	invisible.visible = false
	page.elements["#ready"] = ready
	page.elements["#disabled"] = disabled
	page.elements["#invisible"] = invisible

	el, err := Clickable("#ready").Evaluate(page)
	require.NoError(t, err)
	assert.NotNil(t, el)

	_, err = Clickable("#disabled").Evaluate(page)
	assert.ErrorIs(t, err, ErrNotInteractable)

	_, err = Clickable("#invisible").Evaluate(page)
	assert.ErrorIs(t, err, ErrNotVisible)
}

func TestHidden(t *testing.T) {
	page := newFakePage()
	shown := newFakeElement()
	gone := newFakeElement()
	gone.visible = false
	page.elements["#shown"] = shown
	page.elements["#gone"] = gone

	// Absent from the DOM entirely: satisfied.
	el, err := Hidden("#missing").Evaluate(page)
	require.NoError(t, err)
	assert.Nil(t, el)

	// Present but invisible: satisfied.
	el, err = Hidden("#gone").Evaluate(page)
	require.NoError(t, err)
	assert.Nil(t, el)

	// Still visible: keep polling.
	_, err = Hidden("#shown").Evaluate(page)
	assert.ErrorIs(t, err, ErrStillVisible)
}

func TestHidden_StaleHandleCountsAsGone(t *testing.T) {
	page := newFakePage()
	page.onQuery = func(selector string) (Element, error) {
		return staleOnVisible{}, nil
	}

	el, err := Hidden("#spinner").Evaluate(page)
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestPageReady(t *testing.T) {
	page := newFakePage()

	el, err := PageReady().Evaluate(page)
	require.NoError(t, err)
	assert.Nil(t, el)

	page.readyState = "loading"
	_, err = PageReady().Evaluate(page)
	assert.ErrorIs(t, err, ErrPageLoading)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"no such element", ErrNoSuchElement, ClassTransient},
		{"stale element", ErrStaleElement, ClassTransient},
		{"not visible", ErrNotVisible, ClassTransient},
		{"not interactable", ErrNotInteractable, ClassTransient},
		{"still visible", ErrStillVisible, ClassTransient},
		{"page loading", ErrPageLoading, ClassTransient},
		{"wrapped transient", fmt.Errorf("click: %w", ErrStaleElement), ClassTransient},
		{"invalid selector", ErrInvalidSelector, ClassFatal},
		{"session unavailable", ErrSessionUnavailable, ClassFatal},
		{"unknown error", errBoom, ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestMapTransportError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want error
	}{
		{"target closed", "playwright: Target closed", ErrSessionUnavailable},
		{"page closed", "playwright: Page has been closed", ErrSessionUnavailable},
		{"invalid selector", `playwright: "###" is not a valid selector`, ErrInvalidSelector},
		{"detached", "playwright: element is detached from the DOM", ErrStaleElement},
		{"not visible", "playwright: element is not visible", ErrNotVisible},
		{"intercepted", "playwright: <div> intercepts pointer events", ErrNotInteractable},
		{"op timeout", "playwright: Timeout 2000ms exceeded", ErrNotInteractable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapTransportError(fmt.Errorf("%s", tt.msg))
			assert.ErrorIs(t, mapped, tt.want)
			assert.Contains(t, mapped.Error(), tt.msg, "original message is preserved")
		})
	}

	// Unrecognized errors pass through untouched.
	assert.Same(t, errBoom, mapTransportError(errBoom))
	assert.NoError(t, mapTransportError(nil))
}

// staleOnVisible is an Element whose handle went stale between Query and
// the visibility check.
type staleOnVisible struct{}

func (staleOnVisible) Visible() (bool, error)          { return false, ErrStaleElement }
func (staleOnVisible) Enabled() (bool, error)          { return false, ErrStaleElement }
func (staleOnVisible) Click() error                    { return ErrStaleElement }
func (staleOnVisible) Fill(string) error               { return ErrStaleElement }
func (staleOnVisible) SetChecked(bool) error           { return ErrStaleElement }
func (staleOnVisible) Text() (string, error)           { return "", ErrStaleElement }
func (staleOnVisible) Attribute(string) (string, error) { return "", ErrStaleElement }
