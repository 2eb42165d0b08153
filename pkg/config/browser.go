package config

import (
	"fmt"
	"sync"
	"time"
)

// Browser defaults. Durations are stored as plain numbers in the config
// file (seconds for timeouts, milliseconds for the poll interval and retry
// delay) so the JSON stays hand-editable.
const (
	DefaultBrowserKind        = "chromium"
	DefaultConditionTimeoutS  = 30
	DefaultNavigationTimeoutS = 45
	DefaultPollIntervalMS     = 500
	DefaultRetryAttempts      = 3
	DefaultRetryDelayMS       = 250
)

var validKinds = map[string]bool{
	"chromium": true,
	"firefox":  true,
	"webkit":   true,
}

// BrowserSection holds browser launch and wait tuning.
type BrowserSection struct {
	mu sync.RWMutex

	kind                string
	headless            bool
	conditionTimeoutS   int
	navigationTimeoutS  int
	pollIntervalMS      int
	retryAttempts       int
	retryDelayMS        int
	screenshotOnFailure bool
}

// NewBrowserSection creates a browser section with defaults.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

func (s *BrowserSection) ID() string    { return "browser" }
func (s *BrowserSection) Title() string { return "Browser" }
func (s *BrowserSection) Description() string {
	return "Browser engine selection and wait/retry tuning"
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"kind":                  s.kind,
		"headless":              s.headless,
		"condition_timeout_s":   s.conditionTimeoutS,
		"navigation_timeout_s":  s.navigationTimeoutS,
		"poll_interval_ms":      s.pollIntervalMS,
		"retry_attempts":        s.retryAttempts,
		"retry_delay_ms":        s.retryDelayMS,
		"screenshot_on_failure": s.screenshotOnFailure,
	}
}

// SetData replaces the section's data from storage. Unknown keys are
// ignored; missing keys keep their current values.
func (s *BrowserSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["kind"].(string); ok {
		s.kind = v
	}
	if v, ok := data["headless"].(bool); ok {
		s.headless = v
	}
	if v, ok := asInt(data["condition_timeout_s"]); ok {
		s.conditionTimeoutS = v
	}
	if v, ok := asInt(data["navigation_timeout_s"]); ok {
		s.navigationTimeoutS = v
	}
	if v, ok := asInt(data["poll_interval_ms"]); ok {
		s.pollIntervalMS = v
	}
	if v, ok := asInt(data["retry_attempts"]); ok {
		s.retryAttempts = v
	}
	if v, ok := asInt(data["retry_delay_ms"]); ok {
		s.retryDelayMS = v
	}
	if v, ok := data["screenshot_on_failure"].(bool); ok {
		s.screenshotOnFailure = v
	}
	return nil
}

// Validate checks the current values for consistency.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !validKinds[s.kind] {
		return fmt.Errorf("unknown browser kind %q", s.kind)
	}
	if s.conditionTimeoutS < 0 {
		return fmt.Errorf("condition_timeout_s must not be negative, got %d", s.conditionTimeoutS)
	}
	if s.navigationTimeoutS < 0 {
		return fmt.Errorf("navigation_timeout_s must not be negative, got %d", s.navigationTimeoutS)
	}
	if s.retryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", s.retryAttempts)
	}
	return nil
}

// Reset restores default values.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = DefaultBrowserKind
	s.headless = true
	s.conditionTimeoutS = DefaultConditionTimeoutS
	s.navigationTimeoutS = DefaultNavigationTimeoutS
	s.pollIntervalMS = DefaultPollIntervalMS
	s.retryAttempts = DefaultRetryAttempts
	s.retryDelayMS = DefaultRetryDelayMS
	s.screenshotOnFailure = true
}

// Kind returns the configured browser engine name.
func (s *BrowserSection) Kind() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// SetKind sets the browser engine name.
func (s *BrowserSection) SetKind(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
}

// Headless reports whether the browser runs without a visible window.
func (s *BrowserSection) Headless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headless
}

// SetHeadless sets headless mode.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headless = headless
}

// ConditionTimeout returns the per-condition wait budget.
func (s *BrowserSection) ConditionTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.conditionTimeoutS) * time.Second
}

// NavigationTimeout returns the page navigation budget.
func (s *BrowserSection) NavigationTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.navigationTimeoutS) * time.Second
}

// PollInterval returns the delay between condition evaluations.
func (s *BrowserSection) PollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.pollIntervalMS) * time.Millisecond
}

// RetryAttempts returns the action retry budget.
func (s *BrowserSection) RetryAttempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retryAttempts
}

// RetryDelay returns the pause between action attempts.
func (s *BrowserSection) RetryDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.retryDelayMS) * time.Millisecond
}

// ScreenshotOnFailure reports whether failures capture the page.
func (s *BrowserSection) ScreenshotOnFailure() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenshotOnFailure
}

// asInt normalizes JSON numbers, which decode as float64.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
