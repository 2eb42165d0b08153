package browser

import "time"

// Kind identifies a browser engine.
type Kind string

const (
	KindChromium Kind = "chromium"
	KindFirefox  Kind = "firefox"
	KindWebKit   Kind = "webkit"
)

// Valid reports whether k names a supported engine.
func (k Kind) Valid() bool {
	switch k {
	case KindChromium, KindFirefox, KindWebKit:
		return true
	}
	return false
}

// State is a Session's position in its lifecycle. Transitions only move
// forward; Closed is terminal.
type State int32

const (
	StateInitializing State = iota
	StateReady
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions is the capability set a new Session is created with.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial window size; nil uses the default
	Viewport *Viewport

	// DownloadsDir is where file downloads land; empty disables downloads
	DownloadsDir string

	// Timeout is the default per-operation transport timeout
	Timeout time.Duration
}

// Page is the surface of a live browser page the engine drives. The
// production implementation wraps Playwright; tests use in-memory fakes.
// All errors returned from a Page are already mapped to this package's
// sentinel errors.
type Page interface {
	// Query resolves the first element matching selector. A selector that
	// matches nothing returns (nil, nil); only real failures return errors.
	Query(selector string) (Element, error)

	// Navigate loads the given URL and waits for the load event.
	Navigate(url string) error

	// ReadyState returns the document readiness value ("loading",
	// "interactive", "complete").
	ReadyState() (string, error)

	// URL returns the current page URL.
	URL() string

	// Screenshot writes a capture of the current viewport to path.
	Screenshot(path string) error

	// DispatchClick fires a click event directly on the element matching
	// selector, bypassing hit-testing. Used as a last-resort fallback when
	// a standard click is intercepted by an overlapping element.
	DispatchClick(selector string) error
}

// Element is a handle to a single DOM element resolved by Page.Query.
// Handles go stale when the SPA re-renders; every method may return
// ErrStaleElement and callers are expected to re-resolve rather than
// retry on the same handle.
type Element interface {
	Visible() (bool, error)
	Enabled() (bool, error)
	Click() error
	Fill(value string) error
	SetChecked(checked bool) error
	Text() (string, error)
	Attribute(name string) (string, error)
}

// Defaults for the engine.
const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeout        = 30 * time.Second
)
