package browser

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher launches real browsers through Playwright. The driver
// process is started lazily on first launch and shared by every session.
type PlaywrightLauncher struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	started bool
}

// NewPlaywrightLauncher creates a launcher. Nothing is started until the
// first Launch call.
func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

// Launch starts a browser of the given kind and returns its page surface.
func (l *PlaywrightLauncher) Launch(kind Kind, opts LaunchOptions) (Page, func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureStarted(); err != nil {
		return nil, nil, err
	}

	var browserType playwright.BrowserType
	switch kind {
	case KindChromium:
		browserType = l.pw.Chromium
	case KindFirefox:
		browserType = l.pw.Firefox
	case KindWebKit:
		browserType = l.pw.WebKit
	default:
		return nil, nil, fmt.Errorf("unsupported browser kind %q", kind)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	}
	if kind == KindChromium {
		// Suppress the UI chrome that interferes with deterministic runs.
		launchOpts.Args = []string{
			"--disable-notifications",
			"--disable-infobars",
			"--no-default-browser-check",
		}
	}
	if opts.DownloadsDir != "" {
		launchOpts.DownloadsPath = &opts.DownloadsDir
	}

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch %s: %w", kind, err)
	}

	viewport := opts.Viewport
	if viewport == nil {
		viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	acceptDownloads := opts.DownloadsDir != ""
	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
		AcceptDownloads: &acceptDownloads,
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, nil, fmt.Errorf("failed to create page: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	page.SetDefaultTimeout(float64(timeout.Milliseconds()))

	closeFn := func() error {
		// Continue cleanup past individual failures; the page error is the
		// interesting one if several fail.
		pageErr := page.Close()
		_ = context.Close()
		browserErr := browser.Close()
		if pageErr != nil {
			return pageErr
		}
		return browserErr
	}

	return &pwPage{page: page}, closeFn, nil
}

// ensureStarted installs and runs the Playwright driver once. Output is
// discarded so driver installation cannot pollute reporter output.
func (l *PlaywrightLauncher) ensureStarted() error {
	if l.started {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.pw = pw
	l.started = true
	return nil
}

// Stop shuts down the shared driver process. Call after ReleaseAll.
func (l *PlaywrightLauncher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return nil
	}
	l.started = false
	if err := l.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// pwPage adapts a Playwright page to the Page interface, mapping every
// transport error onto the package sentinels.
type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Query(selector string) (Element, error) {
	el, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if el == nil {
		return nil, nil
	}
	return &pwElement{el: el}, nil
}

func (p *pwPage) Navigate(url string) error {
	waitUntil := playwright.WaitUntilStateLoad
	_, err := p.page.Goto(url, playwright.PageGotoOptions{WaitUntil: waitUntil})
	if err != nil {
		return mapTransportError(err)
	}
	return nil
}

func (p *pwPage) ReadyState() (string, error) {
	result, err := p.page.Evaluate("document.readyState")
	if err != nil {
		return "", mapTransportError(err)
	}
	state, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected readyState result %T", result)
	}
	return state, nil
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{Path: &path})
	if err != nil {
		return mapTransportError(err)
	}
	return nil
}

func (p *pwPage) DispatchClick(selector string) error {
	if err := p.page.DispatchEvent(selector, "click", nil); err != nil {
		return mapTransportError(err)
	}
	return nil
}

// pwElement adapts a Playwright element handle.
type pwElement struct {
	el playwright.ElementHandle
}

func (e *pwElement) Visible() (bool, error) {
	visible, err := e.el.IsVisible()
	if err != nil {
		return false, mapTransportError(err)
	}
	return visible, nil
}

func (e *pwElement) Enabled() (bool, error) {
	enabled, err := e.el.IsEnabled()
	if err != nil {
		return false, mapTransportError(err)
	}
	return enabled, nil
}

func (e *pwElement) Click() error {
	// Short per-click timeout: readiness waiting and retry belong to the
	// Executor, not the transport.
	timeout := 2000.0
	if err := e.el.Click(playwright.ElementHandleClickOptions{Timeout: &timeout}); err != nil {
		return mapTransportError(err)
	}
	return nil
}

func (e *pwElement) Fill(value string) error {
	timeout := 2000.0
	if err := e.el.Fill(value, playwright.ElementHandleFillOptions{Timeout: &timeout}); err != nil {
		return mapTransportError(err)
	}
	return nil
}

func (e *pwElement) SetChecked(checked bool) error {
	if err := e.el.SetChecked(checked); err != nil {
		return mapTransportError(err)
	}
	return nil
}

func (e *pwElement) Text() (string, error) {
	text, err := e.el.TextContent()
	if err != nil {
		return "", mapTransportError(err)
	}
	return text, nil
}

func (e *pwElement) Attribute(name string) (string, error) {
	value, err := e.el.GetAttribute(name)
	if err != nil {
		return "", mapTransportError(err)
	}
	return value, nil
}

// mapTransportError folds Playwright's message-based errors onto the
// package sentinels so classification never depends on transport types.
// The original message is preserved in the chain for diagnostics.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "target closed"),
		strings.Contains(msg, "browser has been closed"),
		strings.Contains(msg, "context has been closed"),
		strings.Contains(msg, "page has been closed"),
		strings.Contains(msg, "websocket"):
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	case strings.Contains(msg, "not a valid selector"),
		strings.Contains(msg, "unknown engine"),
		strings.Contains(msg, "syntaxerror"):
		return fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	case strings.Contains(msg, "not attached"),
		strings.Contains(msg, "detached"),
		strings.Contains(msg, "stale"):
		return fmt.Errorf("%w: %v", ErrStaleElement, err)
	case strings.Contains(msg, "not visible"),
		strings.Contains(msg, "hidden"):
		return fmt.Errorf("%w: %v", ErrNotVisible, err)
	case strings.Contains(msg, "intercepts pointer events"),
		strings.Contains(msg, "not interactable"),
		strings.Contains(msg, "outside of the viewport"),
		strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrNotInteractable, err)
	default:
		return err
	}
}
