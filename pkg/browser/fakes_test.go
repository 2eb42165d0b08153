package browser

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

// fakeElement is a scriptable Element for engine tests.
type fakeElement struct {
	mu sync.Mutex

	visible bool
	enabled bool
	text    string
	attrs   map[string]string

	// clickErrs are consumed one per Click call; nil entries mean success
	clickErrs []error
	fillErrs  []error

	clicks  int
	fills   []string
	checked *bool
}

func newFakeElement() *fakeElement {
	return &fakeElement{visible: true, enabled: true, attrs: map[string]string{}}
}

func (e *fakeElement) popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (e *fakeElement) Visible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible, nil
}

func (e *fakeElement) Enabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled, nil
}

func (e *fakeElement) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++
	return e.popErr(&e.clickErrs)
}

func (e *fakeElement) Fill(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.popErr(&e.fillErrs); err != nil {
		return err
	}
	e.fills = append(e.fills, value)
	return nil
}

func (e *fakeElement) SetChecked(checked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checked = &checked
	return nil
}

func (e *fakeElement) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, nil
}

func (e *fakeElement) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name], nil
}

// fakePage is a scriptable Page. onQuery, when set, fully controls Query;
// otherwise lookups hit the elements map, with absence returning (nil, nil).
type fakePage struct {
	mu sync.Mutex

	elements   map[string]Element
	onQuery    func(selector string) (Element, error)
	readyState string
	url        string

	navErr        error
	screenshotErr error
	dispatchErr   error

	queries       int
	dispatchCalls int
	screenshots   []string
}

func newFakePage() *fakePage {
	return &fakePage{
		elements:   map[string]Element{},
		readyState: "complete",
		url:        "about:blank",
	}
}

func (p *fakePage) Query(selector string) (Element, error) {
	p.mu.Lock()
	p.queries++
	onQuery := p.onQuery
	el := p.elements[selector]
	p.mu.Unlock()

	if onQuery != nil {
		return onQuery(selector)
	}
	return el, nil
}

func (p *fakePage) Navigate(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navErr != nil {
		return p.navErr
	}
	p.url = url
	return nil
}

func (p *fakePage) ReadyState() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readyState, nil
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screenshots = append(p.screenshots, path)
	return p.screenshotErr
}

func (p *fakePage) DispatchClick(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatchCalls++
	return p.dispatchErr
}

func (p *fakePage) queryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries
}

// fakeLauncher hands out fakePages and tracks launches and closes.
type fakeLauncher struct {
	mu sync.Mutex

	launchErr   error
	launchDelay time.Duration
	closeErrFor map[string]error // keyed by launch ordinal as string

	launches int
	closes   []int
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{closeErrFor: map[string]error{}}
}

func (l *fakeLauncher) Launch(kind Kind, opts LaunchOptions) (Page, func() error, error) {
	l.mu.Lock()
	l.launches++
	ordinal := l.launches
	err := l.launchErr
	delay := l.launchDelay
	l.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, nil, err
	}

	page := newFakePage()
	closeFn := func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.closes = append(l.closes, ordinal)
		return l.closeErrFor[strconv.Itoa(ordinal)]
	}
	return page, closeFn, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func (l *fakeLauncher) closeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.closes)
}

// newTestSession builds a Ready session directly on a fake page.
func newTestSession(worker string, page Page) *Session {
	s := newSession(worker, KindChromium, LaunchOptions{Headless: true}, page, nil)
	s.markReady()
	return s
}

var errBoom = errors.New("boom")
