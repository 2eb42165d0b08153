package browser

import "fmt"

// Condition is a named predicate over the current DOM state. Evaluate
// returns the matched element when the condition holds, or an error the
// Poller classifies to decide whether to keep polling. Conditions are
// stateless values, constructed fresh per wait call.
type Condition struct {
	// Name identifies the condition in trace events
	Name string

	eval func(Page) (Element, error)
}

// Evaluate runs the predicate against the given page.
func (c Condition) Evaluate(page Page) (Element, error) {
	return c.eval(page)
}

// Present is satisfied when an element matches selector, visible or not.
func Present(selector string) Condition {
	return Condition{
		Name: "present(" + selector + ")",
		eval: func(page Page) (Element, error) {
			el, err := page.Query(selector)
			if err != nil {
				return nil, err
			}
			if el == nil {
				return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
			}
			return el, nil
		},
	}
}

// Visible is satisfied when a matching element is rendered with a nonzero
// box.
func Visible(selector string) Condition {
	return Condition{
		Name: "visible(" + selector + ")",
		eval: func(page Page) (Element, error) {
			el, err := resolve(page, selector)
			if err != nil {
				return nil, err
			}
			visible, err := el.Visible()
			if err != nil {
				return nil, err
			}
			if !visible {
				return nil, fmt.Errorf("%w: %s", ErrNotVisible, selector)
			}
			return el, nil
		},
	}
}

// Clickable is satisfied when a matching element is visible and enabled
// for interaction.
func Clickable(selector string) Condition {
	return Condition{
		Name: "clickable(" + selector + ")",
		eval: func(page Page) (Element, error) {
			el, err := resolve(page, selector)
			if err != nil {
				return nil, err
			}
			visible, err := el.Visible()
			if err != nil {
				return nil, err
			}
			if !visible {
				return nil, fmt.Errorf("%w: %s", ErrNotVisible, selector)
			}
			enabled, err := el.Enabled()
			if err != nil {
				return nil, err
			}
			if !enabled {
				return nil, fmt.Errorf("%w: %s is disabled", ErrNotInteractable, selector)
			}
			return el, nil
		},
	}
}

// Hidden is the negated condition: satisfied when no matching element is
// shown, either because it is gone from the DOM or rendered invisible.
// Used for waiting out transient loading indicators. The satisfied value
// carries no element.
func Hidden(selector string) Condition {
	return Condition{
		Name: "hidden(" + selector + ")",
		eval: func(page Page) (Element, error) {
			el, err := page.Query(selector)
			if err != nil {
				return nil, err
			}
			if el == nil {
				return nil, nil
			}
			visible, err := el.Visible()
			if err != nil {
				// A handle that went stale between Query and Visible means
				// the element is gone, which is what we are waiting for.
				if Classify(err) == ClassTransient {
					return nil, nil
				}
				return nil, err
			}
			if visible {
				return nil, fmt.Errorf("%w: %s", ErrStillVisible, selector)
			}
			return nil, nil
		},
	}
}

// PageReady is satisfied once the document reports load-complete. Used
// after navigation, before any element condition is evaluated.
func PageReady() Condition {
	return Condition{
		Name: "page_ready",
		eval: func(page Page) (Element, error) {
			state, err := page.ReadyState()
			if err != nil {
				return nil, err
			}
			if state != "complete" {
				return nil, fmt.Errorf("%w: readyState=%s", ErrPageLoading, state)
			}
			return nil, nil
		},
	}
}

// resolve queries for selector and normalizes absence into ErrNoSuchElement.
func resolve(page Page, selector string) (Element, error) {
	el, err := page.Query(selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
	}
	return el, nil
}
