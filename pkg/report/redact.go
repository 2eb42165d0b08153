package report

import (
	"strings"

	"github.com/gobwas/glob"
)

// RedactedPlaceholder replaces event details that matched a redaction pattern.
const RedactedPlaceholder = "[redacted]"

// Redactor masks the Detail field of events whose selector matches one of a
// set of glob patterns. Typed payloads flow through events verbatim, so
// password and token fields must be masked before anything is persisted.
type Redactor struct {
	patterns []glob.Glob
}

// NewRedactor compiles the given glob patterns (e.g. "*password*", "*token*").
// Invalid patterns are reported so a typo cannot silently disable masking.
func NewRedactor(patterns []string) (*Redactor, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return &Redactor{patterns: compiled}, nil
}

// Apply returns a copy of the event with Detail masked if its selector or
// condition matches any pattern. Events without detail pass through unchanged.
func (r *Redactor) Apply(event Event) Event {
	if r == nil || event.Detail == "" {
		return event
	}
	if r.matches(event.Selector) || r.matches(event.Condition) {
		event.Detail = RedactedPlaceholder
	}
	return event
}

func (r *Redactor) matches(s string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, g := range r.patterns {
		if g.Match(s) {
			return true
		}
	}
	return false
}
