package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// JSONLReporter appends one JSON object per event to a file under its output
// directory. Screenshots are written to a screenshots/ subdirectory keyed by
// a sanitized title. All I/O failures are swallowed; reporting is best-effort.
type JSONLReporter struct {
	mu       sync.Mutex
	file     *os.File
	dir      string
	redactor *Redactor
}

// NewJSONLReporter creates the output directory and opens the event log for
// appending. redactor may be nil.
func NewJSONLReporter(dir string, redactor *Redactor) (*JSONLReporter, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, "events.jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	return &JSONLReporter{
		file:     file,
		dir:      dir,
		redactor: redactor,
	}, nil
}

// Emit writes the event as a single JSON line.
func (r *JSONLReporter) Emit(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	event = r.redactor.Apply(event)

	line, err := json.Marshal(event)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.file.Write(append(line, '\n'))
}

// Screenshot captures into <dir>/screenshots/<title>.png and records an event
// for it. A failed capture is recorded too, but never propagated.
func (r *JSONLReporter) Screenshot(title string, capture func(path string) error) {
	shotDir := filepath.Join(r.dir, "screenshots")
	if err := os.MkdirAll(shotDir, 0750); err != nil {
		return
	}

	path := filepath.Join(shotDir, sanitizeTitle(title)+".png")
	detail := path
	if err := capture(path); err != nil {
		detail = fmt.Sprintf("capture failed: %v", err)
	}

	r.Emit(Event{
		Kind:   EventScreenshot,
		Detail: detail,
	})
}

// Close closes the underlying event log.
func (r *JSONLReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// Dir returns the reporter's output directory.
func (r *JSONLReporter) Dir() string {
	return r.dir
}

// sanitizeTitle maps an arbitrary title to a safe file name.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "screenshot"
	}
	return b.String()
}
