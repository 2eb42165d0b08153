package report

import "sync"

// Recorder is a Sink that keeps every event in memory. Intended for tests
// that assert on the emitted trace.
type Recorder struct {
	mu          sync.Mutex
	events      []Event
	screenshots []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Screenshot(title string, capture func(path string) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screenshots = append(r.screenshots, title)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns the number of recorded events of the given kind.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Screenshots returns the titles of requested captures.
func (r *Recorder) Screenshots() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.screenshots))
	copy(out, r.screenshots)
	return out
}
