package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConsoleReporter prints a terse, human-readable trace to a writer. It only
// surfaces the events a person watching a run cares about: retries, timeouts,
// failures, and screenshots. The JSONL log carries the full record.
type ConsoleReporter struct {
	mu       sync.Mutex
	w        io.Writer
	redactor *Redactor
	verbose  bool
}

// NewConsoleReporter creates a console reporter. With verbose set, every
// event is printed, not just the noteworthy ones.
func NewConsoleReporter(w io.Writer, redactor *Redactor, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{w: w, redactor: redactor, verbose: verbose}
}

func (r *ConsoleReporter) Emit(event Event) {
	event = r.redactor.Apply(event)

	var line string
	switch event.Kind {
	case EventWaitTimedOut:
		line = failStyle.Render("timeout") + " " + describe(event)
	case EventActionRetry:
		line = warnStyle.Render(fmt.Sprintf("retry %d/%d", event.Attempt, event.MaxAttempts)) + " " + describe(event)
	case EventActionFallback:
		line = warnStyle.Render("fallback") + " " + describe(event)
	case EventFailure:
		line = failStyle.Render("fail") + " " + describe(event)
	case EventScreenshot:
		line = dimStyle.Render("screenshot " + event.Detail)
	case EventWaitSatisfied:
		if !r.verbose {
			return
		}
		line = okStyle.Render("ok") + " " + describe(event)
	default:
		if !r.verbose {
			return
		}
		line = dimStyle.Render(string(event.Kind)) + " " + describe(event)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, line)
}

func (r *ConsoleReporter) Screenshot(title string, capture func(path string) error) {
	// The console never captures; the file reporter owns screenshot paths.
}

func describe(event Event) string {
	s := ""
	if event.Worker != "" {
		s += "[" + event.Worker + "] "
	}
	if event.Action != "" {
		s += event.Action + " "
	}
	if event.Selector != "" {
		s += event.Selector
	} else if event.Condition != "" {
		s += event.Condition
	}
	if event.Detail != "" {
		s += dimStyle.Render(" (" + event.Detail + ")")
	}
	return s
}
