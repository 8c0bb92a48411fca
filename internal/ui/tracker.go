package ui

import (
	"sync"

	"github.com/ai-rules/ai-rules-generator/internal/rules"
)

// Tracker turns composer progress events into a spinner (single project)
// or a progress bar (monorepo fan-out).
type Tracker struct {
	progress Progress
	mu       sync.Mutex
	bar      ProgressBar
	spinner  Spinner
}

// NewTracker creates a Tracker drawing through p.
func NewTracker(p Progress) *Tracker {
	return &Tracker{progress: p}
}

// Handle consumes one event. Pass it as rules.Options.Progress.
func (t *Tracker) Handle(ev rules.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	title := unitTitle(ev.Unit)
	if ev.Stage == rules.StageAI {
		title += ": generating with AI"
	}

	if ev.Total > 1 {
		if t.bar == nil {
			t.bar = t.progress.Start("Composing "+title, ev.Total)
		}
		switch ev.Stage {
		case rules.StageDone:
			t.bar.Increment(1)
		default:
			t.bar.SetTitle("Composing " + title)
		}
		return
	}

	switch ev.Stage {
	case rules.StageDone:
		if t.spinner != nil {
			t.spinner.Stop()
			t.spinner = nil
		}
	default:
		if t.spinner == nil {
			t.spinner = t.progress.Spinner("Composing " + title)
			return
		}
		t.spinner.SetTitle("Composing " + title)
	}
}

// Finish stops any indicator still running. Safe to call more than once.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spinner != nil {
		t.spinner.Stop()
		t.spinner = nil
	}
	if t.bar != nil {
		t.bar.Done()
		t.bar = nil
	}
}

func unitTitle(relPath string) string {
	if relPath == "" {
		return "project rules"
	}
	return relPath
}
