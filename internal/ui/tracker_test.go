package ui

import (
	"slices"
	"testing"

	"github.com/ai-rules/ai-rules-generator/internal/rules"
)

type recorder struct {
	events []string
}

func (r *recorder) Start(title string, total int) ProgressBar {
	r.events = append(r.events, "start:"+title)
	return &recBar{r: r}
}

func (r *recorder) Spinner(title string) Spinner {
	r.events = append(r.events, "spin:"+title)
	return &recSpinner{r: r}
}

type recBar struct{ r *recorder }

func (b *recBar) Increment(int)         { b.r.events = append(b.r.events, "incr") }
func (b *recBar) SetTitle(title string) { b.r.events = append(b.r.events, "title:"+title) }
func (b *recBar) Done()                 { b.r.events = append(b.r.events, "done") }

type recSpinner struct{ r *recorder }

func (s *recSpinner) SetTitle(title string) { s.r.events = append(s.r.events, "title:"+title) }
func (s *recSpinner) Stop()                 { s.r.events = append(s.r.events, "stop") }

func TestTracker_SingleProjectUsesSpinner(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTracker(rec)
	tr.Handle(rules.ProgressEvent{Total: 1, Stage: rules.StageStart})
	tr.Handle(rules.ProgressEvent{Total: 1, Stage: rules.StageAI})
	tr.Handle(rules.ProgressEvent{Total: 1, Stage: rules.StageDone})
	tr.Finish()

	want := []string{
		"spin:Composing project rules",
		"title:Composing project rules: generating with AI",
		"stop",
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %q, want %q", rec.events, want)
	}
}

func TestTracker_MonorepoUsesBar(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTracker(rec)
	for i, unit := range []string{"", "packages/api"} {
		tr.Handle(rules.ProgressEvent{Unit: unit, Index: i, Total: 2, Stage: rules.StageStart})
		tr.Handle(rules.ProgressEvent{Unit: unit, Index: i, Total: 2, Stage: rules.StageDone})
	}
	tr.Finish()
	tr.Finish()

	want := []string{
		"start:Composing project rules",
		"title:Composing project rules",
		"incr",
		"title:Composing packages/api",
		"incr",
		"done",
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %q, want %q", rec.events, want)
	}
}
