package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress creates progress indicators.
type Progress interface {
	Start(title string, total int) ProgressBar
	Spinner(title string) Spinner
}

// ProgressBar is a determinate progress indicator.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Spinner is an indeterminate progress indicator.
type Spinner interface {
	SetTitle(title string)
	Stop()
}

type progressImpl struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewProgress creates a Progress writing to stderr so stdout stays clean
// for command output.
func NewProgress(theme *Theme, hm *HeadlessManager) Progress {
	return newProgressImpl(theme, hm, os.Stderr)
}

func newProgressImpl(theme *Theme, hm *HeadlessManager, w io.Writer) *progressImpl {
	return &progressImpl{theme: theme, headless: hm, writer: w}
}

func (p *progressImpl) plain() bool {
	return p.headless.IsHeadless() || p.theme.NoColor
}

// Start creates a determinate progress bar. Headless or colorless output
// gets one line per step.
func (p *progressImpl) Start(title string, total int) ProgressBar {
	if p.plain() {
		return &lineBar{title: title, total: total, w: p.writer}
	}
	return startStatus(newStatusModel(p.theme, title, total), p.writer)
}

// Spinner creates an indeterminate spinner.
func (p *progressImpl) Spinner(title string) Spinner {
	if p.plain() {
		_, _ = fmt.Fprintln(p.writer, title)
		return &lineSpinner{w: p.writer}
	}
	return startStatus(newStatusModel(p.theme, title, 0), p.writer)
}

type (
	titleMsg   string
	advanceMsg int
	stopMsg    struct{}
)

// statusModel draws a spinner line, with a bar underneath when total > 0.
type statusModel struct {
	spinner spinner.Model
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newStatusModel(theme *Theme, title string, total int) statusModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	barOpts := []progress.Option{progress.WithWidth(40), progress.WithoutPercentage()}
	if theme.NoColor {
		barOpts = append(barOpts, progress.WithDefaultGradient())
	} else {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
		barOpts = append(barOpts, progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary))
	}
	return statusModel{spinner: s, bar: progress.New(barOpts...), title: title, total: total}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case titleMsg:
		m.title = string(msg)
	case advanceMsg:
		m.current = min(m.current+int(msg), m.total)
	case stopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m statusModel) View() string {
	if m.done {
		return ""
	}
	line := m.spinner.View() + " " + m.title
	if m.total <= 0 {
		return line + "\n"
	}
	pct := float64(m.current) / float64(m.total)
	return fmt.Sprintf("%s\n  %s %d/%d\n", line, m.bar.ViewAs(pct), m.current, m.total)
}

// status runs a statusModel in the background. It implements both
// Spinner and ProgressBar.
type status struct {
	program *tea.Program
	once    sync.Once
}

// The program ignores input so Ctrl+C reaches the command's signal handler.
func startStatus(m statusModel, w io.Writer) *status {
	s := &status{program: tea.NewProgram(m, tea.WithOutput(w), tea.WithInput(nil))}
	go func() {
		_, _ = s.program.Run()
	}()
	return s
}

func (s *status) SetTitle(title string) { s.program.Send(titleMsg(title)) }

func (s *status) Increment(n int) { s.program.Send(advanceMsg(n)) }

func (s *status) Stop() {
	s.once.Do(func() {
		s.program.Send(stopMsg{})
		s.program.Wait()
	})
}

func (s *status) Done() { s.Stop() }

// lineBar reports each completed step as "[n/total] title".
type lineBar struct {
	title   string
	current int
	total   int
	w       io.Writer
}

func (b *lineBar) Increment(n int) {
	b.current = min(b.current+n, b.total)
	_, _ = fmt.Fprintf(b.w, "[%d/%d] %s\n", b.current, b.total, b.title)
}

func (b *lineBar) SetTitle(title string) { b.title = title }

func (b *lineBar) Done() {}

// lineSpinner prints every title change on its own line.
type lineSpinner struct {
	w io.Writer
}

func (s *lineSpinner) SetTitle(title string) { _, _ = fmt.Fprintln(s.w, title) }

func (s *lineSpinner) Stop() {}
