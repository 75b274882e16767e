// Package tui provides a Bubble Tea terminal view for static-gallery render runs.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/static-gallery/internal/render"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	collectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateRendering State = iota
	StateInterrupting
	StateComplete
	StateError
)

// LogLevel classifies a log line.
type LogLevel int

const (
	LevelVerbose LogLevel = iota
	LevelWarning
	LevelError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   LogLevel
}

// ProgressSource reports the progress of a running render.
type ProgressSource interface {
	Progress() render.Progress
}

// Work performs the render run shown by the view.
type Work func(ctx context.Context) (render.Report, error)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state       State
	spinner     spinner.Model
	progress    progress.Model
	collections []string
	logs        []LogEntry
	verbose     bool

	source ProgressSource
	work   Work
	ctx    context.Context
	cancel context.CancelFunc

	current render.Progress
	failed  int
	report  render.Report
	err     error

	width int
}

// NewModel creates a new TUI model rendering the given collections.
func NewModel(ctx context.Context, collections []string, source ProgressSource, work Work, verbose bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(ctx)

	return Model{
		state:       StateRendering,
		spinner:     sp,
		progress:    prog,
		collections: collections,
		logs:        make([]LogEntry, 0),
		verbose:     verbose,
		source:      source,
		work:        work,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Init starts the render run and the progress ticks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRender(), m.tickProgress())
}

// Message types
type (
	// EventMsg carries a finished render job.
	EventMsg struct {
		Event render.Event
	}

	// DoneMsg is sent when the render run returns.
	DoneMsg struct {
		Report render.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.state == StateRendering {
				// Jobs in flight still finish; DoneMsg ends the program.
				m.cancel()
				m.state = StateInterrupting
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		m.log(msg.Event)

	case DoneMsg:
		m.report = msg.Report
		m.err = msg.Err
		m.current = m.source.Progress()
		if msg.Err != nil {
			m.state = StateError
		} else {
			m.state = StateComplete
		}
		m.cancel()
		return m, tea.Quit

	case TickMsg:
		if m.state == StateRendering || m.state == StateInterrupting {
			m.current = m.source.Progress()
			cmds = append(cmds, m.progress.SetPercent(m.current.Percent()/100), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// log records a job outcome. Successes are only shown in verbose mode.
func (m *Model) log(ev render.Event) {
	entry := LogEntry{
		Message: fmt.Sprintf("%s %s", ev.Job.Kind, filepath.Base(ev.Job.Source)),
		Level:   LevelVerbose,
	}
	if ev.Err != nil {
		m.failed++
		entry = LogEntry{
			Message: fmt.Sprintf("%s %s: %v", ev.Job.Kind, filepath.Base(ev.Job.Source), ev.Err),
			Level:   LevelError,
		}
	} else if !m.verbose {
		return
	}

	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// startRender runs the work in the background.
func (m Model) startRender() tea.Cmd {
	return func() tea.Msg {
		report, err := m.work(m.ctx)
		return DoneMsg{Report: report, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Static Gallery"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Rendering %d collection(s)", len(m.collections))))
	b.WriteString("\n\n")

	switch m.state {
	case StateRendering, StateInterrupting:
		b.WriteString(m.viewRendering())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewRendering() string {
	var b strings.Builder

	for _, name := range m.collections {
		b.WriteString(collectionStyle.Render("  ▣ " + name))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.state == StateInterrupting {
		b.WriteString(warningStyle.Render("Finishing started jobs..."))
	} else {
		b.WriteString(subtitleStyle.Render("Rendering artifacts..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.current.Percent() / 100))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Artifacts: %d/%d | Active: %d | Failed: %d",
		m.current.Done,
		m.current.Total,
		m.current.Active,
		m.failed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	summary := fmt.Sprintf(
		"Rendering complete!\n\n"+
			"Rendered: %d\n"+
			"Failed: %d",
		m.report.Completed,
		len(m.report.Failures),
	)
	if len(m.report.Failures) > 0 {
		return boxStyle.Render(summary) + "\n" + m.renderLogs()
	}
	return boxStyle.Render(successStyle.Render(summary))
}

func (m Model) viewError() string {
	var b strings.Builder

	if errors.Is(m.err, context.Canceled) {
		b.WriteString(warningStyle.Render("Rendering interrupted"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  rendered %d, skipped %d", m.report.Completed, m.report.Skipped()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case LevelError:
			style = errorStyle
			prefix = "✗"
		case LevelWarning:
			style = warningStyle
			prefix = "!"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateRendering:
		return "esc/ctrl+c: interrupt"
	case StateInterrupting:
		return "waiting for running jobs"
	}
	return ""
}

// Session connects a render engine to a terminal view.
//
// Observe is handed to the engine as its Observer before Run is called:
//
//	s := tui.NewSession(names, verbose)
//	engine := render.NewEngine(codec, render.Options{Observer: s.Observe})
//	report, err := s.Run(ctx, engine, func(ctx context.Context) (render.Report, error) {
//	    return g.RenderAll(ctx, outputDir, engine)
//	})
type Session struct {
	collections []string
	verbose     bool
	program     *tea.Program
}

// NewSession creates a session for the given collection names.
func NewSession(collections []string, verbose bool) *Session {
	return &Session{collections: collections, verbose: verbose}
}

// Observe forwards a render event to the view.
func (s *Session) Observe(ev render.Event) {
	if s.program != nil {
		s.program.Send(EventMsg{Event: ev})
	}
}

// Run shows the view until work returns and passes on its result.
func (s *Session) Run(ctx context.Context, source ProgressSource, work Work, opts ...tea.ProgramOption) (render.Report, error) {
	s.program = tea.NewProgram(NewModel(ctx, s.collections, source, work, s.verbose), opts...)

	final, err := s.program.Run()
	if err != nil {
		return render.Report{}, err
	}

	m := final.(Model)
	return m.report, m.err
}
