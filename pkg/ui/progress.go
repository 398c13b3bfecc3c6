package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostfolk/pveforge/pkg/provision"
)

// RunFunc drives a provisioning run and reports progress through the
// given callback. It is the bridge between the sequencer and the view.
type RunFunc func(progress provision.ProgressCallback) (*provision.Result, error)

type progressMsg provision.ProgressEvent

type completeMsg struct {
	result *provision.Result
	err    error
}

// progressModel is a Bubble Tea model for provisioning progress.
type progressModel struct {
	title string
	run   RunFunc

	spinner     spinner.Model
	progressBar progress.Model
	events      []provision.ProgressEvent
	eventChan   chan provision.ProgressEvent
	result      *provision.Result
	err         error
	done        bool
	quitting    bool

	width  int
	height int
}

func newProgressModel(title string, run RunFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return progressModel{
		title:       title,
		run:         run,
		spinner:     s,
		progressBar: p,
		events:      make([]provision.ProgressEvent, 0),
		eventChan:   make(chan provision.ProgressEvent, 100),
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRun(),
		m.waitForEvent(),
	)
}

func (m progressModel) startRun() tea.Cmd {
	return func() tea.Msg {
		callback := func(e provision.ProgressEvent) {
			m.eventChan <- e
		}

		result, err := m.run(callback)
		close(m.eventChan)

		return completeMsg{result: result, err: err}
	}
}

func (m progressModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return progressMsg(event)
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressBar, cmd := m.progressBar.Update(msg)
		m.progressBar = progressBar.(progress.Model)
		return m, cmd

	case progressMsg:
		m.events = append(m.events, provision.ProgressEvent(msg))
		return m, tea.Batch(
			m.waitForEvent(),
			m.progressBar.SetPercent(float64(msg.Percent)/100.0),
		)

	case completeMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.quitting && !m.done {
		return "\n  Cancelling...\n"
	}

	var s strings.Builder

	header := TitleStyle.Render(" " + m.title + " ")
	s.WriteString("\n")
	s.WriteString(header)
	s.WriteString("\n\n")

	if len(m.events) > 0 {
		lastEvent := m.events[len(m.events)-1]
		percent := lastEvent.Percent
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		s.WriteString("  ")
		s.WriteString(m.progressBar.ViewAs(float64(percent) / 100.0))
		s.WriteString(fmt.Sprintf(" %d%%", percent))
		s.WriteString("\n\n")
	}

	for i, event := range m.events {
		isLast := i == len(m.events)-1 && !m.done

		icon := "  "
		msgStyle := DimStyle

		if event.IsError {
			icon = ErrorStyle.Render("  ✗")
			msgStyle = ErrorStyle
		} else if event.Stage == provision.StageComplete {
			icon = SuccessStyle.Render("  ✓")
			msgStyle = SuccessStyle
		} else if isLast {
			icon = InfoStyle.Render("  ●")
			msgStyle = lipgloss.NewStyle()
		} else {
			icon = SuccessStyle.Render("  ✓")
		}

		s.WriteString(icon)
		s.WriteString(" ")
		s.WriteString(msgStyle.Render(event.Message))
		s.WriteString("\n")

		if event.Command != "" && (isLast || event.IsError) {
			s.WriteString("      ")
			s.WriteString(CommandStyle.Render("$ " + event.Command))
			s.WriteString("\n")
		}

		if event.Detail != "" && (isLast || event.IsError) {
			s.WriteString("      ")
			s.WriteString(DimStyle.Render(event.Detail))
			s.WriteString("\n")
		}
	}

	if !m.done && len(m.events) > 0 {
		s.WriteString("\n  ")
		s.WriteString(m.spinner.View())
		s.WriteString(" Working...")
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if !m.done {
		s.WriteString(DimStyle.Render("  Press Ctrl+C to cancel"))
		s.WriteString("\n")
	}

	return s.String()
}

// RunWithProgress executes run inside the full-screen progress view and
// returns the provisioning result once it finishes.
func RunWithProgress(title string, run RunFunc) (*provision.Result, error) {
	model := newProgressModel(title, run)
	p := tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}

	m, ok := final.(progressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type")
	}
	if m.quitting && !m.done {
		return nil, fmt.Errorf("cancelled")
	}
	return m.result, m.err
}

// RunPlain executes run without the interactive view, echoing each
// progress event through the logger. Used when stdout is not a TTY or
// --plain is set.
func RunPlain(logger *Logger, run RunFunc) (*provision.Result, error) {
	return run(func(e provision.ProgressEvent) {
		// Messages are data, not format strings.
		switch {
		case e.IsError:
			logger.Error("%s", e.Message)
		case e.Stage == provision.StageComplete:
			logger.OK("%s", e.Message)
		default:
			logger.Info("%s", e.Message)
		}
		if e.Command != "" {
			logger.Command(e.Command)
		}
		if e.Detail != "" {
			logger.Debug("%s", e.Detail)
		}
	})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
