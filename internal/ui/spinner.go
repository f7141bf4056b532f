package ui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/z77ma/aspnetcore/internal/logger"
)

// ErrCanceled is returned when the user interrupts a spinner.
var ErrCanceled = errors.New("operation canceled")

// RunSpinner shows a Bubble Tea spinner on out while action runs and returns
// the action's error. The action receives a spinner whose Update sets the
// status line, and a context that is cancelled if the user presses ctrl+c.
func RunSpinner(ctx context.Context, out io.Writer, title string, action func(context.Context, logger.Spinner) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newSpinnerModel(title)
	p := tea.NewProgram(m, tea.WithOutput(out))
	m.run = func() tea.Msg {
		return actionDoneMsg{err: action(ctx, programSpinner{p: p})}
	}
	m.cancel = cancel
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}

type actionDoneMsg struct{ err error }

type statusMsg string

// programSpinner forwards status updates into a running program.
type programSpinner struct{ p *tea.Program }

func (s programSpinner) Update(text string) { s.p.Send(statusMsg(text)) }
func (s programSpinner) Stop()              {}
func (s programSpinner) Fail()              {}

type spinnerModel struct {
	title  string
	status string
	spin   spinner.Model
	done   bool
	err    error
	run    tea.Cmd
	cancel context.CancelFunc

	style  lipgloss.Style
	muted  lipgloss.Style
	okMark lipgloss.Style
	bad    lipgloss.Style
}

func newSpinnerModel(title string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &spinnerModel{
		title:  title,
		spin:   s,
		style:  lipgloss.NewStyle().Padding(0, 1),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		okMark: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	if m.run == nil {
		return m.spin.Tick
	}
	return tea.Batch(m.spin.Tick, m.run)
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.done = true
			m.err = ErrCanceled
			return m, tea.Quit
		}
	case statusMsg:
		m.status = string(msg)
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return m.style.Render(m.bad.Render("✗") + " " + m.title + " (" + m.err.Error() + ")\n")
		}
		return m.style.Render(m.okMark.Render("✓") + " " + m.title + "\n")
	}
	line := m.spin.View() + " " + m.title
	if m.status != "" {
		line += " " + m.muted.Render(m.status)
	}
	return m.style.Render(line)
}
