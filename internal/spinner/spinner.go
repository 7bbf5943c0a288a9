// Package spinner shows a one-line progress indicator while a single API
// call runs. The line is cleared when the call finishes.
package spinner

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

const defaultWidth = 80

// Run calls fn while a spinner labelled title is drawn on output. When output
// is not a terminal fn runs without any decoration. The error is fn's.
func Run(output io.Writer, title string, fn func() error) error {
	if output == nil {
		output = os.Stderr
	}
	width, ok := terminalWidth(output)
	if !ok {
		return fn()
	}

	p := tea.NewProgram(newModel(title, width),
		tea.WithOutput(output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	errCh := make(chan error, 1)
	go func() {
		err := fn()
		errCh <- err
		p.Send(doneMsg{})
	}()

	// A broken display must not hide the call's own result.
	_, _ = p.Run()
	return <-errCh
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width, true
	}
	return defaultWidth, true
}

type doneMsg struct{}

type model struct {
	spinner spinner.Model
	title   string
	width   int
	done    bool
}

func newModel(title string, width int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{spinner: s, title: title, width: width}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.done {
		return ""
	}

	// Spinner glyph plus one space.
	available := m.width - 3
	if available < 10 {
		available = 10
	}
	return m.spinner.View() + " " + ansi.Truncate(m.title, available, "...")
}
