package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmgilman/minicrm/internal/form"
	"github.com/jmgilman/minicrm/internal/listview"
	"github.com/jmgilman/minicrm/internal/notify"
)

// Run starts the contact browser and blocks until the user quits or ctx is
// canceled. opts are passed to the bubbletea program.
func Run(ctx context.Context, list *listview.Machine, f *form.Form, toaster *notify.Toaster, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(New(ctx, list, f, toaster),
		append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	// Listeners fire from inside machine calls, some of which run on the
	// event loop, so the send must not block.
	refresh := func() { go p.Send(refreshMsg{}) }
	list.Subscribe(refresh)
	f.Subscribe(refresh)
	toaster.Subscribe(refresh)

	_, err := p.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
