package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Clear   key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Quit    key.Binding
	Force   key.Binding
	Submit  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Decline key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:   key.NewBinding(key.WithKeys("ctrl+c")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
		Decline: key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "keep")),
	}
}

// contextHelp implements help.KeyMap for whichever bindings are live.
type contextHelp []key.Binding

func (h contextHelp) ShortHelp() []key.Binding { return h }

func (h contextHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (m *Model) helpKeys() contextHelp {
	k := m.keys
	switch {
	case m.listState.PendingRemoval != nil:
		return contextHelp{k.Confirm, k.Decline}
	case m.mode == modeSearch:
		return contextHelp{
			k.Submit,
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		}
	case m.mode == modeForm:
		return contextHelp{
			k.Submit, k.Next, k.Prev,
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	default:
		return contextHelp{k.Up, k.Down, k.Search, k.Add, k.Edit, k.Delete, k.Reload, k.Quit}
	}
}
