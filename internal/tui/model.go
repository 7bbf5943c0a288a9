// Package tui is the interactive contact browser. It renders the list and
// form state machines and forwards key presses to them; all contact state
// lives in those machines.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/form"
	"github.com/jmgilman/minicrm/internal/listview"
	"github.com/jmgilman/minicrm/internal/notify"
	"github.com/jmgilman/minicrm/internal/validate"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
)

// Lines used by everything except the table.
const chromeHeight = 7

var fieldOrder = []validate.Field{validate.FieldName, validate.FieldEmail, validate.FieldPhone}

var fieldLabels = map[validate.Field]string{
	validate.FieldName:  "Name",
	validate.FieldEmail: "Email",
	validate.FieldPhone: "Phone",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Width(7).Bold(true)
	fieldErStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

// refreshMsg tells the model a machine changed state.
type refreshMsg struct{}

type op int

const (
	opReload op = iota
	opSearch
	opSubmit
	opRemove
)

// doneMsg carries the result of a blocking machine call.
type doneMsg struct {
	op  op
	err error
}

// Model is the bubbletea model for the contact browser.
type Model struct {
	ctx     context.Context
	list    *listview.Machine
	form    *form.Form
	toaster *notify.Toaster

	keys   keyMap
	help   help.Model
	search textinput.Model
	inputs []textinput.Model
	table  table.Model

	mode    mode
	focus   int
	editing bool
	width   int

	listState listview.State
	formState form.State
}

// New creates a Model over the given machines. Machine calls made by the
// model use ctx.
func New(ctx context.Context, list *listview.Machine, f *form.Form, toaster *notify.Toaster) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by name or email"

	inputs := make([]textinput.Model, len(fieldOrder))
	for i, field := range fieldOrder {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(fieldLabels[field])
		if field == validate.FieldName {
			in.CharLimit = 100
		}
		inputs[i] = in
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 28},
			{Title: "Phone", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := Model{
		ctx:     ctx,
		list:    list,
		form:    f,
		toaster: toaster,
		keys:    defaultKeys(),
		help:    help.New(),
		search:  search,
		inputs:  inputs,
		table:   t,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m Model) Init() tea.Cmd {
	return m.call(opReload, m.list.Reload)
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case refreshMsg:
		m.sync()
		return m, nil

	case doneMsg:
		m.sync()
		m.finish(msg)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch {
		case m.listState.PendingRemoval != nil:
			cmd = m.updateConfirm(msg)
		case m.mode == modeSearch:
			cmd = m.updateSearch(msg)
		case m.mode == modeForm:
			cmd = m.updateForm(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
		m.sync()
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.table.Blur()
		return m.search.Focus()

	case key.Matches(msg, m.keys.Clear):
		if m.listState.Query == "" {
			return nil
		}
		m.search.SetValue("")
		return m.call(opSearch, m.list.ClearSearch)

	case key.Matches(msg, m.keys.Add):
		m.openForm(false)
		return textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		c, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.form.StartEdit(c); err != nil {
			m.toaster.Notify(err.Error(), notify.KindError)
			return nil
		}
		m.openForm(true)
		return textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		c, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.list.RequestRemove(c.ID); err != nil {
			m.toaster.Notify(err.Error(), notify.KindError)
		}
		return nil

	case key.Matches(msg, m.keys.Reload):
		return m.call(opReload, m.list.Reload)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.leaveSearch()
		return m.call(opSearch, m.list.SubmitSearch)
	case tea.KeyEsc:
		m.search.SetValue("")
		m.leaveSearch()
		return m.call(opSearch, m.list.ClearSearch)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.list.Search(m.ctx, v)
	}
	return cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc:
		if m.formState.Editing() {
			m.form.Cancel()
		}
		m.closeForm()
		return nil

	case key.Matches(msg, m.keys.Submit):
		if m.formState.Busy {
			return nil
		}
		return m.call(opSubmit, m.form.Submit)

	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return textinput.Blink

	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return textinput.Blink
	}

	field := fieldOrder[m.focus]
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if v := m.inputs[m.focus].Value(); v != before {
		if err := m.form.SetField(field, v); err != nil {
			m.inputs[m.focus].SetValue(before)
		}
	}
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.call(opRemove, m.list.ConfirmRemove)
	case key.Matches(msg, m.keys.Decline):
		m.list.DeclineRemove()
	}
	return nil
}

// finish reacts to a completed machine call. Failures have already been
// reported through the notifier, so only the form needs attention here.
func (m *Model) finish(msg doneMsg) {
	if msg.op != opSubmit || m.mode != modeForm {
		return
	}
	var verr *form.ValidationError
	switch {
	case msg.err == nil:
		m.closeForm()
	case errors.As(msg.err, &verr):
		for i, field := range fieldOrder {
			if verr.Errors.Has(field) && m.focusable(i) {
				m.setFocus(i)
				break
			}
		}
	}
}

func (m *Model) openForm(editing bool) {
	m.mode = modeForm
	m.editing = editing
	m.table.Blur()
	m.formState = m.form.Snapshot()
	m.loadInputs()
	m.setFocus(0)
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Focus()
}

func (m *Model) leaveSearch() {
	m.mode = modeBrowse
	m.search.Blur()
	m.table.Focus()
}

// focusable reports whether input i accepts typing. The email of an
// existing contact is read-only.
func (m *Model) focusable(i int) bool {
	return !(m.formState.Editing() && fieldOrder[i] == validate.FieldEmail)
}

func (m *Model) setFocus(i int) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	m.inputs[i].Focus()
}

func (m *Model) moveFocus(delta int) {
	n := len(m.inputs)
	i := m.focus
	for range n {
		i = (i + delta + n) % n
		if m.focusable(i) {
			m.setFocus(i)
			return
		}
	}
}

func (m *Model) loadInputs() {
	for i, field := range fieldOrder {
		if v := m.formState.Fields.Get(field); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}
}

func (m *Model) selected() (contact.Contact, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.listState.Contacts) {
		return contact.Contact{}, false
	}
	return m.listState.Contacts[i], true
}

// sync pulls fresh snapshots from the machines into the view.
func (m *Model) sync() {
	m.listState = m.list.Snapshot()
	m.formState = m.form.Snapshot()

	rows := make([]table.Row, len(m.listState.Contacts))
	for i, c := range m.listState.Contacts {
		rows[i] = table.Row{c.ID.String(), c.Name, c.Email, c.PhoneOrEmpty()}
	}
	m.table.SetRows(rows)
	if n := len(rows); m.table.Cursor() >= n && n > 0 {
		m.table.SetCursor(n - 1)
	}

	if m.mode != modeSearch && m.search.Value() != m.listState.Query {
		m.search.SetValue(m.listState.Query)
	}
	if m.mode == modeForm {
		m.loadInputs()
		// The contact under edit went away, or the edit was saved elsewhere.
		if m.editing && !m.formState.Editing() && !m.formState.Busy {
			m.closeForm()
		}
	}
}

// call runs fn off the event loop and reports back with a doneMsg.
func (m *Model) call(o op, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: o, err: fn(ctx)}
	}
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("minicrm"))
	if m.listState.Loading {
		b.WriteString(dimStyle.Render("  loading…"))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.mode == modeForm:
		b.WriteString(m.formView())
	case len(m.listState.Contacts) == 0 && !m.listState.Loading:
		b.WriteString(dimStyle.Render(emptyText(m.listState.Query)))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if id := m.listState.PendingRemoval; id != nil {
		b.WriteString(confirmStyle.Render(confirmText(m.listState.Contacts, *id)))
		b.WriteString("\n")
	}

	if n, ok := m.toaster.Current(); ok {
		b.WriteString(notify.Render(n))
	}
	b.WriteString("\n")

	h := m.helpKeys()
	b.WriteString(m.help.View(h))
	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder

	title := "Add contact"
	if m.formState.Editing() {
		title = "Edit contact"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for i, field := range fieldOrder {
		b.WriteString(labelStyle.Render(fieldLabels[field]))
		if m.focusable(i) {
			b.WriteString(m.inputs[i].View())
		} else {
			b.WriteString(m.formState.Fields.Get(field))
			b.WriteString(dimStyle.Render("  (cannot be changed)"))
		}
		b.WriteString("\n")
		if msg, ok := m.formState.Errors[field]; ok {
			b.WriteString(fieldErStyle.Render("       " + msg))
			b.WriteString("\n")
		}
	}
	if m.formState.Busy {
		b.WriteString(dimStyle.Render("saving…"))
		b.WriteString("\n")
	}
	return b.String()
}

func emptyText(query string) string {
	if query != "" {
		return fmt.Sprintf("No contacts match %q", query)
	}
	return "No contacts yet. Press a to add one."
}

func confirmText(contacts []contact.Contact, id contact.ID) string {
	name := "this contact"
	if i := contact.IndexOf(contacts, id); i >= 0 {
		name = contacts[i].Name
	}
	return fmt.Sprintf("Delete %s? (y/n)", name)
}
