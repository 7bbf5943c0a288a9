// Package listview implements the contact list state machine: the only owner
// of the locally displayed contact list.
//
// The machine keeps the list consistent with the remote store by replacing it
// wholesale after every mutation and after search queries settle. Each reload
// is tagged with the query it was issued for and a sequence number; a result
// is applied only while that query is still current and no newer reload has
// been applied, so out-of-order responses never overwrite fresher data.
//
// All methods are safe for concurrent use. Store calls run without the
// internal lock held; listeners are invoked without it as well.
package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/debounce"
	"github.com/jmgilman/minicrm/internal/notify"
)

// DefaultDebounce is the quiet window before a search reload fires.
const DefaultDebounce = 300 * time.Millisecond

// Sentinel errors for list operations.
var (
	// ErrNotListed is returned when an operation targets a contact that is not
	// in the current list.
	ErrNotListed = errors.New("contact is not in the current list")

	// ErrNoPendingRemoval is returned by ConfirmRemove when nothing awaits confirmation.
	ErrNoPendingRemoval = errors.New("no removal awaiting confirmation")

	// ErrSuperseded is returned by a reload whose result was discarded because
	// the query changed or a newer reload was applied first.
	ErrSuperseded = errors.New("reload superseded")
)

// Notification messages.
const (
	msgEditTargetGone = "The contact you were editing no longer exists"
)

// State is a read-only copy of the list view state.
type State struct {
	Contacts       []contact.Contact
	Loading        bool
	Query          string
	EditingID      *contact.ID // Contact under edit, nil when none
	PendingRemoval *contact.ID // Contact awaiting delete confirmation, nil when none
}

// Editing returns the contact under edit, if any.
func (s State) Editing() (contact.Contact, bool) {
	if s.EditingID == nil {
		return contact.Contact{}, false
	}
	if i := contact.IndexOf(s.Contacts, *s.EditingID); i >= 0 {
		return s.Contacts[i], true
	}
	return contact.Contact{}, false
}

// Option configures a Machine.
type Option func(*Machine)

// WithDebounce sets the search debounce window.
func WithDebounce(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.debounce = debounce.New(d)
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Machine is the contact list state machine.
type Machine struct {
	store    contact.Store
	notifier notify.Notifier
	logger   *slog.Logger
	debounce *debounce.Debouncer
	flight   singleflight.Group

	mu             sync.Mutex
	contacts       []contact.Contact
	query          string
	inflight       int
	issued         uint64
	applied        uint64
	editing        *contact.ID
	pendingRemoval *contact.ID
	listeners      []func()
	editCleared    []func(contact.ID)
}

// New creates a Machine backed by store that reports to notifier.
func New(store contact.Store, notifier notify.Notifier, opts ...Option) *Machine {
	if notifier == nil {
		notifier = notify.Discard
	}
	m := &Machine{
		store:    store,
		notifier: notifier,
		logger:   slog.New(slog.DiscardHandler),
		debounce: debounce.New(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Close cancels any pending search reload.
func (m *Machine) Close() {
	m.debounce.Stop()
}

// Subscribe registers fn to run after every state change.
func (m *Machine) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// OnEditCleared registers fn to run when the machine ends an edit session on
// its own, because the contact was removed or vanished from a reload.
func (m *Machine) OnEditCleared(fn func(contact.ID)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editCleared = append(m.editCleared, fn)
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Contacts:       cloneContacts(m.contacts),
		Loading:        m.inflight > 0,
		Query:          m.query,
		EditingID:      copyID(m.editing),
		PendingRemoval: copyID(m.pendingRemoval),
	}
}

// Reload replaces the list with the store's result for the current query.
// On failure the previous list is kept and the error is reported to the
// notifier. Returns ErrSuperseded if the result was discarded.
func (m *Machine) Reload(ctx context.Context) error {
	return m.reload(ctx, m.currentQuery(), false)
}

// Search sets the query immediately and schedules a reload once typing has
// paused for the debounce window. A pending reload from an earlier call is
// replaced.
func (m *Machine) Search(ctx context.Context, query string) {
	m.mu.Lock()
	m.query = query
	m.mu.Unlock()
	m.changed()

	// The reload outlives the keystroke that triggered it.
	rctx := context.WithoutCancel(ctx)
	m.debounce.Trigger(func() {
		if err := m.reload(rctx, query, false); err != nil {
			m.logger.Debug("debounced reload", "query", query, "error", err)
		}
	})
}

// SubmitSearch reloads the current query immediately, skipping the debounce.
func (m *Machine) SubmitSearch(ctx context.Context) error {
	m.debounce.Cancel()
	return m.Reload(ctx)
}

// ClearSearch empties the query and reloads the unfiltered list immediately.
func (m *Machine) ClearSearch(ctx context.Context) error {
	m.debounce.Cancel()

	m.mu.Lock()
	m.query = ""
	m.mu.Unlock()
	m.changed()

	return m.reload(ctx, "", false)
}

// Create adds a contact through the store and reloads the list.
// A failed reload after a successful create is reported to the notifier but
// does not fail the call.
func (m *Machine) Create(ctx context.Context, input contact.CreateInput) (contact.Contact, error) {
	c, err := m.store.Create(ctx, input)
	if err != nil {
		m.notifier.Notify("Failed to add contact: "+err.Error(), notify.KindError)
		return contact.Contact{}, fmt.Errorf("create contact: %w", err)
	}

	m.notifier.Notify(fmt.Sprintf("Added %s", c.Name), notify.KindSuccess)
	m.reloadAfterMutation(ctx)
	return c, nil
}

// Update changes a contact's name and phone through the store and reloads
// the list. A successful update ends the edit session on id.
func (m *Machine) Update(ctx context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error) {
	c, err := m.store.Update(ctx, id, input)
	if err != nil {
		m.notifier.Notify("Failed to update contact: "+err.Error(), notify.KindError)
		return contact.Contact{}, fmt.Errorf("update contact %s: %w", id, err)
	}

	// An edit of id ends here, even if the new name no longer matches the query.
	m.mu.Lock()
	ended := m.editing != nil && *m.editing == id
	if ended {
		m.editing = nil
	}
	m.mu.Unlock()
	if ended {
		m.changed()
	}

	m.notifier.Notify(fmt.Sprintf("Updated %s", c.Name), notify.KindSuccess)
	m.reloadAfterMutation(ctx)
	return c, nil
}

// RequestRemove marks a listed contact as awaiting delete confirmation.
func (m *Machine) RequestRemove(id contact.ID) error {
	m.mu.Lock()
	if contact.IndexOf(m.contacts, id) < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotListed, id)
	}
	m.pendingRemoval = &id
	m.mu.Unlock()

	m.changed()
	return nil
}

// DeclineRemove abandons the pending removal, if any.
func (m *Machine) DeclineRemove() {
	m.mu.Lock()
	had := m.pendingRemoval != nil
	m.pendingRemoval = nil
	m.mu.Unlock()

	if had {
		m.changed()
	}
}

// ConfirmRemove deletes the contact awaiting confirmation.
func (m *Machine) ConfirmRemove(ctx context.Context) error {
	m.mu.Lock()
	pending := m.pendingRemoval
	m.pendingRemoval = nil
	m.mu.Unlock()

	if pending == nil {
		return ErrNoPendingRemoval
	}
	m.changed()
	return m.remove(ctx, *pending)
}

// Remove deletes a contact when confirmed is true. An unconfirmed call does
// nothing.
func (m *Machine) Remove(ctx context.Context, id contact.ID, confirmed bool) error {
	if !confirmed {
		return nil
	}
	return m.remove(ctx, id)
}

// BeginEdit marks c as under edit. It fails with ErrNotListed when c is not
// in the current list, e.g. because a reload just dropped it.
func (m *Machine) BeginEdit(c contact.Contact) error {
	m.mu.Lock()
	if contact.IndexOf(m.contacts, c.ID) < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotListed, c.ID)
	}
	id := c.ID
	m.editing = &id
	m.mu.Unlock()

	m.changed()
	return nil
}

// EndEdit clears the edit session.
func (m *Machine) EndEdit() {
	m.mu.Lock()
	had := m.editing != nil
	m.editing = nil
	m.mu.Unlock()

	if had {
		m.changed()
	}
}

func (m *Machine) remove(ctx context.Context, id contact.ID) error {
	if err := m.store.Remove(ctx, id); err != nil {
		m.notifier.Notify("Failed to delete contact: "+err.Error(), notify.KindError)
		return fmt.Errorf("remove contact %s: %w", id, err)
	}

	m.mu.Lock()
	var cleared []func(contact.ID)
	if m.editing != nil && *m.editing == id {
		m.editing = nil
		cleared = m.editCleared
	}
	m.mu.Unlock()

	for _, fn := range cleared {
		fn(id)
	}

	m.notifier.Notify("Contact deleted", notify.KindSuccess)
	m.reloadAfterMutation(ctx)
	return nil
}

// reloadAfterMutation reloads the current query, bypassing any in-flight
// reload that started before the mutation landed.
func (m *Machine) reloadAfterMutation(ctx context.Context) {
	query := m.currentQuery()
	if err := m.reload(ctx, query, true); err != nil {
		m.logger.Debug("reload after mutation", "query", query, "error", err)
	}
}

func (m *Machine) reload(ctx context.Context, query string, fresh bool) error {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	m.inflight++
	m.mu.Unlock()
	m.changed()

	if fresh {
		m.flight.Forget(query)
	}
	v, err, shared := m.flight.Do(query, func() (any, error) {
		return m.store.List(ctx, query)
	})

	m.mu.Lock()
	m.inflight--
	stale := query != m.query || seq < m.applied

	var (
		editGone  bool
		cleared   []func(contact.ID)
		clearedID contact.ID
	)
	switch {
	case stale:
		// Dropped below, after the lock is released.
	case err != nil:
		// Keep the previous list.
	default:
		list, _ := v.([]contact.Contact)
		m.contacts = cloneContacts(list)
		m.applied = seq

		if m.editing != nil && contact.IndexOf(m.contacts, *m.editing) < 0 {
			editGone = true
			clearedID = *m.editing
			m.editing = nil
			cleared = m.editCleared
		}
		if m.pendingRemoval != nil && contact.IndexOf(m.contacts, *m.pendingRemoval) < 0 {
			m.pendingRemoval = nil
		}
	}
	m.mu.Unlock()
	m.changed()

	m.logger.Debug("reload finished",
		"query", query, "seq", seq, "shared", shared, "stale", stale, "error", err)

	if stale {
		return ErrSuperseded
	}
	if err != nil {
		m.notifier.Notify("Failed to load contacts: "+err.Error(), notify.KindError)
		return fmt.Errorf("list contacts: %w", err)
	}
	if editGone {
		m.notifier.Notify(msgEditTargetGone, notify.KindError)
		for _, fn := range cleared {
			fn(clearedID)
		}
	}
	return nil
}

func (m *Machine) currentQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

func (m *Machine) changed() {
	m.mu.Lock()
	listeners := m.listeners
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func cloneContacts(in []contact.Contact) []contact.Contact {
	out := make([]contact.Contact, len(in))
	for i, c := range in {
		if c.Phone != nil {
			phone := *c.Phone
			c.Phone = &phone
		}
		out[i] = c
	}
	return out
}

func copyID(id *contact.ID) *contact.ID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
