// Package form implements the contact form state machine.
//
// A Form holds the raw field input and validation errors of one create or
// edit session. It validates locally before handing a normalized payload to
// the list machine, which owns every store call and the displayed list.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/validate"
)

// Sentinel errors for form operations.
var (
	// ErrReadOnly is returned when changing a field the session does not allow.
	ErrReadOnly = errors.New("field is read-only")

	// ErrBusy is returned by Submit while a previous submit is still running.
	ErrBusy = errors.New("submit already in progress")
)

// ValidationError reports the field errors of a rejected submit.
type ValidationError struct {
	Errors validate.Errors
}

// Error returns the primary field message.
func (e *ValidationError) Error() string {
	return e.Errors.Primary()
}

// Session is either a CreateSession or an EditSession.
type Session interface {
	session()
}

// CreateSession is a form session that adds a new contact.
type CreateSession struct{}

// EditSession is a form session that changes Target's name and phone.
type EditSession struct {
	Target contact.Contact
}

func (CreateSession) session() {}
func (EditSession) session()   {}

// List is the subset of the list machine the form drives.
// *listview.Machine implements it.
type List interface {
	Create(ctx context.Context, input contact.CreateInput) (contact.Contact, error)
	Update(ctx context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error)
	BeginEdit(c contact.Contact) error
	EndEdit()
}

// State is a read-only copy of the form.
type State struct {
	Session Session
	Fields  validate.Fields
	Errors  validate.Errors
	Busy    bool
}

// Editing reports whether the form is in an edit session.
func (s State) Editing() bool {
	_, ok := s.Session.(EditSession)
	return ok
}

// Form is the form state machine. Its methods are safe for concurrent use.
type Form struct {
	list List

	mu        sync.Mutex
	session   Session
	fields    validate.Fields
	errors    validate.Errors
	busy      bool
	gen       uint64 // bumped whenever the session is replaced
	listeners []func()
}

// New creates a Form in a blank create session.
func New(list List) *Form {
	return &Form{list: list, session: CreateSession{}}
}

// Subscribe registers fn to run after every state change.
func (f *Form) Subscribe(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs validate.Errors
	if len(f.errors) > 0 {
		errs = make(validate.Errors, len(f.errors))
		for k, v := range f.errors {
			errs[k] = v
		}
	}
	return State{Session: f.session, Fields: f.fields, Errors: errs, Busy: f.busy}
}

// StartEdit opens an edit session for c. The list machine must accept the
// edit first; if it rejects it the form is left unchanged.
func (f *Form) StartEdit(c contact.Contact) error {
	if err := f.list.BeginEdit(c); err != nil {
		return err
	}

	f.mu.Lock()
	f.reset(EditSession{Target: c}, validate.FieldsFrom(c))
	f.mu.Unlock()

	f.changed()
	return nil
}

// SetField updates a single field without validating it. The email of an
// existing contact cannot be changed.
func (f *Form) SetField(field validate.Field, value string) error {
	f.mu.Lock()
	if _, ok := f.session.(EditSession); ok && field == validate.FieldEmail {
		f.mu.Unlock()
		return ErrReadOnly
	}
	f.fields.Set(field, value)
	f.mu.Unlock()

	f.changed()
	return nil
}

// Cancel abandons an edit session and returns to a blank create session.
// It does nothing in a create session.
func (f *Form) Cancel() {
	f.mu.Lock()
	if _, ok := f.session.(EditSession); !ok {
		f.mu.Unlock()
		return
	}
	f.reset(CreateSession{}, validate.Fields{})
	f.mu.Unlock()

	f.list.EndEdit()
	f.changed()
}

// EditCleared resets the form when the list machine dropped the edit of id
// on its own. Register it with the list machine's OnEditCleared.
func (f *Form) EditCleared(id contact.ID) {
	f.mu.Lock()
	s, ok := f.session.(EditSession)
	if !ok || s.Target.ID != id {
		f.mu.Unlock()
		return
	}
	f.reset(CreateSession{}, validate.Fields{})
	f.mu.Unlock()

	f.changed()
}

// Submit validates the fields and, if they are valid, creates or updates
// the contact through the list machine.
//
// Invalid input returns a *ValidationError and never reaches the store. A
// store failure is returned as-is and leaves the fields in place so the user
// can retry. On success the form returns to a blank create session.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}

	payload, errs := validate.Validate(f.fields)
	if len(errs) > 0 {
		f.errors = errs
		f.mu.Unlock()
		f.changed()
		return &ValidationError{Errors: errs}
	}

	f.errors = nil
	f.busy = true
	session, gen := f.session, f.gen
	f.mu.Unlock()
	f.changed()

	var err error
	switch s := session.(type) {
	case EditSession:
		_, err = f.list.Update(ctx, s.Target.ID, payload.UpdateInput())
	default:
		_, err = f.list.Create(ctx, payload.CreateInput())
	}

	f.mu.Lock()
	f.busy = false
	// A cancel or new edit while the call ran owns the form now.
	current := gen == f.gen
	if err == nil && current {
		f.reset(CreateSession{}, validate.Fields{})
	}
	f.mu.Unlock()

	if _, editing := session.(EditSession); editing && err == nil && current {
		f.list.EndEdit()
	}
	f.changed()
	return err
}

func (f *Form) reset(s Session, fields validate.Fields) {
	f.session = s
	f.fields = fields
	f.errors = nil
	f.gen++
}

func (f *Form) changed() {
	f.mu.Lock()
	listeners := f.listeners
	f.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
