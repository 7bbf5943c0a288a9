package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/contact/contacttest"
	"github.com/jmgilman/minicrm/internal/contact/mocks"
	"github.com/jmgilman/minicrm/internal/listview"
	"github.com/jmgilman/minicrm/internal/notify"
	notifymocks "github.com/jmgilman/minicrm/internal/notify/mocks"
	"github.com/jmgilman/minicrm/internal/validate"
)

func ann() contact.Contact {
	return contact.Contact{ID: 1, Name: "Ann", Email: "ann@x.com"}
}

// setup returns a form wired to a list machine over store, with the list
// already loaded.
func setup(t *testing.T, store contact.Store) (*Form, *listview.Machine) {
	t.Helper()

	list := listview.New(store, notify.Discard)
	t.Cleanup(list.Close)
	require.NoError(t, list.Reload(context.Background()))

	f := New(list)
	list.OnEditCleared(f.EditCleared)
	return f, list
}

func fill(t *testing.T, f *Form, name, email, phone string) {
	t.Helper()
	require.NoError(t, f.SetField(validate.FieldName, name))
	require.NoError(t, f.SetField(validate.FieldEmail, email))
	require.NoError(t, f.SetField(validate.FieldPhone, phone))
}

func TestNew(t *testing.T) {
	f := New(nil)

	state := f.Snapshot()
	assert.Equal(t, CreateSession{}, state.Session)
	assert.False(t, state.Editing())
	assert.Equal(t, validate.Fields{}, state.Fields)
}

func TestForm_Submit_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the contact and blanks the fields", func(t *testing.T) {
		store := contacttest.NewMemoryStore(ann())
		f, list := setup(t, store)
		fill(t, f, "  Bob ", "bob@x.com", "")

		require.NoError(t, f.Submit(ctx))

		state := f.Snapshot()
		assert.Equal(t, CreateSession{}, state.Session)
		assert.Equal(t, validate.Fields{}, state.Fields)
		assert.Empty(t, state.Errors)

		got, ok := store.Get(2)
		require.True(t, ok)
		assert.Equal(t, "Bob", got.Name)
		assert.Nil(t, got.Phone)
		assert.Len(t, list.Snapshot().Contacts, 2)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		store := &mocks.StoreMock{
			ListFunc: func(ctx context.Context, query string) ([]contact.Contact, error) {
				return nil, nil
			},
		}
		f, _ := setup(t, store)
		fill(t, f, "   ", "not-an-email", "abc")

		err := f.Submit(ctx)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, validate.MsgNameRequired, verr.Error())
		assert.Empty(t, store.CreateCalls())

		state := f.Snapshot()
		assert.Equal(t, validate.MsgNameRequired, state.Errors[validate.FieldName])
		assert.Equal(t, validate.MsgInvalidEmail, state.Errors[validate.FieldEmail])
		assert.Equal(t, validate.MsgInvalidPhone, state.Errors[validate.FieldPhone])
		assert.Equal(t, "not-an-email", state.Fields.Email)
	})

	t.Run("store failure keeps the fields for a retry", func(t *testing.T) {
		store := contacttest.NewMemoryStore(ann())
		f, _ := setup(t, store)
		fill(t, f, "Ann Again", "ann@x.com", "555-2222")

		err := f.Submit(ctx)

		require.ErrorIs(t, err, contact.ErrEmailTaken)
		state := f.Snapshot()
		assert.Equal(t, validate.Fields{Name: "Ann Again", Email: "ann@x.com", Phone: "555-2222"}, state.Fields)
		assert.False(t, state.Busy)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("successful submit clears earlier field errors", func(t *testing.T) {
		f, _ := setup(t, contacttest.NewMemoryStore())
		fill(t, f, "", "bob@x.com", "")
		require.Error(t, f.Submit(ctx))

		require.NoError(t, f.SetField(validate.FieldName, "Bob"))
		require.NoError(t, f.Submit(ctx))

		assert.Empty(t, f.Snapshot().Errors)
	})
}

func TestForm_Submit_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("updates name and phone then returns to create", func(t *testing.T) {
		mem := contacttest.NewMemoryStore(ann())
		store := &mocks.StoreMock{
			ListFunc:   mem.List,
			UpdateFunc: mem.Update,
		}
		f, list := setup(t, store)

		require.NoError(t, f.StartEdit(ann()))
		require.True(t, f.Snapshot().Editing())
		require.NoError(t, f.SetField(validate.FieldName, "Ann B."))
		require.NoError(t, f.SetField(validate.FieldPhone, "555-1111"))

		require.NoError(t, f.Submit(ctx))

		state := f.Snapshot()
		assert.Equal(t, CreateSession{}, state.Session)
		assert.Equal(t, validate.Fields{}, state.Fields)
		assert.Nil(t, list.Snapshot().EditingID)

		calls := store.UpdateCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, contact.ID(1), calls[0].ID)
		assert.Equal(t, "Ann B.", *calls[0].Input.Name)
		assert.Equal(t, "555-1111", *calls[0].Input.Phone)

		got, _ := mem.Get(1)
		assert.Equal(t, "ann@x.com", got.Email)
		assert.Equal(t, "Ann B.", got.Name)
	})

	t.Run("rename out of the current search only reports success", func(t *testing.T) {
		store := contacttest.NewMemoryStore(contact.Contact{ID: 1, Name: "Ann", Email: "zz@x.com"})
		notifier := &notifymocks.NotifierMock{NotifyFunc: func(string, notify.Kind) {}}
		list := listview.New(store, notifier, listview.WithDebounce(time.Hour))
		t.Cleanup(list.Close)
		list.Search(ctx, "ann")
		require.NoError(t, list.SubmitSearch(ctx))

		f := New(list)
		var cleared []contact.ID
		list.OnEditCleared(func(id contact.ID) {
			cleared = append(cleared, id)
			f.EditCleared(id)
		})

		target := list.Snapshot().Contacts[0]
		require.NoError(t, f.StartEdit(target))
		require.NoError(t, f.SetField(validate.FieldName, "Bob"))

		require.NoError(t, f.Submit(ctx))

		calls := notifier.NotifyCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "Updated Bob", calls[0].Message)
		assert.Equal(t, notify.KindSuccess, calls[0].Kind)
		assert.Empty(t, cleared)
		assert.Empty(t, list.Snapshot().Contacts)
		assert.Nil(t, list.Snapshot().EditingID)
		assert.Equal(t, CreateSession{}, f.Snapshot().Session)
	})

	t.Run("store failure stays in the edit session", func(t *testing.T) {
		mem := contacttest.NewMemoryStore(ann())
		store := &mocks.StoreMock{
			ListFunc: mem.List,
			UpdateFunc: func(ctx context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error) {
				return contact.Contact{}, contact.ErrUnavailable
			},
		}
		f, list := setup(t, store)
		require.NoError(t, f.StartEdit(ann()))
		require.NoError(t, f.SetField(validate.FieldName, "Ann B."))

		require.ErrorIs(t, f.Submit(ctx), contact.ErrUnavailable)

		state := f.Snapshot()
		assert.Equal(t, EditSession{Target: ann()}, state.Session)
		assert.Equal(t, "Ann B.", state.Fields.Name)
		assert.NotNil(t, list.Snapshot().EditingID)
	})
}

func TestForm_StartEdit(t *testing.T) {
	t.Run("loads the contact into the fields", func(t *testing.T) {
		c := ann()
		c.Phone = contact.StringPtr("555-0000")
		f, list := setup(t, contacttest.NewMemoryStore(c))

		require.NoError(t, f.StartEdit(c))

		state := f.Snapshot()
		assert.Equal(t, validate.Fields{Name: "Ann", Email: "ann@x.com", Phone: "555-0000"}, state.Fields)
		require.NotNil(t, list.Snapshot().EditingID)
		assert.Equal(t, contact.ID(1), *list.Snapshot().EditingID)
	})

	t.Run("rejected by the list leaves the form unchanged", func(t *testing.T) {
		f, _ := setup(t, contacttest.NewMemoryStore())
		require.NoError(t, f.SetField(validate.FieldName, "draft"))

		err := f.StartEdit(ann())

		require.ErrorIs(t, err, listview.ErrNotListed)
		state := f.Snapshot()
		assert.Equal(t, CreateSession{}, state.Session)
		assert.Equal(t, "draft", state.Fields.Name)
	})

	t.Run("email is read-only while editing", func(t *testing.T) {
		f, _ := setup(t, contacttest.NewMemoryStore(ann()))
		require.NoError(t, f.StartEdit(ann()))

		err := f.SetField(validate.FieldEmail, "other@x.com")

		require.ErrorIs(t, err, ErrReadOnly)
		assert.Equal(t, "ann@x.com", f.Snapshot().Fields.Email)
	})
}

func TestForm_Cancel(t *testing.T) {
	t.Run("ends the edit session", func(t *testing.T) {
		f, list := setup(t, contacttest.NewMemoryStore(ann()))
		require.NoError(t, f.StartEdit(ann()))

		f.Cancel()

		state := f.Snapshot()
		assert.Equal(t, CreateSession{}, state.Session)
		assert.Equal(t, validate.Fields{}, state.Fields)
		assert.Nil(t, list.Snapshot().EditingID)
	})

	t.Run("does nothing in a create session", func(t *testing.T) {
		f, _ := setup(t, contacttest.NewMemoryStore())
		require.NoError(t, f.SetField(validate.FieldName, "draft"))

		f.Cancel()

		assert.Equal(t, "draft", f.Snapshot().Fields.Name)
	})
}

func TestForm_EditCleared(t *testing.T) {
	ctx := context.Background()
	store := contacttest.NewMemoryStore(ann())
	f, list := setup(t, store)
	require.NoError(t, f.StartEdit(ann()))

	require.NoError(t, store.Remove(ctx, 1))
	require.NoError(t, list.Reload(ctx))

	state := f.Snapshot()
	assert.Equal(t, CreateSession{}, state.Session)
	assert.Equal(t, validate.Fields{}, state.Fields)
}

// stubList lets tests hold a submit in flight.
type stubList struct {
	release chan struct{}
	err     error
	ended   int
}

func (s *stubList) Create(ctx context.Context, input contact.CreateInput) (contact.Contact, error) {
	<-s.release
	return contact.Contact{ID: 9, Name: input.Name, Email: input.Email}, s.err
}

func (s *stubList) Update(ctx context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error) {
	<-s.release
	return contact.Contact{ID: id}, s.err
}

func (s *stubList) BeginEdit(contact.Contact) error { return nil }

func (s *stubList) EndEdit() { s.ended++ }

func TestForm_Submit_InFlight(t *testing.T) {
	ctx := context.Background()

	t.Run("second submit is rejected while busy", func(t *testing.T) {
		list := &stubList{release: make(chan struct{})}
		f := New(list)
		fill(t, f, "Bob", "bob@x.com", "")

		done := make(chan error, 1)
		go func() { done <- f.Submit(ctx) }()
		require.Eventually(t, func() bool { return f.Snapshot().Busy }, time.Second, time.Millisecond)

		assert.ErrorIs(t, f.Submit(ctx), ErrBusy)

		close(list.release)
		require.NoError(t, <-done)
		assert.False(t, f.Snapshot().Busy)
	})

	t.Run("late result does not clobber a newer session", func(t *testing.T) {
		list := &stubList{release: make(chan struct{})}
		f := New(list)
		fill(t, f, "Bob", "bob@x.com", "")

		done := make(chan error, 1)
		go func() { done <- f.Submit(ctx) }()
		require.Eventually(t, func() bool { return f.Snapshot().Busy }, time.Second, time.Millisecond)

		require.NoError(t, f.StartEdit(ann()))
		close(list.release)
		require.NoError(t, <-done)

		state := f.Snapshot()
		assert.Equal(t, EditSession{Target: ann()}, state.Session)
		assert.Equal(t, "Ann", state.Fields.Name)
		assert.Zero(t, list.ended)
	})

	t.Run("store errors pass through", func(t *testing.T) {
		list := &stubList{release: make(chan struct{}), err: errors.New("offline")}
		close(list.release)
		f := New(list)
		fill(t, f, "Bob", "bob@x.com", "")

		assert.EqualError(t, f.Submit(ctx), "offline")
		assert.Equal(t, "Bob", f.Snapshot().Fields.Name)
	})
}
