// Package contacttest provides an in-memory contact.Store for tests.
package contacttest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmgilman/minicrm/internal/contact"
)

// MemoryStore is a contact.Store that keeps contacts in insertion order.
// It applies the same rules as the contacts API: unique emails, email is
// never changed by Update, and List filters by case-insensitive substring
// on name or email.
type MemoryStore struct {
	mu       sync.Mutex
	contacts []contact.Contact
	nextID   contact.ID
}

// NewMemoryStore creates a store seeded with contacts. IDs of seeded contacts
// are kept; new contacts get IDs above the highest seeded one.
func NewMemoryStore(seed ...contact.Contact) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, c := range seed {
		s.contacts = append(s.contacts, clone(c))
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
	return s
}

// List implements contact.Store.
func (s *MemoryStore) List(_ context.Context, query string) ([]contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]contact.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) {
			continue
		}
		result = append(result, clone(c))
	}
	return result, nil
}

// Create implements contact.Store.
func (s *MemoryStore) Create(_ context.Context, input contact.CreateInput) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if strings.EqualFold(c.Email, input.Email) {
			return contact.Contact{}, &contact.StoreError{
				Err:    contact.ErrEmailTaken,
				Detail: fmt.Sprintf("Email %s already registered", input.Email),
			}
		}
	}

	c := contact.Contact{
		ID:    s.nextID,
		Name:  input.Name,
		Email: input.Email,
		Phone: copyString(input.Phone),
	}
	s.nextID++
	s.contacts = append(s.contacts, c)
	return clone(c), nil
}

// Update implements contact.Store.
func (s *MemoryStore) Update(_ context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := contact.IndexOf(s.contacts, id)
	if i < 0 {
		return contact.Contact{}, notFound(id)
	}
	if input.Name != nil {
		s.contacts[i].Name = *input.Name
	}
	if input.Phone != nil {
		s.contacts[i].Phone = copyString(input.Phone)
	}
	return clone(s.contacts[i]), nil
}

// Remove implements contact.Store.
func (s *MemoryStore) Remove(_ context.Context, id contact.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := contact.IndexOf(s.contacts, id)
	if i < 0 {
		return notFound(id)
	}
	s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	return nil
}

// Get returns the stored contact with id.
func (s *MemoryStore) Get(id contact.ID) (contact.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := contact.IndexOf(s.contacts, id)
	if i < 0 {
		return contact.Contact{}, false
	}
	return clone(s.contacts[i]), true
}

// Len returns the number of stored contacts.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

func notFound(id contact.ID) error {
	return &contact.StoreError{
		Err:    contact.ErrNotFound,
		Detail: fmt.Sprintf("Contact with id %d not found", id),
	}
}

func clone(c contact.Contact) contact.Contact {
	c.Phone = copyString(c.Phone)
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
