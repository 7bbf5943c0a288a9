// Package contact defines the contact record and the remote store contract
// consumed by the list and form state machines.
package contact

import (
	"context"
	"errors"
	"strconv"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when the referenced contact does not exist.
	ErrNotFound = errors.New("contact not found")

	// ErrEmailTaken is returned when another contact already uses the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrRejected is returned when the server rejects the payload.
	ErrRejected = errors.New("contact rejected by server")

	// ErrUnauthorized is returned when the API token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable is returned for transport failures and unexpected responses.
	ErrUnavailable = errors.New("contact store unavailable")
)

// StoreError carries the server's explanation for a failed store call.
// It unwraps to one of the sentinel errors above.
type StoreError struct {
	Err    error  // Sentinel classifying the failure
	Detail string // Server-provided message (may be empty)
}

// Error returns the server detail when present, otherwise the sentinel text.
func (e *StoreError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Err.Error()
}

// Unwrap returns the classifying sentinel.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// ID identifies a contact. It is assigned by the server and never changes.
type ID int64

// String implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal contact identifier.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Contact is a record as returned by the store.
type Contact struct {
	ID    ID      `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"` // Immutable after creation
	Phone *string `json:"phone"` // nil when absent
}

// PhoneOrEmpty returns the phone number, or "" when none is set.
func (c Contact) PhoneOrEmpty() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// CreateInput is the payload for creating a contact.
type CreateInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// UpdateInput is the payload for updating a contact. It has no email field:
// email addresses cannot be changed once a contact exists.
type UpdateInput struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone"`
}

// Store is the remote contact store.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/store.go . Store
type Store interface {
	// List returns contacts matching query. An empty query lists everything.
	// Filtering (substring on name and email) is the store's responsibility.
	List(ctx context.Context, query string) ([]Contact, error)

	// Create stores a new contact. The store assigns the ID.
	Create(ctx context.Context, input CreateInput) (Contact, error)

	// Update changes the name and/or phone of a contact.
	// Returns ErrNotFound if the contact does not exist.
	Update(ctx context.Context, id ID, input UpdateInput) (Contact, error)

	// Remove deletes a contact.
	// Returns ErrNotFound if the contact does not exist.
	Remove(ctx context.Context, id ID) error
}

// IndexOf returns the position of id in contacts, or -1.
func IndexOf(contacts []Contact, id ID) int {
	for i := range contacts {
		if contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
