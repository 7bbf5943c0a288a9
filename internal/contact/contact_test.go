package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Run("parses decimal id", func(t *testing.T) {
		id, err := ParseID("42")

		require.NoError(t, err)
		assert.Equal(t, ID(42), id)
		assert.Equal(t, "42", id.String())
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		_, err := ParseID("abc")

		assert.Error(t, err)
	})
}

func TestIndexOf(t *testing.T) {
	contacts := []Contact{{ID: 1}, {ID: 7}, {ID: 3}}

	assert.Equal(t, 1, IndexOf(contacts, 7))
	assert.Equal(t, -1, IndexOf(contacts, 9))
	assert.Equal(t, -1, IndexOf(nil, 1))
}

func TestContact_PhoneOrEmpty(t *testing.T) {
	assert.Equal(t, "", Contact{}.PhoneOrEmpty())
	assert.Equal(t, "555-1111", Contact{Phone: StringPtr("555-1111")}.PhoneOrEmpty())
}

func TestStoreError(t *testing.T) {
	t.Run("prefers server detail", func(t *testing.T) {
		err := &StoreError{Err: ErrNotFound, Detail: "Contact with id 3 not found"}

		assert.EqualError(t, err, "Contact with id 3 not found")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("falls back to sentinel text", func(t *testing.T) {
		err := &StoreError{Err: ErrUnavailable}

		assert.EqualError(t, err, ErrUnavailable.Error())
	})
}
