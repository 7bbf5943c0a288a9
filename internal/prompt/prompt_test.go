package prompt

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/minicrm/internal/validate"
)

func TestFieldValidator(t *testing.T) {
	t.Run("uses form messages", func(t *testing.T) {
		err := fieldValidator(validate.FieldEmail)("nope")

		require.Error(t, err)
		assert.Equal(t, validate.MsgInvalidEmail, err.Error())
	})

	t.Run("accepts valid input", func(t *testing.T) {
		assert.NoError(t, fieldValidator(validate.FieldName)("Ann"))
		assert.NoError(t, fieldValidator(validate.FieldPhone)(""))
	})
}

func TestRequired(t *testing.T) {
	check := required("Password is required")

	assert.EqualError(t, check("  "), "Password is required")
	assert.NoError(t, check("secret"))
}

func TestWrap(t *testing.T) {
	assert.ErrorIs(t, wrap("login prompt", huh.ErrUserAborted), ErrCanceled)

	err := wrap("login prompt", errors.New("no tty"))
	assert.EqualError(t, err, "login prompt: no tty")
}

func TestContactForm(t *testing.T) {
	fields := validate.Fields{Name: "Ann", Email: "ann@x.com"}

	assert.NotNil(t, contactForm("Add contact", &fields, false))
	assert.NotNil(t, contactForm("Edit contact", &fields, true))
}
