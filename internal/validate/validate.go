// Package validate checks contact form input before it is sent to the store.
package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmgilman/minicrm/internal/contact"
)

// Field names a contact form field.
type Field string

// Form fields, in the precedence used for the primary error message.
const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// precedence orders fields for Errors.Primary.
var precedence = []Field{FieldName, FieldEmail, FieldPhone}

// Error messages.
const (
	MsgNameRequired = "Name is required"
	MsgNameTooLong  = "Name must be at most 100 characters"
	MsgInvalidEmail = "Enter a valid email address"
	MsgInvalidPhone = "Enter a valid phone number"
)

var (
	// emailPattern is a shape check only, not RFC 5322.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// phonePattern allows an optional leading "+" then 7-20 digits, spaces,
	// hyphens or parentheses.
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// validate is the shared validator instance.
var validate = newValidator()

// candidate carries normalized field values through the tag rules.
type candidate struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"contact_email"`
	Phone string `validate:"omitempty,contact_phone"`
}

// fieldByStruct maps candidate struct fields to form fields.
var fieldByStruct = map[string]Field{
	"Name":  FieldName,
	"Email": FieldEmail,
	"Phone": FieldPhone,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	//nolint:errcheck // RegisterValidation only fails for an empty tag or nil func
	v.RegisterValidation("contact_email", matches(emailPattern))
	//nolint:errcheck // RegisterValidation only fails for an empty tag or nil func
	v.RegisterValidation("contact_phone", matches(phonePattern))
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Fields holds raw form input.
type Fields struct {
	Name  string
	Email string
	Phone string
}

// Get returns the value of field.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	}
	return ""
}

// Set updates a single field. Unknown fields are ignored.
func (f *Fields) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	}
}

// FieldsFrom loads the editable values of c.
func FieldsFrom(c contact.Contact) Fields {
	return Fields{Name: c.Name, Email: c.Email, Phone: c.PhoneOrEmpty()}
}

// Payload is normalized input that passed validation.
type Payload struct {
	Name  string
	Email string
	Phone *string // nil when blank
}

// CreateInput converts the payload to a store create request.
func (p Payload) CreateInput() contact.CreateInput {
	return contact.CreateInput{Name: p.Name, Email: p.Email, Phone: p.Phone}
}

// UpdateInput converts the payload to a store update request.
// The email is dropped.
func (p Payload) UpdateInput() contact.UpdateInput {
	name := p.Name
	return contact.UpdateInput{Name: &name, Phone: p.Phone}
}

// Errors maps fields to their validation message. A nil or empty Errors
// means the input is valid.
type Errors map[Field]string

// Primary returns the single message to show when only one line is
// available, by precedence name, email, phone.
func (e Errors) Primary() string {
	for _, f := range precedence {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	return ""
}

// Has reports whether field has an error.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Validate checks every field and returns all violations together.
// On success it returns the normalized payload and nil errors.
func Validate(f Fields) (Payload, Errors) {
	c := candidate{
		Name:  strings.TrimSpace(f.Name),
		Email: f.Email,
		Phone: strings.TrimSpace(f.Phone),
	}

	if err := validate.Struct(c); err != nil {
		return Payload{}, toErrors(err)
	}

	p := Payload{
		Name:  c.Name,
		Email: strings.TrimSpace(f.Email),
	}
	if c.Phone != "" {
		phone := f.Phone
		p.Phone = &phone
	}
	return p, nil
}

// Email reports whether s has the shape of an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s is blank or a valid phone number.
func Phone(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || phonePattern.MatchString(s)
}

// Check validates a single field value and returns its message, or "" when
// the value is acceptable. Interactive prompts use it per keystroke.
func Check(field Field, value string) string {
	value = strings.TrimSpace(value)
	var tag string
	switch field {
	case FieldName:
		tag = "required,max=100"
	case FieldEmail:
		tag = "contact_email"
	case FieldPhone:
		tag = "omitempty,contact_phone"
	default:
		return ""
	}

	err := validate.Var(value, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(field, verrs[0].Tag())
	}
	return err.Error()
}

func toErrors(err error) Errors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable if candidate stops being a struct.
		return Errors{FieldName: err.Error()}
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field, ok := fieldByStruct[fe.StructField()]
		if !ok {
			continue
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

func message(field Field, tag string) string {
	switch field {
	case FieldName:
		if tag == "max" {
			return MsgNameTooLong
		}
		return MsgNameRequired
	case FieldEmail:
		return MsgInvalidEmail
	default:
		return MsgInvalidPhone
	}
}
