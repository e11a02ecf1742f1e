// Package validation applies client-side input rules before anything is
// sent to the account service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alt-project/accountctl/internal/domain"
)

// MinPasswordLength is the shortest password accepted on signup.
const MinPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Validator wraps the go-playground validator with the account rules
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the custom password and username rules registered
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	registerCustomValidators(validate)

	// Report JSON field names in messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

// Struct validates a tagged struct such as domain.Credentials
func (v *Validator) Struct(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewError(verrs)
	}
	return err
}

// Email checks that s is a well-formed address
func (v *Validator) Email(s string) error {
	return v.field("email", s, "required,email")
}

// Password checks the signup strength rule
func (v *Validator) Password(s string) error {
	return v.field("password", s, "required,password")
}

// Username checks the allowed username alphabet
func (v *Validator) Username(s string) error {
	return v.field("username", s, "required,username")
}

func (v *Validator) field(name, value, tag string) error {
	err := v.validator.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Errors: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Errors[name] = message(name, fe.Tag(), fe.Param())
	}
	return out
}

// Error carries user-facing messages keyed by field name
type Error struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, e.Errors[field])
	}
	return strings.Join(messages, "; ")
}

// Unwrap lets callers match domain.ErrValidation
func (e *Error) Unwrap() error {
	return domain.ErrValidation
}

// NewError builds an Error from validator.ValidationErrors
func NewError(errs validator.ValidationErrors) *Error {
	out := &Error{Errors: make(map[string]string, len(errs))}
	for _, fe := range errs {
		out.Errors[fe.Field()] = message(fe.Field(), fe.Tag(), fe.Param())
	}
	return out
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "password":
		return fmt.Sprintf("password should be at least %d characters long", MinPasswordLength)
	case "username":
		return "username must contain only letters, numbers, dots, hyphens and underscores"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func registerCustomValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len([]rune(fl.Field().String())) >= MinPasswordLength
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}
