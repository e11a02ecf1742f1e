package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/validation"
)

var errNotEmail = errors.New("email must be a valid email address")

func emailField() domain.Field {
	return domain.Field{
		Name:    "email",
		Message: "Email:",
		Validate: func(s string) error {
			if !strings.Contains(s, "@") {
				return errNotEmail
			}
			return nil
		},
	}
}

func passwordField() domain.Field {
	return domain.Field{Name: "password", Message: "Password:", Secret: true}
}

func TestForm_Collect_PromptsInOrder(t *testing.T) {
	var out bytes.Buffer
	form := NewForm(strings.NewReader(" me@mycompany.com \n s3cret pass\n"), &out, io.Discard, 0)

	values, err := form.Collect(context.Background(), []domain.Field{emailField(), passwordField()}, nil)

	require.NoError(t, err)
	assert.Equal(t, "me@mycompany.com", values["email"])
	assert.Equal(t, " s3cret pass", values["password"], "secret input is kept verbatim apart from the line ending")
	assert.Equal(t, "Email: Password: ", out.String())
}

func TestForm_Collect_OverrideSuppressesPrompt(t *testing.T) {
	var out bytes.Buffer
	form := NewForm(strings.NewReader("hunter22\n"), &out, io.Discard, 0)

	values, err := form.Collect(context.Background(), []domain.Field{emailField(), passwordField()}, map[string]string{
		"email": "me@mycompany.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "me@mycompany.com", values["email"])
	assert.Equal(t, "hunter22", values["password"])
	assert.NotContains(t, out.String(), "Email:")
}

func TestForm_Collect_InvalidOverrideFailsWithoutPrompting(t *testing.T) {
	var out bytes.Buffer
	form := NewForm(strings.NewReader("unused\n"), &out, io.Discard, 0)

	_, err := form.Collect(context.Background(), []domain.Field{emailField()}, map[string]string{
		"email": "not-an-email",
	})

	assert.ErrorIs(t, err, errNotEmail)
	assert.Empty(t, out.String())
}

func TestForm_Collect_RepromptsAfterValidationFailure(t *testing.T) {
	var out bytes.Buffer
	form := NewForm(strings.NewReader("nope\nme@mycompany.com\n"), &out, io.Discard, 3)

	values, err := form.Collect(context.Background(), []domain.Field{emailField()}, nil)

	require.NoError(t, err)
	assert.Equal(t, "me@mycompany.com", values["email"])
	assert.Equal(t, 2, strings.Count(out.String(), "Email:"))
	assert.Contains(t, out.String(), ">> "+errNotEmail.Error())
}

func TestForm_Collect_GivesUpAfterMaxAttempts(t *testing.T) {
	var out bytes.Buffer
	form := NewForm(strings.NewReader("a\nb\nc\n"), &out, io.Discard, 2)

	_, err := form.Collect(context.Background(), []domain.Field{emailField()}, nil)

	assert.ErrorIs(t, err, errNotEmail)
	assert.Equal(t, 2, strings.Count(out.String(), "Email:"))
}

func TestForm_Collect_EOF(t *testing.T) {
	form := NewForm(strings.NewReader(""), io.Discard, io.Discard, 0)

	_, err := form.Collect(context.Background(), []domain.Field{emailField()}, nil)

	assert.ErrorIs(t, err, io.EOF)
}

func TestForm_Collect_LastLineWithoutNewline(t *testing.T) {
	form := NewForm(strings.NewReader("123456"), io.Discard, io.Discard, 0)

	values, err := form.Collect(context.Background(), []domain.Field{{Name: "code", Message: "Two factor auth challenge:"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "123456", values["code"])
}

func TestForm_Collect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form := NewForm(strings.NewReader("me@mycompany.com\n"), io.Discard, io.Discard, 0)

	_, err := form.Collect(ctx, []domain.Field{emailField()}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestForm_Collect_WithValidator(t *testing.T) {
	v := validation.New()
	field := domain.Field{Name: "password", Message: "Password:", Secret: true, Validate: v.Password}
	form := NewForm(strings.NewReader("short\n"), io.Discard, io.Discard, 1)

	_, err := form.Collect(context.Background(), []domain.Field{field}, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestForm_Render(t *testing.T) {
	var records bytes.Buffer
	form := NewForm(strings.NewReader(""), io.Discard, &records, 0)

	err := form.Render("Account information", []domain.Row{
		{Label: "username", Value: "johndoe"},
		{Label: "email", Value: "me@mycompany.com"},
	})

	require.NoError(t, err)
	assert.Contains(t, records.String(), "johndoe")
	assert.Contains(t, records.String(), "me@mycompany.com")
}
