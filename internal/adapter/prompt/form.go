// Package prompt collects operator input on a terminal and renders
// labeled records. It implements domain.Prompter.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/output"
)

// DefaultMaxAttempts bounds re-prompting after a validation failure.
const DefaultMaxAttempts = 3

// Form reads answers from in and writes prompts to out.
type Form struct {
	in          *bufio.Reader
	fd          int
	isTerminal  bool
	out         io.Writer
	records     io.Writer
	maxAttempts int
}

// NewForm creates a form. Prompts and validation messages go to out,
// rendered records to records. Secret fields are read without echo
// when in is a terminal.
func NewForm(in io.Reader, out, records io.Writer, maxAttempts int) *Form {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	f := &Form{
		in:          bufio.NewReader(in),
		fd:          -1,
		out:         out,
		records:     records,
		maxAttempts: maxAttempts,
	}
	if file, ok := in.(*os.File); ok {
		f.fd = int(file.Fd())
		f.isTerminal = term.IsTerminal(f.fd)
	}
	return f
}

// Collect implements domain.Prompter.
func (f *Form) Collect(ctx context.Context, fields []domain.Field, overrides map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(fields))

	for _, field := range fields {
		if v := overrides[field.Name]; v != "" {
			if field.Validate != nil {
				if err := field.Validate(v); err != nil {
					return nil, err
				}
			}
			values[field.Name] = v
			continue
		}

		v, err := f.ask(ctx, field)
		if err != nil {
			return nil, err
		}
		values[field.Name] = v
	}

	return values, nil
}

// ask prompts for one field until it validates or attempts run out.
func (f *Form) ask(ctx context.Context, field domain.Field) (string, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintf(f.out, "%s ", field.Message)
		v, err := f.read(field.Secret)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", field.Name, err)
		}

		if field.Validate == nil {
			return v, nil
		}
		verr := field.Validate(v)
		if verr == nil {
			return v, nil
		}
		if attempt >= f.maxAttempts {
			return "", verr
		}
		fmt.Fprintf(f.out, ">> %s\n", verr)
	}
}

func (f *Form) read(secret bool) (string, error) {
	if secret && f.isTerminal {
		b, err := term.ReadPassword(f.fd)
		fmt.Fprintln(f.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := f.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if secret {
		return line, nil
	}
	return strings.TrimSpace(line), nil
}

// Render implements domain.Prompter.
func (f *Form) Render(title string, rows []domain.Row) error {
	pairs := make([][]string, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, []string{r.Label, r.Value})
	}
	return output.RenderRecord(f.records, title, pairs)
}
