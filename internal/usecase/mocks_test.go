package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/alt-project/accountctl/internal/domain"
)

// mockAccount implements domain.AccountService for testing.
type mockAccount struct {
	mock.Mock
}

func (m *mockAccount) Login(_ context.Context, creds domain.Credentials) error {
	args := m.Called(creds)
	return args.Error(0)
}

func (m *mockAccount) RegisterAccount(_ context.Context, reg domain.Registration) (string, error) {
	args := m.Called(reg)
	return args.String(0), args.Error(1)
}

func (m *mockAccount) LoginWithToken(_ context.Context, token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockAccount) Logout(_ context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAccount) IsTwoFactorPassed(_ context.Context) (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockAccount) SubmitTwoFactorCode(_ context.Context, code string) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *mockAccount) CurrentIdentity(_ context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockAccount) CurrentEmail(_ context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockAccount) HasSession() bool {
	args := m.Called()
	return args.Bool(0)
}

// methodOrder lists the account methods invoked so far, in call order.
func (m *mockAccount) methodOrder() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

// fakePrompter answers prompts from a map and records which fields were
// actually prompted.
type fakePrompter struct {
	answers  map[string]string
	errs     map[string]error
	prompted []string

	title     string
	rendered  []domain.Row
	renderErr error
}

func (p *fakePrompter) Collect(_ context.Context, fields []domain.Field, overrides map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if v := overrides[f.Name]; v != "" {
			values[f.Name] = v
			continue
		}
		p.prompted = append(p.prompted, f.Name)
		if err := p.errs[f.Name]; err != nil {
			return nil, err
		}
		values[f.Name] = p.answers[f.Name]
	}
	return values, nil
}

func (p *fakePrompter) Render(title string, rows []domain.Row) error {
	p.title = title
	p.rendered = rows
	return p.renderErr
}

func (p *fakePrompter) promptCount(name string) int {
	n := 0
	for _, f := range p.prompted {
		if f == name {
			n++
		}
	}
	return n
}

// recordingNotifier implements domain.Notifier for testing.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
