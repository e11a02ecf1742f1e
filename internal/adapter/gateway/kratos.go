package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/infrastructure/sessionstore"

	kratos "github.com/ory/kratos-client-go"
)

const (
	methodPassword = "password"
	methodTOTP     = "totp"
	aal2           = "aal2"
)

// KratosGateway implements domain.AccountService against the Ory Kratos
// public API using native (API) flows. The session token is kept in
// memory and mirrored to the session store.
type KratosGateway struct {
	client  *kratos.APIClient
	baseURL string
	store   *sessionstore.FileStore
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewKratosGateway creates a gateway and restores a previously saved
// session from store, if any.
func NewKratosGateway(baseURL string, timeout time.Duration, store *sessionstore.FileStore, logger *slog.Logger) *KratosGateway {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}
	configuration.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	g := &KratosGateway{
		client:  kratos.NewAPIClient(configuration),
		baseURL: baseURL,
		store:   store,
		logger:  logger,
	}

	saved, err := store.Load()
	switch {
	case err == nil:
		g.token = saved.Token
		if saved.Server != "" && saved.Server != baseURL {
			logger.Warn("stored session was issued by a different account service",
				"session_server", saved.Server,
				"account_url", baseURL)
		}
	case !errors.Is(err, sessionstore.ErrNoSession):
		logger.Warn("ignoring unreadable session file", "path", store.Path(), "error", err)
	}

	return g
}

// HasSession reports whether a session token is held.
func (g *KratosGateway) HasSession() bool {
	return g.currentToken() != ""
}

// Login runs a native password login flow.
func (g *KratosGateway) Login(ctx context.Context, creds domain.Credentials) error {
	flow, resp, err := g.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return g.mapError(err, resp, domain.ErrAuthentication, "create login flow")
	}

	body := kratos.UpdateLoginFlowWithPasswordMethod{
		Identifier: creds.Email,
		Method:     methodPassword,
		Password:   creds.Password,
	}
	result, resp, err := g.client.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratos.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		return g.mapError(err, resp, domain.ErrAuthentication, "submit login flow")
	}

	token := result.GetSessionToken()
	if token == "" {
		return fmt.Errorf("%w: %w", domain.ErrAuthentication, domain.ErrNoSessionToken)
	}

	g.logger.Debug("password login accepted", "flow_id", flow.Id, "session_id", result.Session.Id)
	return g.persist(token, &result.Session)
}

// IsTwoFactorPassed asks whoami whether the session satisfies the
// required assurance level.
func (g *KratosGateway) IsTwoFactorPassed(ctx context.Context) (bool, error) {
	token := g.currentToken()
	if token == "" {
		return false, domain.ErrNotLoggedIn
	}

	_, resp, err := g.client.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err == nil {
		return true, nil
	}
	if resp != nil && resp.StatusCode == http.StatusForbidden && errorID(err) == "session_aal2_required" {
		return false, nil
	}
	return false, g.mapError(err, resp, domain.ErrAuthentication, "check session")
}

// SubmitTwoFactorCode upgrades the current session to aal2 with a TOTP code.
func (g *KratosGateway) SubmitTwoFactorCode(ctx context.Context, code string) error {
	token := g.currentToken()
	if token == "" {
		return domain.ErrNotLoggedIn
	}

	flow, resp, err := g.client.FrontendAPI.
		CreateNativeLoginFlow(ctx).
		Aal(aal2).
		XSessionToken(token).
		Execute()
	if err != nil {
		return g.mapError(err, resp, domain.ErrAuthentication, "create second factor flow")
	}

	body := kratos.UpdateLoginFlowWithTotpMethod{
		Method:   methodTOTP,
		TotpCode: code,
	}
	result, resp, err := g.client.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		XSessionToken(token).
		UpdateLoginFlowBody(kratos.UpdateLoginFlowWithTotpMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		return g.mapError(err, resp, domain.ErrInvalidTwoFactorCode, "submit second factor")
	}

	if upgraded := result.GetSessionToken(); upgraded != "" {
		token = upgraded
	}
	return g.persist(token, &result.Session)
}

// RegisterAccount runs a native registration flow and returns the
// session token issued for the new identity.
func (g *KratosGateway) RegisterAccount(ctx context.Context, reg domain.Registration) (string, error) {
	flow, resp, err := g.client.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return "", g.mapError(err, resp, domain.ErrRegistration, "create registration flow")
	}

	body := kratos.UpdateRegistrationFlowWithPasswordMethod{
		Method:   methodPassword,
		Password: reg.Password,
		Traits: map[string]interface{}{
			"email":    reg.Email,
			"username": reg.Username,
		},
	}
	result, resp, err := g.client.FrontendAPI.
		UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(kratos.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&body)).
		Execute()
	if err != nil {
		return "", g.mapError(err, resp, domain.ErrRegistration, "submit registration flow")
	}

	token := result.GetSessionToken()
	if token == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrRegistration, domain.ErrNoSessionToken)
	}

	g.logger.Debug("registration accepted", "flow_id", flow.Id, "identity_id", result.Identity.Id)
	return token, nil
}

// LoginWithToken adopts an existing session token after checking it.
func (g *KratosGateway) LoginWithToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: %w", domain.ErrTokenLogin, domain.ErrNoSessionToken)
	}

	session, resp, err := g.client.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		return g.mapError(err, resp, domain.ErrTokenLogin, "check session token")
	}
	if session.Active != nil && !*session.Active {
		return fmt.Errorf("%w: %w", domain.ErrTokenLogin, domain.ErrSessionInactive)
	}

	return g.persist(token, session)
}

// Logout revokes the session remotely. The local session is cleared
// whatever the remote outcome.
func (g *KratosGateway) Logout(ctx context.Context) error {
	g.mu.Lock()
	token := g.token
	g.token = ""
	g.mu.Unlock()

	var remoteErr error
	if token != "" {
		resp, err := g.client.FrontendAPI.
			PerformNativeLogout(ctx).
			PerformNativeLogoutBody(*kratos.NewPerformNativeLogoutBody(token)).
			Execute()
		switch {
		case err == nil:
		case resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
			g.logger.Debug("session already revoked", "status", resp.StatusCode)
		default:
			remoteErr = g.mapError(err, resp, domain.ErrAuthentication, "logout")
		}
	}

	if err := g.store.Delete(); err != nil {
		g.logger.Warn("failed to remove session file", "path", g.store.Path(), "error", err)
	}

	return remoteErr
}

// CurrentIdentity returns the username trait, falling back to email.
func (g *KratosGateway) CurrentIdentity(ctx context.Context) (string, error) {
	identity, err := g.whoami(ctx)
	if err != nil {
		return "", err
	}
	if identity.Username != "" {
		return identity.Username, nil
	}
	if identity.Email != "" {
		return identity.Email, nil
	}
	return "", domain.ErrMissingIdentity
}

// CurrentEmail returns the email trait of the session identity.
func (g *KratosGateway) CurrentEmail(ctx context.Context) (string, error) {
	identity, err := g.whoami(ctx)
	if err != nil {
		return "", err
	}
	if identity.Email == "" {
		return "", domain.ErrMissingIdentity
	}
	return identity.Email, nil
}

func (g *KratosGateway) whoami(ctx context.Context) (domain.Identity, error) {
	token := g.currentToken()
	if token == "" {
		return domain.Identity{}, domain.ErrNotLoggedIn
	}

	session, resp, err := g.client.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrSessionInactive, serviceMessage(err, resp))
		}
		return domain.Identity{}, g.mapError(err, resp, domain.ErrAuthentication, "whoami")
	}
	if session.Active != nil && !*session.Active {
		return domain.Identity{}, domain.ErrSessionInactive
	}
	if session.Identity == nil {
		return domain.Identity{}, domain.ErrMissingIdentity
	}

	return domain.Identity{
		Username: traitString(session.Identity, "username"),
		Email:    traitString(session.Identity, "email"),
	}, nil
}

func (g *KratosGateway) currentToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// persist stores token in memory and in the session file.
func (g *KratosGateway) persist(token string, session *kratos.Session) error {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	record := &sessionstore.Session{
		Token:     token,
		Server:    g.baseURL,
		CreatedAt: time.Now().UTC(),
	}
	if session != nil && session.Identity != nil {
		record.IdentityID = session.Identity.Id
		record.Email = traitString(session.Identity, "email")
		record.Username = traitString(session.Identity, "username")
	}

	if err := g.store.Save(record); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func traitString(identity *kratos.Identity, key string) string {
	if traits, ok := identity.Traits.(map[string]interface{}); ok {
		if value, ok := traits[key].(string); ok {
			return value
		}
	}
	return ""
}
