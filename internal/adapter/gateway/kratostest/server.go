// Package kratostest provides an in-memory stand-in for the Ory Kratos
// public API covering the native login, registration, whoami and logout
// endpoints.
package kratostest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

// Kratos UI message texts returned by the fake.
const (
	MsgInvalidCredentials = "The provided credentials are invalid, check for spelling mistakes in your password or username, email address, or phone number."
	MsgInvalidTOTP        = "The provided authentication code is invalid, please try again."
	MsgDuplicateAccount   = "An account with the same identifier (email, phone, username, ...) exists already."
	MsgPasswordTooShort   = "The password must be at least 8 characters long."
)

// Account is a registered identity. A non-empty TOTPSecret enables the
// second factor for it.
type Account struct {
	ID         string
	Email      string
	Username   string
	Password   string
	TOTPSecret string
}

type session struct {
	id      string
	account *Account
	aal     string
}

// Server is a fake Kratos public API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*Account
	sessions map[string]*session
	calls    []string

	// FailLogout makes the native logout endpoint answer 500.
	FailLogout bool
	// NoRegistrationSession omits the session token from registration responses.
	NoRegistrationSession bool
}

// NewServer starts a fake Kratos server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		accounts: make(map[string]*Account),
		sessions: make(map[string]*session),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /self-service/login/api", s.handleCreateLoginFlow)
	mux.HandleFunc("POST /self-service/login", s.handleUpdateLoginFlow)
	mux.HandleFunc("GET /self-service/registration/api", s.handleCreateRegistrationFlow)
	mux.HandleFunc("POST /self-service/registration", s.handleUpdateRegistrationFlow)
	mux.HandleFunc("GET /sessions/whoami", s.handleWhoami)
	mux.HandleFunc("DELETE /self-service/logout/api", s.handleLogout)

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// AddAccount registers an account and returns it.
func (s *Server) AddAccount(email, username, password string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := &Account{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Password: password,
	}
	s.accounts[email] = account
	return account
}

// EnableTOTP generates a TOTP secret for the account and returns it.
func (s *Server) EnableTOTP(account *Account) string {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "kratostest",
		AccountName: account.Email,
	})
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	account.TOTPSecret = key.Secret()
	return account.TOTPSecret
}

// Code returns the current TOTP code for secret.
func Code(secret string) string {
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		panic(err)
	}
	return code
}

// IssueSession creates a fully authenticated session for account and
// returns its token.
func (s *Server) IssueSession(account *Account) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSession(account, "aal2")
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Calls returns the requests served so far as "METHOD /path".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// newSession must be called with mu held.
func (s *Server) newSession(account *Account, aal string) string {
	token := "ory_st_" + uuid.NewString()
	s.sessions[token] = &session{id: uuid.NewString(), account: account, aal: aal}
	return token
}

// sessionFor must be called with mu held.
func (s *Server) sessionFor(r *http.Request) *session {
	return s.sessions[r.Header.Get("X-Session-Token")]
}

func (s *Server) handleCreateLoginFlow(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("aal") == "aal2" {
		s.mu.Lock()
		sess := s.sessionFor(r)
		s.mu.Unlock()
		if sess == nil {
			writeGenericError(w, http.StatusUnauthorized, "session_inactive", "No active session was found in this request.")
			return
		}
	}
	writeJSON(w, http.StatusOK, flow("login", r, nil))
}

type loginBody struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	TOTPCode   string `json:"totp_code"`
}

func (s *Server) handleUpdateLoginFlow(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGenericError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch body.Method {
	case "password":
		account := s.accounts[body.Identifier]
		if account == nil || account.Password != body.Password {
			writeJSON(w, http.StatusBadRequest, flow("login", r, []message{{ID: 4000006, Text: MsgInvalidCredentials}}))
			return
		}
		aal := "aal1"
		if account.TOTPSecret == "" {
			aal = "aal2"
		}
		token := s.newSession(account, aal)
		writeJSON(w, http.StatusOK, map[string]any{
			"session":       sessionJSON(s.sessions[token]),
			"session_token": token,
		})
	case "totp":
		token := r.Header.Get("X-Session-Token")
		sess := s.sessions[token]
		if sess == nil {
			writeGenericError(w, http.StatusUnauthorized, "session_inactive", "No active session was found in this request.")
			return
		}
		if !totp.Validate(body.TOTPCode, sess.account.TOTPSecret) {
			writeJSON(w, http.StatusBadRequest, flowWithNodeMessage("login", r, "totp", "totp_code", message{ID: 4000008, Text: MsgInvalidTOTP}))
			return
		}
		sess.aal = "aal2"
		writeJSON(w, http.StatusOK, map[string]any{
			"session":       sessionJSON(sess),
			"session_token": token,
		})
	default:
		writeGenericError(w, http.StatusBadRequest, "bad_request", "unsupported method "+body.Method)
	}
}

func (s *Server) handleCreateRegistrationFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, flow("registration", r, nil))
}

type registrationBody struct {
	Method   string            `json:"method"`
	Password string            `json:"password"`
	Traits   map[string]string `json:"traits"`
}

func (s *Server) handleUpdateRegistrationFlow(w http.ResponseWriter, r *http.Request) {
	var body registrationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGenericError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := body.Traits["email"]
	if _, exists := s.accounts[email]; exists {
		writeJSON(w, http.StatusBadRequest, flowWithNodeMessage("registration", r, "password", "traits.email", message{ID: 4000007, Text: MsgDuplicateAccount}))
		return
	}
	if len(body.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, flowWithNodeMessage("registration", r, "password", "password", message{ID: 4000032, Text: MsgPasswordTooShort}))
		return
	}

	account := &Account{
		ID:       uuid.NewString(),
		Email:    email,
		Username: body.Traits["username"],
		Password: body.Password,
	}
	s.accounts[email] = account

	response := map[string]any{"identity": identityJSON(account)}
	if !s.NoRegistrationSession {
		token := s.newSession(account, "aal2")
		response["session"] = sessionJSON(s.sessions[token])
		response["session_token"] = token
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(r)
	switch {
	case sess == nil:
		writeGenericError(w, http.StatusUnauthorized, "session_inactive", "No active session was found in this request.")
	case sess.account.TOTPSecret != "" && sess.aal != "aal2":
		writeGenericError(w, http.StatusForbidden, "session_aal2_required", "An active session was found but it does not fulfil the Authenticator Assurance Level.")
	default:
		writeJSON(w, http.StatusOK, sessionJSON(sess))
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.FailLogout {
		writeGenericError(w, http.StatusInternalServerError, "internal_server_error", "logout is broken")
		return
	}

	var body struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGenericError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[body.SessionToken]; !ok {
		writeGenericError(w, http.StatusForbidden, "security_identity_mismatch", "The session token is unknown.")
		return
	}
	delete(s.sessions, body.SessionToken)
	w.WriteHeader(http.StatusNoContent)
}

type message struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

func flow(kind string, r *http.Request, messages []message) map[string]any {
	ui := map[string]any{
		"action": "http://" + r.Host + "/self-service/" + kind,
		"method": "POST",
		"nodes":  []any{},
	}
	if len(messages) > 0 {
		ui["messages"] = withType(messages)
	}

	now := time.Now().UTC()
	return map[string]any{
		"id":          uuid.NewString(),
		"type":        "api",
		"state":       "choose_method",
		"expires_at":  now.Add(10 * time.Minute).Format(time.RFC3339),
		"issued_at":   now.Format(time.RFC3339),
		"request_url": "http://" + r.Host + r.URL.RequestURI(),
		"ui":          ui,
	}
}

func flowWithNodeMessage(kind string, r *http.Request, group, name string, msg message) map[string]any {
	f := flow(kind, r, nil)
	f["ui"].(map[string]any)["nodes"] = []any{map[string]any{
		"type":  "input",
		"group": group,
		"attributes": map[string]any{
			"node_type": "input",
			"name":      name,
			"type":      "text",
			"disabled":  false,
		},
		"messages": withType([]message{msg}),
		"meta":     map[string]any{},
	}}
	return f
}

func withType(messages []message) []message {
	out := make([]message, len(messages))
	for i, m := range messages {
		m.Type = "error"
		out[i] = m
	}
	return out
}

func identityJSON(account *Account) map[string]any {
	return map[string]any{
		"id":         account.ID,
		"schema_id":  "default",
		"schema_url": "http://127.0.0.1:4433/schemas/ZGVmYXVsdA",
		"state":      "active",
		"traits": map[string]any{
			"email":    account.Email,
			"username": account.Username,
		},
	}
}

func sessionJSON(sess *session) map[string]any {
	return map[string]any{
		"id":                            sess.id,
		"active":                        true,
		"authenticator_assurance_level": sess.aal,
		"identity":                      identityJSON(sess.account),
	}
}

func writeGenericError(w http.ResponseWriter, status int, id, reason string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"id":      id,
			"code":    status,
			"status":  http.StatusText(status),
			"reason":  reason,
			"message": "request failed",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
