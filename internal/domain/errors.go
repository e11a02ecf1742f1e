package domain

import "errors"

// Input errors.
var (
	ErrValidation = errors.New("validation failed")
)

// Authentication errors.
var (
	ErrAuthentication       = errors.New("authentication failed")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor authentication code")
	ErrNotLoggedIn          = errors.New("not logged in")
	ErrSessionInactive      = errors.New("session is not active")
	ErrMissingIdentity      = errors.New("missing identity in session")
)

// Signup errors.
var (
	ErrRegistration   = errors.New("registration failed")
	ErrTokenLogin     = errors.New("token login failed")
	ErrNoSessionToken = errors.New("account service did not issue a session token")
)

// External service errors.
var (
	ErrUnavailable = errors.New("account service unavailable")
)
