package service

import "errors"

var ErrSessionNotReady = errors.New("session is still loading")

// AuthError is a login or sign-up rejection whose Reason can be shown to the
// user as is.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

var (
	ErrInvalidCredentials = &AuthError{Reason: "Invalid username/email or password"}
	ErrUsernameTaken      = &AuthError{Reason: "Username already exists"}
	ErrEmailTaken         = &AuthError{Reason: "Email already exists"}
)

// Generic reasons reported when a login or sign-up fails for a reason the
// user cannot act on.
const (
	LoginFailedReason  = "Login failed. Please try again."
	SignUpFailedReason = "Sign up failed. Please try again."
)
