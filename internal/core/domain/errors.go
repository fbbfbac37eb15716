package domain

import "errors"

// Sentinel errors crossing the core boundary. The HTTP layer maps each to a
// status code; nothing below this taxonomy leaks to a client.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken folds malformed, badly signed and expired tokens into
	// one outcome.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrEmailExists     = errors.New("a user with this email already exists")
	ErrInvalidRole     = errors.New("role must be 'user' or 'admin'")
	ErrAccountDisabled = errors.New("account disabled")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbidden       = errors.New("access forbidden")

	ErrPassengerNotFound = errors.New("passenger not found")

	// ErrValidation is the base for field-level validation failures; wrap it
	// with the field message.
	ErrValidation = errors.New("validation failed")
)
