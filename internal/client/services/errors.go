package services

import (
	"errors"

	"github.com/fastbite/fastbite/internal/client/backend"
)

// Sentinel errors for the authentication flow. Callers match them with
// errors.Is; each is wrapped with the underlying platform failure where one
// exists.
var (
	// ErrAccountCreation: the platform did not produce an account on sign-up.
	ErrAccountCreation = errors.New("account creation failed")

	// ErrSession: the platform did not produce a session on sign-in.
	ErrSession = errors.New("session creation failed")

	// ErrAuthentication: a session exists but the identity behind it could
	// not be fetched.
	ErrAuthentication = errors.New("authentication failed")

	// ErrProfileNotFound: the account exists but no profile document
	// references it.
	ErrProfileNotFound = errors.New("profile document not found")
)

// IsAccountExists reports whether err means the email is already registered.
// UIs use it to offer a redirect to sign-in instead of a plain error.
func IsAccountExists(err error) bool {
	return backend.IsConflict(err)
}
