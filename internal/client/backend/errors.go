package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// PlatformError is the error body the platform returns for failed calls.
// Callers match on Code via the helpers below rather than on Message text.
type PlatformError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *PlatformError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("platform: %s (code %d, type %s)", e.Message, e.Code, e.Type)
	}
	return fmt.Sprintf("platform: %s (code %d)", e.Message, e.Code)
}

// IsNotFound reports whether err is a platform 404: a missing collection,
// document, file or session.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsConflict reports whether err is a platform 409, typically "a user with
// the same email already exists".
func IsConflict(err error) bool {
	return hasCode(err, http.StatusConflict)
}

// IsUnauthorized reports whether err is a platform 401: no valid session or
// insufficient permissions.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

func hasCode(err error, code int) bool {
	var pe *PlatformError
	return errors.As(err, &pe) && pe.Code == code
}
