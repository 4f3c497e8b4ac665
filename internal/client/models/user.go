// Package models defines the client-side shapes of the records kept on the
// backend platform, plus the fail-closed mapping from loosely-typed remote
// documents into those shapes.
package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fastbite/fastbite/internal/client/backend"
)

// ErrMalformedDocument is returned when a remote document cannot be mapped
// into a local model. Mapping rejects bad documents instead of defaulting
// their fields.
var ErrMalformedDocument = errors.New("malformed document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is the merged identity: the platform account joined with its profile
// document from the users collection.
//
// AccountID always mirrors the platform's account id; a User without a
// remote account is invalid.
type User struct {
	AccountID  string `validate:"required"`
	DocumentID string `validate:"required"`
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Avatar     string
	Prefs      map[string]string
}

// UserFromDocument merges a platform account with its profile document.
// It fails closed: a document whose accountId is missing or does not match
// the account, or one lacking name/email, is rejected with
// ErrMalformedDocument.
func UserFromDocument(acc *backend.Account, doc *backend.Document) (*User, error) {
	if acc == nil || doc == nil {
		return nil, fmt.Errorf("%w: missing account or document", ErrMalformedDocument)
	}
	if got := doc.StringField("accountId"); got != acc.ID {
		return nil, fmt.Errorf("%w: accountId %q does not match account %q", ErrMalformedDocument, got, acc.ID)
	}

	u := &User{
		AccountID:  acc.ID,
		DocumentID: doc.ID,
		Name:       doc.StringField("name"),
		Email:      doc.StringField("email"),
		Avatar:     doc.StringField("avatar"),
	}

	if prefs, ok := doc.Data["prefs"].(map[string]any); ok {
		u.Prefs = make(map[string]string, len(prefs))
		for k, v := range prefs {
			if s, ok := v.(string); ok {
				u.Prefs[k] = s
			}
		}
	}

	if err := validate.Struct(u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return u, nil
}
