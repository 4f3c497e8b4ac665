// Package services contains the application flows of the FastBite client.
// This file defines the authentication service: account registration,
// sign-in with session reconciliation, the current-user probe, sign-out and
// avatar updates.
package services

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/client/models"
	"github.com/fastbite/fastbite/internal/logging"
)

// AuthService defines the authentication operations of the client.
//
// Contract:
//   - Register: create a platform account plus its profile document.
//   - Authenticate: establish a single fresh session and return the merged
//     identity+profile record; on any failure no session is left active.
//   - FetchCurrentUser: non-throwing probe; (nil, nil) means "no user".
//   - SignOut: destroy the current session; failures propagate.
//   - UpdateAvatar: upload a new avatar, point the profile at it, refresh.
//
// All methods honor context cancellation through the underlying client.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
	UpdateAvatar(ctx context.Context, user *models.User, fileName, mimeType string, r io.Reader) (*models.User, error)
}

type authService struct {
	backend backend.Client
	cfg     *config.Config
	log     logging.Logger
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewAuthService constructs an AuthService bound to the given backend client.
func NewAuthService(b backend.Client, cfg *config.Config, log logging.Logger) AuthService {
	return &authService{backend: b, cfg: cfg, log: log}
}

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Name     string `validate:"required"`
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// dropSession tears down the current session best-effort. "No session" is the
// normal case on a fresh device, so failures are logged and swallowed.
func (s *authService) dropSession(ctx context.Context) {
	if err := s.backend.DeleteCurrentSession(ctx); err != nil {
		s.log.Debug(ctx, "no session to tear down", "error", err)
	}
}

// withCleanSession runs fn with no pre-existing session and guarantees that a
// failed fn leaves no half-established session behind. The teardown on both
// sides is best-effort; concurrent sign-ins can still race, which is an
// accepted limitation of the single-session-per-device design.
func (s *authService) withCleanSession(ctx context.Context, fn func(ctx context.Context) (*models.User, error)) (*models.User, error) {
	s.dropSession(ctx)

	u, err := fn(ctx)
	if err != nil {
		s.dropSession(ctx)
		return nil, err
	}
	return u, nil
}

// Register creates a platform account and its profile document. The document
// is keyed by the new account id and stores email, name, accountId and the
// generated initials-avatar URL.
//
// If the document write fails after the account was created, the account is
// left orphaned; the condition is logged and the error returned. Deleting the
// account would need admin credentials the client does not hold.
func (s *authService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := validate.Struct(registerInput{Email: email, Password: password, Name: name}); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.dropSession(ctx)

	acc, err := s.backend.CreateAccount(ctx, uuid.NewString(), email, password, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountCreation, err)
	}
	if acc == nil || acc.ID == "" {
		return nil, ErrAccountCreation
	}

	avatarURL := s.backend.InitialsAvatarURL(name)

	doc, err := s.backend.CreateDocument(ctx, s.cfg.UsersCollectionID, acc.ID, map[string]any{
		"email":     email,
		"name":      name,
		"accountId": acc.ID,
		"avatar":    avatarURL,
	})
	if err != nil {
		s.log.Warn(ctx, "profile document creation failed, account left orphaned",
			"account_id", acc.ID, "error", err)
		return nil, fmt.Errorf("create profile document: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", acc.ID)
	return models.UserFromDocument(acc, doc)
}

// Authenticate signs in with email and password. It establishes exactly one
// fresh session, verifies the identity behind it and loads the matching
// profile document. On any failure past session creation the session is torn
// down before the error is returned.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if err := validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return s.withCleanSession(ctx, func(ctx context.Context) (*models.User, error) {
		sess, err := s.backend.CreateEmailSession(ctx, email, password)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSession, err)
		}
		if sess == nil || sess.ID == "" {
			return nil, ErrSession
		}

		acc, err := s.backend.CurrentAccount(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
		}

		u, err := s.lookupProfile(ctx, acc)
		if err != nil {
			return nil, err
		}

		s.log.Info(ctx, "signed in", "account_id", acc.ID)
		return u, nil
	})
}

// lookupProfile finds the profile document whose accountId equals the
// account's id and merges the two records.
func (s *authService) lookupProfile(ctx context.Context, acc *backend.Account) (*models.User, error) {
	list, err := s.backend.ListDocuments(ctx, s.cfg.UsersCollectionID, backend.Equal("accountId", acc.ID))
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	if len(list.Documents) == 0 {
		return nil, fmt.Errorf("%w: account %s", ErrProfileNotFound, acc.ID)
	}
	return models.UserFromDocument(acc, &list.Documents[0])
}

// FetchCurrentUser probes for an authenticated user. It never returns an
// error: no session, a fetch failure or a missing profile document all
// surface as (nil, nil), and any dangling session is torn down defensively
// so the next probe starts from a clean slate.
func (s *authService) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	if _, err := s.backend.CurrentSession(ctx); err != nil {
		s.log.Debug(ctx, "no current session", "error", err)
		return nil, nil
	}

	acc, err := s.backend.CurrentAccount(ctx)
	if err != nil {
		s.log.Warn(ctx, "session present but account fetch failed", "error", err)
		s.dropSession(ctx)
		return nil, nil
	}

	u, err := s.lookupProfile(ctx, acc)
	if err != nil {
		s.log.Warn(ctx, "session present but profile lookup failed",
			"account_id", acc.ID, "error", err)
		s.dropSession(ctx)
		return nil, nil
	}
	return u, nil
}

// SignOut destroys the current session. Unlike the defensive teardown paths,
// a failure here propagates to the caller.
func (s *authService) SignOut(ctx context.Context) error {
	if err := s.backend.DeleteCurrentSession(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

// UpdateAvatar uploads a new avatar image, resolves its public view URL,
// points the profile document's avatar field at it and re-fetches the user
// so the caller's state matches the backend.
func (s *authService) UpdateAvatar(ctx context.Context, user *models.User, fileName, mimeType string, r io.Reader) (*models.User, error) {
	if user == nil || user.DocumentID == "" {
		return nil, fmt.Errorf("update avatar: no signed-in user")
	}

	f, err := s.backend.UploadFile(ctx, uuid.NewString(), fileName, mimeType, r)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	viewURL := s.backend.FileViewURL(f.ID)

	if _, err := s.backend.UpdateDocument(ctx, s.cfg.UsersCollectionID, user.DocumentID, map[string]any{
		"avatar": viewURL,
	}); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	refreshed, err := s.FetchCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, fmt.Errorf("refresh after avatar update: %w", ErrAuthentication)
	}

	s.log.Info(ctx, "avatar updated", "account_id", refreshed.AccountID, "file_id", f.ID)
	return refreshed, nil
}
