// Package backend is a typed client for the slice of the Appwrite REST API
// the app uses: accounts and email/password sessions, document CRUD with
// query filters, bucket file storage and the initials-avatar generator.
//
// The package is a plain pass-through: no retries, no caching, no error
// reclassification. Platform failures surface as *PlatformError, transport
// failures as-is. Session state lives in the platform's cookie, carried by
// the HTTP client's cookie jar.
package backend

import (
	"context"
	"io"
)

// Client is the facade the auth, menu and seeding flows are built on.
// HTTPClient is the production implementation; tests substitute fakes.
type Client interface {
	// Accounts and sessions.
	CreateAccount(ctx context.Context, userID, email, password, name string) (*Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*Session, error)
	CurrentSession(ctx context.Context) (*Session, error)
	DeleteCurrentSession(ctx context.Context) error
	CurrentAccount(ctx context.Context) (*Account, error)

	// Document database.
	CreateDocument(ctx context.Context, collectionID, documentID string, data map[string]any) (*Document, error)
	ListDocuments(ctx context.Context, collectionID string, queries ...Query) (*DocumentList, error)
	UpdateDocument(ctx context.Context, collectionID, documentID string, data map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, collectionID, documentID string) error

	// File storage.
	UploadFile(ctx context.Context, fileID, name, mime string, r io.Reader) (*File, error)
	ListFiles(ctx context.Context) (*FileList, error)
	DeleteFile(ctx context.Context, fileID string) error
	FileViewURL(fileID string) string

	// Avatars.
	InitialsAvatarURL(name string) string
}
