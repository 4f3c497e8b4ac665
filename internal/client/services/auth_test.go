package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/logging"
)

// ---- helpers ----

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Endpoint = "https://cloud.example.io/v1"
	cfg.ProjectID = "proj"
	cfg.Platform = "dev.fastbite.app"
	return cfg
}

func profileDoc(accountID, name, email, avatar string) backend.Document {
	return backend.Document{
		ID: "doc-" + accountID,
		Data: map[string]any{
			"accountId": accountID,
			"name":      name,
			"email":     email,
			"avatar":    avatar,
		},
	}
}

// ---- fake backend ----

// fakeBackend implements backend.Client for unit tests. It tracks whether a
// session is currently active so tests can assert the no-dangling-session
// guarantees.
type fakeBackend struct {
	CreateAccountRet *backend.Account
	CreateAccountErr error

	CreateSessionRet *backend.Session
	CreateSessionErr error

	CurrentSessionErr error

	CurrentAccountRet *backend.Account
	CurrentAccountErr error

	ListRet *backend.DocumentList
	ListErr error

	CreateDocRet *backend.Document
	CreateDocErr error

	UpdateDocRet *backend.Document
	UpdateDocErr error

	UploadRet *backend.File
	UploadErr error

	DeleteSessionErr error

	// state / recording
	SessionActive      bool
	DeleteSessionCalls int
	LastCreateDocCol   string
	LastCreateDocID    string
	LastCreateDocData  map[string]any
	LastUpdateDocID    string
	LastUpdateDocData  map[string]any
	LastListQueries    []backend.Query
	ListCalls          int
}

var notFound = &backend.PlatformError{Code: 404, Message: "not found"}

func (f *fakeBackend) CreateAccount(ctx context.Context, userID, email, password, name string) (*backend.Account, error) {
	if f.CreateAccountErr != nil {
		return nil, f.CreateAccountErr
	}
	if f.CreateAccountRet != nil {
		return f.CreateAccountRet, nil
	}
	return &backend.Account{ID: userID, Email: email, Name: name}, nil
}

func (f *fakeBackend) CreateEmailSession(ctx context.Context, email, password string) (*backend.Session, error) {
	if f.CreateSessionErr != nil {
		return nil, f.CreateSessionErr
	}
	f.SessionActive = true
	if f.CreateSessionRet != nil {
		return f.CreateSessionRet, nil
	}
	return &backend.Session{ID: "sess-1"}, nil
}

func (f *fakeBackend) CurrentSession(ctx context.Context) (*backend.Session, error) {
	if f.CurrentSessionErr != nil {
		return nil, f.CurrentSessionErr
	}
	if !f.SessionActive {
		return nil, notFound
	}
	return &backend.Session{ID: "sess-1"}, nil
}

func (f *fakeBackend) DeleteCurrentSession(ctx context.Context) error {
	f.DeleteSessionCalls++
	if f.DeleteSessionErr != nil {
		return f.DeleteSessionErr
	}
	if !f.SessionActive {
		return notFound
	}
	f.SessionActive = false
	return nil
}

func (f *fakeBackend) CurrentAccount(ctx context.Context) (*backend.Account, error) {
	return f.CurrentAccountRet, f.CurrentAccountErr
}

func (f *fakeBackend) CreateDocument(ctx context.Context, col, id string, data map[string]any) (*backend.Document, error) {
	f.LastCreateDocCol = col
	f.LastCreateDocID = id
	f.LastCreateDocData = data
	if f.CreateDocErr != nil {
		return nil, f.CreateDocErr
	}
	if f.CreateDocRet != nil {
		return f.CreateDocRet, nil
	}
	d := &backend.Document{ID: id, CollectionID: col, Data: data}
	return d, nil
}

func (f *fakeBackend) ListDocuments(ctx context.Context, col string, queries ...backend.Query) (*backend.DocumentList, error) {
	f.ListCalls++
	f.LastListQueries = queries
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if f.ListRet != nil {
		return f.ListRet, nil
	}
	return &backend.DocumentList{}, nil
}

func (f *fakeBackend) UpdateDocument(ctx context.Context, col, id string, data map[string]any) (*backend.Document, error) {
	f.LastUpdateDocID = id
	f.LastUpdateDocData = data
	if f.UpdateDocErr != nil {
		return nil, f.UpdateDocErr
	}
	if f.UpdateDocRet != nil {
		return f.UpdateDocRet, nil
	}
	return &backend.Document{ID: id, Data: data}, nil
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, col, id string) error { return nil }

func (f *fakeBackend) UploadFile(ctx context.Context, fileID, name, mime string, r io.Reader) (*backend.File, error) {
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	if f.UploadRet != nil {
		return f.UploadRet, nil
	}
	return &backend.File{ID: fileID, Name: name, MimeType: mime}, nil
}

func (f *fakeBackend) ListFiles(ctx context.Context) (*backend.FileList, error) {
	return &backend.FileList{}, nil
}

func (f *fakeBackend) DeleteFile(ctx context.Context, fileID string) error { return nil }

func (f *fakeBackend) FileViewURL(fileID string) string {
	return "https://cloud.example.io/v1/storage/buckets/b/files/" + fileID + "/view?project=proj"
}

func (f *fakeBackend) InitialsAvatarURL(name string) string {
	return "https://cloud.example.io/v1/avatars/initials?name=" + name
}

func newAuth(f *fakeBackend) AuthService {
	return NewAuthService(f, testConfig(), logging.NewDiscardLogger())
}

// ---- tests ----

func TestRegister_CreatesAccountAndProfileDocument(t *testing.T) {
	f := &fakeBackend{}
	svc := newAuth(f)

	u, err := svc.Register(context.Background(), "dana@x.com", "pw123", "Dana")
	require.NoError(t, err)
	require.Equal(t, "Dana", u.Name)
	require.Equal(t, "dana@x.com", u.Email)
	require.NotEmpty(t, u.AccountID)

	// Profile document keyed by the account id, in the users collection.
	require.Equal(t, "users", f.LastCreateDocCol)
	require.Equal(t, u.AccountID, f.LastCreateDocID)
	require.Equal(t, u.AccountID, f.LastCreateDocData["accountId"])
	require.Contains(t, f.LastCreateDocData["avatar"], "avatars/initials")

	// Best-effort teardown ran before account creation.
	require.Equal(t, 1, f.DeleteSessionCalls)
}

func TestRegister_ValidatesInput(t *testing.T) {
	tests := []struct {
		name                  string
		email, password, user string
	}{
		{"empty email", "", "pw", "Dana"},
		{"bad email", "not-an-email", "pw", "Dana"},
		{"empty password", "dana@x.com", "", "Dana"},
		{"empty name", "dana@x.com", "pw", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeBackend{}
			_, err := newAuth(f).Register(context.Background(), tc.email, tc.password, tc.user)
			require.Error(t, err)
			// Validation failures never reach the platform.
			require.Zero(t, f.DeleteSessionCalls)
		})
	}
}

func TestRegister_AccountCreationFailure(t *testing.T) {
	f := &fakeBackend{CreateAccountErr: &backend.PlatformError{Code: 409, Message: "user already exists"}}

	_, err := newAuth(f).Register(context.Background(), "dana@x.com", "pw123", "Dana")
	require.ErrorIs(t, err, ErrAccountCreation)
	require.True(t, IsAccountExists(err))
}

func TestRegister_OrphanedAccountOnDocumentFailure(t *testing.T) {
	f := &fakeBackend{CreateDocErr: &backend.PlatformError{Code: 500, Message: "boom"}}

	_, err := newAuth(f).Register(context.Background(), "dana@x.com", "pw123", "Dana")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAccountCreation)
}

func TestAuthenticate_Success(t *testing.T) {
	doc := profileDoc("acc-1", "Dana", "dana@x.com", "https://a/v")
	f := &fakeBackend{
		CurrentAccountRet: &backend.Account{ID: "acc-1", Email: "dana@x.com", Name: "Dana"},
		ListRet:           &backend.DocumentList{Total: 1, Documents: []backend.Document{doc}},
	}

	u, err := newAuth(f).Authenticate(context.Background(), "dana@x.com", "pw123")
	require.NoError(t, err)
	require.Equal(t, "acc-1", u.AccountID)
	require.Equal(t, "Dana", u.Name)
	require.True(t, f.SessionActive)

	// Profile was looked up by accountId equality.
	require.Len(t, f.LastListQueries, 1)
	require.Equal(t, "equal", f.LastListQueries[0].Method)
	require.Equal(t, "accountId", f.LastListQueries[0].Attribute)
}

func TestAuthenticate_WrongCredentialsLeavesNoSession(t *testing.T) {
	f := &fakeBackend{
		CreateSessionErr: &backend.PlatformError{Code: 401, Message: "invalid credentials"},
	}

	_, err := newAuth(f).Authenticate(context.Background(), "dana@x.com", "wrong")
	require.ErrorIs(t, err, ErrSession)
	require.False(t, f.SessionActive)
}

func TestAuthenticate_MissingProfileTearsDownSession(t *testing.T) {
	f := &fakeBackend{
		CurrentAccountRet: &backend.Account{ID: "acc-1", Email: "dana@x.com", Name: "Dana"},
		// zero matching documents
	}

	_, err := newAuth(f).Authenticate(context.Background(), "dana@x.com", "pw123")
	require.ErrorIs(t, err, ErrProfileNotFound)
	require.False(t, f.SessionActive, "half-authenticated session must be torn down")
}

func TestAuthenticate_IdentityFetchFailureTearsDownSession(t *testing.T) {
	f := &fakeBackend{
		CurrentAccountErr: &backend.PlatformError{Code: 401, Message: "unauthorized"},
	}

	_, err := newAuth(f).Authenticate(context.Background(), "dana@x.com", "pw123")
	require.ErrorIs(t, err, ErrAuthentication)
	require.False(t, f.SessionActive)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	f := &fakeBackend{}
	svc := newAuth(f)

	reg, err := svc.Register(context.Background(), "dana@x.com", "pw123", "Dana")
	require.NoError(t, err)

	f.CurrentAccountRet = &backend.Account{ID: reg.AccountID, Email: "dana@x.com", Name: "Dana"}
	f.ListRet = &backend.DocumentList{
		Total:     1,
		Documents: []backend.Document{profileDoc(reg.AccountID, "Dana", "dana@x.com", "")},
	}

	u, err := svc.Authenticate(context.Background(), "dana@x.com", "pw123")
	require.NoError(t, err)
	require.Equal(t, "Dana", u.Name)
	require.Equal(t, reg.AccountID, u.AccountID)
}

func TestFetchCurrentUser_NoSessionIsNotAnError(t *testing.T) {
	f := &fakeBackend{}

	u, err := newAuth(f).FetchCurrentUser(context.Background())
	require.NoError(t, err)
	require.Nil(t, u)
	require.Zero(t, f.ListCalls, "no lookup without a session")
}

func TestFetchCurrentUser_Idempotent(t *testing.T) {
	f := &fakeBackend{
		SessionActive:     true,
		CurrentAccountRet: &backend.Account{ID: "acc-1", Email: "dana@x.com", Name: "Dana"},
		ListRet: &backend.DocumentList{
			Total:     1,
			Documents: []backend.Document{profileDoc("acc-1", "Dana", "dana@x.com", "")},
		},
	}
	svc := newAuth(f)

	first, err := svc.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	second, err := svc.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFetchCurrentUser_MissingProfileTearsDownDefensively(t *testing.T) {
	f := &fakeBackend{
		SessionActive:     true,
		CurrentAccountRet: &backend.Account{ID: "acc-1", Email: "dana@x.com", Name: "Dana"},
		// zero matching documents
	}

	u, err := newAuth(f).FetchCurrentUser(context.Background())
	require.NoError(t, err, "probe surfaces missing profile as no user")
	require.Nil(t, u)
	require.False(t, f.SessionActive)
}

func TestSignOut_PropagatesFailure(t *testing.T) {
	f := &fakeBackend{SessionActive: true, DeleteSessionErr: &backend.PlatformError{Code: 500, Message: "boom"}}

	err := newAuth(f).SignOut(context.Background())
	require.Error(t, err)
}

func TestUpdateAvatar_UploadsAndRefreshes(t *testing.T) {
	f := &fakeBackend{
		SessionActive:     true,
		CurrentAccountRet: &backend.Account{ID: "acc-1", Email: "dana@x.com", Name: "Dana"},
		UploadRet:         &backend.File{ID: "file-9", Name: "me.png"},
	}
	// The refresh after the update must observe the new avatar URL.
	viewURL := f.FileViewURL("file-9")
	f.ListRet = &backend.DocumentList{
		Total:     1,
		Documents: []backend.Document{profileDoc("acc-1", "Dana", "dana@x.com", viewURL)},
	}
	svc := newAuth(f)

	user, err := svc.Authenticate(context.Background(), "dana@x.com", "pw123")
	require.NoError(t, err)

	updated, err := svc.UpdateAvatar(context.Background(), user, "me.png", "image/png", strings.NewReader("img"))
	require.NoError(t, err)
	require.Equal(t, viewURL, updated.Avatar)
	require.Equal(t, user.DocumentID, f.LastUpdateDocID)
	require.Equal(t, viewURL, f.LastUpdateDocData["avatar"])

	again, err := svc.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, viewURL, again.Avatar)
}

func TestUpdateAvatar_RequiresSignedInUser(t *testing.T) {
	f := &fakeBackend{}

	_, err := newAuth(f).UpdateAvatar(context.Background(), nil, "me.png", "image/png", strings.NewReader("img"))
	require.Error(t, err)
}
