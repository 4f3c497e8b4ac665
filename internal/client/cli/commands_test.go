package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/models"
	"github.com/fastbite/fastbite/internal/client/store"
	"github.com/fastbite/fastbite/internal/logging"
)

type fakeAuth struct {
	user    *models.User
	authErr error
	regErr  error
}

func (f *fakeAuth) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.user, nil
}

func (f *fakeAuth) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

func (f *fakeAuth) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	return f.user, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return nil }

func (f *fakeAuth) UpdateAvatar(ctx context.Context, user *models.User, fileName, mimeType string, r io.Reader) (*models.User, error) {
	return f.user, nil
}

type fakeMenu struct {
	items   []models.MenuItem
	cats    []models.Category
	menuErr error
	catsErr error

	lastCategoryID string
	lastSearch     string
}

func (f *fakeMenu) Menu(ctx context.Context, categoryID, search string) ([]models.MenuItem, error) {
	f.lastCategoryID, f.lastSearch = categoryID, search
	return f.items, f.menuErr
}

func (f *fakeMenu) Categories(ctx context.Context) ([]models.Category, error) {
	return f.cats, f.catsErr
}

func newTestApp(auth *fakeAuth, menu *fakeMenu, input string) *App {
	return &App{
		store:  store.New(auth, logging.NewDiscardLogger()),
		menu:   menu,
		reader: bufio.NewReader(strings.NewReader(input)),
		log:    logging.NewDiscardLogger(),
	}
}

func stubPrompts(t *testing.T, text string, password []byte) {
	t.Helper()
	savedText, savedPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = savedText, savedPw })

	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return text, nil
	}
	getPassword = func(w io.Writer) ([]byte, error) {
		pw := make([]byte, len(password))
		copy(pw, password)
		return pw, nil
	}
}

func testUser() *models.User {
	return &models.User{
		AccountID:  "acc-1",
		DocumentID: "doc-1",
		Name:       "Dana",
		Email:      "dana@x.com",
	}
}

func TestLoginCommand(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "dana@x.com", []byte("pw123"))
	app := newTestApp(&fakeAuth{user: testUser()}, &fakeMenu{}, "")

	require.NoError(t, app.Login(context.Background()))
	require.True(t, app.isLoggedIn())
	require.Contains(t, strings.Join(*lines, ""), "Signed in")
}

func TestLoginCommand_Failure(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "dana@x.com", []byte("wrong"))
	app := newTestApp(&fakeAuth{authErr: errors.New("invalid credentials")}, &fakeMenu{}, "")

	require.Error(t, app.Login(context.Background()))
	require.False(t, app.isLoggedIn())
	require.Contains(t, strings.Join(*lines, ""), "Sign in failed")
}

func TestRegisterCommand_ExistingAccountHint(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "dana@x.com", []byte("pw123"))
	conflict := &backend.PlatformError{Code: 409, Type: "user_already_exists", Message: "already exists"}
	app := newTestApp(&fakeAuth{regErr: conflict}, &fakeMenu{}, "")

	require.Error(t, app.Register(context.Background()))
	require.Contains(t, strings.Join(*lines, ""), "Use 'login' to sign in")
}

func TestRegisterCommand_SignsIn(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "dana@x.com", []byte("pw123"))
	app := newTestApp(&fakeAuth{user: testUser()}, &fakeMenu{}, "")

	require.NoError(t, app.Register(context.Background()))
	require.True(t, app.isLoggedIn())
	require.Contains(t, strings.Join(*lines, ""), "Welcome")
}

func TestMenuCommand_CategoryAndSearch(t *testing.T) {
	capturePrintln(t)
	menu := &fakeMenu{
		cats:  []models.Category{{ID: "cat-1", Name: "Burgers"}},
		items: []models.MenuItem{{Name: "Classic Cheeseburger", Price: 8.99}},
	}
	app := newTestApp(&fakeAuth{}, menu, "")

	require.NoError(t, app.Menu(context.Background(), []string{"@burgers", "extra", "cheese"}))
	require.Equal(t, "cat-1", menu.lastCategoryID)
	require.Equal(t, "extra cheese", menu.lastSearch)
}

func TestMenuCommand_UnknownCategory(t *testing.T) {
	lines := capturePrintln(t)
	app := newTestApp(&fakeAuth{}, &fakeMenu{}, "")

	require.Error(t, app.Menu(context.Background(), []string{"@Sushi"}))
	require.Contains(t, strings.Join(*lines, ""), `unknown category "Sushi"`)
}

func TestCategoriesCommand_EmptySuggestsSeeding(t *testing.T) {
	lines := capturePrintln(t)
	app := newTestApp(&fakeAuth{}, &fakeMenu{}, "")

	require.NoError(t, app.Categories(context.Background()))
	require.Contains(t, strings.Join(*lines, ""), "Run the seeder")
}

func TestProfileCommand_NotSignedIn(t *testing.T) {
	lines := capturePrintln(t)
	app := newTestApp(&fakeAuth{}, &fakeMenu{}, "")

	require.NoError(t, app.Profile(context.Background()))
	require.Contains(t, strings.Join(*lines, ""), "Not signed in")
}

func TestProfileCommand_PrintsUser(t *testing.T) {
	lines := capturePrintln(t)
	app := newTestApp(&fakeAuth{user: testUser()}, &fakeMenu{}, "")

	require.NoError(t, app.Profile(context.Background()))
	out := strings.Join(*lines, "")
	require.Contains(t, out, "Dana")
	require.Contains(t, out, "dana@x.com")
}

func TestAvatarCommand_RequiresLogin(t *testing.T) {
	lines := capturePrintln(t)
	app := newTestApp(&fakeAuth{}, &fakeMenu{}, "")

	require.NoError(t, app.Avatar(context.Background(), []string{"me.png"}))
	require.Contains(t, strings.Join(*lines, ""), "Sign in first")
}

func TestStatusShowsEmail(t *testing.T) {
	capturePrintln(t)
	app := newTestApp(&fakeAuth{user: testUser()}, &fakeMenu{}, "")

	require.Equal(t, "", app.status())
	app.store.FetchAuthenticatedUser(context.Background())
	require.Equal(t, "(dana@x.com)", app.status())
}
