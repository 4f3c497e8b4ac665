package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// Profile prints the signed-in user's details, refreshing from the backend
// first so the output matches the remote state.
func (a *App) Profile(ctx context.Context) error {
	a.store.FetchAuthenticatedUser(ctx)

	st := a.store.Snapshot()
	if st.User == nil {
		printlnFn("Not signed in.")
		return nil
	}

	printlnFn("Name:  ", st.User.Name)
	printlnFn("Email: ", st.User.Email)
	if st.User.Avatar != "" {
		printlnFn("Avatar:", st.User.Avatar)
	}
	for k, v := range st.User.Prefs {
		printlnFn(fmt.Sprintf("%s: %s", k, v))
	}
	return nil
}

// Avatar uploads a local image file as the new profile picture.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first.")
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage: avatar <path-to-image>")
		return nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		printlnFn("Cannot open file:", err)
		return err
	}
	defer f.Close()

	name := filepath.Base(args[0])
	mimeType := mime.TypeByExtension(filepath.Ext(name))

	if err := a.store.UpdateAvatar(ctx, name, mimeType, f); err != nil {
		printlnFn("Avatar update failed:", a.store.Snapshot().Err)
		return err
	}

	printlnFn("Avatar updated:", a.store.Snapshot().User.Avatar)
	return nil
}
