package cli

import (
	"context"
	"os"

	"github.com/fastbite/fastbite/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// A successful sign-up leaves the user signed in. When the email is already
// registered, the user is pointed at the login command instead of a bare
// error.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	if err := a.store.SignUp(ctx, email, string(password), name); err != nil {
		if services.IsAccountExists(err) {
			printlnFn("An account with this email already exists. Use 'login' to sign in.")
		} else {
			printlnFn("Sign up failed:", a.store.Snapshot().Err)
		}
		return err
	}

	printlnFn("Welcome,", name)
	return nil
}

// Login prompts for credentials and signs in through the store.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	if err := a.store.SignIn(ctx, email, string(password)); err != nil {
		printlnFn("Sign in failed:", a.store.Snapshot().Err)
		return err
	}

	printlnFn("Signed in.")
	return nil
}

// Logout destroys the platform session and resets the store.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.SignOut(ctx); err != nil {
		printlnFn("Sign out failed:", a.store.Snapshot().Err)
		return err
	}
	printlnFn("Signed out.")
	return nil
}
