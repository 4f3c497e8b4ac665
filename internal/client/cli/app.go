// Package cli implements the interactive FastBite terminal client: a small
// REPL over the auth store and the menu service.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/fastbite/fastbite/internal/client/backend"
	"github.com/fastbite/fastbite/internal/client/config"
	"github.com/fastbite/fastbite/internal/client/services"
	"github.com/fastbite/fastbite/internal/client/store"
	"github.com/fastbite/fastbite/internal/logging"
)

// App wires the backend client, flows and state store together for the REPL.
type App struct {
	cfg    *config.Config
	store  *store.Store
	menu   services.MenuService
	reader *bufio.Reader
	log    logging.Logger
}

// NewApp builds the full client object graph from configuration.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	api, err := backend.New(cfg)
	if err != nil {
		return nil, err
	}

	auth := services.NewAuthService(api, cfg, log)
	menu := services.NewMenuService(api, cfg, log)

	return &App{
		cfg:    cfg,
		store:  store.New(auth, log),
		menu:   menu,
		reader: bufio.NewReader(os.Stdin),
		log:    log,
	}, nil
}

// Store exposes the state store, mainly so alternative frontends can
// subscribe to it.
func (a *App) Store() *store.Store {
	return a.store
}

// Run reconciles any existing platform session, then enters the REPL until
// EOF or an exit command.
func (a *App) Run(ctx context.Context) {
	a.store.FetchAuthenticatedUser(ctx)

	printlnFn("Welcome to FastBite (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated
}

// status renders the prompt suffix, e.g. "(dana@x.com)".
func (a *App) status() string {
	st := a.store.Snapshot()
	if st.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", st.User.Email)
}
