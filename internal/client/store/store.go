// Package store holds the client's shared authentication state: who is
// signed in, whether an operation is in flight, and the last failure.
//
// The store is constructed explicitly and injected into the UI layer; there
// is no package-level singleton. Subscribers observe every committed state
// change.
package store

import (
	"context"
	"io"
	"sync"

	"github.com/fastbite/fastbite/internal/client/models"
	"github.com/fastbite/fastbite/internal/client/services"
	"github.com/fastbite/fastbite/internal/logging"
)

// State is an immutable snapshot of the client's auth status.
//
// Invariant: IsAuthenticated implies User != nil. The two fields only ever
// change together.
type State struct {
	IsAuthenticated bool
	User            *models.User
	IsLoading       bool
	Err             string
}

// Store is the single shared state container. All mutation goes through the
// operation methods; reads go through Snapshot or a subscription.
type Store struct {
	auth services.AuthService
	log  logging.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// New constructs a Store around the given AuthService.
func New(auth services.AuthService, log logging.Logger) *Store {
	return &Store{
		auth: auth,
		log:  log,
		subs: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with every committed state change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies mutate under the lock, then notifies subscribers outside of
// it with the committed snapshot.
func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// begin marks an operation as started: loading on, previous error cleared.
func (s *Store) begin() {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Err = ""
	})
}

// end clears the loading flag. Deferred by every operation so it runs on
// every exit path.
func (s *Store) end() {
	s.update(func(st *State) {
		st.IsLoading = false
	})
}

// setUser commits an authenticated/unauthenticated transition. Both fields
// always change together; errMsg is only meaningful when u is nil.
func (s *Store) setUser(u *models.User, errMsg string) {
	s.update(func(st *State) {
		st.IsAuthenticated = u != nil
		st.User = u
		st.Err = errMsg
	})
}

// FetchAuthenticatedUser reconciles local state with the platform session.
// A missing session or any fetch failure resets the store to unauthenticated;
// the method itself never fails.
func (s *Store) FetchAuthenticatedUser(ctx context.Context) {
	s.begin()
	defer s.end()

	u, err := s.auth.FetchCurrentUser(ctx)
	if err != nil || u == nil {
		s.setUser(nil, "")
		return
	}
	s.setUser(u, "")
}

// SignIn authenticates and commits the result. The returned error mirrors
// the state's Err field so callers can branch on it (e.g. with
// services.IsAccountExists) without re-reading the snapshot.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.begin()
	defer s.end()

	u, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.setUser(nil, err.Error())
		return err
	}
	s.setUser(u, "")
	return nil
}

// SignUp registers a new account and then signs in with the same
// credentials, so a successful sign-up ends with an active session and an
// authenticated store.
func (s *Store) SignUp(ctx context.Context, email, password, name string) error {
	s.begin()

	_, err := s.auth.Register(ctx, email, password, name)
	s.end()
	if err != nil {
		s.setUser(nil, err.Error())
		return err
	}

	return s.SignIn(ctx, email, password)
}

// SignOut destroys the session. The store is reset to unauthenticated even
// when the platform call fails; the failure is still recorded and returned.
func (s *Store) SignOut(ctx context.Context) error {
	s.begin()
	defer s.end()

	err := s.auth.SignOut(ctx)
	if err != nil {
		s.setUser(nil, err.Error())
		return err
	}
	s.setUser(nil, "")
	return nil
}

// UpdateAvatar uploads a new avatar for the signed-in user and commits the
// refreshed user returned by the flow.
func (s *Store) UpdateAvatar(ctx context.Context, fileName, mimeType string, r io.Reader) error {
	s.begin()
	defer s.end()

	cur := s.Snapshot().User
	u, err := s.auth.UpdateAvatar(ctx, cur, fileName, mimeType, r)
	if err != nil {
		s.update(func(st *State) { st.Err = err.Error() })
		return err
	}
	s.setUser(u, "")
	return nil
}
