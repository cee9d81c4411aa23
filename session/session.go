// Package session holds the client-side authentication state machine. It
// owns the observable user state, persists credentials through the local
// store, and reacts to session expiry events from the API client.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/paulmbaike/movie-database-app/moviedb"
	"github.com/paulmbaike/movie-database-app/store"
)

// DefaultRole is assumed when the backend omits the role claim.
const DefaultRole = "user"

// User is the transient client-side identity, derived from the auth
// payload or the stored snapshot. It has no meaning past the token's
// lifetime.
type User struct {
	Username string
	Role     string
}

// State is the observable session state. Authenticated is true exactly
// when User is present; Loading is true only during startup hydration or
// an in-flight login or register call.
type State struct {
	User          *User
	Authenticated bool
	Loading       bool
	Err           error
}

// AuthAPI is the slice of the catalog client the session layer needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*moviedb.AuthResponse, error)
	Register(ctx context.Context, username, email, password string) (*moviedb.AuthResponse, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// CredentialStore persists the token and the user snapshot between runs.
type CredentialStore interface {
	Token() (string, bool)
	SaveToken(token string) error
	ClearToken() error
	Profile() (store.Profile, bool)
	SaveProfile(p store.Profile) error
	ClearProfile() error
}

// Manager drives the session state machine. State changes flow through the
// explicit actions only; reads and subscriptions are safe from any
// goroutine.
type Manager struct {
	auth   AuthAPI
	creds  CredentialStore
	logger zerolog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewManager creates a session manager. The state starts as loading until
// Hydrate runs.
func NewManager(auth AuthAPI, creds CredentialStore, logger zerolog.Logger) *Manager {
	return &Manager{
		auth:   auth,
		creds:  creds,
		logger: logger,
		state:  State{Loading: true},
		subs:   make(map[int]func(State)),
	}
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to run after every state transition and returns
// the matching unsubscribe function.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Hydrate restores the session from the credential store. With a token
// present the user comes from the profile snapshot, or a minimal
// placeholder when none survives. Without a token the session starts
// signed out, with ErrNoSession recording why.
func (m *Manager) Hydrate() State {
	if _, ok := m.creds.Token(); !ok {
		m.setState(State{Err: ErrNoSession})
		return m.State()
	}

	user := &User{Role: DefaultRole}
	if profile, ok := m.creds.Profile(); ok {
		user.Username = profile.Username
		if profile.Role != "" {
			user.Role = profile.Role
		}
	}

	m.setState(State{User: user, Authenticated: true})
	return m.State()
}

// Login exchanges credentials for a session. Subscribers observe the
// loading transition and then the outcome; the returned state is the
// outcome.
func (m *Manager) Login(ctx context.Context, username, password string) State {
	m.setState(State{Loading: true})

	resp, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return m.failAttempt(err)
	}
	return m.completeAttempt(resp)
}

// Register creates an account and signs in with the returned token.
func (m *Manager) Register(ctx context.Context, username, email, password string) State {
	m.setState(State{Loading: true})

	resp, err := m.auth.Register(ctx, username, email, password)
	if err != nil {
		return m.failAttempt(err)
	}
	return m.completeAttempt(resp)
}

// ChangePassword rotates the password for the signed-in user. The session
// state is untouched; a rejected session surfaces through the usual expiry
// path.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return m.auth.ChangePassword(ctx, currentPassword, newPassword)
}

// Logout clears the stored credentials synchronously. No network call is
// involved; the server-side token just ages out.
func (m *Manager) Logout() {
	if err := m.creds.ClearToken(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear token")
	}
	if err := m.creds.ClearProfile(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear profile")
	}
	m.setState(State{})
}

// ClearError drops the error from the current state, leaving the rest as is.
func (m *Manager) ClearError() {
	m.mu.Lock()
	next := m.state
	m.mu.Unlock()

	if next.Err == nil {
		return
	}
	next.Err = nil
	m.setState(next)
}

// SessionExpired flips the session to signed out after the client reports
// a rejected token. Register it with the client's OnUnauthorized hook. The
// client has already cleared the stored token; the profile snapshot goes
// with it.
func (m *Manager) SessionExpired() {
	if err := m.creds.ClearProfile(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear profile")
	}
	m.setState(State{Err: moviedb.ErrSessionExpired})
}

func (m *Manager) failAttempt(err error) State {
	m.logger.Debug().Err(err).Msg("authentication attempt failed")
	m.setState(State{Err: err})
	return m.State()
}

func (m *Manager) completeAttempt(resp *moviedb.AuthResponse) State {
	role := resp.Role
	if role == "" {
		role = DefaultRole
	}

	if err := m.creds.SaveToken(resp.Token); err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist token")
	}
	if err := m.creds.SaveProfile(store.Profile{Username: resp.Username, Role: role}); err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist profile")
	}

	m.setState(State{
		User:          &User{Username: resp.Username, Role: role},
		Authenticated: true,
	})
	return m.State()
}

// setState publishes a transition. Subscribers run outside the lock so
// they may call back into the manager.
func (m *Manager) setState(next State) {
	m.mu.Lock()
	m.state = next
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
