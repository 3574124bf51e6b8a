// Package session owns the authentication lifecycle: startup validation
// of persisted credentials, login and logout transitions, and the two
// OAuth2 return paths. It is the single writer of authentication state;
// everything else observes snapshots through Subscribe.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/fitroom/fitroom/api"
	"github.com/fitroom/fitroom/apperr"
	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/nav"
)

// State is the authentication state machine.
type State int

const (
	// StateUnknown means startup validation has not resolved yet. No
	// wardrobe or profile data may be shown in this state.
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session.
type Snapshot struct {
	State    State
	Username string
}

// Authenticated reports whether the snapshot is a logged-in session.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

// AuthService is the slice of the auth API the manager needs.
type AuthService interface {
	GetProfile(ctx context.Context) (api.Profile, error)
	OAuth2Callback(ctx context.Context, code string) (api.OAuth2CallbackResult, error)
	CompleteOAuth2Profile(ctx context.Context, email, username, gender string) (api.MessageResult, error)
}

// Options configures a Manager.
type Options struct {
	Store         credstore.Store
	Auth          AuthService
	Nav           nav.Navigator
	Logger        *slog.Logger
	OAuth2AuthURL string
	RedirectURI   string
}

// Manager drives the session state machine.
type Manager struct {
	store       credstore.Store
	auth        AuthService
	nav         nav.Navigator
	log         *slog.Logger
	authURL     string
	redirectURI string

	mu       sync.RWMutex
	state    State
	username string
	token    string
	subs     []func(Snapshot)
}

// NewManager creates a Manager in the Unknown state.
func NewManager(options Options) (*Manager, error) {
	if options.Store == nil {
		return nil, errors.New("credential store is required")
	}
	if options.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:       options.Store,
		auth:        options.Auth,
		nav:         options.Nav,
		log:         log,
		authURL:     options.OAuth2AuthURL,
		redirectURI: options.RedirectURI,
		state:       StateUnknown,
	}, nil
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, Username: m.username}
}

// Token returns the current bearer token, empty unless authenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers a callback invoked after every state change.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Start resolves the Unknown state by validating persisted credentials
// against the backend. Any failure, network failures included, resolves
// to logged out with the store cleared; an expired session is the
// expected case, not an error, so nothing is surfaced.
func (m *Manager) Start(ctx context.Context) Snapshot {
	creds, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNoCredentials) {
			m.log.Warn("loading credentials failed", slog.String("error", err.Error()))
		}
		// Partial or unreadable state must not survive.
		m.clearStore(ctx)
		return m.publish(StateUnauthenticated, "", "")
	}

	if _, err := m.auth.GetProfile(ctx); err != nil {
		m.log.Debug("stored token rejected, logging out",
			slog.String("username", creds.Username),
			slog.String("error", err.Error()))
		m.clearStore(ctx)
		return m.publish(StateUnauthenticated, "", "")
	}

	return m.publish(StateAuthenticated, creds.Username, creds.Token)
}

// Login persists the credential record and publishes the authenticated
// state. When persistence fails the manager falls back to logged out and
// returns the failure so storage and memory never disagree.
func (m *Manager) Login(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return apperr.New(apperr.CodeBadRequest, 0, "token and username are required", nil)
	}

	if err := m.store.Save(ctx, credstore.Credentials{Token: token, Username: username}); err != nil {
		m.clearStore(ctx)
		m.publish(StateUnauthenticated, "", "")
		return err
	}

	m.publish(StateAuthenticated, username, token)
	return nil
}

// Logout clears the credential record and publishes the logged-out
// state. Callable in any state, any number of times.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	m.publish(StateUnauthenticated, "", "")
	return err
}

// BeginOAuth2 stashes the return URI and hands back the provider URL the
// shell should open. The stash is written before the handoff so the
// return leg knows where to land.
func (m *Manager) BeginOAuth2(ctx context.Context) (string, error) {
	if m.authURL == "" {
		return "", apperr.New(apperr.CodeBadRequest, 0, "oauth2 sign-in is not configured", nil)
	}
	redirect := m.redirectURI
	if redirect == "" {
		redirect = nav.RouteLogin
	}
	if err := m.store.StashRedirect(ctx, redirect); err != nil {
		return "", err
	}
	return m.authURL, nil
}

// ConsumeRedirect takes the pending OAuth2 return URI, if any.
func (m *Manager) ConsumeRedirect(ctx context.Context) string {
	uri, err := m.store.TakeRedirect(ctx)
	if err != nil {
		m.log.Warn("reading pending oauth2 redirect failed", slog.String("error", err.Error()))
		return ""
	}
	return uri
}

// HandleOAuth2Callback completes the authorization-code return path.
// An existing linked account logs in and lands on the home view; an
// email-only result routes to profile completion without touching
// session state; anything else is a hard error.
func (m *Manager) HandleOAuth2Callback(ctx context.Context, code string) error {
	result, err := m.auth.OAuth2Callback(ctx, code)
	if err != nil {
		return err
	}

	switch {
	case result.Token != "" && result.Username != "":
		if err := m.Login(ctx, result.Token, result.Username); err != nil {
			return err
		}
		m.redirect(nav.RouteHome)
		return nil
	case result.Email != "":
		query := url.Values{}
		query.Set("email", result.Email)
		query.Set("token", result.Token)
		m.redirect(nav.RouteCompleteProfile + "?" + query.Encode())
		return nil
	default:
		return apperr.New(apperr.CodeBadResponse, 0, "invalid response from server", nil)
	}
}

// HandleOAuth2Token completes the alternate return path where the
// provider round-trip embedded token and username directly in the URL.
// No network call is needed.
func (m *Manager) HandleOAuth2Token(ctx context.Context, token, username string) error {
	if err := m.Login(ctx, token, username); err != nil {
		return err
	}
	m.redirect(nav.RouteHome)
	return nil
}

// CompleteProfile finishes a first-time OAuth2 sign-in and logs in when
// the backend issues a token.
func (m *Manager) CompleteProfile(ctx context.Context, email, username, gender string) error {
	result, err := m.auth.CompleteOAuth2Profile(ctx, email, username, gender)
	if err != nil {
		return err
	}
	if result.Token != "" {
		if err := m.Login(ctx, result.Token, username); err != nil {
			return err
		}
	}
	m.redirect(nav.RouteHome)
	return nil
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("clearing credentials failed", slog.String("error", err.Error()))
	}
}

func (m *Manager) redirect(path string) {
	if m.nav != nil {
		m.nav.Redirect(path)
	}
}

func (m *Manager) publish(state State, username, token string) Snapshot {
	m.mu.Lock()
	m.state = state
	m.username = username
	m.token = token
	snapshot := Snapshot{State: state, Username: username}
	subs := make([]func(Snapshot), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return snapshot
}
