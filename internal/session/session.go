// Package session owns the signed-in user: restoring it from the OS keyring
// at startup, signing in and out, and deciding which screens need it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrNoSession means nobody is signed in
	ErrNoSession = errors.New("not logged in")
	// ErrExpired means a saved session exists but its token has expired
	ErrExpired = errors.New("session expired, please log in again")
)

// Backend is the subset of the API client the session needs
type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Token() string
	SetToken(token string)
}

// UserCache remembers the last user so read-only commands work offline
type UserCache interface {
	PutUser(ctx context.Context, u models.User) error
	LastUser(ctx context.Context) (models.User, error)
	ClearUser(ctx context.Context, userID string) error
}

type Manager struct {
	backend Backend
	tokens  keyring.TokenStore
	users   UserCache
	user    *models.User
	offline bool
	now     func() time.Time
}

type Option func(*Manager)

// WithUserCache enables the offline fallback in Initialize
func WithUserCache(c UserCache) Option {
	return func(m *Manager) { m.users = c }
}

// WithClock replaces time.Now for expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(backend Backend, tokens keyring.TokenStore, opts ...Option) *Manager {
	m := &Manager{backend: backend, tokens: tokens, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// User returns the signed-in user or nil
func (m *Manager) User() *models.User {
	return m.user
}

func (m *Manager) Authenticated() bool {
	return m.user != nil
}

// Offline reports whether the user was restored from cache because the
// backend could not be reached
func (m *Manager) Offline() bool {
	return m.offline
}

// RequireUser returns the signed-in user or ErrNoSession
func (m *Manager) RequireUser() (models.User, error) {
	if m.user == nil {
		return models.User{}, ErrNoSession
	}
	return *m.user, nil
}

// TokenExpiry reads the exp claim without verifying the signature; only the
// backend can verify it. ok is false when the token carries no expiry.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("malformed session token: %w", err)
	}
	date, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed session token: %w", err)
	}
	if date == nil {
		return time.Time{}, false, nil
	}
	return date.Time, true, nil
}

// Initialize restores the saved session. Tokens that are visibly expired are
// discarded without a round trip. When the backend is unreachable the last
// cached user is used and Offline reports true.
func (m *Manager) Initialize(ctx context.Context) (*models.User, error) {
	m.user, m.offline = nil, false

	token, err := m.tokens.GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	// Opaque (non-JWT) tokens are left for the backend to judge
	if exp, ok, err := TokenExpiry(token); err == nil && ok && !exp.After(m.now()) {
		logger.Info("Saved session expired", "expired_at", exp)
		m.forget()
		return nil, ErrExpired
	}

	m.backend.SetToken(token)
	user, err := m.backend.Me(ctx)
	switch {
	case err == nil:
		m.user = user
		m.remember(ctx, *user)
		return user, nil
	case api.IsUnauthorized(err):
		logger.Info("Saved session rejected by backend")
		m.forget()
		return nil, ErrExpired
	case api.IsNetwork(err) && m.users != nil:
		cached, cacheErr := m.users.LastUser(ctx)
		if cacheErr != nil {
			return nil, err
		}
		logger.Warn("Backend unreachable, using cached user", "error", err)
		m.user, m.offline = &cached, true
		return &cached, nil
	}
	return nil, err
}

// SignIn authenticates and persists the session token
func (m *Manager) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	resp, err := m.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp.User)
}

// Register creates an account and signs it in
func (m *Manager) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	resp, err := m.backend.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp.User)
}

func (m *Manager) establish(ctx context.Context, u models.User) (*models.User, error) {
	if token := m.backend.Token(); token != "" {
		if err := m.tokens.SetToken(token); err != nil {
			// The session still works for this run
			logger.Warn("Could not persist session", "error", err)
		}
	} else {
		logger.Warn("Backend did not issue a session cookie")
	}
	m.user, m.offline = &u, false
	m.remember(ctx, u)
	return &u, nil
}

// SignOut ends the session. Local state is always torn down, even when the
// backend call fails; that error is still returned.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.backend.Logout(ctx)
	if err != nil {
		logger.Warn("Backend logout failed", "error", err)
	}
	if m.user != nil && m.users != nil {
		if cerr := m.users.ClearUser(ctx, m.user.ID); cerr != nil {
			logger.Warn("Failed to clear cached user", "error", cerr)
		}
	}
	m.forget()
	return err
}

// Expire drops the in-memory session after the backend answered 401
func (m *Manager) Expire() {
	m.forget()
}

func (m *Manager) forget() {
	m.user, m.offline = nil, false
	m.backend.SetToken("")
	if err := m.tokens.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Failed to delete saved session", "error", err)
	}
}

func (m *Manager) remember(ctx context.Context, u models.User) {
	if m.users == nil {
		return
	}
	if err := m.users.PutUser(ctx, u); err != nil {
		logger.Debug("Failed to cache user", "error", err)
	}
}
