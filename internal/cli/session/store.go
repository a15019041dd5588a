// Package session is the client's single source of truth for who is logged
// in. The token and cached user are read from durable storage once when the
// store is opened and only change through Login, Signup, Logout and
// Invalidate.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/nutribattle/nutribattle/internal/api"
)

// ErrNoAuthenticator is returned by Login and Signup on a store that was
// never bound to a backend
var ErrNoAuthenticator = errors.New("session store has no authenticator")

// Authenticator exchanges credentials for a token with the backend
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error)
}

// Session is an authenticated token with its cached user
type Session struct {
	Token string
	User  api.UserSummary
}

// Store holds the current session
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	auth     Authenticator
	logger   zerolog.Logger
	validate *validator.Validate
	current  *Session
}

// Option configures a Store
type Option func(*Store)

// WithAuthenticator sets the backend used by Login and Signup
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Store) {
		s.auth = auth
	}
}

// WithLogger sets the store's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open creates a store and restores any session persisted in storage.
// Unreadable storage is logged and treated as logged out.
func Open(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		logger:   zerolog.Nop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.restore()
	return s
}

// Bind sets the authenticator after construction. The HTTP client needs the
// store to attach tokens, so the two are wired in two steps.
func (s *Store) Bind(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Reload re-reads durable storage, picking up logins from other processes
func (s *Store) Reload() {
	restored := s.restore()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = restored
}

// restore reads both entries and returns nil unless both are present and
// the user parses. A token without its user is not a session.
func (s *Store) restore() *Session {
	token, err := s.storage.Read(KeyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).Msg("Failed to read stored token, treating as logged out")
		}
		return nil
	}
	if token == "" {
		return nil
	}

	raw, err := s.storage.Read(KeyUser)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn().Msg("Stored token has no user, treating as logged out")
		} else {
			s.logger.Warn().Err(err).Msg("Failed to read stored user, treating as logged out")
		}
		return nil
	}

	var user api.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Msg("Stored user is corrupted, treating as logged out")
		return nil
	}
	if err := s.validate.Struct(&user); err != nil {
		s.logger.Warn().Err(err).Msg("Stored user is incomplete, treating as logged out")
		return nil
	}

	return &Session{Token: token, User: user}
}

// Login authenticates with the backend and persists the resulting session.
// Backend errors are returned unchanged and leave the current session as is.
func (s *Store) Login(ctx context.Context, creds api.Credentials) (*Session, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return nil, ErrNoAuthenticator
	}

	resp, err := auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

// Signup creates an account and logs straight into it
func (s *Store) Signup(ctx context.Context, req api.SignupRequest) (*Session, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return nil, ErrNoAuthenticator
	}

	resp, err := auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *Store) establish(resp *api.AuthResponse) (*Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, fmt.Errorf("backend returned no access token")
	}

	sess := &Session{Token: resp.AccessToken, User: resp.Summary()}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.WriteAll(map[string]string{
		KeyToken: sess.Token,
		KeyUser:  string(userJSON),
	}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.current = sess

	s.logger.Debug().Str("username", sess.User.Username).Str("role", string(sess.User.Role)).Msg("Session established")
	copied := *sess
	return &copied, nil
}

// Logout clears the session. The in-memory session is always dropped, even
// when durable storage fails to delete.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.storage.DeleteAll(KeyToken, KeyUser); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear stored session")
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Invalidate clears the session if token is still the current token and
// reports whether it did. Clearing an already empty or newer session is a
// no-op, so any number of concurrent 401s clear at most once.
func (s *Store) Invalidate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Token != token {
		return false
	}

	s.current = nil
	if err := s.storage.DeleteAll(KeyToken, KeyUser); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear stored session after rejection")
	}
	return true
}

// Token returns the current bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// CurrentUser returns the cached user of the current session
func (s *Store) CurrentUser() (*api.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	user := s.current.User
	return &user, true
}

// IsAuthenticated reports whether a token is present. Validity is enforced
// by the backend on each request.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the current user is an admin
func (s *Store) IsAdmin() bool {
	user, ok := s.CurrentUser()
	return ok && user.IsAdmin()
}

// TokenExpiry returns the token's exp claim without verifying the signature.
// It is informational only.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
