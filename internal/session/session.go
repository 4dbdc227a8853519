// Package session owns the process-wide authentication state: who is
// logged in, with which token, and whether a login is in flight. It is the
// only writer of the persisted auth_token and user entries.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/log"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/storage"
)

// LoginPath is where Logout sends the user.
const LoginPath = "/login"

// ErrLoginInProgress is returned by Login while another login is running.
var ErrLoginInProgress = perrors.New(perrors.ErrCodeAuthLoginInProgress, "a login is already in progress").
	WithSuggestion("Wait for the current login to finish")

// State is the derived authentication state.
type State int

const (
	// Uninitialized means Init has not run yet.
	Uninitialized State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Session is a point-in-time copy of the authentication state.
type Session struct {
	User    *platform.User
	Token   string
	Loading bool
	State   State
}

// IsAuthenticated reports whether a user and token are present.
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil && s.Token != ""
}

// Authenticator is the subset of the backend client the store needs.
type Authenticator interface {
	Login(ctx context.Context, creds platform.Credentials) (*platform.LoginResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*platform.User, error)
}

// Navigator performs client-side navigation.
type Navigator interface {
	Navigate(path string)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

// Store holds the session and keeps it in sync with durable storage.
type Store struct {
	mu      sync.Mutex
	notify  sync.Mutex // held while subscribers run
	storage storage.Store
	auth    Authenticator
	nav     Navigator
	logger  *log.Logger
	now     func() time.Time

	state   Session
	subs    map[int]func(Session)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets where Logout navigates.
func WithNavigator(n Navigator) Option {
	return func(s *Store) {
		if n != nil {
			s.nav = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an uninitialized Store. Call Init before use.
func New(st storage.Store, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		storage: st,
		auth:    auth,
		nav:     nopNavigator{},
		logger:  log.Nop(),
		now:     time.Now,
		subs:    make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores the session from storage. A missing session yields
// Anonymous. A corrupted, half-written or expired one is wiped and also
// yields Anonymous; nothing is reported to the caller.
func (s *Store) Init(ctx context.Context) Session {
	user, token, err := s.restore()
	if err != nil {
		s.logger.WithContext(ctx).Debug("discarding stored session", "reason", err.Error())
		if derr := s.storage.Delete(storage.KeyAuthToken, storage.KeyUser); derr != nil {
			s.logger.WithError(derr).Warn("failed to clear stored session")
		}
	}

	next := Session{State: Anonymous}
	if err == nil && user != nil {
		next = Session{User: user, Token: token, State: Authenticated}
	}
	return s.set(next)
}

var errStale = errors.New("stale session")

// restore returns (nil, "", nil) when nothing is stored.
func (s *Store) restore() (*platform.User, string, error) {
	token, hasToken, err := s.storage.Get(storage.KeyAuthToken)
	if err != nil {
		return nil, "", err
	}
	rawUser, hasUser, err := s.storage.Get(storage.KeyUser)
	if err != nil {
		return nil, "", err
	}
	token = platform.CleanToken(token)

	if !hasToken && !hasUser {
		return nil, "", nil
	}
	if token == "" || !hasUser {
		return nil, "", fmt.Errorf("%w: token and user must be stored together", errStale)
	}

	var user *platform.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "", fmt.Errorf("%w: %v", errStale, err)
	}
	if user == nil {
		return nil, "", fmt.Errorf("%w: user is null", errStale)
	}
	if expired(token, s.now()) {
		return nil, "", fmt.Errorf("%w: token expired", errStale)
	}
	return user, token, nil
}

// ExpiresAt returns the exp claim of a JWT token. The signature is not
// checked. Opaque tokens and tokens without exp report false.
func ExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expired reports whether token is a JWT whose exp is not in the future.
// Opaque tokens never expire client-side.
func expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !exp.After(now)
}

// Login authenticates and persists the session. Loading is true while the
// call runs. On failure the previous state is kept and nothing is stored.
func (s *Store) Login(ctx context.Context, creds platform.Credentials) (*platform.User, error) {
	busy := false
	s.update(func(st *Session) bool {
		if st.Loading {
			busy = true
			return false
		}
		st.Loading = true
		return true
	})
	if busy {
		return nil, ErrLoginInProgress
	}

	res, err := s.auth.Login(ctx, creds)
	if err == nil {
		err = s.persist(res)
	}
	if err != nil {
		s.update(func(st *Session) bool {
			st.Loading = false
			return true
		})
		return nil, err
	}

	user := res.User
	s.set(Session{User: &user, Token: res.Token, State: Authenticated})
	s.logger.WithContext(ctx).Info("logged in", "email", user.Email, "role", user.Role)
	return &user, nil
}

func (s *Store) persist(res *platform.LoginResult) error {
	rawUser, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(map[string]string{
		storage.KeyAuthToken: res.Token,
		storage.KeyUser:      string(rawUser),
	}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout ends the session. The backend is told best-effort; local state
// is always cleared and the navigator is sent to the login path. Logging
// out while anonymous changes nothing.
func (s *Store) Logout(ctx context.Context) error {
	defer s.nav.Navigate(LoginPath)

	if !s.Snapshot().IsAuthenticated() {
		return nil
	}

	if err := s.auth.Logout(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("backend logout failed, clearing local session anyway")
	}

	err := s.storage.Delete(storage.KeyAuthToken, storage.KeyUser)
	s.set(Session{State: Anonymous})
	if err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

// Profile fetches the current user from the backend and refreshes the
// stored copy. A 401 means the backend no longer accepts the token; the
// session is cleared and a session-expired error returned.
func (s *Store) Profile(ctx context.Context) (*platform.User, error) {
	if !s.Snapshot().IsAuthenticated() {
		return nil, perrors.NewNotLoggedInError()
	}

	user, err := s.auth.Profile(ctx)
	if err != nil {
		if platform.IsUnauthorized(err) {
			if derr := s.storage.Delete(storage.KeyAuthToken, storage.KeyUser); derr != nil {
				s.logger.WithError(derr).Warn("failed to clear stored session")
			}
			s.set(Session{State: Anonymous})
			return nil, perrors.NewSessionExpiredError(err)
		}
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := s.storage.Set(map[string]string{storage.KeyUser: string(raw)}); err != nil {
			s.logger.WithError(err).Warn("failed to refresh stored user")
		}
	}
	s.update(func(st *Session) bool {
		st.User = user
		return true
	})
	return user, nil
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.state)
}

// Subscribe calls fn after every change, one change at a time and in the
// order the changes were applied. fn must not change the session itself.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close drops every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = make(map[int]func(Session))
}

func (s *Store) set(next Session) Session {
	return s.update(func(st *Session) bool {
		*st = next
		return true
	})
}

// update applies fn under the lock and, when fn reports a change, notifies
// subscribers outside it. notify is taken before mu is released so
// deliveries follow the order of the changes.
func (s *Store) update(fn func(*Session) bool) Session {
	s.mu.Lock()
	changed := fn(&s.state)
	snap := copySession(s.state)
	if !changed {
		s.mu.Unlock()
		return snap
	}
	subs := make([]func(Session), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if sub, ok := s.subs[i]; ok {
			subs = append(subs, sub)
		}
	}
	s.notify.Lock()
	s.mu.Unlock()
	defer s.notify.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return snap
}

func copySession(s Session) Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
