// Package session owns the client's authentication state: who is logged in,
// with which token, and how that survives a restart.
//
// A Manager starts in the loading state. Initialize rehydrates the user from
// the credential store once per process; afterwards Login and Logout move
// the session between authenticated and unauthenticated. Changes made while
// rehydration is still running win over whatever rehydration finds.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/credstore"
	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/common"
	"github.com/dmitrijs2005/orderdesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Login for a user without an access token.
var ErrNoToken = errors.New("user has no token")

// Validator checks a stored token against the server and returns the
// current user for it.
type Validator interface {
	Me(ctx context.Context, token string) (models.User, error)
}

type Option func(*Manager)

// WithValidator revalidates the rehydrated token with v at startup.
func WithValidator(v Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// WithRevalidation turns startup revalidation on or off (default on).
func WithRevalidation(enabled bool) Option {
	return func(m *Manager) { m.revalidate = enabled }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager is the single source of truth for the current user.
// It is safe for concurrent use.
type Manager struct {
	store      credstore.Store
	validator  Validator
	revalidate bool
	log        logging.Logger
	now        func() time.Time

	// serialises Login/Logout so the persisted copy follows the in-memory order
	writeMu sync.Mutex

	mu         sync.RWMutex
	user       models.User
	loading    bool
	generation uint64

	initOnce sync.Once
	ready    chan struct{}
}

func NewManager(store credstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		revalidate: true,
		log:        logging.Nop(),
		now:        time.Now,
		loading:    true,
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "session")
	return m
}

// Initialize rehydrates the session from the credential store. Only the
// first call does any work; concurrent and later calls block until it has
// finished. Failures leave the session logged out and are only logged.
func (m *Manager) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		m.mu.RLock()
		gen := m.generation
		m.mu.RUnlock()

		restored := m.restore(ctx, gen)

		m.mu.Lock()
		if m.generation == gen {
			m.user = restored
		} else {
			m.log.Debug(ctx, "session changed during rehydration, keeping in-memory user")
		}
		m.loading = false
		m.mu.Unlock()

		close(m.ready)
	})
}

// Ready is closed once Initialize has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) restore(ctx context.Context, gen uint64) models.User {
	raw, ok, err := m.store.Get(ctx, common.UserStoreKey)
	if err != nil {
		m.log.Warn(ctx, "credential store unreadable, starting logged out", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn(ctx, "stored session is corrupt, discarding", "error", err)
		m.forget(ctx, gen)
		return nil
	}

	token := user.Token()
	if token == "" {
		m.log.Warn(ctx, "stored session has no token, discarding")
		m.forget(ctx, gen)
		return nil
	}

	if tokenExpired(token, m.now()) {
		m.log.Info(ctx, "stored token expired, discarding", "email", user.Email())
		m.forget(ctx, gen)
		return nil
	}

	if m.revalidate && m.validator != nil {
		current, err := m.validator.Me(ctx, token)
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				m.log.Info(ctx, "stored token rejected by server, discarding", "email", user.Email())
				m.forget(ctx, gen)
			} else {
				m.log.Warn(ctx, "could not revalidate stored session, starting logged out", "error", err)
			}
			return nil
		}
		user = user.Merge(current)
	}

	m.log.Info(ctx, "session restored", "email", user.Email())
	return user
}

// forget deletes the persisted user unless the session has changed since
// generation gen; failures are logged only.
func (m *Manager) forget(ctx context.Context, gen uint64) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	current := m.generation
	m.mu.RUnlock()
	if current != gen {
		m.log.Debug(ctx, "session changed during rehydration, keeping persisted user")
		return
	}

	if err := m.store.Delete(ctx, common.UserStoreKey); err != nil {
		m.log.Warn(ctx, "could not delete stored session", "error", err)
	}
}

// tokenExpired reports whether token is a JWT whose exp has passed. Opaque
// tokens and JWTs without exp are left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Login makes user the current user and persists it. The in-memory change
// is kept even when persisting fails; the error is returned.
func (m *Manager) Login(ctx context.Context, user models.User) error {
	if user.Token() == "" {
		return ErrNoToken
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	m.user = user.Clone()
	m.generation++
	m.mu.Unlock()

	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, common.UserStoreKey, string(blob)); err != nil {
		m.log.Error(ctx, "could not persist session", "error", err)
		return fmt.Errorf("persist session: %w", err)
	}

	m.log.Info(ctx, "logged in", "email", user.Email())
	return nil
}

// Logout clears the current user and its persisted copy.
func (m *Manager) Logout(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	email := m.user.Email()
	m.user = nil
	m.generation++
	m.mu.Unlock()

	if err := m.store.Delete(ctx, common.UserStoreKey); err != nil {
		m.log.Error(ctx, "could not clear persisted session", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}

	m.log.Info(ctx, "logged out", "email", email)
	return nil
}

// SetUser replaces the in-memory user without persisting it. An empty user
// clears the session.
func (m *Manager) SetUser(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(user) == 0 {
		m.user = nil
	} else {
		m.user = user.Clone()
	}
	m.generation++
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// Token returns the current access token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Token()
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.user) > 0
}

// Loading is true until Initialize has finished.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}
