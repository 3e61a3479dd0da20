package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/store/guest"
)

// Manager owns the session mode state machine
// (unauthenticated / guest / authenticated) and notifies subscribers on
// every transition. It is the single place session mode changes.
type Manager struct {
	auth   *Auth
	kv     kv.Store
	logger logger.Logger

	mu       sync.Mutex
	mode     Mode
	identity *Identity
	token    string
	subs     []func(Mode)
}

func NewManager(auth *Auth, kvs kv.Store, log logger.Logger) *Manager {
	return &Manager{
		auth:   auth,
		kv:     kvs,
		logger: log,
		mode:   ModeUnauthenticated,
	}
}

// OnChange registers a callback fired once per session transition.
// Callbacks run synchronously in transition order.
func (m *Manager) OnChange(fn func(Mode)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Mode returns the current session mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Resume restores a persisted guest session on startup, if the guest
// marker is present in the local store.
func (m *Manager) Resume(ctx context.Context) {
	raw, ok, err := m.kv.Get(ctx, GuestUserKey)
	if err != nil || !ok {
		return
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		m.logger.Warn("malformed guest marker, ignoring", logger.Error(err))
		return
	}

	m.logger.Info("resuming guest session", logger.String("guest_id", identity.ID))
	m.transition(ModeGuest, &identity, "")
}

// SignUp creates an account. It does not start a session; the caller
// signs in afterwards.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	return m.auth.SignUp(ctx, email, password)
}

// SignIn authenticates and transitions to ModeAuthenticated.
// An active guest session is ended first, discarding its marker.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	token, identity, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if m.Mode() == ModeGuest {
		m.discardGuestData(ctx)
	}

	m.logger.Info("signed in", logger.String("email", identity.Email))
	m.transition(ModeAuthenticated, identity, token)
	return identity, nil
}

// SignInAsGuest writes the guest marker and transitions to ModeGuest.
func (m *Manager) SignInAsGuest(ctx context.Context) (*Identity, error) {
	identity := &Identity{
		ID:    guestIdentityID(),
		Email: "",
		Guest: true,
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest marker: %w", err)
	}
	if err := m.kv.Set(ctx, GuestUserKey, string(data)); err != nil {
		return nil, fmt.Errorf("failed to persist guest marker: %w", err)
	}

	m.logger.Info("signed in as guest", logger.String("guest_id", identity.ID))
	m.transition(ModeGuest, identity, "")
	return identity, nil
}

// SignOut ends the current session and transitions to
// ModeUnauthenticated. Guest sign-out also discards the guest marker
// and the guest website collection; guest data is never migrated.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	mode := m.mode
	token := m.token
	m.mu.Unlock()

	switch mode {
	case ModeGuest:
		m.discardGuestData(ctx)
	case ModeAuthenticated:
		if err := m.auth.SignOut(ctx, token); err != nil {
			m.logger.Warn("failed to revoke session token", logger.Error(err))
		}
	}

	m.logger.Info("signed out", logger.String("previous_mode", mode.String()))
	m.transition(ModeUnauthenticated, nil, "")
	return nil
}

// CurrentIdentity resolves the identity of the active session.
// Unauthenticated sessions yield (nil, nil). An authenticated session
// whose token no longer validates yields ErrSessionExpired.
func (m *Manager) CurrentIdentity(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	mode := m.mode
	identity := m.identity
	token := m.token
	m.mu.Unlock()

	switch mode {
	case ModeGuest:
		return identity, nil
	case ModeAuthenticated:
		return m.auth.Validate(ctx, token)
	default:
		return nil, nil
	}
}

func (m *Manager) discardGuestData(ctx context.Context) {
	if err := m.kv.Remove(ctx, GuestUserKey); err != nil {
		m.logger.Warn("failed to remove guest marker", logger.Error(err))
	}
	if err := m.kv.Remove(ctx, guest.WebsitesKey); err != nil {
		m.logger.Warn("failed to remove guest websites", logger.Error(err))
	}
}

// guestIdentityID builds the id written into the guest marker.
func guestIdentityID() string {
	return fmt.Sprintf("guest_%d", time.Now().UnixMilli())
}

// transition swaps session state and fires subscribers exactly once,
// outside the lock.
func (m *Manager) transition(mode Mode, identity *Identity, token string) {
	m.mu.Lock()
	m.mode = mode
	m.identity = identity
	m.token = token
	subs := append([]func(Mode){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(mode)
	}
}
