package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// DefaultTimeout is the inactivity period after which an Active session expires.
const DefaultTimeout = 15 * time.Minute

// Manager holds the session key and serializes every lifecycle transition.
type Manager struct {
	mu sync.RWMutex

	state    State
	key      []byte
	grant    models.Grant
	deadline time.Time

	// gen is bumped whenever the timer is re-armed or the key destroyed, so a
	// timer that already fired for an older generation is a no-op.
	gen   uint64
	timer Timer

	timeout  time.Duration
	clock    Clock
	store    Store
	logger   logging.Logger
	onExpire func()
}

// Option configures a Manager.
type Option func(*Manager)

func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

func WithStore(s Store) Option { return func(m *Manager) { m.store = s } }

func WithLogger(l logging.Logger) Option { return func(m *Manager) { m.logger = l } }

// NewManager returns an Unauthenticated manager. A non-positive timeout
// falls back to DefaultTimeout.
func NewManager(timeout time.Duration, opts ...Option) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Manager{
		state:   StateUnauthenticated,
		timeout: timeout,
		clock:   realClock{},
		logger:  logging.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// OnExpire registers the callback invoked after the session expired. It is
// called without internal locks held.
func (m *Manager) OnExpire(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = f
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Deadline returns the current inactivity deadline, zero unless Active.
func (m *Manager) Deadline() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deadline
}

// Begin enters Authenticating. It fails with ErrSessionActive while a
// session is active or another authentication is in flight.
func (m *Manager) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateActive || m.state == StateAuthenticating {
		return common.ErrSessionActive
	}
	m.state = StateAuthenticating
	return nil
}

// Abort returns an Authenticating manager to Unauthenticated.
func (m *Manager) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticating {
		m.state = StateUnauthenticated
	}
}

// Activate completes authentication. The manager takes ownership of key and
// wipes it on destruction; callers must not keep using the slice.
func (m *Manager) Activate(ctx context.Context, g models.Grant, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticating {
		common.WipeByteArray(key)
		return fmt.Errorf("activate from state %s", m.state)
	}
	if len(key) != cryptox.KeySize {
		common.WipeByteArray(key)
		m.state = StateUnauthenticated
		return fmt.Errorf("session key of %d bytes: %w", len(key), common.ErrInvalidInputLength)
	}

	m.key = key
	m.grant = copyGrant(g)
	m.state = StateActive
	m.armLocked()
	m.persistLocked(ctx)
	return nil
}

// Touch records user activity and pushes the inactivity deadline forward.
// Activity after the deadline does not revive the session: it expires it,
// even if the timer has not fired yet.
func (m *Manager) Touch() {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return
	}
	if m.clock.Now().Before(m.deadline) {
		m.armLocked()
		m.mu.Unlock()
		return
	}
	cb := m.expireLocked()
	m.mu.Unlock()
	m.notifyExpired(cb)
}

// WithKey runs fn with the session key while holding a read lock, so the
// key cannot be destroyed underneath it. Several WithKey calls may run at
// once. fn must not retain the slice or call back into the Manager.
func (m *Manager) WithKey(fn func(key []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.activeLocked() {
		return common.ErrKeyUnavailable
	}
	return fn(m.key)
}

// Token returns the backend session token.
func (m *Manager) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.activeLocked() {
		return "", common.ErrKeyUnavailable
	}
	return m.grant.Token, nil
}

// Grant returns a copy of the active grant.
func (m *Manager) Grant() (models.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.activeLocked() {
		return models.Grant{}, common.ErrKeyUnavailable
	}
	return copyGrant(m.grant), nil
}

// Logout destroys the session. Calling it when nothing is active is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateActive, StateAuthenticating:
		m.destroyLocked(ctx, StateLoggedOut)
	case StateExpired:
		m.state = StateLoggedOut
	}
	return nil
}

// Unload drops the in-memory session the way a page unload would: the key
// is wiped and the state returns to Unauthenticated, but the store keeps
// its snapshot for a later Restore.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateActive {
		m.wipeLocked(StateUnauthenticated)
	}
}

// Export serializes the active session, key included. The result is as
// sensitive as the key itself.
func (m *Manager) Export() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.activeLocked() {
		return nil, common.ErrKeyUnavailable
	}
	return encodeSnapshot(m.grant, m.key)
}

// Import activates a session from bytes produced by Export. Any defect in
// data leaves the manager Unauthenticated and clears the store.
func (m *Manager) Import(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importLocked(ctx, data)
}

// Restore loads the snapshot from the store and imports it.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateActive || m.state == StateAuthenticating {
		return common.ErrSessionActive
	}
	if m.store == nil {
		return fmt.Errorf("%w: no session store", common.ErrSessionRestoreFailed)
	}
	data, err := m.store.Load(ctx)
	if err != nil {
		m.state = StateUnauthenticated
		return fmt.Errorf("%w: %v", common.ErrSessionRestoreFailed, err)
	}
	defer common.WipeByteArray(data)
	return m.importLocked(ctx, data)
}

func (m *Manager) importLocked(ctx context.Context, data []byte) error {
	if m.state == StateActive || m.state == StateAuthenticating {
		return common.ErrSessionActive
	}

	g, key, err := decodeSnapshot(data)
	if err != nil {
		m.state = StateUnauthenticated
		m.clearStoreLocked(ctx)
		return fmt.Errorf("%w: %v", common.ErrSessionRestoreFailed, err)
	}

	m.key = key
	m.grant = g
	m.state = StateActive
	m.armLocked()
	m.persistLocked(ctx)
	return nil
}

func (m *Manager) activeLocked() bool {
	return m.state == StateActive && m.clock.Now().Before(m.deadline)
}

func (m *Manager) armLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.deadline = m.clock.Now().Add(m.timeout)
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.expire(gen) })
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if m.state != StateActive || gen != m.gen {
		m.mu.Unlock()
		return
	}
	cb := m.expireLocked()
	m.mu.Unlock()
	m.notifyExpired(cb)
}

// expireLocked destroys the session as Expired and returns the callback to
// run once the lock is released.
func (m *Manager) expireLocked() func() {
	m.destroyLocked(context.Background(), StateExpired)
	return m.onExpire
}

func (m *Manager) notifyExpired(cb func()) {
	m.logger.Info(context.Background(), "session expired after inactivity")
	if cb != nil {
		cb()
	}
}

func (m *Manager) destroyLocked(ctx context.Context, next State) {
	m.wipeLocked(next)
	m.clearStoreLocked(ctx)
}

func (m *Manager) wipeLocked(next State) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	common.WipeByteArray(m.key)
	m.key = nil
	common.WipeByteArray(m.grant.Salt)
	m.grant = models.Grant{}
	m.deadline = time.Time{}
	m.state = next
}

func (m *Manager) persistLocked(ctx context.Context) {
	if m.store == nil {
		return
	}
	data, err := encodeSnapshot(m.grant, m.key)
	if err == nil {
		err = m.store.Save(ctx, data)
		common.WipeByteArray(data)
	}
	if err != nil {
		m.logger.Warn(ctx, "session snapshot not saved", "error", err)
	}
}

func (m *Manager) clearStoreLocked(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn(ctx, "session store not cleared", "error", err)
	}
}

func copyGrant(g models.Grant) models.Grant {
	g.Salt = append([]byte(nil), g.Salt...)
	return g
}
