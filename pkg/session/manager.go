package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/healthcalc/calcchain/pkg/chain"
	"github.com/healthcalc/calcchain/pkg/persistence/middleware"
	"github.com/healthcalc/calcchain/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 10 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager hands out per-session chain stores over one shared backend and
// serializes operations on the same session.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	backend     ports.KeyValueStore
	catalog     ports.ChainCatalog
	middlewares []middleware.Middleware
	storeOpts   []chain.Option

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMiddleware adds store middlewares applied inside each session's namespace.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(m *Manager) {
		m.middlewares = append(m.middlewares, mws...)
	}
}

// WithStoreOptions passes options to every chain.Store the Manager creates.
func WithStoreOptions(opts ...chain.Option) Option {
	return func(m *Manager) {
		m.storeOpts = append(m.storeOpts, opts...)
	}
}

// NewManager creates a new Session Manager over the given backend and catalog.
func NewManager(backend ports.KeyValueStore, catalog ports.ChainCatalog, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		catalog: catalog,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// sessionStore returns the session's view of the backend.
func (m *Manager) sessionStore(sessionID string) ports.KeyValueStore {
	mws := append([]middleware.Middleware{middleware.NewNamespaceMiddleware(sessionID)}, m.middlewares...)
	return middleware.Apply(m.backend, mws...)
}

// Store returns the chain store of a session without locking.
// Use WithSession when other callers may touch the same session.
func (m *Manager) Store(sessionID string) *chain.Store {
	return chain.NewStore(m.catalog, m.sessionStore(sessionID), m.storeOpts...)
}

// WithSession runs fn with the session's chain store while holding its lock.
func (m *Manager) WithSession(ctx context.Context, sessionID string, fn func(context.Context, *chain.Store) error) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return fn(ctx, m.Store(sessionID))
	})
}

// Record returns the raw persisted chain record of a session.
func (m *Manager) Record(ctx context.Context, sessionID string) ([]byte, error) {
	var data []byte
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		data, err = m.sessionStore(sessionID).Get(ctx, chain.DefaultKey)
		return err
	})
	return data, err
}

// Delete removes a session's chain record.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.sessionStore(sessionID).Remove(ctx, chain.DefaultKey)
	})
}

// List returns the IDs of sessions holding a chain record.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	lister, ok := m.backend.(ports.Lister)
	if !ok {
		return nil, middleware.ErrListUnsupported
	}
	keys, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []string
	for _, k := range keys {
		if id, ok := middleware.NamespaceOf(k, chain.DefaultKey); ok {
			sessions = append(sessions, id)
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}

// Catalog returns the chain catalog.
func (m *Manager) Catalog() ports.ChainCatalog {
	return m.catalog
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
