package calcchain

import (
	"errors"
	"io"
	"log/slog"

	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/healthcalc/calcchain/pkg/adapters/memory"
	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/healthcalc/calcchain/pkg/chain"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/persistence/middleware"
	"github.com/healthcalc/calcchain/pkg/ports"
	"github.com/healthcalc/calcchain/pkg/session"
)

// Version is the current release of calcchain.
const Version = "0.4.0"

// Service is the high-level entry point of the library.
// It wires a chain catalog, a persistence backend and observability into a
// session manager that hands out one chain.Store per browser session.
type Service struct {
	catalog     ports.ChainCatalog
	backend     ports.KeyValueStore
	locker      ports.DistributedLocker
	middlewares []middleware.Middleware
	hooks       []domain.LifecycleHooks
	logger      *slog.Logger

	sessions *session.Manager
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithCatalog replaces the built-in chains.
func WithCatalog(c ports.ChainCatalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithBackend sets the persistence backend (default: in-memory).
func WithBackend(kv ports.KeyValueStore) Option {
	return func(s *Service) {
		s.backend = kv
	}
}

// WithLocker enables distributed session locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithEncryption encrypts chain records at rest.
func WithEncryption(cfg middleware.EncryptionConfig) Option {
	return func(s *Service) {
		s.middlewares = append(s.middlewares, middleware.NewEncryptionMiddleware(cfg))
	}
}

// WithMiddleware adds custom store middlewares.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Service) {
		s.middlewares = append(s.middlewares, mws...)
	}
}

// WithLifecycleHooks registers observability hooks. May be given several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New initializes a Service. Without options it serves the default chains
// from memory.
func New(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		c, err := catalog.New(catalog.DefaultChains...)
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	if s.backend == nil {
		s.backend = memory.NewStore()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	storeOpts := []chain.Option{chain.WithLogger(s.logger)}
	switch len(s.hooks) {
	case 0:
	case 1:
		storeOpts = append(storeOpts, chain.WithHooks(s.hooks[0]))
	default:
		storeOpts = append(storeOpts, chain.WithHooks(domain.CombineHooks(s.hooks...)))
	}

	mgrOpts := []session.Option{
		session.WithLogger(s.logger),
		session.WithMiddleware(s.middlewares...),
		session.WithStoreOptions(storeOpts...),
	}
	if s.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(s.locker))
	}
	s.sessions = session.NewManager(s.backend, s.catalog, mgrOpts...)
	return s, nil
}

// Catalog returns the configured chains.
func (s *Service) Catalog() ports.ChainCatalog {
	return s.catalog
}

// Sessions returns the session manager.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Session returns the chain store of one session.
func (s *Service) Session(sessionID string) *chain.Store {
	return s.sessions.Store(sessionID)
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// Close releases the backend if it holds resources (e.g. a Redis client).
func (s *Service) Close() error {
	var errs []error
	if c, ok := s.backend.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
