package chain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/ports"
)

// DefaultKey is the storage key of the chain state record.
const DefaultKey = "calculator-chain-state"

// Store owns the lifecycle of at most one in-progress chain.
//
// Every operation degrades silently: unknown chains, stale advances, corrupt
// records and storage failures all behave as "no chain in progress". Failures
// are logged, never returned.
//
// A Store is not safe for concurrent use on the same backing key. Callers that
// share a backend across requests serialize through session.Manager.
type Store struct {
	catalog ports.ChainCatalog
	kv      ports.KeyValueStore
	key     string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// WithKey overrides the storage key (default: DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore creates a chain state store over the given catalog and backend.
func NewStore(catalog ports.ChainCatalog, kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		catalog: catalog,
		kv:      kv,
		key:     DefaultKey,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins chainID from its first step, abandoning any chain in progress.
// It returns the slug to navigate to, or false if the chain is unknown.
func (s *Store) Start(ctx context.Context, chainID string) (string, bool) {
	ch, err := s.catalog.Chain(chainID)
	if err != nil {
		s.logger.Debug("Start ignored: unknown chain", "chain_id", chainID, "err", err)
		return "", false
	}

	state := domain.NewChainState(ch.ID)
	if err := s.save(ctx, state); err != nil {
		s.logger.Warn("Start failed to persist chain state", "chain_id", ch.ID, "err", err)
		return "", false
	}

	first := ch.Steps[0].Slug
	s.emit(ctx, domain.EventChainStart, ch.ID, first, "", 0)
	return first, true
}

// ResolveAutoStart starts the chain named by a raw query parameter value.
// Anything that is not exactly a configured chain ID is ignored.
func (s *Store) ResolveAutoStart(ctx context.Context, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	return s.Start(ctx, query)
}

// Active returns a copy of the chain in progress, if any.
func (s *Store) Active(ctx context.Context) (*domain.ChainState, bool) {
	state, _, ok := s.load(ctx)
	return state, ok
}

// ActiveStep returns the chain in progress only when slug is its current step.
// Calculators use it to decide whether to offer "continue".
func (s *Store) ActiveStep(ctx context.Context, slug string) (*domain.ChainState, bool) {
	state, ch, ok := s.load(ctx)
	if !ok || ch.Steps[state.CurrentStepIndex].Slug != slug {
		return nil, false
	}
	return state, true
}

// Progress describes the chain in progress for progress indicators.
func (s *Store) Progress(ctx context.Context) (domain.Progress, bool) {
	state, ch, ok := s.load(ctx)
	if !ok {
		return domain.Progress{}, false
	}
	return domain.NewProgress(ch, state), true
}

// SharedData returns the data accumulated so far, or nil if no chain is active.
func (s *Store) SharedData(ctx context.Context) domain.SharedData {
	state, _, ok := s.load(ctx)
	if !ok {
		return nil
	}
	return state.SharedData
}

// Advance completes currentSlug and merges data into the shared data.
//
// It returns the next step's slug. It returns false both when nothing
// happened (no active chain, or currentSlug is not the current step) and when
// the final step was completed; in the latter case the state is destroyed and
// the caller should route to the results destination.
//
// Values in data that cannot be stored are dropped from the merge and only
// logged. That covers strings over domain.MaxValueLength bytes (1 KiB),
// strings that are not valid UTF-8, and non-scalar values such as maps.
// The step still advances.
func (s *Store) Advance(ctx context.Context, currentSlug string, data map[string]any) (string, bool) {
	state, ch, ok := s.load(ctx)
	if !ok {
		s.logger.Debug("Advance ignored: no active chain", "slug", currentSlug)
		return "", false
	}

	index := state.CurrentStepIndex
	if expected := ch.Steps[index].Slug; expected != currentSlug {
		s.logger.Debug("Advance ignored: stale step", "chain_id", ch.ID, "slug", currentSlug, "expected", expected)
		s.emit(ctx, domain.EventStaleAdvance, ch.ID, currentSlug, "", index)
		return "", false
	}

	if dropped := state.Merge(data); len(dropped) > 0 {
		s.logger.Warn("Advance dropped non-scalar shared data", "chain_id", ch.ID, "keys", dropped)
	}
	state.MarkCompleted(currentSlug)
	state.CurrentStepIndex++

	next, ok := ch.StepAt(state.CurrentStepIndex)
	if !ok {
		if err := s.kv.Remove(ctx, s.key); err != nil {
			s.logger.Warn("Advance failed to clear completed chain", "chain_id", ch.ID, "err", err)
		}
		s.emit(ctx, domain.EventChainComplete, ch.ID, currentSlug, "", index)
		return "", false
	}

	if err := s.save(ctx, state); err != nil {
		s.logger.Warn("Advance failed to persist chain state", "chain_id", ch.ID, "err", err)
		return "", false
	}
	s.emit(ctx, domain.EventStepAdvance, ch.ID, currentSlug, next.Slug, index)
	return next.Slug, true
}

// Exit abandons the chain in progress, whatever its progress.
func (s *Store) Exit(ctx context.Context) {
	state, _, active := s.load(ctx)

	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Warn("Exit failed to clear chain state", "err", err)
	}

	if active {
		s.emit(ctx, domain.EventChainExit, state.ChainID, "", "", state.CurrentStepIndex)
	}
}

// load reads and validates the persisted record against the catalog.
func (s *Store) load(ctx context.Context) (*domain.ChainState, *domain.Chain, bool) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn("Failed to read chain state", "err", err)
		}
		return nil, nil, false
	}

	state, err := domain.DecodeState(data)
	if err != nil {
		s.logger.Warn("Ignoring unreadable chain state", "err", err)
		return nil, nil, false
	}

	ch, err := s.catalog.Chain(state.ChainID)
	if err != nil {
		s.logger.Warn("Ignoring chain state for unknown chain", "chain_id", state.ChainID)
		return nil, nil, false
	}
	if err := state.CheckAgainst(ch); err != nil {
		s.logger.Warn("Ignoring inconsistent chain state", "err", err)
		return nil, nil, false
	}
	return state, ch, true
}

func (s *Store) save(ctx context.Context, state *domain.ChainState) error {
	data, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, data)
}

func (s *Store) emit(ctx context.Context, t domain.EventType, chainID, slug, next string, index int) {
	s.hooks.Emit(ctx, &domain.ChainEvent{
		Timestamp: s.now(),
		Type:      t,
		ChainID:   chainID,
		StepSlug:  slug,
		NextSlug:  next,
		StepIndex: index,
	})
}
