package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/healthcalc/calcchain"
	"github.com/healthcalc/calcchain/internal/adapters/file"
	"github.com/healthcalc/calcchain/internal/config"
	"github.com/healthcalc/calcchain/pkg/adapters/memory"
	redisadapter "github.com/healthcalc/calcchain/pkg/adapters/redis"
	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/healthcalc/calcchain/pkg/observability"
	"github.com/healthcalc/calcchain/pkg/persistence/middleware"
	"github.com/healthcalc/calcchain/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// LocalSessionDir is where CLI commands keep sessions, relative to --dir.
const LocalSessionDir = ".calcchain/sessions"

// Runtime bundles a configured Service with its observability.
type Runtime struct {
	Service  *calcchain.Service
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	// Health reports backend reachability.
	Health func(context.Context) error
}

// LoadCatalog reads the chains file, or returns the built-in chains when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading chains: %w", err)
	}
	return c, nil
}

// NewRuntime builds the service described by cfg.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	chains, err := LoadCatalog(cfg.ChainsFile)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	opts := []calcchain.Option{
		calcchain.WithCatalog(chains),
		calcchain.WithLogger(logger),
		calcchain.WithLifecycleHooks(metrics.Hooks()),
		calcchain.WithLifecycleHooks(observability.LogHooks(logger)),
	}

	rt := &Runtime{
		Registry: reg,
		Metrics:  metrics,
		Health:   func(context.Context) error { return nil },
	}

	var kv ports.KeyValueStore
	switch cfg.Backend {
	case config.BackendRedis:
		store := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redisadapter.WithPrefix(cfg.RedisPrefix),
			redisadapter.WithTTL(cfg.SessionTTL),
		)
		kv = store
		rt.Health = store.Ping
		opts = append(opts, calcchain.WithLocker(redisadapter.NewLocker(store.Client(), cfg.RedisPrefix)))
	case config.BackendFile:
		kv = file.New(cfg.FileDir)
	default:
		kv = memory.NewStore()
	}
	opts = append(opts, calcchain.WithBackend(kv))

	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}
	if key != nil {
		opts = append(opts, calcchain.WithEncryption(middleware.EncryptionConfig{ActiveKey: key}))
	}

	svc, err := calcchain.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing service: %w", err)
	}
	rt.Service = svc
	return rt, nil
}

// OpenLocal opens the file-backed service used by the CLI commands.
func OpenLocal(dir, chainsFile string, logger *slog.Logger) (*calcchain.Service, error) {
	if dir == "" {
		dir = "."
	}
	chains, err := LoadCatalog(chainsFile)
	if err != nil {
		return nil, err
	}
	return calcchain.New(
		calcchain.WithCatalog(chains),
		calcchain.WithBackend(file.New(filepath.Join(dir, LocalSessionDir))),
		calcchain.WithLogger(logger),
		calcchain.WithLifecycleHooks(observability.LogHooks(logger)),
	)
}
