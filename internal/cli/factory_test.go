package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/healthcalc/calcchain/internal/config"
	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() config.Config {
	return config.Config{
		Backend:     config.BackendMemory,
		ResultsPath: "/results",
		RedisPrefix: "calcchain:session:",
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Chains(), len(catalog.DefaultChains))

	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chains:
  - id: quick
    name: Quick
    steps:
      - slug: bmi
`), 0644))
	c, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Chains(), 1)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewRuntime_Memory(t *testing.T) {
	rt, err := NewRuntime(baseConfig(), logging.NewNop())
	require.NoError(t, err)
	defer rt.Service.Close()

	ctx := context.Background()
	store := rt.Service.Session("s1")
	_, ok := store.Start(ctx, "fitness-baseline")
	require.True(t, ok)
	_, ok = store.Advance(ctx, "bmi", nil)
	require.True(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(rt.Metrics.Started.WithLabelValues("fitness-baseline")))
	assert.NoError(t, rt.Health(ctx))
}

func TestNewRuntime_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.Backend = config.BackendRedis
	cfg.RedisAddr = mr.Addr()
	cfg.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))

	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Service.Close()

	ctx := context.Background()
	require.NoError(t, rt.Health(ctx))

	next, ok := rt.Service.Session("s1").Start(ctx, "heart-health")
	require.True(t, ok)
	assert.Equal(t, "blood-pressure", next)

	raw, err := mr.Get("calcchain:session:s1:calculator-chain-state")
	require.NoError(t, err)
	assert.NotContains(t, raw, "heart-health", "records are encrypted at rest")

	sessions, err := rt.Service.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, sessions)

	mr.Close()
	assert.Error(t, rt.Health(ctx))
}

func TestNewRuntime_File(t *testing.T) {
	cfg := baseConfig()
	cfg.Backend = config.BackendFile
	cfg.FileDir = t.TempDir()

	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)

	_, ok := rt.Service.Session("s1").Start(context.Background(), "army-fitness")
	require.True(t, ok)

	entries, err := os.ReadDir(cfg.FileDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRuntime_BadChainsFile(t *testing.T) {
	cfg := baseConfig()
	cfg.ChainsFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewRuntime(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	svc, err := OpenLocal(dir, "", logging.NewNop())
	require.NoError(t, err)
	_, ok := svc.Session("local").Start(ctx, "weight-loss")
	require.True(t, ok)

	// A second process sees the same chain.
	svc, err = OpenLocal(dir, "", logging.NewNop())
	require.NoError(t, err)
	state, ok := svc.Session("local").Active(ctx)
	require.True(t, ok)
	assert.Equal(t, "weight-loss", state.ChainID)

	_, err = os.Stat(filepath.Join(dir, LocalSessionDir))
	assert.NoError(t, err)
}
