package calcchain_test

import (
	"context"
	"testing"

	"github.com/healthcalc/calcchain"
	"github.com/healthcalc/calcchain/pkg/adapters/memory"
	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Defaults(t *testing.T) {
	svc, err := calcchain.New()
	require.NoError(t, err)
	defer svc.Close()

	assert.Len(t, svc.Catalog().Chains(), len(catalog.DefaultChains))

	ctx := context.Background()
	store := svc.Session("visitor")
	next, ok := store.Start(ctx, "fitness-baseline")
	require.True(t, ok)
	assert.Equal(t, "bmi", next)

	next, ok = store.Advance(ctx, "bmi", map[string]any{"age": 30, "weight": 80})
	require.True(t, ok)
	assert.Equal(t, "body-fat", next)

	// A fresh handle for the same session sees the same chain.
	state, ok := svc.Session("visitor").Active(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"bmi"}, state.CompletedSlugs)
}

func TestService_HooksAreCombined(t *testing.T) {
	var first, second int
	svc, err := calcchain.New(
		calcchain.WithLifecycleHooks(domain.LifecycleHooks{
			OnChainStart: func(context.Context, *domain.ChainEvent) { first++ },
		}),
		calcchain.WithLifecycleHooks(domain.LifecycleHooks{
			OnChainStart: func(context.Context, *domain.ChainEvent) { second++ },
		}),
	)
	require.NoError(t, err)

	svc.Session("s").Start(context.Background(), "heart-health")
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestService_EncryptedBackend(t *testing.T) {
	backend := memory.NewStore()
	svc, err := calcchain.New(
		calcchain.WithBackend(backend),
		calcchain.WithEncryption(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)}),
		calcchain.WithCatalog(catalog.MustNew(domain.Chain{ID: "solo", Steps: []domain.Step{{Slug: "bmi"}, {Slug: "tdee"}}})),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := svc.Session("s").Start(ctx, "solo")
	require.True(t, ok)

	sessions, err := svc.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, sessions)

	_, ok = svc.Session("s").Start(ctx, "fitness-baseline")
	assert.False(t, ok, "custom catalog replaces the defaults")
}
