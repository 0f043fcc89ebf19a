package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/healthcalc/calcchain/pkg/adapters/memory"
	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/healthcalc/calcchain/pkg/chain"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	store := chain.NewStore(catalog.Default(), memory.NewStore(), chain.WithHooks(metrics.Hooks()))
	ctx := context.Background()

	store.Start(ctx, "fitness-baseline")
	store.Advance(ctx, "bmi", nil)
	store.Advance(ctx, "bmi", nil) // stale
	store.Advance(ctx, "body-fat", nil)
	store.Advance(ctx, "tdee", nil)

	store.Start(ctx, "army-fitness")
	store.Exit(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Started.WithLabelValues("fitness-baseline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Advanced.WithLabelValues("fitness-baseline", "bmi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Advanced.WithLabelValues("fitness-baseline", "body-fat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Stale.WithLabelValues("fitness-baseline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Completed.WithLabelValues("fitness-baseline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Exited.WithLabelValues("army-fitness")))
}

func TestCombineHooks_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	hooks := domain.CombineHooks(metrics.Hooks(), observability.LogHooks(logger))
	store := chain.NewStore(catalog.Default(), memory.NewStore(), chain.WithHooks(hooks))

	store.Start(context.Background(), "heart-health")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Started.WithLabelValues("heart-health")))
	assert.Contains(t, buf.String(), "chain_start")
	assert.Contains(t, buf.String(), "chain_id=heart-health")
	assert.Contains(t, buf.String(), "step=blood-pressure")
}
