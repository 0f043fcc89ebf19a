package observability

import (
	"context"
	"log/slog"

	"github.com/healthcalc/calcchain/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every transition at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.ChainEvent) {
		logger.InfoContext(ctx, string(e.Type),
			"chain_id", e.ChainID,
			"step", e.StepSlug,
			"next", e.NextSlug,
			"index", e.StepIndex,
		)
	}
	return domain.LifecycleHooks{
		OnChainStart:    log,
		OnStepAdvance:   log,
		OnChainComplete: log,
		OnChainExit:     log,
		OnStaleAdvance:  log,
	}
}
