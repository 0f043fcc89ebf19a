package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventChainStart    EventType = "chain_start"
	EventStepAdvance   EventType = "step_advance"
	EventChainComplete EventType = "chain_complete"
	EventChainExit     EventType = "chain_exit"
	EventStaleAdvance  EventType = "stale_advance"
)

// ChainEvent describes a transition of the chain state machine.
type ChainEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ChainID   string    `json:"chain_id,omitempty"`

	// StepSlug is the step the event refers to (the one started on, advanced past, or rejected).
	StepSlug string `json:"step_slug,omitempty"`

	// NextSlug is the navigation target produced by the transition, if any.
	NextSlug string `json:"next_slug,omitempty"`

	StepIndex int `json:"step_index"`
}

// LifecycleHooks defines callbacks for chain observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnChainStart    func(context.Context, *ChainEvent)
	OnStepAdvance   func(context.Context, *ChainEvent)
	OnChainComplete func(context.Context, *ChainEvent)
	OnChainExit     func(context.Context, *ChainEvent)
	OnStaleAdvance  func(context.Context, *ChainEvent)
}

// Emit dispatches e to the callback matching its type.
func (h LifecycleHooks) Emit(ctx context.Context, e *ChainEvent) {
	var fn func(context.Context, *ChainEvent)
	switch e.Type {
	case EventChainStart:
		fn = h.OnChainStart
	case EventStepAdvance:
		fn = h.OnStepAdvance
	case EventChainComplete:
		fn = h.OnChainComplete
	case EventChainExit:
		fn = h.OnChainExit
	case EventStaleAdvance:
		fn = h.OnStaleAdvance
	}
	if fn != nil {
		fn(ctx, e)
	}
}

// CombineHooks returns hooks that call each of the given hooks in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	fanOut := func(ctx context.Context, e *ChainEvent) {
		for _, h := range hooks {
			h.Emit(ctx, e)
		}
	}
	return LifecycleHooks{
		OnChainStart:    fanOut,
		OnStepAdvance:   fanOut,
		OnChainComplete: fanOut,
		OnChainExit:     fanOut,
		OnStaleAdvance:  fanOut,
	}
}
