package domain

import (
	"encoding/json"
	"math"
	"slices"
)

// SharedData holds answers carried forward across the steps of an active chain.
// Values are strings or float64 numbers.
type SharedData map[string]any

// ChainState is the runtime record of one in-progress chain.
type ChainState struct {
	// ChainID references the active Chain.
	ChainID string `json:"chainId"`

	// CurrentStepIndex is the zero-based index into the chain's steps.
	CurrentStepIndex int `json:"currentStepIndex"`

	// CompletedSlugs lists the steps already advanced past, in order.
	CompletedSlugs []string `json:"completedSlugs"`

	// SharedData accumulates step results. Keys are only added or overwritten.
	SharedData SharedData `json:"sharedData"`
}

// NewChainState creates a fresh state positioned on the first step of chainID.
func NewChainState(chainID string) *ChainState {
	return &ChainState{
		ChainID:          chainID,
		CurrentStepIndex: 0,
		CompletedSlugs:   []string{},
		SharedData:       SharedData{},
	}
}

// Clone returns a copy that shares no mutable data with s.
func (s *ChainState) Clone() *ChainState {
	if s == nil {
		return nil
	}
	out := *s
	out.CompletedSlugs = slices.Clone(s.CompletedSlugs)
	if out.CompletedSlugs == nil {
		out.CompletedSlugs = []string{}
	}
	out.SharedData = make(SharedData, len(s.SharedData))
	for k, v := range s.SharedData {
		out.SharedData[k] = v
	}
	return &out
}

// CurrentStep resolves the state's position against its chain.
func (s *ChainState) CurrentStep(c *Chain) (Step, bool) {
	return c.StepAt(s.CurrentStepIndex)
}

// IsCompleted reports whether slug has already been advanced past.
func (s *ChainState) IsCompleted(slug string) bool {
	return slices.Contains(s.CompletedSlugs, slug)
}

// MarkCompleted appends slug to CompletedSlugs once.
func (s *ChainState) MarkCompleted(slug string) {
	if !s.IsCompleted(slug) {
		s.CompletedSlugs = append(s.CompletedSlugs, slug)
	}
}

// Merge folds data into the shared data, last write wins per key.
// Values that are neither strings nor numbers are dropped and their keys returned.
func (s *ChainState) Merge(data map[string]any) (dropped []string) {
	if s.SharedData == nil {
		s.SharedData = SharedData{}
	}
	for k, v := range data {
		nv, ok := NormalizeValue(v)
		if !ok {
			dropped = append(dropped, k)
			continue
		}
		s.SharedData[k] = nv
	}
	slices.Sort(dropped)
	return dropped
}

// NormalizeValue converts a scalar into its persisted form: strings are
// sanitized, every numeric kind becomes float64. Anything else is rejected.
func NormalizeValue(v any) (any, bool) {
	switch n := v.(type) {
	case string:
		return SanitizeString(n)
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return finite(f)
	default:
		return nil, false
	}
}

// NaN and Inf cannot be encoded as JSON.
func finite(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}
