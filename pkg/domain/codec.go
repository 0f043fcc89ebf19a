package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// storedState mirrors the persisted record. Pointers distinguish a missing
// field from a zero value so that old-shaped records are rejected.
type storedState struct {
	ChainID          *string         `json:"chainId"`
	CurrentStepIndex *int            `json:"currentStepIndex"`
	CompletedSlugs   *[]string       `json:"completedSlugs"`
	SharedData       *map[string]any `json:"sharedData"`
}

// EncodeState serializes a state into its four-field JSON record.
func EncodeState(s *ChainState) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil state", ErrCorruptState)
	}
	rec := s.Clone()
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chain state: %w", err)
	}
	return data, nil
}

// DecodeState parses a persisted record. Unknown fields, missing fields,
// negative indexes and non-scalar shared values all yield ErrCorruptState.
func DecodeState(data []byte) (*ChainState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var rec storedState
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrCorruptState)
	}

	switch {
	case rec.ChainID == nil || *rec.ChainID == "":
		return nil, fmt.Errorf("%w: missing chainId", ErrCorruptState)
	case rec.CurrentStepIndex == nil || *rec.CurrentStepIndex < 0:
		return nil, fmt.Errorf("%w: invalid currentStepIndex", ErrCorruptState)
	case rec.CompletedSlugs == nil:
		return nil, fmt.Errorf("%w: missing completedSlugs", ErrCorruptState)
	case rec.SharedData == nil:
		return nil, fmt.Errorf("%w: missing sharedData", ErrCorruptState)
	}

	state := &ChainState{
		ChainID:          *rec.ChainID,
		CurrentStepIndex: *rec.CurrentStepIndex,
		CompletedSlugs:   *rec.CompletedSlugs,
		SharedData:       make(SharedData, len(*rec.SharedData)),
	}
	if state.CompletedSlugs == nil {
		state.CompletedSlugs = []string{}
	}
	for k, v := range *rec.SharedData {
		nv, ok := NormalizeValue(v)
		if !ok {
			return nil, fmt.Errorf("%w: sharedData[%q] is not a string or number", ErrCorruptState, k)
		}
		state.SharedData[k] = nv
	}
	return state, nil
}

// CheckAgainst verifies that the state fits the chain it references.
func (s *ChainState) CheckAgainst(c *Chain) error {
	if s.ChainID != c.ID {
		return fmt.Errorf("%w: state references chain %q, not %q", ErrCorruptState, s.ChainID, c.ID)
	}
	if s.CurrentStepIndex >= len(c.Steps) {
		return fmt.Errorf("%w: step index %d out of range for chain %q", ErrCorruptState, s.CurrentStepIndex, c.ID)
	}
	current := c.Steps[s.CurrentStepIndex].Slug
	for _, slug := range s.CompletedSlugs {
		if slug == current {
			return fmt.Errorf("%w: current step %q already completed", ErrCorruptState, current)
		}
	}
	return nil
}
