package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainState_Merge(t *testing.T) {
	s := domain.NewChainState("c")

	s.Merge(map[string]any{"a": 1})
	s.Merge(map[string]any{"b": 2})
	assert.Equal(t, domain.SharedData{"a": 1.0, "b": 2.0}, s.SharedData)

	s.Merge(map[string]any{"a": 3})
	assert.Equal(t, domain.SharedData{"a": 3.0, "b": 2.0}, s.SharedData)
}

func TestChainState_MergeDropsNonScalars(t *testing.T) {
	s := domain.NewChainState("c")
	dropped := s.Merge(map[string]any{
		"gender": "female",
		"nested": map[string]any{"x": 1},
		"list":   []int{1},
		"nan":    math.NaN(),
		"count":  json.Number("12.5"),
	})

	assert.Equal(t, []string{"list", "nan", "nested"}, dropped)
	assert.Equal(t, domain.SharedData{"gender": "female", "count": 12.5}, s.SharedData)
}

func TestChainState_MarkCompletedIsIdempotent(t *testing.T) {
	s := domain.NewChainState("c")
	s.MarkCompleted("bmi")
	s.MarkCompleted("bmi")
	s.MarkCompleted("tdee")
	assert.Equal(t, []string{"bmi", "tdee"}, s.CompletedSlugs)
	assert.True(t, s.IsCompleted("bmi"))
	assert.False(t, s.IsCompleted("body-fat"))
}

func TestChainState_CloneIsIsolated(t *testing.T) {
	s := domain.NewChainState("c")
	s.MarkCompleted("bmi")
	s.Merge(map[string]any{"age": 30})

	c := s.Clone()
	c.MarkCompleted("tdee")
	c.SharedData["age"] = 99.0

	assert.Equal(t, []string{"bmi"}, s.CompletedSlugs)
	assert.Equal(t, 30.0, s.SharedData["age"])
}

func TestProgress(t *testing.T) {
	c := &domain.Chain{ID: "c", Steps: []domain.Step{{Slug: "bmi"}, {Slug: "body-fat"}, {Slug: "tdee"}, {Slug: "macro"}}}
	s := domain.NewChainState("c")
	s.MarkCompleted("bmi")
	s.CurrentStepIndex = 1

	p := domain.NewProgress(c, s)
	assert.Equal(t, "body-fat", p.CurrentStep.Slug)
	assert.Equal(t, 25, p.Percent())
	assert.False(t, p.IsLastStep())

	s.CurrentStepIndex = 3
	require.True(t, domain.NewProgress(c, s).IsLastStep())
}
