package domain_test

import (
	"testing"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestChain_Validate(t *testing.T) {
	valid := domain.Chain{
		ID:    "fitness-baseline",
		Steps: []domain.Step{{Slug: "bmi"}, {Slug: "body-fat"}, {Slug: "tdee"}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		chain domain.Chain
	}{
		{"missing id", domain.Chain{Steps: []domain.Step{{Slug: "bmi"}}}},
		{"no steps", domain.Chain{ID: "empty"}},
		{"empty slug", domain.Chain{ID: "x", Steps: []domain.Step{{Slug: "bmi"}, {Label: "?"}}}},
		{"duplicate slug", domain.Chain{ID: "x", Steps: []domain.Step{{Slug: "bmi"}, {Slug: "bmi"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain.Validate()
			assert.ErrorIs(t, err, domain.ErrInvalidChain)
		})
	}
}

func TestChain_StepLookup(t *testing.T) {
	c := domain.Chain{ID: "c", Steps: []domain.Step{{Slug: "bmi"}, {Slug: "tdee"}}}

	step, ok := c.StepAt(1)
	assert.True(t, ok)
	assert.Equal(t, "tdee", step.Slug)

	_, ok = c.StepAt(2)
	assert.False(t, ok)
	_, ok = c.StepAt(-1)
	assert.False(t, ok)

	assert.Equal(t, 0, c.IndexOf("bmi"))
	assert.Equal(t, -1, c.IndexOf("acft"))
	assert.True(t, c.Contains("tdee"))
}
