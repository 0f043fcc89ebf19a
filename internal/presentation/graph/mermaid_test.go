package graph_test

import (
	"strings"
	"testing"

	"github.com/healthcalc/calcchain/internal/presentation/graph"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/stretchr/testify/assert"
)

var baseline = &domain.Chain{
	ID: "fitness-baseline",
	Steps: []domain.Step{
		{Slug: "bmi", Label: "BMI"},
		{Slug: "body-fat", Label: `Body "Fat"`},
		{Slug: "tdee"},
	},
}

func TestGenerateMermaid_Shapes(t *testing.T) {
	out := graph.GenerateMermaid(baseline, nil)

	for _, want := range []string{
		"graph LR",
		`bmi(("BMI"))`,
		`body_fat["Body 'Fat'"]`,
		`tdee["tdee"]`,
		`results(["Results"])`,
		"bmi --> body_fat",
		"body_fat --> tdee",
		"tdee --> results",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	state := domain.NewChainState("fitness-baseline")
	state.MarkCompleted("bmi")
	state.CurrentStepIndex = 1

	out := graph.GenerateMermaid(baseline, graph.OverlayFor(baseline, state))

	assert.Contains(t, out, "class bmi completed;")
	assert.Contains(t, out, "class body_fat current;")
	assert.Equal(t, 1, strings.Count(out, "completed;"))
}

func TestOverlayFor_NilState(t *testing.T) {
	assert.Nil(t, graph.OverlayFor(baseline, nil))
}
