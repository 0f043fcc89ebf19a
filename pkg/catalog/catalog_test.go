package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/healthcalc/calcchain/pkg/catalog"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ChainCatalog = (*catalog.Catalog)(nil)

func TestDefault_IsValid(t *testing.T) {
	c := catalog.Default()
	require.Len(t, c.Chains(), len(catalog.DefaultChains))

	fb, err := c.Chain("fitness-baseline")
	require.NoError(t, err)
	assert.Equal(t, "bmi", fb.Steps[0].Slug)
}

func TestCatalog_ChainNotFound(t *testing.T) {
	_, err := catalog.Default().Chain("nope")
	assert.ErrorIs(t, err, domain.ErrChainNotFound)
}

func TestCatalog_RejectsInvalid(t *testing.T) {
	_, err := catalog.New(
		domain.Chain{ID: "a", Steps: []domain.Step{{Slug: "bmi"}}},
		domain.Chain{ID: "a", Steps: []domain.Step{{Slug: "tdee"}}},
		domain.Chain{ID: "b"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidChain)
	assert.Contains(t, err.Error(), `duplicate chain id "a"`)
	assert.Contains(t, err.Error(), `chain "b" has no steps`)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := catalog.MustNew(domain.Chain{ID: "a", Steps: []domain.Step{{Slug: "bmi"}}})

	ch, err := c.Chain("a")
	require.NoError(t, err)
	ch.Steps[0].Slug = "mutated"

	again, err := c.Chain("a")
	require.NoError(t, err)
	assert.Equal(t, "bmi", again.Steps[0].Slug)
}

func TestCatalog_ChainsContaining(t *testing.T) {
	c := catalog.Default()

	ids := func(chains []domain.Chain) []string {
		var out []string
		for _, ch := range chains {
			out = append(out, ch.ID)
		}
		return out
	}

	assert.Equal(t, []string{"fitness-baseline", "weight-loss", "metabolic-health"}, ids(c.ChainsContaining("bmi")))
	assert.Equal(t, []string{"army-fitness"}, ids(c.ChainsContaining("acft")))
	assert.Empty(t, c.ChainsContaining("unknown-calculator"))
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	content := []byte(`
chains:
  - id: quick
    name: Quick Check
    steps:
      - slug: bmi
        label: BMI
      - slug: tdee
        label: TDEE
        description: Daily energy
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	c, err := catalog.Load(path)
	require.NoError(t, err)

	ch, err := c.Chain("quick")
	require.NoError(t, err)
	assert.Equal(t, "Quick Check", ch.Name)
	assert.Equal(t, []domain.Step{
		{Slug: "bmi", Label: "BMI"},
		{Slug: "tdee", Label: "TDEE", Description: "Daily energy"},
	}, ch.Steps)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.json")
	content := []byte(`{"chains":[{"id":"j","name":"J","steps":[{"slug":"acft","label":"ACFT"}]}]}`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	_, err = c.Chain("j")
	assert.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	_, err := catalog.Parse([]byte("chains: ["), "yaml")
	assert.Error(t, err)

	_, err = catalog.Parse([]byte(`chains:
  - id: x
    stepz: []
`), "yaml")
	assert.Error(t, err, "unknown keys are rejected")

	_, err = catalog.Parse([]byte(`chains:
  - id: x
    steps: []
`), "yaml")
	assert.ErrorIs(t, err, domain.ErrInvalidChain)

	_, err = catalog.Parse([]byte("{}"), "toml")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
