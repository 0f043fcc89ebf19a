package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/healthcalc/calcchain/pkg/domain"
)

// Catalog implements ports.ChainCatalog over a fixed set of chains.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	chains []domain.Chain
	byID   map[string]int
}

// New validates chains and builds a catalog preserving their order.
func New(chains ...domain.Chain) (*Catalog, error) {
	c := &Catalog{
		chains: make([]domain.Chain, 0, len(chains)),
		byID:   make(map[string]int, len(chains)),
	}

	var errs []error
	for _, ch := range chains {
		if err := ch.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[ch.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate chain id %q", domain.ErrInvalidChain, ch.ID))
			continue
		}
		c.byID[ch.ID] = len(c.chains)
		c.chains = append(c.chains, clone(ch))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(chains ...domain.Chain) *Catalog {
	c, err := New(chains...)
	if err != nil {
		panic(err)
	}
	return c
}

// Chain returns a copy of the chain with the given ID.
func (c *Catalog) Chain(id string) (*domain.Chain, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChainNotFound, id)
	}
	ch := clone(c.chains[i])
	return &ch, nil
}

// Chains returns copies of all chains in configuration order.
func (c *Catalog) Chains() []domain.Chain {
	out := make([]domain.Chain, len(c.chains))
	for i, ch := range c.chains {
		out[i] = clone(ch)
	}
	return out
}

// ChainsContaining returns the chains that include the calculator slug.
func (c *Catalog) ChainsContaining(slug string) []domain.Chain {
	var out []domain.Chain
	for _, ch := range c.chains {
		if ch.Contains(slug) {
			out = append(out, clone(ch))
		}
	}
	return out
}

func clone(ch domain.Chain) domain.Chain {
	ch.Steps = slices.Clone(ch.Steps)
	return ch
}
