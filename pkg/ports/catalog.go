package ports

import "github.com/healthcalc/calcchain/pkg/domain"

// ChainCatalog resolves chain identifiers to their static configuration.
type ChainCatalog interface {
	// Chain returns the chain with the given ID.
	// Returns domain.ErrChainNotFound if no such chain is configured.
	Chain(id string) (*domain.Chain, error)

	// Chains returns every configured chain in a stable order.
	Chains() []domain.Chain
}
