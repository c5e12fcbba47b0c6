package enrich

import (
	"lendingScope/internal/model"
	"lendingScope/internal/registry"
)

// Enricher joins raw pool records against the token registry. It performs
// no I/O: given the same pool, chain, and registry it always produces the
// same result.
type Enricher struct {
	registry *registry.Registry
}

// New builds an Enricher over the given registry.
func New(reg *registry.Registry) *Enricher {
	return &Enricher{registry: reg}
}

// Enrich attaches registry metadata to both sides of a pool. A nil pool
// yields the canonical empty EnrichedPool. An address matching no registry
// entry for the chain leaves the corresponding TokenInfo nil; that is a
// display fallback, not an error.
func (e *Enricher) Enrich(pool *model.RawPool, chainID uint64) model.EnrichedPool {
	if pool == nil {
		return model.EnrichedPool{}
	}
	return model.EnrichedPool{
		RawPool:             *pool,
		BorrowTokenInfo:     e.tokenInfo(pool.BorrowToken, chainID),
		CollateralTokenInfo: e.tokenInfo(pool.CollateralToken, chainID),
	}
}

// EnrichAll maps Enrich over one fetched batch.
func (e *Enricher) EnrichAll(pools []model.RawPool, chainID uint64) []model.EnrichedPool {
	out := make([]model.EnrichedPool, 0, len(pools))
	for i := range pools {
		out = append(out, e.Enrich(&pools[i], chainID))
	}
	return out
}

func (e *Enricher) tokenInfo(address string, chainID uint64) *model.TokenInfo {
	token, ok := e.registry.ByAddress(chainID, address)
	if !ok {
		return nil
	}
	registered := token.Addresses[chainID]
	return &model.TokenInfo{
		Name:     token.Name,
		Symbol:   token.Symbol,
		Logo:     token.Logo,
		Address:  registered.Hex(),
		Decimals: token.Decimals,
	}
}
