package pricing

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"lendingScope/internal/metrics"
	"lendingScope/internal/registry"
)

// DefaultFreshFor is how long a quote is served from cache before the next
// identical request triggers a fresh chain read.
const DefaultFreshFor = 3 * time.Second

// RateSource issues the raw exchange-rate read.
type RateSource interface {
	ExchangeRate(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, position common.Address) (*big.Int, bool, error)
}

// QuoterConfig controls quoting behavior.
type QuoterConfig struct {
	ChainID  uint64
	FreshFor time.Duration
}

// Quoter converts human-readable amounts between tracked tokens through the
// price helper. Results are cached for a short freshness window keyed by
// (tokenIn, tokenOut, rounded amount, position), so a semantically identical
// request inside the window never hits the chain twice and a changed input
// always does.
type Quoter struct {
	cfg      QuoterConfig
	source   RateSource
	registry *registry.Registry
	cache    *gocache.Cache
	logger   *zap.Logger
}

// NewQuoter builds a Quoter over the given rate source and registry.
func NewQuoter(cfg QuoterConfig, source RateSource, reg *registry.Registry, logger *zap.Logger) *Quoter {
	if cfg.FreshFor <= 0 {
		cfg.FreshFor = DefaultFreshFor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Quoter{
		cfg:      cfg,
		source:   source,
		registry: reg,
		cache:    gocache.New(cfg.FreshFor, 2*cfg.FreshFor),
		logger:   logger,
	}
}

// Quote converts amountIn (human units of tokenIn) into human units of
// tokenOut for the given position. ok=false means the quote was not issued:
// zero addresses, non-positive amount, or a token outside the registry.
// Chain errors are surfaced verbatim.
func (q *Quoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn float64, position common.Address) (float64, bool, error) {
	if tokenIn == (common.Address{}) || tokenOut == (common.Address{}) || position == (common.Address{}) {
		return 0, false, nil
	}

	in, ok := q.registry.ByAddress(q.cfg.ChainID, tokenIn.Hex())
	if !ok {
		return 0, false, nil
	}
	out, ok := q.registry.ByAddress(q.cfg.ChainID, tokenOut.Hex())
	if !ok {
		return 0, false, nil
	}

	rounded := RoundAmount(amountIn, in.Decimals)
	if rounded <= 0 {
		return 0, false, nil
	}

	key := quoteKey(tokenIn, tokenOut, rounded, position)
	if cached, hit := q.cache.Get(key); hit {
		metrics.QuoteCacheHits.Inc()
		return cached.(float64), true, nil
	}
	metrics.QuoteCacheMisses.Inc()

	raw, issued, err := q.source.ExchangeRate(ctx, tokenIn, tokenOut, ToBaseUnits(rounded, in.Decimals), position)
	if err != nil {
		return 0, false, err
	}
	if !issued {
		return 0, false, nil
	}

	value := FromBaseUnits(raw, out.Decimals)
	q.cache.SetDefault(key, value)
	return value, true, nil
}

func quoteKey(tokenIn, tokenOut common.Address, rounded float64, position common.Address) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		tokenIn.Hex(),
		tokenOut.Hex(),
		strconv.FormatFloat(rounded, 'f', -1, 64),
		position.Hex(),
	)
}
