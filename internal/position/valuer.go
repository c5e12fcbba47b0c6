package position

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lendingScope/internal/model"
	"lendingScope/internal/pricing"
	"lendingScope/internal/registry"
)

// DefaultQuoteSymbol is the quote currency aggregates are expressed in.
const DefaultQuoteSymbol = "USDT"

const defaultMaxParallel = 8

// Reader is the slice of lending reads the valuer needs.
type Reader interface {
	PositionAddress(ctx context.Context, pool, account common.Address) (common.Address, bool, error)
	PositionBalance(ctx context.Context, token, position common.Address) (*big.Int, bool, error)
	HealthFactor(ctx context.Context, pool, account common.Address) (*big.Int, bool, error)
	MaxBorrowAmount(ctx context.Context, pool, account common.Address) (*big.Int, bool, error)
}

// Quoter converts a human-readable amount between tokens.
type Quoter interface {
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn float64, position common.Address) (float64, bool, error)
}

// Valuer derives aggregate position values. Per-token reads fan out
// concurrently and are joined all-settled: a failed leg contributes zero
// instead of aborting the aggregate, so a partial total is always available.
type Valuer struct {
	reader      Reader
	quoter      Quoter
	registry    *registry.Registry
	chainID     uint64
	maxParallel int
	logger      *zap.Logger
}

// NewValuer builds a Valuer. maxParallel of 0 selects the default fan-out
// limit.
func NewValuer(reader Reader, quoter Quoter, reg *registry.Registry, chainID uint64, maxParallel int, logger *zap.Logger) *Valuer {
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Valuer{
		reader:      reader,
		quoter:      quoter,
		registry:    reg,
		chainID:     chainID,
		maxParallel: maxParallel,
		logger:      logger,
	}
}

// TotalCollateral sums the position's balances across the full tracked token
// set, quoted in quoteSymbol. The whole registry is scanned, not just the
// pool's declared pair: a position may hold swap residue in any supported
// asset. A nil pool or an account without a position yields 0 with no reads
// beyond resolution.
func (v *Valuer) TotalCollateral(ctx context.Context, pool *model.EnrichedPool, account common.Address, quoteSymbol string) (float64, error) {
	if pool == nil || !common.IsHexAddress(pool.ID) {
		return 0, nil
	}

	positionAddr, ok, err := v.reader.PositionAddress(ctx, common.HexToAddress(pool.ID), account)
	if err != nil {
		return 0, fmt.Errorf("resolve position: %w", err)
	}
	if !ok || positionAddr == (common.Address{}) {
		return 0, nil
	}

	return v.totalInQuote(ctx, positionAddr, quoteSymbol)
}

// Summary assembles the position address and derived figures for one
// (pool, account) pair. Health factor and max borrow degrade to empty
// strings on read failure; position resolution failure is surfaced because
// there is nothing to degrade to.
func (v *Valuer) Summary(ctx context.Context, pool *model.EnrichedPool, account common.Address, quoteSymbol string) (model.PositionSummary, error) {
	if quoteSymbol == "" {
		quoteSymbol = DefaultQuoteSymbol
	}

	summary := model.PositionSummary{
		ChainID:     v.chainID,
		Account:     account.Hex(),
		QuoteSymbol: quoteSymbol,
	}
	if pool == nil || !common.IsHexAddress(pool.ID) {
		return summary, nil
	}
	summary.PoolAddress = pool.ID

	poolAddr := common.HexToAddress(pool.ID)
	positionAddr, ok, err := v.reader.PositionAddress(ctx, poolAddr, account)
	if err != nil {
		return summary, fmt.Errorf("resolve position: %w", err)
	}
	summary.PositionAddress = positionAddr.Hex()
	summary.HasPosition = ok && positionAddr != (common.Address{})
	if !summary.HasPosition {
		return summary, nil
	}

	total, err := v.totalInQuote(ctx, positionAddr, quoteSymbol)
	if err != nil {
		return summary, err
	}
	summary.TotalCollateral = total

	if health, ok, err := v.reader.HealthFactor(ctx, poolAddr, account); err != nil {
		v.logger.Warn("health factor read failed", zap.String("pool", pool.ID), zap.Error(err))
	} else if ok {
		summary.HealthFactor = health.String()
	}

	if maxBorrow, ok, err := v.reader.MaxBorrowAmount(ctx, poolAddr, account); err != nil {
		v.logger.Warn("max borrow read failed", zap.String("pool", pool.ID), zap.Error(err))
	} else if ok {
		summary.MaxBorrow = maxBorrow.String()
	}

	return summary, nil
}

func (v *Valuer) totalInQuote(ctx context.Context, positionAddr common.Address, quoteSymbol string) (float64, error) {
	quoteAddr, ok := v.registry.AddressFor(quoteSymbol, v.chainID)
	if !ok {
		return 0, fmt.Errorf("quote token %s not registered on chain %d", quoteSymbol, v.chainID)
	}

	tokens := v.registry.Tokens()
	values := make([]float64, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxParallel)
	for i, token := range tokens {
		tokenAddr, supported := token.Addresses[v.chainID]
		if !supported {
			continue
		}
		i, token := i, token
		g.Go(func() error {
			balance, ok, err := v.reader.PositionBalance(gctx, tokenAddr, positionAddr)
			if err != nil {
				v.logger.Warn("balance read failed",
					zap.String("token", token.Symbol),
					zap.String("position", positionAddr.Hex()),
					zap.Error(err))
				return nil
			}
			if !ok || balance.Sign() == 0 {
				return nil
			}

			amount := pricing.FromBaseUnits(balance, token.Decimals)
			value, ok, err := v.quoter.Quote(gctx, tokenAddr, quoteAddr, amount, positionAddr)
			if err != nil {
				v.logger.Warn("quote failed",
					zap.String("token", token.Symbol),
					zap.String("quote", quoteSymbol),
					zap.Error(err))
				return nil
			}
			if !ok {
				return nil
			}
			if !math.IsNaN(value) && !math.IsInf(value, 0) {
				values[i] = value
			}
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for _, value := range values {
		total += value
	}
	return total, nil
}
