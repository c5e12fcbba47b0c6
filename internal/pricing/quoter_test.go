package pricing

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"lendingScope/internal/registry"
)

type fakeRateSource struct {
	calls int
	rate  *big.Int
	err   error
}

func (f *fakeRateSource) ExchangeRate(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, position common.Address) (*big.Int, bool, error) {
	f.calls++
	if f.err != nil {
		return nil, false, f.err
	}
	return new(big.Int).Set(f.rate), true, nil
}

func testAddresses(t *testing.T) (common.Address, common.Address) {
	t.Helper()
	reg := registry.Default()
	weth, ok := reg.AddressFor("WETH", registry.ChainBaseSepolia)
	if !ok {
		t.Fatalf("WETH address missing")
	}
	usdt, ok := reg.AddressFor("USDT", registry.ChainBaseSepolia)
	if !ok {
		t.Fatalf("USDT address missing")
	}
	return weth, usdt
}

func TestQuoteConvertsWithDecimals(t *testing.T) {
	weth, usdt := testAddresses(t)
	position := common.HexToAddress("0x0000000000000000000000000000000000000123")

	// 2500 USDT in 6-decimal base units.
	source := &fakeRateSource{rate: big.NewInt(2_500_000_000)}
	quoter := NewQuoter(QuoterConfig{ChainID: registry.ChainBaseSepolia}, source, registry.Default(), nil)

	value, ok, err := quoter.Quote(context.Background(), weth, usdt, 1.0, position)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("quote should have been issued")
	}
	if value != 2500 {
		t.Fatalf("value = %v, want 2500", value)
	}
}

func TestQuoteFreshnessWindow(t *testing.T) {
	weth, usdt := testAddresses(t)
	position := common.HexToAddress("0x0000000000000000000000000000000000000123")

	source := &fakeRateSource{rate: big.NewInt(1_000_000)}
	quoter := NewQuoter(QuoterConfig{ChainID: registry.ChainBaseSepolia, FreshFor: time.Minute}, source, registry.Default(), nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := quoter.Quote(ctx, weth, usdt, 1.23456789, position); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if source.calls != 1 {
		t.Fatalf("identical quotes inside the window issued %d reads, want 1", source.calls)
	}

	// A semantically different amount must not be served from cache.
	if _, _, err := quoter.Quote(ctx, weth, usdt, 2.0, position); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("changed amount issued %d reads, want 2", source.calls)
	}

	// Amounts equal after rounding share one cache entry.
	if _, _, err := quoter.Quote(ctx, weth, usdt, 2.00001, position); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("rounded-equal amount issued %d reads, want 2", source.calls)
	}
}

func TestQuoteGating(t *testing.T) {
	weth, usdt := testAddresses(t)
	position := common.HexToAddress("0x0000000000000000000000000000000000000123")

	source := &fakeRateSource{rate: big.NewInt(1)}
	quoter := NewQuoter(QuoterConfig{ChainID: registry.ChainBaseSepolia}, source, registry.Default(), nil)
	ctx := context.Background()

	if _, ok, _ := quoter.Quote(ctx, weth, usdt, 0, position); ok {
		t.Fatalf("zero amount must not issue a quote")
	}
	if _, ok, _ := quoter.Quote(ctx, weth, usdt, -1, position); ok {
		t.Fatalf("negative amount must not issue a quote")
	}
	if _, ok, _ := quoter.Quote(ctx, weth, usdt, 1, common.Address{}); ok {
		t.Fatalf("zero position must not issue a quote")
	}
	unknown := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	if _, ok, _ := quoter.Quote(ctx, unknown, usdt, 1, position); ok {
		t.Fatalf("unregistered token must not issue a quote")
	}
	if source.calls != 0 {
		t.Fatalf("gated quotes issued %d reads, want 0", source.calls)
	}
}

func TestQuoteSurfacesErrors(t *testing.T) {
	weth, usdt := testAddresses(t)
	position := common.HexToAddress("0x0000000000000000000000000000000000000123")

	source := &fakeRateSource{err: fmt.Errorf("execution reverted")}
	quoter := NewQuoter(QuoterConfig{ChainID: registry.ChainBaseSepolia}, source, registry.Default(), nil)

	_, _, err := quoter.Quote(context.Background(), weth, usdt, 1, position)
	if err == nil {
		t.Fatalf("expected chain error to surface")
	}
}
