package position

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"lendingScope/internal/model"
	"lendingScope/internal/registry"
)

type fakeReader struct {
	position     common.Address
	resolveCalls int
	resolveErr   error

	balances     map[common.Address]*big.Int
	balanceCalls int
	balanceErr   map[common.Address]error

	health    *big.Int
	maxBorrow *big.Int
}

func (f *fakeReader) PositionAddress(ctx context.Context, pool, account common.Address) (common.Address, bool, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return common.Address{}, false, f.resolveErr
	}
	return f.position, true, nil
}

func (f *fakeReader) PositionBalance(ctx context.Context, token, position common.Address) (*big.Int, bool, error) {
	f.balanceCalls++
	if err, ok := f.balanceErr[token]; ok {
		return nil, false, err
	}
	balance, ok := f.balances[token]
	if !ok {
		return big.NewInt(0), true, nil
	}
	return new(big.Int).Set(balance), true, nil
}

func (f *fakeReader) HealthFactor(ctx context.Context, pool, account common.Address) (*big.Int, bool, error) {
	if f.health == nil {
		return nil, false, fmt.Errorf("health factor unavailable")
	}
	return new(big.Int).Set(f.health), true, nil
}

func (f *fakeReader) MaxBorrowAmount(ctx context.Context, pool, account common.Address) (*big.Int, bool, error) {
	if f.maxBorrow == nil {
		return nil, false, fmt.Errorf("max borrow unavailable")
	}
	return new(big.Int).Set(f.maxBorrow), true, nil
}

// fakeQuoter values each token at a fixed unit price in the quote currency.
type fakeQuoter struct {
	prices map[common.Address]float64
	errFor map[common.Address]error
	calls  int
}

func (f *fakeQuoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn float64, position common.Address) (float64, bool, error) {
	f.calls++
	if err, ok := f.errFor[tokenIn]; ok {
		return 0, false, err
	}
	price, ok := f.prices[tokenIn]
	if !ok {
		return 0, false, nil
	}
	return amountIn * price, true, nil
}

func mustAddr(t *testing.T, reg *registry.Registry, symbol string) common.Address {
	t.Helper()
	addr, ok := reg.AddressFor(symbol, registry.ChainBaseSepolia)
	if !ok {
		t.Fatalf("%s address missing on base sepolia", symbol)
	}
	return addr
}

func baseUnits(amount int64, decimals uint8) *big.Int {
	value := big.NewInt(amount)
	return value.Mul(value, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
}

func testPool() *model.EnrichedPool {
	return &model.EnrichedPool{RawPool: model.RawPool{
		ID:              "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		LTV:             "800000000000000000",
	}}
}

func TestTotalCollateralNilPool(t *testing.T) {
	reg := registry.Default()
	reader := &fakeReader{}
	quoter := &fakeQuoter{}
	valuer := NewValuer(reader, quoter, reg, registry.ChainBaseSepolia, 0, nil)

	total, err := valuer.TotalCollateral(context.Background(), nil, common.HexToAddress("0x01"), DefaultQuoteSymbol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
	if reader.resolveCalls != 0 || reader.balanceCalls != 0 || quoter.calls != 0 {
		t.Fatalf("nil pool must issue zero reads, got resolve=%d balance=%d quote=%d",
			reader.resolveCalls, reader.balanceCalls, quoter.calls)
	}
}

func TestTotalCollateralNoPosition(t *testing.T) {
	reg := registry.Default()
	reader := &fakeReader{position: common.Address{}}
	quoter := &fakeQuoter{}
	valuer := NewValuer(reader, quoter, reg, registry.ChainBaseSepolia, 0, nil)

	total, err := valuer.TotalCollateral(context.Background(), testPool(), common.HexToAddress("0x01"), DefaultQuoteSymbol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
	if reader.balanceCalls != 0 {
		t.Fatalf("no-position account must not read balances, got %d", reader.balanceCalls)
	}
}

func TestTotalCollateralSumsTrackedTokens(t *testing.T) {
	reg := registry.Default()
	weth := mustAddr(t, reg, "WETH")
	usdc := mustAddr(t, reg, "USDC")
	usdt := mustAddr(t, reg, "USDT")
	positionAddr := common.HexToAddress("0x0000000000000000000000000000000000000777")

	reader := &fakeReader{
		position: positionAddr,
		balances: map[common.Address]*big.Int{
			weth: baseUnits(2, 18),
			usdc: baseUnits(100, 6),
			usdt: baseUnits(50, 6),
		},
	}
	quoter := &fakeQuoter{prices: map[common.Address]float64{
		weth: 2500,
		usdc: 1,
		usdt: 1,
	}}
	valuer := NewValuer(reader, quoter, reg, registry.ChainBaseSepolia, 0, nil)

	total, err := valuer.TotalCollateral(context.Background(), testPool(), common.HexToAddress("0x01"), DefaultQuoteSymbol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2*2500.0 + 100 + 50
	if math.Abs(total-want) > 1e-9 {
		t.Fatalf("total = %v, want %v", total, want)
	}
	// One balance read per tracked token on the chain, WBTC included.
	if reader.balanceCalls != reg.Len() {
		t.Fatalf("balance reads = %d, want %d", reader.balanceCalls, reg.Len())
	}
}

func TestTotalCollateralDegradesOnQuoteFailure(t *testing.T) {
	reg := registry.Default()
	weth := mustAddr(t, reg, "WETH")
	wbtc := mustAddr(t, reg, "WBTC")
	usdc := mustAddr(t, reg, "USDC")
	usdt := mustAddr(t, reg, "USDT")
	positionAddr := common.HexToAddress("0x0000000000000000000000000000000000000777")

	reader := &fakeReader{
		position: positionAddr,
		balances: map[common.Address]*big.Int{
			weth: baseUnits(1, 18),
			wbtc: baseUnits(1, 8),
			usdc: baseUnits(10, 6),
			usdt: baseUnits(10, 6),
		},
	}
	quoter := &fakeQuoter{
		prices: map[common.Address]float64{
			weth: 2500,
			usdc: 1,
			usdt: 1,
		},
		errFor: map[common.Address]error{
			wbtc: fmt.Errorf("execution reverted"),
		},
	}
	valuer := NewValuer(reader, quoter, reg, registry.ChainBaseSepolia, 0, nil)

	total, err := valuer.TotalCollateral(context.Background(), testPool(), common.HexToAddress("0x01"), DefaultQuoteSymbol)
	if err != nil {
		t.Fatalf("failed leg must not abort the aggregate: %v", err)
	}
	want := 2500.0 + 10 + 10
	if math.Abs(total-want) > 1e-9 {
		t.Fatalf("total = %v, want %v", total, want)
	}
}

func TestTotalCollateralSurfacesResolveError(t *testing.T) {
	reg := registry.Default()
	reader := &fakeReader{resolveErr: fmt.Errorf("rpc timeout")}
	valuer := NewValuer(reader, &fakeQuoter{}, reg, registry.ChainBaseSepolia, 0, nil)

	if _, err := valuer.TotalCollateral(context.Background(), testPool(), common.HexToAddress("0x01"), DefaultQuoteSymbol); err == nil {
		t.Fatalf("expected resolution error to surface")
	}
}

func TestSummaryDegradesHelperReads(t *testing.T) {
	reg := registry.Default()
	positionAddr := common.HexToAddress("0x0000000000000000000000000000000000000777")
	reader := &fakeReader{
		position: positionAddr,
		balances: map[common.Address]*big.Int{},
		// health and maxBorrow left nil so both reads fail
	}
	valuer := NewValuer(reader, &fakeQuoter{}, reg, registry.ChainBaseSepolia, 0, nil)

	summary, err := valuer.Summary(context.Background(), testPool(), common.HexToAddress("0x01"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.HasPosition {
		t.Fatalf("expected position to be present")
	}
	if summary.PositionAddress != positionAddr.Hex() {
		t.Fatalf("position address = %s, want %s", summary.PositionAddress, positionAddr.Hex())
	}
	if summary.QuoteSymbol != DefaultQuoteSymbol {
		t.Fatalf("quote symbol = %s, want %s", summary.QuoteSymbol, DefaultQuoteSymbol)
	}
	if summary.HealthFactor != "" || summary.MaxBorrow != "" {
		t.Fatalf("failed helper reads must degrade to empty values")
	}
}

func TestSummaryIncludesHelperValues(t *testing.T) {
	reg := registry.Default()
	positionAddr := common.HexToAddress("0x0000000000000000000000000000000000000777")
	reader := &fakeReader{
		position:  positionAddr,
		balances:  map[common.Address]*big.Int{},
		health:    big.NewInt(1_500_000_000_000_000_000),
		maxBorrow: big.NewInt(42),
	}
	valuer := NewValuer(reader, &fakeQuoter{}, reg, registry.ChainBaseSepolia, 0, nil)

	summary, err := valuer.Summary(context.Background(), testPool(), common.HexToAddress("0x01"), DefaultQuoteSymbol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.HealthFactor != "1500000000000000000" {
		t.Fatalf("health factor = %s", summary.HealthFactor)
	}
	if summary.MaxBorrow != "42" {
		t.Fatalf("max borrow = %s", summary.MaxBorrow)
	}
}
