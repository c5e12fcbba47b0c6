package enrich

import (
	"reflect"
	"strings"
	"testing"

	"lendingScope/internal/model"
	"lendingScope/internal/registry"
)

func TestEnrichNilPool(t *testing.T) {
	enricher := New(registry.Default())

	got := enricher.Enrich(nil, registry.ChainBaseSepolia)

	want := model.EnrichedPool{}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nil pool enrichment mismatch: %+v", got)
	}
}

func TestEnrichDeterministic(t *testing.T) {
	enricher := New(registry.Default())
	pool := &model.RawPool{
		ID:              "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		LTV:             "800000000000000000",
	}

	first := enricher.Enrich(pool, registry.ChainBaseSepolia)
	second := enricher.Enrich(pool, registry.ChainBaseSepolia)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("enrichment is not deterministic: %+v != %+v", first, second)
	}
}

func TestEnrichWETHUSDCPool(t *testing.T) {
	enricher := New(registry.Default())
	pool := &model.RawPool{
		ID:              "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C", // WETH
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5", // USDC
		LTV:             "800000000000000000",
	}

	got := enricher.Enrich(pool, registry.ChainBaseSepolia)

	if got.CollateralTokenInfo == nil || got.CollateralTokenInfo.Symbol != "WETH" {
		t.Fatalf("collateral token info = %+v, want WETH", got.CollateralTokenInfo)
	}
	if got.CollateralTokenInfo.Decimals != 18 {
		t.Fatalf("WETH decimals = %d, want 18", got.CollateralTokenInfo.Decimals)
	}
	if got.BorrowTokenInfo == nil || got.BorrowTokenInfo.Symbol != "USDC" {
		t.Fatalf("borrow token info = %+v, want USDC", got.BorrowTokenInfo)
	}
	if got.BorrowTokenInfo.Decimals != 6 {
		t.Fatalf("USDC decimals = %d, want 6", got.BorrowTokenInfo.Decimals)
	}
	// LTV passes through untouched; percentage conversion is a display concern.
	if got.LTV != "800000000000000000" {
		t.Fatalf("ltv = %s, want raw string preserved", got.LTV)
	}
}

func TestEnrichCaseInsensitiveMatch(t *testing.T) {
	enricher := New(registry.Default())
	pool := &model.RawPool{
		ID:              "0x1",
		CollateralToken: strings.ToLower("0xB5155367af0Fab41d1279B059571715068dE263C"),
		BorrowToken:     "0x" + strings.ToUpper("Da11C806176678e4228C904ec27014267e128fb5"),
	}

	got := enricher.Enrich(pool, registry.ChainBaseSepolia)

	if got.CollateralTokenInfo == nil || got.CollateralTokenInfo.Symbol != "WETH" {
		t.Fatalf("lowercased collateral address did not match: %+v", got.CollateralTokenInfo)
	}
	if got.BorrowTokenInfo == nil || got.BorrowTokenInfo.Symbol != "USDC" {
		t.Fatalf("uppercased borrow address did not match: %+v", got.BorrowTokenInfo)
	}
}

func TestEnrichUnknownTokenTolerated(t *testing.T) {
	enricher := New(registry.Default())
	pool := &model.RawPool{
		ID:              "0x2",
		CollateralToken: "0x00000000000000000000000000000000000000aa",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		LTV:             "700000000000000000",
	}

	got := enricher.Enrich(pool, registry.ChainBaseSepolia)

	if got.CollateralTokenInfo != nil {
		t.Fatalf("unknown collateral must leave token info nil, got %+v", got.CollateralTokenInfo)
	}
	if got.BorrowTokenInfo == nil {
		t.Fatalf("known borrow token must still be enriched")
	}
	if got.LTV != "700000000000000000" || got.ID != "0x2" {
		t.Fatalf("raw fields must be preserved: %+v", got.RawPool)
	}
}

func TestEnrichAll(t *testing.T) {
	enricher := New(registry.Default())
	pools := []model.RawPool{
		{ID: "0x1", CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C"},
		{ID: "0x2", CollateralToken: "0x00000000000000000000000000000000000000aa"},
	}

	got := enricher.EnrichAll(pools, registry.ChainBaseSepolia)

	if len(got) != 2 {
		t.Fatalf("enriched %d pools, want 2", len(got))
	}
	if got[0].CollateralTokenInfo == nil || got[1].CollateralTokenInfo != nil {
		t.Fatalf("batch enrichment mismatch: %+v", got)
	}
}
