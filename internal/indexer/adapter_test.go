package indexer

import (
	"reflect"
	"testing"

	"lendingScope/internal/model"
)

func TestNormalizeCamelCase(t *testing.T) {
	record := rawPoolRecord{
		ID:              "0xabc",
		LendingPool:     "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		LTV:             "800000000000000000",
		CreatedAt:       "1719400000",
		BlockNumber:     "12345678",
		TransactionHash: "0xdeadbeef",
	}

	pool, ok := record.normalize()
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	want := model.RawPool{
		ID:              "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		LTV:             "800000000000000000",
		CreatedAt:       "1719400000",
		BlockNumber:     "12345678",
		TransactionHash: "0xdeadbeef",
	}
	if !reflect.DeepEqual(pool, want) {
		t.Fatalf("pool = %+v, want %+v", pool, want)
	}
}

func TestNormalizeSnakeCase(t *testing.T) {
	record := rawPoolRecord{
		LendingPoolSnake:     "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralTokenSnake: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowTokenSnake:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		CreatedAtSnake:       "1719400000",
		BlockNumberSnake:     "12345678",
		TransactionHashSnake: "0xdeadbeef",
	}

	pool, ok := record.normalize()
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	if pool.ID != "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7" {
		t.Fatalf("id = %s", pool.ID)
	}
	if pool.CreatedAt != "1719400000" || pool.BlockNumber != "12345678" || pool.TransactionHash != "0xdeadbeef" {
		t.Fatalf("provenance fields lost: %+v", pool)
	}
}

func TestNormalizeFallsBackToRecordID(t *testing.T) {
	record := rawPoolRecord{
		ID:              "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
		CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
	}

	pool, ok := record.normalize()
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	if pool.ID != record.ID {
		t.Fatalf("id = %s, want fallback to record id", pool.ID)
	}
}

func TestNormalizeDropsIncompleteRecords(t *testing.T) {
	cases := []struct {
		name   string
		record rawPoolRecord
	}{
		{"missing pool", rawPoolRecord{
			CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
			BorrowToken:     "0xDa11C806176678e4228C904ec27014267e128fb5",
		}},
		{"missing collateral", rawPoolRecord{
			LendingPool: "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
			BorrowToken: "0xDa11C806176678e4228C904ec27014267e128fb5",
		}},
		{"missing borrow", rawPoolRecord{
			LendingPool:     "0x76091aC74058d69e32CdbCc487bF0bCA09cb59D7",
			CollateralToken: "0xB5155367af0Fab41d1279B059571715068dE263C",
		}},
	}
	for _, tc := range cases {
		if _, ok := tc.record.normalize(); ok {
			t.Fatalf("%s: expected record to be dropped", tc.name)
		}
	}
}
