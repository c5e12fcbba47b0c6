package model

import "time"

// PositionSummary bundles the derived on-chain values for one
// (pool, account) pair. HealthFactor and MaxBorrow carry the raw uint256
// decimal strings; display scaling is a presentation concern.
type PositionSummary struct {
	ChainID         uint64  `json:"chain_id"`
	PoolAddress     string  `json:"pool_address"`
	Account         string  `json:"account"`
	PositionAddress string  `json:"position_address"`
	HasPosition     bool    `json:"has_position"`
	QuoteSymbol     string  `json:"quote_symbol"`
	TotalCollateral float64 `json:"total_collateral"`
	HealthFactor    string  `json:"health_factor,omitempty"`
	MaxBorrow       string  `json:"max_borrow,omitempty"`
}

// PositionSnapshot is a PositionSummary captured by the snapshot loop.
type PositionSnapshot struct {
	PositionSummary
	TakenAt time.Time `json:"taken_at"`
}
