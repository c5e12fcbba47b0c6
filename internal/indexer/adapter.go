package indexer

import "lendingScope/internal/model"

// rawPoolRecord tolerates both the snake_case and camelCase spellings the
// indexer has shipped over time. This is the only place that branches on
// field-name variants; everything downstream sees the canonical RawPool.
type rawPoolRecord struct {
	ID                   string `json:"id"`
	LendingPool          string `json:"lendingPool"`
	LendingPoolSnake     string `json:"lending_pool"`
	CollateralToken      string `json:"collateralToken"`
	CollateralTokenSnake string `json:"collateral_token"`
	BorrowToken          string `json:"borrowToken"`
	BorrowTokenSnake     string `json:"borrow_token"`
	LTV                  string `json:"ltv"`
	CreatedAt            string `json:"createdAt"`
	CreatedAtSnake       string `json:"created_at"`
	BlockNumber          string `json:"blockNumber"`
	BlockNumberSnake     string `json:"block_number"`
	TransactionHash      string `json:"transactionHash"`
	TransactionHashSnake string `json:"transaction_hash"`
}

// normalize produces the canonical RawPool. ok=false means a required
// address is missing and the record must be dropped at the boundary.
func (r rawPoolRecord) normalize() (model.RawPool, bool) {
	pool := model.RawPool{
		ID:              firstNonEmpty(r.LendingPool, r.LendingPoolSnake, r.ID),
		CollateralToken: firstNonEmpty(r.CollateralToken, r.CollateralTokenSnake),
		BorrowToken:     firstNonEmpty(r.BorrowToken, r.BorrowTokenSnake),
		LTV:             r.LTV,
		CreatedAt:       firstNonEmpty(r.CreatedAt, r.CreatedAtSnake),
		BlockNumber:     firstNonEmpty(r.BlockNumber, r.BlockNumberSnake),
		TransactionHash: firstNonEmpty(r.TransactionHash, r.TransactionHashSnake),
	}

	if pool.ID == "" || pool.CollateralToken == "" || pool.BorrowToken == "" {
		return model.RawPool{}, false
	}
	return pool, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
