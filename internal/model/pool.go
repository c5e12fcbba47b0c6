package model

// RawPool is the canonical pool-creation record produced at the indexer
// boundary. Downstream code only ever sees this shape.
type RawPool struct {
	ID              string `json:"id"`
	CollateralToken string `json:"collateral_token"`
	BorrowToken     string `json:"borrow_token"`
	LTV             string `json:"ltv"`
	CreatedAt       string `json:"created_at"`
	BlockNumber     string `json:"block_number"`
	TransactionHash string `json:"transaction_hash"`
}

// TokenInfo is registry metadata attached to one side of a pool.
type TokenInfo struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Logo     string `json:"logo"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// EnrichedPool is a RawPool joined against the token registry. A nil
// TokenInfo means the address matched no registry entry for the chain;
// callers fall back to the raw address string.
type EnrichedPool struct {
	RawPool
	BorrowTokenInfo     *TokenInfo `json:"borrow_token_info,omitempty"`
	CollateralTokenInfo *TokenInfo `json:"collateral_token_info,omitempty"`
}
