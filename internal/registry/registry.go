package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an immutable registry entry. Addresses and PriceFeed are keyed
// by chain ID; a token without an entry for a chain is unsupported there.
type Token struct {
	Name      string
	Symbol    string
	Logo      string
	Decimals  uint8
	Addresses map[uint64]common.Address
	PriceFeed map[uint64]common.Address
}

// Registry is the fixed set of tracked tokens. It is built once at startup
// and shared read-only; components receive it explicitly.
type Registry struct {
	tokens []Token
}

// New builds a registry from the given tokens. The slice is copied so the
// registry cannot be mutated through the caller's reference.
func New(tokens []Token) *Registry {
	copied := make([]Token, len(tokens))
	copy(copied, tokens)
	return &Registry{tokens: copied}
}

// Tokens returns the tracked token set in registry order.
func (r *Registry) Tokens() []Token {
	out := make([]Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Len returns the number of tracked tokens.
func (r *Registry) Len() int {
	return len(r.tokens)
}

// ByAddress finds the token whose address for chainID matches addr,
// case-insensitively. First match wins.
func (r *Registry) ByAddress(chainID uint64, addr string) (Token, bool) {
	if !common.IsHexAddress(addr) {
		return Token{}, false
	}
	want := common.HexToAddress(addr)
	for _, token := range r.tokens {
		if registered, ok := token.Addresses[chainID]; ok && registered == want {
			return token, true
		}
	}
	return Token{}, false
}

// BySymbol finds a token by its symbol.
func (r *Registry) BySymbol(symbol string) (Token, bool) {
	for _, token := range r.tokens {
		if token.Symbol == symbol {
			return token, true
		}
	}
	return Token{}, false
}

// AddressFor returns the token's contract address on chainID.
func (r *Registry) AddressFor(symbol string, chainID uint64) (common.Address, bool) {
	token, ok := r.BySymbol(symbol)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := token.Addresses[chainID]
	return addr, ok
}

// PriceFeedFor returns the token's price feed address on chainID.
func (r *Registry) PriceFeedFor(symbol string, chainID uint64) (common.Address, bool) {
	token, ok := r.BySymbol(symbol)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := token.PriceFeed[chainID]
	return addr, ok
}

// tokenFile is the on-disk registry shape. Chain IDs are JSON object keys
// and therefore strings.
type tokenFile struct {
	Tokens []struct {
		Name      string            `json:"name"`
		Symbol    string            `json:"symbol"`
		Logo      string            `json:"logo"`
		Decimals  uint8             `json:"decimals"`
		Addresses map[string]string `json:"addresses"`
		PriceFeed map[string]string `json:"price_feed"`
	} `json:"tokens"`
}

// LoadFile reads a token registry from a JSON file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var file tokenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	tokens := make([]Token, 0, len(file.Tokens))
	for _, entry := range file.Tokens {
		addresses, err := parseAddressMap(entry.Addresses)
		if err != nil {
			return nil, fmt.Errorf("token %s addresses: %w", entry.Symbol, err)
		}
		priceFeed, err := parseAddressMap(entry.PriceFeed)
		if err != nil {
			return nil, fmt.Errorf("token %s price feed: %w", entry.Symbol, err)
		}
		tokens = append(tokens, Token{
			Name:      entry.Name,
			Symbol:    entry.Symbol,
			Logo:      entry.Logo,
			Decimals:  entry.Decimals,
			Addresses: addresses,
			PriceFeed: priceFeed,
		})
	}

	return New(tokens), nil
}

func parseAddressMap(input map[string]string) (map[uint64]common.Address, error) {
	out := make(map[uint64]common.Address, len(input))
	for chain, addr := range input {
		chainID, err := strconv.ParseUint(chain, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id: %s", chain)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address: %s", addr)
		}
		out[chainID] = common.HexToAddress(addr)
	}
	return out, nil
}
