package lending

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"lendingScope/internal/metrics"
)

// ContractCaller is the slice of the chain client the reader depends on.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader performs the contract reads of the lending protocol: position
// resolution on the pool, ERC-20 balances of a position, and quotes via the
// price helper. Reads with absent or zero-sentinel arguments are not issued;
// those return ok=false with a nil error so callers can tell "not asked"
// apart from "read failed".
type Reader struct {
	caller ContractCaller
	helper common.Address
	logger *zap.Logger
}

// NewReader builds a Reader. helper is the price helper contract address.
func NewReader(caller ContractCaller, helper common.Address, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		caller: caller,
		helper: helper,
		logger: logger,
	}
}

// PositionAddress resolves the position contract for account in pool.
// A zero result with ok=true means the account has no position yet.
func (r *Reader) PositionAddress(ctx context.Context, pool, account common.Address) (common.Address, bool, error) {
	if isZero(pool) || isZero(account) {
		return common.Address{}, false, nil
	}

	poolABI, err := LendingPoolABI()
	if err != nil {
		return common.Address{}, false, fmt.Errorf("parse lending pool abi: %w", err)
	}

	values, err := r.call(ctx, pool, poolABI, "addressPositions", account)
	if err != nil {
		return common.Address{}, false, err
	}
	addr, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, false, fmt.Errorf("addressPositions: %w", err)
	}
	return addr, true, nil
}

// PositionBalance reads the ERC-20 balance of position for token, in base
// units. Decimal scaling is the caller's responsibility.
func (r *Reader) PositionBalance(ctx context.Context, token, position common.Address) (*big.Int, bool, error) {
	if isZero(token) || isZero(position) {
		return nil, false, nil
	}

	tokenABI, err := ERC20ABI()
	if err != nil {
		return nil, false, fmt.Errorf("parse erc20 abi: %w", err)
	}

	values, err := r.call(ctx, token, tokenABI, "balanceOf", position)
	if err != nil {
		return nil, false, err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, false, fmt.Errorf("balanceOf: %w", err)
	}
	return balance, true, nil
}

// ExchangeRate quotes amountIn (base units of tokenIn) into tokenOut base
// units through the price helper. Not issued for zero addresses or a
// non-positive amount.
func (r *Reader) ExchangeRate(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, position common.Address) (*big.Int, bool, error) {
	if isZero(tokenIn) || isZero(tokenOut) || isZero(position) {
		return nil, false, nil
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, false, nil
	}

	helperABI, err := PriceHelperABI()
	if err != nil {
		return nil, false, fmt.Errorf("parse price helper abi: %w", err)
	}

	values, err := r.call(ctx, r.helper, helperABI, "getExchangeRate", tokenIn, tokenOut, amountIn, position)
	if err != nil {
		return nil, false, err
	}
	rate, err := asBigInt(values[0])
	if err != nil {
		return nil, false, fmt.Errorf("getExchangeRate: %w", err)
	}
	return rate, true, nil
}

// HealthFactor reads the account's health factor for pool.
func (r *Reader) HealthFactor(ctx context.Context, pool, account common.Address) (*big.Int, bool, error) {
	return r.helperPairRead(ctx, "getHealthFactor", pool, account)
}

// MaxBorrowAmount reads the account's maximum borrowable amount for pool.
func (r *Reader) MaxBorrowAmount(ctx context.Context, pool, account common.Address) (*big.Int, bool, error) {
	return r.helperPairRead(ctx, "getMaxBorrowAmount", pool, account)
}

// TokenValue reads the helper's unit value for token.
func (r *Reader) TokenValue(ctx context.Context, token common.Address) (*big.Int, bool, error) {
	if isZero(token) {
		return nil, false, nil
	}

	helperABI, err := PriceHelperABI()
	if err != nil {
		return nil, false, fmt.Errorf("parse price helper abi: %w", err)
	}

	values, err := r.call(ctx, r.helper, helperABI, "getTokenValue", token)
	if err != nil {
		return nil, false, err
	}
	value, err := asBigInt(values[0])
	if err != nil {
		return nil, false, fmt.Errorf("getTokenValue: %w", err)
	}
	return value, true, nil
}

func (r *Reader) helperPairRead(ctx context.Context, method string, pool, account common.Address) (*big.Int, bool, error) {
	if isZero(pool) || isZero(account) {
		return nil, false, nil
	}

	helperABI, err := PriceHelperABI()
	if err != nil {
		return nil, false, fmt.Errorf("parse price helper abi: %w", err)
	}

	values, err := r.call(ctx, r.helper, helperABI, method, pool, account)
	if err != nil {
		return nil, false, err
	}
	value, err := asBigInt(values[0])
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", method, err)
	}
	return value, true, nil
}

func (r *Reader) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &to, Data: data}
	metrics.ChainReads.WithLabelValues(method).Inc()
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		metrics.ChainReadFailures.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func isZero(addr common.Address) bool {
	return addr == (common.Address{})
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
