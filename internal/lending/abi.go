package lending

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const lendingPoolABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "user", "type": "address"}], "name": "addressPositions", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

const priceHelperABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "_tokenIn", "type": "address"}, {"internalType": "address", "name": "_tokenOut", "type": "address"}, {"internalType": "uint256", "name": "_amountIn", "type": "uint256"}, {"internalType": "address", "name": "_position", "type": "address"}], "name": "getExchangeRate", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "_lendingPool", "type": "address"}, {"internalType": "address", "name": "_user", "type": "address"}], "name": "getHealthFactor", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "_lendingPool", "type": "address"}, {"internalType": "address", "name": "_user", "type": "address"}], "name": "getMaxBorrowAmount", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "address", "name": "_token", "type": "address"}], "name": "getTokenValue", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const erc20ABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

var (
	lendingPoolABI     abi.ABI
	lendingPoolABIOnce sync.Once
	lendingPoolABIErr  error

	priceHelperABI     abi.ABI
	priceHelperABIOnce sync.Once
	priceHelperABIErr  error

	erc20ABI     abi.ABI
	erc20ABIOnce sync.Once
	erc20ABIErr  error
)

// LendingPoolABI returns the parsed lending pool ABI.
func LendingPoolABI() (abi.ABI, error) {
	lendingPoolABIOnce.Do(func() {
		lendingPoolABI, lendingPoolABIErr = abi.JSON(strings.NewReader(lendingPoolABIJSON))
	})
	return lendingPoolABI, lendingPoolABIErr
}

// PriceHelperABI returns the parsed price helper ABI.
func PriceHelperABI() (abi.ABI, error) {
	priceHelperABIOnce.Do(func() {
		priceHelperABI, priceHelperABIErr = abi.JSON(strings.NewReader(priceHelperABIJSON))
	})
	return priceHelperABI, priceHelperABIErr
}

// ERC20ABI returns the parsed ERC-20 balance ABI.
func ERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}
