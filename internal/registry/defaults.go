package registry

import "github.com/ethereum/go-ethereum/common"

// Supported testnets.
const (
	ChainBaseSepolia     uint64 = 84532
	ChainOptimismSepolia uint64 = 11155420
	ChainArbitrumSepolia uint64 = 421614
)

// priceHelpers maps chain ID to the deployed price helper contract.
var priceHelpers = map[uint64]common.Address{
	ChainBaseSepolia: common.HexToAddress("0x8030dA6FBba0B33D4Ce694B19CD1e1eC50C9d916"),
}

// PriceHelper returns the price helper contract address for chainID.
func PriceHelper(chainID uint64) (common.Address, bool) {
	addr, ok := priceHelpers[chainID]
	return addr, ok
}

// Default returns the built-in token set.
func Default() *Registry {
	return New([]Token{
		{
			Name:     "WETH",
			Symbol:   "WETH",
			Logo:     "/token/weth.png",
			Decimals: 18,
			Addresses: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0xB5155367af0Fab41d1279B059571715068dE263C"),
				ChainOptimismSepolia: common.HexToAddress("0x21077433B716F12e6aC2218184DC8fBbAd5E47fc"),
				ChainArbitrumSepolia: common.HexToAddress("0x8acFd502E5D1E3747C17f8c61880be64BABAE2dF"),
			},
			PriceFeed: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0x86d67c3D38D2bCeE722E601025C25a575021c6EA"),
				ChainOptimismSepolia: common.HexToAddress("0x6c75b16496384caE307f7E842e7133590E6D79Af"),
				ChainArbitrumSepolia: common.HexToAddress("0xd30e2101a97dcbAeBCBC04F14C3f624E67A35165"),
			},
		},
		{
			Name:     "WBTC",
			Symbol:   "WBTC",
			Logo:     "/token/wbtc.png",
			Decimals: 8,
			Addresses: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0x7CC19AdfCB73A81A6769dC1A9f7f9d429b27f000"),
				ChainOptimismSepolia: common.HexToAddress("0x3217D2b65Df07C7FD5BBa61144ad4B7ec623E311"),
				ChainArbitrumSepolia: common.HexToAddress("0xd642a577d77DF95bADE47F6A2329BA9d280400Ea"),
			},
			PriceFeed: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0x86d67c3D38D2bCeE722E601025C25a575021c6EA"),
				ChainOptimismSepolia: common.HexToAddress("0x121296103189009d9D082943bE723387A6c7D30C"),
				ChainArbitrumSepolia: common.HexToAddress("0x56a43EB56Da12C0dc1D972ACb089c06a5dEF8e69"),
			},
		},
		{
			Name:     "USDC",
			Symbol:   "USDC",
			Logo:     "/token/usdc.png",
			Decimals: 6,
			Addresses: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0xDa11C806176678e4228C904ec27014267e128fb5"),
				ChainOptimismSepolia: common.HexToAddress("0xcD108eEE9a62baEeA4a03e4CE5D2dD15b47b2857"),
				ChainArbitrumSepolia: common.HexToAddress("0x902bf8CaC2222a8897d07864BEB49C291633B70E"),
			},
			PriceFeed: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0x86d67c3D38D2bCeE722E601025C25a575021c6EA"),
				ChainArbitrumSepolia: common.HexToAddress("0x902bf8CaC2222a8897d07864BEB49C291633B70E"),
			},
		},
		{
			Name:     "USDT",
			Symbol:   "USDT",
			Logo:     "/token/usdt.png",
			Decimals: 6,
			Addresses: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0xA391a85B3B8D9cC90555E848aF803BF97067aA81"),
				ChainOptimismSepolia: common.HexToAddress("0xBd788D49ffD8707dC713897614D96755FF72b313"),
				ChainArbitrumSepolia: common.HexToAddress("0x2315a799b5E50b0454fbcA7237a723df4868F606"),
			},
			PriceFeed: map[uint64]common.Address{
				ChainBaseSepolia:     common.HexToAddress("0x86d67c3D38D2bCeE722E601025C25a575021c6EA"),
				ChainArbitrumSepolia: common.HexToAddress("0x80EDee6f667eCc9f63a0a6f55578F870651f06A4"),
			},
		},
	})
}
