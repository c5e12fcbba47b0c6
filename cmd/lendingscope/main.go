package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lendingScope/internal/config"
	"lendingScope/internal/registry"
)

func main() {
	root := &cobra.Command{
		Use:          "lendingscope",
		Short:        "Lending pool read aggregator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newPoolsCmd())
	root.AddCommand(newCollateralCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "chain RPC URL")
	cmd.Flags().Uint64("chain-id", 84532, "chain id")
	cmd.Flags().String("indexer-url", "", "GraphQL indexer endpoint")
	cmd.Flags().String("price-helper", "", "price helper contract address (defaults per chain)")
	cmd.Flags().String("registry-file", "", "token registry JSON path (defaults to built-in registry)")
	cmd.Flags().Int("rate-limit", 0, "max RPC calls per second, 0 disables throttling")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.RegistryFile != "" {
		return registry.LoadFile(cfg.RegistryFile)
	}
	return registry.Default(), nil
}

func helperAddress(cfg config.Config) (common.Address, error) {
	if cfg.PriceHelper != "" {
		if !common.IsHexAddress(cfg.PriceHelper) {
			return common.Address{}, fmt.Errorf("invalid price helper address: %s", cfg.PriceHelper)
		}
		return common.HexToAddress(cfg.PriceHelper), nil
	}
	addr, ok := registry.PriceHelper(cfg.ChainID)
	if !ok {
		return common.Address{}, fmt.Errorf("no price helper known for chain %d", cfg.ChainID)
	}
	return addr, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
