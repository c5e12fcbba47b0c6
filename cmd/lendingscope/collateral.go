package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"lendingScope/internal/chain"
	"lendingScope/internal/config"
	"lendingScope/internal/enrich"
	"lendingScope/internal/indexer"
	"lendingScope/internal/lending"
	"lendingScope/internal/model"
	"lendingScope/internal/position"
	"lendingScope/internal/pricing"
)

func newCollateralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collateral",
		Short: "Compute an account's aggregate position value for one pool",
		RunE:  runCollateral,
	}
	addSharedFlags(cmd)
	cmd.Flags().String("pool", "", "lending pool address")
	cmd.Flags().String("account", "", "account address")
	cmd.Flags().String("quote", "USDT", "quote token symbol")
	return cmd
}

func runCollateral(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.IndexerURL == "" {
		return fmt.Errorf("indexer url is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("pool must be a hex address")
	}
	if !common.IsHexAddress(cfg.Account) {
		return fmt.Errorf("account must be a hex address")
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	helper, err := helperAddress(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	indexerClient := indexer.NewClient(indexer.Config{
		Endpoint:     cfg.IndexerURL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)

	raw, err := indexerClient.FetchPools(ctx)
	if err != nil {
		return err
	}

	var pool *model.EnrichedPool
	enricher := enrich.New(reg)
	for i := range raw {
		if strings.EqualFold(raw[i].ID, cfg.Pool) {
			enriched := enricher.Enrich(&raw[i], cfg.ChainID)
			pool = &enriched
			break
		}
	}

	reader := lending.NewReader(chainClient, helper, logger)
	quoter := pricing.NewQuoter(pricing.QuoterConfig{ChainID: cfg.ChainID}, reader, reg, logger)
	valuer := position.NewValuer(reader, quoter, reg, cfg.ChainID, 0, logger)

	summary, err := valuer.Summary(ctx, pool, common.HexToAddress(cfg.Account), cfg.Quote)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
