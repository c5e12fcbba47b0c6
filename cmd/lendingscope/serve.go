package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lendingScope/internal/chain"
	"lendingScope/internal/config"
	"lendingScope/internal/enrich"
	"lendingScope/internal/indexer"
	"lendingScope/internal/lending"
	"lendingScope/internal/position"
	"lendingScope/internal/pricing"
	"lendingScope/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read pipeline over HTTP",
		RunE:  runServe,
	}
	addSharedFlags(cmd)
	cmd.Flags().String("listen", ":8080", "listen address")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins, empty allows all")
	cmd.Flags().Duration("quote-ttl", 3*time.Second, "quote freshness window")
	cmd.Flags().Int("max-parallel", 8, "max concurrent per-token reads")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
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

	reg, err := loadRegistry(cfg.Config)
	if err != nil {
		return err
	}
	helper, err := helperAddress(cfg.Config)
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

	reader := lending.NewReader(chainClient, helper, logger)
	quoter := pricing.NewQuoter(pricing.QuoterConfig{
		ChainID:  cfg.ChainID,
		FreshFor: cfg.QuoteTTL,
	}, reader, reg, logger)
	valuer := position.NewValuer(reader, quoter, reg, cfg.ChainID, cfg.MaxParallel, logger)

	srv := server.New(cfg.ChainID, indexerClient, enrich.New(reg), valuer, quoter, reader, reg, logger)

	logger.Info("serve start",
		zap.String("listen", cfg.Listen),
		zap.String("indexer", cfg.IndexerURL),
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Duration("quote_ttl", cfg.QuoteTTL),
	)

	return srv.Run(ctx, cfg.Listen, cfg.CORSOrigins)
}
