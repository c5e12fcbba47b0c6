package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lendingScope/internal/config"
	"lendingScope/internal/enrich"
	"lendingScope/internal/indexer"
	"lendingScope/internal/storage"
)

func newPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Fetch and enrich the current pool set",
		RunE:  runPools,
	}
	addSharedFlags(cmd)
	cmd.Flags().String("out", "", "optional JSONL path to append enriched pools to")
	return cmd
}

func runPools(cmd *cobra.Command, _ []string) error {
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

	if cfg.IndexerURL == "" {
		return fmt.Errorf("indexer url is required")
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := indexer.NewClient(indexer.Config{
		Endpoint:     cfg.IndexerURL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)

	raw, err := client.FetchPools(ctx)
	if err != nil {
		return err
	}
	pools := enrich.New(reg).EnrichAll(raw, cfg.ChainID)

	logger.Info("pools fetched",
		zap.String("indexer", cfg.IndexerURL),
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Int("pools", len(pools)),
	)

	if cfg.Out != "" {
		if err := storage.NewJsonlStorage(cfg.Out).PutPoolBatch(pools); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(pools)
}
