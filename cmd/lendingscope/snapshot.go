package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lendingScope/internal/chain"
	"lendingScope/internal/config"
	"lendingScope/internal/enrich"
	"lendingScope/internal/indexer"
	"lendingScope/internal/lending"
	"lendingScope/internal/position"
	"lendingScope/internal/pricing"
	"lendingScope/internal/snapshot"
	"lendingScope/internal/storage/postgres"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Poll positions on an interval and persist snapshots",
		RunE:  runSnapshot,
	}
	addSharedFlags(cmd)
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().Duration("interval", 5*time.Second, "poll interval")
	cmd.Flags().StringSlice("accounts", nil, "account addresses to track (comma-separated)")
	cmd.Flags().String("quote", "USDT", "quote token symbol")
	cmd.Flags().String("state-file", "./data/snapshot-state.json", "local state file, empty selects DB state")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
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
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	accounts := make([]common.Address, 0, len(cfg.Accounts))
	for _, raw := range cfg.Accounts {
		if !common.IsHexAddress(raw) {
			return fmt.Errorf("invalid account address: %s", raw)
		}
		accounts = append(accounts, common.HexToAddress(raw))
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

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	var stateStore snapshot.StateStore
	if cfg.StateFile != "" {
		stateStore = &snapshot.FileStateStore{Path: cfg.StateFile}
	} else {
		stateStore = &snapshot.DBStateStore{Store: store, Name: fmt.Sprintf("snapshot:%d", cfg.ChainID)}
	}

	indexerClient := indexer.NewClient(indexer.Config{
		Endpoint:     cfg.IndexerURL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)

	reader := lending.NewReader(chainClient, helper, logger)
	quoter := pricing.NewQuoter(pricing.QuoterConfig{ChainID: cfg.ChainID}, reader, reg, logger)
	valuer := position.NewValuer(reader, quoter, reg, cfg.ChainID, 0, logger)

	runner := snapshot.NewRunner(snapshot.Config{
		ChainID:     cfg.ChainID,
		Interval:    cfg.Interval,
		QuoteSymbol: cfg.Quote,
		Accounts:    accounts,
		StateStore:  stateStore,
	}, indexerClient, enrich.New(reg), valuer, store, logger)

	logger.Info("snapshot start",
		zap.String("indexer", cfg.IndexerURL),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Duration("interval", cfg.Interval),
		zap.Int("accounts", len(accounts)),
	)

	return runner.Run(ctx)
}
