package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"lendingScope/internal/enrich"
	"lendingScope/internal/metrics"
	"lendingScope/internal/model"
)

// DefaultInterval is how often positions are re-polled.
const DefaultInterval = 5 * time.Second

// PoolFetcher supplies the current pool set.
type PoolFetcher interface {
	FetchPools(ctx context.Context) ([]model.RawPool, error)
}

// Summarizer produces a position summary for one (pool, account) pair.
type Summarizer interface {
	Summary(ctx context.Context, pool *model.EnrichedPool, account common.Address, quoteSymbol string) (model.PositionSummary, error)
}

// PoolStore persists enriched pools and snapshots.
type PoolStore interface {
	UpsertPools(ctx context.Context, chainID uint64, pools []model.EnrichedPool) error
	UpsertSnapshots(ctx context.Context, snapshots []model.PositionSnapshot) error
}

// Config controls the snapshot runner.
type Config struct {
	ChainID     uint64
	Interval    time.Duration
	QuoteSymbol string
	Accounts    []common.Address
	StateStore  StateStore
}

// Runner polls the indexer and the chain on a fixed interval and persists
// the resulting snapshots. One poll that fails is logged and skipped; the
// loop keeps its cadence.
type Runner struct {
	cfg      Config
	fetcher  PoolFetcher
	enricher *enrich.Enricher
	valuer   Summarizer
	store    PoolStore
	logger   *zap.Logger
}

func NewRunner(cfg Config, fetcher PoolFetcher, enricher *enrich.Enricher, valuer Summarizer, store PoolStore, logger *zap.Logger) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		enricher: enricher,
		valuer:   valuer,
		store:    store,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (r *Runner) Run(ctx context.Context) error {
	if r.fetcher == nil || r.enricher == nil || r.valuer == nil {
		return fmt.Errorf("runner is missing a dependency")
	}
	if len(r.cfg.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	if last, ok, err := r.loadState(ctx); err != nil {
		return err
	} else if ok {
		r.logger.Info("resuming snapshots", zap.Time("last_poll", time.Unix(int64(last), 0).UTC()))
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := r.poll(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			r.logger.Warn("poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) poll(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	}()

	raw, err := r.fetcher.FetchPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch pools: %w", err)
	}
	pools := r.enricher.EnrichAll(raw, r.cfg.ChainID)

	if r.store != nil {
		if err := r.store.UpsertPools(ctx, r.cfg.ChainID, pools); err != nil {
			return fmt.Errorf("upsert pools: %w", err)
		}
	}

	takenAt := time.Now().UTC()
	snapshots := make([]model.PositionSnapshot, 0, len(pools)*len(r.cfg.Accounts))
	for i := range pools {
		for _, account := range r.cfg.Accounts {
			summary, err := r.valuer.Summary(ctx, &pools[i], account, r.cfg.QuoteSymbol)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Warn("summary failed",
					zap.String("pool", pools[i].ID),
					zap.String("account", account.Hex()),
					zap.Error(err))
				continue
			}
			if !summary.HasPosition {
				continue
			}
			snapshots = append(snapshots, model.PositionSnapshot{
				PositionSummary: summary,
				TakenAt:         takenAt,
			})
		}
	}

	if r.store != nil {
		if err := r.store.UpsertSnapshots(ctx, snapshots); err != nil {
			return fmt.Errorf("upsert snapshots: %w", err)
		}
	}

	if r.cfg.StateStore != nil {
		if err := r.cfg.StateStore.Save(ctx, uint64(takenAt.Unix())); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	r.logger.Info("poll complete",
		zap.Int("pools", len(pools)),
		zap.Int("snapshots", len(snapshots)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (r *Runner) loadState(ctx context.Context) (uint64, bool, error) {
	if r.cfg.StateStore == nil {
		return 0, false, nil
	}
	return r.cfg.StateStore.Load(ctx)
}
