package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendingScope/internal/model"
)

// Store provides Postgres persistence for pools and position snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPools inserts or updates enriched pool metadata for a chain.
func (s *Store) UpsertPools(ctx context.Context, chainID uint64, pools []model.EnrichedPool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO lending_pools (
				chain_id, pool_address, collateral_token, borrow_token, ltv,
				collateral_symbol, borrow_symbol, block_number, transaction_hash,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			ON CONFLICT (chain_id, pool_address)
			DO UPDATE SET
				collateral_token = EXCLUDED.collateral_token,
				borrow_token = EXCLUDED.borrow_token,
				ltv = EXCLUDED.ltv,
				collateral_symbol = EXCLUDED.collateral_symbol,
				borrow_symbol = EXCLUDED.borrow_symbol,
				block_number = EXCLUDED.block_number,
				transaction_hash = EXCLUDED.transaction_hash,
				updated_at = now()
		`,
			int64(chainID),
			pool.ID,
			pool.CollateralToken,
			pool.BorrowToken,
			pool.LTV,
			tokenSymbol(pool.CollateralTokenInfo),
			tokenSymbol(pool.BorrowTokenInfo),
			pool.BlockNumber,
			pool.TransactionHash,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSnapshots inserts or updates position snapshots.
func (s *Store) UpsertSnapshots(ctx context.Context, snapshots []model.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO position_snapshots (
				chain_id, pool_address, account, position_address, has_position,
				quote_symbol, total_collateral, health_factor, max_borrow,
				taken_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
			ON CONFLICT (chain_id, pool_address, account, taken_at)
			DO UPDATE SET
				position_address = EXCLUDED.position_address,
				has_position = EXCLUDED.has_position,
				quote_symbol = EXCLUDED.quote_symbol,
				total_collateral = EXCLUDED.total_collateral,
				health_factor = EXCLUDED.health_factor,
				max_borrow = EXCLUDED.max_borrow,
				updated_at = now()
		`,
			int64(snap.ChainID),
			snap.PoolAddress,
			snap.Account,
			snap.PositionAddress,
			snap.HasPosition,
			snap.QuoteSymbol,
			snap.TotalCollateral,
			snap.HealthFactor,
			snap.MaxBorrow,
			snap.TakenAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_polled_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts uint64
	row := s.pool.QueryRow(ctx, `SELECT last_polled_ts FROM snapshot_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveState upserts last_polled_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO snapshot_state (name, last_polled_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_polled_ts = EXCLUDED.last_polled_ts, updated_at = now()
	`, name, ts)
	return err
}

func tokenSymbol(info *model.TokenInfo) string {
	if info == nil {
		return ""
	}
	return info.Symbol
}
