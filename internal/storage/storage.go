package storage

import "lendingScope/internal/model"

// PoolSink is a sink for enriched pool batches.
type PoolSink interface {
	PutPoolBatch(pools []model.EnrichedPool) error
}

// SnapshotSink is a sink for position snapshots.
type SnapshotSink interface {
	PutSnapshotBatch(snapshots []model.PositionSnapshot) error
}
