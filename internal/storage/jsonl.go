package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"lendingScope/internal/model"
)

// JsonlStorage appends records to a JSONL file. Safe for concurrent use.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutPoolBatch appends a batch of enriched pools as JSON lines.
func (s *JsonlStorage) PutPoolBatch(pools []model.EnrichedPool) error {
	if len(pools) == 0 {
		return nil
	}
	records := make([]interface{}, len(pools))
	for i := range pools {
		records[i] = pools[i]
	}
	return s.appendLines(records)
}

// PutSnapshotBatch appends a batch of position snapshots as JSON lines.
func (s *JsonlStorage) PutSnapshotBatch(snapshots []model.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	records := make([]interface{}, len(snapshots))
	for i := range snapshots {
		records[i] = snapshots[i]
	}
	return s.appendLines(records)
}

func (s *JsonlStorage) appendLines(records []interface{}) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
