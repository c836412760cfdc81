package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"medscore-backend/domain/params"
)

// SnapshotStore persists one JSON file per owner under <dir>/params. A
// missing file reads as an empty snapshot; a corrupt file is an error the
// caller recovers from.
type SnapshotStore struct {
	dir    string
	logger *zap.Logger
}

// NewSnapshotStore creates the store
func NewSnapshotStore(dataDir string, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{dir: filepath.Join(dataDir, "params"), logger: logger}
}

// ReadAll implements ports.ParameterSnapshotStore
func (s *SnapshotStore) ReadAll(ctx context.Context, ownerID string) (params.Snapshot, error) {
	path := s.snapshotPath(ownerID)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snapshot params.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", path, err)
	}
	return snapshot, nil
}

// WriteAll implements ports.ParameterSnapshotStore
func (s *SnapshotStore) WriteAll(ctx context.Context, ownerID string, snapshot params.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling snapshot for %s: %w", ownerID, err)
	}

	path := s.snapshotPath(ownerID)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	s.logger.Debug("Snapshot written",
		zap.String("ownerID", ownerID),
		zap.Int("parameters", len(snapshot)),
	)
	return nil
}

func (s *SnapshotStore) snapshotPath(ownerID string) string {
	return filepath.Join(s.dir, sanitizeName(ownerID)+".json")
}
