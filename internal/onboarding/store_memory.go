package onboarding

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used in tests and when no
// snapshot directory is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Snapshot)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.slots[userID]
	return snap, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[userID] = snap
	return nil
}

var _ SnapshotStore = (*MemoryStore)(nil)
