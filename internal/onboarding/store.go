package onboarding

import "context"

// Snapshot is the persisted per-candidate onboarding slot: the sanitized
// progress plus two flags kept alongside it. NewUser is a one-time flag,
// cleared the first time it is read back.
type Snapshot struct {
	Progress  Progress `json:"progress"`
	Completed bool     `json:"completed"`
	NewUser   bool     `json:"newUser"`
}

// SnapshotStore persists onboarding snapshots keyed by user id.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (Snapshot, bool, error)
	Save(ctx context.Context, userID string, snap Snapshot) error
}
