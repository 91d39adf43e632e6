package account

import (
	"context"
	"errors"
	"strings"

	"talentflow-backend/internal/onboarding"
)

// Service moves guest-scoped onboarding state onto an authenticated identity
// once the candidate signs in.
type Service struct {
	Snapshots onboarding.SnapshotStore
}

type ClaimResult struct {
	MigratedSnapshots int `json:"migratedSnapshots"`
}

func NewService(snapshots onboarding.SnapshotStore) *Service {
	return &Service{Snapshots: snapshots}
}

// ClaimGuest copies the guest's onboarding snapshot into the authed user's
// slot. An authed slot that is already further along wins; claiming twice is
// harmless.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	guestSnap, ok, err := s.Snapshots.Load(ctx, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	if !ok || (!guestSnap.Progress.HasStarted && !guestSnap.Completed) {
		return ClaimResult{}, nil
	}

	authedSnap, authedExists, err := s.Snapshots.Load(ctx, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	if authedExists && furtherAlong(authedSnap, guestSnap) {
		return ClaimResult{}, nil
	}

	if err := s.Snapshots.Save(ctx, authedUserID, guestSnap); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedSnapshots: 1}, nil
}

func furtherAlong(a, b onboarding.Snapshot) bool {
	if a.Completed != b.Completed {
		return a.Completed
	}
	return a.Progress.Step >= b.Progress.Step
}
