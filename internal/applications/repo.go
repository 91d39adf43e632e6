package applications

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "application not found" }

type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	SetScore(ctx context.Context, id string, score int, notes string) error
	SetStatus(ctx context.Context, id, status string) error
}
